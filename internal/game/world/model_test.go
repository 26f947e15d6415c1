package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestDirection_Normalize(t *testing.T) {
	assert.Equal(t, North, Direction("  North ").Normalize())
	assert.Equal(t, Southwest, Direction("SOUTHWEST").Normalize())
	assert.Equal(t, Direction("through the grate"), Direction("Through The Grate").Normalize().Normalize())
}

func TestDirection_IsStandard(t *testing.T) {
	for _, d := range StandardDirections {
		assert.True(t, d.IsStandard(), "expected %q to be standard", d)
	}
	assert.True(t, Direction(" NORTH ").IsStandard())
	assert.False(t, Direction("stairs").IsStandard())
	assert.False(t, Direction("portal").IsStandard())
}

func TestDirection_Opposite(t *testing.T) {
	pairs := [][2]Direction{
		{North, South},
		{East, West},
		{Northeast, Southwest},
		{Northwest, Southeast},
		{Up, Down},
	}
	for _, pair := range pairs {
		assert.Equal(t, pair[1], pair[0].Opposite())
		assert.Equal(t, pair[0], pair[1].Opposite())
	}
	assert.Equal(t, Direction(""), Direction("stairs").Opposite())
}

func TestPropertyOppositeIsInvolution(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		idx := rapid.IntRange(0, len(StandardDirections)-1).Draw(t, "dir_idx")
		d := StandardDirections[idx]
		assert.Equal(t, d, d.Opposite().Opposite(), "opposite should be an involution for %q", d)
	})
}

func TestLocation_ExitForDirection(t *testing.T) {
	location := &Location{
		ID: "gatehouse",
		Exits: []Exit{
			{Direction: North, Destination: "courtyard"},
			{Direction: "Through the Grate", Destination: "sewers"},
		},
	}

	exit, ok := location.ExitForDirection("NORTH")
	assert.True(t, ok)
	assert.Equal(t, "courtyard", exit.Destination)

	exit, ok = location.ExitForDirection("through the grate")
	assert.True(t, ok)
	assert.Equal(t, "sewers", exit.Destination)

	_, ok = location.ExitForDirection(South)
	assert.False(t, ok)
}

func TestValidateLocations_Valid(t *testing.T) {
	assert.NoError(t, ValidateLocations(validTestLocations()))
}

func TestValidateLocations_EmptyID(t *testing.T) {
	locations := validTestLocations()
	locations[0].ID = ""
	assert.Error(t, ValidateLocations(locations))
}

func TestValidateLocations_DuplicateID(t *testing.T) {
	locations := validTestLocations()
	locations[1].ID = locations[0].ID
	assert.Error(t, ValidateLocations(locations))
}

func TestValidateLocations_EmptyName(t *testing.T) {
	locations := validTestLocations()
	locations[0].Name = ""
	assert.Error(t, ValidateLocations(locations))
}

func TestValidateLocations_DanglingExit(t *testing.T) {
	locations := validTestLocations()
	locations[0].Exits = []Exit{{Direction: North, Destination: "nonexistent"}}
	assert.Error(t, ValidateLocations(locations))
}

func TestValidateLocations_EmptyExitDestination(t *testing.T) {
	locations := validTestLocations()
	locations[0].Exits = []Exit{{Direction: North}}
	assert.Error(t, ValidateLocations(locations))
}

func validTestLocations() []*Location {
	return []*Location{
		{
			ID:          "gatehouse",
			Name:        "Gatehouse",
			Description: "A squat stone gatehouse.",
			Exits: []Exit{
				{Direction: North, Destination: "courtyard"},
			},
		},
		{
			ID:          "courtyard",
			Name:        "Courtyard",
			Description: "An open courtyard.",
			Exits: []Exit{
				{Direction: South, Destination: "gatehouse"},
			},
		},
	}
}
