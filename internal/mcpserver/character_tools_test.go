package mcpserver_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shawnrushefsky/dmcp/internal/mcpserver"
)

func createCharacter(t *testing.T, store *fakeCharacterStore, input mcpserver.CharacterCreateInput) mcpserver.CharacterResult {
	t.Helper()
	res, out, err := mcpserver.CharacterCreateHandler(store)(context.Background(), nil, input)
	require.NoError(t, err)
	require.NotNil(t, res)
	require.False(t, res.IsError)
	return out
}

func TestCharacterCreateHandler_Defaults(t *testing.T) {
	store := &fakeCharacterStore{}

	out := createCharacter(t, store, mcpserver.CharacterCreateInput{
		GameID: "game-1",
		Name:   "Wren",
		MaxHP:  12,
	})

	assert.NotEmpty(t, out.ID)
	assert.Equal(t, 1, out.Level)
	assert.False(t, out.IsNPC)
	assert.Equal(t, 12, out.MaxHP)
	assert.Equal(t, 12, out.CurrentHP)
	assert.Equal(t, 10, out.Abilities.Strength)
	assert.Equal(t, 10, out.Abilities.Charisma)
}

func TestCharacterCreateHandler_ExplicitAbilities(t *testing.T) {
	store := &fakeCharacterStore{}

	out := createCharacter(t, store, mcpserver.CharacterCreateInput{
		GameID:    "game-1",
		Name:      "Grimnir",
		Class:     "cleric",
		Level:     3,
		IsNPC:     true,
		MaxHP:     24,
		Abilities: &mcpserver.AbilityScoresInput{Strength: 16, Wisdom: 18},
	})

	assert.Equal(t, "cleric", out.Class)
	assert.Equal(t, 3, out.Level)
	assert.True(t, out.IsNPC)
	assert.Equal(t, 16, out.Abilities.Strength)
	assert.Equal(t, 18, out.Abilities.Wisdom)
	// Unspecified scores still default.
	assert.Equal(t, 10, out.Abilities.Dexterity)
}

func TestCharacterCreateHandler_Invalid(t *testing.T) {
	handler := mcpserver.CharacterCreateHandler(&fakeCharacterStore{})

	res, _, err := handler(context.Background(), nil, mcpserver.CharacterCreateInput{
		GameID: "game-1",
		Name:   "Ghost",
		// MaxHP missing
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.IsError)
}

func TestCharacterCreateHandler_DuplicateName(t *testing.T) {
	store := &fakeCharacterStore{}
	createCharacter(t, store, mcpserver.CharacterCreateInput{GameID: "game-1", Name: "Wren", MaxHP: 10})

	res, _, err := mcpserver.CharacterCreateHandler(store)(context.Background(), nil,
		mcpserver.CharacterCreateInput{GameID: "game-1", Name: "Wren", MaxHP: 10})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.IsError)
}

func TestCharacterGetHandler_NotFound(t *testing.T) {
	handler := mcpserver.CharacterGetHandler(&fakeCharacterStore{})

	res, _, err := handler(context.Background(), nil, mcpserver.CharacterGetInput{CharacterID: "missing"})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.IsError)
}

func TestCharacterListHandler(t *testing.T) {
	store := &fakeCharacterStore{}
	createCharacter(t, store, mcpserver.CharacterCreateInput{GameID: "game-1", Name: "Wren", MaxHP: 10})
	createCharacter(t, store, mcpserver.CharacterCreateInput{GameID: "game-1", Name: "Barkeep", MaxHP: 6, IsNPC: true})
	createCharacter(t, store, mcpserver.CharacterCreateInput{GameID: "game-2", Name: "Stranger", MaxHP: 8})

	res, out, err := mcpserver.CharacterListHandler(store)(context.Background(), nil,
		mcpserver.CharacterListInput{GameID: "game-1"})
	require.NoError(t, err)
	assert.Nil(t, res)
	require.Len(t, out.Characters, 2)
	assert.Equal(t, "Wren", out.Characters[0].Name)
	assert.Equal(t, "Barkeep", out.Characters[1].Name)
}

func TestCharacterUpdateStateHandler_PartialUpdate(t *testing.T) {
	store := &fakeCharacterStore{}
	created := createCharacter(t, store, mcpserver.CharacterCreateInput{GameID: "game-1", Name: "Wren", MaxHP: 10})

	hp := 4
	res, out, err := mcpserver.CharacterUpdateStateHandler(store)(context.Background(), nil,
		mcpserver.CharacterUpdateStateInput{CharacterID: created.ID, CurrentHP: &hp})
	require.NoError(t, err)
	assert.Nil(t, res)

	assert.Equal(t, 4, out.CurrentHP)
	// Untouched fields keep their values.
	assert.Equal(t, 1, out.Level)
	assert.Equal(t, created.LocationID, out.LocationID)
}

func TestCharacterUpdateStateHandler_MoveAndClearLocation(t *testing.T) {
	locs := &fakeLocationStore{}
	store := &fakeCharacterStore{locations: locs}
	loc := createLocation(t, locs, "game-1", "Moot Hall")
	created := createCharacter(t, store, mcpserver.CharacterCreateInput{GameID: "game-1", Name: "Wren", MaxHP: 10})

	handler := mcpserver.CharacterUpdateStateHandler(store)

	_, out, err := handler(context.Background(), nil,
		mcpserver.CharacterUpdateStateInput{CharacterID: created.ID, LocationID: &loc.ID})
	require.NoError(t, err)
	assert.Equal(t, loc.ID, out.LocationID)

	_, out, err = handler(context.Background(), nil,
		mcpserver.CharacterUpdateStateInput{CharacterID: created.ID, ClearLocation: true})
	require.NoError(t, err)
	assert.Empty(t, out.LocationID)
}

func TestCharacterUpdateStateHandler_HPOutOfRange(t *testing.T) {
	store := &fakeCharacterStore{}
	created := createCharacter(t, store, mcpserver.CharacterCreateInput{GameID: "game-1", Name: "Wren", MaxHP: 10})

	hp := 11
	res, _, err := mcpserver.CharacterUpdateStateHandler(store)(context.Background(), nil,
		mcpserver.CharacterUpdateStateInput{CharacterID: created.ID, CurrentHP: &hp})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.IsError)
}

func TestCharacterUpdateStateHandler_UnknownLocation(t *testing.T) {
	locs := &fakeLocationStore{}
	store := &fakeCharacterStore{locations: locs}
	created := createCharacter(t, store, mcpserver.CharacterCreateInput{GameID: "game-1", Name: "Wren", MaxHP: 10})

	badLoc := "loc-99"
	res, _, err := mcpserver.CharacterUpdateStateHandler(store)(context.Background(), nil,
		mcpserver.CharacterUpdateStateInput{CharacterID: created.ID, LocationID: &badLoc})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.IsError)
}
