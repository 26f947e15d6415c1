// Package world provides the narrative world model: games, locations, and exits.
package world

import (
	"fmt"
	"strings"
	"time"
)

// Direction represents a compass direction or named exit label.
// Labels are free-form; the ten standard directions get special handling
// (reciprocal linking, map offsets), everything else is carried verbatim.
type Direction string

// Standard compass directions and vertical movements.
const (
	North     Direction = "north"
	South     Direction = "south"
	East      Direction = "east"
	West      Direction = "west"
	Northeast Direction = "northeast"
	Northwest Direction = "northwest"
	Southeast Direction = "southeast"
	Southwest Direction = "southwest"
	Up        Direction = "up"
	Down      Direction = "down"
)

// StandardDirections contains all standard compass and vertical directions.
var StandardDirections = []Direction{
	North, South, East, West,
	Northeast, Northwest, Southeast, Southwest,
	Up, Down,
}

// Normalize returns the direction trimmed and lowercased. All direction
// comparisons in the backend go through Normalize so that "North ", "NORTH",
// and "north" name the same exit.
func (d Direction) Normalize() Direction {
	return Direction(strings.ToLower(strings.TrimSpace(string(d))))
}

// IsStandard reports whether d normalizes to one of the ten standard directions.
func (d Direction) IsStandard() bool {
	n := d.Normalize()
	for _, sd := range StandardDirections {
		if n == sd {
			return true
		}
	}
	return false
}

// Opposite returns the opposite of a standard direction, used when creating
// reciprocal exits. For custom directions, it returns an empty string.
//
// Precondition: d should be a standard direction for a meaningful result.
func (d Direction) Opposite() Direction {
	switch d.Normalize() {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	case Northeast:
		return Southwest
	case Southwest:
		return Northeast
	case Northwest:
		return Southeast
	case Southeast:
		return Northwest
	case Up:
		return Down
	case Down:
		return Up
	default:
		return ""
	}
}

// Exit represents a directed passage from one location to another.
// A two-way path is modeled as two independent exits, one stored on each
// endpoint; the two need not be geometric opposites.
type Exit struct {
	// Direction is the compass direction or named exit (e.g., "through the grate").
	Direction Direction `json:"direction"`
	// Destination is the ID of the destination location.
	Destination string `json:"destination"`
	// Description optionally describes the passage itself.
	Description string `json:"description,omitempty"`
}

// Location represents a place in a game's world.
type Location struct {
	// ID uniquely identifies this location.
	ID string
	// GameID identifies the game this location belongs to.
	GameID string
	// Name is the short display name of the location.
	Name string
	// Description is the narrative description shown to players.
	Description string
	// Exits lists all passages leading out of this location, in creation order.
	Exits []Exit
	// CreatedAt and UpdatedAt are set by the persistence layer.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ExitForDirection returns the exit in the given direction, if one exists.
// Direction matching is normalized.
//
// Postcondition: Returns (exit, true) if found, or (Exit{}, false) otherwise.
func (l *Location) ExitForDirection(dir Direction) (Exit, bool) {
	want := dir.Normalize()
	for _, e := range l.Exits {
		if e.Direction.Normalize() == want {
			return e, true
		}
	}
	return Exit{}, false
}

// Game represents one narrative campaign: a session container that owns
// locations, characters, and events.
type Game struct {
	// ID uniquely identifies this game.
	ID string
	// Name is the display name of the game.
	Name string
	// Setting summarizes the campaign premise.
	Setting string
	// CreatedAt and UpdatedAt are set by the persistence layer.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateLocations checks invariants over a full location set: unique IDs,
// non-empty names, and exits that resolve within the set. Dangling exits are
// tolerated at runtime (the map engine skips them) but rejected in authored
// content, which is where this is called.
//
// Postcondition: Returns nil if valid, or an error describing the first violation.
func ValidateLocations(locations []*Location) error {
	byID := make(map[string]*Location, len(locations))
	for _, loc := range locations {
		if loc.ID == "" {
			return fmt.Errorf("location %q: ID must not be empty", loc.Name)
		}
		if _, exists := byID[loc.ID]; exists {
			return fmt.Errorf("duplicate location ID: %q", loc.ID)
		}
		if loc.Name == "" {
			return fmt.Errorf("location %q: name must not be empty", loc.ID)
		}
		byID[loc.ID] = loc
	}
	for _, loc := range locations {
		for _, exit := range loc.Exits {
			if exit.Destination == "" {
				return fmt.Errorf("location %q: exit %q has empty destination", loc.ID, exit.Direction)
			}
			if _, ok := byID[exit.Destination]; !ok {
				return fmt.Errorf("location %q: exit %q targets unknown location %q", loc.ID, exit.Direction, exit.Destination)
			}
		}
	}
	return nil
}
