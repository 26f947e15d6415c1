// Package character defines the character domain model for narrative games.
package character

import (
	"fmt"
	"time"
)

// AbilityScores holds the six d20-style ability score values for a character.
type AbilityScores struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
}

// Modifier returns the d20 ability modifier for a given score: (score - 10) / 2.
func (a AbilityScores) Modifier(score int) int {
	return (score - 10) / 2
}

// Character represents a character's persistent state within one game.
// Both player characters and NPCs share this shape; IsNPC distinguishes them.
//
// ID is set by the persistence layer; an empty ID indicates an unsaved character.
type Character struct {
	ID     string
	GameID string

	Name  string
	Class string
	Level int
	IsNPC bool

	// LocationID is the character's current location; empty means unplaced.
	LocationID string

	Abilities AbilityScores
	MaxHP     int
	CurrentHP int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks character invariants prior to persistence.
//
// Postcondition: Returns nil if valid, or an error describing the first violation.
func (c *Character) Validate() error {
	if c.GameID == "" {
		return fmt.Errorf("character: game ID must not be empty")
	}
	if c.Name == "" {
		return fmt.Errorf("character: name must not be empty")
	}
	if c.Level < 1 {
		return fmt.Errorf("character %q: level must be >= 1, got %d", c.Name, c.Level)
	}
	if c.MaxHP < 1 {
		return fmt.Errorf("character %q: max HP must be >= 1, got %d", c.Name, c.MaxHP)
	}
	if c.CurrentHP < 0 || c.CurrentHP > c.MaxHP {
		return fmt.Errorf("character %q: current HP must be in [0, %d], got %d", c.Name, c.MaxHP, c.CurrentHP)
	}
	return nil
}
