package mcpserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/shawnrushefsky/dmcp/internal/game/character"
	"github.com/shawnrushefsky/dmcp/internal/storage/postgres"
)

// AbilityScoresInput carries the six ability scores on character creation.
// Zero values default to 10.
type AbilityScoresInput struct {
	Strength     int `json:"strength,omitempty" jsonschema:"strength score, defaults to 10"`
	Dexterity    int `json:"dexterity,omitempty" jsonschema:"dexterity score, defaults to 10"`
	Constitution int `json:"constitution,omitempty" jsonschema:"constitution score, defaults to 10"`
	Intelligence int `json:"intelligence,omitempty" jsonschema:"intelligence score, defaults to 10"`
	Wisdom       int `json:"wisdom,omitempty" jsonschema:"wisdom score, defaults to 10"`
	Charisma     int `json:"charisma,omitempty" jsonschema:"charisma score, defaults to 10"`
}

func (a AbilityScoresInput) toScores() character.AbilityScores {
	defaulted := func(v int) int {
		if v == 0 {
			return 10
		}
		return v
	}
	return character.AbilityScores{
		Strength:     defaulted(a.Strength),
		Dexterity:    defaulted(a.Dexterity),
		Constitution: defaulted(a.Constitution),
		Intelligence: defaulted(a.Intelligence),
		Wisdom:       defaulted(a.Wisdom),
		Charisma:     defaulted(a.Charisma),
	}
}

// CharacterCreateInput is the MCP tool input for creating a character.
type CharacterCreateInput struct {
	GameID     string              `json:"gameId" jsonschema:"ID of the owning game"`
	Name       string              `json:"name" jsonschema:"name of the character, unique within the game"`
	Class      string              `json:"class,omitempty" jsonschema:"character class, e.g. fighter or wizard"`
	Level      int                 `json:"level,omitempty" jsonschema:"character level, defaults to 1"`
	IsNPC      bool                `json:"isNpc,omitempty" jsonschema:"whether the character is a non-player character"`
	LocationID string              `json:"locationId,omitempty" jsonschema:"optional starting location ID"`
	Abilities  *AbilityScoresInput `json:"abilities,omitempty" jsonschema:"ability scores, each defaulting to 10"`
	MaxHP      int                 `json:"maxHp" jsonschema:"maximum hit points"`
}

// CharacterResult is the MCP tool output describing a single character.
type CharacterResult struct {
	ID         string                  `json:"id" jsonschema:"unique character identifier"`
	GameID     string                  `json:"gameId" jsonschema:"ID of the owning game"`
	Name       string                  `json:"name" jsonschema:"name of the character"`
	Class      string                  `json:"class" jsonschema:"character class"`
	Level      int                     `json:"level" jsonschema:"character level"`
	IsNPC      bool                    `json:"isNpc" jsonschema:"whether the character is a non-player character"`
	LocationID string                  `json:"locationId,omitempty" jsonschema:"current location ID, empty when unplaced"`
	Abilities  character.AbilityScores `json:"abilities" jsonschema:"ability scores"`
	MaxHP      int                     `json:"maxHp" jsonschema:"maximum hit points"`
	CurrentHP  int                     `json:"currentHp" jsonschema:"current hit points"`
}

func toCharacterResult(c *character.Character) CharacterResult {
	return CharacterResult{
		ID:         c.ID,
		GameID:     c.GameID,
		Name:       c.Name,
		Class:      c.Class,
		Level:      c.Level,
		IsNPC:      c.IsNPC,
		LocationID: c.LocationID,
		Abilities:  c.Abilities,
		MaxHP:      c.MaxHP,
		CurrentHP:  c.CurrentHP,
	}
}

// CharacterCreateHandler returns the handler for the character_create tool.
func CharacterCreateHandler(store CharacterStore) mcp.ToolHandlerFor[CharacterCreateInput, CharacterResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CharacterCreateInput) (*mcp.CallToolResult, CharacterResult, error) {
		level := input.Level
		if level == 0 {
			level = 1
		}
		abilities := AbilityScoresInput{}
		if input.Abilities != nil {
			abilities = *input.Abilities
		}

		c := &character.Character{
			GameID:     input.GameID,
			Name:       input.Name,
			Class:      input.Class,
			Level:      level,
			IsNPC:      input.IsNPC,
			LocationID: input.LocationID,
			Abilities:  abilities.toScores(),
			MaxHP:      input.MaxHP,
			CurrentHP:  input.MaxHP,
		}
		if err := c.Validate(); err != nil {
			return errorResult(err.Error()), CharacterResult{}, nil
		}

		created, err := store.Create(ctx, c)
		if err != nil {
			switch {
			case errors.Is(err, postgres.ErrCharacterNameTaken):
				return errorResult(fmt.Sprintf("the game already has a character named %q", input.Name)), CharacterResult{}, nil
			case errors.Is(err, postgres.ErrGameNotFound):
				return errorResult(fmt.Sprintf("no game with ID %q", input.GameID)), CharacterResult{}, nil
			case errors.Is(err, postgres.ErrLocationNotFound):
				return errorResult(fmt.Sprintf("no location with ID %q", input.LocationID)), CharacterResult{}, nil
			}
			return nil, CharacterResult{}, fmt.Errorf("creating character: %w", err)
		}
		return textResult(fmt.Sprintf("Created character %q (%s)", created.Name, created.ID)), toCharacterResult(created), nil
	}
}

// CharacterGetInput is the MCP tool input for fetching a character.
type CharacterGetInput struct {
	CharacterID string `json:"characterId" jsonschema:"ID of the character to fetch"`
}

// CharacterGetHandler returns the handler for the character_get tool.
func CharacterGetHandler(store CharacterStore) mcp.ToolHandlerFor[CharacterGetInput, CharacterResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CharacterGetInput) (*mcp.CallToolResult, CharacterResult, error) {
		c, err := store.GetByID(ctx, input.CharacterID)
		if err != nil {
			if errors.Is(err, postgres.ErrCharacterNotFound) {
				return errorResult(fmt.Sprintf("no character with ID %q", input.CharacterID)), CharacterResult{}, nil
			}
			return nil, CharacterResult{}, fmt.Errorf("fetching character: %w", err)
		}
		return nil, toCharacterResult(c), nil
	}
}

// CharacterListInput is the MCP tool input for listing a game's characters.
type CharacterListInput struct {
	GameID string `json:"gameId" jsonschema:"ID of the game whose characters to list"`
}

// CharacterListResult is the MCP tool output for listing characters.
type CharacterListResult struct {
	Characters []CharacterResult `json:"characters" jsonschema:"the game's characters, oldest first"`
}

// CharacterListHandler returns the handler for the character_list tool.
func CharacterListHandler(store CharacterStore) mcp.ToolHandlerFor[CharacterListInput, CharacterListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CharacterListInput) (*mcp.CallToolResult, CharacterListResult, error) {
		chars, err := store.ListByGame(ctx, input.GameID)
		if err != nil {
			return nil, CharacterListResult{}, fmt.Errorf("listing characters: %w", err)
		}

		out := CharacterListResult{Characters: make([]CharacterResult, 0, len(chars))}
		for _, c := range chars {
			out.Characters = append(out.Characters, toCharacterResult(c))
		}
		return nil, out, nil
	}
}

// CharacterUpdateStateInput is the MCP tool input for updating play state.
// Omitted fields keep their current values; set clearLocation to remove the
// character from the map entirely.
type CharacterUpdateStateInput struct {
	CharacterID   string  `json:"characterId" jsonschema:"ID of the character to update"`
	CurrentHP     *int    `json:"currentHp,omitempty" jsonschema:"new current hit points"`
	Level         *int    `json:"level,omitempty" jsonschema:"new character level"`
	LocationID    *string `json:"locationId,omitempty" jsonschema:"new location ID"`
	ClearLocation bool    `json:"clearLocation,omitempty" jsonschema:"remove the character from its location"`
}

// CharacterUpdateStateHandler returns the handler for the character_update_state tool.
func CharacterUpdateStateHandler(store CharacterStore) mcp.ToolHandlerFor[CharacterUpdateStateInput, CharacterResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CharacterUpdateStateInput) (*mcp.CallToolResult, CharacterResult, error) {
		current, err := store.GetByID(ctx, input.CharacterID)
		if err != nil {
			if errors.Is(err, postgres.ErrCharacterNotFound) {
				return errorResult(fmt.Sprintf("no character with ID %q", input.CharacterID)), CharacterResult{}, nil
			}
			return nil, CharacterResult{}, fmt.Errorf("fetching character: %w", err)
		}

		hp := current.CurrentHP
		if input.CurrentHP != nil {
			hp = *input.CurrentHP
		}
		level := current.Level
		if input.Level != nil {
			level = *input.Level
		}
		locationID := current.LocationID
		if input.ClearLocation {
			locationID = ""
		} else if input.LocationID != nil {
			locationID = *input.LocationID
		}

		if hp < 0 || hp > current.MaxHP {
			return errorResult(fmt.Sprintf("current HP must be between 0 and %d", current.MaxHP)), CharacterResult{}, nil
		}
		if level < 1 {
			return errorResult("level must be at least 1"), CharacterResult{}, nil
		}

		updated, err := store.UpdateState(ctx, input.CharacterID, hp, level, locationID)
		if err != nil {
			if errors.Is(err, postgres.ErrLocationNotFound) {
				return errorResult(fmt.Sprintf("no location with ID %q", locationID)), CharacterResult{}, nil
			}
			return nil, CharacterResult{}, fmt.Errorf("updating character state: %w", err)
		}
		return nil, toCharacterResult(updated), nil
	}
}
