package mcpserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/shawnrushefsky/dmcp/internal/game/worldmap"
	"github.com/shawnrushefsky/dmcp/internal/storage/postgres"
)

// ShowMapInput is the MCP tool input for rendering a game map.
type ShowMapInput struct {
	GameID           string `json:"gameId" jsonschema:"ID of the game to map"`
	CenterLocationID string `json:"centerLocationId,omitempty" jsonschema:"location to center the map on; defaults to the player's location, then the game's first location"`
	Radius           *int   `json:"radius,omitempty" jsonschema:"maximum number of connections to walk from the center; omit for the whole world, 0 for the center alone"`
	CharacterID      string `json:"characterId,omitempty" jsonschema:"character whose position is marked with @ and used as the default center"`
}

// ShowMapHandler returns the handler for the show_map tool.
//
// World-shape problems (no locations yet, unknown center) come back as
// isError results the client can relay; only store failures are protocol
// errors.
func ShowMapHandler(locations LocationStore, characters CharacterStore) mcp.ToolHandlerFor[ShowMapInput, worldmap.Map] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ShowMapInput) (*mcp.CallToolResult, worldmap.Map, error) {
		locs, err := locations.ListByGame(ctx, input.GameID)
		if err != nil {
			return nil, worldmap.Map{}, fmt.Errorf("listing locations: %w", err)
		}

		var playerLocationID string
		if input.CharacterID != "" {
			c, err := characters.GetByID(ctx, input.CharacterID)
			if err != nil {
				if errors.Is(err, postgres.ErrCharacterNotFound) {
					return errorResult(fmt.Sprintf("no character with ID %q", input.CharacterID)), worldmap.Map{}, nil
				}
				return nil, worldmap.Map{}, fmt.Errorf("fetching character: %w", err)
			}
			playerLocationID = c.LocationID
		}

		radius := worldmap.UnboundedRadius
		if input.Radius != nil {
			radius = *input.Radius
		}

		m, err := worldmap.Render(locs, worldmap.Options{
			CenterID:         input.CenterLocationID,
			Radius:           radius,
			PlayerLocationID: playerLocationID,
		})
		if err != nil {
			switch {
			case errors.Is(err, worldmap.ErrEmptyWorld):
				return errorResult("the game has no locations to map yet"), worldmap.Map{}, nil
			case errors.Is(err, worldmap.ErrCenterNotFound):
				return errorResult("the requested center location is not part of this game"), worldmap.Map{}, nil
			}
			return nil, worldmap.Map{}, fmt.Errorf("rendering map: %w", err)
		}

		return textResult(m.Text), *m, nil
	}
}
