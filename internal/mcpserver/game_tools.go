package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/shawnrushefsky/dmcp/internal/game/world"
	"github.com/shawnrushefsky/dmcp/internal/storage/postgres"
)

// GameCreateInput is the MCP tool input for creating a game.
type GameCreateInput struct {
	Name    string `json:"name" jsonschema:"name of the game"`
	Setting string `json:"setting,omitempty" jsonschema:"optional prose description of the game's setting"`
}

// GameResult is the MCP tool output describing a single game.
type GameResult struct {
	ID        string `json:"id" jsonschema:"unique game identifier"`
	Name      string `json:"name" jsonschema:"name of the game"`
	Setting   string `json:"setting" jsonschema:"prose description of the game's setting"`
	CreatedAt string `json:"createdAt" jsonschema:"creation timestamp in RFC 3339 format"`
}

func toGameResult(g *world.Game) GameResult {
	return GameResult{
		ID:        g.ID,
		Name:      g.Name,
		Setting:   g.Setting,
		CreatedAt: g.CreatedAt.Format(time.RFC3339),
	}
}

// GameCreateHandler returns the handler for the game_create tool.
func GameCreateHandler(store GameStore) mcp.ToolHandlerFor[GameCreateInput, GameResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GameCreateInput) (*mcp.CallToolResult, GameResult, error) {
		if input.Name == "" {
			return errorResult("game name must not be empty"), GameResult{}, nil
		}

		created, err := store.Create(ctx, &world.Game{Name: input.Name, Setting: input.Setting})
		if err != nil {
			return nil, GameResult{}, fmt.Errorf("creating game: %w", err)
		}
		return textResult(fmt.Sprintf("Created game %q (%s)", created.Name, created.ID)), toGameResult(created), nil
	}
}

// GameGetInput is the MCP tool input for fetching a game.
type GameGetInput struct {
	GameID string `json:"gameId" jsonschema:"ID of the game to fetch"`
}

// GameGetHandler returns the handler for the game_get tool.
func GameGetHandler(store GameStore) mcp.ToolHandlerFor[GameGetInput, GameResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GameGetInput) (*mcp.CallToolResult, GameResult, error) {
		g, err := store.GetByID(ctx, input.GameID)
		if err != nil {
			if errors.Is(err, postgres.ErrGameNotFound) {
				return errorResult(fmt.Sprintf("no game with ID %q", input.GameID)), GameResult{}, nil
			}
			return nil, GameResult{}, fmt.Errorf("fetching game: %w", err)
		}
		return nil, toGameResult(g), nil
	}
}

// GameListInput is the (empty) MCP tool input for listing games.
type GameListInput struct{}

// GameListResult is the MCP tool output for listing games.
type GameListResult struct {
	Games []GameResult `json:"games" jsonschema:"all games, oldest first"`
}

// GameListHandler returns the handler for the game_list tool.
func GameListHandler(store GameStore) mcp.ToolHandlerFor[GameListInput, GameListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ GameListInput) (*mcp.CallToolResult, GameListResult, error) {
		games, err := store.List(ctx)
		if err != nil {
			return nil, GameListResult{}, fmt.Errorf("listing games: %w", err)
		}

		out := GameListResult{Games: make([]GameResult, 0, len(games))}
		for _, g := range games {
			out.Games = append(out.Games, toGameResult(g))
		}
		return nil, out, nil
	}
}
