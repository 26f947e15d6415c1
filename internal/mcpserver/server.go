// Package mcpserver exposes the game backend as MCP tools over stdio.
//
// Handlers depend on narrow store interfaces rather than the concrete
// repositories so they can be unit-tested against in-memory fakes.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/shawnrushefsky/dmcp/internal/config"
	"github.com/shawnrushefsky/dmcp/internal/game/character"
	"github.com/shawnrushefsky/dmcp/internal/game/world"
)

// GameStore is the subset of game persistence the tool handlers need.
type GameStore interface {
	Create(ctx context.Context, g *world.Game) (*world.Game, error)
	GetByID(ctx context.Context, id string) (*world.Game, error)
	List(ctx context.Context) ([]*world.Game, error)
}

// LocationStore is the subset of location persistence the tool handlers need.
type LocationStore interface {
	Create(ctx context.Context, l *world.Location) (*world.Location, error)
	GetByID(ctx context.Context, id string) (*world.Location, error)
	ListByGame(ctx context.Context, gameID string) ([]*world.Location, error)
	SetExits(ctx context.Context, id string, exits []world.Exit) error
}

// CharacterStore is the subset of character persistence the tool handlers need.
type CharacterStore interface {
	Create(ctx context.Context, c *character.Character) (*character.Character, error)
	GetByID(ctx context.Context, id string) (*character.Character, error)
	ListByGame(ctx context.Context, gameID string) ([]*character.Character, error)
	UpdateState(ctx context.Context, id string, currentHP, level int, locationID string) (*character.Character, error)
}

// Stores bundles the persistence interfaces the tool set is wired against.
type Stores struct {
	Games      GameStore
	Locations  LocationStore
	Characters CharacterStore
}

// Server wraps an MCP server configured with the full tool set.
type Server struct {
	mcp    *mcp.Server
	logger *zap.Logger
}

// New creates a Server advertising the identity from cfg with all tools
// registered against the given stores.
//
// Precondition: logger must be non-nil; all stores must be populated.
func New(cfg config.MCPConfig, logger *zap.Logger, stores Stores) *Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: cfg.Name, Version: cfg.Version}, nil)
	registerTools(srv, stores)
	return &Server{mcp: srv, logger: logger}
}

// Run serves MCP over stdio until the client disconnects or ctx is canceled.
//
// Postcondition: Returns nil on a clean client disconnect.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("mcp server listening on stdio")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

func registerTools(srv *mcp.Server, stores Stores) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "game_create",
		Description: "Create a new game session with a name and optional setting description.",
	}, GameCreateHandler(stores.Games))
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "game_get",
		Description: "Fetch a game by its ID.",
	}, GameGetHandler(stores.Games))
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "game_list",
		Description: "List all games, oldest first.",
	}, GameListHandler(stores.Games))

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "location_create",
		Description: "Create a location in a game, optionally linked to an existing location with a reciprocal exit.",
	}, LocationCreateHandler(stores.Locations))
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "location_get",
		Description: "Fetch a location by its ID, including its exits.",
	}, LocationGetHandler(stores.Locations))
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "location_list",
		Description: "List a game's locations in creation order.",
	}, LocationListHandler(stores.Locations))
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "location_link",
		Description: "Connect two existing locations with an exit, reciprocal by default.",
	}, LocationLinkHandler(stores.Locations))

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "character_create",
		Description: "Create a player character or NPC in a game.",
	}, CharacterCreateHandler(stores.Characters))
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "character_get",
		Description: "Fetch a character by its ID.",
	}, CharacterGetHandler(stores.Characters))
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "character_list",
		Description: "List a game's characters, oldest first.",
	}, CharacterListHandler(stores.Characters))
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "character_update_state",
		Description: "Update a character's hit points, level, or location.",
	}, CharacterUpdateStateHandler(stores.Characters))

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "show_map",
		Description: "Render an ASCII map of a game's locations around a center point.",
	}, ShowMapHandler(stores.Locations, stores.Characters))

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "roll_dice",
		Description: "Roll a dice expression such as d20, 2d6+3, or 4d6kh3.",
	}, RollDiceHandler())
}

// errorResult builds an isError tool result with a plain-text explanation.
// Domain-level failures (bad input, missing records) surface this way so the
// client model can read and react to them; only infrastructure failures
// travel as protocol errors.
func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
	}
}

func textResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
	}
}
