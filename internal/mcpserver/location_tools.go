package mcpserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/shawnrushefsky/dmcp/internal/game/world"
	"github.com/shawnrushefsky/dmcp/internal/storage/postgres"
)

// ExitResult is one outgoing exit in a location tool result.
type ExitResult struct {
	Direction   string `json:"direction" jsonschema:"direction of travel, e.g. north or up"`
	Destination string `json:"destination" jsonschema:"ID of the destination location"`
	Description string `json:"description,omitempty" jsonschema:"optional description of the passage"`
}

// LocationResult is the MCP tool output describing a single location.
type LocationResult struct {
	ID          string       `json:"id" jsonschema:"unique location identifier"`
	GameID      string       `json:"gameId" jsonschema:"ID of the owning game"`
	Name        string       `json:"name" jsonschema:"name of the location"`
	Description string       `json:"description" jsonschema:"prose description of the location"`
	Exits       []ExitResult `json:"exits" jsonschema:"outgoing exits"`
}

func toLocationResult(l *world.Location) LocationResult {
	out := LocationResult{
		ID:          l.ID,
		GameID:      l.GameID,
		Name:        l.Name,
		Description: l.Description,
		Exits:       make([]ExitResult, 0, len(l.Exits)),
	}
	for _, e := range l.Exits {
		out.Exits = append(out.Exits, ExitResult{
			Direction:   string(e.Direction),
			Destination: e.Destination,
			Description: e.Description,
		})
	}
	return out
}

// LocationCreateInput is the MCP tool input for creating a location.
// When FromLocationID and Direction are both set, the new location is
// linked to the existing one in that direction, with a reciprocal exit
// back when the direction has a well-defined opposite.
type LocationCreateInput struct {
	GameID         string `json:"gameId" jsonschema:"ID of the owning game"`
	Name           string `json:"name" jsonschema:"name of the location, unique within the game"`
	Description    string `json:"description,omitempty" jsonschema:"optional prose description"`
	FromLocationID string `json:"fromLocationId,omitempty" jsonschema:"optional existing location to link from"`
	Direction      string `json:"direction,omitempty" jsonschema:"direction of travel from the existing location to the new one"`
}

// LocationCreateHandler returns the handler for the location_create tool.
func LocationCreateHandler(store LocationStore) mcp.ToolHandlerFor[LocationCreateInput, LocationResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input LocationCreateInput) (*mcp.CallToolResult, LocationResult, error) {
		if input.Name == "" {
			return errorResult("location name must not be empty"), LocationResult{}, nil
		}
		if (input.FromLocationID == "") != (input.Direction == "") {
			return errorResult("fromLocationId and direction must be provided together"), LocationResult{}, nil
		}

		var from *world.Location
		dir := world.Direction(input.Direction).Normalize()
		if input.FromLocationID != "" {
			var err error
			from, err = store.GetByID(ctx, input.FromLocationID)
			if err != nil {
				if errors.Is(err, postgres.ErrLocationNotFound) {
					return errorResult(fmt.Sprintf("no location with ID %q", input.FromLocationID)), LocationResult{}, nil
				}
				return nil, LocationResult{}, fmt.Errorf("fetching source location: %w", err)
			}
			if from.GameID != input.GameID {
				return errorResult("source location belongs to a different game"), LocationResult{}, nil
			}
			if _, taken := from.ExitForDirection(dir); taken {
				return errorResult(fmt.Sprintf("%q already has an exit leading %s", from.Name, dir)), LocationResult{}, nil
			}
		}

		created, err := store.Create(ctx, &world.Location{
			GameID:      input.GameID,
			Name:        input.Name,
			Description: input.Description,
		})
		if err != nil {
			switch {
			case errors.Is(err, postgres.ErrLocationNameTaken):
				return errorResult(fmt.Sprintf("the game already has a location named %q", input.Name)), LocationResult{}, nil
			case errors.Is(err, postgres.ErrGameNotFound):
				return errorResult(fmt.Sprintf("no game with ID %q", input.GameID)), LocationResult{}, nil
			}
			return nil, LocationResult{}, fmt.Errorf("creating location: %w", err)
		}

		if from != nil {
			if err := linkLocations(ctx, store, from, created, dir, false); err != nil {
				return nil, LocationResult{}, err
			}
			// Reload so the result reflects the reciprocal exit.
			if reloaded, err := store.GetByID(ctx, created.ID); err == nil {
				created = reloaded
			}
		}

		return textResult(fmt.Sprintf("Created location %q (%s)", created.Name, created.ID)), toLocationResult(created), nil
	}
}

// LocationGetInput is the MCP tool input for fetching a location.
type LocationGetInput struct {
	LocationID string `json:"locationId" jsonschema:"ID of the location to fetch"`
}

// LocationGetHandler returns the handler for the location_get tool.
func LocationGetHandler(store LocationStore) mcp.ToolHandlerFor[LocationGetInput, LocationResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input LocationGetInput) (*mcp.CallToolResult, LocationResult, error) {
		l, err := store.GetByID(ctx, input.LocationID)
		if err != nil {
			if errors.Is(err, postgres.ErrLocationNotFound) {
				return errorResult(fmt.Sprintf("no location with ID %q", input.LocationID)), LocationResult{}, nil
			}
			return nil, LocationResult{}, fmt.Errorf("fetching location: %w", err)
		}
		return nil, toLocationResult(l), nil
	}
}

// LocationListInput is the MCP tool input for listing a game's locations.
type LocationListInput struct {
	GameID string `json:"gameId" jsonschema:"ID of the game whose locations to list"`
}

// LocationListResult is the MCP tool output for listing locations.
type LocationListResult struct {
	Locations []LocationResult `json:"locations" jsonschema:"the game's locations in creation order"`
}

// LocationListHandler returns the handler for the location_list tool.
func LocationListHandler(store LocationStore) mcp.ToolHandlerFor[LocationListInput, LocationListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input LocationListInput) (*mcp.CallToolResult, LocationListResult, error) {
		locs, err := store.ListByGame(ctx, input.GameID)
		if err != nil {
			return nil, LocationListResult{}, fmt.Errorf("listing locations: %w", err)
		}

		out := LocationListResult{Locations: make([]LocationResult, 0, len(locs))}
		for _, l := range locs {
			out.Locations = append(out.Locations, toLocationResult(l))
		}
		return nil, out, nil
	}
}

// LocationLinkInput is the MCP tool input for connecting two locations.
type LocationLinkInput struct {
	FromLocationID string `json:"fromLocationId" jsonschema:"ID of the location the exit leads from"`
	ToLocationID   string `json:"toLocationId" jsonschema:"ID of the location the exit leads to"`
	Direction      string `json:"direction" jsonschema:"direction of travel from the source location"`
	OneWay         bool   `json:"oneWay,omitempty" jsonschema:"skip the reciprocal exit back from the destination"`
}

// LocationLinkResult is the MCP tool output for linking locations.
type LocationLinkResult struct {
	From LocationResult `json:"from" jsonschema:"the source location after linking"`
	To   LocationResult `json:"to" jsonschema:"the destination location after linking"`
}

// LocationLinkHandler returns the handler for the location_link tool.
func LocationLinkHandler(store LocationStore) mcp.ToolHandlerFor[LocationLinkInput, LocationLinkResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input LocationLinkInput) (*mcp.CallToolResult, LocationLinkResult, error) {
		dir := world.Direction(input.Direction).Normalize()
		if dir == "" {
			return errorResult("direction must not be empty"), LocationLinkResult{}, nil
		}
		if input.FromLocationID == input.ToLocationID {
			return errorResult("cannot link a location to itself"), LocationLinkResult{}, nil
		}

		from, err := store.GetByID(ctx, input.FromLocationID)
		if err != nil {
			if errors.Is(err, postgres.ErrLocationNotFound) {
				return errorResult(fmt.Sprintf("no location with ID %q", input.FromLocationID)), LocationLinkResult{}, nil
			}
			return nil, LocationLinkResult{}, fmt.Errorf("fetching source location: %w", err)
		}
		to, err := store.GetByID(ctx, input.ToLocationID)
		if err != nil {
			if errors.Is(err, postgres.ErrLocationNotFound) {
				return errorResult(fmt.Sprintf("no location with ID %q", input.ToLocationID)), LocationLinkResult{}, nil
			}
			return nil, LocationLinkResult{}, fmt.Errorf("fetching destination location: %w", err)
		}
		if from.GameID != to.GameID {
			return errorResult("locations belong to different games"), LocationLinkResult{}, nil
		}
		if _, taken := from.ExitForDirection(dir); taken {
			return errorResult(fmt.Sprintf("%q already has an exit leading %s", from.Name, dir)), LocationLinkResult{}, nil
		}

		if err := linkLocations(ctx, store, from, to, dir, input.OneWay); err != nil {
			return nil, LocationLinkResult{}, err
		}

		from, err = store.GetByID(ctx, from.ID)
		if err != nil {
			return nil, LocationLinkResult{}, fmt.Errorf("reloading source location: %w", err)
		}
		to, err = store.GetByID(ctx, to.ID)
		if err != nil {
			return nil, LocationLinkResult{}, fmt.Errorf("reloading destination location: %w", err)
		}

		return textResult(fmt.Sprintf("Linked %q %s to %q", from.Name, dir, to.Name)),
			LocationLinkResult{From: toLocationResult(from), To: toLocationResult(to)}, nil
	}
}

// linkLocations appends an exit from -> to in dir, and unless oneWay, a
// reciprocal exit to -> from in the opposite direction. Custom directions
// have no well-defined opposite, so the reciprocal exit is skipped for them.
// The destination's existing exit in the opposite direction, if any, is left
// untouched rather than overwritten.
func linkLocations(ctx context.Context, store LocationStore, from, to *world.Location, dir world.Direction, oneWay bool) error {
	exits := append(append([]world.Exit{}, from.Exits...), world.Exit{
		Direction:   dir,
		Destination: to.ID,
	})
	if err := store.SetExits(ctx, from.ID, exits); err != nil {
		return fmt.Errorf("setting exits on %q: %w", from.Name, err)
	}

	if oneWay {
		return nil
	}
	opp := dir.Opposite()
	if opp == "" {
		return nil
	}
	if _, taken := to.ExitForDirection(opp); taken {
		return nil
	}
	back := append(append([]world.Exit{}, to.Exits...), world.Exit{
		Direction:   opp,
		Destination: from.ID,
	})
	if err := store.SetExits(ctx, to.ID, back); err != nil {
		return fmt.Errorf("setting exits on %q: %w", to.Name, err)
	}
	return nil
}
