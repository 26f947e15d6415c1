// Package worldmap lays out a game's location graph on an integer grid and
// renders it as ASCII text art. Layout is a breadth-first traversal from a
// center location with deterministic local collision probing; rendering draws
// bordered boxes and connector lines into a character canvas.
//
// The engine is purely computational and stateless: every call recomputes the
// full layout from the location snapshot it receives, so concurrent calls for
// different requests need no coordination. Callers are responsible for handing
// it a consistent read of the location set.
package worldmap

import (
	"errors"

	"github.com/shawnrushefsky/dmcp/internal/game/world"
)

// ErrEmptyWorld is returned when there are no locations to render.
var ErrEmptyWorld = errors.New("worldmap: no locations to render")

// ErrCenterNotFound is returned when the requested center location is not in
// the supplied location set.
var ErrCenterNotFound = errors.New("worldmap: center location not found")

// Options controls one rendering request.
type Options struct {
	// CenterID is the location placed at (0,0). When empty, the player's
	// location is used; when that is also empty, the first location in the
	// supplied (creation-ordered) slice.
	CenterID string
	// Radius is the maximum graph-hop depth from the center to include.
	// Negative means unbounded; zero places only the center.
	Radius int
	// PlayerLocationID marks a node with the player flag and an '@' name
	// prefix in the rendered output.
	PlayerLocationID string
}

// Node is a placed location in one rendered map.
type Node struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	ExitCount int    `json:"exitCount"`
	IsCenter  bool   `json:"isCenter"`
	HasPlayer bool   `json:"hasPlayer"`
}

// Connection is a deduplicated edge between two placed locations, carrying the
// direction label first used to discover it. Deduplication is for rendering
// only; the underlying exits are untouched.
type Connection struct {
	From      string          `json:"from"`
	To        string          `json:"to"`
	Direction world.Direction `json:"direction"`
}

// Map is the structured result of one rendering request.
type Map struct {
	Nodes       []Node       `json:"nodes"`
	Connections []Connection `json:"connections"`
	Bounds      Bounds       `json:"bounds"`
	Text        string       `json:"asciiText"`
}

// Render lays out and draws the neighborhood of a center location.
//
// Locations must be supplied in creation order; that order is the tiebreak for
// center resolution and keeps output deterministic. Identical input always
// produces byte-identical text.
//
// Postcondition: Returns a Map whose center node is at (0,0) and whose placed
// nodes all have distinct coordinates (modulo the documented probe-exhaustion
// fallback), or ErrEmptyWorld / ErrCenterNotFound.
func Render(locations []*world.Location, opts Options) (*Map, error) {
	if len(locations) == 0 {
		return nil, ErrEmptyWorld
	}

	byID := make(map[string]*world.Location, len(locations))
	for _, loc := range locations {
		byID[loc.ID] = loc
	}

	centerID := opts.CenterID
	if centerID == "" {
		centerID = opts.PlayerLocationID
	}
	if centerID == "" {
		centerID = locations[0].ID
	}
	if _, ok := byID[centerID]; !ok {
		return nil, ErrCenterNotFound
	}

	coords := layout(byID, centerID, opts.Radius)
	bounds := boundsOf(coords)

	// Node and connection order follows the input slice so identical input
	// yields identical output.
	nodes := make([]Node, 0, len(coords))
	connections := make([]Connection, 0)
	seen := make(map[[2]string]bool)
	for _, loc := range locations {
		coord, placed := coords[loc.ID]
		if !placed {
			continue
		}
		exitCount := 0
		for _, exit := range loc.Exits {
			if _, destPlaced := coords[exit.Destination]; !destPlaced {
				continue
			}
			exitCount++
			key := pairKey(loc.ID, exit.Destination)
			if seen[key] {
				continue
			}
			seen[key] = true
			connections = append(connections, Connection{
				From:      loc.ID,
				To:        exit.Destination,
				Direction: exit.Direction,
			})
		}
		nodes = append(nodes, Node{
			ID:        loc.ID,
			Name:      loc.Name,
			X:         coord.X,
			Y:         coord.Y,
			ExitCount: exitCount,
			IsCenter:  loc.ID == centerID,
			HasPlayer: opts.PlayerLocationID != "" && loc.ID == opts.PlayerLocationID,
		})
	}

	cv := newCanvas(bounds)
	for _, conn := range connections {
		cv.drawConnection(coords[conn.From], coords[conn.To])
	}
	for _, n := range nodes {
		cv.drawBox(Coord{n.X, n.Y}, n.Name, n.HasPlayer)
	}

	return &Map{
		Nodes:       nodes,
		Connections: connections,
		Bounds:      bounds,
		Text:        cv.String(),
	}, nil
}

// pairKey builds an order-independent dedup key for a node pair. Self-loops
// key against themselves and so appear at most once.
func pairKey(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}
