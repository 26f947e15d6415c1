package worldmap

import (
	"strings"

	"github.com/shawnrushefsky/dmcp/internal/game/world"
)

// Offset is a 2D grid displacement. Positive DX is east, positive DY is south,
// so north points toward smaller Y, matching canvas row order.
type Offset struct {
	DX int
	DY int
}

// directionOffsets maps normalized direction labels to grid offsets. Up and
// down alias north and south because the rendered map is strictly 2D.
var directionOffsets = map[string]Offset{
	"north":     {0, -1},
	"south":     {0, 1},
	"east":      {1, 0},
	"west":      {-1, 0},
	"northeast": {1, -1},
	"northwest": {-1, -1},
	"southeast": {1, 1},
	"southwest": {-1, 1},
	"n":         {0, -1},
	"s":         {0, 1},
	"e":         {1, 0},
	"w":         {-1, 0},
	"ne":        {1, -1},
	"nw":        {-1, -1},
	"se":        {1, 1},
	"sw":        {-1, 1},
	"up":        {0, -1},
	"down":      {0, 1},
}

// offsetFor maps a direction label to its grid offset. Labels are trimmed and
// lowercased before lookup. Unrecognized labels yield the zero offset rather
// than an error; collision resolution handles any resulting overlap.
func offsetFor(dir world.Direction) Offset {
	label := strings.ToLower(strings.TrimSpace(string(dir)))
	return directionOffsets[label]
}
