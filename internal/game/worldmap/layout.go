package worldmap

import (
	"github.com/shawnrushefsky/dmcp/internal/game/world"
)

// Coord is an integer grid coordinate assigned to a placed location.
type Coord struct {
	X int
	Y int
}

// UnboundedRadius disables the hop-depth limit during layout.
const UnboundedRadius = -1

// probeOffsets is the fixed priority-ordered collision probe sequence, relative
// to an occupied candidate coordinate: the eight unit neighbors (orthogonal
// first, then diagonal) followed by the four distance-2 orthogonal neighbors.
// The order is load-bearing: changing it changes every rendered map.
var probeOffsets = []Offset{
	{0, -1}, {0, 1}, {1, 0}, {-1, 0},
	{1, -1}, {-1, -1}, {1, 1}, {-1, 1},
	{0, -2}, {0, 2}, {2, 0}, {-2, 0},
}

// layout assigns grid coordinates to every location reachable from centerID
// within radius graph hops, by breadth-first traversal. The center is always
// placed at (0,0). Nodes at depth >= radius are placed but their exits are not
// expanded. A negative radius means unbounded.
//
// Precondition: byID must contain centerID.
// Postcondition: Every placed location has exactly one coordinate; the
// returned map is non-empty and contains centerID at (0,0).
func layout(byID map[string]*world.Location, centerID string, radius int) map[string]Coord {
	coords := map[string]Coord{centerID: {0, 0}}
	occupied := map[Coord]string{{0, 0}: centerID}

	type queued struct {
		id    string
		depth int
	}
	queue := []queued{{centerID, 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if radius >= 0 && cur.depth >= radius {
			continue
		}

		from := coords[cur.id]
		for _, exit := range byID[cur.id].Exits {
			dest := exit.Destination
			if _, placed := coords[dest]; placed {
				// Already-placed destinations (and self-loops) still become
				// connections; they are never re-placed.
				continue
			}
			if _, known := byID[dest]; !known {
				continue
			}

			off := offsetFor(exit.Direction)
			candidate := Coord{from.X + off.DX, from.Y + off.DY}
			pos := resolveCollision(candidate, occupied)
			coords[dest] = pos
			occupied[pos] = dest
			queue = append(queue, queued{dest, cur.depth + 1})
		}
	}

	return coords
}

// resolveCollision returns the candidate coordinate if free, otherwise the
// first free position in the fixed probe sequence. If every probe is occupied
// it falls back to +3 on the x-axis from the candidate without re-checking
// occupancy: in pathologically dense graphs this can overlap, which is
// accepted to keep placement O(1) per node and always terminating.
func resolveCollision(candidate Coord, occupied map[Coord]string) Coord {
	if _, taken := occupied[candidate]; !taken {
		return candidate
	}
	for _, p := range probeOffsets {
		alt := Coord{candidate.X + p.DX, candidate.Y + p.DY}
		if _, taken := occupied[alt]; !taken {
			return alt
		}
	}
	return Coord{candidate.X + 3, candidate.Y}
}

// Bounds is the coordinate extent of a placed node set.
type Bounds struct {
	MinX int `json:"minX"`
	MaxX int `json:"maxX"`
	MinY int `json:"minY"`
	MaxY int `json:"maxY"`
}

// boundsOf computes the extent of a non-empty coordinate mapping.
//
// Precondition: coords must be non-empty.
// Postcondition: MinX <= MaxX and MinY <= MaxY; a single coordinate yields
// min == max on both axes.
func boundsOf(coords map[string]Coord) Bounds {
	first := true
	var b Bounds
	for _, c := range coords {
		if first {
			b = Bounds{MinX: c.X, MaxX: c.X, MinY: c.Y, MaxY: c.Y}
			first = false
			continue
		}
		if c.X < b.MinX {
			b.MinX = c.X
		}
		if c.X > b.MaxX {
			b.MaxX = c.X
		}
		if c.Y < b.MinY {
			b.MinY = c.Y
		}
		if c.Y > b.MaxY {
			b.MaxY = c.Y
		}
	}
	return b
}
