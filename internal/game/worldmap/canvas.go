package worldmap

import "strings"

// Cell geometry. Each grid coordinate owns a cellWidth x cellHeight rectangle
// of the canvas; a node's box is 3 rows tall, vertically centered in its cell,
// which leaves one blank row above and below for connector lines. These
// constants are fixed: rendered output is pinned by tests.
const (
	cellWidth   = 14
	cellHeight  = 5
	boxMinWidth = 8
)

// canvas is a 2D character buffer that boxes and connector lines are drawn
// into before flattening to text.
type canvas struct {
	rows   int
	cols   int
	cells  [][]byte
	bounds Bounds
}

// newCanvas creates a blank canvas sized from the bounds:
// ((maxX-minX+1)*cellWidth + 1) columns by ((maxY-minY+1)*cellHeight + 1) rows.
func newCanvas(b Bounds) *canvas {
	rows := (b.MaxY-b.MinY+1)*cellHeight + 1
	cols := (b.MaxX-b.MinX+1)*cellWidth + 1
	cells := make([][]byte, rows)
	for i := range cells {
		row := make([]byte, cols)
		for j := range row {
			row[j] = ' '
		}
		cells[i] = row
	}
	return &canvas{rows: rows, cols: cols, cells: cells, bounds: b}
}

// set writes ch at (row, col) unconditionally. Out-of-range writes are dropped.
func (c *canvas) set(row, col int, ch byte) {
	if row < 0 || row >= c.rows || col < 0 || col >= c.cols {
		return
	}
	c.cells[row][col] = ch
}

// setIfBlank writes ch at (row, col) only when the cell is blank. Connector
// lines use this so they never clobber each other; boxes are drawn afterward
// and overwrite freely, so they always render cleanly atop connectors.
func (c *canvas) setIfBlank(row, col int, ch byte) {
	if row < 0 || row >= c.rows || col < 0 || col >= c.cols {
		return
	}
	if c.cells[row][col] == ' ' {
		c.cells[row][col] = ch
	}
}

// cellOrigin returns the top-left canvas position of the cell for coord.
func (c *canvas) cellOrigin(coord Coord) (row, col int) {
	return (coord.Y - c.bounds.MinY) * cellHeight, (coord.X - c.bounds.MinX) * cellWidth
}

// cellCenter returns the canvas position of the box center for coord: the
// middle row of the box and the horizontal midpoint of the cell.
func (c *canvas) cellCenter(coord Coord) (row, col int) {
	baseRow, baseCol := c.cellOrigin(coord)
	return baseRow + 2, baseCol + cellWidth/2
}

// drawBox renders a node's bordered box into its cell. The displayed name is
// prefixed with '@' when the player is here, before width and truncation are
// computed. Box width is max(len(name)+2, boxMinWidth), capped at the cell
// width; the name is truncated to fit and centered between the borders.
func (c *canvas) drawBox(coord Coord, name string, hasPlayer bool) {
	if hasPlayer {
		name = "@" + name
	}

	width := len(name) + 2
	if width < boxMinWidth {
		width = boxMinWidth
	}
	if width > cellWidth {
		width = cellWidth
	}
	interior := width - 2
	if len(name) > interior {
		name = name[:interior]
	}

	baseRow, baseCol := c.cellOrigin(coord)
	left := baseCol + (cellWidth-width)/2
	top := baseRow + 1

	for i := 0; i < width; i++ {
		ch := byte('-')
		if i == 0 || i == width-1 {
			ch = '+'
		}
		c.set(top, left+i, ch)
		c.set(top+2, left+i, ch)
	}

	pad := interior - len(name)
	lpad := pad / 2
	c.set(top+1, left, '|')
	for i := 0; i < interior; i++ {
		ch := byte(' ')
		if i >= lpad && i < lpad+len(name) {
			ch = name[i-lpad]
		}
		c.set(top+1, left+1+i, ch)
	}
	c.set(top+1, left+width-1, '|')
}

// drawConnection renders the line between two placed nodes. Same-row pairs get
// a horizontal dash segment inset 4 columns from each box center; same-column
// pairs get a vertical pipe segment inset 2 rows from the source and 1 row
// from the target; everything else gets an L-shaped path that drops from the
// source to the target's row and runs over to the target box. The L-path does
// no cross-edge avoidance; overlapping edges simply share cells.
func (c *canvas) drawConnection(from, to Coord) {
	srcRow, srcCol := c.cellCenter(from)
	tgtRow, tgtCol := c.cellCenter(to)

	switch {
	case srcRow == tgtRow:
		lo, hi := srcCol, tgtCol
		if lo > hi {
			lo, hi = hi, lo
		}
		for col := lo + 4; col <= hi-4; col++ {
			c.setIfBlank(srcRow, col, '-')
		}
	case srcCol == tgtCol:
		step := 1
		if tgtRow < srcRow {
			step = -1
		}
		for row := srcRow + 2*step; row != tgtRow; row += step {
			c.setIfBlank(row, srcCol, '|')
		}
	default:
		vstep := 1
		if tgtRow < srcRow {
			vstep = -1
		}
		for row := srcRow + 2*vstep; row != tgtRow+vstep; row += vstep {
			c.setIfBlank(row, srcCol, '|')
		}
		hstep := 1
		if tgtCol < srcCol {
			hstep = -1
		}
		for col := srcCol + hstep; col != tgtCol-3*hstep; col += hstep {
			c.setIfBlank(tgtRow, col, '-')
		}
	}
}

// String flattens the canvas: each row trimmed of trailing whitespace, rows
// joined by newlines.
func (c *canvas) String() string {
	lines := make([]string, c.rows)
	for i, row := range c.cells {
		lines[i] = strings.TrimRight(string(row), " ")
	}
	return strings.Join(lines, "\n")
}
