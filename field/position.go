// Package field implements the rules of Dots: a grid of cells, dot placement,
// base (enclosure) capture and exact move rollback.
package field

// Position is a flat index into a grid that keeps a one-cell margin on every
// side. Playable cells have x in 1..width and y in 1..height.
type Position int32

// NoPosition is a margin cell. It marks finishing entries that place no dot.
const NoPosition Position = 0

// Direction indexes, clockwise on screen (y grows downward).
const (
	dirN = iota
	dirNE
	dirE
	dirSE
	dirS
	dirSW
	dirW
	dirNW
)

// Grid maps (x, y) coordinates to positions for a board of a fixed size.
type Grid struct {
	width  int
	height int
	stride int
	dirs   [8]Position
	orth   [4]Position
}

// NewGrid returns the grid for a width x height board.
func NewGrid(width, height int) Grid {
	s := Position(width + 2)
	return Grid{
		width:  width,
		height: height,
		stride: width + 2,
		dirs:   [8]Position{-s, -s + 1, 1, s + 1, s, s - 1, -1, -s - 1},
		orth:   [4]Position{-s, 1, s, -1},
	}
}

func (g Grid) Width() int  { return g.width }
func (g Grid) Height() int { return g.height }
func (g Grid) Stride() int { return g.stride }

// Len is the number of positions including the margin.
func (g Grid) Len() int { return g.stride * (g.height + 2) }

// Pos converts coordinates to a position without bounds checks.
func (g Grid) Pos(x, y int) Position { return Position(y*g.stride + x) }

// XY converts a position back to coordinates.
func (g Grid) XY(p Position) (int, int) {
	return int(p) % g.stride, int(p) / g.stride
}

// PositionIfWithinBounds returns the position of (x, y) when it is a playable
// cell.
func (g Grid) PositionIfWithinBounds(x, y int) (Position, bool) {
	if x < 1 || x > g.width || y < 1 || y > g.height {
		return NoPosition, false
	}
	return g.Pos(x, y), true
}

// InBounds reports whether p is a playable cell.
func (g Grid) InBounds(p Position) bool {
	if p < 0 || int(p) >= g.Len() {
		return false
	}
	x, y := g.XY(p)
	return x >= 1 && x <= g.width && y >= 1 && y <= g.height
}

// IsBorder reports whether p is a playable cell on the outermost row or column.
func (g Grid) IsBorder(p Position) bool {
	if !g.InBounds(p) {
		return false
	}
	x, y := g.XY(p)
	return x == 1 || y == 1 || x == g.width || y == g.height
}

func (g Grid) N(p Position) Position  { return p + g.dirs[dirN] }
func (g Grid) NE(p Position) Position { return p + g.dirs[dirNE] }
func (g Grid) E(p Position) Position  { return p + g.dirs[dirE] }
func (g Grid) SE(p Position) Position { return p + g.dirs[dirSE] }
func (g Grid) S(p Position) Position  { return p + g.dirs[dirS] }
func (g Grid) SW(p Position) Position { return p + g.dirs[dirSW] }
func (g Grid) W(p Position) Position  { return p + g.dirs[dirW] }
func (g Grid) NW(p Position) Position { return p + g.dirs[dirNW] }

// Neighbours lists the eight cells around p clockwise from north. Cells in
// the margin are included.
func (g Grid) Neighbours(p Position) [8]Position {
	return [8]Position{g.N(p), g.NE(p), g.E(p), g.SE(p), g.S(p), g.SW(p), g.W(p), g.NW(p)}
}

// Positions returns every playable position in row-major order.
func (g Grid) Positions() []Position {
	ps := make([]Position, 0, g.width*g.height)
	for y := 1; y <= g.height; y++ {
		for x := 1; x <= g.width; x++ {
			ps = append(ps, g.Pos(x, y))
		}
	}
	return ps
}

// direction returns the index of the neighbour offset leading from one
// position to an adjacent one, or -1 when they are not adjacent.
func (g Grid) direction(from, to Position) int {
	d := to - from
	for i, o := range g.dirs {
		if o == d {
			return i
		}
	}
	return -1
}

// cross is the shoelace term of the segment a->b.
func (g Grid) cross(a, b Position) int {
	ax, ay := g.XY(a)
	bx, by := g.XY(b)
	return ax*by - bx*ay
}
