package engine

import "fmt"

// Grid is the board storage. Cells are stored in row-major order
// (index = y*W + x), nil meaning "no piece".
type Grid struct {
	W     int      // Width of the grid
	H     int      // Height of the grid
	cells []*Piece // Flat array of cells, length W*H
}

// NewGrid creates an empty grid.
func NewGrid(w, h int) (*Grid, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: board size %dx%d must be positive", ErrInvalidConfiguration, w, h)
	}
	return &Grid{
		W:     w,
		H:     h,
		cells: make([]*Piece, w*h),
	}, nil
}

// index converts a coordinate to a flat array index.
func (g *Grid) index(c Coord) int {
	return c.Y*g.W + c.X
}

// coordAt converts a flat index back to a coordinate.
func (g *Grid) coordAt(i int) Coord {
	return Coord{X: i % g.W, Y: i / g.W}
}

// InBounds returns true if the coordinate is within the grid boundaries.
func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.W && c.Y >= 0 && c.Y < g.H
}

// Get returns the piece at c, or nil for an empty cell.
func (g *Grid) Get(c Coord) (*Piece, error) {
	if !g.InBounds(c) {
		return nil, outOfRange(c, g.W, g.H)
	}
	return g.cells[g.index(c)], nil
}

// at is Get for coordinates already known to be in bounds.
func (g *Grid) at(c Coord) *Piece {
	return g.cells[g.index(c)]
}

// Set stores p at c and updates p's position in the same step. A piece
// already placed elsewhere on this grid vacates its old cell. Passing nil
// empties the cell.
func (g *Grid) Set(c Coord, p *Piece) error {
	if !g.InBounds(c) {
		return outOfRange(c, g.W, g.H)
	}
	g.put(c, p)
	return nil
}

func (g *Grid) put(c Coord, p *Piece) {
	if p != nil && g.InBounds(p.pos) && g.at(p.pos) == p && p.pos != c {
		g.cells[g.index(p.pos)] = nil
	}
	g.cells[g.index(c)] = p
	if p != nil {
		p.pos = c
	}
}

// Move relocates the piece at from to the empty cell to.
func (g *Grid) Move(from, to Coord) error {
	if !g.InBounds(from) {
		return outOfRange(from, g.W, g.H)
	}
	if !g.InBounds(to) {
		return outOfRange(to, g.W, g.H)
	}
	p := g.at(from)
	if p == nil {
		return fmt.Errorf("move from empty cell %s", from)
	}
	if g.at(to) != nil {
		return fmt.Errorf("move to occupied cell %s", to)
	}
	g.put(to, p)
	return nil
}

// Swap exchanges the contents of two cells.
func (g *Grid) Swap(a, b Coord) error {
	if !g.InBounds(a) {
		return outOfRange(a, g.W, g.H)
	}
	if !g.InBounds(b) {
		return outOfRange(b, g.W, g.H)
	}
	pa, pb := g.at(a), g.at(b)
	g.cells[g.index(a)], g.cells[g.index(b)] = pb, pa
	if pa != nil {
		pa.pos = b
	}
	if pb != nil {
		pb.pos = a
	}
	return nil
}

// Clone returns a deep copy of the grid. Pieces are copied, so the clone
// can be mutated without touching the original.
func (g *Grid) Clone() *Grid {
	cells := make([]*Piece, len(g.cells))
	for i, p := range g.cells {
		if p != nil {
			cells[i] = p.clone()
		}
	}
	return &Grid{
		W:     g.W,
		H:     g.H,
		cells: cells,
	}
}

// Occupied returns the number of cells holding a piece.
func (g *Grid) Occupied() int {
	count := 0
	for _, p := range g.cells {
		if p != nil {
			count++
		}
	}
	return count
}

// IsFull returns true if no cell is empty.
func (g *Grid) IsFull() bool {
	return g.Occupied() == len(g.cells)
}

// AllCoords returns all coordinates in row-major order, bottom row first.
func (g *Grid) AllCoords() []Coord {
	coords := make([]Coord, 0, g.W*g.H)
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			coords = append(coords, C(x, y))
		}
	}
	return coords
}

// EmptyCoords returns all empty coordinates in row-major order.
func (g *Grid) EmptyCoords() []Coord {
	coords := make([]Coord, 0)
	for i, p := range g.cells {
		if p == nil {
			coords = append(coords, g.coordAt(i))
		}
	}
	return coords
}

// Pieces returns every piece in row-major order.
func (g *Grid) Pieces() []*Piece {
	pieces := make([]*Piece, 0, len(g.cells))
	for _, p := range g.cells {
		if p != nil {
			pieces = append(pieces, p)
		}
	}
	return pieces
}

// Verify checks that every piece's position matches the cell holding it
// and that no piece is stored twice.
func (g *Grid) Verify() error {
	seen := make(map[*Piece]Coord, len(g.cells))
	for i, p := range g.cells {
		if p == nil {
			continue
		}
		c := g.coordAt(i)
		if p.pos != c {
			return fmt.Errorf("%w: piece #%d stored at %s reports %s", ErrInvariant, p.id, c, p.pos)
		}
		if prev, dup := seen[p]; dup {
			return fmt.Errorf("%w: piece #%d stored at %s and %s", ErrInvariant, p.id, prev, c)
		}
		seen[p] = c
	}
	return nil
}

// Equal returns true if two grids have the same dimensions and the same
// piece (id, color, kind) in every cell.
func (g *Grid) Equal(other *Grid) bool {
	if g.W != other.W || g.H != other.H {
		return false
	}
	for i, p := range g.cells {
		q := other.cells[i]
		if (p == nil) != (q == nil) {
			return false
		}
		if p != nil && (p.id != q.id || p.color != q.color || p.kind != q.kind || p.radius != q.radius) {
			return false
		}
	}
	return true
}
