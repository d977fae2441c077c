package engine

// DefaultAreaRadius is the Chebyshev radius of an area special.
const DefaultAreaRadius = 2

// AffectedCells returns the occupied cells a special piece clears when it
// detonates, in row-major order. The piece's own cell is included. Plain
// pieces affect nothing.
func AffectedCells(g *Grid, p *Piece) []Coord {
	var cells []Coord
	at := p.pos

	switch p.kind {
	case KindRowClear:
		for x := 0; x < g.W; x++ {
			cells = appendOccupied(g, cells, C(x, at.Y))
		}
	case KindColumnClear:
		for y := 0; y < g.H; y++ {
			cells = appendOccupied(g, cells, C(at.X, y))
		}
	case KindAreaClear:
		r := p.radius
		for y := at.Y - r; y <= at.Y+r; y++ {
			for x := at.X - r; x <= at.X+r; x++ {
				cells = appendOccupied(g, cells, C(x, y))
			}
		}
	}

	return cells
}

func appendOccupied(g *Grid, cells []Coord, c Coord) []Coord {
	if g.InBounds(c) && g.at(c) != nil {
		return append(cells, c)
	}
	return cells
}

// ClassifyRun returns the special a straight run earns: nothing for 3,
// a row or column clear for exactly 4, an area clear for 5 or more.
func ClassifyRun(r Run) SpecialKind {
	switch n := len(r.Pieces); {
	case n >= 5:
		return KindAreaClear
	case n == 4:
		if r.Axis == AxisHorizontal {
			return KindRowClear
		}
		return KindColumnClear
	default:
		return KindNone
	}
}

// spawn is a special waiting to be created at a pivot after removal.
type spawn struct {
	at    Coord
	color Color
	kind  SpecialKind
	size  int
	axis  Axis
}

// outranks orders spawns competing for the same pivot: area beats
// directional, then the longer run, then horizontal.
func (s spawn) outranks(o spawn) bool {
	if (s.kind == KindAreaClear) != (o.kind == KindAreaClear) {
		return s.kind == KindAreaClear
	}
	if s.size != o.size {
		return s.size > o.size
	}
	return s.axis == AxisHorizontal && o.axis == AxisVertical
}

// spawnPlan collects at most one spawn per pivot.
type spawnPlan struct {
	byPivot map[Coord]spawn
	order   []Coord
}

func newSpawnPlan() *spawnPlan {
	return &spawnPlan{byPivot: make(map[Coord]spawn)}
}

// offer classifies r and keeps it if it beats what the pivot already has.
func (sp *spawnPlan) offer(r Run, pivot Coord) {
	kind := ClassifyRun(r)
	if kind == KindNone {
		return
	}
	cand := spawn{
		at:    pivot,
		color: r.Pieces[0].color,
		kind:  kind,
		size:  len(r.Pieces),
		axis:  r.Axis,
	}
	prev, ok := sp.byPivot[pivot]
	if !ok {
		sp.order = append(sp.order, pivot)
		sp.byPivot[pivot] = cand
		return
	}
	if cand.outranks(prev) {
		sp.byPivot[pivot] = cand
	}
}

// spawns returns the plan in row-major pivot order.
func (sp *spawnPlan) spawns() []spawn {
	pivots := append([]Coord(nil), sp.order...)
	sortRowMajor(pivots)
	out := make([]spawn, 0, len(pivots))
	for _, c := range pivots {
		out = append(out, sp.byPivot[c])
	}
	return out
}
