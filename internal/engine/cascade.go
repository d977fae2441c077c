package engine

import (
	"fmt"
	"sort"

	"github.com/kamstrup/intmap"
	"github.com/zyedidia/generic/mapset"
)

// runKey identifies a maximal run independently of the origin that found it.
type runKey struct {
	axis  Axis
	start Coord
}

// Advance runs one resolving pass:
//
//  1. expand the clear-set through special effects until nothing new is reached
//  2. remove every piece in it
//  3. create the specials earned by the runs being cleared
//  4. collapse the affected columns toward row 0
//  5. refill the empty cells
//  6. look for matches at every piece that moved or appeared
//
// If the last step finds matches they become the next pass, otherwise the
// engine returns to idle.
func (e *Engine) Advance() (PassRecord, error) {
	if e.state != StateResolving || len(e.queue) == 0 {
		return PassRecord{}, fmt.Errorf("%w: state is %s", ErrNotResolving, e.state)
	}

	ps := e.queue[0]
	e.queue = e.queue[1:]
	e.pass++
	rec := PassRecord{Pass: e.pass}

	rec.Detonations = e.expand(ps.cells)

	rec.Cleared = e.remove(ps.cells)
	if err := e.verify("remove"); err != nil {
		return rec, err
	}

	var touched []*Piece
	for _, s := range ps.spawns {
		p := NewSpecial(e.filler.ids.take(), s.color, s.kind, e.cfg.AreaRadius)
		e.grid.put(s.at, p)
		rec.Created = append(rec.Created, p.Record())
		touched = append(touched, p)
	}
	if err := e.verify("create"); err != nil {
		return rec, err
	}

	columns := affectedColumns(rec.Cleared)
	for _, x := range columns {
		rec.Moves = append(rec.Moves, e.collapseColumn(x)...)
	}
	for _, m := range rec.Moves {
		touched = append(touched, e.grid.at(m.To))
	}
	if err := e.verify("collapse"); err != nil {
		return rec, err
	}

	refills, diags := e.filler.Refill(e.grid)
	for _, p := range refills {
		rec.Refills = append(rec.Refills, p.Record())
	}
	touched = append(touched, refills...)
	rec.Diagnostics = append(rec.Diagnostics, diags...)
	if err := e.verify("refill"); err != nil {
		return rec, err
	}

	origins := piecePositions(touched)
	next, spawns := e.detect(origins, func(_ Run, origin Coord) Coord {
		return origin
	})
	rec.NewMatches = next

	switch {
	case len(next) == 0:
		e.state = StateIdle
	case e.pass >= e.cfg.MaxPasses:
		err := fmt.Errorf("%w: stopped after %d passes with %d cells still matched",
			ErrCascadeLimit, e.pass, len(next))
		e.logger.Error("cascade stopped", "passes", e.pass, "pending", len(next))
		rec.Diagnostics = append(rec.Diagnostics, err)
		e.state = StateIdle
	default:
		e.queue = append(e.queue, pendingSet{cells: e.indexSet(next), spawns: spawns})
	}
	e.diags = append(e.diags, rec.Diagnostics...)

	e.logger.Debug("pass resolved",
		"pass", rec.Pass,
		"detonations", len(rec.Detonations),
		"cleared", len(rec.Cleared),
		"created", len(rec.Created),
		"moved", len(rec.Moves),
		"refilled", len(rec.Refills),
		"next", len(rec.NewMatches))
	return rec, nil
}

// expand grows cells through the effects of every special inside it.
// Specials are detonated in row-major order, each at most once, and newly
// reached specials are picked up on the next sweep.
func (e *Engine) expand(cells *intmap.Set[int]) []Detonation {
	var detonations []Detonation
	detonated := intmap.NewSet[PieceID](4)

	for {
		var batch []*Piece
		for _, i := range sortedIndices(cells) {
			p := e.grid.cells[i]
			if p != nil && p.IsSpecial() && !detonated.Has(p.id) {
				batch = append(batch, p)
			}
		}
		if len(batch) == 0 {
			return detonations
		}

		for _, p := range batch {
			detonated.Add(p.id)
			affected := AffectedCells(e.grid, p)
			for _, c := range affected {
				cells.Add(e.grid.index(c))
			}
			detonations = append(detonations, Detonation{Source: p.Record(), Affected: affected})
			e.logger.Debug("special detonated", "piece", p.Describe(), "affected", len(affected))
		}
	}
}

// remove empties every cell in the set and returns what was there.
func (e *Engine) remove(cells *intmap.Set[int]) []PieceRecord {
	var cleared []PieceRecord
	for _, i := range sortedIndices(cells) {
		p := e.grid.cells[i]
		if p == nil {
			continue
		}
		cleared = append(cleared, p.Record())
		e.grid.cells[i] = nil
	}
	return cleared
}

// collapseColumn drops the pieces of column x toward row 0, keeping their
// order, and returns the moves in bottom-up order.
func (e *Engine) collapseColumn(x int) []Move {
	var moves []Move
	write := 0
	for y := 0; y < e.grid.H; y++ {
		from := C(x, y)
		p := e.grid.at(from)
		if p == nil {
			continue
		}
		if y != write {
			to := C(x, write)
			e.grid.put(to, p)
			moves = append(moves, Move{ID: p.id, From: from, To: to})
		}
		write++
	}
	return moves
}

// detect searches for matches at each origin and returns the union of the
// matched cells plus the specials earned by the runs found. pivotOf picks
// the cell a run's special is created at.
func (e *Engine) detect(origins []Coord, pivotOf func(r Run, origin Coord) Coord) ([]Coord, []spawn) {
	matched := mapset.New[*Piece]()
	seen := mapset.New[runKey]()
	plan := newSpawnPlan()

	for _, origin := range origins {
		m, err := FindMatchesAt(e.grid, origin)
		if err != nil || m.IsEmpty() {
			continue
		}
		m.Pieces().Each(func(p *Piece) {
			matched.Put(p)
		})
		for _, r := range m.Runs() {
			key := runKey{axis: r.Axis, start: r.Start()}
			if seen.Has(key) {
				continue
			}
			seen.Put(key)
			if !e.cfg.NoSpecials {
				plan.offer(r, pivotOf(r, origin))
			}
		}
	}

	return sortedCoords(matched), plan.spawns()
}

func (e *Engine) indexSet(coords []Coord) *intmap.Set[int] {
	set := intmap.NewSet[int](len(coords))
	for _, c := range coords {
		set.Add(e.grid.index(c))
	}
	return set
}

func sortedIndices(set *intmap.Set[int]) []int {
	indices := make([]int, 0, set.Len())
	set.ForEach(func(i int) bool {
		indices = append(indices, i)
		return true
	})
	sort.Ints(indices)
	return indices
}

func affectedColumns(cleared []PieceRecord) []int {
	seen := make(map[int]bool)
	var columns []int
	for _, r := range cleared {
		if !seen[r.At.X] {
			seen[r.At.X] = true
			columns = append(columns, r.At.X)
		}
	}
	sort.Ints(columns)
	return columns
}

// piecePositions returns the distinct current positions of pieces in
// row-major order.
func piecePositions(pieces []*Piece) []Coord {
	seen := make(map[Coord]bool, len(pieces))
	coords := make([]Coord, 0, len(pieces))
	for _, p := range pieces {
		if !seen[p.pos] {
			seen[p.pos] = true
			coords = append(coords, p.pos)
		}
	}
	sortRowMajor(coords)
	return coords
}
