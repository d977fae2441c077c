package engine

import (
	"sort"

	"github.com/zyedidia/generic/mapset"
)

// MinMatch is the smallest run that counts as a match.
const MinMatch = 3

// ScanDirectional walks from origin one step at a time along dir,
// collecting pieces whose color equals the origin's. It stops at the first
// mismatch, empty cell or grid edge. The run includes the origin.
//
// ok is false when the run is shorter than minRun or the origin is empty;
// run is nil in that case.
func ScanDirectional(g *Grid, origin Coord, dir Dir, minRun int) (run []*Piece, ok bool, err error) {
	start, err := g.Get(origin)
	if err != nil {
		return nil, false, err
	}
	if start == nil {
		return nil, false, nil
	}

	run = []*Piece{start}
	for next := origin.Step(dir); g.InBounds(next); next = next.Step(dir) {
		p := g.at(next)
		if p == nil || p.color != start.color {
			break
		}
		run = append(run, p)
	}

	if len(run) < minRun {
		return nil, false, nil
	}
	return run, true, nil
}

// ScanAxis runs ScanDirectional both ways along the axis with a minimum
// run of 2, since the origin is shared by both halves, and accepts the
// union once it reaches MinMatch pieces. One piece on each side of the
// origin therefore still makes a match.
//
// The returned run is ordered from the low end of the axis to the high end.
func ScanAxis(g *Grid, origin Coord, axis Axis) ([]*Piece, bool, error) {
	lowDir, highDir := axis.Dirs()

	low, lowOK, err := ScanDirectional(g, origin, lowDir, 2)
	if err != nil {
		return nil, false, err
	}
	high, highOK, err := ScanDirectional(g, origin, highDir, 2)
	if err != nil {
		return nil, false, err
	}

	if !lowOK && !highOK {
		return nil, false, nil
	}

	// low walks away from the origin, so reverse it and drop the shared
	// origin from the high half.
	var run []*Piece
	for i := len(low) - 1; i >= 0; i-- {
		run = append(run, low[i])
	}
	if len(run) == 0 {
		run = append(run, high[0])
	}
	if len(high) > 1 {
		run = append(run, high[1:]...)
	}

	if len(run) < MinMatch {
		return nil, false, nil
	}
	return run, true, nil
}

// Match is the result of a match search at one origin.
type Match struct {
	Origin     Coord
	Horizontal []*Piece // nil when the horizontal axis has no match
	Vertical   []*Piece // nil when the vertical axis has no match
}

// IsEmpty returns true if neither axis matched.
func (m Match) IsEmpty() bool {
	return len(m.Horizontal) == 0 && len(m.Vertical) == 0
}

// Pieces returns the union of both axes. The origin appears once.
func (m Match) Pieces() mapset.Set[*Piece] {
	set := mapset.New[*Piece]()
	for _, p := range m.Horizontal {
		set.Put(p)
	}
	for _, p := range m.Vertical {
		set.Put(p)
	}
	return set
}

// Len returns the number of distinct pieces in the match.
func (m Match) Len() int {
	return m.Pieces().Size()
}

// Coords returns the matched coordinates in row-major order.
func (m Match) Coords() []Coord {
	return sortedCoords(m.Pieces())
}

// Runs returns the matched straight runs with their axes.
func (m Match) Runs() []Run {
	runs := make([]Run, 0, 2)
	if len(m.Horizontal) > 0 {
		runs = append(runs, Run{Axis: AxisHorizontal, Pieces: m.Horizontal})
	}
	if len(m.Vertical) > 0 {
		runs = append(runs, Run{Axis: AxisVertical, Pieces: m.Vertical})
	}
	return runs
}

// Run is a straight line of same-colored pieces.
type Run struct {
	Axis   Axis
	Pieces []*Piece
}

// Start returns the low-end coordinate of the run, which identifies it
// together with its axis.
func (r Run) Start() Coord {
	return r.Pieces[0].pos
}

// Contains reports whether the run covers c.
func (r Run) Contains(c Coord) bool {
	for _, p := range r.Pieces {
		if p.pos == c {
			return true
		}
	}
	return false
}

// FindMatchesAt searches both axes at origin. An empty origin yields an
// empty match; an out-of-range origin is an error.
func FindMatchesAt(g *Grid, origin Coord) (Match, error) {
	m := Match{Origin: origin}

	h, ok, err := ScanAxis(g, origin, AxisHorizontal)
	if err != nil {
		return m, err
	}
	if ok {
		m.Horizontal = h
	}

	v, ok, err := ScanAxis(g, origin, AxisVertical)
	if err != nil {
		return m, err
	}
	if ok {
		m.Vertical = v
	}

	return m, nil
}

// MatchesAt returns the set of pieces matched at origin. The set is empty
// when neither axis qualifies.
func MatchesAt(g *Grid, origin Coord) (mapset.Set[*Piece], error) {
	m, err := FindMatchesAt(g, origin)
	if err != nil {
		return mapset.New[*Piece](), err
	}
	return m.Pieces(), nil
}

// HasAnyMatch scans every occupied cell and reports whether any match exists.
func HasAnyMatch(g *Grid) bool {
	for i, p := range g.cells {
		if p == nil {
			continue
		}
		m, err := FindMatchesAt(g, g.coordAt(i))
		if err == nil && !m.IsEmpty() {
			return true
		}
	}
	return false
}

func sortedCoords(set mapset.Set[*Piece]) []Coord {
	coords := make([]Coord, 0, set.Size())
	set.Each(func(p *Piece) {
		coords = append(coords, p.pos)
	})
	sortRowMajor(coords)
	return coords
}

func sortRowMajor(coords []Coord) {
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Y != coords[j].Y {
			return coords[i].Y < coords[j].Y
		}
		return coords[i].X < coords[j].X
	})
}
