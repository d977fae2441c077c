package engine

import "fmt"

// Swap is a pair of cells to exchange. B is the destination of the piece
// that starts at A.
type Swap struct {
	A Coord
	B Coord
}

// String returns a string representation of the swap.
func (s Swap) String() string {
	return fmt.Sprintf("%s<->%s", s.A, s.B)
}

// IsAdjacent returns true if a and b share an edge. Diagonal cells are
// never adjacent.
func IsAdjacent(a, b Coord) bool {
	return a.Manhattan(b) == 1
}

// SwapEvaluation describes what a swap would match without applying it.
type SwapEvaluation struct {
	Swap     Swap
	Matched  []Coord // matched cells after the swap, row-major
	HasMatch bool
}

// validateSwap checks a swap request without looking at matches.
func validateSwap(g *Grid, a, b Coord) error {
	if !g.InBounds(a) {
		return outOfRange(a, g.W, g.H)
	}
	if !g.InBounds(b) {
		return outOfRange(b, g.W, g.H)
	}
	if !IsAdjacent(a, b) {
		return fmt.Errorf("%w: %s and %s are not adjacent", ErrInvalidSwap, a, b)
	}
	if g.at(a) == nil || g.at(b) == nil {
		return fmt.Errorf("%w: %s and %s must both hold a piece", ErrInvalidSwap, a, b)
	}
	return nil
}

// EvaluateSwap reports the matches that swapping a and b would produce.
// The swap is tried on a clone, so g is never modified.
func EvaluateSwap(g *Grid, a, b Coord) (SwapEvaluation, error) {
	eval := SwapEvaluation{Swap: Swap{A: a, B: b}}
	if err := validateSwap(g, a, b); err != nil {
		return eval, err
	}

	trial := g.Clone()
	if err := trial.Swap(a, b); err != nil {
		return eval, err
	}

	matched, err := MatchesAt(trial, b)
	if err != nil {
		return eval, err
	}
	atA, err := MatchesAt(trial, a)
	if err != nil {
		return eval, err
	}
	atA.Each(func(p *Piece) {
		matched.Put(p)
	})

	eval.Matched = sortedCoords(matched)
	eval.HasMatch = matched.Size() > 0
	return eval, nil
}
