package engine

import (
	"fmt"
	"strings"
)

// SwapOutcome is the first record of a swap request.
type SwapOutcome struct {
	Swap      Swap
	Committed bool    // false means the swap was rolled back
	Matched   []Coord // cells matched by the swap, empty when rolled back
	Created   []Coord // pivots where specials will appear in the first pass
}

// Move is a piece sliding down during collapse.
type Move struct {
	ID   PieceID
	From Coord
	To   Coord
}

// String returns a compact representation of the move.
func (m Move) String() string {
	return fmt.Sprintf("#%d %s->%s", m.ID, m.From, m.To)
}

// Detonation lists the cells a special added to the clear-set.
type Detonation struct {
	Source   PieceRecord
	Affected []Coord
}

// PassRecord describes one resolving pass, phase by phase, so a caller can
// replay it with its own timing.
type PassRecord struct {
	Pass        int
	Detonations []Detonation  // in detonation order
	Cleared     []PieceRecord // removed pieces, row-major
	Created     []PieceRecord // specials placed at their pivots
	Moves       []Move        // collapse moves, column by column
	Refills     []PieceRecord // new pieces in placement order
	NewMatches  []Coord       // next clear-set, empty when the board settled
	Diagnostics []error       // non-fatal problems, e.g. *FillExhaustedError
}

// Settled reports whether the pass left no matches behind.
func (r PassRecord) Settled() bool {
	return len(r.NewMatches) == 0
}

// String returns a multi-line summary of the pass.
func (r PassRecord) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "pass %d: cleared %d, created %d, moved %d, refilled %d, next %d\n",
		r.Pass, len(r.Cleared), len(r.Created), len(r.Moves), len(r.Refills), len(r.NewMatches))
	for _, d := range r.Detonations {
		fmt.Fprintf(&b, "  detonate %s -> %d cells\n", d.Source, len(d.Affected))
	}
	for _, p := range r.Created {
		fmt.Fprintf(&b, "  create %s\n", p)
	}
	for _, err := range r.Diagnostics {
		fmt.Fprintf(&b, "  warn %v\n", err)
	}
	return b.String()
}

// Resolution is the full result of a swap request.
type Resolution struct {
	Swap        SwapOutcome
	Passes      []PassRecord
	Diagnostics []error
}

// Accepted reports whether the swap was committed.
func (r Resolution) Accepted() bool {
	return r.Swap.Committed
}

// Cleared returns the total number of pieces removed across all passes.
func (r Resolution) Cleared() int {
	n := 0
	for _, p := range r.Passes {
		n += len(p.Cleared)
	}
	return n
}
