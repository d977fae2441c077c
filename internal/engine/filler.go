package engine

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// DefaultFillRetries bounds the re-rolls for a single cell.
const DefaultFillRetries = 100

// ColorSource picks random indices. *rand.Rand satisfies it.
type ColorSource interface {
	Intn(n int) int
}

// idSource hands out piece IDs, starting at 1.
type idSource struct {
	last PieceID
}

func (s *idSource) take() PieceID {
	s.last++
	return s.last
}

// Filler places random pieces on empty cells without creating matches.
type Filler struct {
	palette []Color
	rng     ColorSource
	retries int
	ids     *idSource
	logger  *log.Logger
}

// NewFiller creates a filler that draws from palette.
func NewFiller(palette []Color, rng ColorSource, retries int, logger *log.Logger) (*Filler, error) {
	if len(palette) == 0 {
		return nil, fmt.Errorf("%w: empty color palette", ErrInvalidConfiguration)
	}
	if retries < 1 {
		return nil, fmt.Errorf("%w: fill retries must be at least 1, got %d", ErrInvalidConfiguration, retries)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Filler{
		palette: palette,
		rng:     rng,
		retries: retries,
		ids:     &idSource{},
		logger:  logger,
	}, nil
}

func (f *Filler) roll() Color {
	return f.palette[f.rng.Intn(len(f.palette))]
}

// FillCell places a piece of uniformly random color at c, replacing
// whatever was there.
func (f *Filler) FillCell(g *Grid, c Coord) (*Piece, error) {
	if !g.InBounds(c) {
		return nil, outOfRange(c, g.W, g.H)
	}
	p := NewPiece(f.ids.take(), f.roll())
	g.put(c, p)
	return p, nil
}

// fillCell places a piece at the empty cell c and re-rolls it while it
// matches against the pieces already on the board. The ID is kept across
// re-rolls since the discarded pieces are never observable.
func (f *Filler) fillCell(g *Grid, c Coord) (*Piece, error) {
	id := f.ids.take()
	var p *Piece
	for attempt := 1; ; attempt++ {
		p = NewPiece(id, f.roll())
		g.put(c, p)

		m, err := FindMatchesAt(g, c)
		if err != nil {
			return p, err
		}
		if m.IsEmpty() {
			return p, nil
		}
		if attempt >= f.retries {
			return p, &FillExhaustedError{At: c, Attempts: attempt, Kept: p.color}
		}
	}
}

// FillBoard fills every empty cell, bottom row first and left to right.
// It returns the placed pieces in placement order.
//
// A cell that still matches after every re-roll keeps its last piece; the
// *FillExhaustedError for it is logged and returned in diags. Placement
// continues past it.
func (f *Filler) FillBoard(g *Grid) (placed []*Piece, diags []error) {
	for _, c := range g.EmptyCoords() {
		p, err := f.fillCell(g, c)
		if err != nil {
			f.logger.Warn("fill retries exhausted", "cell", c, "color", p.color, "error", err)
			diags = append(diags, err)
		}
		placed = append(placed, p)
	}
	return placed, diags
}

// Refill is FillBoard under the name the cascade uses.
func (f *Filler) Refill(g *Grid) ([]*Piece, []error) {
	return f.FillBoard(g)
}
