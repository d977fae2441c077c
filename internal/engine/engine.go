package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kamstrup/intmap"
)

// State is the resolver state.
type State uint8

const (
	StateIdle State = iota
	StateSwapPending
	StateCommitted
	StateRolledBack
	StateResolving
)

// String returns the string representation of a state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSwapPending:
		return "swap-pending"
	case StateCommitted:
		return "committed"
	case StateRolledBack:
		return "rolled-back"
	case StateResolving:
		return "resolving"
	default:
		return "unknown"
	}
}

// Config holds the board parameters. Zero values of the optional fields
// select the defaults.
type Config struct {
	Width       int
	Height      int
	Colors      int  // palette size, 1..6
	FillRetries int  // re-rolls per cell, default DefaultFillRetries
	AreaRadius  int  // area special radius, default DefaultAreaRadius
	NoSpecials  bool // disable special creation
	MaxPasses   int  // cascade circuit breaker, default Width*Height
}

// DefaultConfig returns an 8x8 board with the full palette.
func DefaultConfig() Config {
	return Config{
		Width:       8,
		Height:      8,
		Colors:      int(ColorCount),
		FillRetries: DefaultFillRetries,
		AreaRadius:  DefaultAreaRadius,
	}
}

// withDefaults fills optional fields and validates the result. A zero
// size is allowed when a layout supplies it.
func (c Config) withDefaults() (Config, error) {
	if c.Colors < 1 || c.Colors > int(ColorCount) {
		return c, fmt.Errorf("%w: colors must be 1..%d, got %d", ErrInvalidConfiguration, ColorCount, c.Colors)
	}
	if c.FillRetries < 0 || c.AreaRadius < 0 || c.MaxPasses < 0 {
		return c, fmt.Errorf("%w: fill retries, area radius and max passes must not be negative", ErrInvalidConfiguration)
	}
	if c.FillRetries == 0 {
		c.FillRetries = DefaultFillRetries
	}
	if c.AreaRadius == 0 {
		c.AreaRadius = DefaultAreaRadius
	}
	return c, nil
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeed seeds the color source.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewSource(seed))
	}
}

// WithColorSource replaces the color source.
func WithColorSource(src ColorSource) Option {
	return func(e *Engine) {
		e.rng = src
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLayout starts the engine from a fixed layout instead of a random
// board. Empty cells in the layout are filled.
func WithLayout(l Layout) Option {
	return func(e *Engine) {
		e.layout = &l
	}
}

// pendingSet is one queued pass: the cells to clear and the specials to
// create once they are gone.
type pendingSet struct {
	cells  *intmap.Set[int] // flat cell indices
	spawns []spawn
}

// Engine is the cascade resolver. It owns the grid and is not safe for
// concurrent use.
type Engine struct {
	cfg    Config
	grid   *Grid
	filler *Filler
	rng    ColorSource
	logger *log.Logger
	layout *Layout

	state State
	queue []pendingSet
	pass  int // passes in the current resolution
	diags []error
}

// New builds a board and fills it without starting matches.
func New(cfg Config, opts ...Option) (*Engine, error) {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.logger == nil {
		e.logger = log.Default().WithPrefix("match3")
	}

	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	filler, err := NewFiller(Palette(cfg.Colors), e.rng, cfg.FillRetries, e.logger)
	if err != nil {
		return nil, err
	}
	e.filler = filler

	if e.layout != nil {
		if cfg.Width == 0 && cfg.Height == 0 {
			cfg.Width, cfg.Height = e.layout.W, e.layout.H
		}
		if e.layout.W != cfg.Width || e.layout.H != cfg.Height {
			return nil, fmt.Errorf("%w: layout is %dx%d, board is %dx%d",
				ErrInvalidConfiguration, e.layout.W, e.layout.H, cfg.Width, cfg.Height)
		}
		if err := checkLayout(*e.layout, cfg.Colors); err != nil {
			return nil, err
		}
		e.grid, err = e.layout.build(filler.ids, cfg.AreaRadius)
	} else {
		e.grid, err = NewGrid(cfg.Width, cfg.Height)
	}
	if err != nil {
		return nil, err
	}
	if cfg.MaxPasses == 0 {
		cfg.MaxPasses = cfg.Width * cfg.Height
	}
	e.cfg = cfg

	placed, diags := filler.FillBoard(e.grid)
	e.diags = append(e.diags, diags...)
	if err := e.verify("fill"); err != nil {
		return nil, err
	}

	e.logger.Debug("board created",
		"width", cfg.Width, "height", cfg.Height, "colors", cfg.Colors,
		"filled", len(placed), "diagnostics", len(diags))
	return e, nil
}

// checkLayout rejects layouts that use colors outside the palette or
// already contain a match.
func checkLayout(l Layout, colors int) error {
	for i, cell := range l.Cells {
		if !cell.Empty && int(cell.Color) >= colors {
			return fmt.Errorf("%w: layout cell %s uses %s outside the %d-color palette",
				ErrInvalidConfiguration, C(i%l.W, i/l.W), cell.Color, colors)
		}
	}
	g, err := l.build(&idSource{}, DefaultAreaRadius)
	if err != nil {
		return err
	}
	for i, p := range g.cells {
		if p == nil {
			continue
		}
		if m, _ := FindMatchesAt(g, g.coordAt(i)); !m.IsEmpty() {
			return fmt.Errorf("%w: layout already has a match at %s", ErrInvalidConfiguration, g.coordAt(i))
		}
	}
	return nil
}

// Width returns the board width.
func (e *Engine) Width() int { return e.grid.W }

// Height returns the board height.
func (e *Engine) Height() int { return e.grid.H }

// State returns the resolver state.
func (e *Engine) State() State { return e.state }

// IsAccepting reports whether a swap request would be taken now.
func (e *Engine) IsAccepting() bool { return e.state == StateIdle }

// Config returns the effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// PieceAt returns the piece at (x, y), or nil for an empty cell.
func (e *Engine) PieceAt(x, y int) (*Piece, error) {
	return e.grid.Get(C(x, y))
}

// Grid returns a copy of the board.
func (e *Engine) Grid() *Grid { return e.grid.Clone() }

// Layout snapshots the board as a text layout.
func (e *Engine) Layout() Layout { return LayoutOf(e.grid) }

// String returns the board dump, top row first.
func (e *Engine) String() string { return e.Layout().String() }

// Diagnostics returns every non-fatal problem reported since the engine
// was created.
func (e *Engine) Diagnostics() []error {
	return append([]error(nil), e.diags...)
}

// ValidSwaps lists every swap that would currently match.
func (e *Engine) ValidSwaps() ([]Swap, error) {
	return ValidSwaps(e.grid)
}

// Evaluate reports what swapping a and b would match, without applying it.
func (e *Engine) Evaluate(a, b Coord) (SwapEvaluation, error) {
	return EvaluateSwap(e.grid, a, b)
}

// BeginSwap validates and applies a swap. A swap without a match is rolled
// back and the engine stays idle. A matching swap is committed and the
// engine starts resolving; call Advance until it is idle again.
//
// Validation errors leave the board untouched.
func (e *Engine) BeginSwap(a, b Coord) (SwapOutcome, error) {
	out := SwapOutcome{Swap: Swap{A: a, B: b}}
	if e.state != StateIdle {
		return out, fmt.Errorf("%w: state is %s", ErrNotAccepting, e.state)
	}

	eval, err := EvaluateSwap(e.grid, a, b)
	if err != nil {
		return out, err
	}
	e.state = StateSwapPending

	if !eval.HasMatch {
		e.state = StateRolledBack
		e.logger.Debug("swap rolled back", "a", a, "b", b)
		e.state = StateIdle
		return out, nil
	}

	if err := e.grid.Swap(a, b); err != nil {
		e.state = StateIdle
		return out, err
	}
	e.state = StateCommitted
	if err := e.verify("swap"); err != nil {
		return out, err
	}

	// Runs through B come first so B is preferred as the pivot.
	next, spawns := e.detect([]Coord{b, a}, func(r Run, origin Coord) Coord {
		if r.Contains(b) {
			return b
		}
		return a
	})

	out.Committed = true
	out.Matched = next
	for _, s := range spawns {
		out.Created = append(out.Created, s.at)
	}

	e.pass = 0
	e.queue = append(e.queue[:0], pendingSet{cells: e.indexSet(next), spawns: spawns})
	e.state = StateResolving
	e.logger.Debug("swap committed", "a", a, "b", b, "matched", len(next), "specials", len(spawns))
	return out, nil
}

// RequestSwap runs a swap to completion: BeginSwap followed by Advance
// until the board settles. Resolution.Accepted reports whether the swap
// was committed.
func (e *Engine) RequestSwap(a, b Coord) (Resolution, error) {
	out, err := e.BeginSwap(a, b)
	if err != nil {
		return Resolution{Swap: out}, err
	}

	res := Resolution{Swap: out}
	for e.state == StateResolving {
		rec, err := e.Advance()
		if err != nil {
			return res, err
		}
		res.Passes = append(res.Passes, rec)
		res.Diagnostics = append(res.Diagnostics, rec.Diagnostics...)
	}
	return res, nil
}

// verify checks the grid invariant after a phase. A failure stops the
// resolution.
func (e *Engine) verify(phase string) error {
	if err := e.grid.Verify(); err != nil {
		e.logger.Error("invariant violated", "phase", phase, "error", err)
		e.queue = e.queue[:0]
		e.state = StateIdle
		return fmt.Errorf("after %s: %w", phase, err)
	}
	return nil
}

// IsFillExhausted reports whether err came from a cell that could not
// avoid a match.
func IsFillExhausted(err error) bool {
	return errors.Is(err, ErrFillExhausted)
}
