package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/match3/internal/engine"
)

// red3Board has R R Y R in the bottom row; swapping (3,0) and (2,0) makes a
// red 3-run in the bottom left corner.
var red3Board = []string{
	"O G B Y P O G B",
	"Y P O G B Y P O",
	"G B Y P O G B Y",
	"P O G B Y P O G",
	"B Y P O G B Y P",
	"O G B Y P O G B",
	"Y P O G B Y P O",
	"R R Y R O G B Y",
}

// vertical4Board has reds at (2,2), (2,3), (2,5) and (3,4); swapping (3,4)
// into (2,4) makes a vertical 4-run.
var vertical4Board = []string{
	"O G B Y P O G B",
	"Y P O G B Y P O",
	"G B R P O G B Y",
	"P O G R Y P O G",
	"B Y R O G B Y P",
	"O G R Y P O G B",
	"Y P O G B Y P O",
	"G B Y P O G B Y",
}

// fiveBoard makes a horizontal 5-run in row 1 when (2,2) drops into (2,1).
var fiveBoard = []string{
	"O G B Y P O G B",
	"Y P O G B Y P O",
	"G B Y P O G B Y",
	"P O G B Y P O G",
	"B Y P O G B Y P",
	"O G R Y P O G B",
	"R R O R R Y P O",
	"G B Y P O G B Y",
}

// fourBoard makes a horizontal 4-run in row 1 when (3,2) drops into (3,1).
var fourBoard = []string{
	"O G B Y P O G B",
	"Y P O G B Y P O",
	"G B Y P O G B Y",
	"P O G B Y P O G",
	"B Y P O G B Y P",
	"O G B R P O G B",
	"Y R R G R Y P O",
	"G B Y P O G B Y",
}

// chainBoard has a row clear at (0,3) in a red 3-run made by swapping
// (2,4) into (2,3). Its row holds an area clear at (5,3), whose area holds
// a column clear at (7,5).
var chainBoard = []string{
	"O G B Y P O G B",
	"Y P O G B Y P O",
	"G B Y P O G B Y|",
	"P O R B Y P O G",
	"R- R P O G B* Y P",
	"O G B Y P O G B",
	"Y P O G B Y P O",
	"G B Y P O G B Y",
}

func newEngine(t *testing.T, rows []string, seed int64, opts ...engine.Option) *engine.Engine {
	t.Helper()
	l, err := engine.ParseLayout(rows)
	require.NoError(t, err)

	cfg := engine.DefaultConfig()
	opts = append([]engine.Option{
		engine.WithLayout(l),
		engine.WithSeed(seed),
		engine.WithLogger(quietLogger()),
	}, opts...)
	e, err := engine.New(cfg, opts...)
	require.NoError(t, err)
	return e
}

func requireSettled(t *testing.T, e *engine.Engine) {
	t.Helper()
	require.Equal(t, engine.StateIdle, e.State())
	require.True(t, e.IsAccepting())
	g := e.Grid()
	require.NoError(t, g.Verify())
	require.True(t, g.IsFull())
	require.False(t, engine.HasAnyMatch(g), "board should be stable:\n%s", e)
}

func specials(e *engine.Engine) []*engine.Piece {
	var out []*engine.Piece
	for _, p := range e.Grid().Pieces() {
		if p.IsSpecial() {
			out = append(out, p)
		}
	}
	return out
}

func TestNewRejectsInvalidConfiguration(t *testing.T) {
	testCases := []struct {
		name string
		cfg  engine.Config
	}{
		{"zero width", engine.Config{Width: 0, Height: 8, Colors: 5}},
		{"negative height", engine.Config{Width: 8, Height: -1, Colors: 5}},
		{"empty palette", engine.Config{Width: 8, Height: 8, Colors: 0}},
		{"too many colors", engine.Config{Width: 8, Height: 8, Colors: 7}},
		{"negative retries", engine.Config{Width: 8, Height: 8, Colors: 5, FillRetries: -1}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := engine.New(tc.cfg, engine.WithSeed(1), engine.WithLogger(quietLogger()))
			assert.ErrorIs(t, err, engine.ErrInvalidConfiguration)
		})
	}
}

func TestNewRejectsBadLayout(t *testing.T) {
	matching := engine.MustParseLayout(
		"G B Y",
		"R R R",
	)
	_, err := engine.New(engine.Config{Colors: 6}, engine.WithLayout(matching), engine.WithLogger(quietLogger()))
	assert.ErrorIs(t, err, engine.ErrInvalidConfiguration)

	offPalette := engine.MustParseLayout("R O")
	_, err = engine.New(engine.Config{Colors: 3}, engine.WithLayout(offPalette), engine.WithLogger(quietLogger()))
	assert.ErrorIs(t, err, engine.ErrInvalidConfiguration)

	wrongSize := engine.MustParseLayout("R G")
	_, err = engine.New(engine.Config{Width: 3, Height: 1, Colors: 3}, engine.WithLayout(wrongSize), engine.WithLogger(quietLogger()))
	assert.ErrorIs(t, err, engine.ErrInvalidConfiguration)
}

func TestNewBoardHasNoMatches(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		e, err := engine.New(engine.DefaultConfig(), engine.WithSeed(seed), engine.WithLogger(quietLogger()))
		require.NoError(t, err)
		assert.Equal(t, 8, e.Width())
		assert.Equal(t, 8, e.Height())
		assert.Empty(t, e.Diagnostics())
		requireSettled(t, e)
	}
}

func TestNewIsDeterministicPerSeed(t *testing.T) {
	a, err := engine.New(engine.DefaultConfig(), engine.WithSeed(42), engine.WithLogger(quietLogger()))
	require.NoError(t, err)
	b, err := engine.New(engine.DefaultConfig(), engine.WithSeed(42), engine.WithLogger(quietLogger()))
	require.NoError(t, err)

	assert.Equal(t, a.String(), b.String())
}

func TestNewFillsLayoutGaps(t *testing.T) {
	l := engine.MustParseLayout(
		". . .",
		"R G .",
	)
	e, err := engine.New(engine.Config{Colors: 6}, engine.WithLayout(l), engine.WithSeed(3), engine.WithLogger(quietLogger()))
	require.NoError(t, err)

	p, err := e.PieceAt(0, 0)
	require.NoError(t, err)
	assert.Equal(t, engine.ColorRed, p.Color())
	assert.Equal(t, engine.PieceID(1), p.ID())
	requireSettled(t, e)
}

func TestPieceAtOutOfRange(t *testing.T) {
	e := newEngine(t, red3Board, 1)

	_, err := e.PieceAt(8, 0)
	assert.ErrorIs(t, err, engine.ErrOutOfRange)
	_, err = e.PieceAt(0, -1)
	assert.ErrorIs(t, err, engine.ErrOutOfRange)
}

func TestRequestSwapRedThreeRun(t *testing.T) {
	e := newEngine(t, red3Board, 1)

	res, err := e.RequestSwap(engine.C(3, 0), engine.C(2, 0))
	require.NoError(t, err)
	require.True(t, res.Accepted())
	assert.Equal(t, []engine.Coord{engine.C(0, 0), engine.C(1, 0), engine.C(2, 0)}, res.Swap.Matched)
	assert.Empty(t, res.Swap.Created)

	require.Len(t, res.Passes, 1)
	pass := res.Passes[0]
	assert.Equal(t, 1, pass.Pass)
	assert.Empty(t, pass.Detonations)
	assert.Empty(t, pass.Created)

	require.Len(t, pass.Cleared, 3)
	for i, r := range pass.Cleared {
		assert.Equal(t, engine.C(i, 0), r.At)
		assert.Equal(t, engine.ColorRed, r.Color)
	}

	// Columns 0-2 each drop seven pieces by one row.
	require.Len(t, pass.Moves, 21)
	for _, m := range pass.Moves {
		assert.Less(t, m.From.X, 3)
		assert.Equal(t, m.From.X, m.To.X)
		assert.Equal(t, m.From.Y-1, m.To.Y)
	}
	assert.Equal(t, engine.Move{ID: 9, From: engine.C(0, 1), To: engine.C(0, 0)}, pass.Moves[0])

	require.Len(t, pass.Refills, 3)
	for i, r := range pass.Refills {
		assert.Equal(t, engine.C(i, 7), r.At)
	}
	assert.True(t, pass.Settled())
	assert.Empty(t, specials(e))
	requireSettled(t, e)
}

func TestRequestSwapVerticalFour(t *testing.T) {
	e := newEngine(t, vertical4Board, 1)

	res, err := e.RequestSwap(engine.C(3, 4), engine.C(2, 4))
	require.NoError(t, err)
	require.True(t, res.Accepted())
	assert.Equal(t, []engine.Coord{engine.C(2, 4)}, res.Swap.Created)

	require.Len(t, res.Passes, 1)
	pass := res.Passes[0]

	require.Len(t, pass.Cleared, 4)
	for _, r := range pass.Cleared {
		assert.Equal(t, 2, r.At.X, "no cells cleared outside column 2")
		assert.GreaterOrEqual(t, r.At.Y, 2)
		assert.LessOrEqual(t, r.At.Y, 5)
	}

	require.Len(t, pass.Created, 1)
	assert.Equal(t, engine.KindColumnClear, pass.Created[0].Kind)
	assert.Equal(t, engine.ColorRed, pass.Created[0].Color)
	assert.Equal(t, engine.C(2, 4), pass.Created[0].At)

	// The special falls two rows; the two pieces above it follow.
	assert.Equal(t, []engine.Move{
		{ID: pass.Created[0].ID, From: engine.C(2, 4), To: engine.C(2, 2)},
		{ID: 51, From: engine.C(2, 6), To: engine.C(2, 3)},
		{ID: 59, From: engine.C(2, 7), To: engine.C(2, 4)},
	}, pass.Moves)

	got := specials(e)
	require.Len(t, got, 1)
	assert.Equal(t, engine.KindColumnClear, got[0].Kind())
	assert.Equal(t, engine.C(2, 2), got[0].Pos())
	requireSettled(t, e)
}

func TestRequestSwapFiveMakesAreaSpecial(t *testing.T) {
	e := newEngine(t, fiveBoard, 1)

	res, err := e.RequestSwap(engine.C(2, 2), engine.C(2, 1))
	require.NoError(t, err)
	require.True(t, res.Accepted())
	require.Len(t, res.Passes, 1)

	pass := res.Passes[0]
	assert.Len(t, pass.Cleared, 5)
	require.Len(t, pass.Created, 1)
	assert.Equal(t, engine.KindAreaClear, pass.Created[0].Kind)

	got := specials(e)
	require.Len(t, got, 1)
	assert.Equal(t, engine.KindAreaClear, got[0].Kind())
	assert.Equal(t, engine.DefaultAreaRadius, got[0].Radius())
	assert.Equal(t, engine.C(2, 1), got[0].Pos())
	requireSettled(t, e)
}

func TestRequestSwapFourMakesRowSpecial(t *testing.T) {
	e := newEngine(t, fourBoard, 1)

	res, err := e.RequestSwap(engine.C(3, 2), engine.C(3, 1))
	require.NoError(t, err)
	require.True(t, res.Accepted())
	require.Len(t, res.Passes, 1)

	got := specials(e)
	require.Len(t, got, 1)
	assert.Equal(t, engine.KindRowClear, got[0].Kind())
	assert.Equal(t, engine.C(3, 1), got[0].Pos())
	requireSettled(t, e)
}

func TestRequestSwapSpecialsDisabled(t *testing.T) {
	l := engine.MustParseLayout(fourBoard...)
	e, err := engine.New(engine.Config{Colors: 6, NoSpecials: true},
		engine.WithLayout(l), engine.WithSeed(1), engine.WithLogger(quietLogger()))
	require.NoError(t, err)

	res, err := e.RequestSwap(engine.C(3, 2), engine.C(3, 1))
	require.NoError(t, err)
	require.True(t, res.Accepted())
	assert.Len(t, res.Passes[0].Cleared, 4)
	assert.Empty(t, specials(e))
}

func TestRequestSwapChainDetonation(t *testing.T) {
	e := newEngine(t, chainBoard, 1)

	res, err := e.RequestSwap(engine.C(2, 4), engine.C(2, 3))
	require.NoError(t, err)
	require.True(t, res.Accepted())
	require.NotEmpty(t, res.Passes)

	pass := res.Passes[0]
	require.Len(t, pass.Detonations, 3)
	assert.Equal(t, engine.KindRowClear, pass.Detonations[0].Source.Kind)
	assert.Equal(t, engine.C(0, 3), pass.Detonations[0].Source.At)
	assert.Equal(t, engine.KindAreaClear, pass.Detonations[1].Source.Kind)
	assert.Equal(t, engine.C(5, 3), pass.Detonations[1].Source.At)
	assert.Equal(t, engine.KindColumnClear, pass.Detonations[2].Source.Kind)
	assert.Equal(t, engine.C(7, 5), pass.Detonations[2].Source.At)

	// Union of row 3, the 5x5 area around (5,3) and column 7.
	want := map[engine.Coord]bool{}
	for x := 0; x < 8; x++ {
		want[engine.C(x, 3)] = true
	}
	for y := 1; y <= 5; y++ {
		for x := 3; x <= 7; x++ {
			want[engine.C(x, y)] = true
		}
	}
	for y := 0; y < 8; y++ {
		want[engine.C(7, y)] = true
	}
	require.Len(t, want, 31)

	require.Len(t, pass.Cleared, len(want))
	for _, r := range pass.Cleared {
		assert.True(t, want[r.At], "unexpected clear at %v", r.At)
	}
	assert.Empty(t, pass.Created)
	requireSettled(t, e)
}

func TestRequestSwapRollsBack(t *testing.T) {
	e := newEngine(t, red3Board, 1)
	before := e.Grid()

	res, err := e.RequestSwap(engine.C(4, 0), engine.C(5, 0))
	require.NoError(t, err)
	assert.False(t, res.Accepted())
	assert.Empty(t, res.Passes)
	assert.True(t, before.Equal(e.Grid()))
	assert.True(t, e.IsAccepting())
}

func TestRequestSwapNonAdjacent(t *testing.T) {
	e, err := engine.New(engine.DefaultConfig(), engine.WithSeed(9), engine.WithLogger(quietLogger()))
	require.NoError(t, err)
	before := e.String()
	grid := e.Grid()

	_, err = e.RequestSwap(engine.C(0, 0), engine.C(3, 3))
	assert.ErrorIs(t, err, engine.ErrInvalidSwap)
	assert.Equal(t, before, e.String())
	assert.True(t, grid.Equal(e.Grid()))
	assert.Equal(t, engine.StateIdle, e.State())

	_, err = e.RequestSwap(engine.C(7, 7), engine.C(8, 7))
	assert.ErrorIs(t, err, engine.ErrOutOfRange)
	assert.True(t, grid.Equal(e.Grid()))
}

func TestBeginSwapAndAdvance(t *testing.T) {
	e := newEngine(t, red3Board, 1)

	_, err := e.Advance()
	assert.ErrorIs(t, err, engine.ErrNotResolving)

	out, err := e.BeginSwap(engine.C(3, 0), engine.C(2, 0))
	require.NoError(t, err)
	require.True(t, out.Committed)
	assert.Equal(t, engine.StateResolving, e.State())
	assert.False(t, e.IsAccepting())

	_, err = e.BeginSwap(engine.C(5, 5), engine.C(5, 6))
	assert.ErrorIs(t, err, engine.ErrNotAccepting)

	rec, err := e.Advance()
	require.NoError(t, err)
	assert.True(t, rec.Settled())
	assert.Equal(t, engine.StateIdle, e.State())
	requireSettled(t, e)
}

func TestCascadeLimit(t *testing.T) {
	// A one-color board can never settle: every refill matches.
	e, err := engine.New(engine.Config{Width: 3, Height: 3, Colors: 1, FillRetries: 1, MaxPasses: 4},
		engine.WithSeed(1), engine.WithLogger(quietLogger()))
	require.NoError(t, err)
	require.NotEmpty(t, e.Diagnostics())
	for _, d := range e.Diagnostics() {
		assert.True(t, engine.IsFillExhausted(d))
	}

	res, err := e.RequestSwap(engine.C(0, 0), engine.C(0, 1))
	require.NoError(t, err)
	require.True(t, res.Accepted())
	assert.Len(t, res.Passes, 4)
	assert.Equal(t, engine.StateIdle, e.State())

	last := res.Passes[len(res.Passes)-1]
	assert.NotEmpty(t, last.NewMatches)
	require.NotEmpty(t, res.Diagnostics)
	assert.ErrorIs(t, res.Diagnostics[len(res.Diagnostics)-1], engine.ErrCascadeLimit)
}

func TestRandomPlayStaysStable(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		cfg := engine.Config{Width: 7, Height: 9, Colors: 5}
		e, err := engine.New(cfg, engine.WithSeed(seed), engine.WithLogger(quietLogger()))
		require.NoError(t, err)

		for move := 0; move < 15; move++ {
			swaps, err := e.ValidSwaps()
			require.NoError(t, err)
			if len(swaps) == 0 {
				break
			}
			s := swaps[(int(seed)+move)%len(swaps)]

			eval, err := e.Evaluate(s.A, s.B)
			require.NoError(t, err)
			require.True(t, eval.HasMatch)

			res, err := e.RequestSwap(s.A, s.B)
			require.NoError(t, err)
			require.True(t, res.Accepted())
			require.NotEmpty(t, res.Passes)
			assert.LessOrEqual(t, len(res.Passes), cfg.Width*cfg.Height)
			for _, d := range res.Diagnostics {
				assert.NotErrorIs(t, d, engine.ErrCascadeLimit)
			}
			requireSettled(t, e)
		}
	}
}
