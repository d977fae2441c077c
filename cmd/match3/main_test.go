package main

import (
	"bytes"
	"io"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/match3/internal/config"
	"github.com/vovakirdan/match3/internal/engine"
	"github.com/vovakirdan/match3/internal/levels"
	"github.com/vovakirdan/match3/internal/storage"
)

const boardsDir = "../../boards"

func TestParseCoord(t *testing.T) {
	testCases := []struct {
		input    string
		expected engine.Coord
		wantErr  bool
	}{
		{"3,0", engine.C(3, 0), false},
		{" 2 , 4 ", engine.C(2, 4), false},
		{"-1,0", engine.C(-1, 0), false},
		{"3", engine.Coord{}, true},
		{"a,1", engine.Coord{}, true},
		{"1,b", engine.Coord{}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			c, err := parseCoord(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, c)
		})
	}
}

func TestParseSwaps(t *testing.T) {
	swaps, err := parseSwaps([]string{"3,0", "2,0", "1,1", "1,2"})
	require.NoError(t, err)
	assert.Equal(t, []engine.Swap{
		{A: engine.C(3, 0), B: engine.C(2, 0)},
		{A: engine.C(1, 1), B: engine.C(1, 2)},
	}, swaps)

	_, err = parseSwaps([]string{"3,0"})
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger, err := newLogger(&buf, config.LogConfig{Level: "warn", Format: "json"}, true)
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown", "cell", "3,0")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	logger, err = newLogger(&buf, config.LogConfig{Level: "info", Format: "auto"}, false)
	require.NoError(t, err)
	logger.Info("piped")
	assert.Contains(t, buf.String(), `"msg":"piped"`, "redirected output is JSON")

	_, err = newLogger(&buf, config.LogConfig{Level: "loud"}, true)
	assert.Error(t, err)
}

func TestApplySwapsOnPreset(t *testing.T) {
	board, err := levels.NewLoader(boardsDir).LoadByID("corner")
	require.NoError(t, err)
	e, err := board.NewEngine(engine.DefaultConfig(), engine.WithSeed(1), engine.WithLogger(log.New(io.Discard)))
	require.NoError(t, err)

	swaps, err := parseSwaps(strings.Fields(board.Metadata["swap"]))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, applySwaps(&out, e, swaps, nil))
	assert.Contains(t, out.String(), "Swap 1: ")
	assert.Contains(t, out.String(), "matched 3 cells")
	assert.Contains(t, out.String(), "pass 1: cleared 3")
	assert.True(t, e.IsAccepting())
}

func TestApplySwapsStopsOnInvalid(t *testing.T) {
	e, err := engine.New(engine.DefaultConfig(), engine.WithSeed(1), engine.WithLogger(log.New(io.Discard)))
	require.NoError(t, err)

	var out bytes.Buffer
	err = applySwaps(&out, e, []engine.Swap{{A: engine.C(0, 0), B: engine.C(2, 0)}}, nil)
	assert.ErrorIs(t, err, engine.ErrInvalidSwap)
}

func TestSimulate(t *testing.T) {
	e, err := engine.New(engine.DefaultConfig(), engine.WithSeed(42), engine.WithLogger(log.New(io.Discard)))
	require.NoError(t, err)

	var out bytes.Buffer
	stats, err := simulate(&out, e, rand.New(rand.NewSource(42)), simOptions{moves: 5})
	require.NoError(t, err)

	if !stats.Stuck {
		assert.Equal(t, 5, stats.Moves)
	}
	assert.GreaterOrEqual(t, stats.Passes, stats.Moves, "every valid swap resolves at least once")
	assert.GreaterOrEqual(t, stats.Cleared, 3*stats.Moves)
	assert.Contains(t, out.String(), "Moves: ")
	assert.True(t, e.IsAccepting())
	assert.False(t, engine.HasAnyMatch(e.Grid()))
}

func TestSimulateQuiet(t *testing.T) {
	e, err := engine.New(engine.DefaultConfig(), engine.WithSeed(3), engine.WithLogger(log.New(io.Discard)))
	require.NoError(t, err)

	var out bytes.Buffer
	_, err = simulate(&out, e, rand.New(rand.NewSource(3)), simOptions{moves: 3, quiet: true})
	require.NoError(t, err)
	assert.NotContains(t, out.String(), "Move 1:")
}

func TestListBoards(t *testing.T) {
	boards, err := levels.NewLoader(boardsDir).LoadAll()
	require.NoError(t, err)

	var out bytes.Buffer
	listBoards(&out, boards)
	assert.Contains(t, out.String(), "corner")
	assert.Contains(t, out.String(), "8x8")
	assert.Contains(t, out.String(), "(fixed layout)")

	out.Reset()
	listBoards(&out, nil)
	assert.Equal(t, "No boards available.\n", out.String())
}

func TestSimulateRecord(t *testing.T) {
	e, err := engine.New(engine.DefaultConfig(), engine.WithSeed(9), engine.WithLogger(log.New(io.Discard)))
	require.NoError(t, err)

	stats, err := simulate(io.Discard, e, rand.New(rand.NewSource(9)), simOptions{moves: 4, quiet: true})
	require.NoError(t, err)
	require.Len(t, stats.Log, stats.Moves)

	run, moves := stats.record(randomBoardID, 9, e.Config())
	assert.Equal(t, "random", run.BoardID)
	assert.Equal(t, 8, run.Width)
	assert.Equal(t, stats.Cleared, run.Cleared)
	require.Len(t, moves, stats.Moves)

	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer store.Close()

	_, err = store.SaveRun(run, moves)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, listRuns(&out, store, "", 10))
	assert.Contains(t, out.String(), "random")
	assert.Contains(t, out.String(), "random: 1 runs")
}

func TestListRunsEmpty(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer store.Close()

	var out bytes.Buffer
	require.NoError(t, listRuns(&out, store, "corner", 5))
	assert.Contains(t, out.String(), "No runs recorded yet.")
}

func TestBoardRenderer(t *testing.T) {
	l := engine.MustParseLayout("R- .", "G B")

	plain, err := newBoardRenderer(&bytes.Buffer{}, "auto")
	require.NoError(t, err)
	assert.Equal(t, "R- .\nG B", plain.Render(l), "non-terminal output stays plain")

	var nilRenderer *boardRenderer
	assert.Equal(t, l.String(), nilRenderer.Render(l))

	styled, err := newBoardRenderer(&bytes.Buffer{}, "always")
	require.NoError(t, err)
	out := styled.Render(l)
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "R-")

	_, err = newBoardRenderer(&bytes.Buffer{}, "rainbow")
	assert.Error(t, err)
}

func TestIndent(t *testing.T) {
	assert.Equal(t, "  a\n    b\n", indent("a\n  b\n"))
	assert.Equal(t, "", indent(""))
}
