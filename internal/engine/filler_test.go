package engine_test

import (
	"errors"
	"io"
	"math/rand"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/match3/internal/engine"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestNewFillerRejectsBadConfig(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, err := engine.NewFiller(nil, rng, 10, quietLogger())
	assert.ErrorIs(t, err, engine.ErrInvalidConfiguration)

	_, err = engine.NewFiller(engine.Palette(3), rng, 0, quietLogger())
	assert.ErrorIs(t, err, engine.ErrInvalidConfiguration)
}

func TestFillBoardLeavesNoMatches(t *testing.T) {
	sizes := []struct{ w, h int }{{8, 8}, {5, 9}, {12, 3}, {1, 1}}

	for seed := int64(1); seed <= 20; seed++ {
		for _, sz := range sizes {
			g, err := engine.NewGrid(sz.w, sz.h)
			require.NoError(t, err)
			f, err := engine.NewFiller(engine.Palette(4), rand.New(rand.NewSource(seed)), engine.DefaultFillRetries, quietLogger())
			require.NoError(t, err)

			placed, diags := f.FillBoard(g)
			require.Empty(t, diags)
			assert.Len(t, placed, sz.w*sz.h)
			assert.True(t, g.IsFull())
			assert.False(t, engine.HasAnyMatch(g), "seed %d size %dx%d", seed, sz.w, sz.h)
			assert.NoError(t, g.Verify())
		}
	}
}

func TestFillBoardOnlyTouchesEmptyCells(t *testing.T) {
	g := gridFrom(t,
		". . .",
		"R . G",
	)
	left, err := g.Get(engine.C(0, 0))
	require.NoError(t, err)

	f, err := engine.NewFiller(engine.Palette(6), rand.New(rand.NewSource(7)), engine.DefaultFillRetries, quietLogger())
	require.NoError(t, err)

	placed, diags := f.FillBoard(g)
	require.Empty(t, diags)
	require.Len(t, placed, 4)
	assert.Equal(t, engine.C(1, 0), placed[0].Pos(), "bottom row is filled first")

	still, err := g.Get(engine.C(0, 0))
	require.NoError(t, err)
	assert.Same(t, left, still)
}

func TestFillBoardExhausted(t *testing.T) {
	g, err := engine.NewGrid(3, 1)
	require.NoError(t, err)
	f, err := engine.NewFiller(engine.Palette(1), rand.New(rand.NewSource(1)), 5, quietLogger())
	require.NoError(t, err)

	placed, diags := f.FillBoard(g)
	assert.Len(t, placed, 3, "the last piece is kept")
	assert.True(t, g.IsFull())
	require.Len(t, diags, 1)

	var exhausted *engine.FillExhaustedError
	require.True(t, errors.As(diags[0], &exhausted))
	assert.Equal(t, engine.C(2, 0), exhausted.At)
	assert.Equal(t, 5, exhausted.Attempts)
	assert.Equal(t, engine.ColorRed, exhausted.Kept)
	assert.True(t, engine.IsFillExhausted(diags[0]))
}

func TestFillCellUsesPalette(t *testing.T) {
	g, err := engine.NewGrid(4, 4)
	require.NoError(t, err)
	f, err := engine.NewFiller(engine.Palette(2), rand.New(rand.NewSource(3)), engine.DefaultFillRetries, quietLogger())
	require.NoError(t, err)

	for _, c := range g.AllCoords() {
		p, err := f.FillCell(g, c)
		require.NoError(t, err)
		assert.Less(t, int(p.Color()), 2)
		assert.Equal(t, c, p.Pos())
	}

	_, err = f.FillCell(g, engine.C(4, 0))
	assert.ErrorIs(t, err, engine.ErrOutOfRange)
}
