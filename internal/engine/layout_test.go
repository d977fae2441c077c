package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/match3/internal/engine"
)

func TestParseLayout(t *testing.T) {
	l, err := engine.ParseLayout([]string{
		"R- .  B*",
		"G  Y| O",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, l.W)
	assert.Equal(t, 2, l.H)

	testCases := []struct {
		coord engine.Coord
		token string
	}{
		{engine.C(0, 1), "R-"},
		{engine.C(1, 1), "."},
		{engine.C(2, 1), "B*"},
		{engine.C(0, 0), "G"},
		{engine.C(1, 0), "Y|"},
		{engine.C(2, 0), "O"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.token, l.At(tc.coord).Token(), "at %v", tc.coord)
	}

	assert.Equal(t, []string{"R- . B*", "G Y| O"}, l.Rows())
	assert.Equal(t, "R- . B*\nG Y| O", l.String())
}

func TestParseLayoutErrors(t *testing.T) {
	testCases := []struct {
		name string
		rows []string
	}{
		{"no rows", nil},
		{"empty row", []string{""}},
		{"ragged", []string{"R G", "R"}},
		{"unknown color", []string{"R X"}},
		{"unknown suffix", []string{"R G+"}},
		{"long token", []string{"R G--"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := engine.ParseLayout(tc.rows)
			assert.ErrorIs(t, err, engine.ErrInvalidConfiguration)
		})
	}
}

func TestEngineLayoutRoundTrip(t *testing.T) {
	e := newEngine(t, chainBoard, 1)

	assert.Equal(t, engine.MustParseLayout(chainBoard...).Rows(), e.Layout().Rows())

	p, err := e.PieceAt(5, 3)
	require.NoError(t, err)
	assert.Equal(t, engine.KindAreaClear, p.Kind())
	assert.Equal(t, engine.DefaultAreaRadius, p.Radius())
	assert.Equal(t, "B*", p.String())
}
