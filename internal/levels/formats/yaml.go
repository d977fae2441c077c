// Package formats provides pluggable board file format parsers.
package formats

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/match3/internal/engine"
)

// YAMLBoard represents the YAML structure for a board file.
type YAMLBoard struct {
	ID       string            `yaml:"id"`
	Name     string            `yaml:"name"`
	Size     YAMLSize          `yaml:"size,omitempty"`
	Colors   int               `yaml:"colors,omitempty"`
	Rows     []string          `yaml:"rows,omitempty"` // top row first
	Metadata map[string]string `yaml:"metadata,omitempty"`
}

// YAMLSize represents board dimensions.
type YAMLSize struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// Board represents a parsed board ready for use.
type Board struct {
	ID       string
	Name     string
	Width    int
	Height   int
	Colors   int            // 0 keeps the configured palette
	Layout   *engine.Layout // nil for a random board
	Metadata map[string]string
}

// ParseYAML parses a YAML board file. A board gives either rows, a size,
// or both when they agree.
func ParseYAML(data []byte) (Board, error) {
	var yb YAMLBoard
	if err := yaml.Unmarshal(data, &yb); err != nil {
		return Board{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	if yb.ID == "" {
		return Board{}, fmt.Errorf("board has no id")
	}
	if yb.Colors < 0 || yb.Colors > int(engine.ColorCount) {
		return Board{}, fmt.Errorf("board %s: colors must be 0..%d, got %d", yb.ID, engine.ColorCount, yb.Colors)
	}

	board := Board{
		ID:       yb.ID,
		Name:     yb.Name,
		Width:    yb.Size.W,
		Height:   yb.Size.H,
		Colors:   yb.Colors,
		Metadata: yb.Metadata,
	}

	if len(yb.Rows) > 0 {
		layout, err := engine.ParseLayout(yb.Rows)
		if err != nil {
			return Board{}, fmt.Errorf("board %s: %w", yb.ID, err)
		}
		if board.Width == 0 && board.Height == 0 {
			board.Width, board.Height = layout.W, layout.H
		}
		if layout.W != board.Width || layout.H != board.Height {
			return Board{}, fmt.Errorf("board %s: rows are %dx%d but size is %dx%d",
				yb.ID, layout.W, layout.H, board.Width, board.Height)
		}
		board.Layout = &layout
	}

	if board.Width <= 0 || board.Height <= 0 {
		return Board{}, fmt.Errorf("board %s: size %dx%d must be positive", yb.ID, board.Width, board.Height)
	}

	return board, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}
