// Package levels provides board preset loading.
// This package depends on engine but engine does not depend on levels.
package levels

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vovakirdan/match3/internal/engine"
	"github.com/vovakirdan/match3/internal/levels/formats"
)

// Board represents a complete board preset.
type Board struct {
	ID       string
	Name     string
	Width    int
	Height   int
	Colors   int
	Layout   *engine.Layout
	Metadata map[string]string
	FilePath string
}

// Config applies the board to base. Size always comes from the board; the
// palette only when the board sets one.
func (b *Board) Config(base engine.Config) engine.Config {
	cfg := base
	cfg.Width = b.Width
	cfg.Height = b.Height
	if b.Colors > 0 {
		cfg.Colors = b.Colors
	}
	return cfg
}

// Options returns the engine options the board needs.
func (b *Board) Options() []engine.Option {
	if b.Layout == nil {
		return nil
	}
	return []engine.Option{engine.WithLayout(*b.Layout)}
}

// NewEngine creates an engine for this board on top of base.
func (b *Board) NewEngine(base engine.Config, opts ...engine.Option) (*engine.Engine, error) {
	return engine.New(b.Config(base), append(b.Options(), opts...)...)
}

// Loader handles loading boards from a directory.
type Loader struct {
	Root string
}

// NewLoader creates a new board loader.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll recursively scans and loads all board files.
// Returns boards sorted by ID for deterministic ordering.
func (l *Loader) LoadAll() ([]Board, error) {
	boards, _, err := l.scan()
	return boards, err
}

// LoadAllStrict is LoadAll that also reports the files it had to skip.
func (l *Loader) LoadAllStrict() ([]Board, []error, error) {
	return l.scan()
}

func (l *Loader) scan() ([]Board, []error, error) {
	var boards []Board
	var skipped []error

	err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !isSupportedExtension(ext) {
			return nil
		}

		board, err := l.LoadFile(path)
		if err != nil {
			// Skip invalid files
			skipped = append(skipped, err)
			return nil
		}

		boards = append(boards, board)
		return nil
	})

	if err != nil {
		return nil, nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
	}

	// Sort by ID for determinism
	sort.Slice(boards, func(i, j int) bool {
		return boards[i].ID < boards[j].ID
	})

	return boards, skipped, nil
}

// LoadFile loads a single board file.
func (l *Loader) LoadFile(path string) (Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Board{}, fmt.Errorf("reading file %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	parsed, err := parseByExtension(data, ext)
	if err != nil {
		return Board{}, fmt.Errorf("parsing file %s: %w", path, err)
	}

	return Board{
		ID:       parsed.ID,
		Name:     parsed.Name,
		Width:    parsed.Width,
		Height:   parsed.Height,
		Colors:   parsed.Colors,
		Layout:   parsed.Layout,
		Metadata: parsed.Metadata,
		FilePath: path,
	}, nil
}

// LoadByID loads a specific board by ID.
func (l *Loader) LoadByID(id string) (Board, error) {
	boards, err := l.LoadAll()
	if err != nil {
		return Board{}, err
	}

	for _, b := range boards {
		if b.ID == id {
			return b, nil
		}
	}

	return Board{}, fmt.Errorf("board not found: %s", id)
}

// ListIDs returns all board IDs in sorted order.
func (l *Loader) ListIDs() ([]string, error) {
	boards, err := l.LoadAll()
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(boards))
	for i, b := range boards {
		ids[i] = b.ID
	}
	return ids, nil
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

// parseByExtension routes to the correct parser.
func parseByExtension(data []byte, ext string) (formats.Board, error) {
	switch ext {
	case ".yaml", ".yml":
		return formats.ParseYAML(data)
	default:
		return formats.Board{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}
