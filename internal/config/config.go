// Package config provides YAML-based engine configuration loading and
// difficulty presets for match3.
package config

import (
	"fmt"

	"github.com/vovakirdan/match3/internal/engine"
)

// Match3Config contains all configuration for the engine and the CLI.
type Match3Config struct {
	Board    BoardConfig    `yaml:"board"`
	Fill     FillConfig     `yaml:"fill"`
	Specials SpecialsConfig `yaml:"specials"`
	Cascade  CascadeConfig  `yaml:"cascade"`
	Log      LogConfig      `yaml:"log"`
}

// BoardConfig defines the board size and palette.
type BoardConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Colors int `yaml:"colors"` // 1..6
}

// FillConfig defines the board filler.
type FillConfig struct {
	MaxRetries int `yaml:"max_retries"` // re-rolls per cell before accepting a match
}

// SpecialsConfig defines special piece creation.
type SpecialsConfig struct {
	Enabled    bool `yaml:"enabled"`
	AreaRadius int  `yaml:"area_radius"` // Chebyshev radius of an area clear
}

// CascadeConfig defines the cascade circuit breaker.
type CascadeConfig struct {
	MaxPasses int `yaml:"max_passes"` // 0 = width * height
}

// LogConfig defines logger output.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // auto, text, json
}

// Validate checks the values the engine cannot default.
func (c Match3Config) Validate() error {
	if c.Board.Width <= 0 || c.Board.Height <= 0 {
		return fmt.Errorf("board: size %dx%d must be positive", c.Board.Width, c.Board.Height)
	}
	if c.Board.Colors < 1 || c.Board.Colors > int(engine.ColorCount) {
		return fmt.Errorf("board: colors must be 1..%d, got %d", engine.ColorCount, c.Board.Colors)
	}
	if c.Fill.MaxRetries < 1 {
		return fmt.Errorf("fill: max_retries must be at least 1, got %d", c.Fill.MaxRetries)
	}
	if c.Specials.AreaRadius < 0 {
		return fmt.Errorf("specials: area_radius must not be negative, got %d", c.Specials.AreaRadius)
	}
	if c.Cascade.MaxPasses < 0 {
		return fmt.Errorf("cascade: max_passes must not be negative, got %d", c.Cascade.MaxPasses)
	}
	switch c.Log.Format {
	case "", "auto", "text", "json":
	default:
		return fmt.Errorf("log: unknown format %q", c.Log.Format)
	}
	return nil
}

// EngineConfig converts the configuration for engine.New.
func (c Match3Config) EngineConfig() engine.Config {
	return engine.Config{
		Width:       c.Board.Width,
		Height:      c.Board.Height,
		Colors:      c.Board.Colors,
		FillRetries: c.Fill.MaxRetries,
		AreaRadius:  c.Specials.AreaRadius,
		NoSpecials:  !c.Specials.Enabled,
		MaxPasses:   c.Cascade.MaxPasses,
	}
}
