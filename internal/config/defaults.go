package config

import (
	_ "embed"
)

//go:embed defaults/match3.yaml
var defaultMatch3YAML []byte

// DefaultMatch3Config returns the default engine configuration.
func DefaultMatch3Config() Match3Config {
	return Match3Config{
		Board: BoardConfig{
			Width:  8,
			Height: 8,
			Colors: 6,
		},
		Fill: FillConfig{
			MaxRetries: 100,
		},
		Specials: SpecialsConfig{
			Enabled:    true,
			AreaRadius: 2,
		},
		Cascade: CascadeConfig{
			MaxPasses: 0,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// DefaultMatch3YAML returns the embedded default configuration file.
func DefaultMatch3YAML() []byte {
	return append([]byte(nil), defaultMatch3YAML...)
}
