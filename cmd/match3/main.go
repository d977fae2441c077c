// match3 drives the tile-matching engine from the command line: it builds
// boards, applies swaps and prints every resolving pass.
//
// Usage:
//
//	match3 simulate            - Autoplay a seeded board and print each move
//	match3 swap <a> <b> ...    - Apply explicit swaps, e.g. "3,0 2,0"
//	match3 boards              - List board presets
//	match3 config              - Print the effective configuration
//	match3 runs [board]        - Show recorded simulation runs
//
// Global flags:
//
//	--seed <value>        - Set RNG seed for reproducible boards
//	--config <path>       - Path to a custom config YAML
//	--difficulty <preset> - easy, normal, hard or fixed
//	--boards <dir>        - Board preset directory (default: ./boards)
//	--log-level <level>   - debug, info, warn or error
//	--db <path>           - Run log database (default: ~/.match3/runs.db)
//	--color <mode>        - Board colors: auto, always or never
package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/match3/internal/config"
	"github.com/vovakirdan/match3/internal/engine"
	"github.com/vovakirdan/match3/internal/levels"
)

var (
	// Global flags
	flagSeed       int64
	flagConfig     string
	flagDifficulty string
	flagBoardsDir  string
	flagLogLevel   string
	flagDBPath     string
	flagColor      string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "match3",
	Short: "match3 - tile-matching rules engine",
	Long: `match3 runs the tile-matching rules engine without any UI: boards are
printed as text, top row first, and every cascade pass is reported.

Available commands:
  simulate - Autoplay a board with random valid swaps
  swap     - Apply explicit swaps to a board
  boards   - Show all board presets
  config   - Print the effective configuration
  runs     - Show recorded simulation runs

Examples:
  match3 simulate --moves 20 --seed 7
  match3 swap 3,0 2,0 --board corner
  match3 boards
  match3 config --difficulty easy
  match3 simulate --record && match3 runs`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagBoardsDir, "boards", "boards", "Board preset directory")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (overrides config): debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.match3/runs.db", "Path to the run log database")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto", "Board colors: auto, always, never")

	// Add subcommands
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(swapCmd)
	rootCmd.AddCommand(boardsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(runsCmd)
}

// session is everything a command needs to build engines.
type session struct {
	cfg    config.Match3Config
	logger *log.Logger
	seed   int64
	board  *boardRenderer
}

// newSession loads the configuration, applies the difficulty preset and
// sets up logging.
func newSession() (*session, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	preset, err := config.ParseDifficulty(flagDifficulty)
	if err != nil {
		return nil, err
	}
	config.ApplyPreset(&cfg, preset)

	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	logger, err := newLogger(os.Stderr, cfg.Log, term.IsTerminal(int(os.Stderr.Fd())))
	if err != nil {
		return nil, err
	}

	board, err := newBoardRenderer(os.Stdout, flagColor)
	if err != nil {
		return nil, err
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &session{cfg: cfg, logger: logger, seed: seed, board: board}, nil
}

// newLogger writes text on a terminal and JSON when stderr is redirected,
// unless the config forces a format.
func newLogger(w io.Writer, lc config.LogConfig, tty bool) (*log.Logger, error) {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "match3",
	})

	if lc.Level != "" {
		level, err := log.ParseLevel(lc.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		logger.SetLevel(level)
	}

	switch lc.Format {
	case "json":
		logger.SetFormatter(log.JSONFormatter)
	case "text":
		logger.SetFormatter(log.TextFormatter)
	default:
		if !tty {
			logger.SetFormatter(log.JSONFormatter)
		}
	}
	return logger, nil
}

// engineFor creates an engine for a board preset, or a random board from
// the configuration when boardID is empty.
func (s *session) engineFor(boardID string) (*engine.Engine, error) {
	opts := []engine.Option{
		engine.WithSeed(s.seed),
		engine.WithLogger(s.logger),
	}

	if boardID == "" {
		return engine.New(s.cfg.EngineConfig(), opts...)
	}

	loader := levels.NewLoader(flagBoardsDir)
	board, err := loader.LoadByID(boardID)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("board loaded", "id", board.ID, "file", board.FilePath)
	return board.NewEngine(s.cfg.EngineConfig(), opts...)
}

// rng returns a move picker seeded like the engine.
func (s *session) rng() *rand.Rand {
	return rand.New(rand.NewSource(s.seed))
}
