package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/match3/internal/engine"
	"github.com/vovakirdan/match3/internal/storage"
)

var (
	flagMoves     int
	flagSimBoard  string
	flagSimQuiet  bool
	flagShowBoard bool
	flagRecord    bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Autoplay a board with random valid swaps",
	Long: `Build a board and play random valid swaps until the move budget is
spent or no swap can match. Each move prints its passes; --board picks a
preset instead of a random board. With --record the run is saved to the
run log (see 'match3 runs').

Examples:
  match3 simulate
  match3 simulate --moves 50 --seed 42 --record
  match3 simulate --board classic --difficulty easy --show-board`,
	Args: cobra.NoArgs,
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagMoves, "moves", 10, "Number of swaps to play")
	simulateCmd.Flags().StringVar(&flagSimBoard, "board", "", "Board preset ID (default: random board)")
	simulateCmd.Flags().BoolVarP(&flagSimQuiet, "quiet", "q", false, "Only print the summary")
	simulateCmd.Flags().BoolVar(&flagShowBoard, "show-board", false, "Print the board after every move")
	simulateCmd.Flags().BoolVar(&flagRecord, "record", false, "Save the run to the run log")
}

func runSimulate(cmd *cobra.Command, args []string) {
	s, err := newSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	e, err := s.engineFor(flagSimBoard)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating board: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Seed: %d\n", s.seed)
	opts := simOptions{moves: flagMoves, quiet: flagSimQuiet, showBoard: flagShowBoard, board: s.board}
	stats, err := simulate(os.Stdout, e, s.rng(), opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if !flagRecord {
		return
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run log: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	boardID := flagSimBoard
	if boardID == "" {
		boardID = randomBoardID
	}
	run, moves := stats.record(boardID, s.seed, e.Config())
	id, err := store.SaveRun(run, moves)
	if err != nil {
		s.logger.Error("run not recorded", "error", err)
		return
	}
	fmt.Printf("Recorded run #%d\n", id)
}

// randomBoardID names generated boards in the run log.
const randomBoardID = "random"

type simOptions struct {
	moves     int
	quiet     bool
	showBoard bool
	board     *boardRenderer // nil prints plain text
}

// simMove is one played swap.
type simMove struct {
	Swap    engine.Swap
	Passes  int
	Cleared int
}

// simStats summarizes an autoplay run.
type simStats struct {
	Moves       int
	Passes      int
	Cleared     int
	Specials    int
	Detonations int
	Diagnostics int
	Stuck       bool // stopped because no swap could match
	Log         []simMove
}

// record converts the stats for the run log.
func (st simStats) record(boardID string, seed int64, cfg engine.Config) (storage.Run, []storage.MoveEntry) {
	run := storage.Run{
		BoardID:     boardID,
		Seed:        seed,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Colors:      cfg.Colors,
		Moves:       st.Moves,
		Passes:      st.Passes,
		Cleared:     st.Cleared,
		Specials:    st.Specials,
		Detonations: st.Detonations,
		Warnings:    st.Diagnostics,
		Stuck:       st.Stuck,
	}
	moves := make([]storage.MoveEntry, len(st.Log))
	for i, m := range st.Log {
		moves[i] = storage.MoveEntry{N: i + 1, Swap: m.Swap.String(), Passes: m.Passes, Cleared: m.Cleared}
	}
	return run, moves
}

// simulate plays up to opts.moves random valid swaps on e.
func simulate(w io.Writer, e *engine.Engine, rng *rand.Rand, opts simOptions) (simStats, error) {
	var stats simStats
	fmt.Fprintf(w, "Board %dx%d\n%s\n\n", e.Width(), e.Height(), opts.board.Render(e.Layout()))

	for stats.Moves < opts.moves {
		swaps, err := e.ValidSwaps()
		if err != nil {
			return stats, err
		}
		if len(swaps) == 0 {
			stats.Stuck = true
			break
		}

		sw := swaps[rng.Intn(len(swaps))]
		res, err := e.RequestSwap(sw.A, sw.B)
		if err != nil {
			return stats, fmt.Errorf("move %d %s: %w", stats.Moves+1, sw, err)
		}
		stats.Moves++
		stats.Passes += len(res.Passes)
		stats.Cleared += res.Cleared()
		stats.Diagnostics += len(res.Diagnostics)
		for _, p := range res.Passes {
			stats.Specials += len(p.Created)
			stats.Detonations += len(p.Detonations)
		}
		stats.Log = append(stats.Log, simMove{Swap: sw, Passes: len(res.Passes), Cleared: res.Cleared()})

		if !opts.quiet {
			fmt.Fprintf(w, "Move %d: %s\n", stats.Moves, sw)
			printResolution(w, res)
		}
		if opts.showBoard {
			fmt.Fprintf(w, "%s\n\n", opts.board.Render(e.Layout()))
		}
	}

	if stats.Stuck {
		fmt.Fprintln(w, "No valid swaps left.")
	}
	fmt.Fprintf(w, "Moves: %d  Passes: %d  Cleared: %d  Specials: %d  Detonations: %d  Warnings: %d\n",
		stats.Moves, stats.Passes, stats.Cleared, stats.Specials, stats.Detonations, stats.Diagnostics)
	fmt.Fprintf(w, "\n%s\n", opts.board.Render(e.Layout()))
	return stats, nil
}

// printResolution writes the passes of a resolution.
func printResolution(w io.Writer, res engine.Resolution) {
	if !res.Accepted() {
		fmt.Fprintln(w, "  rolled back: no match")
		return
	}
	fmt.Fprintf(w, "  matched %d cells\n", len(res.Swap.Matched))
	for _, p := range res.Passes {
		fmt.Fprint(w, indent(p.String()))
	}
}

func indent(s string) string {
	out := make([]byte, 0, len(s)+16)
	start := true
	for i := 0; i < len(s); i++ {
		if start && s[i] != '\n' {
			out = append(out, ' ', ' ')
		}
		out = append(out, s[i])
		start = s[i] == '\n'
	}
	return string(out)
}
