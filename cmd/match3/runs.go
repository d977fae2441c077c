package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/match3/internal/storage"
)

var (
	flagRunsLimit int
	flagRunsClear bool
)

var runsCmd = &cobra.Command{
	Use:   "runs [board]",
	Short: "Show recorded simulation runs",
	Long: `Display recent runs saved with 'match3 simulate --record', optionally
for one board, followed by per-board totals.

Examples:
  match3 runs
  match3 runs classic --limit 20
  match3 runs random --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 10, "Number of runs to show")
	runsCmd.Flags().BoolVar(&flagRunsClear, "clear", false, "Delete the runs of the given board")
}

func runRuns(cmd *cobra.Command, args []string) {
	boardID := ""
	if len(args) == 1 {
		boardID = args[0]
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run log: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagRunsClear {
		if boardID == "" {
			fmt.Fprintln(os.Stderr, "Error: --clear needs a board")
			os.Exit(1)
		}
		if err := store.ClearRuns(boardID); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared runs for %s\n", boardID)
		return
	}

	if err := listRuns(os.Stdout, store, boardID, flagRunsLimit); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func listRuns(w io.Writer, store *storage.Store, boardID string, limit int) error {
	runs, err := store.RecentRuns(boardID, limit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded yet.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Run 'match3 simulate --record' to add one.")
		return nil
	}

	fmt.Fprintln(w, "Recent runs:")
	fmt.Fprintln(w)

	// Print header
	fmt.Fprintf(w, "  %-4s  %-10s  %-5s  %-5s  %-6s  %-7s  %s\n", "ID", "Board", "Size", "Moves", "Passes", "Cleared", "Date")
	fmt.Fprintf(w, "  %-4s  %-10s  %-5s  %-5s  %-6s  %-7s  %s\n", "--", "-----", "----", "-----", "------", "-------", "----")

	for _, r := range runs {
		size := fmt.Sprintf("%dx%d", r.Width, r.Height)
		moves := fmt.Sprint(r.Moves)
		if r.Stuck {
			moves += "*"
		}
		fmt.Fprintf(w, "  %-4d  %-10s  %-5s  %-5s  %-6d  %-7d  %s\n",
			r.ID, r.BoardID, size, moves, r.Passes, r.Cleared, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.AllBoardStats()
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(stats))
	for id := range stats {
		if boardID == "" || id == boardID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	fmt.Fprintln(w)
	for _, id := range ids {
		bs := stats[id]
		fmt.Fprintf(w, "%s: %d runs, best %d cleared, avg %.1f\n", id, bs.Runs, bs.BestCleared, bs.AvgCleared)
	}
	return nil
}
