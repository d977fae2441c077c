package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/match3/internal/levels"
)

var boardsCmd = &cobra.Command{
	Use:   "boards",
	Short: "List all board presets",
	Long:  `Shows the board presets found in the --boards directory.`,
	Run:   runBoards,
}

func runBoards(cmd *cobra.Command, args []string) {
	loader := levels.NewLoader(flagBoardsDir)

	boards, skipped, err := loader.LoadAllStrict()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for _, err := range skipped {
		fmt.Fprintf(os.Stderr, "Skipped: %v\n", err)
	}

	listBoards(os.Stdout, boards)
}

func listBoards(w io.Writer, boards []levels.Board) {
	if len(boards) == 0 {
		fmt.Fprintln(w, "No boards available.")
		return
	}

	fmt.Fprintln(w, "Available boards:")
	fmt.Fprintln(w)

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, b := range boards {
		if len(b.ID) > maxIDLen {
			maxIDLen = len(b.ID)
		}
	}

	// Print header
	fmt.Fprintf(w, "  %-*s  %-5s  %-6s  %s\n", maxIDLen, "ID", "Size", "Colors", "Name")
	fmt.Fprintf(w, "  %-*s  %-5s  %-6s  %s\n", maxIDLen, "--", "----", "------", "----")

	// Print boards
	for _, b := range boards {
		colors := "config"
		if b.Colors > 0 {
			colors = fmt.Sprint(b.Colors)
		}
		size := fmt.Sprintf("%dx%d", b.Width, b.Height)
		name := b.Name
		if b.Layout != nil {
			name += " (fixed layout)"
		}
		fmt.Fprintf(w, "  %-*s  %-5s  %-6s  %s\n", maxIDLen, b.ID, size, colors, name)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'match3 simulate --board <id>' to play a board.")
}
