package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/match3/internal/engine"
)

var flagSwapBoard string

var swapCmd = &cobra.Command{
	Use:   "swap <x1,y1> <x2,y2> [<x1,y1> <x2,y2> ...]",
	Short: "Apply explicit swaps to a board",
	Long: `Apply one or more swaps in order and print every pass. Coordinates are
"x,y" with (0,0) at the bottom left. A swap that does not match is rolled
back; an invalid swap stops the run.

Examples:
  match3 swap 3,0 2,0 --board corner
  match3 swap 2,4 2,3 --board chain
  match3 swap 0,0 1,0 --seed 7`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 || len(args)%2 != 0 {
			return errors.New("swap needs pairs of coordinates")
		}
		return nil
	},
	Run: runSwap,
}

func init() {
	swapCmd.Flags().StringVar(&flagSwapBoard, "board", "", "Board preset ID (default: random board)")
}

func runSwap(cmd *cobra.Command, args []string) {
	swaps, err := parseSwaps(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	s, err := newSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	e, err := s.engineFor(flagSwapBoard)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating board: %v\n", err)
		os.Exit(1)
	}

	if err := applySwaps(os.Stdout, e, swaps, s.board); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// applySwaps runs each swap to completion and prints the result.
func applySwaps(w io.Writer, e *engine.Engine, swaps []engine.Swap, board *boardRenderer) error {
	fmt.Fprintf(w, "%s\n\n", board.Render(e.Layout()))
	for i, sw := range swaps {
		res, err := e.RequestSwap(sw.A, sw.B)
		if err != nil {
			return fmt.Errorf("swap %d %s: %w", i+1, sw, err)
		}
		fmt.Fprintf(w, "Swap %d: %s\n", i+1, sw)
		printResolution(w, res)
		fmt.Fprintf(w, "%s\n\n", board.Render(e.Layout()))
	}
	return nil
}

// parseSwaps pairs up coordinate arguments.
func parseSwaps(args []string) ([]engine.Swap, error) {
	if len(args)%2 != 0 {
		return nil, errors.New("swap needs pairs of coordinates")
	}
	swaps := make([]engine.Swap, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		a, err := parseCoord(args[i])
		if err != nil {
			return nil, err
		}
		b, err := parseCoord(args[i+1])
		if err != nil {
			return nil, err
		}
		swaps = append(swaps, engine.Swap{A: a, B: b})
	}
	return swaps, nil
}

// parseCoord parses "x,y".
func parseCoord(s string) (engine.Coord, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return engine.Coord{}, fmt.Errorf("coordinate %q: want x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return engine.Coord{}, fmt.Errorf("coordinate %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return engine.Coord{}, fmt.Errorf("coordinate %q: %w", s, err)
	}
	return engine.C(x, y), nil
}
