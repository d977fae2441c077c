package engine

// ValidSwaps returns every adjacent swap on g that would produce a match.
// Pairs are visited row-major from the bottom, each cell paired with its
// right neighbour and then the one above, so the order is deterministic.
func ValidSwaps(g *Grid) ([]Swap, error) {
	var swaps []Swap
	for _, a := range g.AllCoords() {
		if g.at(a) == nil {
			continue
		}
		for _, d := range []Dir{DirRight, DirUp} {
			b := a.Step(d)
			if !g.InBounds(b) || g.at(b) == nil {
				continue
			}
			// Same colors never change the board.
			if g.at(a).color == g.at(b).color {
				continue
			}
			eval, err := EvaluateSwap(g, a, b)
			if err != nil {
				return nil, err
			}
			if eval.HasMatch {
				swaps = append(swaps, eval.Swap)
			}
		}
	}
	return swaps, nil
}

// HasValidSwap reports whether any swap on g would match.
func HasValidSwap(g *Grid) bool {
	swaps, err := ValidSwaps(g)
	return err == nil && len(swaps) > 0
}
