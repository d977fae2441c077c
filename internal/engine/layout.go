package engine

import (
	"fmt"
	"strings"
)

// LayoutCell is one cell of a text layout.
type LayoutCell struct {
	Empty bool
	Color Color
	Kind  SpecialKind
}

// Token returns the text form of the cell.
func (c LayoutCell) Token() string {
	if c.Empty {
		return "."
	}
	return string(c.Color.Char()) + c.Kind.Suffix()
}

// Layout is a board snapshot in text form. Cells are stored row-major with
// row 0 at the bottom, like the grid.
type Layout struct {
	W     int
	H     int
	Cells []LayoutCell
}

// ParseLayout parses rows given top row first. Tokens are separated by
// whitespace: a color letter (R G B Y P O) with an optional special suffix
// ("-" row clear, "|" column clear, "*" area clear), or "." for an empty
// cell.
func ParseLayout(rows []string) (Layout, error) {
	if len(rows) == 0 {
		return Layout{}, fmt.Errorf("%w: layout has no rows", ErrInvalidConfiguration)
	}

	h := len(rows)
	var l Layout
	for i, row := range rows {
		tokens := strings.Fields(row)
		if i == 0 {
			if len(tokens) == 0 {
				return Layout{}, fmt.Errorf("%w: layout row 1 is empty", ErrInvalidConfiguration)
			}
			l = Layout{W: len(tokens), H: h, Cells: make([]LayoutCell, len(tokens)*h)}
		}
		if len(tokens) != l.W {
			return Layout{}, fmt.Errorf("%w: layout row %d has %d cells, want %d",
				ErrInvalidConfiguration, i+1, len(tokens), l.W)
		}

		y := h - 1 - i
		for x, tok := range tokens {
			cell, err := parseToken(tok)
			if err != nil {
				return Layout{}, fmt.Errorf("%w: layout row %d column %d: %v",
					ErrInvalidConfiguration, i+1, x+1, err)
			}
			l.Cells[y*l.W+x] = cell
		}
	}
	return l, nil
}

// MustParseLayout is ParseLayout for fixed layouts known to be valid.
func MustParseLayout(rows ...string) Layout {
	l, err := ParseLayout(rows)
	if err != nil {
		panic(err)
	}
	return l
}

func parseToken(tok string) (LayoutCell, error) {
	if tok == "." {
		return LayoutCell{Empty: true}, nil
	}
	if len(tok) > 2 {
		return LayoutCell{}, fmt.Errorf("bad token %q", tok)
	}
	color, ok := ParseColor(tok[:1])
	if !ok {
		return LayoutCell{}, fmt.Errorf("unknown color %q", tok[:1])
	}
	cell := LayoutCell{Color: color}
	if len(tok) == 2 {
		switch tok[1] {
		case '-':
			cell.Kind = KindRowClear
		case '|':
			cell.Kind = KindColumnClear
		case '*':
			cell.Kind = KindAreaClear
		default:
			return LayoutCell{}, fmt.Errorf("unknown special suffix %q", tok[1:])
		}
	}
	return cell, nil
}

// At returns the cell at c. c must be in bounds.
func (l Layout) At(c Coord) LayoutCell {
	return l.Cells[c.Y*l.W+c.X]
}

// Rows returns the layout as text rows, top row first.
func (l Layout) Rows() []string {
	rows := make([]string, 0, l.H)
	for y := l.H - 1; y >= 0; y-- {
		tokens := make([]string, l.W)
		for x := 0; x < l.W; x++ {
			tokens[x] = l.At(C(x, y)).Token()
		}
		rows = append(rows, strings.Join(tokens, " "))
	}
	return rows
}

// String returns the rows joined by newlines.
func (l Layout) String() string {
	return strings.Join(l.Rows(), "\n")
}

// LayoutOf snapshots a grid.
func LayoutOf(g *Grid) Layout {
	l := Layout{W: g.W, H: g.H, Cells: make([]LayoutCell, len(g.cells))}
	for i, p := range g.cells {
		if p == nil {
			l.Cells[i] = LayoutCell{Empty: true}
			continue
		}
		l.Cells[i] = LayoutCell{Color: p.color, Kind: p.kind}
	}
	return l
}

// build places the layout's pieces on a fresh grid, allocating IDs in
// row-major order.
func (l Layout) build(ids *idSource, radius int) (*Grid, error) {
	g, err := NewGrid(l.W, l.H)
	if err != nil {
		return nil, err
	}
	for i, cell := range l.Cells {
		if cell.Empty {
			continue
		}
		g.put(g.coordAt(i), NewSpecial(ids.take(), cell.Color, cell.Kind, radius))
	}
	return g, nil
}
