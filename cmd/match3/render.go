package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/vovakirdan/match3/internal/engine"
)

// colorCodes maps piece colors to ANSI colors.
var colorCodes = map[engine.Color]lipgloss.Color{
	engine.ColorRed:    lipgloss.Color("9"),
	engine.ColorGreen:  lipgloss.Color("10"),
	engine.ColorBlue:   lipgloss.Color("12"),
	engine.ColorYellow: lipgloss.Color("11"),
	engine.ColorPurple: lipgloss.Color("13"),
	engine.ColorOrange: lipgloss.Color("208"),
}

// boardRenderer turns a layout into text for one output.
type boardRenderer struct {
	styles map[engine.Color]lipgloss.Style
	empty  lipgloss.Style
	plain  bool
}

// newBoardRenderer picks plain or styled output for w. mode is auto, always
// or never; auto styles only terminals.
func newBoardRenderer(w io.Writer, mode string) (*boardRenderer, error) {
	switch mode {
	case "never":
		return &boardRenderer{plain: true}, nil
	case "", "auto":
		f, ok := w.(*os.File)
		if !ok || !term.IsTerminal(int(f.Fd())) {
			return &boardRenderer{plain: true}, nil
		}
	case "always":
	default:
		return nil, fmt.Errorf("color mode %q: want auto, always or never", mode)
	}

	r := lipgloss.NewRenderer(w)
	if mode == "always" {
		r.SetColorProfile(termenv.ANSI256)
	}

	br := &boardRenderer{
		styles: make(map[engine.Color]lipgloss.Style, len(colorCodes)),
		empty:  r.NewStyle().Foreground(lipgloss.Color("245")),
	}
	for c, code := range colorCodes {
		br.styles[c] = r.NewStyle().Foreground(code)
	}
	return br, nil
}

// Render returns the board top row first. Specials are bold. A nil
// renderer prints plain text.
func (br *boardRenderer) Render(l engine.Layout) string {
	if br == nil || br.plain {
		return l.String()
	}

	var sb strings.Builder
	for y := l.H - 1; y >= 0; y-- {
		if y < l.H-1 {
			sb.WriteRune('\n')
		}
		for x := 0; x < l.W; x++ {
			if x > 0 {
				sb.WriteRune(' ')
			}
			cell := l.At(engine.C(x, y))
			if cell.Empty {
				sb.WriteString(br.empty.Render(cell.Token()))
				continue
			}
			style := br.styles[cell.Color]
			if cell.Kind != engine.KindNone {
				style = style.Bold(true)
			}
			sb.WriteString(style.Render(cell.Token()))
		}
	}
	return sb.String()
}
