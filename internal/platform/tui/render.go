package tui

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type cellStyle struct {
	fg, bg color.RGBA
}

// styleCache keeps one lipgloss style per color pair seen while rendering.
type styleCache map[cellStyle]lipgloss.Style

func (sc styleCache) get(k cellStyle) lipgloss.Style {
	if st, ok := sc[k]; ok {
		return st
	}
	st := lipgloss.NewStyle()
	if k.fg.A != 0 {
		st = st.Foreground(hexColor(k.fg))
	}
	if k.bg.A != 0 {
		st = st.Background(hexColor(k.bg))
	}
	sc[k] = st
	return st
}

func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same colors to minimize ANSI escape sequences.
func RenderScreen(s *Screen) string {
	styles := make(styleCache)

	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		// Group consecutive cells with the same colors
		x := 0
		for x < s.Width() {
			start := s.Get(x, y)
			key := cellStyle{fg: start.FG, bg: start.BG}

			var run strings.Builder
			for x < s.Width() {
				cell := s.Get(x, y)
				if cell.FG != key.fg || cell.BG != key.bg {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			if key == (cellStyle{}) {
				sb.WriteString(run.String())
				continue
			}
			sb.WriteString(styles.get(key).Render(run.String()))
		}
	}
	return sb.String()
}
