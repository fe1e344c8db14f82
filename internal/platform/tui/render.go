package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/frameloop/internal/core"
)

// ansiColors maps screen colors to terminal color codes.
var ansiColors = map[core.Color]string{
	core.ColorRed:     "1",
	core.ColorGreen:   "2",
	core.ColorYellow:  "3",
	core.ColorBlue:    "4",
	core.ColorMagenta: "5",
	core.ColorCyan:    "6",
	core.ColorWhite:   "7",
	core.ColorOrange:  "208",
	core.ColorGray:    "245",
}

// Styles are the lipgloss styles of one terminal. Each SSH session builds
// its own from the session renderer so colors match the client's profile.
type Styles struct {
	cells map[core.Color]lipgloss.Style

	HUD        lipgloss.Style
	Title      lipgloss.Style
	Paused     lipgloss.Style
	MenuTitle  lipgloss.Style
	MenuCursor lipgloss.Style
	MenuDim    lipgloss.Style
}

// NewStyles binds every style to r. A nil r uses the default renderer.
func NewStyles(r *lipgloss.Renderer) *Styles {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	fg := func(code string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(code))
	}

	st := &Styles{
		cells:      make(map[core.Color]lipgloss.Style, len(ansiColors)+1),
		HUD:        fg(ansiColors[core.ColorGray]),
		Title:      fg(ansiColors[core.ColorCyan]).Bold(true),
		Paused:     fg(ansiColors[core.ColorYellow]).Bold(true),
		MenuTitle:  fg(ansiColors[core.ColorCyan]).Bold(true),
		MenuCursor: fg(ansiColors[core.ColorYellow]).Bold(true),
		MenuDim:    fg(ansiColors[core.ColorGray]),
	}
	st.cells[core.ColorDefault] = r.NewStyle()
	for c, code := range ansiColors {
		st.cells[c] = fg(code)
	}
	return st
}

// Cell returns the style of a screen color. Unknown colors render plain.
func (st *Styles) Cell(c core.Color) lipgloss.Style {
	if style, ok := st.cells[c]; ok {
		return style
	}
	return st.cells[core.ColorDefault]
}

// RenderScreen turns the buffer into styled rows. Each run of same-colored
// cells becomes one span, so a mostly blank screen costs few escapes.
func (st *Styles) RenderScreen(s *core.Screen) string {
	var (
		out  strings.Builder
		span strings.Builder
	)
	out.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			out.WriteByte('\n')
		}
		span.Reset()
		spanColor := core.ColorDefault
		for x := range s.Width() {
			cell := s.GetCell(x, y)
			if x > 0 && cell.Color != spanColor {
				out.WriteString(st.Cell(spanColor).Render(span.String()))
				span.Reset()
			}
			spanColor = cell.Color
			span.WriteRune(cell.Rune)
		}
		if span.Len() > 0 {
			out.WriteString(st.Cell(spanColor).Render(span.String()))
		}
	}
	return out.String()
}
