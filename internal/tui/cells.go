package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// escapeBands are the background colors for escape-time cells: band 0
// for bounded points, then seven colors cycled by escape count.
var escapeBands = []lipgloss.Style{
	lipgloss.NewStyle().Background(lipgloss.Color("0")),
	lipgloss.NewStyle().Background(lipgloss.Color("1")),
	lipgloss.NewStyle().Background(lipgloss.Color("4")),
	lipgloss.NewStyle().Background(lipgloss.Color("2")),
	lipgloss.NewStyle().Background(lipgloss.Color("6")),
	lipgloss.NewStyle().Background(lipgloss.Color("3")),
	lipgloss.NewStyle().Background(lipgloss.Color("5")),
	lipgloss.NewStyle().Background(lipgloss.Color("7")),
}

// heatBands follow a heated body: red, yellow, white, then cyan.
var heatBands = []lipgloss.Style{
	lipgloss.NewStyle(),
	lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Background(lipgloss.Color("0")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Background(lipgloss.Color("1")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("7")).Background(lipgloss.Color("3")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Background(lipgloss.Color("7")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6")),
}

// EscapeBand picks the terminal color for an escape value.
func EscapeBand(v float64) int {
	if v < 0 {
		return 0
	}
	return int(v)%7 + 1
}

// line renders one row of cells, batching runs that share a style.
type line struct {
	sb    strings.Builder
	run   strings.Builder
	style int
}

func (l *line) add(style int, r rune, palette []lipgloss.Style) {
	if l.run.Len() > 0 && style != l.style {
		l.flush(palette)
	}
	l.style = style
	l.run.WriteRune(r)
}

func (l *line) flush(palette []lipgloss.Style) {
	if l.run.Len() == 0 {
		return
	}
	l.sb.WriteString(palette[l.style].Render(l.run.String()))
	l.run.Reset()
}

func (l *line) finish(palette []lipgloss.Style) string {
	l.flush(palette)
	return l.sb.String()
}
