package tui

import (
	"image"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/fracterm/internal/config"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

type capture struct {
	path string
	img  image.Image
	err  error
}

func (c *capture) write(path string, img image.Image) error {
	c.path, c.img = path, img
	return c.err
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Iterations = 30
	cfg.Workers = 1
	cfg.Seed = 7
	cfg.Screenshot.Path = "shot.png"
	cfg.Screenshot.Width = 30
	cfg.Screenshot.Height = 20
	cfg.Buddha.Rows = 50
	cfg.Buddha.Columns = 50
	cfg.Buddha.SamplesPerFrame = 500
	return cfg
}
