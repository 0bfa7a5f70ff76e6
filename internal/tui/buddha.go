package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/fracterm/internal/config"
	"github.com/san-kum/fracterm/internal/density"
	"github.com/san-kum/fracterm/internal/export"
	"github.com/san-kum/fracterm/internal/orbit"
	"github.com/san-kum/fracterm/internal/palette"
	"github.com/san-kum/fracterm/internal/plane"
	"github.com/san-kum/fracterm/internal/render"
)

const (
	buddhaTick  = 100 * time.Millisecond
	gammaStep   = 1.1
	speedStep   = 1.1
	labelRows   = 2
	minSpeedCap = 1
)

type tickMsg struct {
	gen int
}

// Buddha accumulates a Buddhabrot while it is being viewed.
type Buddha struct {
	grid    *density.Grid
	sampler *density.Sampler
	farm    density.Region
	rule    orbit.Rule

	minIters, maxIters int
	samples            float64
	gamma              float64

	view       plane.Viewport
	plotted    int64
	generating bool
	gen        int

	shotPath string
	save     ImageWriter

	mouse   complex128
	message string
	err     error
	styles  styles

	width, height int
}

func NewBuddha(cfg *config.Config, theme Theme) (Buddha, error) {
	if err := cfg.Validate(); err != nil {
		return Buddha{}, err
	}
	rule, err := cfg.GetRule()
	if err != nil {
		return Buddha{}, err
	}
	plot, err := cfg.PlotView()
	if err != nil {
		return Buddha{}, err
	}
	farm, err := cfg.Farm()
	if err != nil {
		return Buddha{}, err
	}
	grid, err := density.NewGrid(plot)
	if err != nil {
		return Buddha{}, err
	}

	m := Buddha{
		grid:       grid,
		sampler:    density.NewSampler(cfg.Workers, cfg.Seed),
		farm:       farm,
		rule:       rule,
		minIters:   cfg.Buddha.MinIters,
		maxIters:   cfg.Buddha.MaxIters,
		samples:    float64(cfg.Buddha.SamplesPerFrame),
		gamma:      cfg.Buddha.Gamma,
		generating: true,
		shotPath:   cfg.Buddha.Screenshot,
		save:       export.WritePNG,
		styles:     theme.styles(),
		width:      80,
		height:     24,
	}
	m.view = plot.Resize(m.displayRows(), m.width)
	return m, nil
}

func (m Buddha) WithWriter(w ImageWriter) Buddha {
	m.save = w
	return m
}

func (m Buddha) Grid() *density.Grid      { return m.grid }
func (m Buddha) Viewport() plane.Viewport { return m.view }
func (m Buddha) Plotted() int64           { return m.plotted }
func (m Buddha) Generating() bool         { return m.generating }
func (m Buddha) Gamma() float64           { return m.gamma }
func (m Buddha) Message() string          { return m.message }

// Limits returns the minimum and maximum accepted orbit lengths.
func (m Buddha) Limits() (int, int) { return m.minIters, m.maxIters }

func (m Buddha) displayRows() int {
	return max(m.height-labelRows, 1)
}

func (m Buddha) tick() tea.Cmd {
	gen := m.gen
	return tea.Tick(buddhaTick, func(time.Time) tea.Msg { return tickMsg{gen: gen} })
}

func (m Buddha) Init() tea.Cmd {
	if !m.generating {
		return nil
	}
	return m.tick()
}

// Step plots one frame's worth of orbits.
func (m *Buddha) Step(ctx context.Context) {
	n, err := m.sampler.Accumulate(ctx, m.grid, m.farm, m.rule, m.minIters, m.maxIters, int(m.samples))
	m.plotted += n
	if err != nil {
		m.err = err
	}
}

func (m Buddha) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if msg.gen != m.gen || !m.generating {
			return m, nil
		}
		m.Step(context.Background())
		return m, m.tick()
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.mouse = m.view.ToPlane(msg.Y, msg.X)
		return m, nil
	case tea.WindowSizeMsg:
		m.width = max(msg.Width, 1)
		m.height = msg.Height
		m.view = m.view.Resize(m.displayRows(), m.width)
		return m, nil
	}
	return m, nil
}

func (m Buddha) handleKey(msg tea.KeyMsg) (Buddha, tea.Cmd) {
	m.message = ""
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		return m, tea.Quit
	case "up", "w", "W", "k", "K":
		m.view = m.view.Pan(0, panStep)
	case "down", "s", "S", "j", "J":
		m.view = m.view.Pan(0, -panStep)
	case "left", "a", "A", "h", "H":
		m.view = m.view.Pan(-panStep, 0)
	case "right", "d", "D", "l", "L":
		m.view = m.view.Pan(panStep, 0)
	case "<", ",":
		m.view = m.view.Zoom(zoomOut)
	case ">", ".":
		m.view = m.view.Zoom(zoomIn)

	case ";", ":":
		m.minIters -= iterStep
		if m.minIters < -1 {
			m.minIters = -iterStep
		}
	case "'", "\"":
		m.minIters += iterStep
		if m.minIters > m.maxIters {
			m.minIters = m.maxIters - 1
		}
	case "[", "{":
		m.maxIters -= iterStep
		if m.maxIters < m.minIters {
			m.maxIters = m.minIters + 1
		}
	case "]", "}":
		m.maxIters += iterStep

	case "+", "=":
		m.gamma /= gammaStep
	case "-", "_":
		m.gamma *= gammaStep

	case "f", "F":
		m.samples = max(m.samples/speedStep, minSpeedCap)
	case "g", "G":
		m.samples *= speedStep

	case "c", "C":
		m.grid.Clear()
		m.plotted = 0
	case "b", "B":
		if err := m.grid.Reframe(m.view); err != nil {
			m.err = err
		}
		m.plotted = 0

	case "p", "P":
		m.generating = !m.generating
		m.gen++
		if m.generating {
			return m, m.tick()
		}
	case "y", "Y":
		img := render.Density(m.grid, m.view, m.gamma)
		if err := m.save(m.shotPath, img); err != nil {
			m.message = fmt.Sprintf("Screenshot failed: %v", err)
		} else {
			m.message = fmt.Sprintf("Screenshot saved to %s", m.shotPath)
		}
	}
	return m, nil
}

func (m Buddha) View() string {
	var b strings.Builder

	frame := render.DensityFrame(m.grid, m.view, m.gamma)
	for r := 0; r < m.view.Rows; r++ {
		var ln line
		for c := 0; c < m.view.Columns; c++ {
			glyph, band := palette.Shade(frame[r*m.view.Columns+c])
			ln.add(band, glyph, heatBands)
		}
		b.WriteString(ln.finish(heatBands))
		b.WriteByte('\n')
	}

	state := m.styles.running.Render("generating")
	if !m.generating {
		state = m.styles.paused.Render("paused")
	}
	first := fmt.Sprintf(" Min, Max Iters: %d, %d     Mouse: %f + %f * i     Points Plotted: %d ",
		m.minIters, m.maxIters, real(m.mouse), imag(m.mouse), m.plotted)
	b.WriteString(m.styles.status.Render(first) + state)
	b.WriteByte('\n')

	area := m.grid.View()
	second := fmt.Sprintf(" Plot: (%f, %f)     Window: (%f, %f)     Gamma: %f ",
		area.Width, area.Height, m.view.Width, m.view.Height, m.gamma)
	b.WriteString(m.styles.status.Render(second))
	switch {
	case m.err != nil:
		b.WriteString(m.styles.err.Render(m.err.Error()))
	case m.message != "":
		b.WriteString(m.styles.notice.Render(m.message))
	}
	return b.String()
}
