package tui

import (
	"context"
	"fmt"
	"image"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/fracterm/internal/config"
	"github.com/san-kum/fracterm/internal/export"
	"github.com/san-kum/fracterm/internal/orbit"
	"github.com/san-kum/fracterm/internal/palette"
	"github.com/san-kum/fracterm/internal/plane"
	"github.com/san-kum/fracterm/internal/render"
)

const (
	panStep    = 0.1
	zoomIn     = 0.9
	zoomOut    = 1.1
	iterStep   = 10
	statusRows = 2
)

// ImageWriter saves a screenshot.
type ImageWriter func(path string, img image.Image) error

// Explorer navigates an escape-time fractal in the terminal.
type Explorer struct {
	view       plane.Viewport
	rule       orbit.Rule
	mode       render.Mode
	iterations int
	workers    int

	scheme  palette.Scheme
	schemes []string

	shotPath          string
	shotRows, shotCol int
	save              ImageWriter

	field   *render.Field
	mouse   complex128
	message string
	err     error
	styles  styles

	width, height int
}

func NewExplorer(cfg *config.Config, theme Theme) (Explorer, error) {
	if err := cfg.Validate(); err != nil {
		return Explorer{}, err
	}
	rule, err := cfg.GetRule()
	if err != nil {
		return Explorer{}, err
	}
	scheme, err := cfg.GetScheme()
	if err != nil {
		return Explorer{}, err
	}

	m := Explorer{
		rule:       rule,
		mode:       cfg.Mode(),
		iterations: cfg.Iterations,
		workers:    cfg.Workers,
		scheme:     scheme,
		schemes:    palette.Names(),
		shotPath:   cfg.Screenshot.Path,
		shotRows:   cfg.Screenshot.Height,
		shotCol:    cfg.Screenshot.Width,
		save:       export.WritePNG,
		styles:     theme.styles(),
		width:      80,
		height:     24,
	}
	m.view, err = cfg.Viewport(m.plotRows(), m.width)
	if err != nil {
		return Explorer{}, err
	}
	m.refresh()
	return m, nil
}

// WithWriter replaces the screenshot writer.
func (m Explorer) WithWriter(w ImageWriter) Explorer {
	m.save = w
	return m
}

func (m Explorer) Viewport() plane.Viewport { return m.view }
func (m Explorer) Iterations() int          { return m.iterations }
func (m Explorer) Scheme() palette.Scheme   { return m.scheme }
func (m Explorer) Mouse() complex128        { return m.mouse }
func (m Explorer) Message() string          { return m.message }

func (m Explorer) plotRows() int {
	return max(m.height-statusRows, 1)
}

func (m *Explorer) refresh() {
	f, err := render.Escape(context.Background(), m.view, m.rule, render.Options{
		Mode:       m.mode,
		Iterations: m.iterations,
		Workers:    m.workers,
	})
	m.field, m.err = f, err
}

func (m Explorer) Init() tea.Cmd { return nil }

func (m Explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.mouse = m.view.ToPlane(msg.Y, msg.X)
		return m, nil
	case tea.WindowSizeMsg:
		m.width = max(msg.Width, 1)
		m.height = msg.Height
		m.view = m.view.Resize(m.plotRows(), m.width)
		m.refresh()
		return m, nil
	}
	return m, nil
}

func (m Explorer) handleKey(msg tea.KeyMsg) (Explorer, tea.Cmd) {
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
	case "[", "{":
		m.iterations = max(m.iterations-iterStep, 0)
	case "]", "}":
		m.iterations += iterStep
	case "c", "C":
		m.scheme.Continuous = !m.scheme.Continuous
		m.message = fmt.Sprintf("Continuity turned %s", onOff(m.scheme.Continuous))
		return m, nil
	case "m", "M":
		m.cycleScheme()
		return m, nil
	case "y", "Y":
		m.screenshot()
		return m, nil
	default:
		return m, nil
	}
	m.refresh()
	return m, nil
}

func (m *Explorer) cycleScheme() {
	next := 0
	for i, name := range m.schemes {
		if name == m.scheme.Name {
			next = (i + 1) % len(m.schemes)
			break
		}
	}
	s, err := palette.Lookup(m.schemes[next])
	if err != nil {
		m.err = err
		return
	}
	m.scheme = s.WithContinuous(m.scheme.Continuous)
	m.message = fmt.Sprintf("Scheme: %s", s.Name)
}

// screenshot renders the current window at screenshot resolution.
func (m *Explorer) screenshot() {
	shot := m.view.Resize(m.shotRows, m.shotCol)
	f, err := render.Escape(context.Background(), shot, m.rule, render.Options{
		Mode:       m.mode,
		Iterations: m.iterations,
		Smooth:     m.scheme.Continuous,
		Workers:    m.workers,
	})
	if err != nil {
		m.message = fmt.Sprintf("Screenshot failed: %v", err)
		return
	}
	if err := m.save(m.shotPath, render.Colorize(f, m.scheme)); err != nil {
		m.message = fmt.Sprintf("Screenshot failed: %v", err)
		return
	}
	m.message = fmt.Sprintf("Screenshot saved to %s", m.shotPath)
}

func (m Explorer) View() string {
	var b strings.Builder

	if m.field != nil {
		for r := 0; r < m.field.Rows; r++ {
			var ln line
			for c := 0; c < m.field.Columns; c++ {
				ln.add(EscapeBand(m.field.At(r, c)), ' ', escapeBands)
			}
			b.WriteString(ln.finish(escapeBands))
			b.WriteByte('\n')
		}
	}

	switch {
	case m.err != nil:
		b.WriteString(m.styles.err.Render(m.err.Error()))
	case m.message != "":
		b.WriteString(m.styles.notice.Render(m.message))
	}
	b.WriteByte('\n')

	status := fmt.Sprintf("Iters: %d\tMouse: %f + %f * i | Window: (%f, %f)",
		m.iterations, real(m.mouse), imag(m.mouse), m.view.Width, m.view.Height)
	if m.mode == render.Julia {
		status += fmt.Sprintf("\t\tJulia At: %f + %f * i", real(m.rule.Param), imag(m.rule.Param))
	}
	b.WriteString(m.styles.status.Render(status))
	return b.String()
}

func onOff(b bool) string {
	if b {
		return "On"
	}
	return "Off"
}
