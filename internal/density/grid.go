package density

import (
	"math"

	"github.com/san-kum/fracterm/internal/plane"
)

// Grid is a histogram of orbit visits over its own viewport. Cells only
// ever grow; increments saturate at math.MaxUint32.
type Grid struct {
	view  plane.Viewport
	cells []uint32
}

func NewGrid(view plane.Viewport) (*Grid, error) {
	if err := view.Validate(); err != nil {
		return nil, err
	}
	return &Grid{
		view:  view,
		cells: make([]uint32, view.Rows*view.Columns),
	}, nil
}

func (g *Grid) View() plane.Viewport { return g.view }
func (g *Grid) Rows() int            { return g.view.Rows }
func (g *Grid) Columns() int         { return g.view.Columns }

func (g *Grid) At(r, c int) uint32 {
	return g.cells[r*g.view.Columns+c]
}

// Inc adds one visit to cell (r, c).
func (g *Grid) Inc(r, c int) {
	i := r*g.view.Columns + c
	if g.cells[i] != math.MaxUint32 {
		g.cells[i]++
	}
}

// Set overwrites a cell. Used when restoring a stored session.
func (g *Grid) Set(r, c int, v uint32) {
	g.cells[r*g.view.Columns+c] = v
}

// IncAt increments the cell containing z and reports whether z was in
// bounds.
func (g *Grid) IncAt(z complex128) bool {
	r, c, ok := g.view.ToGrid(z)
	if ok {
		g.Inc(r, c)
	}
	return ok
}

func (g *Grid) Clear() {
	clear(g.cells)
}

// Reframe clears the grid and points it at a new window, keeping the
// resolution.
func (g *Grid) Reframe(view plane.Viewport) error {
	view = view.Resize(g.view.Rows, g.view.Columns)
	if err := view.Validate(); err != nil {
		return err
	}
	g.Clear()
	g.view = view
	return nil
}

// Merge adds every cell of other into g. Both grids must have the same
// dimensions.
func (g *Grid) Merge(other *Grid) {
	for i, v := range other.cells {
		if v == 0 {
			continue
		}
		sum := uint64(g.cells[i]) + uint64(v)
		if sum > math.MaxUint32 {
			sum = math.MaxUint32
		}
		g.cells[i] = uint32(sum)
	}
}

func (g *Grid) Max() uint32 {
	var peak uint32
	for _, v := range g.cells {
		if v > peak {
			peak = v
		}
	}
	return peak
}

func (g *Grid) Total() uint64 {
	var total uint64
	for _, v := range g.cells {
		total += uint64(v)
	}
	return total
}

// Stats summarises a grid for status lines and stored sessions.
type Stats struct {
	Max      uint32
	Total    uint64
	Coverage float64
}

func (g *Grid) Stats() Stats {
	var s Stats
	nonZero := 0
	for _, v := range g.cells {
		if v == 0 {
			continue
		}
		nonZero++
		s.Total += uint64(v)
		if v > s.Max {
			s.Max = v
		}
	}
	if len(g.cells) > 0 {
		s.Coverage = float64(nonZero) / float64(len(g.cells))
	}
	return s
}

func (g *Grid) sameShape(other *Grid) bool {
	return g.view.Rows == other.view.Rows && g.view.Columns == other.view.Columns
}
