package density

import (
	"math"

	"github.com/san-kum/fracterm/internal/plane"
)

// snapTolerance absorbs floating error when a window edge sits on a cell
// boundary, so identical windows map onto identical index ranges.
const snapTolerance = 1e-9

// Frame is a row-major grid of aggregated counts ready for display.
type Frame struct {
	Rows, Columns int
	Cells         []uint32
}

func NewFrame(rows, cols int) Frame {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return Frame{Rows: rows, Columns: cols, Cells: make([]uint32, rows*cols)}
}

func (f Frame) At(r, c int) uint32 {
	return f.Cells[r*f.Columns+c]
}

// window returns the source index range [minR, maxR) x [minC, maxC)
// covered by target. The range may extend past the source grid.
func window(src plane.Viewport, target plane.Viewport) (minR, maxR, minC, maxC int) {
	rowScale := float64(src.Rows) / src.Height
	colScale := float64(src.Columns) / src.Width

	top := imag(src.Corner) - imag(target.Corner)
	left := real(target.Corner) - real(src.Corner)

	minR = cellIndex(top * rowScale)
	maxR = cellIndex((top + target.Height) * rowScale)
	minC = cellIndex(left * colScale)
	maxC = cellIndex((left + target.Width) * colScale)
	return minR, maxR, minC, maxC
}

func cellIndex(x float64) int {
	if n := math.Round(x); math.Abs(x-n) < snapTolerance {
		return int(n)
	}
	return int(x)
}

// Project aggregates the part of src visible through target into a
// target.Rows x target.Columns frame. Source cells that alias onto one
// target cell are summed; target cells no source cell maps to stay zero.
// It also returns the largest aggregated value.
func Project(src *Grid, target plane.Viewport) (Frame, uint32) {
	frame := NewFrame(target.Rows, target.Columns)
	if target.Rows <= 0 || target.Columns <= 0 {
		return frame, 0
	}

	minR, maxR, minC, maxC := window(src.view, target)
	rangeR := maxR - minR
	rangeC := maxC - minC
	if rangeR <= 0 || rangeC <= 0 {
		return frame, 0
	}

	rows, cols := src.view.Rows, src.view.Columns
	var peak uint32

	for r := max(minR, 0); r < min(maxR, rows); r++ {
		y := (r - minR) * target.Rows / rangeR
		base := y * target.Columns
		for c := max(minC, 0); c < min(maxC, cols); c++ {
			v := src.cells[r*cols+c]
			if v == 0 {
				continue
			}
			x := (c - minC) * target.Columns / rangeC
			cell := &frame.Cells[base+x]
			sum := uint64(*cell) + uint64(v)
			if sum > math.MaxUint32 {
				sum = math.MaxUint32
			}
			*cell = uint32(sum)
			if *cell > peak {
				peak = *cell
			}
		}
	}

	return frame, peak
}

// Crop copies the source cells inside target at the source's native
// resolution, ignoring target.Rows and target.Columns. The frame is
// clipped to the source grid, so a target reaching past the grid never
// allocates more cells than the grid holds. The maximum is taken over the
// cropped region only.
func Crop(src *Grid, target plane.Viewport) (Frame, uint32) {
	minR, maxR, minC, maxC := window(src.view, target)
	rows, cols := src.view.Rows, src.view.Columns
	minR, maxR = max(minR, 0), min(maxR, rows)
	minC, maxC = max(minC, 0), min(maxC, cols)
	if maxR <= minR || maxC <= minC {
		return NewFrame(0, 0), 0
	}

	frame := NewFrame(maxR-minR, maxC-minC)
	var peak uint32

	for r := minR; r < maxR; r++ {
		for c := minC; c < maxC; c++ {
			v := src.cells[r*cols+c]
			frame.Cells[(r-minR)*frame.Columns+(c-minC)] = v
			if v > peak {
				peak = v
			}
		}
	}

	return frame, peak
}
