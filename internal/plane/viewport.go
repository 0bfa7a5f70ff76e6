package plane

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidViewport = errors.New("invalid viewport")

// Viewport maps a rectangle of the complex plane onto a rows x columns grid.
// Rows grow downward (decreasing imaginary part), columns grow rightward.
type Viewport struct {
	Corner  complex128 // top-left
	Width   float64
	Height  float64
	Rows    int
	Columns int
}

func New(corner complex128, width, height float64, rows, cols int) (Viewport, error) {
	v := Viewport{Corner: corner, Width: width, Height: height, Rows: rows, Columns: cols}
	if err := v.Validate(); err != nil {
		return Viewport{}, err
	}
	return v, nil
}

// Centered builds a viewport whose window is centred on center.
func Centered(center complex128, width, height float64, rows, cols int) (Viewport, error) {
	corner := center + complex(-width/2, height/2)
	return New(corner, width, height, rows, cols)
}

func (v Viewport) Validate() error {
	if !finite(real(v.Corner)) || !finite(imag(v.Corner)) {
		return fmt.Errorf("%w: corner must be finite, got %v", ErrInvalidViewport, v.Corner)
	}
	if !(v.Width > 0) || !finite(v.Width) {
		return fmt.Errorf("%w: width must be positive, got %g", ErrInvalidViewport, v.Width)
	}
	if !(v.Height > 0) || !finite(v.Height) {
		return fmt.Errorf("%w: height must be positive, got %g", ErrInvalidViewport, v.Height)
	}
	if v.Rows <= 0 {
		return fmt.Errorf("%w: rows must be positive, got %d", ErrInvalidViewport, v.Rows)
	}
	if v.Columns <= 0 {
		return fmt.Errorf("%w: columns must be positive, got %d", ErrInvalidViewport, v.Columns)
	}
	return nil
}

// ToPlane returns the plane point at the top-left of cell (row, col).
// Out-of-range indices extrapolate the same affine map.
func (v Viewport) ToPlane(row, col int) complex128 {
	re := real(v.Corner) + float64(col)*v.Width/float64(v.Columns)
	im := imag(v.Corner) - float64(row)*v.Height/float64(v.Rows)
	return complex(re, im)
}

// ToGrid is the inverse of ToPlane. Indices are truncated toward zero, so
// points that fall exactly on a cell boundary may land one cell off.
func (v Viewport) ToGrid(z complex128) (row, col int, ok bool) {
	col = int((real(z) - real(v.Corner)) * float64(v.Columns) / v.Width)
	row = int((imag(v.Corner) - imag(z)) * float64(v.Rows) / v.Height)
	ok = 0 <= row && row < v.Rows && 0 <= col && col < v.Columns
	return row, col, ok
}

func (v Viewport) Center() complex128 {
	return v.Corner + complex(v.Width/2, -v.Height/2)
}

// Pan shifts the window by fractions of its own size. Positive dx moves
// right, positive dy moves up.
func (v Viewport) Pan(dx, dy float64) Viewport {
	v.Corner += complex(dx*v.Width, dy*v.Height)
	return v
}

// Zoom scales the window about its centre. factor < 1 zooms in.
func (v Viewport) Zoom(factor float64) Viewport {
	if !(factor > 0) {
		return v
	}
	shift := (1 - factor) / 2
	v.Corner += complex(v.Width*shift, -v.Height*shift)
	v.Width *= factor
	v.Height *= factor
	return v
}

// Resize keeps the window and replaces the grid resolution.
func (v Viewport) Resize(rows, cols int) Viewport {
	v.Rows = rows
	v.Columns = cols
	return v
}

func (v Viewport) String() string {
	c := v.Center()
	return fmt.Sprintf("center=%.6g%+.6gi size=%.6gx%.6g grid=%dx%d",
		real(c), imag(c), v.Width, v.Height, v.Columns, v.Rows)
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
