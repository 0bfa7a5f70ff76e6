package render

import (
	"context"
	"fmt"
	"image"
	"math/cmplx"

	"github.com/san-kum/fracterm/internal/compute"
	"github.com/san-kum/fracterm/internal/orbit"
	"github.com/san-kum/fracterm/internal/palette"
	"github.com/san-kum/fracterm/internal/plane"
)

type Mode int

const (
	// Mandelbrot treats each cell as the rule's param and starts every
	// orbit from the rule's configured param.
	Mandelbrot Mode = iota
	// Julia starts each orbit at the cell and keeps the param fixed.
	Julia
)

func (m Mode) String() string {
	if m == Julia {
		return "julia"
	}
	return "mandelbrot"
}

type Options struct {
	Mode       Mode
	Iterations int
	// Smooth applies the continuous escape correction to every escaping
	// cell before the field is returned.
	Smooth  bool
	Workers int
}

// Field holds one escape value per cell, row-major. Bounded cells are -1.
type Field struct {
	Rows, Columns int
	Values        []float64
	// Final is |z| at the point each cell stopped iterating.
	Final    []float64
	Smoothed bool

	radius, power float64
}

func (f *Field) At(r, c int) float64 {
	return f.Values[r*f.Columns+c]
}

// Escape evaluates rule once per cell of view. Rows are spread over
// opts.Workers goroutines; a cancelled context stops the remaining rows
// and returns the partly filled field with the context error.
func Escape(ctx context.Context, view plane.Viewport, rule orbit.Rule, opts Options) (*Field, error) {
	if err := view.Validate(); err != nil {
		return nil, err
	}
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	if opts.Iterations < 0 {
		return nil, fmt.Errorf("iterations must be non-negative, got %d", opts.Iterations)
	}

	n := view.Rows * view.Columns
	f := &Field{
		Rows:    view.Rows,
		Columns: view.Columns,
		Values:  make([]float64, n),
		Final:   make([]float64, n),
		radius:  rule.Radius,
		power:   cmplx.Abs(rule.Power),
	}
	seed := rule.Param

	err := compute.ForWorkers(opts.Workers).Rows(ctx, view.Rows, func(r int) {
		base := r * view.Columns
		for c := 0; c < view.Columns; c++ {
			pt := view.ToPlane(r, c)

			var res orbit.Result
			if opts.Mode == Julia {
				res = orbit.Evaluate(rule, pt, opts.Iterations, nil)
			} else {
				res = orbit.Evaluate(rule.WithParam(pt), seed, opts.Iterations, nil)
			}

			v := res.Value()
			final := cmplx.Abs(res.Final)
			if opts.Smooth {
				v, _ = palette.Smooth(v, final, f.radius, f.power)
			}
			f.Values[base+c] = v
			f.Final[base+c] = final
		}
	})
	f.Smoothed = opts.Smooth
	return f, err
}

// Histogram buckets escaping cells by escape value into bins covering
// [0, iterations]. Bounded cells are not counted.
func (f *Field) Histogram(bins, iterations int) []float64 {
	if bins <= 0 {
		return nil
	}
	out := make([]float64, bins)
	if iterations <= 0 {
		iterations = 1
	}
	for _, v := range f.Values {
		if v < 0 {
			continue
		}
		b := int(v * float64(bins) / float64(iterations+1))
		if b >= bins {
			b = bins - 1
		}
		if b < 0 {
			b = 0
		}
		out[b]++
	}
	return out
}

// Colorize paints a field with scheme. When the scheme asks for
// continuous coloring and the field is not yet smoothed, the correction
// is applied here from the stored final magnitudes.
func Colorize(f *Field, scheme palette.Scheme) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Columns, f.Rows))
	smooth := scheme.Continuous && !f.Smoothed
	for r := 0; r < f.Rows; r++ {
		for c := 0; c < f.Columns; c++ {
			i := r*f.Columns + c
			v := f.Values[i]
			if smooth {
				v, _ = palette.Smooth(v, f.Final[i], f.radius, f.power)
			}
			img.SetRGBA(c, r, scheme.Color(v))
		}
	}
	return img
}
