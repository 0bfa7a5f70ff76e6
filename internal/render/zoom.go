package render

import (
	"context"
	"fmt"
	"image"

	"github.com/san-kum/fracterm/internal/orbit"
	"github.com/san-kum/fracterm/internal/palette"
	"github.com/san-kum/fracterm/internal/plane"
)

// ZoomSequence renders frames images, zooming each one by factor about
// the centre of the previous one. Iterations grow by iterStep per frame
// so detail keeps up with the zoom.
func ZoomSequence(ctx context.Context, view plane.Viewport, rule orbit.Rule, opts Options, scheme palette.Scheme, frames int, factor float64, iterStep int) ([]image.Image, error) {
	if frames <= 0 {
		return nil, nil
	}
	if !(factor > 0) {
		return nil, fmt.Errorf("zoom factor must be positive, got %g", factor)
	}

	out := make([]image.Image, 0, frames)
	for i := 0; i < frames; i++ {
		f, err := Escape(ctx, view, rule, opts)
		if err != nil {
			return out, err
		}
		out = append(out, Colorize(f, scheme))

		view = view.Zoom(factor)
		opts.Iterations += iterStep
		if opts.Iterations < 0 {
			opts.Iterations = 0
		}
	}
	return out, nil
}
