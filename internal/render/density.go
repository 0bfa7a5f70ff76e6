package render

import (
	"image"

	"github.com/san-kum/fracterm/internal/density"
	"github.com/san-kum/fracterm/internal/palette"
	"github.com/san-kum/fracterm/internal/plane"
)

// Density renders the part of grid inside view at the grid's own
// resolution as a grey image, brightest cell white.
func Density(grid *density.Grid, view plane.Viewport, gamma float64) *image.RGBA {
	frame, peak := density.Crop(grid, view)
	img := image.NewRGBA(image.Rect(0, 0, frame.Columns, frame.Rows))
	for r := 0; r < frame.Rows; r++ {
		for c := 0; c < frame.Columns; c++ {
			img.SetRGBA(c, r, palette.Gray(palette.Intensity(frame.At(r, c), peak, gamma)))
		}
	}
	return img
}

// DensityFrame projects grid onto view and returns one intensity in
// [0, 1] per view cell, row-major.
func DensityFrame(grid *density.Grid, view plane.Viewport, gamma float64) []float64 {
	frame, peak := density.Project(grid, view)
	out := make([]float64, len(frame.Cells))
	for i, v := range frame.Cells {
		out[i] = palette.Intensity(v, peak, gamma)
	}
	return out
}
