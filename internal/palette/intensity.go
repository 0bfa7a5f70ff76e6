package palette

import (
	"image/color"
	"math"
)

// Intensity normalises a bin count against the brightest visible bin and
// applies gamma. A zero max yields 0. Non-positive gamma is treated as
// linear.
func Intensity(count, peak uint32, gamma float64) float64 {
	if peak == 0 || count == 0 {
		return 0
	}
	if !(gamma > 0) {
		gamma = 1
	}
	v := float64(count) / float64(peak)
	if v >= 1 {
		return 1
	}
	return math.Pow(v, gamma)
}

// Smooth turns an integer escape count into a continuous value using the
// magnitude of the escaping point. ok is false when the correction is
// undefined and raw should be used as is: bounded points, points that
// started outside the radius, |z| <= 1, radius <= 1, and |power| == 1
// where log|power| is zero.
func Smooth(raw, finalAbs, radius, powerAbs float64) (float64, bool) {
	if !(raw > 0) || !(finalAbs > 1) || !(radius > 1) || !(powerAbs > 0) || powerAbs == 1 {
		return raw, false
	}
	v := raw - math.Log(math.Log(finalAbs)/math.Log(radius))/math.Log(powerAbs)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return raw, false
	}
	return v, true
}

// Gray converts an intensity in [0, 1] to a grey pixel.
func Gray(v float64) color.RGBA {
	if !(v > 0) {
		return color.RGBA{A: 255}
	}
	if v > 1 {
		v = 1
	}
	l := uint8(v * 255)
	return color.RGBA{R: l, G: l, B: l, A: 255}
}

// shadeGlyphs grade coverage within one heat band.
const shadeGlyphs = " `'\"*%#"

// ShadeLevels is the number of distinct terminal shades.
const ShadeLevels = 29

// Shade maps an intensity onto a terminal glyph and a heat band in 1..5.
func Shade(v float64) (rune, int) {
	level := int(v * ShadeLevels)
	if level < 0 || math.IsNaN(v) {
		level = 0
	}
	if level > ShadeLevels-1 {
		level = ShadeLevels - 1
	}
	glyphs := []rune(shadeGlyphs)
	return glyphs[level%len(glyphs)], level/len(glyphs) + 1
}
