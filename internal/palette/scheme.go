package palette

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

var ErrScheme = errors.New("invalid color scheme")

// Scheme cycles through Colors once every ItersPerCycle escape iterations.
// Points that never escape are painted SetColor.
type Scheme struct {
	Name          string
	Colors        []color.RGBA
	ItersPerCycle float64
	SetColor      color.RGBA
	Continuous    bool
}

func (s Scheme) Validate() error {
	if len(s.Colors) < 2 {
		return fmt.Errorf("%w: need at least 2 colors, got %d", ErrScheme, len(s.Colors))
	}
	if !(s.ItersPerCycle > 0) || math.IsInf(s.ItersPerCycle, 0) {
		return fmt.Errorf("%w: iterations per cycle must be positive, got %g", ErrScheme, s.ItersPerCycle)
	}
	return nil
}

// Color maps a raw escape value onto the palette. Negative values mark
// points that never escaped. Between palette knots the two neighbouring
// colors are blended channel by channel. Infinite values and schemes
// without a positive cycle also get SetColor.
func (s Scheme) Color(raw float64) color.RGBA {
	if raw < 0 || math.IsNaN(raw) || math.IsInf(raw, 0) || len(s.Colors) == 0 || !(s.ItersPerCycle > 0) {
		return s.SetColor
	}

	count := len(s.Colors)
	v := math.Mod(raw, s.ItersPerCycle)
	n := v * float64(count) / s.ItersPerCycle
	i := int(n)
	frac := n - float64(i)
	if i >= count {
		i, frac = 0, 0
	}

	a := toColorful(s.Colors[i])
	b := toColorful(s.Colors[(i+1)%count])
	r, g, bl := a.BlendRgb(b, frac).RGB255()
	return color.RGBA{R: r, G: g, B: bl, A: 255}
}

// WithContinuous returns a copy of s with smoothing switched on or off.
func (s Scheme) WithContinuous(on bool) Scheme {
	s.Continuous = on
	return s
}

func toColorful(c color.RGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

var black = rgb(0, 0, 0)

var schemes = map[string]Scheme{
	"starry": {
		Name:          "starry",
		Colors:        []color.RGBA{rgb(0, 0, 100), rgb(10, 75, 150), rgb(252, 178, 0), rgb(240, 252, 121), rgb(255, 255, 255)},
		ItersPerCycle: 50,
		SetColor:      black,
	},
	"firey": {
		Name:          "firey",
		Colors:        []color.RGBA{rgb(183, 60, 0), rgb(224, 77, 30), rgb(237, 244, 26), rgb(118, 190, 252), rgb(255, 255, 255)},
		ItersPerCycle: 35,
		SetColor:      black,
	},
	"foresty": {
		Name:          "foresty",
		Colors:        []color.RGBA{rgb(23, 109, 24), rgb(170, 92, 32), rgb(175, 132, 66), rgb(27, 211, 205)},
		ItersPerCycle: 40,
		SetColor:      black,
	},
	"spectrum": Spectrum(6, 60),
}

var descriptions = map[string]string{
	"starry":   "blue background with orange and white highlight",
	"firey":    "dark red background with yellow and blue highlight",
	"foresty":  "dark green background with cyan and yellow highlight",
	"spectrum": "evenly spaced hues",
}

// Spectrum builds a scheme of n evenly spaced fully saturated hues.
func Spectrum(n int, itersPerCycle float64) Scheme {
	colors := make([]color.RGBA, n)
	for i := range colors {
		r, g, b := colorful.Hsv(360*float64(i)/float64(n), 0.85, 1).RGB255()
		colors[i] = rgb(r, g, b)
	}
	return Scheme{Name: "spectrum", Colors: colors, ItersPerCycle: itersPerCycle, SetColor: black}
}

func Lookup(name string) (Scheme, error) {
	s, ok := schemes[name]
	if !ok {
		return Scheme{}, fmt.Errorf("%w: no color scheme called %q (available: %v)", ErrScheme, name, Names())
	}
	s.Colors = append([]color.RGBA(nil), s.Colors...)
	return s, nil
}

func Names() []string {
	names := make([]string, 0, len(schemes))
	for name := range schemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Describe(name string) string {
	return descriptions[name]
}

// ParseColors reads "#rrggbb" strings.
func ParseColors(hexes []string) ([]color.RGBA, error) {
	out := make([]color.RGBA, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("color %d: %w", i, err)
		}
		r, g, b := c.RGB255()
		out[i] = rgb(r, g, b)
	}
	return out, nil
}

func Hex(c color.RGBA) string {
	return toColorful(c).Hex()
}
