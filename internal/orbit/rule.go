package orbit

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"strings"
)

var ErrRadius = errors.New("escape radius must be positive")

// Transform is applied to z before it is raised to the rule's power.
type Transform int

const (
	Identity Transform = iota
	Rectify
	Conjugate
)

var transformNames = map[Transform]string{
	Identity:  "mandelbrot",
	Rectify:   "burning-ship",
	Conjugate: "tricorn",
}

func (t Transform) String() string {
	if name, ok := transformNames[t]; ok {
		return name
	}
	return fmt.Sprintf("transform(%d)", int(t))
}

func ParseTransform(name string) (Transform, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "mandelbrot", "mandel", "identity":
		return Identity, nil
	case "burning-ship", "burningship", "ship", "rectify":
		return Rectify, nil
	case "tricorn", "conjugate", "conj":
		return Conjugate, nil
	}
	return Identity, fmt.Errorf("unknown transform: %s", name)
}

func (t Transform) Apply(z complex128) complex128 {
	switch t {
	case Rectify:
		return complex(math.Abs(real(z)), math.Abs(imag(z)))
	case Conjugate:
		return cmplx.Conj(z)
	default:
		return z
	}
}

// Rule is the escape-time iteration z' = transform(z)^Power + Param,
// escaping once |z'| >= Radius.
type Rule struct {
	Transform Transform
	Power     complex128
	Param     complex128
	Radius    float64
}

func NewRule(t Transform, power, param complex128, radius float64) (Rule, error) {
	r := Rule{Transform: t, Power: power, Param: param, Radius: radius}
	if err := r.Validate(); err != nil {
		return Rule{}, err
	}
	return r, nil
}

// Classic returns z' = z^2 + param with radius 2.
func Classic(param complex128) Rule {
	return Rule{Transform: Identity, Power: 2, Param: param, Radius: 2}
}

func (r Rule) Validate() error {
	if !(r.Radius > 0) || math.IsInf(r.Radius, 0) {
		return fmt.Errorf("%w, got %g", ErrRadius, r.Radius)
	}
	if _, ok := transformNames[r.Transform]; !ok {
		return fmt.Errorf("unknown transform %d", int(r.Transform))
	}
	if cmplx.IsNaN(r.Power) || cmplx.IsInf(r.Power) {
		return fmt.Errorf("power must be finite, got %v", r.Power)
	}
	if cmplx.IsNaN(r.Param) || cmplx.IsInf(r.Param) {
		return fmt.Errorf("param must be finite, got %v", r.Param)
	}
	return nil
}

// WithParam returns a copy of r using param.
func (r Rule) WithParam(param complex128) Rule {
	r.Param = param
	return r
}

// Apply performs one iteration and reports whether the result escaped.
func (r Rule) Apply(z complex128) (complex128, bool) {
	z = cmplx.Pow(r.Transform.Apply(z), r.Power) + r.Param
	return z, r.Escaped(z)
}

func (r Rule) Escaped(z complex128) bool {
	return cmplx.Abs(z) >= r.Radius
}

func (r Rule) String() string {
	return fmt.Sprintf("%s p=%v c=%v r=%g", r.Transform, r.Power, r.Param, r.Radius)
}
