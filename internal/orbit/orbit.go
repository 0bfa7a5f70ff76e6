package orbit

// Capture is a bounded orbit buffer. Points pushed past its capacity are
// counted but not stored.
type Capture struct {
	points []complex128
	seen   int
}

func NewCapture(capacity int) *Capture {
	if capacity < 0 {
		capacity = 0
	}
	return &Capture{points: make([]complex128, 0, capacity)}
}

func (c *Capture) Push(z complex128) {
	c.seen++
	if len(c.points) < cap(c.points) {
		c.points = append(c.points, z)
	}
}

// Points returns the stored points in chronological order. The slice is
// reused by the next Reset.
func (c *Capture) Points() []complex128 { return c.points }
func (c *Capture) Len() int             { return len(c.points) }
func (c *Capture) Cap() int             { return cap(c.points) }
func (c *Capture) Seen() int            { return c.seen }

func (c *Capture) Reset() {
	c.points = c.points[:0]
	c.seen = 0
}

// Result of a single orbit evaluation.
type Result struct {
	Escaped    bool
	Iterations int
	// Final is the last value of z: the escaping value, or the value
	// reached after the iteration cap.
	Final complex128
}

// Value returns the escape iteration count, or -1 when the orbit stayed
// bounded.
func (r Result) Value() float64 {
	if !r.Escaped {
		return -1
	}
	return float64(r.Iterations)
}

// Evaluate iterates rule from start for at most maxIter steps. When
// capture is non-nil every value produced by the rule is pushed to it,
// including the escaping one. The start point itself is never captured.
// A start point already outside the radius escapes at iteration 0 without
// capturing anything.
func Evaluate(rule Rule, start complex128, maxIter int, capture *Capture) Result {
	z := start
	if rule.Escaped(z) {
		return Result{Escaped: true, Iterations: 0, Final: z}
	}

	for i := 1; i <= maxIter; i++ {
		var esc bool
		z, esc = rule.Apply(z)
		if capture != nil {
			capture.Push(z)
		}
		if esc {
			return Result{Escaped: true, Iterations: i, Final: z}
		}
	}

	return Result{Escaped: false, Iterations: maxIter, Final: z}
}
