package render_test

import (
	"context"
	"image/color"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fracterm/internal/orbit"
	"github.com/san-kum/fracterm/internal/palette"
	"github.com/san-kum/fracterm/internal/plane"
	"github.com/san-kum/fracterm/internal/render"
)

func mustView(corner complex128, w, h float64, rows, cols int) plane.Viewport {
	v, err := plane.New(corner, w, h, rows, cols)
	Expect(err).NotTo(HaveOccurred())
	return v
}

var _ = Describe("Escape", func() {
	var (
		ctx  context.Context
		unit plane.Viewport
		rule orbit.Rule
	)

	BeforeEach(func() {
		ctx = context.Background()
		// cell (r, c) sits at -2+c + (2-r)i
		unit = mustView(complex(-2, 2), 4, 4, 4, 4)
		rule = orbit.Classic(0)
	})

	It("treats cells as params in mandelbrot mode", func() {
		f, err := render.Escape(ctx, unit, rule, render.Options{Mode: render.Mandelbrot, Iterations: 50, Workers: 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(f.Rows).To(Equal(4))
		Expect(f.Columns).To(Equal(4))

		Expect(f.At(2, 2)).To(Equal(-1.0))
		Expect(f.At(2, 3)).To(Equal(2.0))
		Expect(f.At(0, 0)).To(Equal(1.0))
		Expect(f.At(2, 0)).To(Equal(1.0))
	})

	It("treats cells as starting points in julia mode", func() {
		f, err := render.Escape(ctx, unit, rule, render.Options{Mode: render.Julia, Iterations: 50, Workers: 1})
		Expect(err).NotTo(HaveOccurred())

		Expect(f.At(2, 2)).To(Equal(-1.0))
		Expect(f.At(2, 3)).To(Equal(-1.0))
		Expect(f.At(0, 0)).To(Equal(0.0))
	})

	It("agrees with direct orbit evaluation", func() {
		view := mustView(complex(-2, 1.25), 2.5, 2.5, 20, 20)
		f, err := render.Escape(ctx, view, rule, render.Options{Iterations: 64})
		Expect(err).NotTo(HaveOccurred())

		for r := 0; r < view.Rows; r++ {
			for c := 0; c < view.Columns; c++ {
				want := orbit.Evaluate(orbit.Classic(view.ToPlane(r, c)), 0, 64, nil).Value()
				Expect(f.At(r, c)).To(Equal(want), "cell %d,%d", r, c)
			}
		}
	})

	It("starts mandelbrot orbits from the rule's param", func() {
		seeded := orbit.Classic(complex(0.3, 0.1))
		view := mustView(complex(-1, 1), 2, 2, 8, 8)
		f, err := render.Escape(ctx, view, seeded, render.Options{Iterations: 40, Workers: 1})
		Expect(err).NotTo(HaveOccurred())

		for r := 0; r < view.Rows; r++ {
			for c := 0; c < view.Columns; c++ {
				want := orbit.Evaluate(orbit.Classic(view.ToPlane(r, c)), complex(0.3, 0.1), 40, nil).Value()
				Expect(f.At(r, c)).To(Equal(want))
			}
		}
	})

	It("gives the same field serially and in parallel", func() {
		view := mustView(complex(-2, 1.5), 3, 3, 33, 47)
		a, err := render.Escape(ctx, view, rule, render.Options{Iterations: 80, Workers: 1})
		Expect(err).NotTo(HaveOccurred())
		b, err := render.Escape(ctx, view, rule, render.Options{Iterations: 80, Workers: 6})
		Expect(err).NotTo(HaveOccurred())
		Expect(b.Values).To(Equal(a.Values))
	})

	It("stops on a cancelled context", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		for _, workers := range []int{1, 4} {
			_, err := render.Escape(cctx, unit, rule, render.Options{Iterations: 10, Workers: workers})
			Expect(err).To(MatchError(context.Canceled))
		}
	})

	It("rejects bad input", func() {
		_, err := render.Escape(ctx, plane.Viewport{}, rule, render.Options{Iterations: 10})
		Expect(err).To(MatchError(plane.ErrInvalidViewport))

		_, err = render.Escape(ctx, unit, orbit.Rule{Power: 2}, render.Options{Iterations: 10})
		Expect(err).To(MatchError(orbit.ErrRadius))

		_, err = render.Escape(ctx, unit, rule, render.Options{Iterations: -1})
		Expect(err).To(HaveOccurred())
	})

	It("buckets escaping cells into a histogram", func() {
		f, err := render.Escape(ctx, unit, rule, render.Options{Iterations: 50, Workers: 1})
		Expect(err).NotTo(HaveOccurred())

		bounded := 0
		for _, v := range f.Values {
			if v < 0 {
				bounded++
			}
		}
		hist := f.Histogram(5, 50)
		Expect(hist).To(HaveLen(5))

		var total float64
		for _, n := range hist {
			total += n
		}
		Expect(int(total)).To(Equal(len(f.Values) - bounded))
		Expect(f.Histogram(0, 50)).To(BeNil())
	})
})

var _ = Describe("Colorize", func() {
	var field *render.Field

	BeforeEach(func() {
		var err error
		view := mustView(complex(-2, 2), 4, 4, 4, 4)
		field, err = render.Escape(context.Background(), view, orbit.Classic(0), render.Options{Iterations: 50, Workers: 1})
		Expect(err).NotTo(HaveOccurred())
	})

	It("sizes the image to the field", func() {
		scheme, _ := palette.Lookup("starry")
		img := render.Colorize(field, scheme)
		Expect(img.Bounds().Dx()).To(Equal(4))
		Expect(img.Bounds().Dy()).To(Equal(4))
	})

	It("paints bounded cells with the set color", func() {
		scheme, _ := palette.Lookup("firey")
		scheme.SetColor = color.RGBA{R: 9, G: 8, B: 7, A: 255}
		img := render.Colorize(field, scheme)
		Expect(img.RGBAAt(2, 2)).To(Equal(scheme.SetColor))
		Expect(img.RGBAAt(3, 2)).To(Equal(scheme.Color(2)))
	})

	It("smooths at paint time for continuous schemes", func() {
		view := mustView(complex(-2, 1.25), 2.5, 2.5, 12, 12)
		rule := orbit.Classic(0)
		rule.Radius = 100

		raw, err := render.Escape(context.Background(), view, rule, render.Options{Iterations: 60, Workers: 1})
		Expect(err).NotTo(HaveOccurred())
		smoothed, err := render.Escape(context.Background(), view, rule, render.Options{Iterations: 60, Workers: 1, Smooth: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(smoothed.Smoothed).To(BeTrue())

		scheme, _ := palette.Lookup("foresty")
		Expect(render.Colorize(raw, scheme.WithContinuous(true)).Pix).
			To(Equal(render.Colorize(smoothed, scheme).Pix))
	})
})

var _ = Describe("ZoomSequence", func() {
	It("renders one frame per step at the view size", func() {
		view := mustView(complex(-2, 1.5), 3, 3, 6, 8)
		scheme, _ := palette.Lookup("starry")

		frames, err := render.ZoomSequence(context.Background(), view, orbit.Classic(0), render.Options{Iterations: 20, Workers: 1}, scheme, 4, 0.8, 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(frames).To(HaveLen(4))
		for _, f := range frames {
			Expect(f.Bounds().Dx()).To(Equal(8))
			Expect(f.Bounds().Dy()).To(Equal(6))
		}
	})

	It("rejects a non-positive factor", func() {
		view := mustView(complex(-2, 1.5), 3, 3, 6, 8)
		scheme, _ := palette.Lookup("starry")
		_, err := render.ZoomSequence(context.Background(), view, orbit.Classic(0), render.Options{Iterations: 20}, scheme, 2, 0, 0)
		Expect(err).To(HaveOccurred())
	})
})
