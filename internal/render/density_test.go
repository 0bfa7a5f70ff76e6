package render_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fracterm/internal/density"
	"github.com/san-kum/fracterm/internal/render"
)

var _ = Describe("Density", func() {
	var grid *density.Grid

	BeforeEach(func() {
		var err error
		grid, err = density.NewGrid(mustView(complex(-2, 2), 4, 4, 4, 4))
		Expect(err).NotTo(HaveOccurred())
		grid.Set(0, 0, 100)
		grid.Set(1, 1, 25)
	})

	It("renders the grid at native resolution", func() {
		img := render.Density(grid, grid.View(), 0.5)
		Expect(img.Bounds().Dx()).To(Equal(4))
		Expect(img.Bounds().Dy()).To(Equal(4))

		Expect(img.RGBAAt(0, 0).R).To(Equal(uint8(255)))
		Expect(img.RGBAAt(1, 1).R).To(Equal(uint8(127)))
		Expect(img.RGBAAt(3, 3).R).To(BeZero())
		Expect(img.RGBAAt(3, 3).A).To(Equal(uint8(255)))
	})

	It("normalises against the brightest visible cell", func() {
		img := render.Density(grid, mustView(complex(-1, 1), 2, 2, 2, 2), 1)
		Expect(img.Bounds().Dx()).To(Equal(2))
		Expect(img.RGBAAt(0, 0).R).To(Equal(uint8(255)))
	})

	It("projects onto a smaller view", func() {
		out := render.DensityFrame(grid, grid.View().Resize(2, 2), 1)
		Expect(out).To(Equal([]float64{1, 0, 0, 0}))
	})

	It("is empty for an empty grid", func() {
		grid.Clear()
		Expect(render.DensityFrame(grid, grid.View(), 0.5)).To(HaveEach(0.0))
	})
})
