package density_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fracterm/internal/density"
	"github.com/san-kum/fracterm/internal/plane"
)

func fill(g *density.Grid) {
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Columns(); c++ {
			g.Set(r, c, uint32(r*g.Columns()+c+1))
		}
	}
}

var _ = Describe("Project", func() {
	var (
		view plane.Viewport
		grid *density.Grid
	)

	BeforeEach(func() {
		view = mustView(complex(-2, 2), 4, 4, 4, 4)
		grid = mustGrid(view)
		fill(grid)
	})

	It("is the identity for matching viewports", func() {
		frame, peak := density.Project(grid, view)
		Expect(frame.Rows).To(Equal(4))
		Expect(frame.Columns).To(Equal(4))
		Expect(frame.Cells).To(Equal(snapshot(grid)))
		Expect(peak).To(Equal(grid.Max()))
	})

	It("is the identity for awkward windows too", func() {
		v := mustView(complex(-0.8, 0.15), 0.1, 0.1, 37, 91)
		g := mustGrid(v)
		fill(g)
		frame, peak := density.Project(g, v)
		Expect(frame.Cells).To(Equal(snapshot(g)))
		Expect(peak).To(Equal(g.Max()))
	})

	It("sums aliased cells when downsampling", func() {
		frame, peak := density.Project(grid, view.Resize(2, 2))
		// 2x2 blocks of 1..16 laid out row-major
		Expect(frame.Cells).To(Equal([]uint32{1 + 2 + 5 + 6, 3 + 4 + 7 + 8, 9 + 10 + 13 + 14, 11 + 12 + 15 + 16}))
		Expect(peak).To(Equal(uint32(54)))
	})

	It("leaves gaps when upsampling", func() {
		frame, _ := density.Project(grid, view.Resize(8, 8))
		var total uint64
		for _, v := range frame.Cells {
			total += uint64(v)
		}
		Expect(total).To(Equal(grid.Total()))
		Expect(frame.At(1, 1)).To(BeZero())
		Expect(frame.At(2, 2)).To(Equal(grid.At(1, 1)))
	})

	It("yields zeros for a window with no overlap", func() {
		far := mustView(complex(10, 10), 1, 1, 5, 5)
		frame, peak := density.Project(grid, far)
		Expect(peak).To(BeZero())
		Expect(frame.Cells).To(HaveLen(25))
		Expect(frame.Cells).To(HaveEach(BeZero()))
	})

	It("only adapts brightness to the visible region", func() {
		right := mustView(complex(0, 2), 2, 4, 4, 2)
		frame, peak := density.Project(grid, right)
		Expect(frame.At(0, 0)).To(Equal(grid.At(0, 2)))
		Expect(peak).To(Equal(grid.At(3, 3)))

		left := mustView(complex(-2, 2), 2, 2, 2, 2)
		_, peak = density.Project(grid, left)
		Expect(peak).To(Equal(grid.At(1, 1)))
	})
})

var _ = Describe("Crop", func() {
	It("copies the visible cells at native resolution", func() {
		view := mustView(complex(-2, 2), 4, 4, 4, 4)
		grid := mustGrid(view)
		fill(grid)

		half := mustView(complex(0, 2), 2, 4, 1000, 1000)
		frame, peak := density.Crop(grid, half)
		Expect(frame.Rows).To(Equal(4))
		Expect(frame.Columns).To(Equal(2))
		Expect(frame.At(0, 0)).To(Equal(uint32(3)))
		Expect(frame.At(3, 1)).To(Equal(uint32(16)))
		Expect(peak).To(Equal(uint32(16)))

		top := mustView(complex(-2, 2), 4, 1, 1, 1)
		_, peak = density.Crop(grid, top)
		Expect(peak).To(Equal(uint32(4)))
	})

	It("clips to the source grid", func() {
		view := mustView(complex(-2, 2), 4, 4, 4, 4)
		grid := mustGrid(view)
		fill(grid)

		wide := mustView(complex(-3, 2), 2, 1, 1, 1)
		frame, peak := density.Crop(grid, wide)
		Expect(frame.Rows).To(Equal(1))
		Expect(frame.Columns).To(Equal(1))
		Expect(frame.At(0, 0)).To(Equal(uint32(1)))
		Expect(peak).To(Equal(uint32(1)))

		outside := mustView(complex(5, 5), 1, 1, 1, 1)
		frame, peak = density.Crop(grid, outside)
		Expect(frame.Cells).To(BeEmpty())
		Expect(peak).To(BeZero())
	})

	It("never grows past the grid when zoomed far out", func() {
		view := mustView(complex(-2, 2), 4, 4, 4, 4)
		grid := mustGrid(view)
		fill(grid)

		far := view.Zoom(1e6)
		frame, peak := density.Crop(grid, far)
		Expect(frame.Rows).To(Equal(4))
		Expect(frame.Columns).To(Equal(4))
		Expect(peak).To(Equal(uint32(16)))
	})
})
