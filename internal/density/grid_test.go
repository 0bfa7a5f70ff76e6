package density_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fracterm/internal/density"
	"github.com/san-kum/fracterm/internal/plane"
)

func mustView(corner complex128, w, h float64, rows, cols int) plane.Viewport {
	v, err := plane.New(corner, w, h, rows, cols)
	Expect(err).NotTo(HaveOccurred())
	return v
}

func mustGrid(v plane.Viewport) *density.Grid {
	g, err := density.NewGrid(v)
	Expect(err).NotTo(HaveOccurred())
	return g
}

var _ = Describe("Grid", func() {
	var grid *density.Grid

	BeforeEach(func() {
		grid = mustGrid(mustView(complex(-2, 2), 4, 4, 8, 8))
	})

	It("starts empty", func() {
		Expect(grid.Max()).To(BeZero())
		Expect(grid.Total()).To(BeZero())
		Expect(grid.Stats().Coverage).To(BeZero())
	})

	It("rejects an invalid viewport", func() {
		_, err := density.NewGrid(plane.Viewport{Width: 1, Height: 1})
		Expect(err).To(MatchError(plane.ErrInvalidViewport))
	})

	It("increments the cell containing a point", func() {
		Expect(grid.IncAt(complex(0.1, -0.1))).To(BeTrue())
		Expect(grid.At(4, 4)).To(Equal(uint32(1)))
		Expect(grid.IncAt(complex(5, 5))).To(BeFalse())
		Expect(grid.Total()).To(Equal(uint64(1)))
	})

	It("saturates instead of wrapping", func() {
		grid.Set(0, 0, math.MaxUint32)
		grid.Inc(0, 0)
		Expect(grid.At(0, 0)).To(Equal(uint32(math.MaxUint32)))

		other := mustGrid(grid.View())
		other.Set(0, 0, 10)
		grid.Merge(other)
		Expect(grid.At(0, 0)).To(Equal(uint32(math.MaxUint32)))
	})

	It("merges by summing cells", func() {
		other := mustGrid(grid.View())
		grid.Inc(1, 1)
		other.Inc(1, 1)
		other.Inc(2, 3)
		grid.Merge(other)
		Expect(grid.At(1, 1)).To(Equal(uint32(2)))
		Expect(grid.At(2, 3)).To(Equal(uint32(1)))
	})

	It("reframes by clearing and keeping its resolution", func() {
		grid.Inc(3, 3)
		next := mustView(complex(-1, 1), 2, 2, 100, 100)
		Expect(grid.Reframe(next)).To(Succeed())
		Expect(grid.Total()).To(BeZero())
		Expect(grid.Rows()).To(Equal(8))
		Expect(grid.Columns()).To(Equal(8))
		Expect(grid.View().Corner).To(Equal(complex(-1, 1)))
	})

	It("reports coverage", func() {
		grid.Inc(0, 0)
		grid.Inc(0, 0)
		grid.Inc(7, 7)
		s := grid.Stats()
		Expect(s.Max).To(Equal(uint32(2)))
		Expect(s.Total).To(Equal(uint64(3)))
		Expect(s.Coverage).To(BeNumerically("~", 2.0/64, 1e-12))
	})
})
