package density_test

import (
	"context"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fracterm/internal/density"
	"github.com/san-kum/fracterm/internal/orbit"
)

// cancelAfter reports cancellation once Err has been asked limit times.
type cancelAfter struct {
	context.Context
	checks atomic.Int32
	limit  int32
}

func (c *cancelAfter) Err() error {
	if c.checks.Add(1) > c.limit {
		return context.Canceled
	}
	return nil
}

func snapshot(g *density.Grid) []uint32 {
	out := make([]uint32, 0, g.Rows()*g.Columns())
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Columns(); c++ {
			out = append(out, g.At(r, c))
		}
	}
	return out
}

var _ = Describe("Sampler", func() {
	var (
		grid *density.Grid
		rule orbit.Rule
		ctx  context.Context
	)

	BeforeEach(func() {
		grid = mustGrid(mustView(complex(-2, 2), 4, 4, 64, 64))
		rule = orbit.Classic(0)
		ctx = context.Background()
	})

	It("does nothing for zero samples", func() {
		s := density.NewSampler(1, 7)
		n, err := s.Accumulate(ctx, grid, density.SampleFarm, rule, 5, 100, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(BeZero())
		Expect(grid.Total()).To(BeZero())
	})

	It("adds nothing when the minimum length reaches the maximum", func() {
		s := density.NewSampler(2, 7)
		n, err := s.Accumulate(ctx, grid, density.SampleFarm, rule, 100, 100, 500)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(BeZero())

		n, err = s.Accumulate(ctx, grid, density.SampleFarm, rule, 150, 100, 500)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(BeZero())
		Expect(grid.Total()).To(BeZero())
	})

	It("rejects an empty sampling region", func() {
		s := density.NewSampler(1, 7)
		_, err := s.Accumulate(ctx, grid, density.Region{Width: 0, Height: 1}, rule, 5, 100, 10)
		Expect(err).To(HaveOccurred())
	})

	DescribeTable("counts exactly the points it adds to the grid",
		func(workers, samples int) {
			s := density.NewSampler(workers, 42)
			n, err := s.Accumulate(ctx, grid, density.SampleFarm, rule, 5, 100, samples)
			Expect(err).NotTo(HaveOccurred())
			Expect(uint64(n)).To(Equal(grid.Total()))
			if samples >= 1000 {
				Expect(n).To(BeNumerically(">", 0))
			}
		},
		Entry("single worker", 1, 3000),
		Entry("four workers", 4, 3000),
		Entry("more workers than samples", 16, 10),
	)

	It("never decreases a cell across calls", func() {
		s := density.NewSampler(3, 0)
		var total int64
		prev := snapshot(grid)
		for i := 0; i < 4; i++ {
			n, err := s.Accumulate(ctx, grid, density.SampleFarm, rule, 2, 60, 800)
			Expect(err).NotTo(HaveOccurred())
			total += n

			cur := snapshot(grid)
			for j := range cur {
				Expect(cur[j]).To(BeNumerically(">=", prev[j]))
			}
			prev = cur
		}
		Expect(uint64(total)).To(Equal(grid.Total()))
	})

	It("is reproducible for a fixed seed", func() {
		other := mustGrid(grid.View())

		a := density.NewSampler(4, 99)
		b := density.NewSampler(4, 99)
		na, _ := a.Accumulate(ctx, grid, density.SampleFarm, rule, 5, 80, 2000)
		nb, _ := b.Accumulate(ctx, other, density.SampleFarm, rule, 5, 80, 2000)

		Expect(na).To(Equal(nb))
		Expect(snapshot(grid)).To(Equal(snapshot(other)))
		Expect(a.LastSeed()).To(Equal(int64(99)))
	})

	It("moves on to fresh points on each call with a fixed seed", func() {
		first := mustGrid(grid.View())
		second := mustGrid(grid.View())

		s := density.NewSampler(1, 5)
		_, err := s.Accumulate(ctx, first, density.SampleFarm, rule, 5, 80, 2000)
		Expect(err).NotTo(HaveOccurred())
		seed := s.LastSeed()
		_, err = s.Accumulate(ctx, second, density.SampleFarm, rule, 5, 80, 2000)
		Expect(err).NotTo(HaveOccurred())

		Expect(s.LastSeed()).NotTo(Equal(seed))
		Expect(snapshot(second)).NotTo(Equal(snapshot(first)))
	})

	It("draws nothing when already cancelled", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		s := density.NewSampler(2, 1)
		n, err := s.Accumulate(cctx, grid, density.SampleFarm, rule, 5, 100, 1000)
		Expect(err).To(MatchError(context.Canceled))
		Expect(n).To(BeZero())
		Expect(s.LastDrawn()).To(BeZero())
		Expect(grid.Total()).To(BeZero())
	})

	It("keeps the samples evaluated before a cancel", func() {
		cctx := &cancelAfter{Context: ctx, limit: 3}

		s := density.NewSampler(1, 13)
		n, err := s.Accumulate(cctx, grid, density.SampleFarm, rule, 1, 100, 100000)
		Expect(err).To(MatchError(context.Canceled))
		Expect(n).To(BeNumerically(">", 0))
		Expect(uint64(n)).To(Equal(grid.Total()))
		Expect(s.LastDrawn()).To(Equal(int64(3 * 64)))
	})

	It("merges partial worker grids when cancelled mid-run", func() {
		cctx, cancel := context.WithCancel(ctx)
		defer cancel()
		time.AfterFunc(20*time.Millisecond, cancel)

		const samples = 20000000
		s := density.NewSampler(4, 17)
		n, err := s.Accumulate(cctx, grid, density.SampleFarm, rule, 1, 500, samples)
		Expect(err).To(MatchError(context.Canceled))
		Expect(n).To(BeNumerically(">", 0))
		Expect(uint64(n)).To(Equal(grid.Total()))
		Expect(s.LastDrawn()).To(BeNumerically(">", 0))
		Expect(s.LastDrawn()).To(BeNumerically("<", samples))
	})

	It("counts every sample when it runs to completion", func() {
		s := density.NewSampler(3, 8)
		_, err := s.Accumulate(ctx, grid, density.SampleFarm, rule, 5, 50, 1001)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.LastDrawn()).To(Equal(int64(1001)))
	})

	It("only keeps orbits longer than the minimum", func() {
		// Every sample here escapes on the first iteration, landing at 2+0i.
		wide := mustView(complex(-3, 3), 6, 6, 60, 60)
		near1 := density.Region{Corner: complex(1, 0), Width: 1e-9, Height: 1e-9}

		open := mustGrid(wide)
		n, err := density.NewSampler(1, 3).Accumulate(ctx, open, near1, rule, 0, 10, 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(int64(5)))
		Expect(open.At(30, 50)).To(Equal(uint32(5)))

		closed := mustGrid(wide)
		n, err = density.NewSampler(1, 3).Accumulate(ctx, closed, near1, rule, 1, 10, 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(BeZero())
		Expect(closed.Total()).To(BeZero())
	})

	It("draws distinct seeds for back-to-back sessions", func() {
		seen := make(map[int64]bool)
		for i := 0; i < 1000; i++ {
			seed := density.NewSeed()
			Expect(seen).NotTo(HaveKey(seed))
			seen[seed] = true
		}
	})

	It("only lands points inside the grid window", func() {
		small := mustGrid(mustView(complex(-0.5, 0.5), 0.25, 0.25, 16, 16))
		n := density.Accumulate(small, density.SampleFarm, rule, 1, 50, 2000)
		Expect(uint64(n)).To(Equal(small.Total()))
	})
})
