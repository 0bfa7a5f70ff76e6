package density

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/fracterm/internal/orbit"
	"github.com/san-kum/fracterm/internal/plane"
)

// cancelEvery is how many samples a worker draws between context checks.
const cancelEvery = 64

// Region is the rectangle random starting points are drawn from.
type Region struct {
	Corner complex128 // top-left
	Width  float64
	Height float64
}

// SampleFarm is the window that contains every orbit of the classic
// z^2 + c rule that can escape slowly enough to matter.
var SampleFarm = Region{Corner: complex(-2, 2), Width: 4, Height: 4}

func RegionOf(v plane.Viewport) Region {
	return Region{Corner: v.Corner, Width: v.Width, Height: v.Height}
}

func (r Region) Validate() error {
	if !(r.Width > 0) || !(r.Height > 0) {
		return fmt.Errorf("sampling region must have positive size, got %gx%g", r.Width, r.Height)
	}
	return nil
}

func (r Region) sample(rng *rand.Rand) complex128 {
	return r.Corner + complex(rng.Float64()*r.Width, -rng.Float64()*r.Height)
}

var sessionOrdinal atomic.Uint64

// NewSeed returns a seed unique to this process-wide session even when two
// sessions start within the same clock tick.
func NewSeed() int64 {
	n := sessionOrdinal.Add(1)
	return time.Now().UnixNano() ^ int64(n*0x9e3779b97f4a7c15)
}

// Sampler draws Buddhabrot orbits into a Grid. A Sampler keeps per-worker
// scratch grids between calls and must not be used concurrently.
type Sampler struct {
	Workers int
	// Seed fixes the random sequence: the n-th call on any sampler with
	// the same Seed draws the same points. Zero draws a fresh seed per call.
	Seed int64

	calls     int64
	lastSeed  int64
	lastDrawn int64
	scratch   []*Grid
}

// callStride separates the seeds of successive calls on a fixed-seed
// sampler so each call draws fresh points.
const callStride = 0x9e3779b9

func NewSampler(workers int, seed int64) *Sampler {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Sampler{Workers: workers, Seed: seed}
}

// LastSeed is the seed used by the most recent Accumulate call.
func (s *Sampler) LastSeed() int64 { return s.lastSeed }

// LastDrawn is how many samples the most recent Accumulate call
// evaluated. It falls short of the request when the call was cancelled.
func (s *Sampler) LastDrawn() int64 { return s.lastDrawn }

// Accumulate draws samples starting points from region, each acting as
// its own parameter, and adds to grid every in-bounds point of each orbit
// that escapes after more than minLen iterations. It returns the number of
// points added. When ctx is cancelled the samples already evaluated are
// kept and the partial count is returned with the context error.
func (s *Sampler) Accumulate(ctx context.Context, grid *Grid, region Region, rule orbit.Rule, minLen, maxLen int, samples int) (int64, error) {
	s.lastDrawn = 0
	if err := region.Validate(); err != nil {
		return 0, err
	}
	if err := rule.Validate(); err != nil {
		return 0, err
	}
	if samples <= 0 || maxLen <= 0 || minLen >= maxLen {
		return 0, nil
	}

	seed := s.Seed + s.calls*callStride
	if s.Seed == 0 {
		seed = NewSeed()
	}
	s.calls++
	s.lastSeed = seed

	workers := s.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > samples {
		workers = samples
	}

	if workers == 1 {
		rng := rand.New(rand.NewPCG(uint64(seed), 0))
		added, drawn, err := sampleInto(ctx, grid, rng, region, rule, minLen, maxLen, samples)
		s.lastDrawn = drawn
		return added, err
	}

	s.ensureScratch(grid, workers)
	counts := make([]int64, workers)
	drawn := make([]int64, workers)
	per := samples / workers
	extra := samples % workers

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		n := per
		if w < extra {
			n++
		}
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(uint64(seed+int64(w)), 0))
			var err error
			counts[w], drawn[w], err = sampleInto(gctx, s.scratch[w], rng, region, rule, minLen, maxLen, n)
			return err
		})
	}
	err := g.Wait()

	var total int64
	for w := 0; w < workers; w++ {
		grid.Merge(s.scratch[w])
		s.scratch[w].Clear()
		total += counts[w]
		s.lastDrawn += drawn[w]
	}
	return total, err
}

func (s *Sampler) ensureScratch(grid *Grid, workers int) {
	if len(s.scratch) > 0 && !s.scratch[0].sameShape(grid) {
		s.scratch = nil
	}
	for len(s.scratch) < workers {
		s.scratch = append(s.scratch, &Grid{
			view:  grid.view,
			cells: make([]uint32, len(grid.cells)),
		})
	}
	for _, sc := range s.scratch {
		sc.view = grid.view
	}
}

// sampleInto returns the points added and the samples evaluated.
func sampleInto(ctx context.Context, grid *Grid, rng *rand.Rand, region Region, rule orbit.Rule, minLen, maxLen, samples int) (int64, int64, error) {
	capture := orbit.NewCapture(maxLen)
	var added int64

	for i := 0; i < samples; i++ {
		if i%cancelEvery == 0 {
			if err := ctx.Err(); err != nil {
				return added, int64(i), err
			}
		}

		pt := region.sample(rng)
		capture.Reset()
		res := orbit.Evaluate(rule.WithParam(pt), pt, maxLen, capture)
		if !res.Escaped || res.Iterations <= minLen {
			continue
		}

		for _, z := range capture.Points() {
			if grid.IncAt(z) {
				added++
			}
		}
	}

	return added, int64(samples), nil
}

// Accumulate runs a single-worker session with a fresh seed.
func Accumulate(grid *Grid, region Region, rule orbit.Rule, minLen, maxLen, samples int) int64 {
	s := Sampler{Workers: 1}
	n, _ := s.Accumulate(context.Background(), grid, region, rule, minLen, maxLen, samples)
	return n
}
