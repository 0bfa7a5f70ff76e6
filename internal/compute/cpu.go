package compute

import (
	"context"
	"runtime"
	"sync"
)

type CPU struct {
	workers int
}

func NewCPU() *CPU {
	return &CPU{
		workers: runtime.NumCPU(),
	}
}

func (c *CPU) Name() string { return "cpu" }
func (c *CPU) Workers() int { return c.workers }

// Rows splits [0, n) into contiguous chunks, one per worker. Cancellation
// is checked between rows; rows already finished stay filled.
func (c *CPU) Rows(ctx context.Context, n int, fn RowFunc) error {
	if n <= 0 {
		return ctx.Err()
	}
	workers := c.workers
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		return Serial{}.Rows(ctx, n, fn)
	}

	var wg sync.WaitGroup
	chunkSize := (n + workers - 1) / workers

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()

			start := worker * chunkSize
			end := start + chunkSize
			if end > n {
				end = n
			}

			for i := start; i < end; i++ {
				if ctx.Err() != nil {
					return
				}
				fn(i)
			}
		}(w)
	}

	wg.Wait()
	return ctx.Err()
}
