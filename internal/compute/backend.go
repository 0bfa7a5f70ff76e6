package compute

import "context"

// RowFunc fills one row of output. It must only touch state owned by row.
type RowFunc func(row int)

type Backend interface {
	Name() string
	Workers() int
	Rows(ctx context.Context, n int, fn RowFunc) error
}

// ForWorkers returns a backend with the given worker count. Zero or less
// picks one worker per CPU; one worker runs every row on the caller.
func ForWorkers(n int) Backend {
	if n == 1 {
		return Serial{}
	}
	if n <= 0 {
		return NewCPU()
	}
	return &CPU{workers: n}
}

// Serial runs rows in order on the calling goroutine.
type Serial struct{}

func (Serial) Name() string { return "serial" }
func (Serial) Workers() int { return 1 }

func (Serial) Rows(ctx context.Context, n int, fn RowFunc) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(i)
	}
	return nil
}
