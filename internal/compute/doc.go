// Package compute spreads per-row work over the available CPUs.
//
// Rendering a frame is embarrassingly parallel by row:
//
//	backend := compute.ForWorkers(workers)
//	err := backend.Rows(ctx, view.Rows, func(r int) {
//		for c := 0; c < view.Columns; c++ {
//			out[r*view.Columns+c] = shade(r, c)
//		}
//	})
//
// ForWorkers(1) gives a serial backend, which keeps results ordered and
// is what the tests and small frames use.
package compute
