package staff

import (
	"golang.org/x/sync/errgroup"
)

// parallelFor runs fn(0..n-1) on at most workers goroutines and returns once
// every call has finished. Tasks must write only to state they own.
func parallelFor(workers, n int, fn func(i int)) {
	if workers < 1 {
		workers = 1
	}
	if workers == 1 || n < 2 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
}
