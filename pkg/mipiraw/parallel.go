package mipiraw

import (
	"runtime"
	"sync"
)

func workerCount(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// forRows splits [0, height) into contiguous bands, runs fn on each band in
// its own goroutine and waits for all of them. The first non-nil error by
// band order is returned.
func forRows(height, workers int, fn func(y0, y1 int) error) error {
	workers = workerCount(workers)
	if workers > height {
		workers = height
	}
	if workers <= 1 {
		return fn(0, height)
	}

	band := (height + workers - 1) / workers
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		y0 := w * band
		y1 := y0 + band
		if y1 > height {
			y1 = height
		}
		if y0 >= y1 {
			break
		}
		wg.Add(1)
		go func(w, y0, y1 int) {
			defer wg.Done()
			errs[w] = fn(y0, y1)
		}(w, y0, y1)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
