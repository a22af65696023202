package dynamo

import "github.com/sourcegraph/conc"

// ParallelFor splits [0, n) into at most workers contiguous chunks of at least
// minChunk elements and runs fn on each chunk concurrently. The worker index
// passed to fn is unique per chunk, so callers can hand each chunk its own
// scratch buffer. Small ranges run inline on worker 0.
func ParallelFor(n, workers, minChunk int, fn func(worker, start, end int)) {
	if minChunk < 1 {
		minChunk = 1
	}
	if workers > n/minChunk {
		workers = n / minChunk
	}
	if n <= minChunk || workers <= 1 {
		fn(0, 0, n)
		return
	}

	chunkSize := (n + workers - 1) / workers

	var wg conc.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		if start >= n {
			break
		}
		end := min(start+chunkSize, n)

		wg.Go(func() {
			fn(w, start, end)
		})
	}

	wg.Wait()
}
