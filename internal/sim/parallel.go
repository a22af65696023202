package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/kuramoto/internal/oscillator"
	"github.com/sourcegraph/conc/pool"
)

// Job is one independent run of a batch. Each job needs its own Simulator
// (and therefore its own Ensemble), since ensembles are not shareable.
type Job struct {
	Name    string
	Sim     *Simulator
	Initial oscillator.Population
	Config  Config
}

// RunAll runs jobs on up to workers goroutines. results[i] belongs to
// jobs[i]; a failed job leaves its slot holding whatever partial result Run
// returned. The returned error joins every job failure.
func RunAll(ctx context.Context, jobs []Job, workers int) ([]*Result, error) {
	if workers < 1 {
		workers = 1
	}
	results := make([]*Result, len(jobs))

	p := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(workers)
	for i, job := range jobs {
		p.Go(func(ctx context.Context) error {
			res, err := job.Sim.Run(ctx, job.Initial, job.Config)
			results[i] = res
			if err != nil {
				return fmt.Errorf("job %q: %w", job.Name, err)
			}
			return nil
		})
	}

	return results, p.Wait()
}
