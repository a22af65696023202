package analysis

import (
	"context"
	"fmt"

	"github.com/san-kum/kuramoto/internal/dynamo"
	"github.com/san-kum/kuramoto/internal/oscillator"
	"github.com/san-kum/kuramoto/internal/sim"
)

// SweepPoint summarizes one run of a coupling sweep.
type SweepPoint struct {
	K        float64
	MeanR    float64 // r averaged over steps after the transient
	FinalR   float64
	Occupied int // labels held by at least one oscillator at the end
}

type SweepConfig struct {
	KMin, KMax float64
	Points     int
	// Transient is the time after the run's T0 during which r is not
	// averaged.
	Transient float64
	Workers   int
}

// Values returns the coupling strengths visited, evenly spaced and
// inclusive of both ends.
func (c SweepConfig) Values() []float64 {
	if c.Points == 1 {
		return []float64{c.KMin}
	}
	ks := make([]float64, c.Points)
	step := (c.KMax - c.KMin) / float64(c.Points-1)
	for i := range ks {
		ks[i] = c.KMin + float64(i)*step
	}
	return ks
}

type meanR struct {
	from  float64
	sum   float64
	count int
}

func (m *meanR) OnStep(pop oscillator.Population, t float64) {
	if t < m.from {
		return
	}
	r, _ := OrderParameter(pop.Phases())
	m.sum += r
	m.count++
}

// CouplingSweep runs one simulation per coupling strength, built by build,
// and reports how synchronization depends on K. Runs execute concurrently on
// cfg.Workers goroutines.
func CouplingSweep(ctx context.Context, cfg SweepConfig, build func(k float64) (sim.Job, error)) ([]SweepPoint, error) {
	if cfg.Points < 1 {
		return nil, dynamo.InvalidConfigf("sweep needs at least one point, got %d", cfg.Points)
	}
	if cfg.KMax < cfg.KMin {
		return nil, dynamo.InvalidConfigf("sweep range [%g, %g] is reversed", cfg.KMin, cfg.KMax)
	}

	ks := cfg.Values()
	jobs := make([]sim.Job, len(ks))
	accums := make([]*meanR, len(ks))
	for i, k := range ks {
		job, err := build(k)
		if err != nil {
			return nil, fmt.Errorf("building run for K=%g: %w", k, err)
		}
		accums[i] = &meanR{from: job.Config.T0 + cfg.Transient}
		job.Sim.AddObserver(accums[i])
		jobs[i] = job
	}

	results, err := sim.RunAll(ctx, jobs, cfg.Workers)
	if err != nil {
		return nil, err
	}

	points := make([]SweepPoint, len(ks))
	for i, k := range ks {
		final := results[i].Final
		p := SweepPoint{K: k}
		p.FinalR, _ = OrderParameter(final.Phases())
		p.Occupied = Occupied(GroupCounts(final.Groups(), jobs[i].Sim.Ensemble().NumGroups()))
		if a := accums[i]; a.count > 0 {
			p.MeanR = a.sum / float64(a.count)
		}
		points[i] = p
	}
	return points, nil
}
