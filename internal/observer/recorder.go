// Package observer provides sinks for the population after each step:
// trajectory recording, order-parameter plotting and progress logging.
package observer

import (
	"github.com/san-kum/kuramoto/internal/analysis"
	"github.com/san-kum/kuramoto/internal/oscillator"
)

// Recorder keeps every stride-th step of a run.
type Recorder struct {
	stride int
	seen   int

	Times  []float64
	Phases [][]float64
	Groups [][]int
}

func NewRecorder(stride int) *Recorder {
	if stride < 1 {
		stride = 1
	}
	return &Recorder{stride: stride}
}

// Record stores pop unconditionally. Use it for the initial state, which
// the integrator never reports.
func (r *Recorder) Record(pop oscillator.Population, t float64) {
	r.Times = append(r.Times, t)
	r.Phases = append(r.Phases, pop.Phases())
	r.Groups = append(r.Groups, pop.Groups())
}

func (r *Recorder) OnStep(pop oscillator.Population, t float64) {
	r.seen++
	if r.seen%r.stride != 0 {
		return
	}
	r.Record(pop, t)
}

func (r *Recorder) Len() int { return len(r.Times) }

// At rebuilds the population of sample k.
func (r *Recorder) At(k int) oscillator.Population {
	pop, _ := oscillator.Join(r.Phases[k], r.Groups[k])
	return pop
}

// OrderSeries returns r at every recorded sample.
func (r *Recorder) OrderSeries() []float64 {
	out := make([]float64, len(r.Phases))
	for k, p := range r.Phases {
		out[k], _ = analysis.OrderParameter(p)
	}
	return out
}

func (r *Recorder) Reset() {
	r.seen = 0
	r.Times = nil
	r.Phases = nil
	r.Groups = nil
}
