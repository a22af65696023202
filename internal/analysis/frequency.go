package analysis

import (
	"math"

	"github.com/san-kum/kuramoto/internal/dynamo"
)

// EffectiveFrequencies returns each oscillator's mean angular velocity
// (θ_end - θ_start)/(t_end - t_start). phases[k] is the population at
// times[k] and must hold unwrapped phases, as integration produces them.
// Fewer than two samples give nil.
func EffectiveFrequencies(times []float64, phases [][]float64) []float64 {
	if len(times) < 2 || len(phases) != len(times) {
		return nil
	}
	span := times[len(times)-1] - times[0]
	if span <= 0 {
		return nil
	}

	first, last := dynamo.State(phases[0]), dynamo.State(phases[len(phases)-1])
	return last.Sub(first).Scale(1 / span)
}

// FrequencySpread returns max minus min of freqs; 0 means frequency locked.
func FrequencySpread(freqs []float64) float64 {
	if len(freqs) == 0 {
		return 0
	}
	lo, hi := freqs[0], freqs[0]
	for _, f := range freqs[1:] {
		lo = math.Min(lo, f)
		hi = math.Max(hi, f)
	}
	return hi - lo
}
