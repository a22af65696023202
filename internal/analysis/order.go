package analysis

import (
	"math"

	"github.com/san-kum/kuramoto/internal/oscillator"
)

// OrderParameter returns the magnitude r and mean phase ψ of
// (1/N) Σ e^{iθj}. An empty population gives (0, 0).
func OrderParameter(phases []float64) (r, psi float64) {
	if len(phases) == 0 {
		return 0, 0
	}
	var re, im float64
	for _, p := range phases {
		s, c := math.Sincos(p)
		re += c
		im += s
	}
	n := float64(len(phases))
	re /= n
	im /= n
	return math.Hypot(re, im), math.Atan2(im, re)
}

// PartitionCoherence returns the order parameter magnitude of [0, N/2) and
// of [N/2, N), the two halves of the half-partition topology.
func PartitionCoherence(phases []float64) (first, second float64) {
	half := len(phases) / 2
	first, _ = OrderParameter(phases[:half])
	second, _ = OrderParameter(phases[half:])
	return first, second
}

// GroupCounts returns how many oscillators carry each label in [0, groups).
// Out-of-range labels are ignored.
func GroupCounts(labels []int, groups int) []int {
	counts := make([]int, groups)
	for _, g := range labels {
		if g >= 0 && g < groups {
			counts[g]++
		}
	}
	return counts
}

// Occupied counts the labels held by at least one oscillator.
func Occupied(counts []int) int {
	n := 0
	for _, c := range counts {
		if c > 0 {
			n++
		}
	}
	return n
}

// GroupCoherence returns the order parameter magnitude of the members of
// each label. Empty labels report 0.
func GroupCoherence(pop oscillator.Population, groups int) []float64 {
	members := make([][]float64, groups)
	for _, o := range pop {
		if o.Group >= 0 && o.Group < groups {
			members[o.Group] = append(members[o.Group], o.Phase)
		}
	}
	out := make([]float64, groups)
	for g, m := range members {
		out[g], _ = OrderParameter(m)
	}
	return out
}

// Wrap maps a phase into [0, 2π).
func Wrap(phase float64) float64 {
	w := math.Mod(phase, 2*math.Pi)
	if w < 0 {
		w += 2 * math.Pi
	}
	return w
}
