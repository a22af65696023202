package ensemble

import "math"

// Coupling returns the interaction weight of oscillator j on oscillator i in
// a population of n. It must be pure.
type Coupling func(i, j, n int) float64

// HalfPartition splits the population into [0, n/2) and [n/2, n): +1 inside
// a half, -1 across halves. Two internally attractive communities that repel
// each other.
func HalfPartition(i, j, n int) float64 {
	half := n / 2
	if (i < half) == (j < half) {
		return 1
	}
	return -1
}

// AllToAll couples every pair with weight +1 (classic Kuramoto).
func AllToAll(_, _, _ int) float64 {
	return 1
}

// NativeFrequency is π/2 + group/groups, strictly increasing in group.
func NativeFrequency(group, groups int) float64 {
	return math.Pi/2 + float64(group)/float64(groups)
}

var couplings = map[string]Coupling{
	"halves":     HalfPartition,
	"all-to-all": AllToAll,
}

// CouplingByName looks up a named topology.
func CouplingByName(name string) (Coupling, bool) {
	c, ok := couplings[name]
	return c, ok
}

// CouplingNames lists the named topologies.
func CouplingNames() []string {
	return []string{"halves", "all-to-all"}
}
