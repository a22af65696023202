// Package metrics holds scalar run summaries accumulated step by step.
package metrics

import "github.com/san-kum/kuramoto/internal/sim"

// Standard returns the metrics attached to every CLI run.
func Standard(groups int) []sim.Metric {
	return []sim.Metric{
		NewOrderParameter(),
		NewPartitionCoherence(),
		NewRelabelRate(),
		NewOccupiedGroups(groups),
		NewFinite(),
	}
}
