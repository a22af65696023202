// Package analysis provides synchronization measures for oscillator
// populations and their recorded trajectories.
//
//   - [OrderParameter]: Kuramoto order parameter r·e^{iψ}
//   - [PartitionCoherence]: order parameter of each half of the population
//   - [GroupCounts], [GroupCoherence]: label occupancy and per-label coherence
//   - [EffectiveFrequencies]: mean phase velocity per oscillator
//   - [DominantFrequency]: strongest spectral line of a sampled series
//   - [CouplingSweep]: time-averaged r across a range of coupling strengths
//
// # Synchronization
//
// r is 1 when every phase coincides and near 0 for phases spread evenly
// around the circle:
//
//	r, _ := analysis.OrderParameter(pop.Phases())
//	if r > 0.9 {
//	    // population is phase locked
//	}
package analysis
