// Package ensemble implements the vector field of a population of phase
// oscillators whose group labels self-organize.
//
// For oscillator i, one evaluation accumulates over every j
//
//	sum         += f(i, j) * sin(θj - θi)
//	affinity[gj] += f(i, j) * (cos(θj - θi) + 1) / 2
//
// then sets dθi/dt = freq(gi, L) + K*sum and relabels i to the group with the
// largest affinity (lowest index on ties).
//
// # Labels
//
// Labels are not part of the integrated state. The [Ensemble] owns them and
// rewrites them on every [Ensemble.Derive]; integrators only ever combine
// phases. [Order] selects whether a call reads labels frozen at entry
// ([Snapshot]) or sees earlier rows' new labels ([Sequential]).
//
// Out-of-range labels are rejected at the boundary ([Ensemble.SetLabels],
// [Ensemble.Evaluate]) with [dynamo.ErrInvalidState].
package ensemble
