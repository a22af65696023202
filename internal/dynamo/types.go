package dynamo

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// State is the continuous part of an ensemble: one unwrapped phase per
// oscillator, indexed by oscillator identity.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Add(other State) State {
	result := s.Clone()
	n := min(len(s), len(other))
	floats.Add(result[:n], other[:n])
	return result
}

func (s State) Scale(factor float64) State {
	result := s.Clone()
	floats.Scale(factor, result)
	return result
}

func (s State) Sub(other State) State {
	result := s.Clone()
	n := min(len(s), len(other))
	floats.Sub(result[:n], other[:n])
	return result
}

// AddScaledTo writes s + alpha*dx into dst and returns dst. All three
// slices must have the same length.
func (s State) AddScaledTo(dst State, alpha float64, dx State) State {
	floats.AddScaledTo(dst, s, alpha, dx)
	return dst
}

// System is a vector field dx/dt = f(x, t). Implementations may keep side
// channels (for example discrete labels) that every call updates.
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

type Integrator interface {
	Name() string
	Step(dyn System, x State, t float64, dt float64) State
}

// Configurable exposes named scalar parameters for display.
type Configurable interface {
	GetParams() map[string]float64
}
