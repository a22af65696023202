package sim

import "github.com/san-kum/kuramoto/internal/oscillator"

// Observer sees the population after every completed step. The population is
// shared between observers of the same step and must not be modified.
type Observer interface {
	OnStep(pop oscillator.Population, t float64)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(pop oscillator.Population, t float64)

func (f ObserverFunc) OnStep(pop oscillator.Population, t float64) { f(pop, t) }

// Metric accumulates a scalar over a run.
type Metric interface {
	Name() string
	Observe(pop oscillator.Population, t float64)
	Value() float64
	Reset()
}

// Config is the integration grid: fixed steps of Dt from T0 towards T1.
type Config struct {
	T0 float64
	T1 float64
	Dt float64
}

type Result struct {
	Final       oscillator.Population
	Time        float64
	StepsTaken  int
	Evaluations int
	Metrics     map[string]float64
}
