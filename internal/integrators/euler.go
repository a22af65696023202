package integrators

import "github.com/san-kum/kuramoto/internal/dynamo"

// Euler is forward Euler: one evaluation per step. First order only; kept
// for comparing label dynamics against RK4's four-stage updates.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, t float64, dt float64) dynamo.State {
	dx := dyn.Derive(x, t)
	result := make(dynamo.State, len(x))
	return x.AddScaledTo(result, dt, dx)
}
