// Package dynamo provides the integrator-facing primitives shared by the
// ensemble and the integration schemes.
//
//   - [State]: the algebraic phase vector the integrator combines
//   - [System]: vector field interface (dX/dt = f(X, t))
//   - [Integrator]: fixed-step numerical scheme
//   - [ParallelFor]: chunked worker fan-out for row-parallel evaluation
//
// Discrete oscillator labels are deliberately absent from [State]: systems
// that carry them keep them as a side channel and update it on every
// [System.Derive] call.
//
// # Example
//
//	ens, _ := ensemble.New(100, 10, 2.0)
//	integ := integrators.NewRK4()
//	x = integ.Step(ens, x, t, dt)
package dynamo
