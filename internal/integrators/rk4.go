package integrators

import "github.com/san-kum/kuramoto/internal/dynamo"

// RK4 is the classic fixed-step fourth-order Runge-Kutta scheme. Each step
// evaluates the vector field four times, so systems with side channels see
// four updates per step, the last one at the k4 stage.
type RK4 struct {
	k1, k2, k3, k4 dynamo.State
	scratch        dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(dynamo.State, n)
		r.k2 = make(dynamo.State, n)
		r.k3 = make(dynamo.State, n)
		r.k4 = make(dynamo.State, n)
		r.scratch = make(dynamo.State, n)
	}
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	n := len(x)
	r.ensureScratch(n)

	copy(r.k1, dyn.Derive(x, t))

	x.AddScaledTo(r.scratch, dt*0.5, r.k1)
	copy(r.k2, dyn.Derive(r.scratch, t+dt*0.5))

	x.AddScaledTo(r.scratch, dt*0.5, r.k2)
	copy(r.k3, dyn.Derive(r.scratch, t+dt*0.5))

	x.AddScaledTo(r.scratch, dt, r.k3)
	copy(r.k4, dyn.Derive(r.scratch, t+dt))

	// x + dt/6*(k1 + 2k2 + 2k3 + k4), summed left to right
	incr := r.k1.Add(r.k2.Scale(2)).Add(r.k3.Scale(2)).Add(r.k4)
	return x.Add(incr.Scale(dt / 6.0))
}
