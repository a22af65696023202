package integrators

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/kuramoto/internal/dynamo"
)

// gridTolerance absorbs floating-point error in (t1-t0)/dt so that spans
// that are whole multiples of dt get every step.
const gridTolerance = 1e-9

// MaxSteps bounds the number of steps a single grid may request.
const MaxSteps = math.MaxInt32

// Steps returns how many full steps of size dt fit in [t0, t1]. A trailing
// partial interval shorter than dt is not integrated. Grids that ValidateGrid
// rejects give 0.
func Steps(t0, t1, dt float64) int {
	ratio := (t1-t0)/dt + gridTolerance
	if !(ratio >= 0 && ratio <= MaxSteps+1) {
		return 0
	}
	return min(int(math.Floor(ratio)), MaxSteps)
}

// ValidateGrid rejects spans no fixed-step integration can cover.
func ValidateGrid(t0, t1, dt float64) error {
	for _, p := range []struct {
		name string
		v    float64
	}{{"t0", t0}, {"t1", t1}, {"dt", dt}} {
		if math.IsNaN(p.v) || math.IsInf(p.v, 0) {
			return dynamo.InvalidConfigf("%s must be finite, got %v", p.name, p.v)
		}
	}
	if dt <= 0 {
		return dynamo.InvalidConfigf("dt must be positive, got %g", dt)
	}
	if t1 < t0 {
		return dynamo.InvalidConfigf("end time %g is before start time %g", t1, t0)
	}
	if ratio := (t1 - t0) / dt; math.IsInf(ratio, 0) || ratio > MaxSteps {
		return dynamo.InvalidConfigf("span %g..%g with dt=%g needs more than %d steps", t0, t1, dt, MaxSteps)
	}
	return nil
}

// Stats reports the work done by IntegrateConst.
type Stats struct {
	Steps       int
	Evaluations int
	Time        float64
}

type countingSystem struct {
	dynamo.System
	evals int
}

func (c *countingSystem) Derive(x dynamo.State, t float64) dynamo.State {
	c.evals++
	return c.System.Derive(x, t)
}

// Available returns the scheme names New understands.
func Available() []string {
	return []string{"rk4", "euler"}
}

func New(name string) (dynamo.Integrator, error) {
	switch name {
	case "rk4", "":
		return NewRK4(), nil
	case "euler":
		return NewEuler(), nil
	default:
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
}

// IntegrateConst advances x0 from t0 in Steps(t0, t1, dt) fixed steps. Step i
// ends at exactly t0 + (i+1)*dt, so time does not drift by accumulation.
// observe, if non-nil, is called once after every step with the new state,
// which it must not modify. The initial state is not observed.
func IntegrateConst(
	ctx context.Context,
	integ dynamo.Integrator,
	dyn dynamo.System,
	x0 dynamo.State,
	t0, t1, dt float64,
	observe func(x dynamo.State, t float64),
) (dynamo.State, Stats, error) {
	if err := ValidateGrid(t0, t1, dt); err != nil {
		return nil, Stats{}, err
	}

	sys := &countingSystem{System: dyn}
	steps := Steps(t0, t1, dt)
	x := x0.Clone()
	t := t0
	stats := Stats{Time: t0}

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			stats.Evaluations = sys.evals
			return x, stats, &dynamo.SimulationError{Step: i, Time: t, Wrapped: fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())}
		default:
		}

		x = integ.Step(sys, x, t, dt)
		t = t0 + float64(i+1)*dt
		stats.Steps++
		stats.Time = t

		if observe != nil {
			observe(x, t)
		}
	}

	stats.Evaluations = sys.evals
	return x, stats, nil
}
