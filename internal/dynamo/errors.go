package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidConfig indicates run parameters that no simulation can use
	// (no groups, non-positive step, reversed time span).
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrInvalidState indicates an oscillator label outside [0, L).
	ErrInvalidState = errors.New("dynamo: invalid state (group label out of range)")

	// ErrDimensionMismatch indicates a population whose size differs from the ensemble's.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")

	// ErrContextCanceled indicates the simulation was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")
)

// InvalidConfigf returns an error wrapping ErrInvalidConfig.
func InvalidConfigf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
