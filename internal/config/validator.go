package config

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/san-kum/kuramoto/internal/ensemble"
	"github.com/san-kum/kuramoto/internal/initcond"
	"github.com/san-kum/kuramoto/internal/integrators"
	"github.com/san-kum/kuramoto/internal/logging"
)

// ValidationError is one invalid field.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Validate reports every invalid field at once. A nil result means the
// config can be run.
func (c *Config) Validate() ValidationErrors {
	var errs ValidationErrors
	errs = append(errs, c.validateModel()...)
	errs = append(errs, c.validateGrid()...)
	errs = append(errs, c.validateInit()...)
	errs = append(errs, c.validateOutput()...)
	return errs
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func oneOf(field, value string, valid []string) []ValidationError {
	if slices.Contains(valid, value) {
		return nil
	}
	return []ValidationError{{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(valid, ", ")),
	}}
}

func (c *Config) validateModel() []ValidationError {
	var errs []ValidationError

	if c.N < 1 {
		errs = append(errs, ValidationError{Field: "n", Value: c.N, Message: "must be at least 1"})
	}
	if c.Groups < 1 {
		errs = append(errs, ValidationError{Field: "groups", Value: c.Groups, Message: "must be at least 1"})
	}
	if !finite(c.Coupling) {
		errs = append(errs, ValidationError{Field: "coupling", Value: c.Coupling, Message: "must be finite"})
	}
	if c.Workers < 0 {
		errs = append(errs, ValidationError{Field: "workers", Value: c.Workers, Message: "must be non-negative (0 means one per CPU)"})
	}

	errs = append(errs, oneOf("topology", c.Topology, ensemble.CouplingNames())...)
	errs = append(errs, oneOf("integrator", c.Integrator, integrators.Available())...)
	errs = append(errs, oneOf("evaluation", c.Evaluation, []string{"snapshot", "sequential"})...)
	return errs
}

func (c *Config) validateGrid() []ValidationError {
	var errs []ValidationError

	for _, f := range []struct {
		name string
		v    float64
	}{{"t0", c.T0}, {"t1", c.T1}, {"dt", c.Dt}} {
		if !finite(f.v) {
			errs = append(errs, ValidationError{Field: f.name, Value: f.v, Message: "must be finite"})
		}
	}
	if c.Dt <= 0 {
		errs = append(errs, ValidationError{Field: "dt", Value: c.Dt, Message: "must be positive"})
	}
	if c.T1 < c.T0 {
		errs = append(errs, ValidationError{Field: "t1", Value: c.T1, Message: fmt.Sprintf("must not be before t0 (%g)", c.T0)})
	}
	if len(errs) == 0 && integrators.ValidateGrid(c.T0, c.T1, c.Dt) != nil {
		errs = append(errs, ValidationError{Field: "dt", Value: c.Dt, Message: fmt.Sprintf("gives more than %d steps over t0..t1", integrators.MaxSteps)})
	}
	return errs
}

func (c *Config) validateInit() []ValidationError {
	var errs []ValidationError

	errs = append(errs, oneOf("init.distribution", c.Init.Distribution, initcond.Distributions())...)
	if !finite(c.Init.Spread) || c.Init.Spread < 0 {
		errs = append(errs, ValidationError{Field: "init.spread", Value: c.Init.Spread, Message: "must be finite and non-negative"})
	}
	if len(c.Init.Phases) > 0 && len(c.Init.Phases) != c.N {
		errs = append(errs, ValidationError{Field: "init.phases", Value: len(c.Init.Phases), Message: fmt.Sprintf("must list exactly n (%d) phases", c.N)})
	}
	if len(c.Init.Phases) > 0 && c.Init.Distribution != string(initcond.Fixed) {
		errs = append(errs, ValidationError{Field: "init.phases", Value: c.Init.Distribution, Message: "requires distribution fixed"})
	}
	if len(c.Init.Labels) > 0 {
		if len(c.Init.Labels) != c.N {
			errs = append(errs, ValidationError{Field: "init.labels", Value: len(c.Init.Labels), Message: fmt.Sprintf("must list exactly n (%d) labels", c.N)})
		}
		for i, g := range c.Init.Labels {
			if g < 0 || g >= c.Groups {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("init.labels[%d]", i),
					Value:   g,
					Message: fmt.Sprintf("must be in [0, %d)", c.Groups),
				})
			}
		}
	}
	return errs
}

func (c *Config) validateOutput() []ValidationError {
	var errs []ValidationError

	if c.Output.Stride < 1 {
		errs = append(errs, ValidationError{Field: "output.stride", Value: c.Output.Stride, Message: "must be at least 1"})
	}
	if c.Log.Every < 1 {
		errs = append(errs, ValidationError{Field: "log.every", Value: c.Log.Every, Message: "must be at least 1"})
	}
	errs = append(errs, oneOf("log.level", strings.ToUpper(c.Log.Level), logging.ValidLevels())...)
	return errs
}
