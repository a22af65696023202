package sim

import (
	"context"

	"github.com/san-kum/kuramoto/internal/dynamo"
	"github.com/san-kum/kuramoto/internal/ensemble"
	"github.com/san-kum/kuramoto/internal/integrators"
	"github.com/san-kum/kuramoto/internal/logging"
	"github.com/san-kum/kuramoto/internal/oscillator"
)

type Simulator struct {
	ens       *ensemble.Ensemble
	integ     dynamo.Integrator
	metrics   []Metric
	observers []Observer
	log       *logging.Logger
}

func New(ens *ensemble.Ensemble, integ dynamo.Integrator) *Simulator {
	return &Simulator{
		ens:       ens,
		integ:     integ,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		log:       logging.NopLogger(),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) SetLogger(l *logging.Logger) {
	if l == nil {
		l = logging.NopLogger()
	}
	s.log = l
}

func (s *Simulator) Ensemble() *ensemble.Ensemble { return s.ens }

// Run integrates pop over cfg's grid. Labels are loaded into the ensemble
// first, so an out-of-range label fails before any step. On cancellation the
// partial result is returned together with the error.
func (s *Simulator) Run(ctx context.Context, pop oscillator.Population, cfg Config) (*Result, error) {
	if err := integrators.ValidateGrid(cfg.T0, cfg.T1, cfg.Dt); err != nil {
		return nil, err
	}
	if err := s.ens.SetLabels(pop.Groups()); err != nil {
		return nil, err
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	s.log.Info("run started",
		"params", s.ens.GetParams(),
		"integrator", s.integ.Name(),
		"order", s.ens.Order().String(),
		"steps", integrators.Steps(cfg.T0, cfg.T1, cfg.Dt),
	)

	var observe func(dynamo.State, float64)
	if len(s.metrics)+len(s.observers) > 0 {
		observe = func(x dynamo.State, t float64) {
			cur, err := oscillator.Join(x, s.ens.Labels())
			if err != nil {
				return
			}
			for _, m := range s.metrics {
				m.Observe(cur, t)
			}
			for _, o := range s.observers {
				o.OnStep(cur, t)
			}
		}
	}

	x, stats, err := integrators.IntegrateConst(ctx, s.integ, s.ens, pop.Phases(), cfg.T0, cfg.T1, cfg.Dt, observe)

	result := &Result{
		Time:        stats.Time,
		StepsTaken:  stats.Steps,
		Evaluations: stats.Evaluations,
		Metrics:     make(map[string]float64, len(s.metrics)),
	}
	if x != nil {
		result.Final, _ = oscillator.Join(x, s.ens.Labels())
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	if err != nil {
		s.log.Warn("run stopped", "error", err, "steps", stats.Steps, "t", stats.Time)
		return result, err
	}

	s.log.Info("run finished", "steps", stats.Steps, "evaluations", stats.Evaluations, "t", stats.Time)
	return result, nil
}
