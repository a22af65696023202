package config

import (
	"runtime"

	"github.com/san-kum/kuramoto/internal/dynamo"
	"github.com/san-kum/kuramoto/internal/ensemble"
	"github.com/san-kum/kuramoto/internal/initcond"
	"github.com/san-kum/kuramoto/internal/integrators"
	"github.com/san-kum/kuramoto/internal/oscillator"
	"github.com/san-kum/kuramoto/internal/sim"
)

// Ensemble builds the vector field described by c.
func (c *Config) Ensemble() (*ensemble.Ensemble, error) {
	coupling, ok := ensemble.CouplingByName(c.Topology)
	if !ok {
		return nil, dynamo.InvalidConfigf("unknown topology: %s", c.Topology)
	}
	order, err := ensemble.ParseOrder(c.Evaluation)
	if err != nil {
		return nil, dynamo.InvalidConfigf("%v", err)
	}
	workers := c.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return ensemble.New(c.N, c.Groups, c.Coupling,
		ensemble.WithCoupling(coupling),
		ensemble.WithOrder(order),
		ensemble.WithWorkers(workers),
	)
}

func (c *Config) NewIntegrator() (dynamo.Integrator, error) {
	return integrators.New(c.Integrator)
}

// Population draws the initial population from c.Seed.
func (c *Config) Population() (oscillator.Population, error) {
	opts := initcond.Options{
		Distribution: initcond.Distribution(c.Init.Distribution),
		Spread:       c.Init.Spread,
		Phases:       c.Init.Phases,
		Labels:       c.Init.Labels,
	}
	return initcond.NewGenerator(c.Seed).Population(c.N, c.Groups, opts)
}

func (c *Config) Grid() sim.Config {
	return sim.Config{T0: c.T0, T1: c.T1, Dt: c.Dt}
}

// Simulator wires the ensemble and integrator of c.
func (c *Config) Simulator() (*sim.Simulator, error) {
	ens, err := c.Ensemble()
	if err != nil {
		return nil, err
	}
	integ, err := c.NewIntegrator()
	if err != nil {
		return nil, err
	}
	return sim.New(ens, integ), nil
}
