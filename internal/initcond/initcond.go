// Package initcond supplies initial populations from an explicit seeded
// generator, so equal seeds give equal runs.
package initcond

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/kuramoto/internal/dynamo"
	"github.com/san-kum/kuramoto/internal/oscillator"
)

type Distribution string

const (
	// Uniform draws phases from [0, Spread).
	Uniform Distribution = "uniform"
	// Normal draws phases from N(0, Spread²).
	Normal Distribution = "normal"
	// Fixed takes phases verbatim from Options.Phases (zeros if empty).
	Fixed Distribution = "fixed"
)

func Distributions() []string {
	return []string{string(Uniform), string(Normal), string(Fixed)}
}

type Options struct {
	Distribution Distribution
	Spread       float64
	Phases       []float64
	// Labels, when non-empty, replace the random labels. Must have length n.
	Labels []int
}

// DefaultOptions draws phases uniformly over the full circle.
func DefaultOptions() Options {
	return Options{Distribution: Uniform, Spread: 2 * math.Pi}
}

type Generator struct {
	rng *rand.Rand
}

func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Population builds n oscillators with labels in [0, groups). Random labels
// are drawn after phases, so fixing labels does not shift the phase draw.
func (g *Generator) Population(n, groups int, opts Options) (oscillator.Population, error) {
	if n < 0 {
		return nil, dynamo.InvalidConfigf("population size must be non-negative, got %d", n)
	}
	if groups < 1 {
		return nil, dynamo.InvalidConfigf("group count must be positive, got %d", groups)
	}

	phases, err := g.phases(n, opts)
	if err != nil {
		return nil, err
	}

	labels := opts.Labels
	if len(labels) == 0 {
		labels = g.Labels(n, groups)
	}

	pop, err := oscillator.Join(phases, labels)
	if err != nil {
		return nil, err
	}
	if err := pop.Validate(groups); err != nil {
		return nil, err
	}
	return pop, nil
}

func (g *Generator) phases(n int, opts Options) (dynamo.State, error) {
	x := make(dynamo.State, n)
	switch opts.Distribution {
	case Uniform, "":
		for i := range x {
			x[i] = g.rng.Float64() * opts.Spread
		}
	case Normal:
		for i := range x {
			x[i] = g.rng.NormFloat64() * opts.Spread
		}
	case Fixed:
		if len(opts.Phases) == 0 {
			return x, nil
		}
		if len(opts.Phases) != n {
			return nil, fmt.Errorf("%w: %d fixed phases for %d oscillators", dynamo.ErrDimensionMismatch, len(opts.Phases), n)
		}
		copy(x, opts.Phases)
	default:
		return nil, dynamo.InvalidConfigf("unknown distribution: %s", opts.Distribution)
	}
	return x, nil
}

// Labels draws n labels uniformly from [0, groups).
func (g *Generator) Labels(n, groups int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = g.rng.Intn(groups)
	}
	return out
}

// Perturb returns a copy of pop with Gaussian noise of standard deviation
// sigma added to every phase. Labels are unchanged.
func (g *Generator) Perturb(pop oscillator.Population, sigma float64) oscillator.Population {
	noise := make(dynamo.State, len(pop))
	for i := range noise {
		noise[i] = g.rng.NormFloat64()
	}
	out := pop.Clone()
	out.AddScaled(sigma, noise)
	return out
}
