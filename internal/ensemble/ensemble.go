package ensemble

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/kuramoto/internal/dynamo"
	"github.com/san-kum/kuramoto/internal/oscillator"
	"gonum.org/v1/gonum/floats"
)

// rowsPerWorker is the smallest slice of rows handed to one worker.
const rowsPerWorker = 32

// Order selects how label reassignment interacts with the row loop.
type Order int

const (
	// Snapshot computes every derivative and proposed label from the labels
	// at call entry, then commits all labels at once. Independent of row
	// order and safe to evaluate in parallel.
	Snapshot Order = iota
	// Sequential commits label i as soon as row i is done, so rows after i
	// already see the new label. Reproduces single-pass reference output.
	Sequential
)

func (o Order) String() string {
	switch o {
	case Snapshot:
		return "snapshot"
	case Sequential:
		return "sequential"
	default:
		return fmt.Sprintf("order(%d)", int(o))
	}
}

func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(s) {
	case "", "snapshot":
		return Snapshot, nil
	case "sequential":
		return Sequential, nil
	default:
		return Snapshot, fmt.Errorf("unknown evaluation order: %s", s)
	}
}

type Option func(*Ensemble)

func WithCoupling(c Coupling) Option {
	return func(e *Ensemble) { e.coupling = c }
}

func WithOrder(o Order) Option {
	return func(e *Ensemble) { e.order = o }
}

// WithWorkers evaluates rows on up to w goroutines. Only the Snapshot order
// parallelizes; Sequential always runs on one.
func WithWorkers(w int) Option {
	return func(e *Ensemble) { e.workers = w }
}

// Ensemble is the vector field of N phase oscillators with adaptive group
// labels. It implements [dynamo.System] over the phase vector and owns the
// label side channel, which every Derive call rewrites.
//
// An Ensemble is not safe for concurrent use.
type Ensemble struct {
	n, groups int
	k         float64
	coupling  Coupling
	order     Order
	workers   int

	labels   []int
	next     []int
	affinity [][]float64 // one scratch row per worker
	evals    int
}

var (
	_ dynamo.System       = (*Ensemble)(nil)
	_ dynamo.Configurable = (*Ensemble)(nil)
)

// New creates an ensemble of n oscillators over groups labels with coupling
// strength k. All labels start at 0; use SetLabels to load initial ones.
func New(n, groups int, k float64, opts ...Option) (*Ensemble, error) {
	if n < 0 {
		return nil, dynamo.InvalidConfigf("population size must be non-negative, got %d", n)
	}
	if groups < 1 {
		return nil, dynamo.InvalidConfigf("group count must be positive, got %d", groups)
	}
	if math.IsNaN(k) || math.IsInf(k, 0) {
		return nil, dynamo.InvalidConfigf("coupling strength must be finite, got %v", k)
	}

	e := &Ensemble{
		n:        n,
		groups:   groups,
		k:        k,
		coupling: HalfPartition,
		order:    Snapshot,
		workers:  1,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.coupling == nil {
		return nil, dynamo.InvalidConfigf("coupling is required")
	}
	if e.workers < 1 || e.order == Sequential {
		e.workers = 1
	}

	e.labels = make([]int, n)
	e.next = make([]int, n)
	e.affinity = make([][]float64, e.workers)
	for w := range e.affinity {
		e.affinity[w] = make([]float64, groups)
	}
	return e, nil
}

func (e *Ensemble) StateDim() int     { return e.n }
func (e *Ensemble) NumGroups() int    { return e.groups }
func (e *Ensemble) Strength() float64 { return e.k }
func (e *Ensemble) Order() Order      { return e.order }

// SetStrength changes the coupling strength K for subsequent evaluations.
func (e *Ensemble) SetStrength(k float64) error {
	if math.IsNaN(k) || math.IsInf(k, 0) {
		return dynamo.InvalidConfigf("coupling strength must be finite, got %v", k)
	}
	e.k = k
	return nil
}

// Evaluations counts Derive calls since construction.
func (e *Ensemble) Evaluations() int { return e.evals }

// Labels returns a copy of the current group labels.
func (e *Ensemble) Labels() []int {
	out := make([]int, len(e.labels))
	copy(out, e.labels)
	return out
}

// SetLabels loads labels, failing fast on any label outside [0, L).
func (e *Ensemble) SetLabels(labels []int) error {
	if len(labels) != e.n {
		return fmt.Errorf("%w: %d labels for %d oscillators", dynamo.ErrDimensionMismatch, len(labels), e.n)
	}
	for i, g := range labels {
		if g < 0 || g >= e.groups {
			return fmt.Errorf("%w: oscillator %d has group %d, want [0, %d)", dynamo.ErrInvalidState, i, g, e.groups)
		}
	}
	copy(e.labels, labels)
	return nil
}

// Clone returns an independent ensemble with the same parameters and
// current labels. Scratch buffers and the evaluation counter are not shared.
func (e *Ensemble) Clone() *Ensemble {
	c := *e
	c.labels = e.Labels()
	c.next = make([]int, e.n)
	c.affinity = make([][]float64, len(e.affinity))
	for w := range c.affinity {
		c.affinity[w] = make([]float64, e.groups)
	}
	c.evals = 0
	return &c
}

func (e *Ensemble) GetParams() map[string]float64 {
	return map[string]float64{
		"N": float64(e.n),
		"L": float64(e.groups),
		"K": e.k,
	}
}

// Derive returns dθ/dt for every oscillator and reassigns every label to the
// group with the largest affinity. x must have length N; t is unused.
func (e *Ensemble) Derive(x dynamo.State, _ float64) dynamo.State {
	if len(x) != e.n {
		panic(fmt.Sprintf("ensemble: state has %d phases, want %d", len(x), e.n))
	}
	e.evals++
	dxdt := make(dynamo.State, e.n)

	if e.order == Sequential {
		aff := e.affinity[0]
		for i := range x {
			var g int
			dxdt[i], g = e.row(i, x, e.labels, aff)
			e.labels[i] = g
		}
		return dxdt
	}

	dynamo.ParallelFor(e.n, e.workers, rowsPerWorker, func(w, start, end int) {
		aff := e.affinity[w]
		for i := start; i < end; i++ {
			dxdt[i], e.next[i] = e.row(i, x, e.labels, aff)
		}
	})
	copy(e.labels, e.next)
	return dxdt
}

// Evaluate runs one evaluation on a full oscillator population: it returns
// the phase derivatives and rewrites every pop[i].Group in place.
func (e *Ensemble) Evaluate(pop oscillator.Population, t float64) (dynamo.State, error) {
	if len(pop) != e.n {
		return nil, fmt.Errorf("%w: population has %d oscillators, want %d", dynamo.ErrDimensionMismatch, len(pop), e.n)
	}
	if err := e.SetLabels(pop.Groups()); err != nil {
		return nil, err
	}
	dxdt := e.Derive(pop.Phases(), t)
	for i := range pop {
		pop[i].Group = e.labels[i]
	}
	return dxdt, nil
}

// row computes the derivative of oscillator i and its winning group. aff is
// scratch of length L and is zeroed here.
func (e *Ensemble) row(i int, x dynamo.State, labels []int, aff []float64) (float64, int) {
	clear(aff)
	pi := x[i]
	sum := 0.0
	for j, pj := range x {
		w := e.coupling(i, j, e.n)
		s, c := math.Sincos(pj - pi)
		sum += w * s
		aff[labels[j]] += w * 0.5 * (c + 1)
	}
	return NativeFrequency(labels[i], e.groups) + e.k*sum, floats.MaxIdx(aff)
}
