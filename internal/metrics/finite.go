package metrics

import (
	"github.com/san-kum/kuramoto/internal/oscillator"
)

// Finite is the fraction of observed steps whose phases were all finite.
// Non-finite phases are not stopped by the integrator; this makes them
// visible in the run summary.
type Finite struct {
	name       string
	violations int
	samples    int
}

func NewFinite() *Finite {
	return &Finite{name: "finite_fraction"}
}

func (m *Finite) Name() string { return m.name }

func (m *Finite) Observe(pop oscillator.Population, _ float64) {
	m.samples++
	if !pop.Phases().IsValid() {
		m.violations++
	}
}

func (m *Finite) Value() float64 {
	if m.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(m.violations)/float64(m.samples)
}

func (m *Finite) Reset() {
	m.violations = 0
	m.samples = 0
}
