package metrics

import (
	"github.com/san-kum/kuramoto/internal/analysis"
	"github.com/san-kum/kuramoto/internal/oscillator"
)

// RelabelRate is the mean fraction of oscillators whose label changed
// between consecutive observed steps.
type RelabelRate struct {
	name    string
	prev    []int
	samples int
	total   float64
}

func NewRelabelRate() *RelabelRate {
	return &RelabelRate{name: "relabel_rate"}
}

func (m *RelabelRate) Name() string { return m.name }

func (m *RelabelRate) Observe(pop oscillator.Population, _ float64) {
	if len(pop) == 0 {
		return
	}
	if m.prev == nil || len(m.prev) != len(pop) {
		m.prev = pop.Groups()
		return
	}

	changed := 0
	for i, o := range pop {
		if o.Group != m.prev[i] {
			changed++
		}
		m.prev[i] = o.Group
	}
	m.total += float64(changed) / float64(len(pop))
	m.samples++
}

func (m *RelabelRate) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *RelabelRate) Reset() {
	m.prev = nil
	m.total = 0
	m.samples = 0
}

// OccupiedGroups reports how many labels were in use at the last step.
type OccupiedGroups struct {
	name   string
	groups int
	last   int
}

func NewOccupiedGroups(groups int) *OccupiedGroups {
	return &OccupiedGroups{name: "occupied_groups", groups: groups}
}

func (m *OccupiedGroups) Name() string { return m.name }

func (m *OccupiedGroups) Observe(pop oscillator.Population, _ float64) {
	m.last = analysis.Occupied(analysis.GroupCounts(pop.Groups(), m.groups))
}

func (m *OccupiedGroups) Value() float64 { return float64(m.last) }
func (m *OccupiedGroups) Reset()         { m.last = 0 }
