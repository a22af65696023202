package observer

import (
	"github.com/san-kum/kuramoto/internal/analysis"
	"github.com/san-kum/kuramoto/internal/logging"
	"github.com/san-kum/kuramoto/internal/oscillator"
)

// Log writes a DEBUG progress entry every n steps. Nothing is computed when
// the logger is above DEBUG.
type Log struct {
	log    *logging.Logger
	every  int
	groups int
	seen   int
}

func NewLog(l *logging.Logger, every, groups int) *Log {
	if every < 1 {
		every = 1
	}
	return &Log{log: l.WithComponent("observer"), every: every, groups: groups}
}

func (o *Log) OnStep(pop oscillator.Population, t float64) {
	o.seen++
	if o.seen%o.every != 0 || !o.log.Enabled(logging.LevelDebug) {
		return
	}
	r, psi := analysis.OrderParameter(pop.Phases())
	o.log.Debug("step",
		"step", o.seen,
		"t", t,
		"r", r,
		"psi", psi,
		"occupied", analysis.Occupied(analysis.GroupCounts(pop.Groups(), o.groups)),
	)
}
