package observer

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/kuramoto/internal/analysis"
	"github.com/san-kum/kuramoto/internal/oscillator"
)

// Plot collects the order parameter r(t) and renders it as a text chart.
type Plot struct {
	every  int
	seen   int
	Series []float64
	t0, t1 float64
}

// NewPlot samples every n-th step.
func NewPlot(every int) *Plot {
	if every < 1 {
		every = 1
	}
	return &Plot{every: every}
}

func (p *Plot) OnStep(pop oscillator.Population, t float64) {
	p.seen++
	if p.seen%p.every != 0 {
		return
	}
	if len(p.Series) == 0 {
		p.t0 = t
	}
	p.t1 = t
	r, _ := analysis.OrderParameter(pop.Phases())
	p.Series = append(p.Series, r)
}

// Render draws the collected series. An empty plot renders as "".
func (p *Plot) Render(width, height int) string {
	return RenderSeries(p.Series, width, height, fmt.Sprintf("order parameter r(t), t=%.2f..%.2f", p.t0, p.t1))
}

// RenderSeries draws r values on a fixed [0, 1] axis.
func RenderSeries(series []float64, width, height int, caption string) string {
	if len(series) == 0 {
		return ""
	}
	return asciigraph.Plot(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(1),
		asciigraph.Precision(2),
		asciigraph.Caption(caption),
	)
}
