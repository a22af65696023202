// Package export renders runs as standalone SVG images.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/kuramoto/internal/analysis"
	"github.com/san-kum/kuramoto/internal/oscillator"
)

// groupColors matches the terminal palette of the live viewer.
var groupColors = []string{
	"#5fffd7", "#ff87ff", "#ffd700", "#5fff00", "#00afff",
	"#ff8700", "#af87ff", "#ff0000", "#ffffaf", "#00ffd7",
}

func groupColor(g int) string {
	if g < 0 {
		return "#808080"
	}
	return groupColors[g%len(groupColors)]
}

func header(sb *strings.Builder, width, height int) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))
}

// PhaseCircleSVG draws every oscillator on the unit circle colored by group,
// with the mean-field vector r·e^{iψ} as a line from the center.
func PhaseCircleSVG(pop oscillator.Population, size int) string {
	if size < 16 {
		size = 16
	}
	var sb strings.Builder
	header(&sb, size, size)

	c := float64(size) / 2
	radius := c * 0.85
	dot := math.Max(float64(size)/120, 1.5)

	sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="#444444" stroke-width="1"/>
`, c, c, radius))

	r, psi := analysis.OrderParameter(pop.Phases())
	s, co := math.Sincos(psi)
	sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#ffd700" stroke-width="2"/>
`, c, c, c+radius*r*co, c-radius*r*s))

	for _, o := range pop {
		if math.IsNaN(o.Phase) || math.IsInf(o.Phase, 0) {
			continue
		}
		s, co := math.Sincos(o.Phase)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, c+radius*co, c-radius*s, dot, groupColor(o.Group)))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesSVG draws y against x as a polyline. The y axis is fixed to
// [yMin, yMax]; the x axis spans the data. Fewer than two points render as
// "".
func SeriesSVG(xs, ys []float64, yMin, yMax float64, width, height int, stroke string) string {
	n := min(len(xs), len(ys))
	if n < 2 {
		return ""
	}

	minX, maxX := xs[0], xs[n-1]
	rangeX := maxX - minX
	if rangeX == 0 {
		rangeX = 1
	}
	rangeY := yMax - yMin
	if rangeY == 0 {
		rangeY = 1
	}

	pad := 0.05
	w, h := float64(width), float64(height)

	var sb strings.Builder
	header(&sb, width, height)
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, stroke))

	for i := 0; i < n; i++ {
		x := pad*w + (xs[i]-minX)/rangeX*w*(1-2*pad)
		y := h - pad*h - (ys[i]-yMin)/rangeY*h*(1-2*pad)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
