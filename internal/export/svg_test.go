package export

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/kuramoto/internal/oscillator"
)

func TestPhaseCircleSVG(t *testing.T) {
	pop := oscillator.Population{{Phase: 0, Group: 0}, {Phase: math.Pi / 2, Group: 1}, {Phase: math.NaN(), Group: 0}}
	svg := PhaseCircleSVG(pop, 200)

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("not a complete SVG document:\n%s", svg)
	}
	// Unit circle and the two finite oscillators.
	if got := strings.Count(svg, "<circle"); got != 3 {
		t.Errorf("expected 3 circles, got %d", got)
	}
	if !strings.Contains(svg, groupColor(0)) || !strings.Contains(svg, groupColor(1)) {
		t.Error("oscillators should be colored by group")
	}
	// Phase 0 sits on the right edge: center 100 plus radius 85.
	if !strings.Contains(svg, `cx="185.0" cy="100.0"`) {
		t.Errorf("phase 0 misplaced:\n%s", svg)
	}
}

func TestSeriesSVG(t *testing.T) {
	xs := []float64{0, 1, 2}
	ys := []float64{0, 0.5, 1}
	svg := SeriesSVG(xs, ys, 0, 1, 100, 100, "#ffffff")

	if !strings.Contains(svg, `d="M5.0,95.0 L50.0,50.0 L95.0,5.0"`) {
		t.Errorf("unexpected path:\n%s", svg)
	}
	if SeriesSVG(xs[:1], ys[:1], 0, 1, 100, 100, "#fff") != "" {
		t.Error("single point should render empty")
	}
}

func TestGroupColor(t *testing.T) {
	if groupColor(len(groupColors)) != groupColor(0) {
		t.Error("colors should wrap")
	}
	if groupColor(-1) != "#808080" {
		t.Error("unknown group should be gray")
	}
}
