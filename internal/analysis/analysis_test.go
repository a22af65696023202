package analysis

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/kuramoto/internal/dynamo"
	"github.com/san-kum/kuramoto/internal/ensemble"
	"github.com/san-kum/kuramoto/internal/initcond"
	"github.com/san-kum/kuramoto/internal/integrators"
	"github.com/san-kum/kuramoto/internal/oscillator"
	"github.com/san-kum/kuramoto/internal/sim"
)

func TestOrderParameter(t *testing.T) {
	tests := []struct {
		name   string
		phases []float64
		r, psi float64
	}{
		{"empty", nil, 0, 0},
		{"single", []float64{1}, 1, 1},
		{"locked", []float64{0.5, 0.5, 0.5}, 1, 0.5},
		{"opposite", []float64{0, math.Pi}, 0, math.NaN()},
		{"quarter spread", []float64{0, math.Pi / 2}, math.Sqrt2 / 2, math.Pi / 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, psi := OrderParameter(tt.phases)
			if math.Abs(r-tt.r) > 1e-12 {
				t.Errorf("r = %v, want %v", r, tt.r)
			}
			if !math.IsNaN(tt.psi) && math.Abs(psi-tt.psi) > 1e-12 {
				t.Errorf("psi = %v, want %v", psi, tt.psi)
			}
		})
	}
}

func TestPartitionCoherence(t *testing.T) {
	a, b := PartitionCoherence([]float64{0, 0, math.Pi, math.Pi})
	if math.Abs(a-1) > 1e-12 || math.Abs(b-1) > 1e-12 {
		t.Errorf("coherence = (%v, %v), want (1, 1)", a, b)
	}

	a, _ = PartitionCoherence([]float64{0, math.Pi, 1, 1})
	if a > 1e-12 {
		t.Errorf("antiphase half should have r = 0, got %v", a)
	}
}

func TestGroupCounts(t *testing.T) {
	counts := GroupCounts([]int{0, 2, 2, 5, -1}, 3)
	if counts[0] != 1 || counts[1] != 0 || counts[2] != 2 {
		t.Errorf("GroupCounts = %v", counts)
	}
	if got := Occupied(counts); got != 2 {
		t.Errorf("Occupied = %d, want 2", got)
	}
}

func TestGroupCoherence(t *testing.T) {
	pop := oscillator.Population{{Phase: 0, Group: 0}, {Phase: 0, Group: 0}, {Phase: 0, Group: 1}, {Phase: math.Pi, Group: 1}}
	coh := GroupCoherence(pop, 3)
	if math.Abs(coh[0]-1) > 1e-12 || coh[1] > 1e-12 || coh[2] != 0 {
		t.Errorf("GroupCoherence = %v", coh)
	}
}

func TestWrap(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{3 * math.Pi, math.Pi},
		{-math.Pi / 2, 1.5 * math.Pi},
	}
	for _, tt := range tests {
		if got := Wrap(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Wrap(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDominantFrequency(t *testing.T) {
	dt := 0.01
	series := make([]float64, 1000)
	for i := range series {
		tm := float64(i) * dt
		series[i] = 3 + math.Sin(2*math.Pi*0.5*tm) + 0.2*math.Sin(2*math.Pi*7*tm)
	}

	if got := DominantFrequency(series, dt); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("DominantFrequency = %v, want 0.5", got)
	}

	flat := make([]float64, 100)
	for i := range flat {
		flat[i] = 0.1
	}
	if got := DominantFrequency(flat, dt); got != 0 {
		t.Errorf("constant series should give 0, got %v", got)
	}

	if got := DominantFrequency([]float64{1, 2}, dt); got != 0 {
		t.Errorf("short series should give 0, got %v", got)
	}
}

func TestPowerSpectrum_NonPowerOfTwo(t *testing.T) {
	series := make([]float64, 300)
	for i := range series {
		series[i] = math.Cos(2 * math.Pi * 10 * float64(i) / 300)
	}
	ps := PowerSpectrum(series)
	if len(ps) != 150 {
		t.Fatalf("len = %d, want 150", len(ps))
	}
	if math.Abs(ps[10]-150) > 1e-6 {
		t.Errorf("ps[10] = %v, want 150", ps[10])
	}
}

func TestEffectiveFrequencies(t *testing.T) {
	times := []float64{0, 1, 2}
	phases := [][]float64{
		{0, 1},
		{1, 3},
		{2, 5},
	}
	freqs := EffectiveFrequencies(times, phases)
	if freqs[0] != 1 || freqs[1] != 2 {
		t.Errorf("EffectiveFrequencies = %v", freqs)
	}
	if got := FrequencySpread(freqs); got != 1 {
		t.Errorf("FrequencySpread = %v, want 1", got)
	}
	if EffectiveFrequencies(times[:1], phases[:1]) != nil {
		t.Error("single sample should give nil")
	}
}

func TestCircleASCII(t *testing.T) {
	pop := oscillator.Population{{Phase: 0, Group: 0}, {Phase: math.Pi, Group: 1}, {Phase: math.Pi / 2, Group: 11}}
	out := CircleASCII(pop, 11)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 11 {
		t.Fatalf("expected 11 rows, got %d", len(lines))
	}
	for _, glyph := range []string{"0", "1", "b"} {
		if !strings.Contains(out, glyph) {
			t.Errorf("plot missing glyph %q:\n%s", glyph, out)
		}
	}
	if GlyphGroup('b') != 11 || GlyphGroup('*') != -1 || GlyphGroup('+') != -1 {
		t.Errorf("GlyphGroup did not invert GroupGlyph")
	}
	if GroupGlyph(99) != '*' {
		t.Errorf("GroupGlyph(99) = %q", GroupGlyph(99))
	}
}

func TestSweepConfig_Values(t *testing.T) {
	ks := SweepConfig{KMin: 0, KMax: 2, Points: 5}.Values()
	want := []float64{0, 0.5, 1, 1.5, 2}
	for i := range want {
		if math.Abs(ks[i]-want[i]) > 1e-12 {
			t.Errorf("ks[%d] = %v, want %v", i, ks[i], want[i])
		}
	}
	if ks := (SweepConfig{KMin: 3, KMax: 3, Points: 1}).Values(); len(ks) != 1 || ks[0] != 3 {
		t.Errorf("single point = %v", ks)
	}
}

func TestCouplingSweep(t *testing.T) {
	initial, err := initcond.NewGenerator(1).Population(20, 1, initcond.DefaultOptions())
	if err != nil {
		t.Fatalf("Population failed: %v", err)
	}
	r0, _ := OrderParameter(initial.Phases())

	build := func(k float64) (sim.Job, error) {
		ens, err := ensemble.New(20, 1, k, ensemble.WithCoupling(ensemble.AllToAll))
		if err != nil {
			return sim.Job{}, err
		}
		return sim.Job{
			Name:    "sweep",
			Sim:     sim.New(ens, integrators.NewRK4()),
			Initial: initial,
			Config:  sim.Config{T0: 0, T1: 10, Dt: 0.05},
		}, nil
	}

	cfg := SweepConfig{KMin: 0, KMax: 0.2, Points: 2, Transient: 5, Workers: 2}
	points, err := CouplingSweep(context.Background(), cfg, build)
	if err != nil {
		t.Fatalf("CouplingSweep failed: %v", err)
	}

	if math.Abs(points[0].MeanR-r0) > 1e-9 {
		t.Errorf("uncoupled r drifted: %v -> %v", r0, points[0].MeanR)
	}
	if points[1].MeanR < 0.9 || points[1].FinalR < 0.99 {
		t.Errorf("strong coupling should lock, got mean r %v final r %v", points[1].MeanR, points[1].FinalR)
	}
	for _, p := range points {
		if p.Occupied != 1 {
			t.Errorf("K=%v: occupied = %d, want 1", p.K, p.Occupied)
		}
	}
}

func TestCouplingSweep_InvalidConfig(t *testing.T) {
	build := func(float64) (sim.Job, error) { return sim.Job{}, nil }

	for _, cfg := range []SweepConfig{
		{KMin: 0, KMax: 1, Points: 0},
		{KMin: 2, KMax: 1, Points: 3},
	} {
		if _, err := CouplingSweep(context.Background(), cfg, build); !errors.Is(err, dynamo.ErrInvalidConfig) {
			t.Errorf("%+v: expected ErrInvalidConfig, got %v", cfg, err)
		}
	}
}
