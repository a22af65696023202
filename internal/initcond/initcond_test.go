package initcond

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/kuramoto/internal/dynamo"
)

func TestPopulation_Reproducible(t *testing.T) {
	a, err := NewGenerator(7).Population(50, 4, DefaultOptions())
	if err != nil {
		t.Fatalf("Population failed: %v", err)
	}
	b, _ := NewGenerator(7).Population(50, 4, DefaultOptions())
	c, _ := NewGenerator(8).Population(50, 4, DefaultOptions())

	same := true
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("seed 7 differs at %d: %v vs %v", i, a[i], b[i])
		}
		if a[i] != c[i] {
			same = false
		}
	}
	if same {
		t.Error("different seeds produced identical populations")
	}
}

func TestPopulation_Ranges(t *testing.T) {
	pop, err := NewGenerator(1).Population(1000, 3, Options{Distribution: Uniform, Spread: math.Pi})
	if err != nil {
		t.Fatalf("Population failed: %v", err)
	}

	seen := make(map[int]bool)
	for i, o := range pop {
		if o.Phase < 0 || o.Phase >= math.Pi {
			t.Errorf("phase[%d] = %v outside [0, π)", i, o.Phase)
		}
		if o.Group < 0 || o.Group >= 3 {
			t.Errorf("group[%d] = %d outside [0, 3)", i, o.Group)
		}
		seen[o.Group] = true
	}
	if len(seen) != 3 {
		t.Errorf("expected all 3 groups drawn, saw %v", seen)
	}
}

func TestPopulation_Fixed(t *testing.T) {
	opts := Options{
		Distribution: Fixed,
		Phases:       []float64{0, 0, math.Pi, math.Pi},
		Labels:       []int{0, 1, 0, 1},
	}
	pop, err := NewGenerator(0).Population(4, 2, opts)
	if err != nil {
		t.Fatalf("Population failed: %v", err)
	}
	if pop[2].Phase != math.Pi || pop[3].Group != 1 {
		t.Errorf("unexpected population: %v", pop)
	}

	zero, err := NewGenerator(0).Population(3, 1, Options{Distribution: Fixed})
	if err != nil {
		t.Fatalf("Population failed: %v", err)
	}
	for _, o := range zero {
		if o.Phase != 0 || o.Group != 0 {
			t.Errorf("expected zero oscillator, got %v", o)
		}
	}
}

func TestPopulation_Errors(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		groups int
		opts   Options
		want   error
	}{
		{"no groups", 4, 0, DefaultOptions(), dynamo.ErrInvalidConfig},
		{"negative n", -1, 2, DefaultOptions(), dynamo.ErrInvalidConfig},
		{"unknown distribution", 4, 2, Options{Distribution: "cauchy"}, dynamo.ErrInvalidConfig},
		{"short phases", 4, 2, Options{Distribution: Fixed, Phases: []float64{1}}, dynamo.ErrDimensionMismatch},
		{"short labels", 4, 2, Options{Labels: []int{0}}, dynamo.ErrDimensionMismatch},
		{"label out of range", 2, 2, Options{Labels: []int{0, 2}}, dynamo.ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGenerator(1).Population(tt.n, tt.groups, tt.opts)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestPerturb(t *testing.T) {
	gen := NewGenerator(3)
	pop, _ := gen.Population(10, 2, DefaultOptions())
	before := pop.Clone()

	out := gen.Perturb(pop, 0.1)
	moved := false
	for i := range out {
		if pop[i] != before[i] {
			t.Fatal("Perturb modified its input")
		}
		if out[i].Group != pop[i].Group {
			t.Errorf("Perturb changed group of %d", i)
		}
		if out[i].Phase != pop[i].Phase {
			moved = true
		}
	}
	if !moved {
		t.Error("Perturb left every phase unchanged")
	}
}
