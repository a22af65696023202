package ensemble

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"slices"
	"testing"

	"github.com/san-kum/kuramoto/internal/dynamo"
	"github.com/san-kum/kuramoto/internal/oscillator"
)

func TestHalfPartition(t *testing.T) {
	tests := []struct {
		i, j, n int
		want    float64
	}{
		{0, 1, 4, 1},
		{2, 3, 4, 1},
		{0, 2, 4, -1},
		{3, 1, 4, -1},
		{1, 1, 4, 1},
		{0, 1, 2, -1},
		// odd n: first half is [0, n/2)
		{0, 1, 5, 1},
		{1, 2, 5, -1},
		{2, 4, 5, 1},
	}

	for _, tt := range tests {
		for rep := 0; rep < 3; rep++ {
			if got := HalfPartition(tt.i, tt.j, tt.n); got != tt.want {
				t.Errorf("HalfPartition(%d, %d, %d) = %v, want %v", tt.i, tt.j, tt.n, got, tt.want)
			}
		}
	}
}

func TestNativeFrequency(t *testing.T) {
	if got := NativeFrequency(0, 1); got != math.Pi/2 {
		t.Errorf("NativeFrequency(0, 1) = %v, want π/2", got)
	}
	if got := NativeFrequency(5, 10); math.Abs(got-(math.Pi/2+0.5)) > 1e-15 {
		t.Errorf("NativeFrequency(5, 10) = %v", got)
	}

	prev := math.Inf(-1)
	for g := 0; g < 10; g++ {
		f := NativeFrequency(g, 10)
		if f <= prev {
			t.Errorf("frequency not strictly increasing at group %d", g)
		}
		if again := NativeFrequency(g, 10); again != f {
			t.Errorf("NativeFrequency(%d, 10) not repeatable: %v vs %v", g, f, again)
		}
		prev = f
	}
}

func TestCouplingByName(t *testing.T) {
	for _, name := range CouplingNames() {
		if _, ok := CouplingByName(name); !ok {
			t.Errorf("coupling %q listed but not registered", name)
		}
	}
	if _, ok := CouplingByName("ring"); ok {
		t.Error("expected unknown coupling to be rejected")
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		n, l int
		k    float64
		opts []Option
	}{
		{"no groups", 4, 0, 1, nil},
		{"negative groups", 4, -2, 1, nil},
		{"negative population", -1, 2, 1, nil},
		{"NaN coupling", 4, 2, math.NaN(), nil},
		{"infinite coupling", 4, 2, math.Inf(1), nil},
		{"nil coupling", 4, 2, 1, []Option{WithCoupling(nil)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.n, tt.l, tt.k, tt.opts...)
			if !errors.Is(err, dynamo.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestParseOrder(t *testing.T) {
	for _, o := range []Order{Snapshot, Sequential} {
		got, err := ParseOrder(o.String())
		if err != nil || got != o {
			t.Errorf("ParseOrder(%q) = %v, %v", o.String(), got, err)
		}
	}
	if _, err := ParseOrder("random"); err == nil {
		t.Error("expected error for unknown order")
	}
}

func TestDerive_EmptyPopulation(t *testing.T) {
	e, err := New(0, 3, 1)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	dx := e.Derive(dynamo.State{}, 0)
	if len(dx) != 0 {
		t.Errorf("expected empty derivative, got %v", dx)
	}
}

func TestDerive_UncoupledSingleGroup(t *testing.T) {
	e, err := New(5, 1, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	dx := e.Derive(dynamo.State{0, 1, -2, 3.5, 100}, 0)
	for i, v := range dx {
		if v != math.Pi/2 {
			t.Errorf("dx[%d] = %v, want π/2", i, v)
		}
	}
}

func TestDerive_TieBreaksToLowestGroup(t *testing.T) {
	// Both oscillators collect affinity 1 for groups 1 and 2, 0 for group 0.
	e, err := New(2, 3, 1, WithCoupling(AllToAll))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := e.SetLabels([]int{1, 2}); err != nil {
		t.Fatalf("SetLabels failed: %v", err)
	}
	e.Derive(dynamo.State{0, 0}, 0)
	if got := e.Labels(); !slices.Equal(got, []int{1, 1}) {
		t.Errorf("labels = %v, want [1 1]", got)
	}
}

func TestDerive_OrderSemantics(t *testing.T) {
	tests := []struct {
		name   string
		n, l   int
		labels []int
		order  Order
		want   []int
	}{
		{"pair snapshot", 2, 2, []int{1, 1}, Snapshot, []int{0, 0}},
		{"pair sequential", 2, 2, []int{1, 1}, Sequential, []int{0, 1}},
		{"quad snapshot", 4, 2, []int{0, 1, 0, 1}, Snapshot, []int{0, 0, 0, 0}},
		{"quad sequential", 4, 2, []int{0, 1, 0, 1}, Sequential, []int{0, 0, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := New(tt.n, tt.l, 1, WithOrder(tt.order))
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			if err := e.SetLabels(tt.labels); err != nil {
				t.Fatalf("SetLabels failed: %v", err)
			}
			dx := e.Derive(make(dynamo.State, tt.n), 0)
			if got := e.Labels(); !slices.Equal(got, tt.want) {
				t.Errorf("labels = %v, want %v", got, tt.want)
			}
			// Derivatives use the label each oscillator had when its row ran.
			for i, g := range tt.labels {
				if want := NativeFrequency(g, tt.l); dx[i] != want {
					t.Errorf("dx[%d] = %v, want %v", i, dx[i], want)
				}
			}
		})
	}
}

func TestDerive_CommunitiesScenario(t *testing.T) {
	for _, order := range []Order{Snapshot, Sequential} {
		t.Run(order.String(), func(t *testing.T) {
			e, err := New(4, 2, 1.0, WithOrder(order))
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			if err := e.SetLabels([]int{0, 1, 0, 1}); err != nil {
				t.Fatalf("SetLabels failed: %v", err)
			}
			dx := e.Derive(dynamo.State{0, 0, math.Pi, math.Pi}, 0)

			want := []float64{math.Pi / 2, math.Pi/2 + 0.5, math.Pi / 2, math.Pi/2 + 0.5}
			for i := range want {
				if math.Abs(dx[i]-want[i]) > 1e-12 {
					t.Errorf("dx[%d] = %.17g, want %.17g", i, dx[i], want[i])
				}
			}
			if got := e.Labels(); !slices.Equal(got, []int{0, 0, 0, 0}) {
				t.Errorf("labels = %v, want [0 0 0 0]", got)
			}
		})
	}
}

func TestDerive_AffinityBufferIsZeroedPerRow(t *testing.T) {
	e, err := New(4, 2, 1)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	x := dynamo.State{0.1, 0.2, 0.3, 0.4}
	first := e.Derive(x, 0)
	labels := e.Labels()

	for rep := 0; rep < 5; rep++ {
		if err := e.SetLabels([]int{0, 0, 0, 0}); err != nil {
			t.Fatal(err)
		}
		again := e.Derive(x, 0)
		if !slices.Equal(first, again) || !slices.Equal(labels, e.Labels()) {
			t.Fatalf("evaluation %d differs: %v %v vs %v %v", rep, again, e.Labels(), first, labels)
		}
	}
}

func TestDerive_ParallelMatchesSerial(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	n, l := 257, 6
	x := make(dynamo.State, n)
	labels := make([]int, n)
	for i := range x {
		x[i] = rng.Float64() * 2 * math.Pi
		labels[i] = rng.Intn(l)
	}

	serial, _ := New(n, l, 2.0)
	parallel, _ := New(n, l, 2.0, WithWorkers(4))
	for _, e := range []*Ensemble{serial, parallel} {
		if err := e.SetLabels(labels); err != nil {
			t.Fatal(err)
		}
	}

	for rep := 0; rep < 3; rep++ {
		a := serial.Derive(x, 0)
		b := parallel.Derive(x, 0)
		if !slices.Equal(a, b) {
			t.Fatalf("derivatives differ on evaluation %d", rep)
		}
		if !slices.Equal(serial.Labels(), parallel.Labels()) {
			t.Fatalf("labels differ on evaluation %d", rep)
		}
	}
}

func TestDerive_SequentialIgnoresWorkers(t *testing.T) {
	e, err := New(100, 3, 1, WithOrder(Sequential), WithWorkers(8))
	if err != nil {
		t.Fatal(err)
	}
	if len(e.affinity) != 1 {
		t.Errorf("sequential order should use one scratch buffer, got %d", len(e.affinity))
	}
}

func TestDerive_NonFinitePhases(t *testing.T) {
	e, err := New(4, 3, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.SetLabels([]int{2, 1, 0, 2}); err != nil {
		t.Fatal(err)
	}
	dx := e.Derive(dynamo.State{0, math.NaN(), math.Inf(1), 1}, 0)
	if dx.IsValid() {
		t.Errorf("expected non-finite derivatives to propagate, got %v", dx)
	}
	for i, g := range e.Labels() {
		if g < 0 || g >= 3 {
			t.Errorf("label %d = %d out of range", i, g)
		}
	}
}

func TestDerive_PanicsOnWrongLength(t *testing.T) {
	e, _ := New(3, 2, 1)
	defer func() {
		if recover() == nil {
			t.Error("expected panic for mismatched state length")
		}
	}()
	e.Derive(dynamo.State{0, 0}, 0)
}

func TestSetLabels_FailsFast(t *testing.T) {
	e, _ := New(3, 2, 1)
	if err := e.SetLabels([]int{0, 2, 1}); !errors.Is(err, dynamo.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
	if err := e.SetLabels([]int{0, -1, 1}); !errors.Is(err, dynamo.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
	if err := e.SetLabels([]int{0, 1}); !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
	if got := e.Labels(); !slices.Equal(got, []int{0, 0, 0}) {
		t.Errorf("rejected labels leaked into ensemble: %v", got)
	}
}

func TestEvaluate(t *testing.T) {
	e, err := New(4, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	pop := oscillator.Population{{Phase: 0, Group: 0}, {Phase: 0, Group: 1}, {Phase: math.Pi, Group: 0}, {Phase: math.Pi, Group: 1}}

	dx, err := e.Evaluate(pop, 0)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if len(dx) != 4 {
		t.Fatalf("expected 4 derivatives, got %d", len(dx))
	}
	for i, o := range pop {
		if o.Group != 0 {
			t.Errorf("pop[%d].Group = %d, want 0", i, o.Group)
		}
	}
	if pop[2].Phase != math.Pi {
		t.Error("Evaluate must not touch phases")
	}
	if e.Evaluations() != 1 {
		t.Errorf("Evaluations() = %d, want 1", e.Evaluations())
	}

	bad := oscillator.Population{{Phase: 0, Group: 0}, {Phase: 0, Group: 5}, {Phase: 0, Group: 0}, {Phase: 0, Group: 0}}
	if _, err := e.Evaluate(bad, 0); !errors.Is(err, dynamo.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
	if bad[1].Group != 5 {
		t.Error("rejected population must be left untouched")
	}
	if _, err := e.Evaluate(pop[:3], 0); !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestGetParams(t *testing.T) {
	e, _ := New(10, 3, 2.5)
	p := e.GetParams()
	if p["N"] != 10 || p["L"] != 3 || p["K"] != 2.5 {
		t.Errorf("GetParams = %v", p)
	}
}

func TestSetStrength(t *testing.T) {
	e, _ := New(2, 1, 1, WithCoupling(AllToAll))
	if err := e.SetStrength(0.5); err != nil {
		t.Fatal(err)
	}
	if e.Strength() != 0.5 {
		t.Errorf("Strength = %v, want 0.5", e.Strength())
	}

	// pure coupling term: K * sin(π/2) for oscillator 0
	dx := e.Derive(dynamo.State{0, math.Pi / 2}, 0)
	if got := dx[0] - NativeFrequency(0, 1); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("coupling term = %v, want 0.5", got)
	}

	if err := e.SetStrength(math.NaN()); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
	if e.Strength() != 0.5 {
		t.Error("rejected strength must not be applied")
	}
}

func BenchmarkDerive(b *testing.B) {
	for _, workers := range []int{1, 4} {
		b.Run(fmt.Sprintf("workers=%d", workers), func(b *testing.B) {
			rng := rand.New(rand.NewSource(1))
			n, l := 512, 10
			e, _ := New(n, l, 2.0, WithWorkers(workers))
			x := make(dynamo.State, n)
			labels := make([]int, n)
			for i := range x {
				x[i] = rng.Float64() * 2 * math.Pi
				labels[i] = rng.Intn(l)
			}
			_ = e.SetLabels(labels)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				e.Derive(x, 0)
			}
		})
	}
}
