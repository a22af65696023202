// Package oscillator defines the ensemble's atomic entity: a phase
// oscillator carrying a discrete group label.
//
// The phase is a continuous quantity and forms a vector space under [Oscillator.Add]
// and [Oscillator.Scale]. The label is not: every arithmetic operation carries
// the left operand's label through unchanged, so a linear combination can
// never produce a fractional or out-of-range group. Integration code works on
// the split representation instead ([Population.Phases] plus
// [Population.Groups]) and rejoins them with [Join].
package oscillator

import (
	"fmt"

	"github.com/san-kum/kuramoto/internal/dynamo"
)

type Oscillator struct {
	Phase float64
	Group int
}

// Add returns o + other. The result keeps o's group.
func (o Oscillator) Add(other Oscillator) Oscillator {
	return Oscillator{Phase: o.Phase + other.Phase, Group: o.Group}
}

// Scale returns a*o. The result keeps o's group.
func (o Oscillator) Scale(a float64) Oscillator {
	return Oscillator{Phase: a * o.Phase, Group: o.Group}
}

func (o *Oscillator) AddAssign(other Oscillator) {
	o.Phase += other.Phase
}

func (o *Oscillator) ScaleAssign(a float64) {
	o.Phase *= a
}

func (o Oscillator) String() string {
	return fmt.Sprintf("(%.4f, g%d)", o.Phase, o.Group)
}

// Population is an ordered, fixed-length ensemble. Index is identity.
type Population []Oscillator

func (p Population) Clone() Population {
	c := make(Population, len(p))
	copy(c, p)
	return c
}

// Phases copies the continuous part into a new state vector.
func (p Population) Phases() dynamo.State {
	x := make(dynamo.State, len(p))
	for i, o := range p {
		x[i] = o.Phase
	}
	return x
}

// Groups copies the labels into a new slice.
func (p Population) Groups() []int {
	g := make([]int, len(p))
	for i, o := range p {
		g[i] = o.Group
	}
	return g
}

// Validate reports the first label outside [0, groups).
func (p Population) Validate(groups int) error {
	for i, o := range p {
		if o.Group < 0 || o.Group >= groups {
			return fmt.Errorf("%w: oscillator %d has group %d, want [0, %d)", dynamo.ErrInvalidState, i, o.Group, groups)
		}
	}
	return nil
}

// AddScaled adds a*dx to every phase in place, leaving labels untouched.
func (p Population) AddScaled(a float64, dx dynamo.State) {
	for i := range p {
		p[i].AddAssign(Oscillator{Phase: dx[i]}.Scale(a))
	}
}

// Join builds a population from a phase vector and a parallel label slice.
func Join(phases dynamo.State, groups []int) (Population, error) {
	if len(phases) != len(groups) {
		return nil, fmt.Errorf("%w: %d phases, %d labels", dynamo.ErrDimensionMismatch, len(phases), len(groups))
	}
	p := make(Population, len(phases))
	for i := range phases {
		p[i] = Oscillator{Phase: phases[i], Group: groups[i]}
	}
	return p, nil
}
