package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/kuramoto/internal/analysis"
	"github.com/san-kum/kuramoto/internal/oscillator"
)

const (
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// Frames is a sim.Observer that redraws the phase circle in place, at most
// frameRate times per second. It is meant for a plain terminal during
// `kuramoto run --animate`; the bubbletea app covers the interactive case.
type Frames struct {
	out       io.Writer
	name      string
	height    int
	interval  time.Duration
	lastFrame time.Time
	now       func() time.Time
	frames    int
}

func NewFrames(out io.Writer, name string, frameRate, height int) *Frames {
	if frameRate < 1 {
		frameRate = 1
	}
	return &Frames{
		out:      out,
		name:     name,
		height:   max(height, 5),
		interval: time.Second / time.Duration(frameRate),
		now:      time.Now,
	}
}

func (f *Frames) OnStep(pop oscillator.Population, t float64) {
	now := f.now()
	if !f.lastFrame.IsZero() && now.Sub(f.lastFrame) < f.interval {
		return
	}
	f.lastFrame = now
	f.render(pop, t)
}

// Drawn reports how many frames were written.
func (f *Frames) Drawn() int { return f.frames }

func (f *Frames) render(pop oscillator.Population, t float64) {
	r, psi := analysis.OrderParameter(pop.Phases())
	counts := analysis.GroupCounts(pop.Groups(), maxGroup(pop)+1)

	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  t=%.2f  r=%.3f  ψ=%.2f  groups=%d\n",
		f.name, t, r, analysis.Wrap(psi), analysis.Occupied(counts)))
	b.WriteString("  " + strings.Repeat("-", 2*f.height+1) + "\n")
	for _, line := range strings.Split(strings.TrimRight(analysis.CircleASCII(pop, f.height), "\n"), "\n") {
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("  " + strings.Repeat("-", 2*f.height+1) + "\n")

	fmt.Fprint(f.out, b.String())
	f.frames++
}

func (f *Frames) Start() { fmt.Fprint(f.out, hideCursor) }
func (f *Frames) Stop()  { fmt.Fprint(f.out, showCursor) }

func maxGroup(pop oscillator.Population) int {
	m := 0
	for _, o := range pop {
		m = max(m, o.Group)
	}
	return m
}
