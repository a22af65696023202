package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/kuramoto/internal/analysis"
	"github.com/san-kum/kuramoto/internal/config"
	"github.com/san-kum/kuramoto/internal/dynamo"
	"github.com/san-kum/kuramoto/internal/ensemble"
	"github.com/san-kum/kuramoto/internal/integrators"
	"github.com/san-kum/kuramoto/internal/observer"
	"github.com/san-kum/kuramoto/internal/oscillator"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// palette colors group labels; labels past its length wrap around.
var palette = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color("86")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("213")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("82")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("141")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("229")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("50")),
}

func groupStyle(g int) lipgloss.Style {
	if g < 0 {
		return dim
	}
	return palette[g%len(palette)]
}

const (
	historyLen = 120
	maxSpeed   = 64
	maxBars    = 12
)

type state int

const (
	stateMenu state = iota
	stateSim
)

type model struct {
	state   state
	cursor  int
	presets []string

	// direct is set when the app was opened on a config, skipping the menu.
	direct bool
	name   string
	cfg    *config.Config

	ens     *ensemble.Ensemble
	integ   dynamo.Integrator
	phases  dynamo.State
	simTime float64
	steps   int // taken since start
	span    int // integrators.Steps over the configured grid
	kStep   float64

	running   bool
	paused    bool
	speed     int
	history   []float64
	lastFrame time.Time
	fps       float64
	err       error

	width  int
	height int
}

// NewInteractiveApp opens on the preset menu.
func NewInteractiveApp() *model {
	return &model{
		state:   stateMenu,
		presets: config.ListPresets(),
		speed:   1,
		width:   80,
		height:  24,
	}
}

// NewLiveApp opens directly on a simulation of cfg. Leaving the simulation
// quits instead of returning to the menu.
func NewLiveApp(cfg *config.Config) *model {
	m := NewInteractiveApp()
	m.direct = true
	m.name = cfg.Name
	if m.name == "" {
		m.name = "custom"
	}
	m.cfg = cfg.Clone()
	m.start()
	m.state = stateSim
	return m
}

func (m model) Init() tea.Cmd {
	if m.state == stateSim {
		return tick()
	}
	return nil
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if m.state != stateSim {
			return m, nil
		}
		if m.running && !m.paused && m.ens != nil {
			now := time.Time(msg)
			if !m.lastFrame.IsZero() {
				if dt := now.Sub(m.lastFrame).Seconds(); dt > 0 {
					m.fps = 1.0 / dt
				}
			}
			m.lastFrame = now
			for i := 0; i < m.speed && !m.paused; i++ {
				m.step()
			}
		}
		if m.running {
			return m, tick()
		}
		return m, nil
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateSim:
		return m.simKey(msg)
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		if len(m.presets) == 0 {
			return m, nil
		}
		m.name = m.presets[m.cursor]
		m.cfg = config.GetPreset(m.name)
		m.start()
		m.state = stateSim
		return m, tea.Batch(tea.ClearScreen, tick())
	}
	return m, nil
}

func (m model) simKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		if m.direct {
			return m, tea.Quit
		}
		m.running = false
		m.state = stateMenu
		m.reset()
		return m, tea.ClearScreen
	case " ", "p":
		m.paused = !m.paused
	case "r":
		m.start()
		return m, tea.ClearScreen
	case "right", "l":
		m.adjustStrength(m.kStep)
	case "left", "h":
		m.adjustStrength(-m.kStep)
	case "+", "=":
		m.speed = min(m.speed*2, maxSpeed)
	case "-", "_":
		m.speed = max(m.speed/2, 1)
	case "0":
		m.speed = 1
	}
	return m, nil
}

func (m *model) adjustStrength(delta float64) {
	if m.ens == nil {
		return
	}
	k := m.ens.Strength() + delta
	// Snap values that should be zero but carry rounding from repeated steps.
	if math.Abs(k) < m.kStep/2 {
		k = 0
	}
	if err := m.ens.SetStrength(k); err != nil {
		m.err = err
	}
}

// start builds the ensemble and initial population from m.cfg. Errors are
// shown in the view instead of ending the program.
func (m *model) start() {
	m.reset()
	m.speed = 1
	m.paused = false

	ens, err := m.cfg.Ensemble()
	if err != nil {
		m.err = err
		return
	}
	integ, err := m.cfg.NewIntegrator()
	if err != nil {
		m.err = err
		return
	}
	pop, err := m.cfg.Population()
	if err != nil {
		m.err = err
		return
	}
	if err := ens.SetLabels(pop.Groups()); err != nil {
		m.err = err
		return
	}

	m.ens = ens
	m.integ = integ
	m.phases = pop.Phases()
	m.simTime = m.cfg.T0
	m.steps = 0
	m.span = integrators.Steps(m.cfg.T0, m.cfg.T1, m.cfg.Dt)
	m.kStep = math.Max(math.Abs(m.cfg.Coupling)*0.1, 0.001)
	m.record()
	m.running = true
}

func (m *model) reset() {
	m.ens = nil
	m.integ = nil
	m.phases = nil
	m.history = nil
	m.simTime = 0
	m.steps = 0
	m.span = 0
	m.lastFrame = time.Time{}
	m.fps = 0
	m.err = nil
}

// step advances one integrator step and pauses at the end of the span. Time
// follows the same grid as a saved run: step i ends at t0 + i*dt.
func (m *model) step() {
	if m.steps >= m.span {
		m.paused = true
		return
	}
	m.phases = m.integ.Step(m.ens, m.phases, m.simTime, m.cfg.Dt)
	m.steps++
	m.simTime = m.cfg.T0 + float64(m.steps)*m.cfg.Dt
	m.record()
}

func (m *model) record() {
	r, _ := analysis.OrderParameter(m.phases)
	m.history = append(m.history, r)
	if len(m.history) > historyLen {
		m.history = m.history[1:]
	}
}

func (m model) population() oscillator.Population {
	pop, err := oscillator.Join(m.phases, m.ens.Labels())
	if err != nil {
		return nil
	}
	return pop
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateSim:
		return m.viewSim()
	}
	return ""
}

func (m model) viewMenu() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("           " + cyan.Render("k u r a m o t o") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n\n")

	for i, name := range m.presets {
		desc := config.PresetDescription(name)
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-14s", name)) + dim.Render(desc) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-14s", name)) + dimmer.Render(desc) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select   enter start   q quit") + "\n")
	return b.String()
}

func (m model) viewSim() string {
	var b strings.Builder

	if m.err != nil {
		b.WriteString("\n   " + red.Render("error: "+m.err.Error()) + "\n\n")
		b.WriteString(dim.Render("   r retry  q back") + "\n")
		return b.String()
	}
	if m.ens == nil {
		return ""
	}

	statusIcon := green.Render("●")
	statusText := green.Render("running")
	if m.paused {
		statusIcon = yellow.Render("○")
		statusText = yellow.Render("paused")
	}
	b.WriteString(fmt.Sprintf("\n   %s %s  %s  %s\n",
		statusIcon, cyan.Render(m.name), statusText,
		dim.Render(fmt.Sprintf("N=%d L=%d %s", m.ens.StateDim(), m.ens.NumGroups(), m.integ.Name()))))

	span := m.cfg.T1 - m.cfg.T0
	progress := 1.0
	if span > 0 {
		progress = math.Min((m.simTime-m.cfg.T0)/span, 1)
	}
	barWidth := 36
	filled := int(progress * float64(barWidth))
	bar := cyan.Render(strings.Repeat("━", filled)) + dimmer.Render(strings.Repeat("─", barWidth-filled))
	timeStr := fmt.Sprintf("t=%.2f/%.0f", m.simTime, m.cfg.T1)
	b.WriteString(fmt.Sprintf("   %s %s  %s  %s\n\n", bar, dim.Render(timeStr),
		dim.Render(fmt.Sprintf("×%d", m.speed)), dim.Render(fmt.Sprintf("%.0ffps", m.fps))))

	pop := m.population()
	rows := max(m.height-20, 9)
	circle := colorCircle(analysis.CircleASCII(pop, rows))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, circle, "   ", m.viewGroups(pop)))
	b.WriteString("\n")

	r, psi := analysis.OrderParameter(m.phases)
	b.WriteString(fmt.Sprintf("   %s %s   %s %s   %s %s\n",
		dim.Render("K"), magenta.Render(fmt.Sprintf("%.4g", m.ens.Strength())),
		dim.Render("r"), white.Render(fmt.Sprintf("%.3f", r)),
		dim.Render("ψ"), white.Render(fmt.Sprintf("%.2f", analysis.Wrap(psi)))))

	graphWidth := max(m.width-14, 30)
	if g := observer.RenderSeries(m.history, graphWidth, 5, ""); g != "" {
		b.WriteString(cyan.Render(g) + "\n")
	}

	b.WriteString("\n" + dim.Render("   space pause  ←→ coupling  ±speed  r reset  q quit") + "\n")
	return b.String()
}

// viewGroups renders one occupancy bar per label, largest groups only when
// there are more labels than rows.
func (m model) viewGroups(pop oscillator.Population) string {
	counts := analysis.GroupCounts(pop.Groups(), m.ens.NumGroups())
	peak := 0
	for _, c := range counts {
		peak = max(peak, c)
	}

	var b strings.Builder
	b.WriteString(dim.Render(fmt.Sprintf("groups  %d/%d occupied", analysis.Occupied(counts), len(counts))) + "\n")
	shown := 0
	for g, c := range counts {
		if shown == maxBars {
			b.WriteString(dimmer.Render("…") + "\n")
			break
		}
		if c == 0 && len(counts) > maxBars {
			continue
		}
		n := 0
		if peak > 0 {
			n = c * 20 / peak
		}
		style := groupStyle(g)
		b.WriteString(fmt.Sprintf("%s %s%s %s\n",
			style.Render(string(analysis.GroupGlyph(g))),
			style.Render(strings.Repeat("█", n)),
			dimmer.Render(strings.Repeat("─", 20-n)),
			dim.Render(fmt.Sprintf("%d", c))))
		shown++
	}
	return b.String()
}

// colorCircle colors a CircleASCII plot: group glyphs by label, the circle
// dim and the mean-field marks yellow.
func colorCircle(plot string) string {
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(plot, "\n"), "\n") {
		b.WriteString("   ")
		for _, ch := range line {
			switch {
			case ch == ' ':
				b.WriteRune(ch)
			case ch == '·':
				b.WriteString(dimmer.Render(string(ch)))
			case ch == '+':
				b.WriteString(yellow.Render(string(ch)))
			default:
				b.WriteString(groupStyle(analysis.GlyphGroup(ch)).Render(string(ch)))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RunInteractive starts the preset browser.
func RunInteractive() error {
	p := tea.NewProgram(NewInteractiveApp(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// RunLive starts a live view of cfg.
func RunLive(cfg *config.Config) error {
	p := tea.NewProgram(NewLiveApp(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
