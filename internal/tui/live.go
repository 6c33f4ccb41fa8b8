// Package tui renders a running scene in the terminal with bubbletea.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/cphysics/internal/entity"
	"github.com/san-kum/cphysics/internal/quat"
	"github.com/san-kum/cphysics/internal/report"
	"github.com/san-kum/cphysics/internal/sim"
)

const (
	width           = 60
	height          = 20
	historyCapacity = 600
	trailLength     = 40
	maxSpeed        = 64
)

type TickMsg time.Time

// Builder returns a fresh scene. It is called at start and on every reset.
type Builder func() (*sim.Scene, error)

// Model steps a scene on every frame and draws its XY projection.
type Model struct {
	sim       *sim.Simulator
	build     Builder
	scene     *sim.Scene
	dt        float64
	integrate bool

	t          float64
	tick       int
	speed      int
	running    bool
	collisions int
	loss       float64
	err        error

	canvas        *Canvas
	extent        float64
	trails        map[string][]mgl64.Vec3
	energyHistory []float64
	showDetails   bool
}

func NewModel(s *sim.Simulator, build Builder, cfg sim.Config) (Model, error) {
	m := Model{
		sim:       s,
		build:     build,
		dt:        cfg.Dt,
		integrate: cfg.Integrate,
		speed:     1,
		canvas:    NewCanvas(width, height),
	}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m Model) Init() tea.Cmd {
	return frame()
}

func frame() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.err == nil {
				m.running = !m.running
			}
		case "r":
			if err := m.reset(); err != nil {
				m.err = err
				m.running = false
			}
		case "+", "=":
			m.speed = min(m.speed*2, maxSpeed)
		case "-":
			m.speed = max(m.speed/2, 1)
		case "d":
			m.showDetails = !m.showDetails
		case "n":
			if !m.running && m.err == nil {
				m.step()
			}
		}
	case TickMsg:
		if m.running {
			for i := 0; i < m.speed && m.running; i++ {
				m.step()
			}
		}
		return m, frame()
	}
	return m, nil
}

func (m *Model) reset() error {
	scene, err := m.build()
	if err != nil {
		return err
	}
	m.scene = scene
	m.t, m.tick = 0, 0
	m.collisions, m.loss = 0, 0
	m.err = nil
	m.running = true
	m.trails = make(map[string][]mgl64.Vec3, len(scene.Entities))
	m.energyHistory = m.energyHistory[:0]
	m.extent = fitExtent(scene)
	return nil
}

// fitExtent returns the half-width of the view so every entity starts
// well inside it.
func fitExtent(scene *sim.Scene) float64 {
	extent := 1.0
	for _, e := range scene.Entities {
		p := e.Position()
		extent = math.Max(extent, 1.5*math.Max(math.Abs(p.X()), math.Abs(p.Y())))
	}
	return extent
}

func (m *Model) step() {
	stats := m.sim.Step(m.scene, m.dt, m.integrate)
	m.t += m.dt
	m.tick++
	m.collisions += stats.Collisions
	m.loss += stats.Loss

	ke := 0.0
	for _, e := range m.scene.Entities {
		if err := entity.Validate(e); err != nil {
			m.err = &sim.TickError{Tick: m.tick, Time: m.t, Entity: e.Name, Wrapped: err}
			m.running = false
			return
		}
		ke += entity.KineticEnergy(e)

		trail := append(m.trails[e.Name], *e.Position())
		if len(trail) > trailLength {
			trail = trail[1:]
		}
		m.trails[e.Name] = trail
	}

	m.energyHistory = append(m.energyHistory, ke)
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

// project maps world XY coordinates to canvas dots.
func (m *Model) project(p mgl64.Vec3) (int, int) {
	cw, ch := m.canvas.Dots()
	x := float64(cw)/2 + p.X()/m.extent*float64(cw)/2
	y := float64(ch)/2 - p.Y()/m.extent*float64(ch)/2
	return int(math.Round(x)), int(math.Round(y))
}

func (m *Model) draw() {
	m.canvas.Clear()
	for _, e := range m.scene.Entities {
		for _, p := range m.trails[e.Name] {
			m.canvas.Set(m.project(p))
		}

		x, y := m.project(*e.Position())
		if e.Static {
			m.canvas.Box(x, y, 2)
			continue
		}
		m.canvas.Box(x, y, 1)

		// heading marker shows the body x axis
		hx, hy := m.project(e.Position().Add(quat.Rotate(mgl64.Vec3{1, 0, 0}, e.Orientation).Mul(m.extent / 12)))
		m.canvas.Line(x, y, hx, hy)
	}
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.scene.Name)) + "\n")
	switch {
	case m.err != nil:
		s.WriteString(statusFailed.Render("FAILED") + "\n")
		s.WriteString(valueStyle.Render(report.Describe(m.err)) + "\n\n")
	case m.running:
		s.WriteString(statusRunning.Render(fmt.Sprintf("RUNNING x%d", m.speed)) + "\n\n")
	default:
		s.WriteString(statusPaused.Render("PAUSED") + "\n\n")
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n")
		s.WriteString(Sparkline(m.energyHistory, 30) + "\n\n")
	}

	ke := 0.0
	if n := len(m.energyHistory); n > 0 {
		ke = m.energyHistory[n-1]
	}
	rows := []struct{ label, value string }{
		{"Time", fmt.Sprintf("%.2fs", m.t)},
		{"Tick", fmt.Sprintf("%d", m.tick)},
		{"Entities", fmt.Sprintf("%d", len(m.scene.Entities))},
		{"Energy", fmt.Sprintf("%.4f", ke)},
		{"Loss", fmt.Sprintf("%.4f", m.loss)},
		{"Collisions", fmt.Sprintf("%d", m.collisions)},
	}
	for _, r := range rows {
		s.WriteString(labelStyle.Render(r.label) + valueStyle.Render(r.value) + "\n")
	}

	s.WriteString(helpStyle.Render("SP:Pause N:Step R:Reset Q:Quit\n+/-:Speed D:Details"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))

	if !m.showDetails {
		return mainView
	}
	panels := make([]string, 0, len(m.scene.Entities))
	for _, e := range m.scene.Entities {
		panels = append(panels, report.Styled(e))
	}
	return mainView + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, panels...)
}

// Run starts the live view on the terminal and blocks until the user quits.
func Run(s *sim.Simulator, build Builder, cfg sim.Config) error {
	m, err := NewModel(s, build, cfg)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
