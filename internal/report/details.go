package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/cphysics/internal/entity"
)

// Line is one labelled row of an entity dump.
type Line struct {
	Label string
	Value string
}

func vec(v mgl64.Vec3) string {
	return fmt.Sprintf("x: %f, y: %f, z: %f", v[0], v[1], v[2])
}

// Lines lists every field of e in dump order.
func Lines(e *entity.Entity) []Line {
	pos, vel, acc, _ := e.State()
	q := e.Orientation
	return []Line{
		{"Name", e.Name},
		{"Mass", fmt.Sprintf("%f", e.Mass)},
		{"Charge", fmt.Sprintf("%f", e.Charge)},
		{"Position", vec(pos)},
		{"Velocity", vec(vel)},
		{"Acceleration", vec(acc)},
		{"Quaternion", fmt.Sprintf("w: %f, x: %f, y: %f, z: %f", q.W, q.V[0], q.V[1], q.V[2])},
		{"Angular Velocity", vec(e.AngularVelocity)},
		{"Angular Acceleration", vec(e.AngularAcceleration)},
		{"Moment of Inertia", fmt.Sprintf("%f", e.MomentOfInertia)},
		{"Coefficient of Restitution", fmt.Sprintf("%f", e.Restitution)},
		{"Rigid Body", fmt.Sprintf("%t", e.RigidBody)},
		{"Is Static", fmt.Sprintf("%t", e.Static)},
	}
}

// WriteDetails writes a plain-text dump of e to w.
func WriteDetails(w io.Writer, e *entity.Entity) error {
	if e == nil {
		_, err := fmt.Fprintln(w, "=== Entity Details ===\n<nil>\n======================")
		return err
	}
	var b strings.Builder
	b.WriteString("=== Entity Details ===\n")
	for _, l := range Lines(e) {
		fmt.Fprintf(&b, "%s: %s\n", l.Label, l.Value)
	}
	b.WriteString("======================\n")
	_, err := io.WriteString(w, b.String())
	return err
}

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ffff"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899")).
			Width(28)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff"))

	staticBadge  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))
	dynamicBadge = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
)

// Styled renders e as a bordered panel for terminal output.
func Styled(e *entity.Entity) string {
	if e == nil {
		return panelStyle.Render(titleStyle.Render("<nil entity>"))
	}

	badge := dynamicBadge.Render("dynamic")
	if e.Static {
		badge = staticBadge.Render("static")
	}

	rows := []string{titleStyle.Render(e.Name) + "  " + badge}
	for _, l := range Lines(e)[1:] {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(l.Label), valueStyle.Render(l.Value)))
	}
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
