package analysis

import (
	"math"
	"strings"
	"testing"
)

func TestDominantFrequency(t *testing.T) {
	const dt = 0.01
	tests := []struct {
		name string
		freq float64
		n    int
	}{
		{"2 hz power of two", 2, 1024},
		{"0.5 hz odd length", 0.5, 1001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]float64, tt.n)
			for i := range data {
				data[i] = 3 + math.Sin(2*math.Pi*tt.freq*float64(i)*dt)
			}

			got, power := DominantFrequency(data, dt)
			resolution := 1 / (float64(tt.n) * dt)
			if math.Abs(got-tt.freq) > resolution {
				t.Errorf("frequency = %f, want %f ± %f", got, tt.freq, resolution)
			}
			if power <= 0 {
				t.Error("expected positive peak power")
			}
		})
	}
}

func TestDominantFrequency_Degenerate(t *testing.T) {
	if f, p := DominantFrequency([]float64{1}, 0.1); f != 0 || p != 0 {
		t.Errorf("single sample gave %f, %f", f, p)
	}
	if f, _ := DominantFrequency([]float64{2, 2, 2, 2}, 0.1); f != 0 {
		t.Errorf("constant signal gave %f", f)
	}
	if PowerSpectrum(nil) != nil {
		t.Error("empty data should give no spectrum")
	}
}

func TestPhasePortrait(t *testing.T) {
	xs := make([]float64, 200)
	ys := make([]float64, 210)
	for i := range ys {
		th := 2 * math.Pi * float64(i) / 200
		if i < len(xs) {
			xs[i] = math.Cos(th)
		}
		ys[i] = math.Sin(th)
	}

	p := NewPhasePortrait("x", xs, "vx", ys)
	if len(p.Points) != 200 {
		t.Fatalf("expected 200 points, got %d", len(p.Points))
	}

	art := p.ASCII(40, 20)
	lines := strings.Split(strings.TrimRight(art, "\n"), "\n")
	if len(lines) != 21 {
		t.Fatalf("expected 21 lines, got %d", len(lines))
	}
	for _, want := range []string{"•", "│", "─", "vx"} {
		if !strings.Contains(art, want) {
			t.Errorf("portrait missing %q", want)
		}
	}
}

func TestPhasePortrait_Empty(t *testing.T) {
	if got := NewPhasePortrait("x", nil, "y", nil).ASCII(10, 10); got != "" {
		t.Errorf("expected empty plot, got %q", got)
	}
	var p *PhasePortrait
	if p.ASCII(10, 10) != "" {
		t.Error("nil portrait should render empty")
	}
}
