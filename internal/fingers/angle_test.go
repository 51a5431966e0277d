package fingers

import (
	"errors"
	"math"
	"testing"

	"github.com/ayusman/fingercount/internal/geometry"
)

// vertexWithAngle places the tip at the origin and both valleys 100 units away,
// separated by the given angle.
func vertexWithAngle(degrees float64) Vertex {
	rad := degrees * math.Pi / 180
	return Vertex{
		Tip:     geometry.Point{X: 0, Y: 0},
		Valley1: geometry.Point{X: 100, Y: 0},
		Valley2: geometry.Point{X: 100 * math.Cos(rad), Y: 100 * math.Sin(rad)},
	}
}

func TestAngleFilter_Accept(t *testing.T) {
	f := NewAngleFilter(DefaultAngleThresholdDegrees)

	equilateral := Vertex{
		Tip:     geometry.Point{X: 0, Y: 0},
		Valley1: geometry.Point{X: 10, Y: 0},
		Valley2: geometry.Point{X: 5, Y: 5 * math.Sqrt(3)},
	}

	tests := []struct {
		name string
		v    Vertex
		want bool
	}{
		{name: "10 degrees is kept", v: vertexWithAngle(10), want: true},
		{name: "59 degrees is kept", v: vertexWithAngle(59), want: true},
		{name: "exactly 60 degrees is rejected", v: equilateral, want: false},
		{name: "61 degrees is rejected", v: vertexWithAngle(61), want: false},
		{name: "120 degrees is rejected", v: vertexWithAngle(120), want: false},
		{name: "straight line is rejected", v: vertexWithAngle(180), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.Accept(tt.v)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				cos, _ := TipCosine(tt.v)
				t.Errorf("Accept() = %v, want %v (cos = %.17f)", got, tt.want, cos)
			}
		})
	}
}

func TestAngleFilter_CustomThreshold(t *testing.T) {
	f := NewAngleFilter(90)
	if f.ThresholdDegrees() != 90 {
		t.Errorf("ThresholdDegrees() = %f, want 90", f.ThresholdDegrees())
	}

	if ok, _ := f.Accept(vertexWithAngle(75)); !ok {
		t.Error("75 degrees should pass a 90 degree threshold")
	}
	if ok, _ := f.Accept(vertexWithAngle(120)); ok {
		t.Error("120 degrees should not pass a 90 degree threshold")
	}
}

func TestTipCosine_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		v    Vertex
	}{
		{
			name: "tip on first valley",
			v:    Vertex{Tip: geometry.Point{X: 1, Y: 1}, Valley1: geometry.Point{X: 1, Y: 1}, Valley2: geometry.Point{X: 5, Y: 5}},
		},
		{
			name: "tip on second valley",
			v:    Vertex{Tip: geometry.Point{X: 1, Y: 1}, Valley1: geometry.Point{X: 5, Y: 5}, Valley2: geometry.Point{X: 1, Y: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := TipCosine(tt.v); !errors.Is(err, ErrDegenerateTriangle) {
				t.Errorf("expected ErrDegenerateTriangle, got %v", err)
			}
		})
	}
}

func TestAngleFilter_Filter(t *testing.T) {
	f := NewAngleFilter(DefaultAngleThresholdDegrees)
	degenerate := Vertex{Tip: geometry.Point{X: 2, Y: 2}, Valley1: geometry.Point{X: 2, Y: 2}, Valley2: geometry.Point{X: 9, Y: 9}}

	candidates := []Vertex{
		vertexWithAngle(20),
		degenerate,
		vertexWithAngle(150),
		vertexWithAngle(30),
	}

	valid, dropped := f.Filter(candidates)
	if dropped != 1 {
		t.Errorf("dropped = %d, want 1", dropped)
	}
	if len(valid) != 2 {
		t.Fatalf("got %d valid vertices, want 2", len(valid))
	}
	if valid[0] != candidates[0] || valid[1] != candidates[3] {
		t.Error("valid vertices should keep their input order")
	}

	if valid, dropped := f.Filter(nil); len(valid) != 0 || dropped != 0 {
		t.Errorf("Filter(nil) = %v, %d", valid, dropped)
	}
}
