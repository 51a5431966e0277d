package fingers

import (
	"math"

	"github.com/ayusman/fingercount/internal/geometry"
)

// AngleFilter keeps candidates whose tip angle is strictly narrower than a threshold.
type AngleFilter struct {
	thresholdDegrees float64
	minCos           float64
}

// NewAngleFilter creates an AngleFilter for the given threshold in degrees.
func NewAngleFilter(thresholdDegrees float64) AngleFilter {
	return AngleFilter{
		thresholdDegrees: thresholdDegrees,
		minCos:           math.Cos(thresholdDegrees * math.Pi / 180),
	}
}

// ThresholdDegrees returns the configured threshold.
func (f AngleFilter) ThresholdDegrees() float64 {
	return f.thresholdDegrees
}

// TipCosine returns the cosine of the angle at v.Tip, by the law of cosines.
func TipCosine(v Vertex) (float64, error) {
	a := geometry.Distance(v.Valley1, v.Valley2)
	b := geometry.Distance(v.Tip, v.Valley1)
	c := geometry.Distance(v.Tip, v.Valley2)
	if b == 0 || c == 0 {
		return 0, ErrDegenerateTriangle
	}
	return (b*b + c*c - a*a) / (2 * b * c), nil
}

// Accept reports whether v is narrow enough to be a finger.
func (f AngleFilter) Accept(v Vertex) (bool, error) {
	cos, err := TipCosine(v)
	if err != nil {
		return false, err
	}
	return cos > f.minCos, nil
}

// Filter returns the accepted candidates, in order, and how many were dropped
// because their triangle was degenerate.
func (f AngleFilter) Filter(candidates []Vertex) ([]Vertex, int) {
	valid := make([]Vertex, 0, len(candidates))
	degenerate := 0
	for _, v := range candidates {
		ok, err := f.Accept(v)
		if err != nil {
			degenerate++
			continue
		}
		if ok {
			valid = append(valid, v)
		}
	}
	return valid, degenerate
}
