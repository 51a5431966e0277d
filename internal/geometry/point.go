// Package geometry provides the 2-D point primitives used by the finger counter.
package geometry

import (
	"errors"
	"image"
	"math"
)

// ErrInvalidInput is returned when a primitive receives input it cannot work with,
// such as the centroid of an empty point set.
var ErrInvalidInput = errors.New("invalid input")

// Point is a 2-D point in contour coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Contour is an ordered, closed sequence of boundary points.
type Contour []Point

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Centroid returns the arithmetic mean of the given points.
func Centroid(points []Point) (Point, error) {
	if len(points) == 0 {
		return Point{}, ErrInvalidInput
	}

	var sum Point
	for _, p := range points {
		sum.X += p.X
		sum.Y += p.Y
	}

	n := float64(len(points))
	return Point{X: sum.X / n, Y: sum.Y / n}, nil
}

// Cross returns the z component of (a-o) x (b-o). It is positive when o, a, b
// turn counter-clockwise and zero when they are collinear.
func Cross(o, a, b Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// ImagePoint rounds p to the nearest pixel.
func (p Point) ImagePoint() image.Point {
	return image.Point{X: int(math.Round(p.X)), Y: int(math.Round(p.Y))}
}

// FromImagePoints converts pixel coordinates into a Contour.
func FromImagePoints(pts []image.Point) Contour {
	c := make(Contour, len(pts))
	for i, p := range pts {
		c[i] = Point{X: float64(p.X), Y: float64(p.Y)}
	}
	return c
}

// ImagePoints converts the contour back to pixel coordinates for drawing.
func (c Contour) ImagePoints() []image.Point {
	pts := make([]image.Point, len(c))
	for i, p := range c {
		pts[i] = p.ImagePoint()
	}
	return pts
}
