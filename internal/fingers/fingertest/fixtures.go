// Package fingertest provides synthetic hand contours for tests.
package fingertest

import (
	"math"

	"github.com/ayusman/fingercount/internal/geometry"
)

// Fingertip heights, measured from the bottom of the palm, for a right hand
// with every finger up (pinky to thumb).
var openHandTips = []geometry.Point{{X: 20, Y: 230}, {X: 60, Y: 260}, {X: 100, Y: 270}, {X: 140, Y: 260}, {X: 180, Y: 230}}

// Hand builds a contour of a 200x150 palm with a thin spike for every tip.
// Each spike is 16 units wide at the base. Coordinates are in image space
// (y grows downwards) with the palm's bottom-left corner at (220, 400).
func Hand(tips []geometry.Point) geometry.Contour {
	up := []geometry.Point{{X: 0, Y: 0}, {X: 200, Y: 0}, {X: 200, Y: 150}}
	for i := len(tips) - 1; i >= 0; i-- {
		cx, top := tips[i].X, tips[i].Y
		up = append(up,
			geometry.Point{X: cx + 8, Y: 150},
			geometry.Point{X: cx, Y: top},
			geometry.Point{X: cx - 8, Y: 150},
		)
	}
	up = append(up, geometry.Point{X: 0, Y: 150})

	contour := make(geometry.Contour, len(up))
	for i, p := range up {
		contour[i] = geometry.Point{X: p.X + 220, Y: 400 - p.Y}
	}
	return contour
}

// OpenHand returns a hand with five extended fingers.
func OpenHand() geometry.Contour {
	return Hand(openHandTips)
}

// VSign returns a hand with the index and middle fingers extended.
func VSign() geometry.Contour {
	return Hand([]geometry.Point{{X: 80, Y: 260}, {X: 120, Y: 260}})
}

// Fist returns the bare palm rectangle.
func Fist() geometry.Contour {
	return Hand(nil)
}

// Circle returns n points evenly spaced on a circle.
func Circle(cx, cy, radius float64, n int) geometry.Contour {
	return Wavy(cx, cy, radius, 0, 0, n)
}

// Wavy returns n points on a circle whose radius oscillates by amplitude, lobes
// times around the circumference.
func Wavy(cx, cy, radius, amplitude float64, lobes, n int) geometry.Contour {
	contour := make(geometry.Contour, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		r := radius + amplitude*math.Cos(float64(lobes)*theta)
		contour[i] = geometry.Point{X: cx + r*math.Cos(theta), Y: cy + r*math.Sin(theta)}
	}
	return contour
}

// Reverse returns the contour traversed in the opposite direction.
func Reverse(c geometry.Contour) geometry.Contour {
	out := make(geometry.Contour, len(c))
	for i, p := range c {
		out[len(c)-1-i] = p
	}
	return out
}

// Rotate returns the contour starting at offset instead of 0.
func Rotate(c geometry.Contour, offset int) geometry.Contour {
	out := make(geometry.Contour, 0, len(c))
	out = append(out, c[offset:]...)
	return append(out, c[:offset]...)
}
