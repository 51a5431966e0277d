package fingers

import (
	"fmt"
	"math"
	"sort"

	"gocv.io/x/gocv"

	"github.com/ayusman/fingercount/internal/cluster"
	"github.com/ayusman/fingercount/internal/geometry"
)

// HullPoint is a hull vertex together with its index in the source contour.
type HullPoint struct {
	Index int            `json:"index"`
	Point geometry.Point `json:"point"`
}

// RoughHull is the convex hull after near-duplicate vertices have been merged,
// in contour order.
type RoughHull []HullPoint

// Indices returns the contour indices of the rough hull vertices.
func (h RoughHull) Indices() []int {
	indices := make([]int, len(h))
	for i, p := range h {
		indices[i] = p.Index
	}
	return indices
}

// Points returns the rough hull vertices.
func (h RoughHull) Points() []geometry.Point {
	points := make([]geometry.Point, len(h))
	for i, p := range h {
		points[i] = p.Point
	}
	return points
}

// ConvexHull returns the indices of the contour points on its convex hull, sorted
// by contour index. Collinear and duplicate points are left out. Coordinates are
// rounded to whole pixels before the hull is computed.
//
// Returns ErrDegenerateGeometry when fewer than 3 hull vertices remain, when every
// hull vertex lies on one line, or when a coordinate is not a finite pixel value.
func ConvexHull(contour geometry.Contour) ([]int, error) {
	if len(contour) < 3 {
		return nil, ErrDegenerateGeometry
	}
	for _, p := range contour {
		if !pixelRange(p.X) || !pixelRange(p.Y) {
			return nil, ErrDegenerateGeometry
		}
	}

	points := gocv.NewPointVectorFromPoints(contour.ImagePoints())
	defer points.Close()

	mat := gocv.NewMat()
	defer mat.Close()
	gocv.ConvexHull(points, &mat, false, false)
	if mat.Empty() || mat.Rows() < 3 {
		return nil, ErrDegenerateGeometry
	}

	hull := make([]int, mat.Rows())
	for i := range hull {
		idx := int(mat.GetIntAt(i, 0))
		if idx < 0 || idx >= len(contour) {
			return nil, fmt.Errorf("hull index %d outside contour of %d points: %w", idx, len(contour), geometry.ErrInvalidInput)
		}
		hull[i] = idx
	}
	sort.Ints(hull)

	if collinear(contour, hull) {
		return nil, ErrDegenerateGeometry
	}
	return hull, nil
}

// pixelRange reports whether v survives rounding to a 32-bit pixel coordinate.
func pixelRange(v float64) bool {
	return !math.IsNaN(v) && math.Abs(v) < math.MaxInt32
}

func collinear(contour geometry.Contour, hull []int) bool {
	a, b := contour[hull[0]], contour[hull[1]]
	for _, idx := range hull[2:] {
		if geometry.Cross(a, b, contour[idx]) != 0 {
			return false
		}
	}
	return true
}

// ReduceHull computes the convex hull of contour and collapses hull points closer
// than radius into a single representative each.
func ReduceHull(contour geometry.Contour, radius float64) (RoughHull, error) {
	hull, err := ConvexHull(contour)
	if err != nil {
		return nil, err
	}

	points := make([]geometry.Point, len(hull))
	for i, idx := range hull {
		points[i] = contour[idx]
	}

	groups := cluster.Partition(points, cluster.WithinRadius(radius))
	positions := make([]int, 0, len(groups))
	for _, group := range groups {
		rep, err := cluster.Representative(points, group)
		if err != nil {
			return nil, err
		}
		positions = append(positions, rep)
	}
	sort.Ints(positions)

	rough := make(RoughHull, len(positions))
	for i, pos := range positions {
		rough[i] = HullPoint{Index: hull[pos], Point: points[pos]}
	}

	return rough, nil
}
