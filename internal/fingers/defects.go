package fingers

import (
	"fmt"
	"sort"

	"gocv.io/x/gocv"

	"github.com/ayusman/fingercount/internal/geometry"
)

// depthScale converts OpenCV's fixed-point defect depth to pixels.
const depthScale = 256

// Defect is a concavity between two consecutive hull vertices.
type Defect struct {
	Start    int     `json:"start"`    // contour index of the first hull vertex
	End      int     `json:"end"`      // contour index of the next hull vertex
	Farthest int     `json:"farthest"` // contour index of the deepest point between them
	Depth    float64 `json:"depth"`    // distance from Farthest to the Start-End chord
}

// Vertex is a fingertip candidate: a hull vertex and the two valley points on
// either side of it. Contour indices travel with the points.
type Vertex struct {
	Tip          geometry.Point `json:"tip"`
	Valley1      geometry.Point `json:"valley1"`
	Valley2      geometry.Point `json:"valley2"`
	TipIndex     int            `json:"tip_index"`
	Valley1Index int            `json:"valley1_index"`
	Valley2Index int            `json:"valley2_index"`
}

// ConvexityDefects finds the deepest contour point between every pair of
// cyclically consecutive hull indices. hull must be in contour order. Pairs with
// no contour point strictly inside the concavity produce no defect. Defects come
// back in hull order, the pair closing the hull last.
func ConvexityDefects(contour geometry.Contour, hull []int) ([]Defect, error) {
	if len(hull) < 3 {
		return nil, ErrInsufficientHull
	}
	position := make(map[int]int, len(hull))
	for i, idx := range hull {
		if idx < 0 || idx >= len(contour) {
			return nil, fmt.Errorf("hull index %d outside contour of %d points: %w", idx, len(contour), geometry.ErrInvalidInput)
		}
		if i > 0 && idx <= hull[i-1] {
			return nil, fmt.Errorf("hull index %d after %d is not ascending: %w", idx, hull[i-1], geometry.ErrInvalidInput)
		}
		position[idx] = i
	}

	points := gocv.NewPointVectorFromPoints(contour.ImagePoints())
	defer points.Close()

	indices := gocv.NewMatWithSize(len(hull), 1, gocv.MatTypeCV32S)
	defer indices.Close()
	for i, idx := range hull {
		indices.SetIntAt(i, 0, int32(idx))
	}

	mat := gocv.NewMat()
	defer mat.Close()
	gocv.ConvexityDefects(points, indices, &mat)

	defects := make([]Defect, 0, mat.Rows())
	for i := 0; i < mat.Rows(); i++ {
		depth := mat.GetIntAt(i, 3)
		if depth <= 0 {
			continue
		}
		defects = append(defects, Defect{
			Start:    int(mat.GetIntAt(i, 0)),
			End:      int(mat.GetIntAt(i, 1)),
			Farthest: int(mat.GetIntAt(i, 2)),
			Depth:    float64(depth) / depthScale,
		})
	}
	sort.Slice(defects, func(i, j int) bool {
		return position[defects[i].Start] < position[defects[j].Start]
	})

	return defects, nil
}

// BuildVertices computes the convexity defects of the rough hull and turns every
// hull vertex flanked by at least two of them into a candidate.
func BuildVertices(contour geometry.Contour, hull []int) ([]Vertex, []Defect, error) {
	defects, err := ConvexityDefects(contour, hull)
	if err != nil {
		return nil, nil, err
	}
	return verticesFromDefects(contour, hull, defects), defects, nil
}

// verticesFromDefects pairs each hull vertex with the farthest points of the
// defects it starts or ends. Only the first two neighbours, in defect order, are
// used; any further ones are ignored.
func verticesFromDefects(contour geometry.Contour, hull []int, defects []Defect) []Vertex {
	neighbors := make(map[int][]int, len(hull))
	add := func(h, farthest int) {
		for _, existing := range neighbors[h] {
			if existing == farthest {
				return
			}
		}
		neighbors[h] = append(neighbors[h], farthest)
	}

	for _, d := range defects {
		add(d.Start, d.Farthest)
		add(d.End, d.Farthest)
	}

	vertices := make([]Vertex, 0, len(hull))
	for _, h := range hull {
		valleys := neighbors[h]
		if len(valleys) < 2 {
			continue
		}
		vertices = append(vertices, Vertex{
			Tip:          contour[h],
			Valley1:      contour[valleys[0]],
			Valley2:      contour[valleys[1]],
			TipIndex:     h,
			Valley1Index: valleys[0],
			Valley2Index: valleys[1],
		})
	}

	return vertices
}
