package fingers

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ayusman/fingercount/internal/fingers/fingertest"
	"github.com/ayusman/fingercount/internal/geometry"
)

func TestConvexityDefects(t *testing.T) {
	t.Run("open hand", func(t *testing.T) {
		requireOpenCV(t)

		contour := fingertest.OpenHand()
		hull, err := ConvexHull(contour)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		defects, err := ConvexityDefects(contour, hull)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := [][3]int{{2, 4, 3}, {4, 7, 6}, {7, 10, 9}, {10, 13, 11}, {13, 16, 14}, {16, 18, 17}}
		if len(defects) != len(want) {
			t.Fatalf("got %d defects, want %d: %+v", len(defects), len(want), defects)
		}
		for i, d := range defects {
			if got := [3]int{d.Start, d.End, d.Farthest}; got != want[i] {
				t.Errorf("defect %d = %v, want %v", i, got, want[i])
			}
			if d.Depth <= 0 {
				t.Errorf("defect %d depth = %f, want > 0", i, d.Depth)
			}
		}
	})

	t.Run("concavity across the contour start", func(t *testing.T) {
		requireOpenCV(t)

		// The notch sits between the last hull vertex and the first one.
		contour := geometry.Contour{{10, 0}, {10, 10}, {0, 10}, {0, 0}, {5, 3}}
		defects, err := ConvexityDefects(contour, []int{0, 1, 2, 3})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(defects) != 1 {
			t.Fatalf("got %d defects, want 1: %+v", len(defects), defects)
		}
		d := defects[0]
		if d.Start != 3 || d.End != 0 || d.Farthest != 4 || d.Depth != 3 {
			t.Errorf("defect = %+v, want start 3 end 0 farthest 4 depth 3", d)
		}
	})

	t.Run("convex polygon has no defects", func(t *testing.T) {
		requireOpenCV(t)

		contour := fingertest.Circle(0, 0, 100, 12)
		hull, err := ConvexHull(contour)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defects, err := ConvexityDefects(contour, hull)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(defects) != 0 {
			t.Errorf("expected no defects, got %+v", defects)
		}
	})

	t.Run("insufficient hull", func(t *testing.T) {
		_, err := ConvexityDefects(fingertest.OpenHand(), []int{0, 4})
		if !errors.Is(err, ErrInsufficientHull) {
			t.Errorf("expected ErrInsufficientHull, got %v", err)
		}
	})

	t.Run("hull index outside contour", func(t *testing.T) {
		_, err := ConvexityDefects(geometry.Contour{{0, 0}, {1, 0}, {0, 1}}, []int{0, 1, 5})
		if !errors.Is(err, geometry.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("hull out of contour order", func(t *testing.T) {
		_, err := ConvexityDefects(fingertest.OpenHand(), []int{0, 4, 2, 7})
		if !errors.Is(err, geometry.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestBuildVertices_OpenHand(t *testing.T) {
	requireOpenCV(t)

	contour := fingertest.OpenHand()
	hull, err := ConvexHull(contour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	vertices, defects, err := BuildVertices(contour, hull)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(defects) != 6 {
		t.Errorf("got %d defects, want 6", len(defects))
	}

	want := [][3]int{{4, 3, 6}, {7, 6, 9}, {10, 9, 11}, {13, 11, 14}, {16, 14, 17}}
	if len(vertices) != len(want) {
		t.Fatalf("got %d vertices, want %d", len(vertices), len(want))
	}
	for i, v := range vertices {
		if got := [3]int{v.TipIndex, v.Valley1Index, v.Valley2Index}; got != want[i] {
			t.Errorf("vertex %d indices = %v, want %v", i, got, want[i])
		}
		if v.Tip != contour[v.TipIndex] || v.Valley1 != contour[v.Valley1Index] || v.Valley2 != contour[v.Valley2Index] {
			t.Errorf("vertex %d points do not match their contour indices", i)
		}
	}
}

func TestVerticesFromDefects(t *testing.T) {
	contour := geometry.Contour{
		{0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0}, {5, 0}, {6, 0}, {7, 0}, {8, 0},
	}
	hull := []int{0, 3, 6}

	t.Run("surplus neighbours beyond two are ignored", func(t *testing.T) {
		defects := []Defect{
			{Start: 0, End: 3, Farthest: 1},
			{Start: 3, End: 6, Farthest: 4},
			{Start: 6, End: 0, Farthest: 7},
			{Start: 0, End: 6, Farthest: 8},
		}

		vertices := verticesFromDefects(contour, hull, defects)
		if len(vertices) != 3 {
			t.Fatalf("got %d vertices, want 3", len(vertices))
		}

		first := vertices[0]
		if first.TipIndex != 0 || first.Valley1Index != 1 || first.Valley2Index != 7 {
			t.Errorf("vertex for hull point 0 = %+v, want valleys 1 and 7", first)
		}
		last := vertices[2]
		if last.TipIndex != 6 || last.Valley1Index != 4 || last.Valley2Index != 7 {
			t.Errorf("vertex for hull point 6 = %+v, want valleys 4 and 7", last)
		}
	})

	t.Run("single neighbour produces no candidate", func(t *testing.T) {
		defects := []Defect{{Start: 0, End: 3, Farthest: 1}}
		if vertices := verticesFromDefects(contour, hull, defects); len(vertices) != 0 {
			t.Errorf("expected no vertices, got %+v", vertices)
		}
	})

	t.Run("repeated farthest point counts once", func(t *testing.T) {
		defects := []Defect{
			{Start: 0, End: 3, Farthest: 2},
			{Start: 6, End: 0, Farthest: 2},
		}
		vertices := verticesFromDefects(contour, hull, defects)
		for _, v := range vertices {
			if v.TipIndex == 0 {
				t.Errorf("hull point 0 has a single distinct neighbour, got %+v", v)
			}
		}
	})

	t.Run("output follows hull order", func(t *testing.T) {
		defects := []Defect{
			{Start: 3, End: 6, Farthest: 4},
			{Start: 0, End: 3, Farthest: 1},
			{Start: 6, End: 0, Farthest: 7},
		}
		vertices := verticesFromDefects(contour, hull, defects)
		var tips []int
		for _, v := range vertices {
			tips = append(tips, v.TipIndex)
		}
		if !reflect.DeepEqual(tips, []int{0, 3, 6}) {
			t.Errorf("tips = %v, want [0 3 6]", tips)
		}
		// Hull point 3 sees defect (3,6) before (0,3).
		if vertices[1].Valley1Index != 4 || vertices[1].Valley2Index != 1 {
			t.Errorf("vertex for hull point 3 = %+v, want valleys 4 then 1", vertices[1])
		}
	})
}
