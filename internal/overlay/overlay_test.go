package overlay

import (
	"sync"
	"testing"

	"gocv.io/x/gocv"

	"github.com/ayusman/fingercount/internal/fingers"
	"github.com/ayusman/fingercount/internal/fingers/fingertest"
)

func TestLayers_Defaults(t *testing.T) {
	ls := NewLayers()

	for _, l := range AllLayers {
		want := l == LayerValid
		if got := ls.Enabled(l); got != want {
			t.Errorf("Enabled(%s) = %v, want %v", l, got, want)
		}
	}
}

func TestLayers_SetToggle(t *testing.T) {
	ls := NewLayers()

	ls.Set(LayerContour, true)
	if !ls.Enabled(LayerContour) {
		t.Error("contour should be enabled after Set")
	}

	if on := ls.Toggle(LayerContour); on {
		t.Error("Toggle should switch contour off")
	}
	if on := ls.Toggle(LayerMask); !on {
		t.Error("Toggle should switch mask on")
	}

	sel := ls.Selection()
	ls.Set(LayerMask, false)
	if !sel.Has(LayerMask) {
		t.Error("snapshot should not change after later updates")
	}
}

func TestLayers_Concurrent(t *testing.T) {
	ls := NewLayers()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			ls.Toggle(LayerRoughHull)
		}()
		go func() {
			defer wg.Done()
			_ = ls.Selection().Has(LayerRoughHull)
		}()
	}
	wg.Wait()

	// 50 toggles from off leaves it off.
	if ls.Enabled(LayerRoughHull) {
		t.Error("even number of toggles should leave the layer off")
	}
}

func TestSelection_OutOfRange(t *testing.T) {
	var sel Selection
	sel = sel.With(Layer(42), true)
	if sel.Has(Layer(42)) || sel.Has(Layer(-1)) {
		t.Error("unknown layers are never on")
	}
	if Layer(42).String() != "Unknown" {
		t.Errorf("String() = %q", Layer(42).String())
	}
}

func countKinds(shapes []Shape) map[ShapeKind]int {
	counts := make(map[ShapeKind]int)
	for _, s := range shapes {
		counts[s.Kind]++
	}
	return counts
}

func TestPlan(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires OpenCV")
	}

	contour := fingertest.OpenHand()
	result := fingers.Evaluate(contour)

	t.Run("count box only", func(t *testing.T) {
		shapes := Plan(contour, result, Selection{})
		if len(shapes) != 2 {
			t.Fatalf("got %d shapes, want 2", len(shapes))
		}
		text := shapes[1]
		if text.Kind != ShapeText || text.Text != "5" {
			t.Errorf("count text = %+v, want \"5\"", text)
		}
	})

	t.Run("every layer", func(t *testing.T) {
		var sel Selection
		for _, l := range AllLayers {
			sel = sel.With(l, true)
		}

		counts := countKinds(Plan(contour, result, sel))
		if counts[ShapePolygon] != 2 {
			t.Errorf("polygons = %d, want 2 (contour and rough hull)", counts[ShapePolygon])
		}
		if counts[ShapeCircle] != 3*len(result.Diagnostics.Candidates) {
			t.Errorf("circles = %d, want %d", counts[ShapeCircle], 3*len(result.Diagnostics.Candidates))
		}
		if counts[ShapeLine] != 2*result.Count || counts[ShapeEllipse] != result.Count {
			t.Errorf("lines = %d ellipses = %d for %d fingers", counts[ShapeLine], counts[ShapeEllipse], result.Count)
		}
	})

	t.Run("empty frame", func(t *testing.T) {
		sel := Selection{}.With(LayerContour, true).With(LayerRoughHull, true)
		shapes := Plan(nil, fingers.Evaluate(nil), sel)
		if len(shapes) != 2 {
			t.Errorf("got %d shapes, want only the count box", len(shapes))
		}
		if shapes[1].Text != "0" {
			t.Errorf("count text = %q, want \"0\"", shapes[1].Text)
		}
	})
}

func TestRender(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires OpenCV")
	}

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()
	mask := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8U)
	defer mask.Close()

	contour := fingertest.OpenHand()
	result := fingers.Evaluate(contour)

	var sel Selection
	for _, l := range AllLayers {
		sel = sel.With(l, true)
	}

	out := Render(frame, mask, contour, result, sel)
	defer out.Close()

	if out.Rows() != 480 || out.Cols() != 640 || out.Channels() != 3 {
		t.Errorf("rendered %dx%d with %d channels", out.Cols(), out.Rows(), out.Channels())
	}
	channels := gocv.Split(out)
	for _, c := range channels {
		defer c.Close()
	}
	if gocv.CountNonZero(channels[0]) == 0 {
		t.Error("expected the blue count box to be drawn")
	}
}
