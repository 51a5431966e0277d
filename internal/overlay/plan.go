package overlay

import (
	"image"
	"image/color"
	"strconv"

	"github.com/ayusman/fingercount/internal/fingers"
	"github.com/ayusman/fingercount/internal/geometry"
)

// Colors used by the overlay.
var (
	Blue  = color.RGBA{R: 0, G: 0, B: 255, A: 0}
	Green = color.RGBA{R: 0, G: 255, B: 0, A: 0}
	Red   = color.RGBA{R: 255, G: 0, B: 0, A: 0}
)

// ShapeKind is the primitive a Shape is drawn with.
type ShapeKind int

const (
	ShapePolygon ShapeKind = iota
	ShapeCircle
	ShapeLine
	ShapeEllipse
	ShapeRect
	ShapeText
)

// Shape is one drawing primitive.
type Shape struct {
	Kind   ShapeKind
	Points []image.Point // polygon vertices, line ends, circle/ellipse center, rect corners, text origin
	Radius int          // circle radius or ellipse semi-axis
	Text   string
	Color  color.RGBA
}

// Plan lists the shapes to draw for one evaluated frame. The count box is
// always included.
func Plan(contour geometry.Contour, result fingers.FrameResult, sel Selection) []Shape {
	var shapes []Shape

	if sel.Has(LayerContour) && len(contour) > 0 {
		shapes = append(shapes, Shape{Kind: ShapePolygon, Points: contour.ImagePoints(), Color: Green})
	}

	if sel.Has(LayerRoughHull) && len(result.Diagnostics.RoughHull) > 0 {
		hull := geometry.Contour(result.Diagnostics.RoughHull.Points())
		shapes = append(shapes, Shape{Kind: ShapePolygon, Points: hull.ImagePoints(), Color: Red})
	}

	if sel.Has(LayerCandidates) {
		for _, v := range result.Diagnostics.Candidates {
			shapes = append(shapes,
				Shape{Kind: ShapeCircle, Points: []image.Point{v.Tip.ImagePoint()}, Radius: 5, Color: Blue},
				Shape{Kind: ShapeCircle, Points: []image.Point{v.Valley1.ImagePoint()}, Radius: 5, Color: Green},
				Shape{Kind: ShapeCircle, Points: []image.Point{v.Valley2.ImagePoint()}, Radius: 5, Color: Red},
			)
		}
	}

	if sel.Has(LayerValid) {
		for _, v := range result.Vertices {
			tip := v.Tip.ImagePoint()
			shapes = append(shapes,
				Shape{Kind: ShapeLine, Points: []image.Point{tip, v.Valley1.ImagePoint()}, Color: Red},
				Shape{Kind: ShapeLine, Points: []image.Point{tip, v.Valley2.ImagePoint()}, Color: Red},
				Shape{Kind: ShapeEllipse, Points: []image.Point{tip}, Radius: 10, Color: Red},
			)
		}
	}

	shapes = append(shapes,
		Shape{Kind: ShapeRect, Points: []image.Point{{X: 10, Y: 10}, {X: 70, Y: 70}}, Color: Blue},
		Shape{Kind: ShapeText, Points: []image.Point{{X: 20, Y: 60}}, Text: strconv.Itoa(result.Count), Color: Blue},
	)

	return shapes
}
