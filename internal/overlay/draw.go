package overlay

import (
	"image"

	"gocv.io/x/gocv"

	"github.com/ayusman/fingercount/internal/fingers"
	"github.com/ayusman/fingercount/internal/geometry"
)

// Render returns a copy of frame annotated for result. When the mask layer is on,
// the binary mask is drawn instead of the camera image. The caller must close the
// returned Mat.
func Render(frame gocv.Mat, mask gocv.Mat, contour geometry.Contour, result fingers.FrameResult, sel Selection) gocv.Mat {
	out := gocv.NewMat()
	if sel.Has(LayerMask) && !mask.Empty() {
		gocv.CvtColor(mask, &out, gocv.ColorGrayToBGR)
	} else {
		frame.CopyTo(&out)
	}

	for _, s := range Plan(contour, result, sel) {
		draw(&out, s)
	}

	return out
}

func draw(img *gocv.Mat, s Shape) {
	switch s.Kind {
	case ShapePolygon:
		pv := gocv.NewPointsVectorFromPoints([][]image.Point{s.Points})
		gocv.DrawContours(img, pv, -1, s.Color, 1)
		pv.Close()
	case ShapeCircle:
		gocv.Circle(img, s.Points[0], s.Radius, s.Color, 2)
	case ShapeLine:
		gocv.Line(img, s.Points[0], s.Points[1], s.Color, 1)
	case ShapeEllipse:
		gocv.Ellipse(img, s.Points[0], image.Point{X: s.Radius, Y: s.Radius}, 0, 0, 360, s.Color, 1)
	case ShapeRect:
		gocv.Rectangle(img, image.Rectangle{Min: s.Points[0], Max: s.Points[1]}, s.Color, 1)
	case ShapeText:
		gocv.PutText(img, s.Text, s.Points[0], gocv.FontItalic, 2, s.Color, 2)
	}
}
