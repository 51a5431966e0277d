// Package segment turns camera frames into a binary hand mask and the contour
// outlining it.
package segment

import (
	"errors"
	"image"

	"gocv.io/x/gocv"

	"github.com/ayusman/fingercount/internal/geometry"
)

// ErrNoContour is returned when a mask contains no shape at all.
var ErrNoContour = errors.New("no contour in mask")

// ErrEmptyFrame is returned when asked to segment an empty image.
var ErrEmptyFrame = errors.New("empty frame")

// Result is the output of segmenting one frame.
type Result struct {
	// Mask is the single-channel binary silhouette. It is owned by the Result.
	Mask gocv.Mat
	// Contour outlines the largest shape in Mask.
	Contour geometry.Contour
}

// Close releases the mask.
func (r *Result) Close() error {
	if r == nil {
		return nil
	}
	return r.Mask.Close()
}

// Segmenter extracts the hand silhouette from a frame.
type Segmenter interface {
	// Segment returns the mask and contour for frame. The caller must Close the
	// Result. ErrNoContour is returned, along with the mask, when nothing stands
	// out from the background.
	Segment(frame gocv.Mat) (*Result, error)

	// Close releases any resources held by the segmenter.
	Close() error
}

// LargestContour returns the contour with the most points, the first one on ties.
func LargestContour(contours [][]image.Point) ([]image.Point, bool) {
	best := -1
	for i, c := range contours {
		if best < 0 || len(c) > len(contours[best]) {
			best = i
		}
	}
	if best < 0 || len(contours[best]) == 0 {
		return nil, false
	}
	return contours[best], true
}
