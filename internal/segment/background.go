package segment

import (
	"image"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/fingercount/internal/geometry"
)

// Config holds the mask generation parameters.
type Config struct {
	// History is the number of frames the background model remembers.
	History int
	// VarThreshold is the MOG2 variance threshold for foreground classification.
	VarThreshold float64
	// BlurSize is the box blur kernel applied to the raw foreground mask.
	BlurSize int
	// Threshold is the binarisation level applied after blurring (0-255).
	Threshold float32
	// Invert flips the mask, for scenes where the hand is darker than a bright background.
	Invert bool
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		History:      500,
		VarThreshold: 16,
		BlurSize:     10,
		Threshold:    200,
		Invert:       false,
	}
}

// BackgroundSegmenter separates the hand from a static background with a MOG2
// background subtractor, smooths the foreground, and thresholds it.
type BackgroundSegmenter struct {
	config Config
	mog2   gocv.BackgroundSubtractorMOG2
	mu     sync.Mutex
}

// NewBackgroundSegmenter creates a BackgroundSegmenter. Zero fields in cfg take
// their default values.
func NewBackgroundSegmenter(cfg Config) *BackgroundSegmenter {
	def := DefaultConfig()
	if cfg.History <= 0 {
		cfg.History = def.History
	}
	if cfg.VarThreshold <= 0 {
		cfg.VarThreshold = def.VarThreshold
	}
	if cfg.BlurSize <= 0 {
		cfg.BlurSize = def.BlurSize
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = def.Threshold
	}

	return &BackgroundSegmenter{
		config: cfg,
		mog2:   gocv.NewBackgroundSubtractorMOG2WithParams(cfg.History, cfg.VarThreshold, false),
	}
}

// Config returns the segmenter's parameters.
func (s *BackgroundSegmenter) Config() Config {
	return s.config
}

// Segment updates the background model with frame and extracts the largest
// foreground contour.
//
// Steps:
// 1. MOG2 background subtraction
// 2. Box blur to remove speckle noise
// 3. Binary threshold (inverted when configured)
// 4. Contour extraction, keeping the contour with the most points
func (s *BackgroundSegmenter) Segment(frame gocv.Mat) (*Result, error) {
	if frame.Empty() {
		return nil, ErrEmptyFrame
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fg := gocv.NewMat()
	defer fg.Close()
	s.mog2.Apply(frame, &fg)

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.Blur(fg, &blurred, image.Point{X: s.config.BlurSize, Y: s.config.BlurSize})

	mask := gocv.NewMat()
	thresholdType := gocv.ThresholdBinary
	if s.config.Invert {
		thresholdType = gocv.ThresholdBinaryInv
	}
	gocv.Threshold(blurred, &mask, s.config.Threshold, 255, thresholdType)

	result := &Result{Mask: mask}

	contours := gocv.FindContours(mask, gocv.RetrievalTree, gocv.ChainApproxTC89L1)
	defer contours.Close()

	all := make([][]image.Point, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		all[i] = contours.At(i).ToPoints()
	}

	largest, ok := LargestContour(all)
	if !ok {
		return result, ErrNoContour
	}

	result.Contour = geometry.FromImagePoints(largest)
	return result, nil
}

// Close releases the background model.
func (s *BackgroundSegmenter) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mog2.Close()
}
