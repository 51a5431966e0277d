package segment

import (
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/fingercount/internal/geometry"
)

// MockSegmenter is a test implementation of the Segmenter interface.
// It returns a preset contour for every frame.
type MockSegmenter struct {
	mu      sync.Mutex
	contour geometry.Contour
	err     error
	calls   int
}

// NewMockSegmenter creates a MockSegmenter that returns contour.
func NewMockSegmenter(contour geometry.Contour) *MockSegmenter {
	return &MockSegmenter{contour: contour}
}

// SetContour sets the contour returned by Segment.
func (m *MockSegmenter) SetContour(c geometry.Contour) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contour = c
}

// SetError sets the error returned by Segment.
func (m *MockSegmenter) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many frames have been segmented.
func (m *MockSegmenter) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Segment returns an empty mask the size of frame with the preset contour.
func (m *MockSegmenter) Segment(frame gocv.Mat) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if m.err != nil {
		return nil, m.err
	}

	mask := gocv.NewMatWithSize(frame.Rows(), frame.Cols(), gocv.MatTypeCV8U)
	contour := make(geometry.Contour, len(m.contour))
	copy(contour, m.contour)

	return &Result{Mask: mask, Contour: contour}, nil
}

// Close is a no-op for the mock segmenter.
func (m *MockSegmenter) Close() error {
	return nil
}
