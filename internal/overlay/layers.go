// Package overlay draws counting diagnostics on top of camera frames.
package overlay

import "sync"

// Layer identifies one optional piece of the debug overlay.
type Layer int

const (
	// LayerMask replaces the camera image with the binary silhouette.
	LayerMask Layer = iota
	// LayerContour outlines the segmented contour.
	LayerContour
	// LayerRoughHull outlines the clustered convex hull.
	LayerRoughHull
	// LayerCandidates marks every tip/valley triple before angle filtering.
	LayerCandidates
	// LayerValid marks the fingertips that were counted.
	LayerValid

	numLayers = int(LayerValid) + 1
)

// AllLayers lists every layer in menu order.
var AllLayers = []Layer{LayerMask, LayerContour, LayerRoughHull, LayerCandidates, LayerValid}

// String returns the layer's display name.
func (l Layer) String() string {
	switch l {
	case LayerMask:
		return "Binary mask"
	case LayerContour:
		return "Contour"
	case LayerRoughHull:
		return "Rough hull"
	case LayerCandidates:
		return "All vertices"
	case LayerValid:
		return "Valid vertices"
	default:
		return "Unknown"
	}
}

// Selection is an immutable snapshot of which layers are on.
type Selection struct {
	on [numLayers]bool
}

// Has reports whether l is on in the selection.
func (s Selection) Has(l Layer) bool {
	if l < 0 || int(l) >= len(s.on) {
		return false
	}
	return s.on[l]
}

// With returns a copy of s with l switched on or off.
func (s Selection) With(l Layer, on bool) Selection {
	if l >= 0 && int(l) < len(s.on) {
		s.on[l] = on
	}
	return s
}

// Layers holds the user's display toggles. It is safe for concurrent use.
type Layers struct {
	mu  sync.RWMutex
	sel Selection
}

// NewLayers creates Layers with only the counted fingertips shown.
func NewLayers() *Layers {
	return &Layers{sel: Selection{}.With(LayerValid, true)}
}

// Set switches l on or off.
func (ls *Layers) Set(l Layer, on bool) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.sel = ls.sel.With(l, on)
}

// Toggle flips l and returns its new state.
func (ls *Layers) Toggle(l Layer) bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	on := !ls.sel.Has(l)
	ls.sel = ls.sel.With(l, on)
	return on
}

// Enabled reports whether l is on.
func (ls *Layers) Enabled(l Layer) bool {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	return ls.sel.Has(l)
}

// Selection returns a snapshot of the current toggles.
func (ls *Layers) Selection() Selection {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	return ls.sel
}
