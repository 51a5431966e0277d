package fingers

import (
	"errors"

	"github.com/ayusman/fingercount/internal/geometry"
)

// Reason explains why a frame produced no candidates.
type Reason string

const (
	ReasonNone               Reason = ""
	ReasonTooFewPoints       Reason = "too few points"
	ReasonDegenerateGeometry Reason = "degenerate geometry"
	ReasonInsufficientHull   Reason = "insufficient hull"
)

// Diagnostics exposes the intermediate stages of an evaluation for debug overlays.
type Diagnostics struct {
	RoughHull  RoughHull `json:"rough_hull"`
	Defects    []Defect  `json:"defects"`
	Candidates []Vertex  `json:"candidates"`
	Degenerate int       `json:"degenerate"`
	Reason     Reason    `json:"reason,omitempty"`
}

// FrameResult is the outcome of evaluating one contour.
type FrameResult struct {
	Vertices    []Vertex    `json:"vertices"`
	Count       int         `json:"count"`
	Diagnostics Diagnostics `json:"diagnostics"`
}

// Empty reports whether no finger was found.
func (r FrameResult) Empty() bool {
	return r.Count == 0
}

// Counter evaluates contours with a fixed Config. It holds no mutable state and is
// safe for concurrent use.
type Counter struct {
	config Config
	angles AngleFilter
}

// NewCounter creates a Counter after validating cfg.
func NewCounter(cfg Config) (*Counter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Counter{
		config: cfg,
		angles: NewAngleFilter(cfg.AngleThresholdDegrees),
	}, nil
}

// Config returns the counter's configuration.
func (c *Counter) Config() Config {
	return c.config
}

// Evaluate counts the extended fingers outlined by contour.
// Frames without a usable hull come back empty with Diagnostics.Reason set.
func (c *Counter) Evaluate(contour geometry.Contour) FrameResult {
	if len(contour) < 3 {
		return emptyResult(Diagnostics{Reason: ReasonTooFewPoints})
	}

	rough, err := ReduceHull(contour, c.config.ClusterRadius)
	if err != nil {
		return emptyResult(Diagnostics{Reason: ReasonDegenerateGeometry})
	}

	candidates, defects, err := BuildVertices(contour, rough.Indices())
	if err != nil {
		reason := ReasonDegenerateGeometry
		if errors.Is(err, ErrInsufficientHull) {
			reason = ReasonInsufficientHull
		}
		return emptyResult(Diagnostics{RoughHull: rough, Reason: reason})
	}

	valid, degenerate := c.angles.Filter(candidates)

	return FrameResult{
		Vertices: valid,
		Count:    len(valid),
		Diagnostics: Diagnostics{
			RoughHull:  rough,
			Defects:    defects,
			Candidates: candidates,
			Degenerate: degenerate,
		},
	}
}

var defaultCounter = &Counter{
	config: DefaultConfig(),
	angles: NewAngleFilter(DefaultAngleThresholdDegrees),
}

// Evaluate counts fingers with the default configuration.
func Evaluate(contour geometry.Contour) FrameResult {
	return defaultCounter.Evaluate(contour)
}

func emptyResult(d Diagnostics) FrameResult {
	return FrameResult{Vertices: []Vertex{}, Diagnostics: d}
}
