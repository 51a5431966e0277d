// Package fingers counts extended fingers from the contour of a segmented hand.
//
// The counter works on a single frame at a time:
//  1. take the convex hull of the contour
//  2. merge hull points closer than ClusterRadius into one representative vertex
//  3. find the convexity defects between consecutive rough hull vertices
//  4. pair each hull vertex with the two defects flanking it (tip + two valleys)
//  5. keep the vertices whose tip angle is narrower than AngleThresholdDegrees
//
// Nothing is carried between frames.
package fingers

import "fmt"

// Default tunables.
const (
	// DefaultClusterRadius is the distance, in contour units, under which two hull
	// points are treated as the same vertex.
	DefaultClusterRadius = 20.0
	// DefaultAngleThresholdDegrees is the widest tip angle still counted as a finger.
	DefaultAngleThresholdDegrees = 60.0
)

// Config holds the tunable parameters of the counter.
type Config struct {
	// ClusterRadius is the merge distance for near-duplicate hull points.
	ClusterRadius float64 `json:"cluster_radius"`

	// AngleThresholdDegrees is the exclusive upper bound on a fingertip angle.
	AngleThresholdDegrees float64 `json:"angle_threshold_degrees"`
}

// DefaultConfig returns a Config with the default tunables.
func DefaultConfig() Config {
	return Config{
		ClusterRadius:         DefaultClusterRadius,
		AngleThresholdDegrees: DefaultAngleThresholdDegrees,
	}
}

// Validate checks that the tunables are usable.
func (c Config) Validate() error {
	if c.ClusterRadius <= 0 {
		return fmt.Errorf("%w: cluster radius must be positive, got %g", ErrInvalidConfig, c.ClusterRadius)
	}
	if c.AngleThresholdDegrees <= 0 || c.AngleThresholdDegrees >= 180 {
		return fmt.Errorf("%w: angle threshold must be in (0, 180), got %g", ErrInvalidConfig, c.AngleThresholdDegrees)
	}
	return nil
}
