package fingers

import "errors"

var (
	// ErrDegenerateGeometry is returned when no convex hull can be built from a
	// contour: fewer than 3 distinct points, or all of them collinear.
	ErrDegenerateGeometry = errors.New("degenerate geometry")

	// ErrInsufficientHull is returned when the rough hull has fewer than 3 points,
	// which leaves no concavities to measure.
	ErrInsufficientHull = errors.New("insufficient hull")

	// ErrDegenerateTriangle is returned when a candidate's tip coincides with one
	// of its valley points.
	ErrDegenerateTriangle = errors.New("degenerate triangle")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("invalid config")
)
