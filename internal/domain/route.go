package domain

// Represents a computed driving route returned by the routing backend.
// A RouteResult is immutable result data: the drawn path plus its
// aggregate distance and duration metrics. The three fields are populated
// together or not at all; a partially populated result is invalid and
// must be discarded by callers.
type RouteResult struct {
	Path    []Coordinate
	Meters  float64
	Seconds float64
}

// Valid reports whether the result satisfies the all-or-nothing contract:
// a drawable path of at least two points and both metrics present.
func (r *RouteResult) Valid() bool {
	return r != nil && len(r.Path) >= 2 && r.Meters >= 0 && r.Seconds >= 0
}
