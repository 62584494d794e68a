package view

import "route-map-service/internal/domain"

// CameraMode selects which widget primitive applies a plan.
type CameraMode string

const (
	// Fit the camera to a bounding box with padding.
	ModeFitBounds CameraMode = "fit_bounds"
	// Center the camera on a point at a fixed zoom.
	ModeCenter CameraMode = "center"
)

// Zoom and padding constants for the framing ladder.
const (
	routePadding = 40 // px, framing a full route
	pairPadding  = 80 // px, framing just the two endpoints
	pointZoom    = 14 // neighborhood view around a single endpoint
	defaultZoom  = 10 // overview of the default region
)

// CameraPlan describes where the map camera should be for a given state.
// Exactly one of (Bounds, Padding) or (Center, Zoom) is meaningful,
// selected by Mode.
type CameraPlan struct {
	Mode    CameraMode         `json:"mode"`
	Bounds  *domain.Bounds     `json:"bounds,omitempty"`
	Padding int                `json:"padding,omitempty"`
	Center  *domain.Coordinate `json:"center,omitempty"`
	Zoom    int                `json:"zoom,omitempty"`
}

// ComputeCameraPlan derives the camera framing from the current state,
// in priority order: full route, endpoint pair, single endpoint, default
// region. It is a pure function; the caller re-applies the plan whenever
// start, end, or route changes.
func ComputeCameraPlan(start, end *domain.Coordinate, route *domain.RouteResult, defaultCenter domain.Coordinate) CameraPlan {
	if route.Valid() {
		b, _ := domain.BoundsOf(route.Path)
		return CameraPlan{Mode: ModeFitBounds, Bounds: &b, Padding: routePadding}
	}

	if start != nil && end != nil {
		b, _ := domain.BoundsOf([]domain.Coordinate{*start, *end})
		return CameraPlan{Mode: ModeFitBounds, Bounds: &b, Padding: pairPadding}
	}

	if start != nil {
		return CameraPlan{Mode: ModeCenter, Center: start, Zoom: pointZoom}
	}
	if end != nil {
		return CameraPlan{Mode: ModeCenter, Center: end, Zoom: pointZoom}
	}

	c := defaultCenter
	return CameraPlan{Mode: ModeCenter, Center: &c, Zoom: defaultZoom}
}
