package ports

import (
	"context"
	"errors"

	"route-map-service/internal/domain"
)

// ErrNoRoute reports that the routing backend answered but found no
// drivable path between the endpoints. This is a normal outcome, distinct
// from a request that could not complete.
var ErrNoRoute = errors.New("no route found")

// Contract for computing a driving route between two coordinates.
type RouteProvider interface {
	// Return the route between start and end.
	// Returns ErrNoRoute when the backend found no path; any other error
	// means the request itself failed (network, timeout, malformed response).
	FetchRoute(ctx context.Context, start, end domain.Coordinate) (*domain.RouteResult, error)
}
