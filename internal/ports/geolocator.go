package ports

import (
	"context"
	"errors"

	"route-map-service/internal/domain"
)

// ErrLocationUnavailable reports that the current position could not be
// determined (capability unsupported, denied, or the lookup errored).
var ErrLocationUnavailable = errors.New("location unavailable")

// Contract for a single-shot device position query.
type Geolocator interface {
	// Return the caller's current coordinate.
	// clientAddr is the remote address of the requesting client.
	CurrentLocation(ctx context.Context, clientAddr string) (domain.Coordinate, error)
}
