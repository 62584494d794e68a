package ports

import (
	"context"

	"route-map-service/internal/domain"
)

// Contract for caching backend route responses keyed by endpoint pair.
// Implementations cache collaborator responses only, never application
// state. A cache miss is (nil, false, nil).
type RouteCache interface {
	Get(ctx context.Context, start, end domain.Coordinate) (*domain.RouteResult, bool, error)
	Put(ctx context.Context, start, end domain.Coordinate, route *domain.RouteResult) error
}
