package ports

import (
	"context"

	"route-map-service/internal/domain"
)

// Contract for resolving free text into selectable places.
// Implementations must drop any provider result that lacks a resolvable
// coordinate; callers never see a PlaceSelection without geometry.
type PlaceResolver interface {
	// Return up to limit candidate places for the query.
	// An empty slice is a normal outcome (nothing matched).
	Search(ctx context.Context, query string, limit int) ([]domain.PlaceSelection, error)
}
