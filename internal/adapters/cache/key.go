// Package cache persists routing-backend responses so repeated lookups
// for the same endpoint pair skip the external call. Only collaborator
// responses are stored here, never application state.
package cache

import (
	"fmt"

	"route-map-service/internal/domain"
)

// pairKey produces consistent cache keys for an endpoint pair.
// Coordinates are rounded to 5 decimal places (~1m) so jittery repeat
// clicks on the same spot still hit the cache.
func pairKey(start, end domain.Coordinate) (string, string) {
	return coordKey(start), coordKey(end)
}

func coordKey(c domain.Coordinate) string {
	return fmt.Sprintf("%.5f,%.5f", c.Lat, c.Lng)
}
