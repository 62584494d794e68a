package routing

import (
	"context"
	"log"

	"route-map-service/internal/domain"
	"route-map-service/internal/ports"
)

// CachedProvider decorates a RouteProvider with a persistent cache of
// backend responses. Cache failures never fail a lookup; they are logged
// and the inner provider is consulted as usual. Only valid results are
// cached, so "no route" answers are always re-asked.
type CachedProvider struct {
	Inner ports.RouteProvider
	Cache ports.RouteCache
}

func NewCachedProvider(inner ports.RouteProvider, cache ports.RouteCache) *CachedProvider {
	return &CachedProvider{Inner: inner, Cache: cache}
}

func (p *CachedProvider) FetchRoute(
	ctx context.Context,
	start, end domain.Coordinate,
) (*domain.RouteResult, error) {
	if p.Cache != nil {
		cached, ok, err := p.Cache.Get(ctx, start, end)
		if err != nil {
			log.Printf("route cache read failed: %v", err)
		} else if ok && cached.Valid() {
			return cached, nil
		}
	}

	route, err := p.Inner.FetchRoute(ctx, start, end)
	if err != nil {
		return nil, err
	}

	if p.Cache != nil {
		if err := p.Cache.Put(ctx, start, end, route); err != nil {
			log.Printf("route cache write failed: %v", err)
		}
	}

	return route, nil
}
