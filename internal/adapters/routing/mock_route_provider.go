package routing

import (
	"context"
	"sync"

	"route-map-service/internal/domain"
)

// MockRouteProvider returns a scripted result for tests.
type MockRouteProvider struct {
	mu     sync.Mutex
	Result *domain.RouteResult
	Err    error
	Calls  int

	// Optional gate: when non-nil, FetchRoute blocks until it is closed,
	// letting tests hold a computation in flight.
	Release chan struct{}
}

func (p *MockRouteProvider) FetchRoute(
	ctx context.Context,
	start, end domain.Coordinate,
) (*domain.RouteResult, error) {
	p.mu.Lock()
	p.Calls++
	release := p.Release
	result, err := p.Result, p.Err
	p.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return result, err
}

// CallCount returns how many times FetchRoute was invoked.
func (p *MockRouteProvider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Calls
}
