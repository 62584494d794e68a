// Package session owns the mutable route-picking state for one browser
// session and the policies that keep it consistent: clear-on-edit,
// map-click endpoint assignment, and the single-flight route computation
// guard. All mutation goes through named operations; nothing outside this
// package writes the state.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"route-map-service/internal/domain"
	"route-map-service/internal/ports"
)

// Session holds the application state for one user:
// {start, end, route, loading, warning}.
//
// The route is a derived artifact of the current (start, end) pair and is
// never shown stale: every operation that changes an endpoint clears the
// route and warning first, and a generation counter discards any route
// result that was still in flight when the endpoints changed.
type Session struct {
	mu       sync.Mutex
	id       string
	lastSeen time.Time

	start      *domain.Coordinate
	end        *domain.Coordinate
	startLabel string
	endLabel   string
	route      *domain.RouteResult
	loading    bool
	warning    string

	// Incremented on every endpoint change; a route computed for an older
	// generation is discarded instead of applied.
	gen uint64
}

// Immutable copy of the session state for rendering.
type Snapshot struct {
	Start      *domain.Coordinate
	End        *domain.Coordinate
	StartLabel string
	EndLabel   string
	Route      *domain.RouteResult
	Loading    bool
	Warning    string
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		StartLabel: s.startLabel,
		EndLabel:   s.endLabel,
		Loading:    s.loading,
		Warning:    s.warning,
	}
	if s.start != nil {
		c := *s.start
		snap.Start = &c
	}
	if s.end != nil {
		c := *s.end
		snap.End = &c
	}
	if s.route != nil {
		r := *s.route
		snap.Route = &r
	}
	return snap
}

// clearDerivedLocked drops the route and warning. Every input path calls
// this before applying its own change.
func (s *Session) clearDerivedLocked() {
	s.route = nil
	s.warning = ""
}

// BeginEdit invalidates the displayed route the instant the user starts
// changing an endpoint, before any new selection exists. The endpoints
// themselves are untouched.
func (s *Session) BeginEdit(which domain.Endpoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearDerivedLocked()
}

// SetPlace applies a committed place selection to the given endpoint.
func (s *Session) SetPlace(which domain.Endpoint, sel domain.PlaceSelection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setEndpointLocked(which, sel.Coordinate, sel.Label())
}

// ClickMap assigns a clicked coordinate: start when start is absent, then
// end when end is absent, then it overwrites end. The start point is never
// silently replaced once both are set.
func (s *Session) ClickMap(coord domain.Coordinate) domain.Endpoint {
	s.mu.Lock()
	defer s.mu.Unlock()

	which := domain.EndpointEnd
	if s.start == nil {
		which = domain.EndpointStart
	}
	label := domain.PlaceSelection{Coordinate: coord}.Label()
	s.setEndpointLocked(which, coord, label)
	return which
}

// Clear resets the session to its initial state.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearDerivedLocked()
	s.start, s.end = nil, nil
	s.startLabel, s.endLabel = "", ""
	s.loading = false
	s.gen++
}

func (s *Session) setEndpointLocked(which domain.Endpoint, coord domain.Coordinate, label string) {
	s.clearDerivedLocked()
	if which == domain.EndpointStart {
		s.start = &coord
		s.startLabel = label
	} else {
		s.end = &coord
		s.endLabel = label
	}
	s.gen++
}

// Locate resolves the device's current position and assigns it to the
// requested endpoint. The route and warning are cleared immediately when
// the request starts. On failure the endpoints are left unchanged and the
// error is returned for the caller to surface as a blocking alert.
//
// Concurrent locate calls are deliberately unguarded: each is independent
// and the last one to resolve wins.
func (s *Session) Locate(
	ctx context.Context,
	geo ports.Geolocator,
	clientAddr string,
	which domain.Endpoint,
) error {
	s.mu.Lock()
	s.clearDerivedLocked()
	s.mu.Unlock()

	coord, err := geo.CurrentLocation(ctx, clientAddr)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	label := domain.PlaceSelection{Coordinate: coord}.Label()
	s.setEndpointLocked(which, coord, label)
	return nil
}

// ComputeRoute runs one route computation against the provider.
//
// It is a no-op (returns false) unless both endpoints are set and no
// computation is already in flight. On success it populates the route and
// clears any warning; a "no path" answer or a failed request each clear
// the route and set their distinct warning. A result computed for
// endpoints that changed while the request was in flight is discarded.
func (s *Session) ComputeRoute(ctx context.Context, provider ports.RouteProvider) bool {
	s.mu.Lock()
	if s.loading || s.start == nil || s.end == nil {
		s.mu.Unlock()
		return false
	}
	s.loading = true
	gen := s.gen
	start, end := *s.start, *s.end
	s.mu.Unlock()

	route, err := provider.FetchRoute(ctx, start, end)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	// The endpoints moved on while we were fetching; whatever came back
	// describes a pair that no longer exists.
	if s.gen != gen {
		return true
	}

	switch {
	case errors.Is(err, ports.ErrNoRoute):
		s.clearDerivedLocked()
		s.warning = domain.WarnNoRoute
	case err != nil:
		s.clearDerivedLocked()
		s.warning = domain.WarnRouteFailed
	case !route.Valid():
		// Partially populated results are treated as invalid and discarded.
		s.clearDerivedLocked()
		s.warning = domain.WarnNoRoute
	default:
		s.route = route
		s.warning = ""
	}
	return true
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) expired(now time.Time, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen) > ttl
}
