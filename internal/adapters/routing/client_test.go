package routing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"route-map-service/internal/domain"
	"route-map-service/internal/ports"
)

var (
	start = domain.Coordinate{Lat: 32.781, Lng: -96.798}
	end   = domain.Coordinate{Lat: 32.790, Lng: -96.810}
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestFetchRouteSuccess(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/route" {
			t.Errorf("path = %q, want /route", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("start_lat") != "32.781" || q.Get("end_lng") != "-96.81" {
			t.Errorf("unexpected query: %v", q)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"polyline": [{"lat": 32.781, "lng": -96.798}, {"lat": 32.790, "lng": -96.810}],
			"meters": 5000,
			"seconds": 600
		}`))
	})

	route, err := c.FetchRoute(context.Background(), start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(route.Path) != 2 {
		t.Fatalf("path length = %d, want 2", len(route.Path))
	}
	if route.Meters != 5000 || route.Seconds != 600 {
		t.Fatalf("metrics = (%v, %v), want (5000, 600)", route.Meters, route.Seconds)
	}
}

func TestFetchRouteNoPathIsErrNoRoute(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"null metrics and empty polyline", `{"polyline": [], "meters": null, "seconds": null, "error": "no_path"}`},
		{"single point polyline", `{"polyline": [{"lat": 1, "lng": 2}], "meters": 10, "seconds": 5}`},
		{"missing seconds", `{"polyline": [{"lat": 1, "lng": 2}, {"lat": 3, "lng": 4}], "meters": 10, "seconds": null}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tc.body))
			})

			route, err := c.FetchRoute(context.Background(), start, end)
			if !errors.Is(err, ports.ErrNoRoute) {
				t.Fatalf("err = %v, want ErrNoRoute", err)
			}
			if route != nil {
				t.Fatalf("route = %+v, want nil", route)
			}
		})
	}
}

func TestFetchRouteBackendErrorIsNotErrNoRoute(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	_, err := c.FetchRoute(context.Background(), start, end)
	if err == nil {
		t.Fatal("expected an error")
	}
	if errors.Is(err, ports.ErrNoRoute) {
		t.Fatal("request failure must stay distinct from ErrNoRoute")
	}
}

func TestFetchRouteMalformedResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"polyline": `))
	})

	_, err := c.FetchRoute(context.Background(), start, end)
	if err == nil {
		t.Fatal("expected an error")
	}
	if errors.Is(err, ports.ErrNoRoute) {
		t.Fatal("malformed response must stay distinct from ErrNoRoute")
	}
}

func TestFetchRouteRetriesTransientFailures(t *testing.T) {
	attempts := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			http.Error(w, "try again", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"polyline": [{"lat": 1, "lng": 2}, {"lat": 3, "lng": 4}], "meters": 100, "seconds": 60}`))
	})

	route, err := c.FetchRoute(context.Background(), start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("attempts = %d, want 2", attempts)
	}
	if route.Meters != 100 {
		t.Fatalf("meters = %v, want 100", route.Meters)
	}
}

func TestCachedProviderSkipsBackendOnHit(t *testing.T) {
	inner := &MockRouteProvider{
		Result: &domain.RouteResult{Path: []domain.Coordinate{start, end}, Meters: 5000, Seconds: 600},
	}
	cache := &memCache{data: map[string]*domain.RouteResult{}}
	p := NewCachedProvider(inner, cache)

	for i := 0; i < 3; i++ {
		route, err := p.FetchRoute(context.Background(), start, end)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !route.Valid() {
			t.Fatalf("invalid route: %+v", route)
		}
	}

	if got := inner.CallCount(); got != 1 {
		t.Fatalf("backend calls = %d, want 1", got)
	}
}

// Minimal in-memory RouteCache for decorator tests.
type memCache struct {
	data map[string]*domain.RouteResult
}

func (m *memCache) key(s, e domain.Coordinate) string {
	return formatDeg(s.Lat) + "," + formatDeg(s.Lng) + "|" + formatDeg(e.Lat) + "," + formatDeg(e.Lng)
}

func (m *memCache) Get(_ context.Context, s, e domain.Coordinate) (*domain.RouteResult, bool, error) {
	r, ok := m.data[m.key(s, e)]
	return r, ok, nil
}

func (m *memCache) Put(_ context.Context, s, e domain.Coordinate, r *domain.RouteResult) error {
	m.data[m.key(s, e)] = r
	return nil
}
