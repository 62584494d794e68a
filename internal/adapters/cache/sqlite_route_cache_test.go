package cache

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"route-map-service/internal/domain"
)

func newTestCache(t *testing.T) *SqliteRouteCache {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := InitSqliteSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return NewSqliteRouteCache(db)
}

func TestSqliteRouteCacheRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	start := domain.Coordinate{Lat: 32.781, Lng: -96.798}
	end := domain.Coordinate{Lat: 32.790, Lng: -96.810}

	if _, ok, err := c.Get(ctx, start, end); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	route := &domain.RouteResult{
		Path:    []domain.Coordinate{start, {Lat: 32.785, Lng: -96.805}, end},
		Meters:  5000,
		Seconds: 600,
	}
	if err := c.Put(ctx, start, end, route); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := c.Get(ctx, start, end)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if len(got.Path) != 3 || got.Meters != 5000 || got.Seconds != 600 {
		t.Fatalf("got %+v", got)
	}

	// Reversed endpoints are a different key.
	if _, ok, _ := c.Get(ctx, end, start); ok {
		t.Fatal("reversed pair unexpectedly hit")
	}
}

func TestSqliteRouteCacheNearbyCoordinatesShareKey(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	start := domain.Coordinate{Lat: 32.7810000001, Lng: -96.798}
	end := domain.Coordinate{Lat: 32.790, Lng: -96.810}

	route := &domain.RouteResult{Path: []domain.Coordinate{start, end}, Meters: 1, Seconds: 1}
	if err := c.Put(ctx, start, end, route); err != nil {
		t.Fatalf("put: %v", err)
	}

	// Sub-meter jitter rounds to the same key.
	jittered := domain.Coordinate{Lat: 32.7810000002, Lng: -96.798}
	if _, ok, _ := c.Get(ctx, jittered, end); !ok {
		t.Fatal("jittered coordinate missed the cache")
	}
}

func TestSqliteRouteCacheRejectsInvalidRoute(t *testing.T) {
	c := newTestCache(t)

	bad := &domain.RouteResult{Path: []domain.Coordinate{{Lat: 1, Lng: 2}}, Meters: 1, Seconds: 1}
	if err := c.Put(context.Background(), domain.Coordinate{}, domain.Coordinate{Lat: 1}, bad); err == nil {
		t.Fatal("expected an error storing an invalid route")
	}
}
