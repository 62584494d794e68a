package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"route-map-service/internal/domain"
	"route-map-service/internal/platform/obs"
)

// SQLRouteCache is a Postgres-backed cache for route responses keyed by
// endpoint pair.
type SQLRouteCache struct {
	DB *sql.DB
}

func NewSQLRouteCache(db *sql.DB) *SQLRouteCache {
	return &SQLRouteCache{DB: db}
}

// InitSQLSchema creates the route_cache table when missing.
func InitSQLSchema(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS route_cache (
		start_key TEXT NOT NULL,
		end_key   TEXT NOT NULL,
		path_json TEXT NOT NULL,
		meters    DOUBLE PRECISION NOT NULL,
		seconds   DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (start_key, end_key)
	);
	`)
	if err != nil {
		return fmt.Errorf("init route cache schema: %w", err)
	}
	return nil
}

// Fetch a cached route for the endpoint pair.
func (s *SQLRouteCache) Get(
	ctx context.Context,
	start, end domain.Coordinate,
) (_ *domain.RouteResult, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("route cache: db is nil")
	}

	sk, ek := pairKey(start, end)

	q := `
	SELECT path_json, meters, seconds
	FROM route_cache
	WHERE start_key = $1 AND end_key = $2;
	`

	var pathJSON string
	var meters, seconds float64
	err = s.DB.QueryRowContext(ctx, q, sk, ek).Scan(&pathJSON, &meters, &seconds)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	var path []domain.Coordinate
	if err := json.Unmarshal([]byte(pathJSON), &path); err != nil {
		return nil, false, fmt.Errorf("get route cache: decode path: %w", err)
	}

	return &domain.RouteResult{Path: path, Meters: meters, Seconds: seconds}, true, nil
}

// Store a route response for the endpoint pair.
func (s *SQLRouteCache) Put(
	ctx context.Context,
	start, end domain.Coordinate,
	route *domain.RouteResult,
) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}
	if !route.Valid() {
		return errors.New("insert route cache: refusing to store invalid route")
	}

	pathJSON, err := json.Marshal(route.Path)
	if err != nil {
		return fmt.Errorf("insert route cache: encode path: %w", err)
	}

	sk, ek := pairKey(start, end)

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO route_cache (start_key, end_key, path_json, meters, seconds)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (start_key, end_key) DO UPDATE
	SET path_json = EXCLUDED.path_json,
		meters = EXCLUDED.meters,
		seconds = EXCLUDED.seconds;
	`, sk, ek, string(pathJSON), route.Meters, route.Seconds)
	if err != nil {
		return fmt.Errorf("insert route cache: %w", err)
	}

	return nil
}
