package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"route-map-service/internal/domain"
)

// SQLite backed cache for route responses keyed by endpoint pair.
type SqliteRouteCache struct {
	DB *sql.DB
}

func NewSqliteRouteCache(db *sql.DB) *SqliteRouteCache {
	return &SqliteRouteCache{DB: db}
}

// InitSqliteSchema creates the route_cache table when missing.
func InitSqliteSchema(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS route_cache (
		start_key TEXT NOT NULL,
		end_key   TEXT NOT NULL,
		path_json TEXT NOT NULL,
		meters    REAL NOT NULL,
		seconds   REAL NOT NULL,
		PRIMARY KEY (start_key, end_key)
	);
	`)
	if err != nil {
		return fmt.Errorf("init route cache schema: %w", err)
	}
	return nil
}

// Fetch a cached route for the endpoint pair.
func (s *SqliteRouteCache) Get(
	ctx context.Context,
	start, end domain.Coordinate,
) (*domain.RouteResult, bool, error) {
	if s.DB == nil {
		return nil, false, errors.New("route cache: db is nil")
	}

	sk, ek := pairKey(start, end)

	q := `
	SELECT path_json, meters, seconds
	FROM route_cache
	WHERE start_key = ? AND end_key = ?;
	`

	var pathJSON string
	var meters, seconds float64
	err := s.DB.QueryRowContext(ctx, q, sk, ek).Scan(&pathJSON, &meters, &seconds)
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
func (s *SqliteRouteCache) Put(
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
	INSERT OR REPLACE INTO route_cache (start_key, end_key, path_json, meters, seconds)
	VALUES (?, ?, ?, ?, ?)
	`, sk, ek, string(pathJSON), route.Meters, route.Seconds)
	if err != nil {
		return fmt.Errorf("insert route cache: %w", err)
	}

	return nil
}
