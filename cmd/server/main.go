package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"route-map-service/internal/adapters/cache"
	"route-map-service/internal/adapters/geoip"
	"route-map-service/internal/adapters/places"
	"route-map-service/internal/adapters/routing"
	"route-map-service/internal/api"
	"route-map-service/internal/config"
	"route-map-service/internal/domain"
	"route-map-service/internal/platform/db"
	"route-map-service/internal/ports"
	"route-map-service/internal/session"
)

// main is the application composition root.
// It wires concrete adapters (routing backend, geocoder, geolocator,
// optional route cache) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := config.Get("PORT", "8080")
	corsOrigin := config.Get("CORS_ORIGIN", "")
	defaultCenter := domain.Coordinate{
		Lat: config.GetFloat("DEFAULT_LAT", 32.7767),
		Lng: config.GetFloat("DEFAULT_LNG", -96.7970),
	}

	routingBase := os.Getenv("ROUTING_BASE_URL")
	if strings.TrimSpace(routingBase) == "" {
		log.Fatal("ROUTING_BASE_URL is required")
	}

	client, err := routing.NewClient(routingBase)
	if err != nil {
		log.Fatal(err)
	}

	provider, closeDB, err := wireProvider(client)
	if err != nil {
		log.Fatal(err)
	}
	defer closeDB()

	// Place search is optional: without a credential the page still works
	// via map clicks and device location.
	var resolver ports.PlaceResolver
	if key := os.Getenv("MAPS_API_KEY"); strings.TrimSpace(key) != "" {
		geocoder, err := places.NewGoogleGeocoder(key)
		if err != nil {
			log.Fatal(err)
		}
		resolver = geocoder
	} else {
		log.Println("MAPS_API_KEY not set; place search disabled")
	}

	store := session.NewStore(config.GetDuration("SESSION_TTL", 30*time.Minute))
	store.StartSweeper(context.Background(), 5*time.Minute)

	router := api.NewRouter(api.Config{
		Store:         store,
		Provider:      provider,
		Resolver:      resolver,
		Geo:           geoip.NewLocator(),
		DefaultCenter: defaultCenter,
		CORSOrigin:    corsOrigin,
	})

	// Write timeout leaves room for a cold routing-backend call plus retries.
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// wireProvider optionally wraps the routing client with a persistent
// response cache, selected by CACHE_DRIVER (off, sqlite, postgres).
func wireProvider(client *routing.Client) (ports.RouteProvider, func(), error) {
	noop := func() {}

	switch driver := config.Get("CACHE_DRIVER", "off"); driver {
	case "off":
		return client, noop, nil

	case "sqlite":
		database, err := db.OpenSqlite(config.Get("DB_PATH", "data/routes.db"))
		if err != nil {
			return nil, noop, err
		}
		if err := cache.InitSqliteSchema(database); err != nil {
			database.Close()
			return nil, noop, err
		}
		return routing.NewCachedProvider(client, cache.NewSqliteRouteCache(database)),
			closeFunc(database), nil

	case "postgres":
		databaseURL := os.Getenv("DATABASE_URL")
		if strings.TrimSpace(databaseURL) == "" {
			return nil, noop, fmt.Errorf("DATABASE_URL is required when CACHE_DRIVER=postgres")
		}
		database, err := db.OpenPostgres(databaseURL)
		if err != nil {
			return nil, noop, err
		}
		if err := cache.InitSQLSchema(database); err != nil {
			database.Close()
			return nil, noop, err
		}
		return routing.NewCachedProvider(client, cache.NewSQLRouteCache(database)),
			closeFunc(database), nil

	default:
		return nil, noop, fmt.Errorf("unknown CACHE_DRIVER %q", driver)
	}
}

func closeFunc(database *sql.DB) func() {
	return func() {
		if err := database.Close(); err != nil {
			log.Printf("close cache db: %v", err)
		}
	}
}
