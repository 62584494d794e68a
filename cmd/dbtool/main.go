package main

import (
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"route-map-service/internal/adapters/cache"
	"route-map-service/internal/config"
	"route-map-service/internal/platform/db"
)

// dbtool initializes the route-cache schema ahead of time, so the server
// can run against a database it has no DDL rights on.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	switch driver := config.Get("CACHE_DRIVER", "sqlite"); driver {
	case "sqlite":
		database, err := db.OpenSqlite(config.Get("DB_PATH", "data/routes.db"))
		if err != nil {
			log.Fatal(err)
		}
		defer database.Close()

		log.Println("Initializing sqlite route cache schema...")
		if err := cache.InitSqliteSchema(database); err != nil {
			log.Fatalf("schema initialization failed: %v", err)
		}
		log.Println("Schema ready.")

	case "postgres":
		databaseURL := os.Getenv("DATABASE_URL")
		if strings.TrimSpace(databaseURL) == "" {
			log.Fatal("DATABASE_URL is required when CACHE_DRIVER=postgres")
		}
		database, err := db.OpenPostgres(databaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer database.Close()

		log.Println("Initializing postgres route cache schema...")
		if err := cache.InitSQLSchema(database); err != nil {
			log.Fatalf("schema initialization failed: %v", err)
		}
		log.Println("Schema ready.")

	default:
		log.Fatalf("unknown CACHE_DRIVER %q", driver)
	}
}
