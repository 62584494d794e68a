package api

import (
	"net/http"

	"route-map-service/internal/api/handlers"
	"route-map-service/internal/domain"
	"route-map-service/internal/ports"
	"route-map-service/internal/session"
	"route-map-service/web"
)

// Config carries the router's wiring inputs.
type Config struct {
	Store         *session.Store
	Provider      ports.RouteProvider
	Resolver      ports.PlaceResolver
	Geo           ports.Geolocator
	DefaultCenter domain.Coordinate
	CORSOrigin    string
}

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root (handlers stay unaware
// of concrete adapters).
func NewRouter(cfg Config) http.Handler {
	mux := http.NewServeMux()

	tripHandler := &handlers.TripHandler{
		Store:         cfg.Store,
		Provider:      cfg.Provider,
		Geo:           cfg.Geo,
		DefaultCenter: cfg.DefaultCenter,
	}
	placesHandler := &handlers.PlacesHandler{Resolver: cfg.Resolver}
	configHandler := &handlers.ConfigHandler{DefaultCenter: cfg.DefaultCenter}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/api/config", configHandler.Config)
	mux.HandleFunc("/api/places", placesHandler.Search)
	mux.HandleFunc("/api/state", tripHandler.State)
	mux.HandleFunc("/api/edit", tripHandler.Edit)
	mux.HandleFunc("/api/select", tripHandler.Select)
	mux.HandleFunc("/api/click", tripHandler.Click)
	mux.HandleFunc("/api/locate", tripHandler.Locate)
	mux.HandleFunc("/api/route", tripHandler.Route)
	mux.HandleFunc("/api/clear", tripHandler.Clear)
	mux.HandleFunc("/", servePage)

	return loggingMiddleware(protectMiddleware(mux, cfg.CORSOrigin))
}

// servePage serves the single-page UI at the root path only.
func servePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(web.Index)
}
