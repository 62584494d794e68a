package handlers

import (
	"log"
	"net/http"
	"strings"

	"route-map-service/internal/api/dto"
	"route-map-service/internal/ports"
)

// PlacesHandler backs the place-input autocomplete with the external
// place-search provider.
type PlacesHandler struct {
	Resolver ports.PlaceResolver
}

// Search returns up to five selectable places for the q parameter.
// Results that the resolver could not pin to a coordinate never appear.
func (h *PlacesHandler) Search(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	if h.Resolver == nil {
		// No provider configured; the page falls back to map clicks.
		writeJSON(w, r, http.StatusOK, dto.ListPlaceResponse{Places: []dto.PlaceResponse{}})
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	places, err := h.Resolver.Search(r.Context(), query, 5)
	if err != nil {
		log.Printf("place search failed: %v", err)
		writeError(w, r, http.StatusBadGateway, "place search failed")
		return
	}

	res := dto.ListPlaceResponse{Places: make([]dto.PlaceResponse, 0, len(places))}
	for _, p := range places {
		res.Places = append(res.Places, dto.PlaceResponse{
			Label:   p.Label(),
			Address: p.Address,
			Lat:     p.Coordinate.Lat,
			Lng:     p.Coordinate.Lng,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
