package handlers

import (
	"net/http"

	"route-map-service/internal/api/dto"
	"route-map-service/internal/domain"
)

// ConfigHandler serves the page bootstrap configuration: the default
// region centroid. Configuration, not behavior.
type ConfigHandler struct {
	DefaultCenter domain.Coordinate
}

func (h *ConfigHandler) Config(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ConfigResponse{
		DefaultCenter: h.DefaultCenter,
	})
}
