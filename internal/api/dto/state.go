package dto

import (
	"route-map-service/internal/domain"
	"route-map-service/internal/view"
)

// StateResponse is the full render model for the page: everything the
// map surface and the metrics panel need to redraw from scratch.
type StateResponse struct {
	Start      *domain.Coordinate  `json:"start,omitempty"`
	End        *domain.Coordinate  `json:"end,omitempty"`
	StartLabel string              `json:"start_label"`
	EndLabel   string              `json:"end_label"`
	Polyline   []domain.Coordinate `json:"polyline,omitempty"`
	Distance   string              `json:"distance"`
	ETA        string              `json:"eta"`
	Loading    bool                `json:"loading"`
	Warning    string              `json:"warning,omitempty"`
	Camera     view.CameraPlan     `json:"camera"`
}

// EndpointRequest names which end of the trip an action targets.
type EndpointRequest struct {
	Endpoint string `json:"endpoint"`
}

// SelectRequest is a committed autocomplete selection.
type SelectRequest struct {
	Endpoint string  `json:"endpoint"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Name     string  `json:"name,omitempty"`
	Address  string  `json:"address,omitempty"`
}

// ClickRequest is a map click reported by the map surface.
type ClickRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PlaceResponse is one autocomplete suggestion.
type PlaceResponse struct {
	Label   string  `json:"label"`
	Address string  `json:"address,omitempty"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// ListPlaceResponse wraps autocomplete suggestions.
type ListPlaceResponse struct {
	Places []PlaceResponse `json:"places"`
}

// ConfigResponse carries page bootstrap configuration. The place-search
// credential stays server-side; the page never sees it.
type ConfigResponse struct {
	DefaultCenter domain.Coordinate `json:"default_center"`
}

// AlertResponse carries a blocking alert message.
type AlertResponse struct {
	Alert string `json:"alert"`
}
