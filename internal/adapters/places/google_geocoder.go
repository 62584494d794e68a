// Package places resolves free text into selectable places using the
// Google Geocoding API, with the same credential the map widget uses.
package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"route-map-service/internal/domain"
	"route-map-service/internal/platform/obs"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api"

// Google geocoding response statuses we act on. ZERO_RESULTS is a normal
// empty outcome; everything else non-OK is a provider failure.
const (
	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
)

// GoogleGeocoder implements PlaceResolver via GET /geocode/json.
// Results without usable geometry are suppressed rather than surfaced,
// so callers only ever see selections with a resolvable coordinate.
//
// The geocoder is safe for concurrent use.
type GoogleGeocoder struct {
	session *http.Client
	apiKey  string
	baseURL string
	region  string
}

func NewGoogleGeocoder(apiKey string) (*GoogleGeocoder, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("maps api key is empty")
	}

	return &GoogleGeocoder{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		region:  "us",
	}, nil
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         *struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Search geocodes the query and returns up to limit selectable places.
func (g *GoogleGeocoder) Search(
	ctx context.Context,
	query string,
	limit int,
) (_ []domain.PlaceSelection, err error) {
	defer obs.Time(ctx, "places.Search")(&err)

	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.PlaceSelection{}, nil
	}
	if limit < 1 {
		limit = 5
	}

	endpoint := g.baseURL + "/geocode/json"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create geocode request: %w", err)
	}

	q := req.URL.Query()
	q.Set("address", query)
	q.Set("region", g.region)
	q.Set("key", g.apiKey)
	req.URL.RawQuery = q.Encode()

	resp, err := g.session.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode request: unexpected status %d", resp.StatusCode)
	}

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode geocode response: %w", err)
	}

	switch decoded.Status {
	case statusOK:
	case statusZeroResults:
		return []domain.PlaceSelection{}, nil
	default:
		return nil, fmt.Errorf("geocode provider status %q", decoded.Status)
	}

	out := make([]domain.PlaceSelection, 0, limit)
	for _, r := range decoded.Results {
		// Suppress selections without a resolvable coordinate.
		if r.Geometry == nil {
			continue
		}
		c := domain.Coordinate{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng}
		if !c.Valid() {
			continue
		}

		out = append(out, domain.PlaceSelection{
			Coordinate: c,
			Address:    r.FormattedAddress,
		})
		if len(out) == limit {
			break
		}
	}

	return out, nil
}
