// Package geoip answers single-shot "where am I" queries by looking the
// client's address up against an IP geolocation service. Every failure
// mode collapses into ports.ErrLocationUnavailable: the caller only needs
// to know the position could not be determined, not why.
package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"route-map-service/internal/domain"
	"route-map-service/internal/platform/obs"
	"route-map-service/internal/ports"
)

const defaultBaseURL = "http://ip-api.com/json"

// Locator implements Geolocator via an ip-api style JSON endpoint.
// Safe for concurrent use; concurrent lookups are independent and the
// last result applied wins, matching the UI's unguarded locate buttons.
type Locator struct {
	session *http.Client
	baseURL string
}

func NewLocator() *Locator {
	return &Locator{
		session: &http.Client{Timeout: 8 * time.Second},
		baseURL: defaultBaseURL,
	}
}

type lookupResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message,omitempty"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// CurrentLocation resolves the client address to a coordinate.
func (l *Locator) CurrentLocation(
	ctx context.Context,
	clientAddr string,
) (_ domain.Coordinate, err error) {
	defer obs.Time(ctx, "geoip.CurrentLocation")(&err)

	ip := hostOnly(clientAddr)
	if ip == "" {
		return domain.Coordinate{}, ports.ErrLocationUnavailable
	}

	endpoint := l.baseURL + "/" + ip
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("%w: create lookup request: %v", ports.ErrLocationUnavailable, err)
	}

	q := req.URL.Query()
	q.Set("fields", "status,message,lat,lon")
	req.URL.RawQuery = q.Encode()

	resp, err := l.session.Do(req)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("%w: execute lookup: %v", ports.ErrLocationUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Coordinate{}, fmt.Errorf("%w: lookup status %d", ports.ErrLocationUnavailable, resp.StatusCode)
	}

	var decoded lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinate{}, fmt.Errorf("%w: decode lookup response: %v", ports.ErrLocationUnavailable, err)
	}

	if decoded.Status != "success" {
		return domain.Coordinate{}, fmt.Errorf("%w: provider said %q", ports.ErrLocationUnavailable, decoded.Message)
	}

	c := domain.Coordinate{Lat: decoded.Lat, Lng: decoded.Lon}
	if !c.Valid() {
		return domain.Coordinate{}, fmt.Errorf("%w: provider returned invalid coordinate", ports.ErrLocationUnavailable)
	}

	return c, nil
}

// hostOnly strips an optional port from a remote address.
func hostOnly(addr string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return ""
	}
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
