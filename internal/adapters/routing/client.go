package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"route-map-service/internal/domain"
	"route-map-service/internal/platform/obs"
	"route-map-service/internal/ports"
)

// Client implements RouteProvider against the routing backend's GET /route
// endpoint. It distinguishes the backend's "no path" answer (a normal
// outcome, ports.ErrNoRoute) from requests that could not complete, and
// retries transient failures with backoff.
//
// The client is safe for concurrent use.
type Client struct {
	session *http.Client
	baseURL string
}

func NewClient(baseURL string) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("routing base URL is empty")
	}

	return &Client{
		session: &http.Client{Timeout: 15 * time.Second},
		baseURL: baseURL,
	}, nil
}

// Wire shape of the backend response. Null metrics or a short polyline
// mean "no route found", not an error.
type routeResponse struct {
	Polyline []domain.Coordinate `json:"polyline"`
	Meters   *float64            `json:"meters"`
	Seconds  *float64            `json:"seconds"`
	Error    string              `json:"error,omitempty"`
}

// FetchRoute requests a driving route between start and end.
func (c *Client) FetchRoute(
	ctx context.Context,
	start, end domain.Coordinate,
) (_ *domain.RouteResult, err error) {
	defer obs.Time(ctx, "routing.FetchRoute")(&err)

	endpoint := c.baseURL + "/route"

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("create route request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		q := req.URL.Query()
		q.Set("start_lat", formatDeg(start.Lat))
		q.Set("start_lng", formatDeg(start.Lng))
		q.Set("end_lat", formatDeg(end.Lat))
		q.Set("end_lng", formatDeg(end.Lng))
		req.URL.RawQuery = q.Encode()

		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("execute route request: %w", err)
	}
	defer resp.Body.Close()

	var decoded routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode route response: %w", err)
	}

	// Contract: missing metrics or fewer than 2 points is "no route found".
	if decoded.Meters == nil || decoded.Seconds == nil || len(decoded.Polyline) < 2 {
		return nil, ports.ErrNoRoute
	}

	return &domain.RouteResult{
		Path:    decoded.Polyline,
		Meters:  *decoded.Meters,
		Seconds: *decoded.Seconds,
	}, nil
}

func formatDeg(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
