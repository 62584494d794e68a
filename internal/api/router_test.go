package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"route-map-service/internal/adapters/routing"
	"route-map-service/internal/api/dto"
	"route-map-service/internal/domain"
	"route-map-service/internal/ports"
	"route-map-service/internal/session"
)

var dallas = domain.Coordinate{Lat: 32.7767, Lng: -96.797}

type stubResolver struct {
	places []domain.PlaceSelection
	err    error
}

func (s stubResolver) Search(ctx context.Context, query string, limit int) ([]domain.PlaceSelection, error) {
	return s.places, s.err
}

type stubGeolocator struct {
	coord domain.Coordinate
	err   error
}

func (g stubGeolocator) CurrentLocation(ctx context.Context, clientAddr string) (domain.Coordinate, error) {
	if g.err != nil {
		return domain.Coordinate{}, g.err
	}
	return g.coord, nil
}

type testApp struct {
	srv    *httptest.Server
	client *http.Client
}

func newTestApp(t *testing.T, provider ports.RouteProvider, geo ports.Geolocator, resolver ports.PlaceResolver) *testApp {
	t.Helper()

	router := NewRouter(Config{
		Store:         session.NewStore(time.Minute),
		Provider:      provider,
		Resolver:      resolver,
		Geo:           geo,
		DefaultCenter: dallas,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}

	return &testApp{srv: srv, client: &http.Client{Jar: jar}}
}

func (a *testApp) post(t *testing.T, path string, body any) (*http.Response, dto.StateResponse) {
	t.Helper()

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		t.Fatalf("encode body: %v", err)
	}

	resp, err := a.client.Post(a.srv.URL+path, "application/json", &buf)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var state dto.StateResponse
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
			t.Fatalf("decode state: %v", err)
		}
	}
	return resp, state
}

func (a *testApp) state(t *testing.T) dto.StateResponse {
	t.Helper()

	resp, err := a.client.Get(a.srv.URL + "/api/state")
	if err != nil {
		t.Fatalf("GET /api/state: %v", err)
	}
	defer resp.Body.Close()

	var state dto.StateResponse
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	return state
}

func TestInitialStateIsEmptyOverview(t *testing.T) {
	app := newTestApp(t, &routing.MockRouteProvider{}, stubGeolocator{}, nil)

	state := app.state(t)
	if state.Start != nil || state.End != nil || state.Polyline != nil {
		t.Fatalf("initial state not empty: %+v", state)
	}
	if state.Distance != "--" || state.ETA != "--" {
		t.Fatalf("metrics = (%q, %q), want placeholders", state.Distance, state.ETA)
	}
	if state.Camera.Mode != "center" || *state.Camera.Center != dallas {
		t.Fatalf("camera = %+v, want default region center", state.Camera)
	}
}

func TestClickThenRouteRendersMetrics(t *testing.T) {
	provider := &routing.MockRouteProvider{
		Result: &domain.RouteResult{
			Path:    []domain.Coordinate{{Lat: 32.781, Lng: -96.798}, {Lat: 32.790, Lng: -96.810}},
			Meters:  5000,
			Seconds: 600,
		},
	}
	app := newTestApp(t, provider, stubGeolocator{}, nil)

	app.post(t, "/api/click", dto.ClickRequest{Lat: 32.781, Lng: -96.798})
	_, state := app.post(t, "/api/click", dto.ClickRequest{Lat: 32.790, Lng: -96.810})
	if state.Start == nil || state.End == nil {
		t.Fatalf("endpoints not set after two clicks: %+v", state)
	}

	_, state = app.post(t, "/api/route", nil)
	if len(state.Polyline) != 2 {
		t.Fatalf("polyline length = %d, want 2", len(state.Polyline))
	}
	if state.Distance != "3.11 mi" {
		t.Fatalf("distance = %q, want %q", state.Distance, "3.11 mi")
	}
	if state.ETA != "10 min" {
		t.Fatalf("eta = %q, want %q", state.ETA, "10 min")
	}
	if state.Camera.Mode != "fit_bounds" {
		t.Fatalf("camera mode = %q, want fit_bounds", state.Camera.Mode)
	}
}

func TestRouteNoPathRendersWarningWithoutPolyline(t *testing.T) {
	provider := &routing.MockRouteProvider{Err: ports.ErrNoRoute}
	app := newTestApp(t, provider, stubGeolocator{}, nil)

	app.post(t, "/api/click", dto.ClickRequest{Lat: 32.781, Lng: -96.798})
	app.post(t, "/api/click", dto.ClickRequest{Lat: 32.790, Lng: -96.810})
	_, state := app.post(t, "/api/route", nil)

	if state.Polyline != nil {
		t.Fatalf("polyline = %+v, want none for a no-path answer", state.Polyline)
	}
	if state.Warning != domain.WarnNoRoute {
		t.Fatalf("warning = %q, want %q", state.Warning, domain.WarnNoRoute)
	}
	if state.Distance != "--" || state.ETA != "--" {
		t.Fatalf("metrics = (%q, %q), want placeholders", state.Distance, state.ETA)
	}
}

func TestEditClearsRouteAndWarning(t *testing.T) {
	provider := &routing.MockRouteProvider{
		Result: &domain.RouteResult{
			Path:    []domain.Coordinate{{Lat: 1, Lng: 2}, {Lat: 3, Lng: 4}},
			Meters:  100,
			Seconds: 60,
		},
	}
	app := newTestApp(t, provider, stubGeolocator{}, nil)

	app.post(t, "/api/click", dto.ClickRequest{Lat: 1, Lng: 2})
	app.post(t, "/api/click", dto.ClickRequest{Lat: 3, Lng: 4})
	_, state := app.post(t, "/api/route", nil)
	if len(state.Polyline) == 0 {
		t.Fatal("route not rendered before edit")
	}

	_, state = app.post(t, "/api/edit", dto.EndpointRequest{Endpoint: "start"})
	if state.Polyline != nil || state.Warning != "" {
		t.Fatalf("edit did not clear derived state: %+v", state)
	}
	if state.Start == nil || state.End == nil {
		t.Fatal("edit dropped endpoints")
	}
}

func TestSelectAppliesLabelAndSuppressesUnresolvable(t *testing.T) {
	app := newTestApp(t, &routing.MockRouteProvider{}, stubGeolocator{}, nil)

	_, state := app.post(t, "/api/select", dto.SelectRequest{
		Endpoint: "start",
		Lat:      32.7755, Lng: -96.8089,
		Address: "300 Reunion Blvd E, Dallas, TX",
	})
	if state.Start == nil {
		t.Fatal("selection not applied")
	}
	if state.StartLabel != "300 Reunion Blvd E, Dallas, TX" {
		t.Fatalf("label = %q", state.StartLabel)
	}

	// A selection without a resolvable coordinate changes nothing.
	_, state = app.post(t, "/api/select", dto.SelectRequest{Endpoint: "start", Lat: 500, Lng: 0})
	if state.Start == nil || state.Start.Lat != 32.7755 {
		t.Fatalf("unresolvable selection mutated state: %+v", state.Start)
	}
}

func TestLocateFailureReturnsAlertAndChangesNothing(t *testing.T) {
	app := newTestApp(t, &routing.MockRouteProvider{}, stubGeolocator{err: ports.ErrLocationUnavailable}, nil)

	app.post(t, "/api/click", dto.ClickRequest{Lat: 1, Lng: 2})

	resp, _ := app.post(t, "/api/locate", dto.EndpointRequest{Endpoint: "end"})
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusBadGateway)
	}

	var alert dto.AlertResponse
	if err := json.NewDecoder(resp.Body).Decode(&alert); err != nil {
		t.Fatalf("decode alert: %v", err)
	}
	if alert.Alert != domain.AlertNoLocation {
		t.Fatalf("alert = %q, want %q", alert.Alert, domain.AlertNoLocation)
	}

	state := app.state(t)
	if state.Start == nil || state.End != nil {
		t.Fatalf("locate failure mutated endpoints: %+v", state)
	}
}

func TestLocateSuccessAssignsEndpoint(t *testing.T) {
	app := newTestApp(t, &routing.MockRouteProvider{}, stubGeolocator{coord: dallas}, nil)

	_, state := app.post(t, "/api/locate", dto.EndpointRequest{Endpoint: "start"})
	if state.Start == nil || *state.Start != dallas {
		t.Fatalf("start = %+v, want %+v", state.Start, dallas)
	}
}

func TestClickRejectsInvalidCoordinates(t *testing.T) {
	app := newTestApp(t, &routing.MockRouteProvider{}, stubGeolocator{}, nil)

	resp, _ := app.post(t, "/api/click", dto.ClickRequest{Lat: 212, Lng: 0})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestPlacesEndpoint(t *testing.T) {
	resolver := stubResolver{places: []domain.PlaceSelection{
		{Coordinate: domain.Coordinate{Lat: 32.78, Lng: -96.80}, Address: "Main St, Dallas"},
	}}
	app := newTestApp(t, &routing.MockRouteProvider{}, stubGeolocator{}, resolver)

	resp, err := app.client.Get(app.srv.URL + "/api/places?q=main")
	if err != nil {
		t.Fatalf("GET /api/places: %v", err)
	}
	defer resp.Body.Close()

	var res dto.ListPlaceResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatalf("decode places: %v", err)
	}
	if len(res.Places) != 1 {
		t.Fatalf("places = %d, want 1", len(res.Places))
	}
	if res.Places[0].Label != "Main St, Dallas" {
		t.Fatalf("label = %q", res.Places[0].Label)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	store := session.NewStore(time.Minute)
	router := NewRouter(Config{
		Store:         store,
		Provider:      &routing.MockRouteProvider{},
		Geo:           stubGeolocator{},
		DefaultCenter: dallas,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	jarA, _ := cookiejar.New(nil)
	jarB, _ := cookiejar.New(nil)
	clientA := &http.Client{Jar: jarA}
	clientB := &http.Client{Jar: jarB}

	body := bytes.NewBufferString(`{"lat": 1, "lng": 2}`)
	if _, err := clientA.Post(srv.URL+"/api/click", "application/json", body); err != nil {
		t.Fatalf("client A click: %v", err)
	}

	resp, err := clientB.Get(srv.URL + "/api/state")
	if err != nil {
		t.Fatalf("client B state: %v", err)
	}
	defer resp.Body.Close()

	var state dto.StateResponse
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if state.Start != nil {
		t.Fatal("client B sees client A's state")
	}
}
