package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"route-map-service/internal/api/dto"
	"route-map-service/internal/domain"
	"route-map-service/internal/ports"
	"route-map-service/internal/session"
	"route-map-service/internal/view"
)

const sessionCookie = "sid"

// TripHandler delivers the page's inbound events (edit, select, click,
// locate, route, clear) to the per-session controller and renders the
// resulting state. Handlers stay unaware of concrete adapters; the
// controller never reaches into the page.
type TripHandler struct {
	Store         *session.Store
	Provider      ports.RouteProvider
	Geo           ports.Geolocator
	DefaultCenter domain.Coordinate
}

// State renders the current session state.
func (h *TripHandler) State(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	sess := h.session(w, r)
	h.writeState(w, r, sess)
}

// Edit handles the begin-edit signal from either place input: the route
// and warning are invalidated before any new selection exists.
func (h *TripHandler) Edit(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req dto.EndpointRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	which, ok := parseEndpoint(req.Endpoint)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "endpoint must be start or end")
		return
	}

	sess := h.session(w, r)
	sess.BeginEdit(which)
	h.writeState(w, r, sess)
}

// Select applies a committed autocomplete selection to an endpoint.
// Selections without a resolvable coordinate are suppressed: no state
// change, no error, as if no selection was made.
func (h *TripHandler) Select(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req dto.SelectRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	which, ok := parseEndpoint(req.Endpoint)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "endpoint must be start or end")
		return
	}

	sess := h.session(w, r)

	coord := domain.Coordinate{Lat: req.Lat, Lng: req.Lng}
	if coord.Valid() {
		sess.SetPlace(which, domain.PlaceSelection{
			Coordinate: coord,
			Name:       strings.TrimSpace(req.Name),
			Address:    strings.TrimSpace(req.Address),
		})
	}
	h.writeState(w, r, sess)
}

// Click assigns a map click per the controller's policy.
func (h *TripHandler) Click(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req dto.ClickRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	coord := domain.Coordinate{Lat: req.Lat, Lng: req.Lng}
	if !coord.Valid() {
		writeError(w, r, http.StatusBadRequest, "invalid coordinates")
		return
	}

	sess := h.session(w, r)
	sess.ClickMap(coord)
	h.writeState(w, r, sess)
}

// Locate resolves the device position and assigns it to the requested
// endpoint. Failure surfaces as a blocking alert and changes nothing.
func (h *TripHandler) Locate(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req dto.EndpointRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	which, ok := parseEndpoint(req.Endpoint)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "endpoint must be start or end")
		return
	}

	sess := h.session(w, r)

	if err := sess.Locate(r.Context(), h.Geo, clientAddr(r), which); err != nil {
		if !errors.Is(err, ports.ErrLocationUnavailable) {
			log.Printf("locate failed: %v", err)
		}
		writeJSON(w, r, http.StatusBadGateway, dto.AlertResponse{Alert: domain.AlertNoLocation})
		return
	}
	h.writeState(w, r, sess)
}

// Route runs one route computation. The trigger is a no-op while a
// computation is in flight or while either endpoint is missing; the
// rendered state carries the outcome either way.
func (h *TripHandler) Route(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	sess := h.session(w, r)
	sess.ComputeRoute(r.Context(), h.Provider)
	h.writeState(w, r, sess)
}

// Clear resets the session.
func (h *TripHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	sess := h.session(w, r)
	sess.Clear()
	h.writeState(w, r, sess)
}

// session resolves the caller's session from the cookie, creating one
// (and setting the cookie) when absent or expired.
func (h *TripHandler) session(w http.ResponseWriter, r *http.Request) *session.Session {
	var id string
	if c, err := r.Cookie(sessionCookie); err == nil {
		id = c.Value
	}

	sess := h.Store.Ensure(id)
	if sess.ID() != id {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    sess.ID(),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess
}

func (h *TripHandler) writeState(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	snap := sess.Snapshot()

	res := dto.StateResponse{
		Start:      snap.Start,
		End:        snap.End,
		StartLabel: snap.StartLabel,
		EndLabel:   snap.EndLabel,
		Distance:   view.FormatDistance(nil),
		ETA:        view.FormatETA(nil),
		Loading:    snap.Loading,
		Warning:    snap.Warning,
		Camera:     view.ComputeCameraPlan(snap.Start, snap.End, snap.Route, h.DefaultCenter),
	}
	if snap.Route.Valid() {
		res.Polyline = snap.Route.Path
		res.Distance = view.FormatDistance(&snap.Route.Meters)
		res.ETA = view.FormatETA(&snap.Route.Seconds)
	}

	writeJSON(w, r, http.StatusOK, res)
}

func parseEndpoint(s string) (domain.Endpoint, bool) {
	e := domain.Endpoint(strings.ToLower(strings.TrimSpace(s)))
	return e, e.Valid()
}

// clientAddr prefers the first proxy-forwarded address, falling back to
// the direct remote address.
func clientAddr(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	return r.RemoteAddr
}
