package domain

// Endpoint identifies which end of the trip an input action targets.
type Endpoint string

const (
	EndpointStart Endpoint = "start"
	EndpointEnd   Endpoint = "end"
)

// Valid reports whether e names a known endpoint.
func (e Endpoint) Valid() bool {
	return e == EndpointStart || e == EndpointEnd
}

// User-facing warning text. NoRouteFound and request failure must stay
// distinguishable so the user can tell "no drivable path" apart from
// "the routing backend could not be reached".
const (
	WarnNoRoute     = "No drivable route found between these points."
	WarnRouteFailed = "Routing request failed. Check the routing backend and try again."
	AlertNoLocation = "Could not determine your current location."
)
