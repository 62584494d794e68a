package domain

import "fmt"

// A committed selection from the place-search provider.
// Name and Address are provider metadata used for display only;
// routing works exclusively off the coordinate.
type PlaceSelection struct {
	Coordinate Coordinate
	Name       string
	Address    string
}

// Label returns the human-readable text shown in the place input after a
// selection, falling back to raw coordinates when the provider supplied
// no name or address.
func (p PlaceSelection) Label() string {
	if p.Name != "" {
		return p.Name
	}
	if p.Address != "" {
		return p.Address
	}
	return fmt.Sprintf("%.5f, %.5f", p.Coordinate.Lat, p.Coordinate.Lng)
}
