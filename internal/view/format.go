// Package view holds the pure presentation policies: metric formatting
// and the camera-framing plan. Nothing here touches the network or any
// widget; everything is a total function of its inputs.
package view

import (
	"fmt"
	"math"
)

// Placeholder shown before any route metrics exist.
const Placeholder = "--"

const metersPerMile = 1609.344

// FormatDistance renders meters as miles with two decimals.
// A nil input renders the placeholder. Callers are expected to guard
// against negative or non-finite values.
func FormatDistance(meters *float64) string {
	if meters == nil {
		return Placeholder
	}
	return fmt.Sprintf("%.2f mi", *meters/metersPerMile)
}

// FormatETA renders seconds rounded to the nearest minute, switching to
// an "H hr M min" form at one hour. A nil input renders the placeholder.
func FormatETA(seconds *float64) string {
	if seconds == nil {
		return Placeholder
	}

	minutes := int(math.Round(*seconds / 60))
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%d hr %d min", minutes/60, minutes%60)
}
