// Package domain contains the core data types for the trip generation
// pipeline. This package has zero external dependencies beyond uuid and is
// imported by every other internal package (provider, service, repo, handler).
package domain

import (
	"fmt"
	"math"
)

// earthRadiusKm is the mean Earth radius used for great-circle distances.
const earthRadiusKm = 6371.0

// Coordinate is a WGS84 latitude/longitude pair. Value type, no identity.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the coordinate lies within the WGS84 bounds.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// IsZero reports whether the coordinate is the zero value. Callers use this
// to distinguish "origin not provided" from a real origin; treating (0,0)
// as unset is acceptable because no trip plausibly starts at null island.
func (c Coordinate) IsZero() bool {
	return c.Lat == 0 && c.Lng == 0
}

// String renders the coordinate for logs and error messages.
func (c Coordinate) String() string {
	return fmt.Sprintf("(%.4f, %.4f)", c.Lat, c.Lng)
}

// DistanceKm returns the great-circle distance in kilometers between c and
// other, computed with the haversine formula.
func (c Coordinate) DistanceKm(other Coordinate) float64 {
	lat1 := c.Lat * math.Pi / 180
	lat2 := other.Lat * math.Pi / 180
	dLat := (other.Lat - c.Lat) * math.Pi / 180
	dLng := (other.Lng - c.Lng) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
