package domain

// TransportMode selects the vehicle profile used for routing and for the
// average-speed duration estimate when no routing provider is available.
type TransportMode string

const (
	ModeCar  TransportMode = "car"
	ModeBike TransportMode = "bike"
)

// Valid reports whether the mode is one of the supported profiles.
func (m TransportMode) Valid() bool {
	return m == ModeCar || m == ModeBike
}

// TripType distinguishes one-way trips from round trips. A round trip
// doubles distance and duration but does not duplicate waypoints; the
// geometry stays one-way. This mirrors the behavior travellers already
// rely on, even though it undercounts real return routes.
type TripType string

const (
	TypeOneWay    TripType = "one_way"
	TypeRoundTrip TripType = "round_trip"
)

// Valid reports whether the trip type is supported.
func (t TripType) Valid() bool {
	return t == TypeOneWay || t == TypeRoundTrip
}

// RouteSettings is the input value object for route computation.
type RouteSettings struct {
	Origin      Coordinate    `json:"origin"`
	Destination Coordinate    `json:"destination"`
	Mode        TransportMode `json:"mode"`
	TripType    TripType      `json:"trip_type"`
}

// RouteResult is a computed route: geometry plus distance and duration.
// Immutable once computed.
//
// Waypoints always has at least two entries; the first is the origin and the
// last is the destination. IsApproximate is true when no routing provider
// answered and the great-circle fallback was used.
type RouteResult struct {
	Waypoints     []Coordinate `json:"waypoints"`
	DistanceKm    float64      `json:"distance_km"`
	DurationMin   int          `json:"duration_min"`
	DistanceText  string       `json:"distance_text"`
	DurationText  string       `json:"duration_text"`
	IsApproximate bool         `json:"is_approximate"`
}
