package domain

// LocationSource identifies which strategy produced a resolved location.
type LocationSource string

const (
	// SourceGPS means the location came from a precise device position that
	// was then reverse-geocoded to a place name.
	SourceGPS LocationSource = "gps"
	// SourceIP means the location was estimated from the caller's IP address.
	SourceIP LocationSource = "ip"
	// SourceManual means the caller supplied the coordinate directly.
	SourceManual LocationSource = "manual"
)

// ResolvedLocation is the outcome of one origin-resolution attempt.
// Produced once per resolution; immutable.
type ResolvedLocation struct {
	Coordinate Coordinate     `json:"coordinate"`
	City       string         `json:"city"`
	Country    string         `json:"country"`
	Address    string         `json:"address,omitempty"`
	Source     LocationSource `json:"source"`
}
