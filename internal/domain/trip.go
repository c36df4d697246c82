package domain

import (
	"time"

	"github.com/google/uuid"
)

// TripSettings is the full user input for one trip generation.
// Origin may be the zero Coordinate, in which case the pipeline resolves the
// traveller's current location through the geolocation strategy chain.
type TripSettings struct {
	RouteSettings
	// DestinationName is the human-readable destination (e.g. "Lyon"),
	// used for weather lookup and display. Required.
	DestinationName string `json:"destination_name"`
	// Interests are the traveller's interest tags (e.g. "cultureMuseum").
	// Unknown tags are ignored by the place sampler.
	Interests []string `json:"interests"`
	// DurationDays is the planned trip length. Must be >= 1.
	DurationDays int `json:"duration_days"`
}

// Trip is the aggregate produced by one generation run. It is created once
// by the assembler and never mutated in place; regenerating with the same
// settings produces a new Trip with a new ID and CreatedAt.
type Trip struct {
	ID        uuid.UUID        `json:"id"`
	Settings  TripSettings     `json:"settings"`
	Origin    ResolvedLocation `json:"origin"`
	Route     RouteResult      `json:"route"`
	Stops     []Stop           `json:"stops"` // discovery order along the route
	Weather   WeatherSnapshot  `json:"weather"`
	CreatedAt time.Time        `json:"created_at"`
}
