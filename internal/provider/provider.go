// Package provider contains the capability interfaces the trip generation
// pipeline consumes, plus HTTP adapters for the concrete external services.
// Services depend on these interfaces, not the adapters, so any provider can
// be swapped or mocked. A nil provider means "not configured" and triggers
// the owning component's documented fallback.
package provider

import (
	"context"

	"tripsmith/internal/domain"
)

// Address is the place-name part of a reverse-geocode result.
type Address struct {
	City    string
	Country string
	// Address is the full formatted address, when the provider returns one.
	Address string
}

// ReverseGeocoder turns a coordinate into a place name.
type ReverseGeocoder interface {
	// Name identifies the provider in logs.
	Name() string
	// ReverseGeocode returns the address at coord. An empty city is treated
	// as a failed lookup by callers.
	ReverseGeocode(ctx context.Context, coord domain.Coordinate) (Address, error)
}

// IPLocation is a coarse location estimated from the caller's IP address.
type IPLocation struct {
	Coordinate domain.Coordinate
	City       string
	Country    string
}

// IPLocator estimates the caller's location from its public IP address.
type IPLocator interface {
	Locate(ctx context.Context) (IPLocation, error)
}

// Route is a provider-computed route between two coordinates.
type Route struct {
	// Waypoints is the route polyline, origin first. Always >= 2 points.
	Waypoints   []domain.Coordinate
	DistanceKm  float64
	DurationMin int
}

// RouteProvider computes real road-network routes.
type RouteProvider interface {
	ComputeRoute(ctx context.Context, origin, destination domain.Coordinate, mode domain.TransportMode) (Route, error)
}

// Place is one nearby-search result.
type Place struct {
	Name       string
	Coordinate domain.Coordinate
	Rating     *float64
	PhotoRefs  []string
}

// PlaceProvider finds places of a given category near a point.
type PlaceProvider interface {
	// NearbySearch returns places within radiusKm of point matching
	// category, best matches first. An empty slice is a valid result.
	NearbySearch(ctx context.Context, point domain.Coordinate, radiusKm float64, category string) ([]Place, error)
}

// CurrentConditions is the current-weather part of a weather lookup.
type CurrentConditions struct {
	TempC       float64
	Condition   string
	HumidityPct int
}

// WeatherProvider fetches weather by place name.
type WeatherProvider interface {
	Current(ctx context.Context, place string) (CurrentConditions, error)
	Forecast(ctx context.Context, place string) ([]domain.ForecastEntry, error)
}
