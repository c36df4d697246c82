package provider

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	"tripsmith/internal/domain"
)

// OSRM computes road-network routes via an OSRM HTTP instance.
type OSRM struct {
	baseURL string
	client  *http.Client
}

// NewOSRM constructs an OSRM adapter. baseURL must not have a trailing slash
// (e.g. "https://router.project-osrm.org").
func NewOSRM(baseURL string, timeout time.Duration) *OSRM {
	return &OSRM{baseURL: baseURL, client: newHTTPClient(timeout)}
}

// osrmProfile maps a transport mode to the OSRM routing profile.
func osrmProfile(mode domain.TransportMode) string {
	if mode == domain.ModeBike {
		return "cycling"
	}
	return "driving"
}

type osrmResponse struct {
	Code   string `json:"code"` // "Ok" on success
	Routes []struct {
		Distance float64 `json:"distance"` // meters
		Duration float64 `json:"duration"` // seconds
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"` // [lng, lat] pairs
		} `json:"geometry"`
	} `json:"routes"`
}

// ComputeRoute requests a route for the given mode. The polyline is returned
// in GeoJSON order ([lng, lat]) by OSRM and converted to Coordinates here.
func (o *OSRM) ComputeRoute(ctx context.Context, origin, destination domain.Coordinate, mode domain.TransportMode) (Route, error) {
	url := fmt.Sprintf("%s/route/v1/%s/%f,%f;%f,%f?overview=full&geometries=geojson&alternatives=false&steps=false",
		o.baseURL, osrmProfile(mode),
		origin.Lng, origin.Lat,
		destination.Lng, destination.Lat,
	)

	var body osrmResponse
	if err := getJSON(ctx, o.client, url, &body); err != nil {
		return Route{}, fmt.Errorf("provider.OSRM.ComputeRoute: %w", err)
	}
	if body.Code != "Ok" || len(body.Routes) == 0 {
		return Route{}, fmt.Errorf("provider.OSRM.ComputeRoute: no route found (code %q)", body.Code)
	}

	best := body.Routes[0]
	waypoints := make([]domain.Coordinate, 0, len(best.Geometry.Coordinates))
	for _, pair := range best.Geometry.Coordinates {
		if len(pair) < 2 {
			continue
		}
		waypoints = append(waypoints, domain.Coordinate{Lat: pair[1], Lng: pair[0]})
	}
	if len(waypoints) < 2 {
		// Degenerate geometry; fall back to the straight segment so the
		// route invariant (>= 2 waypoints) holds.
		waypoints = []domain.Coordinate{origin, destination}
	}

	return Route{
		Waypoints:   waypoints,
		DistanceKm:  best.Distance / 1000,
		DurationMin: int(math.Round(best.Duration / 60)),
	}, nil
}
