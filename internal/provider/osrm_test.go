package provider_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripsmith/internal/domain"
	"tripsmith/internal/provider"
)

func TestOSRM_ComputeRoute_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/route/v1/driving/"))
		w.Write([]byte(`{
			"code": "Ok",
			"routes": [{
				"distance": 465000,
				"duration": 16200,
				"geometry": {"coordinates": [[2.3522, 48.8566], [3.5, 47.0], [4.8357, 45.764]]}
			}]
		}`))
	}))
	defer srv.Close()

	osrm := provider.NewOSRM(srv.URL, time.Second)
	route, err := osrm.ComputeRoute(context.Background(),
		domain.Coordinate{Lat: 48.8566, Lng: 2.3522},
		domain.Coordinate{Lat: 45.764, Lng: 4.8357},
		domain.ModeCar,
	)

	require.NoError(t, err)
	assert.InDelta(t, 465.0, route.DistanceKm, 1e-9)
	assert.Equal(t, 270, route.DurationMin)
	require.Len(t, route.Waypoints, 3)
	// GeoJSON pairs are [lng, lat]; confirm the axis swap happened.
	assert.InDelta(t, 48.8566, route.Waypoints[0].Lat, 1e-9)
	assert.InDelta(t, 2.3522, route.Waypoints[0].Lng, 1e-9)
}

// TestOSRM_ComputeRoute_bikeProfile verifies the mode→profile mapping.
func TestOSRM_ComputeRoute_bikeProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/route/v1/cycling/"))
		w.Write([]byte(`{"code":"Ok","routes":[{"distance":1000,"duration":300,"geometry":{"coordinates":[[0,0],[0.01,0.01]]}}]}`))
	}))
	defer srv.Close()

	_, err := provider.NewOSRM(srv.URL, time.Second).ComputeRoute(context.Background(),
		domain.Coordinate{Lat: 0, Lng: 0}, domain.Coordinate{Lat: 0.01, Lng: 0.01}, domain.ModeBike)

	require.NoError(t, err)
}

// TestOSRM_ComputeRoute_noRoute verifies that a non-Ok code is an error so
// the calculator can degrade to its great-circle fallback.
func TestOSRM_ComputeRoute_noRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"NoRoute","routes":[]}`))
	}))
	defer srv.Close()

	_, err := provider.NewOSRM(srv.URL, time.Second).ComputeRoute(context.Background(),
		domain.Coordinate{Lat: 0, Lng: 0}, domain.Coordinate{Lat: 1, Lng: 1}, domain.ModeCar)

	require.Error(t, err)
}
