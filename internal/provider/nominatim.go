package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"tripsmith/internal/domain"
)

// Nominatim is the primary reverse-geocoding adapter, backed by the
// OpenStreetMap Nominatim API.
type Nominatim struct {
	baseURL string
	client  *http.Client
}

// NewNominatim constructs a Nominatim adapter. baseURL must not have a
// trailing slash (e.g. "https://nominatim.openstreetmap.org").
func NewNominatim(baseURL string, timeout time.Duration) *Nominatim {
	return &Nominatim{baseURL: baseURL, client: newHTTPClient(timeout)}
}

// Name identifies the provider in logs.
func (n *Nominatim) Name() string { return "nominatim" }

// nominatimReverseResponse mirrors the fields of a jsonv2 reverse result
// that we consume.
type nominatimReverseResponse struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		Country string `json:"country"`
	} `json:"address"`
}

// ReverseGeocode looks up the address at coord. Nominatim reports the
// settlement under city, town, or village depending on its size; the first
// non-empty one wins.
func (n *Nominatim) ReverseGeocode(ctx context.Context, coord domain.Coordinate) (Address, error) {
	params := url.Values{}
	params.Set("format", "jsonv2")
	params.Set("lat", fmt.Sprintf("%f", coord.Lat))
	params.Set("lon", fmt.Sprintf("%f", coord.Lng))

	var body nominatimReverseResponse
	if err := getJSON(ctx, n.client, n.baseURL+"/reverse?"+params.Encode(), &body); err != nil {
		return Address{}, fmt.Errorf("provider.Nominatim.ReverseGeocode: %w", err)
	}

	city := body.Address.City
	if city == "" {
		city = body.Address.Town
	}
	if city == "" {
		city = body.Address.Village
	}
	if city == "" {
		return Address{}, fmt.Errorf("provider.Nominatim.ReverseGeocode: no settlement at (%f, %f)", coord.Lat, coord.Lng)
	}

	return Address{
		City:    city,
		Country: body.Address.Country,
		Address: body.DisplayName,
	}, nil
}
