package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"tripsmith/internal/domain"
)

// BigDataCloud is the fallback reverse-geocoding adapter. Its free
// reverse-geocode-client endpoint needs no API key, which makes it a good
// second attempt when Nominatim is unavailable or rate-limits us.
type BigDataCloud struct {
	baseURL string
	client  *http.Client
}

// NewBigDataCloud constructs a BigDataCloud adapter. baseURL must not have a
// trailing slash (e.g. "https://api.bigdatacloud.net").
func NewBigDataCloud(baseURL string, timeout time.Duration) *BigDataCloud {
	return &BigDataCloud{baseURL: baseURL, client: newHTTPClient(timeout)}
}

// Name identifies the provider in logs.
func (b *BigDataCloud) Name() string { return "bigdatacloud" }

type bigDataCloudResponse struct {
	City        string `json:"city"`
	Locality    string `json:"locality"`
	CountryName string `json:"countryName"`
}

// ReverseGeocode looks up the address at coord. BigDataCloud leaves city
// empty for small settlements and fills locality instead.
func (b *BigDataCloud) ReverseGeocode(ctx context.Context, coord domain.Coordinate) (Address, error) {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%f", coord.Lat))
	params.Set("longitude", fmt.Sprintf("%f", coord.Lng))
	params.Set("localityLanguage", "en")

	var body bigDataCloudResponse
	if err := getJSON(ctx, b.client, b.baseURL+"/data/reverse-geocode-client?"+params.Encode(), &body); err != nil {
		return Address{}, fmt.Errorf("provider.BigDataCloud.ReverseGeocode: %w", err)
	}

	city := body.City
	if city == "" {
		city = body.Locality
	}
	if city == "" {
		return Address{}, fmt.Errorf("provider.BigDataCloud.ReverseGeocode: no settlement at (%f, %f)", coord.Lat, coord.Lng)
	}

	return Address{City: city, Country: body.CountryName}, nil
}
