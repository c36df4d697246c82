package provider

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"tripsmith/internal/domain"
)

// IPAPI estimates the server's location from its public IP address via the
// ip-api.com JSON endpoint.
type IPAPI struct {
	baseURL string
	client  *http.Client
}

// NewIPAPI constructs an IPAPI adapter. baseURL must not have a trailing
// slash (e.g. "http://ip-api.com").
func NewIPAPI(baseURL string, timeout time.Duration) *IPAPI {
	return &IPAPI{baseURL: baseURL, client: newHTTPClient(timeout)}
}

type ipAPIResponse struct {
	Status  string  `json:"status"` // "success" or "fail"
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	City    string  `json:"city"`
	Country string  `json:"country"`
}

// Locate returns the coarse location of the caller's public IP.
func (p *IPAPI) Locate(ctx context.Context) (IPLocation, error) {
	var body ipAPIResponse
	if err := getJSON(ctx, p.client, p.baseURL+"/json", &body); err != nil {
		return IPLocation{}, fmt.Errorf("provider.IPAPI.Locate: %w", err)
	}
	if body.Status != "success" {
		return IPLocation{}, fmt.Errorf("provider.IPAPI.Locate: lookup failed: %s", body.Message)
	}

	return IPLocation{
		Coordinate: domain.Coordinate{Lat: body.Lat, Lng: body.Lon},
		City:       body.City,
		Country:    body.Country,
	}, nil
}
