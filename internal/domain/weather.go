package domain

import "time"

// ForecastEntry is one day of forecast data.
type ForecastEntry struct {
	Date      time.Time `json:"date"` // midnight UTC of the forecast day
	TempC     float64   `json:"temp_c"`
	Condition string    `json:"condition"`
}

// WeatherSnapshot holds current conditions and a short forecast for the trip
// destination. IsApproximate is true when any part of it was synthesized
// rather than fetched from the weather provider.
type WeatherSnapshot struct {
	Location      string          `json:"location"`
	TempC         float64         `json:"temp_c"`
	Condition     string          `json:"condition"`
	HumidityPct   int             `json:"humidity_pct"` // 0..100
	Forecast      []ForecastEntry `json:"forecast"`
	IsApproximate bool            `json:"is_approximate"`
}
