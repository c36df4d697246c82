package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tripsmith/internal/domain"
)

// OpenMeteo fetches current conditions and daily forecasts from the
// Open-Meteo API. Open-Meteo is keyed by coordinate, not by place name, so
// a small city table maps destination names to coordinates; unmapped cities
// fall back to a default entry rather than failing.
type OpenMeteo struct {
	baseURL string
	client  *http.Client
}

// NewOpenMeteo constructs an OpenMeteo adapter. baseURL must not have a
// trailing slash (e.g. "https://api.open-meteo.com").
func NewOpenMeteo(baseURL string, timeout time.Duration) *OpenMeteo {
	return &OpenMeteo{baseURL: baseURL, client: newHTTPClient(timeout)}
}

// cityCoords maps lowercase city names to coordinates for weather lookup.
var cityCoords = map[string]domain.Coordinate{
	"paris":     {Lat: 48.8566, Lng: 2.3522},
	"lyon":      {Lat: 45.7640, Lng: 4.8357},
	"marseille": {Lat: 43.2965, Lng: 5.3698},
	"bordeaux":  {Lat: 44.8378, Lng: -0.5792},
	"toulouse":  {Lat: 43.6047, Lng: 1.4442},
	"nice":      {Lat: 43.7102, Lng: 7.2620},
	"nantes":    {Lat: 47.2184, Lng: -1.5536},
	"lille":     {Lat: 50.6292, Lng: 3.0573},
	"london":    {Lat: 51.5074, Lng: -0.1278},
	"berlin":    {Lat: 52.5200, Lng: 13.4050},
	"madrid":    {Lat: 40.4168, Lng: -3.7038},
	"rome":      {Lat: 41.9028, Lng: 12.4964},
	"brussels":  {Lat: 50.8503, Lng: 4.3517},
	"geneva":    {Lat: 46.2044, Lng: 6.1432},
	"amsterdam": {Lat: 52.3676, Lng: 4.9041},
}

// defaultCity is used when the destination name is not in the table.
const defaultCity = "paris"

// coordFor resolves a place name, falling back to the default city.
func coordFor(place string) domain.Coordinate {
	if c, ok := cityCoords[strings.ToLower(strings.TrimSpace(place))]; ok {
		return c
	}
	return cityCoords[defaultCity]
}

// conditionFromCode translates a WMO weather code into a short display string.
func conditionFromCode(code int) string {
	switch {
	case code == 0:
		return "Clear"
	case code <= 3:
		return "Partly cloudy"
	case code <= 48:
		return "Fog"
	case code <= 57:
		return "Drizzle"
	case code <= 67:
		return "Rain"
	case code <= 77:
		return "Snow"
	case code <= 82:
		return "Showers"
	case code <= 86:
		return "Snow showers"
	default:
		return "Thunderstorm"
	}
}

type openMeteoCurrentResponse struct {
	Current struct {
		Temperature float64 `json:"temperature_2m"`
		Humidity    int     `json:"relative_humidity_2m"`
		WeatherCode int     `json:"weather_code"`
	} `json:"current"`
}

// Current returns the current conditions for the named place.
func (o *OpenMeteo) Current(ctx context.Context, place string) (CurrentConditions, error) {
	coord := coordFor(place)
	url := fmt.Sprintf("%s/v1/forecast?latitude=%f&longitude=%f&current=temperature_2m,relative_humidity_2m,weather_code",
		o.baseURL, coord.Lat, coord.Lng)

	var body openMeteoCurrentResponse
	if err := getJSON(ctx, o.client, url, &body); err != nil {
		return CurrentConditions{}, fmt.Errorf("provider.OpenMeteo.Current: %w", err)
	}

	return CurrentConditions{
		TempC:       body.Current.Temperature,
		Condition:   conditionFromCode(body.Current.WeatherCode),
		HumidityPct: body.Current.Humidity,
	}, nil
}

type openMeteoDailyResponse struct {
	Daily struct {
		Time        []string  `json:"time"` // "2006-01-02"
		TempMax     []float64 `json:"temperature_2m_max"`
		WeatherCode []int     `json:"weather_code"`
	} `json:"daily"`
}

// Forecast returns the daily forecast for the named place, starting tomorrow.
func (o *OpenMeteo) Forecast(ctx context.Context, place string) ([]domain.ForecastEntry, error) {
	coord := coordFor(place)
	url := fmt.Sprintf("%s/v1/forecast?latitude=%f&longitude=%f&daily=temperature_2m_max,weather_code&forecast_days=4&timezone=UTC",
		o.baseURL, coord.Lat, coord.Lng)

	var body openMeteoDailyResponse
	if err := getJSON(ctx, o.client, url, &body); err != nil {
		return nil, fmt.Errorf("provider.OpenMeteo.Forecast: %w", err)
	}

	entries := make([]domain.ForecastEntry, 0, len(body.Daily.Time))
	for i, day := range body.Daily.Time {
		if i >= len(body.Daily.TempMax) || i >= len(body.Daily.WeatherCode) {
			break
		}
		date, err := time.Parse("2006-01-02", day)
		if err != nil {
			continue
		}
		// Open-Meteo's first daily entry is today; the forecast starts tomorrow.
		if !date.After(time.Now().UTC().Truncate(24 * time.Hour)) {
			continue
		}
		entries = append(entries, domain.ForecastEntry{
			Date:      date,
			TempC:     body.Daily.TempMax[i],
			Condition: conditionFromCode(body.Daily.WeatherCode[i]),
		})
	}
	return entries, nil
}
