// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values for the API server and the trip
// generation pipeline. Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// Providers configures the external geo/weather services. An empty base
	// URL disables that provider and the pipeline falls back to its
	// documented degraded behavior (approximate route, zero stops,
	// synthetic weather).
	Providers ProviderConfig

	// Pipeline holds the trip generation tunables.
	Pipeline PipelineConfig
}

// ProviderConfig holds base URLs and the shared timeout for external calls.
type ProviderConfig struct {
	// NominatimBaseURL is the primary reverse-geocoding service.
	NominatimBaseURL string
	// GeocodeFallbackBaseURL is the secondary reverse-geocoding service,
	// tried when Nominatim errors or returns no result.
	GeocodeFallbackBaseURL string
	// IPLocateBaseURL is the IP geolocation service.
	IPLocateBaseURL string
	// OSRMBaseURL is the routing service. Empty disables live routing and
	// every route becomes a great-circle approximation.
	OSRMBaseURL string
	// OverpassBaseURL is the nearby-place search service. Empty disables
	// place discovery and every trip has zero stops.
	OverpassBaseURL string
	// WeatherBaseURL is the weather service. Empty disables live weather
	// and every trip gets the fixed fallback snapshot.
	WeatherBaseURL string
	// Timeout applies to every single external call. A timed-out call is
	// treated exactly like a provider error. Defaults to 10s.
	Timeout time.Duration
}

// PipelineConfig holds the trip generation tunables.
type PipelineConfig struct {
	// MaxStops caps the number of stops per trip. Defaults to 8.
	MaxStops int
	// SearchRadiusKm bounds each nearby-place query. Defaults to 5.
	SearchRadiusKm float64
	// NearbyFanOut bounds concurrent nearby-search calls. Defaults to 4.
	NearbyFanOut int
	// ForecastDays is the length of a synthesized forecast. Defaults to 3.
	ForecastDays int
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		Providers: ProviderConfig{
			NominatimBaseURL:       getEnv("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
			GeocodeFallbackBaseURL: getEnv("GEOCODE_FALLBACK_BASE_URL", "https://api.bigdatacloud.net"),
			IPLocateBaseURL:        getEnv("IP_LOCATE_BASE_URL", "http://ip-api.com"),
			OSRMBaseURL:            getEnv("OSRM_BASE_URL", "https://router.project-osrm.org"),
			OverpassBaseURL:        getEnv("OVERPASS_BASE_URL", "https://overpass-api.de/api/interpreter"),
			WeatherBaseURL:         getEnv("WEATHER_BASE_URL", "https://api.open-meteo.com"),
			Timeout:                getEnvDuration("PROVIDER_TIMEOUT", 10*time.Second),
		},
		Pipeline: PipelineConfig{
			MaxStops:       getEnvInt("MAX_STOPS", 8),
			SearchRadiusKm: getEnvFloat("SEARCH_RADIUS_KM", 5),
			NearbyFanOut:   getEnvInt("NEARBY_FAN_OUT", 4),
			ForecastDays:   getEnvInt("FORECAST_DAYS", 3),
		},
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt parses the named variable as an int, falling back on absence or
// a parse error.
func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// getEnvFloat parses the named variable as a float64, falling back on
// absence or a parse error.
func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// getEnvDuration parses the named variable as a time.Duration (e.g. "10s"),
// falling back on absence or a parse error.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
