package service

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"tripsmith/internal/domain"
	"tripsmith/internal/provider"
)

// errNoWeatherProvider marks the "not configured" case so it degrades the
// same way a failing provider does.
var errNoWeatherProvider = errors.New("no weather provider configured")

// syntheticTempSpreadC bounds the random perturbation applied to the current
// temperature when a forecast has to be synthesized.
const syntheticTempSpreadC = 2.0

// Fixed snapshot returned when even current conditions cannot be fetched.
const (
	fallbackTempC       = 20.0
	fallbackCondition   = "Sunny"
	fallbackHumidityPct = 60
)

// Enricher fetches destination weather with synthetic fallbacks. It never
// fails: on provider error it returns a best-effort snapshot flagged
// approximate.
type Enricher struct {
	weather      provider.WeatherProvider // nil means no provider configured
	forecastDays int
	now          func() time.Time
	log          *slog.Logger
}

// NewEnricher constructs an Enricher. weather may be nil, in which case
// every snapshot is the fixed fallback. forecastDays is the length of a
// synthesized forecast (default 3).
func NewEnricher(weather provider.WeatherProvider, forecastDays int, log *slog.Logger) *Enricher {
	if forecastDays <= 0 {
		forecastDays = 3
	}
	if log == nil {
		log = slog.Default()
	}
	return &Enricher{weather: weather, forecastDays: forecastDays, now: time.Now, log: log}
}

// Enrich returns the weather snapshot for the named destination.
// Current conditions failing yields the fixed fallback snapshot; the
// forecast failing or coming back empty yields a synthesized forecast built
// from the current conditions. Either path flags the snapshot approximate.
func (e *Enricher) Enrich(ctx context.Context, destination string) domain.WeatherSnapshot {
	current, err := e.fetchCurrent(ctx, destination)
	if err != nil {
		e.log.Warn("current weather unavailable, using fallback snapshot", "destination", destination, "error", err)
		return domain.WeatherSnapshot{
			Location:      destination,
			TempC:         fallbackTempC,
			Condition:     fallbackCondition,
			HumidityPct:   fallbackHumidityPct,
			Forecast:      []domain.ForecastEntry{},
			IsApproximate: true,
		}
	}

	snapshot := domain.WeatherSnapshot{
		Location:    destination,
		TempC:       current.TempC,
		Condition:   current.Condition,
		HumidityPct: current.HumidityPct,
	}

	forecast, err := e.fetchForecast(ctx, destination)
	if err != nil || len(forecast) == 0 {
		if err != nil {
			e.log.Warn("forecast unavailable, synthesizing", "destination", destination, "error", err)
		}
		snapshot.Forecast = e.synthesizeForecast(current)
		snapshot.IsApproximate = true
		return snapshot
	}

	snapshot.Forecast = forecast
	return snapshot
}

func (e *Enricher) fetchCurrent(ctx context.Context, destination string) (provider.CurrentConditions, error) {
	if e.weather == nil {
		return provider.CurrentConditions{}, errNoWeatherProvider
	}
	return e.weather.Current(ctx, destination)
}

func (e *Enricher) fetchForecast(ctx context.Context, destination string) ([]domain.ForecastEntry, error) {
	if e.weather == nil {
		return nil, errNoWeatherProvider
	}
	return e.weather.Forecast(ctx, destination)
}

// synthesizeForecast builds one entry per day starting tomorrow, perturbing
// the current temperature by a bounded random delta and reusing the current
// condition.
func (e *Enricher) synthesizeForecast(current provider.CurrentConditions) []domain.ForecastEntry {
	today := e.now().UTC().Truncate(24 * time.Hour)
	entries := make([]domain.ForecastEntry, 0, e.forecastDays)
	for day := 1; day <= e.forecastDays; day++ {
		delta := (rand.Float64()*2 - 1) * syntheticTempSpreadC
		entries = append(entries, domain.ForecastEntry{
			Date:      today.AddDate(0, 0, day),
			TempC:     current.TempC + delta,
			Condition: current.Condition,
		})
	}
	return entries
}
