package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"tripsmith/internal/domain"
)

// OriginResolver resolves the traveller's current location.
// *Chain satisfies this.
type OriginResolver interface {
	Resolve(ctx context.Context, order []domain.LocationSource) (domain.ResolvedLocation, error)
}

// RouteComputer computes a route for the given settings. *Calculator
// satisfies this.
type RouteComputer interface {
	Compute(ctx context.Context, settings domain.RouteSettings) domain.RouteResult
}

// StopSampler discovers stops along a computed route. *Sampler satisfies this.
type StopSampler interface {
	SampleAlongRoute(ctx context.Context, route domain.RouteResult, interests []string, maxStops int) []domain.Stop
}

// WeatherLookup fetches destination weather. *Enricher satisfies this.
type WeatherLookup interface {
	Enrich(ctx context.Context, destination string) domain.WeatherSnapshot
}

// TripAssembler orchestrates the pipeline into one immutable Trip aggregate.
// It is the sole public entry point of the generation core and the only
// component allowed to construct a Trip.
//
// Each Generate call is fully independent: no state is shared across calls,
// so regenerating never reads leftovers from a prior in-flight run.
type TripAssembler struct {
	locations OriginResolver
	routes    RouteComputer
	places    StopSampler
	weather   WeatherLookup
	maxStops  int
	now       func() time.Time
	log       *slog.Logger
}

// NewTripAssembler constructs a TripAssembler. maxStops caps the stops per
// trip (default 8).
func NewTripAssembler(locations OriginResolver, routes RouteComputer, places StopSampler, weather WeatherLookup, maxStops int, log *slog.Logger) *TripAssembler {
	if maxStops <= 0 {
		maxStops = 8
	}
	if log == nil {
		log = slog.Default()
	}
	return &TripAssembler{
		locations: locations,
		routes:    routes,
		places:    places,
		weather:   weather,
		maxStops:  maxStops,
		now:       time.Now,
		log:       log,
	}
}

// Generate runs the pipeline: validate, resolve origin if needed, compute
// the route, then discover stops and fetch weather concurrently, and freeze
// a new Trip. The only failures that cross this boundary are
// domain.ErrValidation (before any external call) and
// domain.ErrLocationUnavailable (origin resolution exhausted); every other
// provider failure has already degraded into approximate data. Cancelling
// ctx aborts in-flight calls and discards partial results.
func (a *TripAssembler) Generate(ctx context.Context, settings domain.TripSettings) (domain.Trip, error) {
	if err := validateSettings(settings); err != nil {
		return domain.Trip{}, err
	}

	origin, err := a.resolveOrigin(ctx, settings)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripAssembler.Generate: %w", err)
	}
	settings.Origin = origin.Coordinate

	route := a.routes.Compute(ctx, settings.RouteSettings)

	// Stops and weather are independent of each other and of any shared
	// state once the route exists, so they run concurrently. Both degrade
	// rather than fail, so the group only synchronizes.
	var (
		stops   []domain.Stop
		weather domain.WeatherSnapshot
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stops = a.places.SampleAlongRoute(gctx, route, settings.Interests, a.maxStops)
		return nil
	})
	g.Go(func() error {
		weather = a.weather.Enrich(gctx, settings.DestinationName)
		return nil
	})
	_ = g.Wait()

	// A cancelled generation returns an error, never a Trip built from
	// whatever had finished.
	if err := ctx.Err(); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripAssembler.Generate: %w", err)
	}

	trip := domain.Trip{
		ID:        uuid.New(),
		Settings:  settings,
		Origin:    origin,
		Route:     route,
		Stops:     stops,
		Weather:   weather,
		CreatedAt: a.now().UTC(),
	}

	a.log.Info("trip generated",
		"trip_id", trip.ID,
		"distance_km", route.DistanceKm,
		"stops", len(stops),
		"route_approximate", route.IsApproximate,
		"weather_approximate", weather.IsApproximate,
	)
	return trip, nil
}

// resolveOrigin returns the trip origin, running the strategy chain only
// when the caller did not supply a concrete coordinate.
func (a *TripAssembler) resolveOrigin(ctx context.Context, settings domain.TripSettings) (domain.ResolvedLocation, error) {
	if !settings.Origin.IsZero() {
		return domain.ResolvedLocation{
			Coordinate: settings.Origin,
			Source:     domain.SourceManual,
		}, nil
	}
	return a.locations.Resolve(ctx, nil)
}

// validateSettings rejects malformed input before any external call.
func validateSettings(settings domain.TripSettings) error {
	switch {
	case settings.DestinationName == "":
		return domain.Validationf("destination name is required")
	case settings.Destination.IsZero() || !settings.Destination.Valid():
		return domain.Validationf("destination coordinate is required")
	case !settings.Origin.IsZero() && !settings.Origin.Valid():
		return domain.Validationf("origin coordinate out of range")
	case !settings.Mode.Valid():
		return domain.Validationf("unknown transport mode %q", settings.Mode)
	case !settings.TripType.Valid():
		return domain.Validationf("unknown trip type %q", settings.TripType)
	case settings.DurationDays < 1:
		return domain.Validationf("duration must be at least one day")
	}
	return nil
}
