package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"tripsmith/internal/domain"
	"tripsmith/internal/provider"
)

// Average speeds used for the duration estimate when no routing provider
// answered, in km/h.
const (
	avgSpeedCarKmh  = 60.0
	avgSpeedBikeKmh = 20.0
)

// Calculator produces route geometry, distance, and duration for a pair of
// coordinates. It never fails: when the routing provider is absent or
// errors, it degrades to a great-circle approximation.
type Calculator struct {
	routes provider.RouteProvider // nil means no provider configured
	log    *slog.Logger
}

// NewCalculator constructs a Calculator. routes may be nil, in which case
// every result is a great-circle approximation.
func NewCalculator(routes provider.RouteProvider, log *slog.Logger) *Calculator {
	if log == nil {
		log = slog.Default()
	}
	return &Calculator{routes: routes, log: log}
}

// Compute returns the route for the given settings. The provider is asked
// first; on absence or any error the great-circle fallback applies and the
// result is flagged approximate. A round trip doubles distance and duration
// but keeps the one-way geometry.
func (c *Calculator) Compute(ctx context.Context, settings domain.RouteSettings) domain.RouteResult {
	result, err := c.fromProvider(ctx, settings)
	if err != nil {
		if c.routes != nil {
			c.log.Warn("routing provider failed, using great-circle estimate", "error", err)
		}
		result = c.greatCircle(settings)
	}

	if settings.TripType == domain.TypeRoundTrip {
		result.DistanceKm *= 2
		result.DurationMin *= 2
	}

	result.DistanceText = formatDistance(result.DistanceKm)
	result.DurationText = formatDuration(result.DurationMin)
	return result
}

// fromProvider asks the routing provider for a real road-network route.
func (c *Calculator) fromProvider(ctx context.Context, settings domain.RouteSettings) (domain.RouteResult, error) {
	if c.routes == nil {
		return domain.RouteResult{}, fmt.Errorf("no routing provider configured")
	}

	route, err := c.routes.ComputeRoute(ctx, settings.Origin, settings.Destination, settings.Mode)
	if err != nil {
		return domain.RouteResult{}, err
	}

	return domain.RouteResult{
		Waypoints:   route.Waypoints,
		DistanceKm:  route.DistanceKm,
		DurationMin: route.DurationMin,
	}, nil
}

// greatCircle computes the haversine distance between origin and destination
// and estimates the duration from the mode's average speed. The waypoint
// list is the straight two-point segment.
func (c *Calculator) greatCircle(settings domain.RouteSettings) domain.RouteResult {
	distanceKm := settings.Origin.DistanceKm(settings.Destination)

	speed := avgSpeedCarKmh
	if settings.Mode == domain.ModeBike {
		speed = avgSpeedBikeKmh
	}
	// Minutes, rounded half-up.
	durationMin := int(math.Floor(distanceKm/speed*60 + 0.5))

	return domain.RouteResult{
		Waypoints:     []domain.Coordinate{settings.Origin, settings.Destination},
		DistanceKm:    distanceKm,
		DurationMin:   durationMin,
		IsApproximate: true,
	}
}

// formatDistance renders a distance as "392.2 km". Rounding to one decimal
// happens only here; internal computation keeps full precision.
func formatDistance(km float64) string {
	return fmt.Sprintf("%.1f km", km)
}

// formatDuration renders minutes as "6h 32min" when an hour or more,
// otherwise "45min".
func formatDuration(min int) string {
	if min >= 60 {
		return fmt.Sprintf("%dh %dmin", min/60, min%60)
	}
	return fmt.Sprintf("%dmin", min)
}
