package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripsmith/internal/domain"
	"tripsmith/internal/service"
)

// ---- mock pipeline components ----------------------------------------------

type mockResolver struct {
	resolve func(ctx context.Context, order []domain.LocationSource) (domain.ResolvedLocation, error)
}

func (m *mockResolver) Resolve(ctx context.Context, order []domain.LocationSource) (domain.ResolvedLocation, error) {
	return m.resolve(ctx, order)
}

var _ service.OriginResolver = (*mockResolver)(nil)

// newAssembler wires a TripAssembler from real pipeline components with no
// providers configured, plus the given resolver. With no providers every
// component takes its documented fallback, which makes the pipeline fully
// deterministic apart from synthetic forecast temperatures.
func newAssembler(resolver service.OriginResolver) *service.TripAssembler {
	return service.NewTripAssembler(
		resolver,
		service.NewCalculator(nil, nil),
		service.NewSampler(nil, 5, 4, nil),
		service.NewEnricher(nil, 3, nil),
		8,
		nil,
	)
}

func validSettings() domain.TripSettings {
	return domain.TripSettings{
		RouteSettings: domain.RouteSettings{
			Origin:      paris,
			Destination: lyon,
			Mode:        domain.ModeCar,
			TripType:    domain.TypeOneWay,
		},
		DestinationName: "Lyon",
		Interests:       []string{"cultureMuseum"},
		DurationDays:    3,
	}
}

// ---- Generate --------------------------------------------------------------

// TestTripAssembler_Generate_noProviders runs the pipeline end to end:
// Paris–Lyon by car with no providers configured degrades everywhere but
// still produces a complete Trip.
func TestTripAssembler_Generate_noProviders(t *testing.T) {
	assembler := newAssembler(nil) // origin supplied, resolver must not run

	trip, err := assembler.Generate(context.Background(), validSettings())

	require.NoError(t, err)
	assert.InDelta(t, 391.499, trip.Route.DistanceKm, 0.001)
	assert.True(t, trip.Route.IsApproximate)
	assert.Empty(t, trip.Stops)
	assert.True(t, trip.Weather.IsApproximate)
	assert.NotEqual(t, trip.ID.String(), "00000000-0000-0000-0000-000000000000")
	assert.False(t, trip.CreatedAt.IsZero())
	assert.Equal(t, domain.SourceManual, trip.Origin.Source)
}

// TestTripAssembler_Generate_skipsResolutionWithConcreteOrigin verifies the
// RESOLVING_ORIGIN step is skipped when a coordinate was supplied.
func TestTripAssembler_Generate_skipsResolutionWithConcreteOrigin(t *testing.T) {
	assembler := newAssembler(&mockResolver{
		resolve: func(_ context.Context, _ []domain.LocationSource) (domain.ResolvedLocation, error) {
			t.Fatal("origin resolution must not run when a coordinate is supplied")
			return domain.ResolvedLocation{}, nil
		},
	})

	_, err := assembler.Generate(context.Background(), validSettings())

	require.NoError(t, err)
}

// TestTripAssembler_Generate_resolvesMissingOrigin verifies the resolver runs
// when the origin is absent and its coordinate flows into the route.
func TestTripAssembler_Generate_resolvesMissingOrigin(t *testing.T) {
	assembler := newAssembler(&mockResolver{
		resolve: func(_ context.Context, _ []domain.LocationSource) (domain.ResolvedLocation, error) {
			return domain.ResolvedLocation{Coordinate: paris, City: "Paris", Country: "France", Source: domain.SourceGPS}, nil
		},
	})

	settings := validSettings()
	settings.Origin = domain.Coordinate{}

	trip, err := assembler.Generate(context.Background(), settings)

	require.NoError(t, err)
	assert.Equal(t, "Paris", trip.Origin.City)
	assert.Equal(t, paris, trip.Route.Waypoints[0])
}

// TestTripAssembler_Generate_locationUnavailable: exhausted origin
// resolution is the single terminal failure.
func TestTripAssembler_Generate_locationUnavailable(t *testing.T) {
	assembler := newAssembler(&mockResolver{
		resolve: func(_ context.Context, _ []domain.LocationSource) (domain.ResolvedLocation, error) {
			return domain.ResolvedLocation{}, domain.ErrLocationUnavailable
		},
	})

	settings := validSettings()
	settings.Origin = domain.Coordinate{}

	_, err := assembler.Generate(context.Background(), settings)

	assert.ErrorIs(t, err, domain.ErrLocationUnavailable)
}

// TestTripAssembler_Generate_validation rejects malformed settings before
// any pipeline work.
func TestTripAssembler_Generate_validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.TripSettings)
	}{
		{"missing destination name", func(s *domain.TripSettings) { s.DestinationName = "" }},
		{"missing destination coordinate", func(s *domain.TripSettings) { s.Destination = domain.Coordinate{} }},
		{"destination out of range", func(s *domain.TripSettings) { s.Destination = domain.Coordinate{Lat: 91, Lng: 0} }},
		{"origin out of range", func(s *domain.TripSettings) { s.Origin = domain.Coordinate{Lat: 0, Lng: 181} }},
		{"unknown mode", func(s *domain.TripSettings) { s.Mode = "plane" }},
		{"unknown trip type", func(s *domain.TripSettings) { s.TripType = "loop" }},
		{"zero duration", func(s *domain.TripSettings) { s.DurationDays = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assembler := newAssembler(nil)
			settings := validSettings()
			tt.mutate(&settings)

			_, err := assembler.Generate(context.Background(), settings)

			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

// TestTripAssembler_Generate_idempotentNonMutation: generating twice with
// identical settings and deterministic components gives fresh identity but
// identical content.
func TestTripAssembler_Generate_idempotentNonMutation(t *testing.T) {
	assembler := service.NewTripAssembler(
		nil,
		service.NewCalculator(nil, nil),
		service.NewSampler(nil, 5, 4, nil),
		// The nil-provider fallback snapshot has no random component, so
		// both runs produce byte-identical weather.
		service.NewEnricher(nil, 3, nil),
		8,
		nil,
	)

	first, err := assembler.Generate(context.Background(), validSettings())
	require.NoError(t, err)
	second, err := assembler.Generate(context.Background(), validSettings())
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Route, second.Route)
	assert.Equal(t, first.Stops, second.Stops)
	assert.Equal(t, first.Weather, second.Weather)
}

// TestTripAssembler_Generate_cancelled: a cancelled context yields an error,
// never a Trip assembled from partial results.
func TestTripAssembler_Generate_cancelled(t *testing.T) {
	assembler := newAssembler(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := assembler.Generate(ctx, validSettings())

	assert.ErrorIs(t, err, context.Canceled)
}
