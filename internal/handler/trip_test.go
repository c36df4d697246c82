package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripsmith/internal/domain"
	"tripsmith/internal/handler"
)

// ---- mocks -----------------------------------------------------------------

// mockGenerator is a hand-written test double for handler.TripGenerator.
type mockGenerator struct {
	generate func(ctx context.Context, settings domain.TripSettings) (domain.Trip, error)
}

func (m *mockGenerator) Generate(ctx context.Context, settings domain.TripSettings) (domain.Trip, error) {
	return m.generate(ctx, settings)
}

var _ handler.TripGenerator = (*mockGenerator)(nil)

// mockTripStore is a hand-written test double for handler.TripStore.
type mockTripStore struct {
	create    func(ctx context.Context, trip domain.Trip) error
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listPaged func(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	delete    func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTripStore) Create(ctx context.Context, trip domain.Trip) error {
	if m.create != nil {
		return m.create(ctx, trip)
	}
	return nil
}
func (m *mockTripStore) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripStore) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listPaged(ctx, p)
}
func (m *mockTripStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ handler.TripStore = (*mockTripStore)(nil)

// ---- helpers ---------------------------------------------------------------

func sampleTrip() domain.Trip {
	return domain.Trip{
		ID: uuid.New(),
		Settings: domain.TripSettings{
			RouteSettings: domain.RouteSettings{
				Origin:      domain.Coordinate{Lat: 48.8566, Lng: 2.3522},
				Destination: domain.Coordinate{Lat: 45.7640, Lng: 4.8357},
				Mode:        domain.ModeCar,
				TripType:    domain.TypeOneWay,
			},
			DestinationName: "Lyon",
			DurationDays:    3,
		},
		Route: domain.RouteResult{
			Waypoints:     []domain.Coordinate{{Lat: 48.8566, Lng: 2.3522}, {Lat: 45.7640, Lng: 4.8357}},
			DistanceKm:    392.2,
			DurationMin:   392,
			DistanceText:  "392.2 km",
			DurationText:  "6h 32min",
			IsApproximate: true,
		},
		Stops: []domain.Stop{},
		Weather: domain.WeatherSnapshot{
			Location:  "Lyon",
			TempC:     20,
			Condition: "Sunny",
			Forecast: []domain.ForecastEntry{
				{Date: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), TempC: 21, Condition: "Sunny"},
			},
			IsApproximate: true,
		},
		CreatedAt: time.Now().UTC(),
	}
}

const generateBody = `{
	"origin": {"lat": 48.8566, "lng": 2.3522},
	"destination": {"lat": 45.7640, "lng": 4.8357},
	"destination_name": "Lyon",
	"mode": "car",
	"trip_type": "one_way",
	"interests": ["cultureMuseum"],
	"duration_days": 3
}`

func doRequest(t *testing.T, srv *handler.Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	return rec
}

// ---- GenerateTrip ----------------------------------------------------------

func TestGenerateTrip_OK(t *testing.T) {
	trip := sampleTrip()
	var persisted *domain.Trip
	srv := handler.NewServer(
		&mockGenerator{generate: func(_ context.Context, settings domain.TripSettings) (domain.Trip, error) {
			assert.Equal(t, "Lyon", settings.DestinationName)
			assert.Equal(t, domain.ModeCar, settings.Mode)
			return trip, nil
		}},
		&mockTripStore{create: func(_ context.Context, tr domain.Trip) error {
			persisted = &tr
			return nil
		}},
	)

	rec := doRequest(t, srv, http.MethodPost, "/trips", generateBody)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, persisted)
	assert.Equal(t, trip.ID, persisted.ID)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, trip.ID.String(), resp["id"])
	// Forecast dates are date-only on the wire.
	weather := resp["weather"].(map[string]any)
	forecast := weather["forecast"].([]any)
	require.Len(t, forecast, 1)
	assert.Equal(t, "2026-09-01", forecast[0].(map[string]any)["date"])
}

func TestGenerateTrip_missingBody(t *testing.T) {
	srv := handler.NewServer(&mockGenerator{generate: func(_ context.Context, _ domain.TripSettings) (domain.Trip, error) {
		t.Fatal("generator must not run without a body")
		return domain.Trip{}, nil
	}}, &mockTripStore{})

	rec := doRequest(t, srv, http.MethodPost, "/trips", "")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGenerateTrip_validationError(t *testing.T) {
	srv := handler.NewServer(
		&mockGenerator{generate: func(_ context.Context, _ domain.TripSettings) (domain.Trip, error) {
			// Wrapped the way the pipeline wraps it; the reason must still
			// surface in the response body.
			return domain.Trip{}, fmt.Errorf("service.TripAssembler.Generate: %w",
				domain.Validationf("destination name is required"))
		}},
		&mockTripStore{},
	)

	rec := doRequest(t, srv, http.MethodPost, "/trips", `{"mode":"car"}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp handler.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "validation_error", resp.Error.Code)
	assert.Equal(t, "destination name is required", resp.Error.Message)
}

func TestGenerateTrip_validationErrorBareSentinel(t *testing.T) {
	srv := handler.NewServer(
		&mockGenerator{generate: func(_ context.Context, _ domain.TripSettings) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrValidation
		}},
		&mockTripStore{},
	)

	rec := doRequest(t, srv, http.MethodPost, "/trips", `{"mode":"car"}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp handler.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid input", resp.Error.Message)
}

func TestGenerateTrip_locationUnavailable(t *testing.T) {
	srv := handler.NewServer(
		&mockGenerator{generate: func(_ context.Context, _ domain.TripSettings) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("service.TripAssembler.Generate: %w", domain.ErrLocationUnavailable)
		}},
		&mockTripStore{},
	)

	rec := doRequest(t, srv, http.MethodPost, "/trips", generateBody)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	var resp handler.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "location_unavailable", resp.Error.Code)
}

// ---- GetTrip ---------------------------------------------------------------

func TestGetTrip_OK(t *testing.T) {
	trip := sampleTrip()
	srv := handler.NewServer(nil, &mockTripStore{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Trip, error) {
			assert.Equal(t, trip.ID, id)
			return trip, nil
		},
	})

	rec := doRequest(t, srv, http.MethodGet, "/trips/"+trip.ID.String(), "")

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGetTrip_notFound(t *testing.T) {
	srv := handler.NewServer(nil, &mockTripStore{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrNotFound
		},
	})

	rec := doRequest(t, srv, http.MethodGet, "/trips/"+uuid.NewString(), "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetTrip_malformedID(t *testing.T) {
	srv := handler.NewServer(nil, &mockTripStore{})

	rec := doRequest(t, srv, http.MethodGet, "/trips/not-a-uuid", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ---- ListTrips -------------------------------------------------------------

func TestListTrips_paging(t *testing.T) {
	srv := handler.NewServer(nil, &mockTripStore{
		listPaged: func(_ context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
			assert.Equal(t, 2, p.Page)
			assert.Equal(t, 5, p.Limit)
			return []domain.Trip{sampleTrip()}, 11, nil
		},
	})

	rec := doRequest(t, srv, http.MethodGet, "/trips?page=2&limit=5", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp handler.ListTripsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, 2, resp.Pagination.Page)
	assert.Equal(t, 11, resp.Pagination.Total)
}

func TestListTrips_storeError(t *testing.T) {
	srv := handler.NewServer(nil, &mockTripStore{
		listPaged: func(_ context.Context, _ domain.PaginationParams) ([]domain.Trip, int64, error) {
			return nil, 0, errors.New("db down")
		},
	})

	rec := doRequest(t, srv, http.MethodGet, "/trips", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

// ---- DeleteTrip ------------------------------------------------------------

func TestDeleteTrip_OK(t *testing.T) {
	srv := handler.NewServer(nil, &mockTripStore{
		delete: func(_ context.Context, _ uuid.UUID) error { return nil },
	})

	rec := doRequest(t, srv, http.MethodDelete, "/trips/"+uuid.NewString(), "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDeleteTrip_notFound(t *testing.T) {
	srv := handler.NewServer(nil, &mockTripStore{
		delete: func(_ context.Context, _ uuid.UUID) error {
			return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
		},
	})

	rec := doRequest(t, srv, http.MethodDelete, "/trips/"+uuid.NewString(), "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
