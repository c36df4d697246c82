package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"tripsmith/internal/domain"
)

// GenerateTripRequest is the body of POST /trips.
type GenerateTripRequest struct {
	// Origin is optional; when absent the pipeline resolves the traveller's
	// current location.
	Origin          *domain.Coordinate `json:"origin,omitempty"`
	Destination     domain.Coordinate  `json:"destination"`
	DestinationName string             `json:"destination_name"`
	Mode            string             `json:"mode"`
	TripType        string             `json:"trip_type"`
	Interests       []string           `json:"interests"`
	DurationDays    int                `json:"duration_days"`
}

// GenerateTrip handles POST /trips: it runs the generation pipeline,
// persists the resulting aggregate, and returns it. Generating again with
// the same body always produces a brand-new trip.
func (s *Server) GenerateTrip(w http.ResponseWriter, r *http.Request) {
	var body GenerateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "request body is required")
		return
	}

	trip, err := s.generator.Generate(r.Context(), requestToSettings(body))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			writeError(w, http.StatusUnprocessableEntity, "validation_error", validationMessage(err))
		case errors.Is(err, domain.ErrLocationUnavailable):
			writeError(w, http.StatusBadGateway, "location_unavailable", "could not resolve a starting location")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "trip generation failed")
		}
		return
	}

	if err := s.trips.Create(r.Context(), trip); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "could not persist trip")
		return
	}

	writeJSON(w, http.StatusCreated, tripToResponse(trip))
}

// ListTrips handles GET /trips.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	params := domain.NewPaginationParams(queryInt(r, "page"), queryInt(r, "limit"))
	trips, total, err := s.trips.ListPaged(r.Context(), params)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "could not list trips")
		return
	}

	data := make([]TripResponse, len(trips))
	for i, t := range trips {
		data[i] = tripToResponse(t)
	}
	writeJSON(w, http.StatusOK, ListTripsResponse{
		Data: data,
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int(total),
		},
	})
}

// GetTrip handles GET /trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "trip not found")
		return
	}

	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "trip not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "could not load trip")
		return
	}

	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// DeleteTrip handles DELETE /trips/{id}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "trip not found")
		return
	}

	if err := s.trips.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "trip not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "could not delete trip")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- response types ---------------------------------------------------------

// TripResponse is the wire shape of a generated trip.
type TripResponse struct {
	ID        uuid.UUID               `json:"id"`
	Settings  domain.TripSettings     `json:"settings"`
	Origin    domain.ResolvedLocation `json:"origin"`
	Route     domain.RouteResult      `json:"route"`
	Stops     []domain.Stop           `json:"stops"`
	Weather   WeatherResponse         `json:"weather"`
	CreatedAt time.Time               `json:"created_at"`
}

// WeatherResponse mirrors domain.WeatherSnapshot with date-only forecast dates.
type WeatherResponse struct {
	Location      string                  `json:"location"`
	TempC         float64                 `json:"temp_c"`
	Condition     string                  `json:"condition"`
	HumidityPct   int                     `json:"humidity_pct"`
	Forecast      []ForecastEntryResponse `json:"forecast"`
	IsApproximate bool                    `json:"is_approximate"`
}

// ForecastEntryResponse renders one forecast day. Date marshals as
// "2006-01-02" — a forecast day has no meaningful time component.
type ForecastEntryResponse struct {
	Date      openapi_types.Date `json:"date"`
	TempC     float64            `json:"temp_c"`
	Condition string             `json:"condition"`
}

// ListTripsResponse is the body of GET /trips.
type ListTripsResponse struct {
	Data       []TripResponse `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

// Pagination echoes the effective paging parameters plus the total count.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// --- mapping helpers --------------------------------------------------------

// requestToSettings converts a request body into domain.TripSettings.
// Field-level validation belongs to the pipeline, not the handler.
func requestToSettings(body GenerateTripRequest) domain.TripSettings {
	settings := domain.TripSettings{
		RouteSettings: domain.RouteSettings{
			Destination: body.Destination,
			Mode:        domain.TransportMode(body.Mode),
			TripType:    domain.TripType(body.TripType),
		},
		DestinationName: body.DestinationName,
		Interests:       body.Interests,
		DurationDays:    body.DurationDays,
	}
	if body.Origin != nil {
		settings.Origin = *body.Origin
	}
	return settings
}

// tripToResponse converts a domain.Trip into its wire shape.
func tripToResponse(t domain.Trip) TripResponse {
	forecast := make([]ForecastEntryResponse, len(t.Weather.Forecast))
	for i, entry := range t.Weather.Forecast {
		forecast[i] = ForecastEntryResponse{
			Date:      openapi_types.Date{Time: entry.Date},
			TempC:     entry.TempC,
			Condition: entry.Condition,
		}
	}
	return TripResponse{
		ID:       t.ID,
		Settings: t.Settings,
		Origin:   t.Origin,
		Route:    t.Route,
		Stops:    t.Stops,
		Weather: WeatherResponse{
			Location:      t.Weather.Location,
			TempC:         t.Weather.TempC,
			Condition:     t.Weather.Condition,
			HumidityPct:   t.Weather.HumidityPct,
			Forecast:      forecast,
			IsApproximate: t.Weather.IsApproximate,
		},
		CreatedAt: t.CreatedAt,
	}
}

// queryInt parses an integer query parameter, returning nil when absent or
// malformed so pagination falls back to its defaults.
func queryInt(r *http.Request, key string) *int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}
