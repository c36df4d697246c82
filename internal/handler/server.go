// Package handler implements the HTTP handlers for the trip generation API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go) but all share the same Server struct so they can
// access its dependencies.
package handler

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"tripsmith/internal/domain"
)

// TripGenerator defines the pipeline operation the trip handler depends on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without running the real pipeline.
type TripGenerator interface {
	Generate(ctx context.Context, settings domain.TripSettings) (domain.Trip, error)
}

// TripStore defines the persistence operations the trip handler depends on.
// repo.TripRepo satisfies this.
type TripStore interface {
	Create(ctx context.Context, trip domain.Trip) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Server holds the handler dependencies for all API endpoints.
type Server struct {
	generator TripGenerator
	trips     TripStore
}

// NewServer constructs the Server with all its dependencies.
func NewServer(generator TripGenerator, trips TripStore) *Server {
	return &Server{generator: generator, trips: trips}
}

// Routes mounts all endpoints on a fresh chi router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Route("/trips", func(r chi.Router) {
		r.Post("/", s.GenerateTrip)
		r.Get("/", s.ListTrips)
		r.Get("/{id}", s.GetTrip)
		r.Delete("/{id}", s.DeleteTrip)
	})
	return r
}
