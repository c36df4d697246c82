// Package repo contains all database access logic for the trip generation
// service. No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"tripsmith/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TripRepo defines the persistence operations for generated Trips.
// The handler layer depends on this interface, not the concrete Postgres
// implementation, which allows handlers to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a generated trip. The aggregate already carries its ID
	// and CreatedAt from the assembler; nothing is DB-generated.
	Create(ctx context.Context, trip domain.Trip) error

	// GetByID retrieves a single trip by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// ListPaged returns trips ordered by created_at descending, plus the
	// total row count for pagination.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)

	// Delete removes a trip by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

// Create inserts the trip aggregate. The route polyline is stored as a
// GeoJSON LineString; settings, origin, stops, and weather as JSONB.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) error {
	const q = `
		INSERT INTO trips (
			id, destination_name, settings, origin,
			route_geometry, distance_km, duration_min,
			distance_text, duration_text, route_approximate,
			stops, weather, created_at
		) VALUES (
			@id, @destination_name, @settings, @origin,
			@route_geometry, @distance_km, @duration_min,
			@distance_text, @duration_text, @route_approximate,
			@stops, @weather, @created_at
		)`

	geometry, err := encodeGeometry(trip.Route.Waypoints)
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	settings, err := json.Marshal(trip.Settings)
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Create: marshal settings: %w", err)
	}
	origin, err := json.Marshal(trip.Origin)
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Create: marshal origin: %w", err)
	}
	stops, err := json.Marshal(trip.Stops)
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Create: marshal stops: %w", err)
	}
	weather, err := json.Marshal(trip.Weather)
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Create: marshal weather: %w", err)
	}

	args := pgx.NamedArgs{
		"id":                trip.ID,
		"destination_name":  trip.Settings.DestinationName,
		"settings":          settings,
		"origin":            origin,
		"route_geometry":    geometry,
		"distance_km":       trip.Route.DistanceKm,
		"duration_min":      trip.Route.DurationMin,
		"distance_text":     trip.Route.DistanceText,
		"duration_text":     trip.Route.DurationText,
		"route_approximate": trip.Route.IsApproximate,
		"stops":             stops,
		"weather":           weather,
		"created_at":        trip.CreatedAt,
	}

	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return nil
}

// GetByID retrieves a trip by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `
		SELECT id, settings, origin,
		       route_geometry, distance_km, duration_min,
		       distance_text, duration_text, route_approximate,
		       stops, weather, created_at
		FROM trips
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	trip, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return trip, nil
}

// ListPaged returns one page of trips, most recent first, plus the total count.
func (r *pgTripRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	const countQ = `SELECT count(*) FROM trips`

	var total int64
	if err := r.db.QueryRow(ctx, countQ).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: count: %w", err)
	}

	const q = `
		SELECT id, settings, origin,
		       route_geometry, distance_km, duration_min,
		       distance_text, duration_text, route_approximate,
		       stops, weather, created_at
		FROM trips
		ORDER BY created_at DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: %w", err)
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: %w", err)
	}
	return trips, total, nil
}

// Delete removes a trip by ID.
func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanTrip maps one row onto a domain.Trip, decoding the JSONB columns and
// the GeoJSON route geometry.
func scanTrip(row pgx.Row) (domain.Trip, error) {
	var (
		trip     domain.Trip
		settings []byte
		origin   []byte
		geometry []byte
		stops    []byte
		weather  []byte
	)
	err := row.Scan(
		&trip.ID, &settings, &origin,
		&geometry, &trip.Route.DistanceKm, &trip.Route.DurationMin,
		&trip.Route.DistanceText, &trip.Route.DurationText, &trip.Route.IsApproximate,
		&stops, &weather, &trip.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Trip{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Trip{}, err
	}

	if err := json.Unmarshal(settings, &trip.Settings); err != nil {
		return domain.Trip{}, fmt.Errorf("decode settings: %w", err)
	}
	if err := json.Unmarshal(origin, &trip.Origin); err != nil {
		return domain.Trip{}, fmt.Errorf("decode origin: %w", err)
	}
	if err := json.Unmarshal(stops, &trip.Stops); err != nil {
		return domain.Trip{}, fmt.Errorf("decode stops: %w", err)
	}
	if err := json.Unmarshal(weather, &trip.Weather); err != nil {
		return domain.Trip{}, fmt.Errorf("decode weather: %w", err)
	}
	trip.Route.Waypoints, err = decodeGeometry(geometry)
	if err != nil {
		return domain.Trip{}, err
	}
	return trip, nil
}

// encodeGeometry renders the waypoint polyline as a GeoJSON LineString.
// GeoJSON coordinate order is [lng, lat].
func encodeGeometry(waypoints []domain.Coordinate) ([]byte, error) {
	coords := make([]geom.Coord, len(waypoints))
	for i, wp := range waypoints {
		coords[i] = geom.Coord{wp.Lng, wp.Lat}
	}
	line, err := geom.NewLineString(geom.XY).SetCoords(coords)
	if err != nil {
		return nil, fmt.Errorf("encode geometry: %w", err)
	}
	out, err := geojson.Marshal(line)
	if err != nil {
		return nil, fmt.Errorf("encode geometry: %w", err)
	}
	return out, nil
}

// decodeGeometry parses a GeoJSON LineString back into waypoints.
func decodeGeometry(raw []byte) ([]domain.Coordinate, error) {
	var g geom.T
	if err := geojson.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("decode geometry: %w", err)
	}
	line, ok := g.(*geom.LineString)
	if !ok {
		return nil, fmt.Errorf("decode geometry: unexpected type %T", g)
	}
	coords := line.Coords()
	waypoints := make([]domain.Coordinate, len(coords))
	for i, c := range coords {
		waypoints[i] = domain.Coordinate{Lat: c[1], Lng: c[0]}
	}
	return waypoints, nil
}
