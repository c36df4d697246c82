// Package main is the entry point for the trip generation API server.
// Its sole responsibility is wiring dependencies together and starting the
// server. No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"tripsmith/internal/config"
	"tripsmith/internal/handler"
	"tripsmith/internal/middleware"
	"tripsmith/internal/provider"
	"tripsmith/internal/repo"
	"tripsmith/internal/service"
	"tripsmith/migrations"
)

// maxBodyBytes bounds request bodies. Trip settings are small; anything
// bigger than 1 MiB is not a legitimate request.
const maxBodyBytes = 1 << 20

func main() {
	// --- Config -----------------------------------------------------------
	// .env is a local-development convenience; a missing file is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// log/slog is the stdlib structured logger introduced in Go 1.21.
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections immediately — the first query does.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	// Apply pending migrations at boot. goose needs database/sql, so borrow
	// a *sql.DB view of the pool for the duration of the migration run.
	if err := migrate(context.Background(), pool); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// --- Providers --------------------------------------------------------
	// An empty base URL leaves the corresponding interface nil, which the
	// pipeline treats as "provider unavailable" and degrades accordingly.
	pc := cfg.Providers

	var geocoders []provider.ReverseGeocoder
	if pc.NominatimBaseURL != "" {
		geocoders = append(geocoders, provider.NewNominatim(pc.NominatimBaseURL, pc.Timeout))
	}
	if pc.GeocodeFallbackBaseURL != "" {
		geocoders = append(geocoders, provider.NewBigDataCloud(pc.GeocodeFallbackBaseURL, pc.Timeout))
	}

	var ipLocator provider.IPLocator
	if pc.IPLocateBaseURL != "" {
		ipLocator = provider.NewIPAPI(pc.IPLocateBaseURL, pc.Timeout)
	}

	var routeProvider provider.RouteProvider
	if pc.OSRMBaseURL != "" {
		routeProvider = provider.NewOSRM(pc.OSRMBaseURL, pc.Timeout)
	}

	var placeProvider provider.PlaceProvider
	if pc.OverpassBaseURL != "" {
		placeProvider = provider.NewOverpass(pc.OverpassBaseURL, pc.Timeout)
	}

	var weatherProvider provider.WeatherProvider
	if pc.WeatherBaseURL != "" {
		weatherProvider = provider.NewOpenMeteo(pc.WeatherBaseURL, pc.Timeout)
	}

	// --- Pipeline ---------------------------------------------------------
	// The server has no device position source, so the GPS strategy always
	// fails over to IP geolocation for requests without an explicit origin.
	locations := service.NewChain(nil, geocoders, ipLocator, logger)
	routes := service.NewCalculator(routeProvider, logger)
	places := service.NewSampler(placeProvider, cfg.Pipeline.SearchRadiusKm, cfg.Pipeline.NearbyFanOut, logger)
	weather := service.NewEnricher(weatherProvider, cfg.Pipeline.ForecastDays, logger)
	assembler := service.NewTripAssembler(locations, routes, places, weather, cfg.Pipeline.MaxStops, logger)

	trips := repo.NewTripRepo(pool)
	server := handler.NewServer(assembler, trips)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer.
	// RequestID generates a unique trace ID per request.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a proxy).
	// SlogLogger writes one structured JSON log line per request.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(maxBodyBytes))

	r.Mount("/", server.Routes())

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// migrate applies all pending goose migrations from the embedded FS.
func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	gp, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}

	results, err := gp.Up(ctx)
	if err != nil {
		return err
	}
	for _, res := range results {
		slog.Info("applied migration", "source", res.Source.Path)
	}
	return nil
}
