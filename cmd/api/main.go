// Package main is the entry point for the trip-booking API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"database/sql"
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
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/asandov/tripmarket/internal/config"
	"github.com/asandov/tripmarket/internal/handler"
	"github.com/asandov/tripmarket/internal/middleware"
	"github.com/asandov/tripmarket/internal/repo"
	"github.com/asandov/tripmarket/internal/service"
	"github.com/asandov/tripmarket/migrations"
)

// maxBodyBytes caps incoming request bodies. The largest legitimate payload
// is a booking with a full traveler roster, well under this limit.
const maxBodyBytes = 1 << 20 // 1 MiB

func main() {
	// --- Config -----------------------------------------------------------
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

	// --- Migrations -------------------------------------------------------
	// goose drives the embedded SQL migrations through a database/sql
	// connection; the pgx pool above is for queries only.
	if err := migrateUp(cfg.DatabaseURL); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("migrations applied")

	// --- Repositories -----------------------------------------------------
	tripRepo := repo.NewTripRepo(pool)
	scheduleRepo := repo.NewScheduleRepo(pool)
	bookingRepo := repo.NewBookingRepo(pool)
	notificationRepo := repo.NewNotificationRepo(pool)
	userRepo := repo.NewUserRepo(pool)

	// --- Services ---------------------------------------------------------
	watcher := service.NewSeatWatcher()
	authz := service.NewAuthorizer(userRepo, cfg.AdminEmail)

	var mailer service.Mailer = service.NopMailer{}
	if cfg.MailerURL != "" {
		mailer = service.NewWebhookMailer(cfg.MailerURL)
	} else {
		slog.Warn("MAILER_URL not set; confirmation emails are disabled")
	}

	tripSvc := service.NewTripService(tripRepo, scheduleRepo)
	scheduleSvc := service.NewScheduleService(tripRepo, scheduleRepo, watcher)
	fanoutSvc := service.NewFanoutService(userRepo, notificationRepo, cfg.AdminEmail)
	bookingSvc := service.NewBookingService(tripRepo, scheduleRepo, bookingRepo, scheduleSvc, fanoutSvc, logger)
	statusSvc := service.NewStatusService(bookingRepo, tripRepo, scheduleRepo, userRepo, notificationRepo, scheduleSvc, authz, mailer, logger)
	attendanceSvc := service.NewAttendanceService(bookingRepo, notificationRepo, authz, logger)
	notificationSvc := service.NewNotificationService(notificationRepo)

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

	srvHandler := handler.NewServer(
		tripSvc,
		scheduleSvc,
		bookingSvc,
		statusSvc,
		attendanceSvc,
		notificationSvc,
		fanoutSvc,
		authz,
		scheduleSvc.Watcher(),
	)
	r.Mount("/", srvHandler.Routes(middleware.NewAuthHandler([]byte(cfg.JWTSecret))))

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	// WriteTimeout is generous because the seat stream holds its response open.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Minute,
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

// migrateUp applies all pending embedded migrations.
func migrateUp(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}
	_, err = provider.Up(context.Background())
	return err
}
