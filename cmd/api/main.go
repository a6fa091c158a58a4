// Package main is the entry point for the Planoraa API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
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

	"github.com/planoraa/planoraa-api/internal/auth"
	"github.com/planoraa/planoraa-api/internal/config"
	"github.com/planoraa/planoraa-api/internal/events"
	"github.com/planoraa/planoraa-api/internal/handler"
	"github.com/planoraa/planoraa-api/internal/middleware"
	"github.com/planoraa/planoraa-api/internal/obs"
	"github.com/planoraa/planoraa-api/internal/service"
)

const serviceName = "planoraa-api"

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// bcryptCost matches the cost existing password hashes were created with.
const bcryptCost = 12

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	// --- Tracing ----------------------------------------------------------
	shutdownTracer, err := obs.InitTracer(ctx, serviceName, version, cfg.AppEnv, cfg.OTLPEndpoint)
	if err != nil {
		slog.Error("failed to initialise tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			slog.Warn("tracer shutdown", "error", err)
		}
	}()

	// --- Storage ----------------------------------------------------------
	st, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer st.close()
	slog.Info("store ready", "driver", cfg.StoreDriver)

	// --- Events -----------------------------------------------------------
	var pub events.Publisher = events.Noop{}
	if cfg.AMQPURL != "" {
		amqpPub, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			slog.Error("failed to connect to message broker", "error", err)
			os.Exit(1)
		}
		defer amqpPub.Close()
		pub = amqpPub
		slog.Info("event publishing enabled", "exchange", cfg.AMQPExchange)
	}

	// --- Services ---------------------------------------------------------
	tokens, err := auth.NewTokenIssuer(auth.TokenConfig{
		AccessSecret:  cfg.JWTSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:     cfg.JWTExpire,
		RefreshTTL:    cfg.JWTRefreshExpire,
		Issuer:        serviceName,
	})
	if err != nil {
		slog.Error("failed to configure tokens", "error", err)
		os.Exit(1)
	}

	srvHandler := handler.NewServer(handler.Services{
		Auth:       service.NewAuthService(st.users, auth.NewBcryptHasher(bcryptCost), tokens),
		Trips:      service.NewTripService(st.trips, st.users, pub),
		Activities: service.NewActivityService(st.trips, st.activities),
		Expenses:   service.NewExpenseService(st.trips, st.expenses, st.users),
		Polls:      service.NewPollService(st.trips, st.polls, st.users, pub),
		Store:      st.pinger,
	}, cfg.IsDevelopment())

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Tracing → Logger →
	// Recoverer → CORS → MaxBodySize.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewTracing(serviceName))
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Mount("/", srvHandler.Routes())

	// --- HTTP Server ------------------------------------------------------
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
