package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"clearusers/internal/platform/config"
	"clearusers/internal/platform/httpserver"
	"clearusers/internal/platform/logger"
	"clearusers/internal/platform/middleware"
	"clearusers/internal/user/handler"
	usermetrics "clearusers/internal/user/metrics"
	"clearusers/internal/user/service"
	"clearusers/internal/user/store"
	"clearusers/migrations"
	"clearusers/pkg/platform/tx"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	var (
		users  service.UserStore
		runner tx.Runner
	)
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			log.Error("open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = db.PingContext(pingCtx)
		cancel()
		if err != nil {
			log.Error("ping database", "error", err)
			os.Exit(1)
		}
		if err := migrations.Apply(context.Background(), db); err != nil {
			log.Error("apply migrations", "error", err)
			os.Exit(1)
		}

		users = store.NewPostgres(db)
		runner = tx.NewSQLRunner(db)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory store")
		users = store.NewMemoryStore()
		runner = tx.NewMemoryRunner()
	}

	svc := service.New(users, runner, service.Config{MinAge: cfg.MinAge},
		service.WithMetrics(usermetrics.New()))
	h := handler.New(svc, log)

	router := chi.NewRouter()
	router.Use(middleware.RequestID, middleware.RequestTime)
	router.Route("/api/v1", h.Register)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting clearusers", "addr", cfg.Addr, "min_age", cfg.MinAge)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
