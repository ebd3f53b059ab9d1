package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chris/invoice-funding-marketplace/pkg/api"
	"github.com/chris/invoice-funding-marketplace/pkg/bootstrap"
	"github.com/chris/invoice-funding-marketplace/pkg/config"
	"github.com/chris/invoice-funding-marketplace/pkg/handlers"
	"github.com/chris/invoice-funding-marketplace/pkg/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialise backends: %v", err)
	}
	defer deps.Close()

	// Create our handler
	handler := handlers.NewApiHandler(deps.Marketplace(cfg))

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.NewStructuredLogger(logger))
	router.Use(chimiddleware.Recoverer)

	// Use the generated function to mount our handler on the router
	api.HandlerFromMux(handler, router)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "port", cfg.HTTPPort, "store", cfg.StoreBackend, "anchor", cfg.AnchorBackend, "events", cfg.EventsBackend)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
	slog.Info("server stopped")
}
