package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/uptrace/bun"

	"github.com/High-Desert-Practical/match-sync/app/modules/match"
	"github.com/High-Desert-Practical/match-sync/config"
	"github.com/High-Desert-Practical/match-sync/internal/db/bundb"
	"github.com/High-Desert-Practical/match-sync/internal/eventbus"
	"github.com/High-Desert-Practical/match-sync/internal/observability"
)

// App wires configuration, storage, messaging and the match module together.
type App struct {
	Cfg         *config.Config
	MatchModule *match.Module

	logger *slog.Logger
	db     *bun.DB
	bus    eventbus.EventBus
	router chi.Router
}

// NewApp initializes the application with the necessary services and configuration.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := observability.NewLogger()
	metrics := observability.NewPrometheusMetrics("match_sync")
	tracer := observability.Tracer("match-sync")

	db, err := bundb.NewDB(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// NATS when configured, in-process pub/sub otherwise.
	var bus eventbus.EventBus
	if cfg.NATS.URL != "" {
		bus, err = eventbus.NewNATSBus(cfg.NATS.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		logger.InfoContext(ctx, "Event bus connected", slog.String("nats_url", cfg.NATS.URL))
	} else {
		bus = eventbus.NewChannelBus()
		logger.InfoContext(ctx, "Event bus running in-process")
	}

	router := chi.NewRouter()
	router.Use(chimiddleware.Recoverer)
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	matchModule, err := match.NewModule(ctx, cfg, logger, metrics, tracer, bus, router, db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize match module: %w", err)
	}

	observability.ServeMetrics(ctx, cfg.Metrics.Address, logger)

	return &App{
		Cfg:         cfg,
		MatchModule: matchModule,
		logger:      logger,
		db:          db,
		bus:         bus,
		router:      router,
	}, nil
}

// Router returns the HTTP handler for the application.
func (app *App) Router() chi.Router {
	return app.router
}

// Close releases the application's resources.
func (app *App) Close() error {
	if err := app.MatchModule.Close(); err != nil {
		app.logger.Error("Error closing match module", "error", err)
	}
	if err := app.bus.Close(); err != nil {
		app.logger.Error("Error closing event bus", "error", err)
	}
	if err := app.db.Close(); err != nil {
		return fmt.Errorf("error closing database: %w", err)
	}
	return nil
}
