package match

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"

	clubdb "github.com/High-Desert-Practical/match-sync/app/modules/club/infrastructure/repositories"
	competitorservice "github.com/High-Desert-Practical/match-sync/app/modules/competitor/application"
	competitordb "github.com/High-Desert-Practical/match-sync/app/modules/competitor/infrastructure/repositories"
	matchservice "github.com/High-Desert-Practical/match-sync/app/modules/match/application"
	matchhandlers "github.com/High-Desert-Practical/match-sync/app/modules/match/infrastructure/handlers"
	matchqueue "github.com/High-Desert-Practical/match-sync/app/modules/match/infrastructure/queue"
	"github.com/High-Desert-Practical/match-sync/app/modules/match/infrastructure/reports"
	matchdb "github.com/High-Desert-Practical/match-sync/app/modules/match/infrastructure/repositories"
	"github.com/High-Desert-Practical/match-sync/config"
	"github.com/High-Desert-Practical/match-sync/internal/eventbus"
	"github.com/High-Desert-Practical/match-sync/internal/observability"
)

// Module represents the match module: the import pipeline, ranking refresh,
// standings reports and their HTTP surface.
type Module struct {
	Service    *matchservice.MatchService
	queue      *matchqueue.Service
	cancelFunc context.CancelFunc
	logger     *slog.Logger
}

// NewModule creates and initializes the match module.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	metrics observability.Metrics,
	tracer trace.Tracer,
	bus eventbus.EventBus,
	httpRouter chi.Router,
	db *bun.DB,
) (*Module, error) {
	logger.InfoContext(ctx, "Initializing match module")

	matchRepo := matchdb.NewRepository(db)
	clubRepo := clubdb.NewRepository(db)
	competitorRepo := competitordb.NewRepository(db)

	resolver := competitorservice.NewResolver(
		competitorRepo,
		logger,
		metrics,
		tracer,
		cfg.Import.ExcludedAliases,
		cfg.Import.CaseSensitiveNames,
	)

	service := matchservice.NewMatchService(
		matchRepo,
		clubRepo,
		competitorRepo,
		resolver,
		nil, // default container parser
		logger,
		metrics,
		tracer,
		db,
		bus,
	)

	handlers := matchhandlers.NewMatchHandlers(service, reports.NewStandingsWriter(), logger)

	// Register HTTP routes
	if httpRouter != nil {
		limiter := matchhandlers.NewIPRateLimiter(5, 10)
		httpRouter.Mount("/api", handlers.Routes(limiter))
	}

	// Background ranking refresh runs only when an interval is configured.
	var queue *matchqueue.Service
	if cfg.Refresh.Interval > 0 {
		var err error
		queue, err = matchqueue.NewService(ctx, db, logger, cfg.Postgres.DSN, cfg.Refresh.Interval, metrics, service, clubRepo)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize ranking queue: %w", err)
		}
	}

	return &Module{
		Service: service,
		queue:   queue,
		logger:  logger,
	}, nil
}

// Run starts the match module and blocks until the context is cancelled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting match module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if m.queue != nil {
		if err := m.queue.Start(ctx); err != nil {
			m.logger.ErrorContext(ctx, "Failed to start ranking queue", "error", err)
			return
		}
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Match module goroutine stopped")
}

// Close stops the match module.
func (m *Module) Close() error {
	m.logger.Info("Stopping match module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	if m.queue != nil {
		if err := m.queue.Stop(context.Background()); err != nil {
			m.logger.Error("Error stopping ranking queue", "error", err)
			return fmt.Errorf("error stopping ranking queue: %w", err)
		}
	}

	m.logger.Info("Match module stopped")
	return nil
}
