package matchservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	clubdb "github.com/High-Desert-Practical/match-sync/app/modules/club/infrastructure/repositories"
	competitorservice "github.com/High-Desert-Practical/match-sync/app/modules/competitor/application"
	competitordb "github.com/High-Desert-Practical/match-sync/app/modules/competitor/infrastructure/repositories"
	"github.com/High-Desert-Practical/match-sync/app/modules/match/infrastructure/parsers"
	matchdb "github.com/High-Desert-Practical/match-sync/app/modules/match/infrastructure/repositories"
	"github.com/High-Desert-Practical/match-sync/internal/attr"
	"github.com/High-Desert-Practical/match-sync/internal/eventbus"
	"github.com/High-Desert-Practical/match-sync/internal/observability"
	"github.com/High-Desert-Practical/match-sync/internal/results"
)

// MatchService runs the import and ranking pipeline: decode, group, resolve,
// reconcile and score, one transaction per match bundle.
type MatchService struct {
	repo           matchdb.Repository
	clubRepo       clubdb.Repository
	competitorRepo competitordb.Repository
	resolver       *competitorservice.Resolver
	parser         parsers.Parser
	logger         *slog.Logger
	metrics        observability.Metrics
	tracer         trace.Tracer
	db             *bun.DB
	bus            eventbus.EventBus
}

// NewMatchService creates a new MatchService.
func NewMatchService(
	repo matchdb.Repository,
	clubRepo clubdb.Repository,
	competitorRepo competitordb.Repository,
	resolver *competitorservice.Resolver,
	parser parsers.Parser,
	logger *slog.Logger,
	metrics observability.Metrics,
	tracer trace.Tracer,
	db *bun.DB,
	bus eventbus.EventBus,
) *MatchService {
	if logger == nil {
		logger = slog.Default()
	}
	if parser == nil {
		parser = parsers.NewContainerParser()
	}
	if bus == nil {
		bus = eventbus.Noop{}
	}
	return &MatchService{
		repo:           repo,
		clubRepo:       clubRepo,
		competitorRepo: competitorRepo,
		resolver:       resolver,
		parser:         parser,
		logger:         logger,
		metrics:        metrics,
		tracer:         tracer,
		db:             db,
		bus:            bus,
	}
}

// -----------------------------------------------------------------------------
// Generic Helpers (Defined as functions because methods cannot have type params)
// -----------------------------------------------------------------------------

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *MatchService,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {

	// Start span
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	// Record attempt
	if s.metrics != nil {
		s.metrics.RecordOperationAttempt(ctx, operationName, "MatchService")
	}

	// Track duration
	startTime := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordOperationDuration(ctx, operationName, "MatchService", time.Since(startTime))
		}
	}()

	// Log operation start
	s.logger.InfoContext(ctx, "Operation triggered", attr.ExtractCorrelationID(ctx), attr.String("operation", operationName))

	// Panic recovery
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			if s.metrics != nil {
				s.metrics.RecordOperationFailure(ctx, operationName, "MatchService")
			}
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	// Execute operation
	result, err = op(ctx)

	// Handle Infrastructure Error
	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Error(wrappedErr),
		)
		if s.metrics != nil {
			s.metrics.RecordOperationFailure(ctx, operationName, "MatchService")
		}
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	// Handle Domain Failure
	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Any("failure_payload", *result.Failure),
		)
	}

	// Handle Success
	if result.IsSuccess() {
		s.logger.InfoContext(ctx, "Operation completed successfully",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
		)
	}

	if s.metrics != nil {
		s.metrics.RecordOperationSuccess(ctx, operationName, "MatchService")
	}

	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *MatchService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {

	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]

	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})

	return result, err
}
