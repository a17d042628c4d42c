package matchqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/uptrace/bun"

	"github.com/High-Desert-Practical/match-sync/internal/attr"
)

// rankingsQueue is the dedicated River queue for ranking jobs.
const rankingsQueue = "rankings"

// Metrics counts queue operations.
type Metrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)
}

// QueueService interface defines the contract for ranking refresh scheduling
type QueueService interface {
	// EnqueueSweep enqueues an immediate staleness sweep across all clubs
	EnqueueSweep(ctx context.Context) error
	// EnqueueClubRefresh enqueues a refresh for a single club
	EnqueueClubRefresh(ctx context.Context, clubName string) error
	// GetRankingJobs returns information about pending ranking jobs (for debugging)
	GetRankingJobs(ctx context.Context) ([]JobInfo, error)
	// HealthCheck verifies the queue service is healthy
	HealthCheck(ctx context.Context) error
	// Start starts the queue service
	Start(ctx context.Context) error
	// Stop stops the queue service
	Stop(ctx context.Context) error
}

// Ensure Service implements QueueService
var _ QueueService = (*Service)(nil)

// Service runs the background ranking refresh pipeline using River
type Service struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	logger  *slog.Logger
	db      *bun.DB
	metrics Metrics
}

// NewService creates a River-based queue service for ranking refreshes.
// A zero sweepInterval disables the periodic sweep; on-demand jobs still run.
func NewService(ctx context.Context, bunDB *bun.DB, logger *slog.Logger, dsn string, sweepInterval time.Duration, metrics Metrics, refresher Refresher, clubs ClubLister) (*Service, error) {
	ctxLogger := logger.With(
		attr.String("operation", "new_match_queue_service"),
		attr.String("component", "river_queue"),
	)

	start := time.Now()
	metrics.RecordOperationAttempt(ctx, "initialize_service", "river")

	ctxLogger.Info("Initializing ranking queue service")

	// Create pgx pool for River (River requires pgx, not database/sql)
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		ctxLogger.Error("Failed to parse DSN for River", attr.Error(err))
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		ctxLogger.Error("Failed to create pgx pool for River", attr.Error(err))
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		ctxLogger.Error("Failed to ping database for River", attr.Error(err))
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Create River workers registry and register workers
	workers := river.NewWorkers()
	river.AddWorker(workers, NewRankingSweepWorker(ctxLogger, clubs))
	river.AddWorker(workers, NewClubRefreshWorker(ctxLogger, refresher))

	riverConfig := &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 10},
			rankingsQueue:      {MaxWorkers: 5}, // Dedicated queue for ranking jobs
		},
		Workers: workers,
	}

	if sweepInterval > 0 {
		riverConfig.PeriodicJobs = []*river.PeriodicJob{
			river.NewPeriodicJob(
				river.PeriodicInterval(sweepInterval),
				func() (river.JobArgs, *river.InsertOpts) {
					return RankingSweepJob{}, &river.InsertOpts{Queue: rankingsQueue}
				},
				&river.PeriodicJobOpts{RunOnStart: true},
			),
		}
	}

	riverClient, err := river.NewClient(riverpgxv5.New(pool), riverConfig)
	if err != nil {
		pool.Close()
		ctxLogger.Error("Failed to create River client", attr.Error(err))
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	service := &Service{
		client:  riverClient,
		pool:    pool,
		logger:  ctxLogger,
		db:      bunDB,
		metrics: metrics,
	}

	duration := time.Since(start)
	metrics.RecordOperationSuccess(ctx, "initialize_service", "river")
	metrics.RecordOperationDuration(ctx, "initialize_service", "river", duration)

	ctxLogger.Info("Ranking queue service initialized successfully",
		attr.Duration("sweep_interval", sweepInterval))
	return service, nil
}

// Start starts the River queue service
func (s *Service) Start(ctx context.Context) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "start_service", "river")

	s.logger.Info("Starting ranking queue service")

	if err := s.client.Start(ctx); err != nil {
		s.logger.Error("Failed to start River client", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "start_service", "river")
		return fmt.Errorf("failed to start River client: %w", err)
	}

	duration := time.Since(start)
	s.metrics.RecordOperationSuccess(ctx, "start_service", "river")
	s.metrics.RecordOperationDuration(ctx, "start_service", "river", duration)

	s.logger.Info("Ranking queue service started successfully")
	return nil
}

// Stop stops the River queue service and releases its pool
func (s *Service) Stop(ctx context.Context) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "stop_service", "river")

	s.logger.Info("Stopping ranking queue service")

	if err := s.client.Stop(ctx); err != nil {
		s.logger.Error("Failed to stop River client", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "stop_service", "river")
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	s.pool.Close()

	duration := time.Since(start)
	s.metrics.RecordOperationSuccess(ctx, "stop_service", "river")
	s.metrics.RecordOperationDuration(ctx, "stop_service", "river", duration)

	s.logger.Info("Ranking queue service stopped successfully")
	return nil
}

// EnqueueSweep enqueues an immediate staleness sweep across all clubs
func (s *Service) EnqueueSweep(ctx context.Context) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "enqueue_sweep", "river")

	jobResult, err := s.client.Insert(ctx, RankingSweepJob{}, &river.InsertOpts{
		Queue: rankingsQueue,
		UniqueOpts: river.UniqueOpts{
			ByArgs: true, // At most one pending sweep
		},
	})
	if err != nil {
		s.logger.Error("Failed to enqueue ranking sweep", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "enqueue_sweep", "river")
		return fmt.Errorf("failed to enqueue ranking sweep: %w", err)
	}

	duration := time.Since(start)
	s.metrics.RecordOperationSuccess(ctx, "enqueue_sweep", "river")
	s.metrics.RecordOperationDuration(ctx, "enqueue_sweep", "river", duration)

	s.logger.Info("Ranking sweep enqueued", attr.Int64("job_id", jobResult.Job.ID))
	return nil
}

// EnqueueClubRefresh enqueues a refresh for a single club
func (s *Service) EnqueueClubRefresh(ctx context.Context, clubName string) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "enqueue_club_refresh", "river")

	ctxLogger := s.logger.With(
		attr.String("club", clubName),
		attr.String("operation", "enqueue_club_refresh"),
	)

	jobResult, err := s.client.Insert(ctx, ClubRefreshJob{Club: clubName}, &river.InsertOpts{
		Queue: rankingsQueue,
		UniqueOpts: river.UniqueOpts{
			ByArgs: true, // One pending refresh per club
		},
	})
	if err != nil {
		ctxLogger.Error("Failed to enqueue club refresh", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "enqueue_club_refresh", "river")
		return fmt.Errorf("failed to enqueue club refresh: %w", err)
	}

	duration := time.Since(start)
	s.metrics.RecordOperationSuccess(ctx, "enqueue_club_refresh", "river")
	s.metrics.RecordOperationDuration(ctx, "enqueue_club_refresh", "river", duration)

	ctxLogger.Info("Club refresh enqueued", attr.Int64("job_id", jobResult.Job.ID))
	return nil
}

// GetRankingJobs returns information about pending ranking jobs (for debugging)
func (s *Service) GetRankingJobs(ctx context.Context) ([]JobInfo, error) {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "get_ranking_jobs", "river")

	type RiverJobRow struct {
		ID          int64                  `bun:"id"`
		Kind        string                 `bun:"kind"`
		State       string                 `bun:"state"`
		Args        map[string]interface{} `bun:"args"`
		ScheduledAt *time.Time             `bun:"scheduled_at"`
		CreatedAt   time.Time              `bun:"created_at"`
		Attempt     int16                  `bun:"attempt"`
		MaxAttempts int16                  `bun:"max_attempts"`
	}

	var jobs []RiverJobRow
	err := s.db.NewSelect().
		Table("river_job").
		Column("id", "kind", "state", "args", "scheduled_at", "created_at", "attempt", "max_attempts").
		Where("kind IN (?, ?)", RankingSweepJob{}.Kind(), ClubRefreshJob{}.Kind()).
		Where("state IN (?, ?, ?)", "available", "scheduled", "running").
		Order("scheduled_at ASC NULLS LAST", "created_at ASC").
		Scan(ctx, &jobs)
	if err != nil {
		s.logger.Error("Failed to query ranking jobs", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "get_ranking_jobs", "river")
		return nil, fmt.Errorf("failed to query ranking jobs: %w", err)
	}

	result := make([]JobInfo, len(jobs))
	for i, job := range jobs {
		scheduledAt := ""
		if job.ScheduledAt != nil {
			scheduledAt = job.ScheduledAt.Format(time.RFC3339)
		}
		club := ""
		if v, ok := job.Args["club"].(string); ok {
			club = v
		}

		result[i] = JobInfo{
			ID:          job.ID,
			Kind:        job.Kind,
			Club:        club,
			State:       job.State,
			ScheduledAt: scheduledAt,
			CreatedAt:   job.CreatedAt.Format(time.RFC3339),
			Attempt:     int(job.Attempt),
			MaxAttempts: int(job.MaxAttempts),
		}
	}

	duration := time.Since(start)
	s.metrics.RecordOperationSuccess(ctx, "get_ranking_jobs", "river")
	s.metrics.RecordOperationDuration(ctx, "get_ranking_jobs", "river", duration)

	return result, nil
}

// HealthCheck verifies the queue service is healthy
func (s *Service) HealthCheck(ctx context.Context) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "health_check", "river")

	if s.client == nil {
		s.metrics.RecordOperationFailure(ctx, "health_check", "river")
		return fmt.Errorf("river client is nil")
	}

	var count int
	err := s.db.NewSelect().
		Table("river_job").
		ColumnExpr("COUNT(*)").
		Scan(ctx, &count)
	if err != nil {
		s.logger.Error("Queue service health check failed", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "health_check", "river")
		return fmt.Errorf("queue service health check failed: %w", err)
	}

	duration := time.Since(start)
	s.metrics.RecordOperationSuccess(ctx, "health_check", "river")
	s.metrics.RecordOperationDuration(ctx, "health_check", "river", duration)

	s.logger.Debug("Queue service health check passed", attr.Int("total_jobs", count))
	return nil
}

// GetClient returns the underlying River client for advanced operations
func (s *Service) GetClient() *river.Client[pgx.Tx] {
	return s.client
}
