package matchqueue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"
	"github.com/uptrace/bun"

	clubdb "github.com/High-Desert-Practical/match-sync/app/modules/club/infrastructure/repositories"
	matchdto "github.com/High-Desert-Practical/match-sync/app/modules/match/dto"
	"github.com/High-Desert-Practical/match-sync/internal/attr"
)

// Refresher recomputes club rankings for matches with changed scores.
type Refresher interface {
	RefreshClubRankings(ctx context.Context, clubName string) (*matchdto.RefreshResult, error)
}

// ClubLister enumerates the clubs a sweep should cover.
type ClubLister interface {
	List(ctx context.Context, db bun.IDB) ([]clubdb.Club, error)
}

// RankingSweepWorker fans a sweep out into one refresh job per club. Each
// club gets its own job so a failing club retries alone instead of blocking
// the whole sweep.
type RankingSweepWorker struct {
	river.WorkerDefaults[RankingSweepJob]
	logger *slog.Logger
	clubs  ClubLister
}

// NewRankingSweepWorker creates a worker that expands sweep jobs.
func NewRankingSweepWorker(logger *slog.Logger, clubs ClubLister) *RankingSweepWorker {
	return &RankingSweepWorker{logger: logger, clubs: clubs}
}

// Work lists all clubs and enqueues one ClubRefreshJob per club.
func (w *RankingSweepWorker) Work(ctx context.Context, job *river.Job[RankingSweepJob]) error {
	clubs, err := w.clubs.List(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to list clubs for ranking sweep: %w", err)
	}

	client := river.ClientFromContext[pgx.Tx](ctx)
	enqueued := 0
	for _, club := range clubs {
		_, err := client.Insert(ctx, ClubRefreshJob{Club: club.Name}, &river.InsertOpts{
			Queue: rankingsQueue,
			UniqueOpts: river.UniqueOpts{
				ByArgs: true, // One pending refresh per club at a time
			},
		})
		if err != nil {
			w.logger.WarnContext(ctx, "Failed to enqueue club refresh",
				attr.String("club", club.Name),
				attr.Error(err))
			continue
		}
		enqueued++
	}

	w.logger.InfoContext(ctx, "Ranking sweep expanded",
		attr.Int64("job_id", job.ID),
		attr.Int("clubs", len(clubs)),
		attr.Int("enqueued", enqueued))
	return nil
}

// ClubRefreshWorker refreshes a single club's rankings. Errors propagate to
// River so the job retries with backoff.
type ClubRefreshWorker struct {
	river.WorkerDefaults[ClubRefreshJob]
	logger    *slog.Logger
	refresher Refresher
}

// NewClubRefreshWorker creates a worker that runs club refreshes.
func NewClubRefreshWorker(logger *slog.Logger, refresher Refresher) *ClubRefreshWorker {
	return &ClubRefreshWorker{logger: logger, refresher: refresher}
}

// Work refreshes the rankings for the job's club.
func (w *ClubRefreshWorker) Work(ctx context.Context, job *river.Job[ClubRefreshJob]) error {
	result, err := w.refresher.RefreshClubRankings(ctx, job.Args.Club)
	if err != nil {
		return fmt.Errorf("failed to refresh rankings for club %q: %w", job.Args.Club, err)
	}

	if len(result.Refreshed) > 0 {
		w.logger.InfoContext(ctx, "Club rankings refreshed",
			attr.String("club", job.Args.Club),
			attr.Int("matches", len(result.Refreshed)))
	} else {
		w.logger.DebugContext(ctx, "Club rankings already current",
			attr.String("club", job.Args.Club))
	}
	return nil
}
