package matchdb

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Repository defines the contract for match, stage, link and club-scope
// persistence. Every lookup is a plain keyed query; lookup misses return
// ErrNotFound and never trigger resolution logic.
type Repository interface {
	// --- matches ---

	// GetMatchByID retrieves a match by its store-assigned id.
	GetMatchByID(ctx context.Context, db bun.IDB, id int64) (*Match, error)

	// GetMatchByName retrieves a match by its unique name.
	GetMatchByName(ctx context.Context, db bun.IDB, name string) (*Match, error)

	// ListMatchesByClub returns all matches referencing the club.
	ListMatchesByClub(ctx context.Context, db bun.IDB, clubID int64) ([]Match, error)

	// CreateMatch inserts a new match and fills its store-assigned id.
	CreateMatch(ctx context.Context, db bun.IDB, match *Match) error

	// UpdateMatch overwrites the match's mutable fields by id.
	UpdateMatch(ctx context.Context, db bun.IDB, match *Match) error

	// SetMatchRefreshedAt records a completed ranking refresh.
	SetMatchRefreshedAt(ctx context.Context, db bun.IDB, matchID int64, refreshedAt time.Time) error

	// --- stages ---

	// GetStageByNumber retrieves a stage by match id and 1-based number.
	GetStageByNumber(ctx context.Context, db bun.IDB, matchID int64, number int) (*Stage, error)

	// ListStagesByMatch returns the match's stages ordered by number.
	ListStagesByMatch(ctx context.Context, db bun.IDB, matchID int64) ([]Stage, error)

	// CreateStage inserts a new stage and fills its store-assigned id.
	CreateStage(ctx context.Context, db bun.IDB, stage *Stage) error

	// UpdateStage overwrites the stage's mutable fields by id.
	UpdateStage(ctx context.Context, db bun.IDB, stage *Stage) error

	// --- match-competitor links ---

	// GetMatchCompetitor retrieves a link by its natural composite key.
	GetMatchCompetitor(ctx context.Context, db bun.IDB, matchID, competitorID int64) (*MatchCompetitor, error)

	// ListMatchCompetitors returns all links for the match.
	ListMatchCompetitors(ctx context.Context, db bun.IDB, matchID int64) ([]MatchCompetitor, error)

	// CreateMatchCompetitor inserts a new link.
	CreateMatchCompetitor(ctx context.Context, db bun.IDB, link *MatchCompetitor) error

	// UpdateMatchCompetitor overwrites the link's mutable fields by id.
	UpdateMatchCompetitor(ctx context.Context, db bun.IDB, link *MatchCompetitor) error

	// --- stage-competitor links ---

	// GetStageCompetitor retrieves a link by its natural composite key.
	GetStageCompetitor(ctx context.Context, db bun.IDB, stageID, competitorID int64) (*StageCompetitor, error)

	// ListStageCompetitorsByStage returns all links for the stage.
	ListStageCompetitorsByStage(ctx context.Context, db bun.IDB, stageID int64) ([]StageCompetitor, error)

	// ListStageCompetitorsByMatch returns all links for every stage of the
	// match, joined through the stages table.
	ListStageCompetitorsByMatch(ctx context.Context, db bun.IDB, matchID int64) ([]StageCompetitor, error)

	// CreateStageCompetitor inserts a new link.
	CreateStageCompetitor(ctx context.Context, db bun.IDB, link *StageCompetitor) error

	// UpdateStageCompetitor overwrites the link's mutable fields by id.
	UpdateStageCompetitor(ctx context.Context, db bun.IDB, link *StageCompetitor) error

	// --- club-scoped rows ---

	// GetClubMatch retrieves a club-scoped match by its composite key.
	GetClubMatch(ctx context.Context, db bun.IDB, clubID, matchID int64) (*ClubMatch, error)

	// ListClubMatchesByClub returns all club-scoped matches for the club.
	ListClubMatchesByClub(ctx context.Context, db bun.IDB, clubID int64) ([]ClubMatch, error)

	// CreateClubMatch inserts a new club-scoped match.
	CreateClubMatch(ctx context.Context, db bun.IDB, clubMatch *ClubMatch) error

	// SetClubMatchRefreshedAt records a completed club ranking refresh.
	SetClubMatchRefreshedAt(ctx context.Context, db bun.IDB, clubMatchID int64, refreshedAt time.Time) error

	// GetClubMatchCompetitor retrieves a club-scoped link by composite key.
	GetClubMatchCompetitor(ctx context.Context, db bun.IDB, clubMatchID, competitorID int64) (*ClubMatchCompetitor, error)

	// ListClubMatchCompetitors returns all links for the club-scoped match.
	ListClubMatchCompetitors(ctx context.Context, db bun.IDB, clubMatchID int64) ([]ClubMatchCompetitor, error)

	// CreateClubMatchCompetitor inserts a new club-scoped link.
	CreateClubMatchCompetitor(ctx context.Context, db bun.IDB, link *ClubMatchCompetitor) error

	// UpdateClubMatchCompetitor overwrites the link's mutable fields by id.
	UpdateClubMatchCompetitor(ctx context.Context, db bun.IDB, link *ClubMatchCompetitor) error
}
