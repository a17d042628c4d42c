package matchdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// GetMatchCompetitor retrieves a link by its natural composite key.
func (r *Impl) GetMatchCompetitor(ctx context.Context, db bun.IDB, matchID, competitorID int64) (*MatchCompetitor, error) {
	db = r.resolveDB(db)
	link := new(MatchCompetitor)
	err := db.NewSelect().
		Model(link).
		Where("match_id = ?", matchID).
		Where("competitor_id = ?", competitorID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get match competitor: %w", err)
	}
	return link, nil
}

// ListMatchCompetitors returns all links for the match.
func (r *Impl) ListMatchCompetitors(ctx context.Context, db bun.IDB, matchID int64) ([]MatchCompetitor, error) {
	db = r.resolveDB(db)
	var links []MatchCompetitor
	err := db.NewSelect().
		Model(&links).
		Where("match_id = ?", matchID).
		OrderExpr("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list match competitors: %w", err)
	}
	return links, nil
}

// CreateMatchCompetitor inserts a new link.
func (r *Impl) CreateMatchCompetitor(ctx context.Context, db bun.IDB, link *MatchCompetitor) error {
	db = r.resolveDB(db)
	now := time.Now()
	link.CreatedAt = now
	link.UpdatedAt = now
	if _, err := db.NewInsert().Model(link).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create match competitor: %w", err)
	}
	return nil
}

// UpdateMatchCompetitor overwrites the link's mutable fields by id.
func (r *Impl) UpdateMatchCompetitor(ctx context.Context, db bun.IDB, link *MatchCompetitor) error {
	db = r.resolveDB(db)
	link.UpdatedAt = time.Now()
	result, err := db.NewUpdate().
		Model(link).
		Column("division", "discipline", "power_factor", "match_points", "match_percentage", "updated_at").
		Where("id = ?", link.ID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update match competitor: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// GetStageCompetitor retrieves a link by its natural composite key.
func (r *Impl) GetStageCompetitor(ctx context.Context, db bun.IDB, stageID, competitorID int64) (*StageCompetitor, error) {
	db = r.resolveDB(db)
	link := new(StageCompetitor)
	err := db.NewSelect().
		Model(link).
		Where("stage_id = ?", stageID).
		Where("competitor_id = ?", competitorID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get stage competitor: %w", err)
	}
	return link, nil
}

// ListStageCompetitorsByStage returns all links for the stage.
func (r *Impl) ListStageCompetitorsByStage(ctx context.Context, db bun.IDB, stageID int64) ([]StageCompetitor, error) {
	db = r.resolveDB(db)
	var links []StageCompetitor
	err := db.NewSelect().
		Model(&links).
		Where("stage_id = ?", stageID).
		OrderExpr("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stage competitors: %w", err)
	}
	return links, nil
}

// ListStageCompetitorsByMatch returns all links for every stage of the
// match, joined through the stages table.
func (r *Impl) ListStageCompetitorsByMatch(ctx context.Context, db bun.IDB, matchID int64) ([]StageCompetitor, error) {
	db = r.resolveDB(db)
	var links []StageCompetitor
	err := db.NewSelect().
		Model(&links).
		Join("JOIN stages AS st ON st.id = sc.stage_id").
		Where("st.match_id = ?", matchID).
		OrderExpr("sc.stage_id ASC, sc.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stage competitors by match: %w", err)
	}
	return links, nil
}

// CreateStageCompetitor inserts a new link.
func (r *Impl) CreateStageCompetitor(ctx context.Context, db bun.IDB, link *StageCompetitor) error {
	db = r.resolveDB(db)
	now := time.Now()
	link.CreatedAt = now
	link.UpdatedAt = now
	if _, err := db.NewInsert().Model(link).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create stage competitor: %w", err)
	}
	return nil
}

// UpdateStageCompetitor overwrites the link's mutable fields by id.
func (r *Impl) UpdateStageCompetitor(ctx context.Context, db bun.IDB, link *StageCompetitor) error {
	db = r.resolveDB(db)
	link.UpdatedAt = time.Now()
	result, err := db.NewUpdate().
		Model(link).
		Column("a", "b", "c", "d", "misses", "penalties", "procedurals", "time",
			"hit_factor", "stage_points", "stage_percentage", "stage_rank",
			"disqualified", "updated_at").
		Where("id = ?", link.ID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update stage competitor: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
