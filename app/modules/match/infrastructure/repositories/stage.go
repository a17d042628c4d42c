package matchdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// GetStageByNumber retrieves a stage by match id and 1-based number.
func (r *Impl) GetStageByNumber(ctx context.Context, db bun.IDB, matchID int64, number int) (*Stage, error) {
	db = r.resolveDB(db)
	stage := new(Stage)
	err := db.NewSelect().
		Model(stage).
		Where("match_id = ?", matchID).
		Where("number = ?", number).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get stage by number: %w", err)
	}
	return stage, nil
}

// ListStagesByMatch returns the match's stages ordered by number.
func (r *Impl) ListStagesByMatch(ctx context.Context, db bun.IDB, matchID int64) ([]Stage, error) {
	db = r.resolveDB(db)
	var stages []Stage
	err := db.NewSelect().
		Model(&stages).
		Where("match_id = ?", matchID).
		OrderExpr("number ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stages by match: %w", err)
	}
	return stages, nil
}

// CreateStage inserts a new stage and fills its store-assigned id.
func (r *Impl) CreateStage(ctx context.Context, db bun.IDB, stage *Stage) error {
	db = r.resolveDB(db)
	now := time.Now()
	stage.CreatedAt = now
	stage.UpdatedAt = now
	if _, err := db.NewInsert().Model(stage).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create stage: %w", err)
	}
	return nil
}

// UpdateStage overwrites the stage's mutable fields by id.
func (r *Impl) UpdateStage(ctx context.Context, db bun.IDB, stage *Stage) error {
	db = r.resolveDB(db)
	stage.UpdatedAt = time.Now()
	result, err := db.NewUpdate().
		Model(stage).
		Column("paper", "poppers", "plates", "min_rounds", "max_points", "updated_at").
		Where("id = ?", stage.ID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update stage: %w", err)
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
