package matchdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new match repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// GetMatchByID retrieves a match by its store-assigned id.
func (r *Impl) GetMatchByID(ctx context.Context, db bun.IDB, id int64) (*Match, error) {
	db = r.resolveDB(db)
	match := new(Match)
	err := db.NewSelect().
		Model(match).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get match by id: %w", err)
	}
	return match, nil
}

// GetMatchByName retrieves a match by its unique name.
func (r *Impl) GetMatchByName(ctx context.Context, db bun.IDB, name string) (*Match, error) {
	db = r.resolveDB(db)
	match := new(Match)
	err := db.NewSelect().
		Model(match).
		Where("name = ?", name).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get match by name: %w", err)
	}
	return match, nil
}

// ListMatchesByClub returns all matches referencing the club.
func (r *Impl) ListMatchesByClub(ctx context.Context, db bun.IDB, clubID int64) ([]Match, error) {
	db = r.resolveDB(db)
	var matches []Match
	err := db.NewSelect().
		Model(&matches).
		Where("club_id = ?", clubID).
		OrderExpr("date ASC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches by club: %w", err)
	}
	return matches, nil
}

// CreateMatch inserts a new match and fills its store-assigned id.
func (r *Impl) CreateMatch(ctx context.Context, db bun.IDB, match *Match) error {
	db = r.resolveDB(db)
	now := time.Now()
	match.CreatedAt = now
	match.UpdatedAt = now
	if _, err := db.NewInsert().Model(match).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}
	return nil
}

// UpdateMatch overwrites the match's mutable fields by id. The refresh
// timestamp is managed separately by SetMatchRefreshedAt.
func (r *Impl) UpdateMatch(ctx context.Context, db bun.IDB, match *Match) error {
	db = r.resolveDB(db)
	match.UpdatedAt = time.Now()
	result, err := db.NewUpdate().
		Model(match).
		Column("name", "date", "club_id", "firearm", "category", "updated_at", "edited_at").
		Where("id = ?", match.ID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update match: %w", err)
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

// SetMatchRefreshedAt records a completed ranking refresh.
func (r *Impl) SetMatchRefreshedAt(ctx context.Context, db bun.IDB, matchID int64, refreshedAt time.Time) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*Match)(nil)).
		Set("refreshed_at = ?", refreshedAt).
		Where("id = ?", matchID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set match refreshed_at: %w", err)
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
