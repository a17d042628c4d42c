package matchdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// GetClubMatch retrieves the club-scoped mirror of a match.
func (r *Impl) GetClubMatch(ctx context.Context, db bun.IDB, clubID, matchID int64) (*ClubMatch, error) {
	db = r.resolveDB(db)
	cm := new(ClubMatch)
	err := db.NewSelect().
		Model(cm).
		Where("club_id = ?", clubID).
		Where("match_id = ?", matchID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get club match: %w", err)
	}
	return cm, nil
}

// ListClubMatchesByClub returns every club-scoped match row for the club.
func (r *Impl) ListClubMatchesByClub(ctx context.Context, db bun.IDB, clubID int64) ([]ClubMatch, error) {
	db = r.resolveDB(db)
	var rows []ClubMatch
	err := db.NewSelect().
		Model(&rows).
		Where("club_id = ?", clubID).
		OrderExpr("match_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list club matches: %w", err)
	}
	return rows, nil
}

// CreateClubMatch inserts a new club-scoped match row.
func (r *Impl) CreateClubMatch(ctx context.Context, db bun.IDB, cm *ClubMatch) error {
	db = r.resolveDB(db)
	now := time.Now()
	cm.CreatedAt = now
	cm.UpdatedAt = now
	if _, err := db.NewInsert().Model(cm).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create club match: %w", err)
	}
	return nil
}

// SetClubMatchRefreshedAt stamps the club-scoped refresh watermark.
func (r *Impl) SetClubMatchRefreshedAt(ctx context.Context, db bun.IDB, clubMatchID int64, refreshedAt time.Time) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*ClubMatch)(nil)).
		Set("refreshed_at = ?", refreshedAt).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", clubMatchID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set club match refreshed at: %w", err)
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

// GetClubMatchCompetitor retrieves one competitor's club-scoped ranking row.
func (r *Impl) GetClubMatchCompetitor(ctx context.Context, db bun.IDB, clubMatchID, competitorID int64) (*ClubMatchCompetitor, error) {
	db = r.resolveDB(db)
	cmc := new(ClubMatchCompetitor)
	err := db.NewSelect().
		Model(cmc).
		Where("club_match_id = ?", clubMatchID).
		Where("competitor_id = ?", competitorID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get club match competitor: %w", err)
	}
	return cmc, nil
}

// ListClubMatchCompetitors returns all ranking rows for the club-scoped match.
func (r *Impl) ListClubMatchCompetitors(ctx context.Context, db bun.IDB, clubMatchID int64) ([]ClubMatchCompetitor, error) {
	db = r.resolveDB(db)
	var rows []ClubMatchCompetitor
	err := db.NewSelect().
		Model(&rows).
		Where("club_match_id = ?", clubMatchID).
		OrderExpr("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list club match competitors: %w", err)
	}
	return rows, nil
}

// CreateClubMatchCompetitor inserts a new club-scoped ranking row.
func (r *Impl) CreateClubMatchCompetitor(ctx context.Context, db bun.IDB, cmc *ClubMatchCompetitor) error {
	db = r.resolveDB(db)
	now := time.Now()
	cmc.CreatedAt = now
	cmc.UpdatedAt = now
	if _, err := db.NewInsert().Model(cmc).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create club match competitor: %w", err)
	}
	return nil
}

// UpdateClubMatchCompetitor overwrites the row's points and percentage by id.
func (r *Impl) UpdateClubMatchCompetitor(ctx context.Context, db bun.IDB, cmc *ClubMatchCompetitor) error {
	db = r.resolveDB(db)
	cmc.UpdatedAt = time.Now()
	result, err := db.NewUpdate().
		Model(cmc).
		Column("points", "percentage", "updated_at").
		Where("id = ?", cmc.ID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update club match competitor: %w", err)
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
