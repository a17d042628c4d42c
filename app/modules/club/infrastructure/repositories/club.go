package clubdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a club is not found.
var ErrNotFound = errors.New("club not found")

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new club repository.
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

// GetByID retrieves a club by its store-assigned id.
func (r *Impl) GetByID(ctx context.Context, db bun.IDB, id int64) (*Club, error) {
	db = r.resolveDB(db)
	club := new(Club)
	err := db.NewSelect().
		Model(club).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get club by id: %w", err)
	}
	return club, nil
}

// GetByName retrieves a club by its exact name.
func (r *Impl) GetByName(ctx context.Context, db bun.IDB, name string) (*Club, error) {
	db = r.resolveDB(db)
	club := new(Club)
	err := db.NewSelect().
		Model(club).
		Where("name = ?", name).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get club by name: %w", err)
	}
	return club, nil
}

// GetByAbbreviation retrieves a club by its short code.
func (r *Impl) GetByAbbreviation(ctx context.Context, db bun.IDB, abbreviation string) (*Club, error) {
	db = r.resolveDB(db)
	club := new(Club)
	err := db.NewSelect().
		Model(club).
		Where("abbreviation = ?", abbreviation).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get club by abbreviation: %w", err)
	}
	return club, nil
}

// GetByNameOrAbbreviation retrieves a club whose name or short code equals
// the given value. Ordering prefers the name match so the result is stable
// when a value collides across both columns.
func (r *Impl) GetByNameOrAbbreviation(ctx context.Context, db bun.IDB, value string) (*Club, error) {
	db = r.resolveDB(db)
	club := new(Club)
	err := db.NewSelect().
		Model(club).
		Where("name = ?", value).
		WhereOr("abbreviation = ?", value).
		OrderExpr("name = ? DESC, id ASC", value).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get club by name or abbreviation: %w", err)
	}
	return club, nil
}

// List returns all clubs ordered by name.
func (r *Impl) List(ctx context.Context, db bun.IDB) ([]Club, error) {
	db = r.resolveDB(db)
	var clubs []Club
	err := db.NewSelect().
		Model(&clubs).
		OrderExpr("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clubs: %w", err)
	}
	return clubs, nil
}

// Create inserts a new club and fills its store-assigned id.
func (r *Impl) Create(ctx context.Context, db bun.IDB, club *Club) error {
	db = r.resolveDB(db)
	now := time.Now()
	club.CreatedAt = now
	club.UpdatedAt = now
	if _, err := db.NewInsert().Model(club).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create club: %w", err)
	}
	return nil
}

// Update overwrites the club's mutable fields by id.
func (r *Impl) Update(ctx context.Context, db bun.IDB, club *Club) error {
	db = r.resolveDB(db)
	club.UpdatedAt = time.Now()
	result, err := db.NewUpdate().
		Model(club).
		Column("name", "abbreviation", "updated_at").
		Where("id = ?", club.ID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update club: %w", err)
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
