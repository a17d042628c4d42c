package competitordb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a competitor is not found.
var ErrNotFound = errors.New("competitor not found")

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new competitor repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// GetByID retrieves a competitor by its store-assigned id.
func (r *Impl) GetByID(ctx context.Context, db bun.IDB, id int64) (*Competitor, error) {
	db = r.resolveDB(db)
	competitor := new(Competitor)
	err := db.NewSelect().
		Model(competitor).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get competitor by id: %w", err)
	}
	return competitor, nil
}

// GetByRegistration retrieves a competitor by registration number.
func (r *Impl) GetByRegistration(ctx context.Context, db bun.IDB, registration int64) (*Competitor, error) {
	db = r.resolveDB(db)
	competitor := new(Competitor)
	err := db.NewSelect().
		Model(competitor).
		Where("registration = ?", registration).
		OrderExpr("id ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get competitor by registration: %w", err)
	}
	return competitor, nil
}

// ListByName returns all competitors sharing the given first and last name,
// ordered by ascending id so callers get a deterministic candidate order.
func (r *Impl) ListByName(ctx context.Context, db bun.IDB, firstName, lastName string, caseSensitive bool) ([]Competitor, error) {
	db = r.resolveDB(db)
	var competitors []Competitor
	q := db.NewSelect().Model(&competitors)
	if caseSensitive {
		q = q.Where("first_name = ?", firstName).Where("last_name = ?", lastName)
	} else {
		q = q.Where("LOWER(first_name) = LOWER(?)", firstName).
			Where("LOWER(last_name) = LOWER(?)", lastName)
	}
	if err := q.OrderExpr("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list competitors by name: %w", err)
	}
	return competitors, nil
}

// Create inserts a new competitor and fills its store-assigned id.
func (r *Impl) Create(ctx context.Context, db bun.IDB, competitor *Competitor) error {
	db = r.resolveDB(db)
	now := time.Now()
	competitor.CreatedAt = now
	competitor.UpdatedAt = now
	if competitor.Category == "" {
		competitor.Category = CategoryNone
	}
	if _, err := db.NewInsert().Model(competitor).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create competitor: %w", err)
	}
	return nil
}

// Update overwrites the competitor's mutable fields by id.
func (r *Impl) Update(ctx context.Context, db bun.IDB, competitor *Competitor) error {
	db = r.resolveDB(db)
	competitor.UpdatedAt = time.Now()
	result, err := db.NewUpdate().
		Model(competitor).
		Column("first_name", "middle_name", "last_name", "registration",
			"competitor_number", "date_of_birth", "category", "updated_at").
		Where("id = ?", competitor.ID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update competitor: %w", err)
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
