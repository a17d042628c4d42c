package clubdb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the contract for club persistence. Lookup misses are
// reported as ErrNotFound, never as a resolution decision.
type Repository interface {
	// GetByID retrieves a club by its store-assigned id.
	GetByID(ctx context.Context, db bun.IDB, id int64) (*Club, error)

	// GetByName retrieves a club by its exact name.
	GetByName(ctx context.Context, db bun.IDB, name string) (*Club, error)

	// GetByAbbreviation retrieves a club by its short code.
	GetByAbbreviation(ctx context.Context, db bun.IDB, abbreviation string) (*Club, error)

	// GetByNameOrAbbreviation retrieves a club whose name or short code
	// equals the given value, preferring the name match.
	GetByNameOrAbbreviation(ctx context.Context, db bun.IDB, value string) (*Club, error)

	// List returns all clubs ordered by name.
	List(ctx context.Context, db bun.IDB) ([]Club, error)

	// Create inserts a new club and fills its store-assigned id.
	Create(ctx context.Context, db bun.IDB, club *Club) error

	// Update overwrites the club's mutable fields by id.
	Update(ctx context.Context, db bun.IDB, club *Club) error
}
