package competitordb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the contract for competitor persistence. It performs
// keyed lookups only; resolution logic lives in the application service.
type Repository interface {
	// GetByID retrieves a competitor by its store-assigned id.
	GetByID(ctx context.Context, db bun.IDB, id int64) (*Competitor, error)

	// GetByRegistration retrieves a competitor by registration number.
	GetByRegistration(ctx context.Context, db bun.IDB, registration int64) (*Competitor, error)

	// ListByName returns all competitors sharing the given first and last
	// name, ordered by ascending id. caseSensitive selects exact or
	// case-folded comparison.
	ListByName(ctx context.Context, db bun.IDB, firstName, lastName string, caseSensitive bool) ([]Competitor, error)

	// Create inserts a new competitor and fills its store-assigned id.
	Create(ctx context.Context, db bun.IDB, competitor *Competitor) error

	// Update overwrites the competitor's mutable fields by id.
	Update(ctx context.Context, db bun.IDB, competitor *Competitor) error
}
