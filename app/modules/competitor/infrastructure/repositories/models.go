package competitordb

import (
	"time"

	"github.com/uptrace/bun"
)

// CategoryNone is the default competitor category.
const CategoryNone = "none"

// Competitor represents a shooter known to the store. No single field is
// globally unique; identity resolution runs through the priority chain in
// the competitor application service.
type Competitor struct {
	bun.BaseModel `bun:"table:competitors,alias:cp"`

	ID               int64      `bun:"id,pk,autoincrement"`
	FirstName        string     `bun:"first_name,notnull"`
	MiddleName       string     `bun:"middle_name,nullzero"`
	LastName         string     `bun:"last_name,notnull"`
	Registration     *int64     `bun:"registration,nullzero"`
	CompetitorNumber string     `bun:"competitor_number,nullzero"`
	DateOfBirth      *time.Time `bun:"date_of_birth,nullzero"`
	Category         string     `bun:"category,notnull,default:'none'"`
	CreatedAt        time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt        time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
