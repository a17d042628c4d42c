package clubdb

import (
	"time"

	"github.com/uptrace/bun"
)

// Club represents a shooting club.
type Club struct {
	bun.BaseModel `bun:"table:clubs,alias:c"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Name         string    `bun:"name,notnull"`
	Abbreviation string    `bun:"abbreviation,nullzero"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
