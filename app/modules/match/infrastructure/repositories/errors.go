package matchdb

import "errors"

// Sentinel errors for the repository layer. These are infrastructure-level
// signals; the service layer decides whether a miss is a domain failure.
var (
	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrNoRowsAffected indicates an UPDATE affected zero rows.
	ErrNoRowsAffected = errors.New("no rows affected")
)
