// Package id provides UUIDv7 identifiers for entities created on the client
// before the backend assigns its own keys (confirmed order lines).
package id

import (
	"github.com/google/uuid"
)

// ID is a type alias for UUID.
type ID = uuid.UUID

// New generates a time-ordered UUIDv7, so ids sort in creation order.
func New() ID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// IsNil checks if ID is zero-value.
func IsNil(id ID) bool {
	return id == uuid.Nil
}
