// Package tx lets domain services run work in a database transaction
// without importing the storage layer.
package tx

import (
	"context"
)

// Manager runs fn in a transaction carried through ctx. An error from fn
// rolls back; nested calls join the outer transaction.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
