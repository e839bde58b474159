package order

import (
	"context"
)

// Repository persists orders.
type Repository interface {
	// Create inserts the order and its items, setting the generated ids.
	Create(ctx context.Context, o *Order) error

	GetByNumber(ctx context.Context, orderNumber string) (*Order, error)
}
