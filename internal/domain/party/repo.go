package party

import (
	"context"
)

// Repository reads parties, addresses and dispatch locations.
// Stored addresses come back ordered by address id.
type Repository interface {
	ListParties(ctx context.Context) ([]Party, error)
	GetParty(ctx context.Context, cardCode string) (*Party, error)
	ListAddresses(ctx context.Context, cardCode string) ([]Address, error)
	ListDispatches(ctx context.Context) ([]Dispatch, error)
}
