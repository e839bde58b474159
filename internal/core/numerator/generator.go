package numerator

import (
	"context"
	"time"
)

// Generator produces sequential order numbers.
// Implementations live in the infrastructure layer.
type Generator interface {
	// GetNextNumber returns the next number for the period containing period,
	// e.g. ORD-20261019-0001.
	GetNextNumber(ctx context.Context, cfg Config, opts *Options, period time.Time) (string, error)

	// SetNextNumber overwrites the current sequence value (data migration).
	SetNextNumber(ctx context.Context, cfg Config, period time.Time, value int64) error
}
