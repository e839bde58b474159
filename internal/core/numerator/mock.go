package numerator

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockGenerator is an in-memory Generator for unit tests.
// Without GetNextNumberFunc it counts per prefix and day.
type MockGenerator struct {
	GetNextNumberFunc func(ctx context.Context, cfg Config, opts *Options, period time.Time) (string, error)
	SetNextNumberFunc func(ctx context.Context, cfg Config, period time.Time, value int64) error

	mu     sync.Mutex
	counts map[string]int64
}

// GetNextNumber implements Generator.
func (m *MockGenerator) GetNextNumber(ctx context.Context, cfg Config, opts *Options, period time.Time) (string, error) {
	if m.GetNextNumberFunc != nil {
		return m.GetNextNumberFunc(ctx, cfg, opts, period)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = make(map[string]int64)
	}
	key := cfg.Prefix + period.Format("20060102")
	m.counts[key]++
	return fmt.Sprintf("%s-%s-%04d", cfg.Prefix, period.Format("20060102"), m.counts[key]), nil
}

// SetNextNumber implements Generator.
func (m *MockGenerator) SetNextNumber(ctx context.Context, cfg Config, period time.Time, value int64) error {
	if m.SetNextNumberFunc != nil {
		return m.SetNextNumberFunc(ctx, cfg, period, value)
	}
	return nil
}

var _ Generator = (*MockGenerator)(nil)
