// Package numerator is the PostgreSQL implementation of core/numerator.Generator.
package numerator

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	corenumerator "orderdesk/internal/core/numerator"
)

// Querier is the subset of pgxpool.Pool the numerator needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type cachedRange struct {
	current int64
	max     int64
}

// Service hands out numbers from the sys_sequences table.
// Calls run outside business transactions so a rolled back order does not
// hold the sequence row lock.
type Service struct {
	querier Querier

	cacheMu sync.Mutex
	ranges  map[string]*cachedRange
}

var _ corenumerator.Generator = (*Service)(nil)

// New creates a numerator over querier.
func New(querier Querier) *Service {
	return &Service{
		querier: querier,
		ranges:  make(map[string]*cachedRange),
	}
}

// GetNextNumber implements corenumerator.Generator.
func (s *Service) GetNextNumber(ctx context.Context, cfg corenumerator.Config, opts *corenumerator.Options, period time.Time) (string, error) {
	if s == nil || s.querier == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}
	if opts == nil {
		opts = corenumerator.DefaultOptions()
	}

	key := buildKey(cfg, period)

	var (
		num int64
		err error
	)
	switch opts.Strategy {
	case corenumerator.StrategyCached:
		num, err = s.getNextCached(ctx, key, opts)
	default:
		num, err = s.getNextStrict(ctx, key)
	}
	if err != nil {
		return "", err
	}

	return formatNumber(cfg, period, num), nil
}

func (s *Service) getNextStrict(ctx context.Context, key string) (int64, error) {
	var num int64
	err := s.querier.QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, 1)
		ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + 1
		RETURNING current_val
	`, key).Scan(&num)
	if err != nil {
		return 0, fmt.Errorf("strict next %s: %w", key, err)
	}
	return num, nil
}

// getNextCached serves from the in-memory range and reserves a new one
// when it runs dry.
func (s *Service) getNextCached(ctx context.Context, key string, opts *corenumerator.Options) (int64, error) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	rng, ok := s.ranges[key]
	if !ok {
		rng = &cachedRange{}
		s.ranges[key] = rng
	}

	if rng.current >= rng.max {
		size := opts.RangeSize
		if size <= 0 {
			size = 50
		}

		var newMax int64
		err := s.querier.QueryRow(ctx, `
			INSERT INTO sys_sequences (key, current_val)
			VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + $2
			RETURNING current_val
		`, key, size).Scan(&newMax)
		if err != nil {
			return 0, fmt.Errorf("reserve range %s: %w", key, err)
		}

		// The reserved range is (newMax-size, newMax].
		rng.current = newMax - size
		rng.max = newMax
	}

	rng.current++
	return rng.current, nil
}

// SetNextNumber implements corenumerator.Generator.
func (s *Service) SetNextNumber(ctx context.Context, cfg corenumerator.Config, period time.Time, value int64) error {
	key := buildKey(cfg, period)

	var result int64
	err := s.querier.QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET current_val = $2
		RETURNING current_val
	`, key, value).Scan(&result)

	s.cacheMu.Lock()
	delete(s.ranges, key)
	s.cacheMu.Unlock()

	if err != nil {
		return fmt.Errorf("set next %s: %w", key, err)
	}
	return nil
}

// AlignTo sets the sequence of period to the sequence part of last, the
// highest number already issued, so the next number follows it. It returns
// the value set, or 0 without touching the sequence when last carries none.
func (s *Service) AlignTo(ctx context.Context, cfg corenumerator.Config, period time.Time, last string) (int64, error) {
	n := ParseNumber(last)
	if n <= 0 {
		return 0, nil
	}
	if err := s.SetNextNumber(ctx, cfg, period, n); err != nil {
		return 0, err
	}
	return n, nil
}

// Prefix returns the part of a number shared by every number of period,
// e.g. "ORD-20261019-".
func Prefix(cfg corenumerator.Config, period time.Time) string {
	if cfg.DateLayout == "" {
		return cfg.Prefix + "-"
	}
	return cfg.Prefix + "-" + period.Format(cfg.DateLayout) + "-"
}

func buildKey(cfg corenumerator.Config, period time.Time) string {
	if cfg.DateLayout == "" {
		return cfg.Prefix
	}
	return cfg.Prefix + "_" + period.Format(cfg.DateLayout)
}

func formatNumber(cfg corenumerator.Config, period time.Time, num int64) string {
	pad := cfg.PadWidth
	if pad <= 0 {
		pad = 4
	}
	if cfg.DateLayout != "" {
		return fmt.Sprintf("%s-%s-%0*d", cfg.Prefix, period.Format(cfg.DateLayout), pad, num)
	}
	return fmt.Sprintf("%s-%0*d", cfg.Prefix, pad, num)
}

// ParseNumber returns the sequence part of a formatted number, or -1.
// "ORD-20261019-0042" gives 42.
func ParseNumber(formatted string) int64 {
	i := strings.LastIndexByte(formatted, '-')
	if i < 0 || i == len(formatted)-1 {
		return -1
	}
	n, err := strconv.ParseInt(formatted[i+1:], 10, 64)
	if err != nil || n < 0 {
		return -1
	}
	return n
}
