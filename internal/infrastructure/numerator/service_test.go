package numerator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	corenumerator "orderdesk/internal/core/numerator"
)

type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

// mockQuerier simulates sys_sequences with one counter per key.
type mockQuerier struct {
	mu     sync.Mutex
	values map[string]int64
	calls  int
	err    error
}

func newMockQuerier() *mockQuerier {
	return &mockQuerier{values: make(map[string]int64)}
}

func (m *mockQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return &mockRow{err: m.err}
	}

	key := args[0].(string)
	switch {
	case strings.Contains(sql, "current_val = $2"):
		m.values[key] = args[1].(int64)
	case len(args) == 2:
		m.values[key] += args[1].(int64)
	default:
		m.values[key]++
	}
	return &mockRow{val: m.values[key]}
}

func day(y int, mo time.Month, d int) time.Time {
	return time.Date(y, mo, d, 10, 30, 0, 0, time.UTC)
}

func TestGetNextNumber_OrderFormat(t *testing.T) {
	svc := New(newMockQuerier())
	cfg := corenumerator.OrderConfig("ORD")
	ctx := context.Background()

	first, err := svc.GetNextNumber(ctx, cfg, nil, day(2026, 10, 19))
	require.NoError(t, err)
	second, err := svc.GetNextNumber(ctx, cfg, nil, day(2026, 10, 19))
	require.NoError(t, err)

	assert.Equal(t, "ORD-20261019-0001", first)
	assert.Equal(t, "ORD-20261019-0002", second)
}

func TestGetNextNumber_ResetsDaily(t *testing.T) {
	svc := New(newMockQuerier())
	cfg := corenumerator.OrderConfig("ORD")
	ctx := context.Background()

	_, err := svc.GetNextNumber(ctx, cfg, nil, day(2026, 10, 19))
	require.NoError(t, err)
	next, err := svc.GetNextNumber(ctx, cfg, nil, day(2026, 10, 20))
	require.NoError(t, err)

	assert.Equal(t, "ORD-20261020-0001", next)
}

func TestGetNextNumber_Cached(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	cfg := corenumerator.OrderConfig("ORD")
	opts := &corenumerator.Options{Strategy: corenumerator.StrategyCached, RangeSize: 10}
	ctx := context.Background()

	var last string
	for i := 0; i < 10; i++ {
		n, err := svc.GetNextNumber(ctx, cfg, opts, day(2026, 10, 19))
		require.NoError(t, err)
		last = n
	}
	assert.Equal(t, "ORD-20261019-0010", last)
	assert.Equal(t, 1, q.calls)

	n, err := svc.GetNextNumber(ctx, cfg, opts, day(2026, 10, 19))
	require.NoError(t, err)
	assert.Equal(t, "ORD-20261019-0011", n)
	assert.Equal(t, 2, q.calls)
}

func TestSetNextNumber_InvalidatesRange(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	cfg := corenumerator.OrderConfig("ORD")
	opts := &corenumerator.Options{Strategy: corenumerator.StrategyCached, RangeSize: 5}
	ctx := context.Background()

	_, err := svc.GetNextNumber(ctx, cfg, opts, day(2026, 10, 19))
	require.NoError(t, err)
	require.NoError(t, svc.SetNextNumber(ctx, cfg, day(2026, 10, 19), 100))

	n, err := svc.GetNextNumber(ctx, cfg, nil, day(2026, 10, 19))
	require.NoError(t, err)
	assert.Equal(t, "ORD-20261019-0101", n)
}

func TestGetNextNumber_QueryError(t *testing.T) {
	q := newMockQuerier()
	q.err = errors.New("connection refused")
	svc := New(q)

	_, err := svc.GetNextNumber(context.Background(), corenumerator.OrderConfig("ORD"), nil, day(2026, 10, 19))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestGetNextNumber_NilService(t *testing.T) {
	var svc *Service
	_, err := svc.GetNextNumber(context.Background(), corenumerator.OrderConfig("ORD"), nil, time.Now())
	assert.Error(t, err)
}

func TestFormatNumber_WithoutDate(t *testing.T) {
	cfg := corenumerator.Config{Prefix: "PO", PadWidth: 6}
	assert.Equal(t, "PO-000042", formatNumber(cfg, time.Now(), 42))
	assert.Equal(t, "PO", buildKey(cfg, time.Now()))
}

func TestParseNumber(t *testing.T) {
	assert.Equal(t, int64(12), ParseNumber("ORD-20261019-0012"))
	assert.Equal(t, int64(7), ParseNumber("PO-7"))
	assert.Equal(t, int64(-1), ParseNumber("ORD-"))
	assert.Equal(t, int64(-1), ParseNumber("garbage"))
}

func TestAlignTo_FollowsLastIssued(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()
	cfg := corenumerator.OrderConfig("ORD")
	today := day(2026, 10, 19)

	n, err := svc.AlignTo(ctx, cfg, today, "ORD-20261019-0041")
	require.NoError(t, err)
	assert.Equal(t, int64(41), n)

	got, err := svc.GetNextNumber(ctx, cfg, nil, today)
	require.NoError(t, err)
	assert.Equal(t, "ORD-20261019-0042", got)
}

func TestAlignTo_NothingIssued(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)

	n, err := svc.AlignTo(context.Background(), corenumerator.OrderConfig("ORD"), day(2026, 10, 19), "")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, q.calls)
}

func TestPrefix(t *testing.T) {
	assert.Equal(t, "ORD-20261019-", Prefix(corenumerator.OrderConfig("ORD"), day(2026, 10, 19)))
	assert.Equal(t, "PO-", Prefix(corenumerator.Config{Prefix: "PO"}, time.Now()))
}
