package numerator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	corenumerator "invoicer/internal/core/numerator"
)

type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if ptr, ok := dest[0].(*int64); ok {
		*ptr = m.val
	}
	return nil
}

// mockQuerier simulates the sys_sequences upsert: one counter per key.
type mockQuerier struct {
	mu       sync.Mutex
	counters map[string]int64
	calls    int
	err      error
}

func newMockQuerier() *mockQuerier {
	return &mockQuerier{counters: make(map[string]int64)}
}

func (m *mockQuerier) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return &mockRow{err: m.err}
	}
	key := args[0].(string)
	m.counters[key] += args[1].(int64)
	return &mockRow{val: m.counters[key]}
}

func TestGetNextNumber_Strict(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()
	cfg := corenumerator.InvoiceConfig("AB")
	day := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	first, err := svc.GetNextNumber(ctx, cfg, nil, day)
	require.NoError(t, err)
	second, err := svc.GetNextNumber(ctx, cfg, nil, day)
	require.NoError(t, err)

	assert.Equal(t, "AB-260115-0001", first)
	assert.Equal(t, "AB-260115-0002", second)
	assert.Equal(t, 2, q.calls)
}

func TestGetNextNumber_DailyReset(t *testing.T) {
	svc := New(newMockQuerier())
	ctx := context.Background()
	cfg := corenumerator.InvoiceConfig("AB")

	_, err := svc.GetNextNumber(ctx, cfg, nil, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	next, err := svc.GetNextNumber(ctx, cfg, nil, time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "AB-260116-0001", next)
}

func TestGetNextNumber_CachedReservesRanges(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()
	cfg := corenumerator.Config{Prefix: "W", PadWidth: 3}
	opts := &corenumerator.Options{Strategy: corenumerator.StrategyCached, RangeSize: 3}

	var got []string
	for i := 0; i < 4; i++ {
		num, err := svc.GetNextNumber(ctx, cfg, opts, time.Now())
		require.NoError(t, err)
		got = append(got, num)
	}

	assert.Equal(t, []string{"W-001", "W-002", "W-003", "W-004"}, got)
	assert.Equal(t, 2, q.calls, "one reservation per three numbers")
}

func TestGetNextNumber_PropagatesQueryError(t *testing.T) {
	q := newMockQuerier()
	q.err = errors.New("db down")

	_, err := New(q).GetNextNumber(context.Background(), corenumerator.InvoiceConfig("AB"), nil, time.Now())
	assert.ErrorContains(t, err, "db down")
}
