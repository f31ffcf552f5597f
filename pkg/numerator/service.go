// Package numerator provides the PostgreSQL implementation of invoice auto-numbering
// over the sys_sequences table.
package numerator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	corenumerator "invoicer/internal/core/numerator"
)

// Querier interface for database operations.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type cachedRange struct {
	current int64
	max     int64
}

// Service provides document numbering functionality.
type Service struct {
	resolve func(ctx context.Context) Querier

	// cacheMu protects ranges
	cacheMu sync.Mutex
	ranges  map[string]*cachedRange
}

// Ensure compile-time interface compliance.
var _ corenumerator.Generator = (*Service)(nil)

// New creates a numerator bound to a single querier.
func New(querier Querier) *Service {
	return NewWithResolver(func(context.Context) Querier { return querier })
}

// NewWithResolver creates a numerator that picks its querier per call, so a
// number taken inside a transaction is released again when it rolls back.
func NewWithResolver(resolve func(ctx context.Context) Querier) *Service {
	return &Service{
		resolve: resolve,
		ranges:  make(map[string]*cachedRange),
	}
}

// GetNextNumber generates the next document number.
// Pattern: PREFIX-YYMMDD-NNNN for the invoice layout.
func (s *Service) GetNextNumber(ctx context.Context, cfg corenumerator.Config, opts *corenumerator.Options, period time.Time) (string, error) {
	if s == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}
	if opts == nil {
		opts = corenumerator.DefaultOptions()
	}

	key := cfg.Key(period)

	var (
		num int64
		err error
	)
	switch opts.Strategy {
	case corenumerator.StrategyCached:
		num, err = s.getNextCached(ctx, key, opts.RangeSize)
	default:
		num, err = s.reserve(ctx, key, 1)
	}
	if err != nil {
		return "", err
	}

	return cfg.Format(period, num), nil
}

// reserve bumps the counter stored under key by n and returns its new value.
func (s *Service) reserve(ctx context.Context, key string, n int64) (int64, error) {
	var val int64
	err := s.resolve(ctx).QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + $2
		RETURNING current_val
	`, key, n).Scan(&val)
	if err != nil {
		return 0, fmt.Errorf("next %s: %w", key, err)
	}
	return val, nil
}

// getNextCached hands out numbers from an in-memory range, reserving a new
// range of size values when the current one is used up.
func (s *Service) getNextCached(ctx context.Context, key string, size int64) (int64, error) {
	if size <= 0 {
		size = 50
	}

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	rng, ok := s.ranges[key]
	if !ok {
		rng = &cachedRange{}
		s.ranges[key] = rng
	}

	if rng.current >= rng.max {
		newMax, err := s.reserve(ctx, key, size)
		if err != nil {
			return 0, fmt.Errorf("reserve range: %w", err)
		}
		// the reserved range is (newMax-size, newMax]
		rng.current = newMax - size
		rng.max = newMax
	}

	rng.current++
	return rng.current, nil
}
