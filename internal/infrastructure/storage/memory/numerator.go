package memory

import (
	"context"
	"time"

	"invoicer/internal/core/numerator"
)

// Numerator implements numerator.Generator over the store's sequence map.
// Numbers taken inside a failed transaction are released with it.
type Numerator struct {
	store *Store
}

// NewNumerator creates a generator over s.
func NewNumerator(s *Store) *Numerator {
	return &Numerator{store: s}
}

var _ numerator.Generator = (*Numerator)(nil)

// GetNextNumber ignores opts: there is no round trip to save.
func (n *Numerator) GetNextNumber(ctx context.Context, cfg numerator.Config, opts *numerator.Options, period time.Time) (string, error) {
	key := cfg.Key(period)

	var next int64
	err := n.store.write(ctx, func(st *state) error {
		next = st.sequences[key] + 1
		st.sequences[key] = next
		return nil
	})
	if err != nil {
		return "", err
	}
	return cfg.Format(period, next), nil
}
