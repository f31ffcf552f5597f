package numerator

import (
	"context"
	"time"
)

// Generator hands out document numbers.
// Implementations live in pkg/numerator (PostgreSQL) and the in-memory store.
type Generator interface {
	// GetNextNumber generates the next number for cfg in period.
	GetNextNumber(ctx context.Context, cfg Config, opts *Options, period time.Time) (string, error)
}
