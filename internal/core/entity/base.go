// Package entity holds the pieces shared by every stored record.
package entity

import (
	"context"
	"time"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without database access).
type Validatable interface {
	// Validate checks entity invariants.
	// Returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// Timestamps records when an entity was created and last changed.
type Timestamps struct {
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Created returns the creation time.
func (t *Timestamps) Created() time.Time {
	return t.CreatedAt
}

// Stamp sets both timestamps for a new entity.
func (t *Timestamps) Stamp(now time.Time) {
	t.CreatedAt = now
	t.UpdatedAt = now
}

// Touch moves UpdatedAt forward.
func (t *Timestamps) Touch(now time.Time) {
	t.UpdatedAt = now
}
