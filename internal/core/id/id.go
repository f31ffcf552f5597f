// Package id provides UUIDv7 generation for stored entities.
// UUIDv7 is time-ordered, so ids sort by creation time.
package id

import (
	"strings"

	"github.com/google/uuid"
)

// ID is a type alias for UUID.
type ID = uuid.UUID

// New generates a new UUIDv7 (time-ordered UUID).
func New() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to V4 if V7 fails (should never happen)
		return uuid.New()
	}
	return id
}

// NewString returns a fresh UUIDv7 in canonical text form.
// Used for client-visible tokens such as invoice and payment ids.
func NewString() string {
	return New().String()
}

// OrNew returns s trimmed, or a fresh token when s is blank.
func OrNew(s string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return NewString()
}

// Parse converts string to ID with validation.
func Parse(s string) (ID, error) {
	return uuid.Parse(strings.TrimSpace(s))
}

// Nil returns zero-value UUID.
func Nil() ID {
	return uuid.Nil
}

// IsNil checks if ID is zero-value.
func IsNil(id ID) bool {
	return id == uuid.Nil
}
