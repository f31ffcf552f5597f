package invoice

import (
	"time"

	"invoicer/internal/core/types"
)

// Status is the payment state of an invoice.
type Status string

const (
	StatusPaid    Status = "Paid"
	StatusPartial Status = "Partial"
	StatusUnpaid  Status = "Unpaid"
	StatusOverdue Status = "Overdue"
)

// Valid reports whether s is one of the four states.
func (s Status) Valid() bool {
	switch s {
	case StatusPaid, StatusPartial, StatusUnpaid, StatusOverdue:
		return true
	}
	return false
}

// Resolve derives the payment status.
//
// Precedence: with nothing paid the invoice is Unpaid, or Overdue once the due
// date has passed with a balance left. Any payment makes it Paid when it
// covers totalDue and Partial otherwise, whatever the due date. A zero-due
// invoice with nothing paid is Unpaid.
func Resolve(amountPaid, totalDue types.Money, dueDate, now time.Time) Status {
	if !amountPaid.IsPositive() {
		if totalDue.GreaterThan(amountPaid) && dueDate.Before(now) {
			return StatusOverdue
		}
		return StatusUnpaid
	}
	if amountPaid.GreaterThanOrEqual(totalDue) {
		return StatusPaid
	}
	return StatusPartial
}
