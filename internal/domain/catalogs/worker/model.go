// Package worker provides the workers catalog and the salary, advance,
// rental and other transactions recorded against each worker.
package worker

import (
	"context"
	"strings"
	"time"

	"invoicer/internal/core/apperror"
	"invoicer/internal/core/entity"
	"invoicer/internal/core/id"
	"invoicer/internal/core/types"
	"invoicer/internal/domain"
)

// Worker is an employee on the payroll.
type Worker struct {
	ID            id.ID       `db:"id" json:"id"`
	Name          string      `db:"name" json:"name"`
	Phone         string      `db:"phone" json:"phone"`
	Address       string      `db:"address" json:"address"`
	JoiningDate   *time.Time  `db:"joining_date" json:"joiningDate,omitempty"`
	MonthlySalary types.Money `db:"monthly_salary" json:"monthlySalary"`

	entity.Timestamps
}

func (w *Worker) GetID() id.ID      { return w.ID }
func (w *Worker) SetID(newID id.ID) { w.ID = newID }

// Validate implements entity.Validatable.
func (w *Worker) Validate(ctx context.Context) error {
	w.Name = strings.TrimSpace(w.Name)
	w.Phone = strings.TrimSpace(w.Phone)
	if w.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if w.MonthlySalary.IsNegative() {
		return apperror.NewValidation("monthly salary cannot be negative").
			WithDetail("field", "monthlySalary")
	}
	w.MonthlySalary = types.Round(w.MonthlySalary)
	return nil
}

var _ domain.CatalogEntity = (*Worker)(nil)

// TransactionType classifies a worker transaction.
type TransactionType string

const (
	TypeSalary  TransactionType = "salary"
	TypeAdvance TransactionType = "advance"
	TypeRental  TransactionType = "rental"
	TypeOther   TransactionType = "other"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case TypeSalary, TypeAdvance, TypeRental, TypeOther:
		return true
	}
	return false
}

// Transaction is money paid to or taken from a worker.
type Transaction struct {
	ID       id.ID           `db:"id" json:"id"`
	WorkerID id.ID           `db:"worker_id" json:"workerId"`
	Type     TransactionType `db:"type" json:"type"`
	Amount   types.Money     `db:"amount" json:"amount"`
	Date     time.Time       `db:"date" json:"date"`
	Note     string          `db:"note" json:"note,omitempty"`

	entity.Timestamps
}

func (t *Transaction) GetID() id.ID      { return t.ID }
func (t *Transaction) SetID(newID id.ID) { t.ID = newID }

// Validate implements entity.Validatable. Worker existence is checked by the
// service.
func (t *Transaction) Validate(ctx context.Context) error {
	if id.IsNil(t.WorkerID) {
		return apperror.NewValidation("worker is required").
			WithDetail("field", "workerId")
	}
	if !t.Type.Valid() {
		return apperror.NewValidation("unknown transaction type").
			WithDetail("field", "type").
			WithDetail("value", string(t.Type))
	}
	if !t.Amount.IsPositive() {
		return apperror.NewValidation("amount must be greater than zero").
			WithDetail("field", "amount")
	}
	if t.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	t.Amount = types.Round(t.Amount)
	t.Note = strings.TrimSpace(t.Note)
	return nil
}

var _ domain.CatalogEntity = (*Transaction)(nil)
