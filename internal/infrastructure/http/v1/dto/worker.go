package dto

import (
	"strings"

	"invoicer/internal/core/id"
	"invoicer/internal/core/types"
	"invoicer/internal/domain/catalogs/worker"
)

// WorkerRequest creates or replaces a worker.
type WorkerRequest struct {
	Name          string        `json:"name" binding:"required"`
	Phone         string        `json:"phone"`
	Address       string        `json:"address"`
	JoiningDate   *Date         `json:"joiningDate"`
	MonthlySalary types.Lenient `json:"monthlySalary"`
}

// ToWorker maps the request onto a new entity.
func (r WorkerRequest) ToWorker() (*worker.Worker, error) {
	return &worker.Worker{
		Name:          r.Name,
		Phone:         r.Phone,
		Address:       r.Address,
		JoiningDate:   r.JoiningDate.Ptr(),
		MonthlySalary: r.MonthlySalary.Decimal(),
	}, nil
}

// WorkerTransactionRequest creates or replaces a worker transaction.
type WorkerTransactionRequest struct {
	WorkerID string        `json:"workerId" binding:"required,uuid"`
	Type     string        `json:"type" binding:"required,oneof=salary advance rental other"`
	Amount   types.Lenient `json:"amount"`
	Date     Date          `json:"date"`
	Note     string        `json:"note"`
}

// ToTransaction maps the request onto a new entity.
func (r WorkerTransactionRequest) ToTransaction() (*worker.Transaction, error) {
	workerID, err := id.Parse(r.WorkerID)
	if err != nil {
		return nil, err
	}
	return &worker.Transaction{
		WorkerID: workerID,
		Type:     worker.TransactionType(r.Type),
		Amount:   r.Amount.Decimal(),
		Date:     r.Date.Time,
		Note:     strings.TrimSpace(r.Note),
	}, nil
}
