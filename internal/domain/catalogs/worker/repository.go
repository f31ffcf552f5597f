package worker

import (
	"context"

	"invoicer/internal/core/id"
	"invoicer/internal/domain"
)

// ListFilter for filtering workers.
type ListFilter struct {
	Search string
}

// TransactionFilter for filtering worker transactions.
type TransactionFilter struct {
	// WorkerID limits the list to one worker when set
	WorkerID *id.ID
}

// Repository persists workers, ordered by name on List.
type Repository interface {
	domain.CatalogRepository[*Worker, ListFilter]
}

// TransactionRepository persists worker transactions, ordered by date
// descending on List.
type TransactionRepository interface {
	domain.CatalogRepository[*Transaction, TransactionFilter]

	// DeleteByWorker removes every transaction of a worker.
	DeleteByWorker(ctx context.Context, workerID id.ID) error
}
