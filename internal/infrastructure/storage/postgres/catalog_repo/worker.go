package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"invoicer/internal/core/id"
	"invoicer/internal/domain/catalogs/worker"
	"invoicer/internal/infrastructure/storage/postgres"
)

// WorkerRepo implements worker.Repository.
type WorkerRepo struct {
	*BaseCatalogRepo[*worker.Worker]
}

// NewWorkerRepo creates a new worker repository.
func NewWorkerRepo(txm *postgres.TxManager) *WorkerRepo {
	return &WorkerRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(txm, "workers", "worker",
			postgres.ExtractDBColumns[worker.Worker](),
			func() *worker.Worker { return &worker.Worker{} },
		),
	}
}

var _ worker.Repository = (*WorkerRepo)(nil)

// List returns workers ordered by name.
func (r *WorkerRepo) List(ctx context.Context, filter worker.ListFilter) ([]*worker.Worker, error) {
	return r.list(ctx, func(q squirrel.SelectBuilder) squirrel.SelectBuilder {
		if filter.Search != "" {
			q = q.Where(squirrel.ILike{"name": "%" + filter.Search + "%"})
		}
		return q.OrderBy("name ASC", "id ASC")
	})
}

// TransactionRepo implements worker.TransactionRepository.
type TransactionRepo struct {
	*BaseCatalogRepo[*worker.Transaction]
}

// NewTransactionRepo creates a new worker transaction repository.
func NewTransactionRepo(txm *postgres.TxManager) *TransactionRepo {
	return &TransactionRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(txm, "worker_transactions", "worker transaction",
			postgres.ExtractDBColumns[worker.Transaction](),
			func() *worker.Transaction { return &worker.Transaction{} },
		),
	}
}

var _ worker.TransactionRepository = (*TransactionRepo)(nil)

// List returns transactions newest first.
func (r *TransactionRepo) List(ctx context.Context, filter worker.TransactionFilter) ([]*worker.Transaction, error) {
	return r.list(ctx, func(q squirrel.SelectBuilder) squirrel.SelectBuilder {
		if filter.WorkerID != nil {
			q = q.Where(squirrel.Eq{"worker_id": *filter.WorkerID})
		}
		return q.OrderBy("date DESC", "created_at DESC")
	})
}

// DeleteByWorker removes every transaction of a worker.
func (r *TransactionRepo) DeleteByWorker(ctx context.Context, workerID id.ID) error {
	sql, args, err := postgres.Builder().
		Delete(r.tableName).
		Where(squirrel.Eq{"worker_id": workerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete worker transactions: %w", err)
	}
	return nil
}
