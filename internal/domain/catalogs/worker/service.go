package worker

import (
	"context"

	"invoicer/internal/core/apperror"
	"invoicer/internal/core/tx"
	"invoicer/internal/domain"
	"invoicer/pkg/logger"
)

// Service provides business logic for workers.
type Service struct {
	*domain.CatalogService[*Worker, ListFilter]
}

// NewService creates a new worker service. Deleting a worker also removes
// its transactions.
func NewService(repo Repository, transactions TransactionRepository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Worker, ListFilter]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "worker",
	})

	base.Hooks().On(domain.BeforeDelete, func(ctx context.Context, w *Worker) error {
		if err := transactions.DeleteByWorker(ctx, w.ID); err != nil {
			return err
		}
		logger.Info(ctx, "worker transactions removed", "worker_id", w.ID)
		return nil
	})

	return &Service{CatalogService: base}
}

// TransactionService provides business logic for worker transactions.
type TransactionService struct {
	*domain.CatalogService[*Transaction, TransactionFilter]
}

// NewTransactionService creates a new worker transaction service.
func NewTransactionService(repo TransactionRepository, workers Repository, txManager tx.Manager) *TransactionService {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Transaction, TransactionFilter]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "worker transaction",
	})

	requireWorker := func(ctx context.Context, t *Transaction) error {
		if _, err := workers.GetByID(ctx, t.WorkerID); err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewValidation("worker does not exist").
					WithDetail("field", "workerId").
					WithDetail("value", t.WorkerID.String())
			}
			return err
		}
		return nil
	}
	base.Hooks().On(domain.BeforeCreate, requireWorker)
	base.Hooks().On(domain.BeforeUpdate, requireWorker)

	return &TransactionService{CatalogService: base}
}
