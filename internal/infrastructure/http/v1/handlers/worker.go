package handlers

import (
	"github.com/gin-gonic/gin"

	"invoicer/internal/core/apperror"
	"invoicer/internal/core/id"
	"invoicer/internal/domain/catalogs/worker"
	"invoicer/internal/infrastructure/http/v1/dto"
)

// WorkerHandler serves /workers.
type WorkerHandler = CatalogHandler[*worker.Worker, worker.ListFilter, dto.WorkerRequest]

// NewWorkerHandler creates a new worker handler.
func NewWorkerHandler(base *BaseHandler, service *worker.Service) *WorkerHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*worker.Worker, worker.ListFilter, dto.WorkerRequest]{
		Service:    service.CatalogService,
		MapRequest: dto.WorkerRequest.ToWorker,
		ParseFilter: func(c *gin.Context) (worker.ListFilter, error) {
			return worker.ListFilter{Search: c.Query("search")}, nil
		},
	})
}

// WorkerTransactionHandler serves /worker-transactions.
type WorkerTransactionHandler = CatalogHandler[*worker.Transaction, worker.TransactionFilter, dto.WorkerTransactionRequest]

// NewWorkerTransactionHandler creates a new worker transaction handler.
func NewWorkerTransactionHandler(base *BaseHandler, service *worker.TransactionService) *WorkerTransactionHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*worker.Transaction, worker.TransactionFilter, dto.WorkerTransactionRequest]{
		Service:     service.CatalogService,
		MapRequest:  dto.WorkerTransactionRequest.ToTransaction,
		ParseFilter: parseTransactionFilter,
	})
}

func parseTransactionFilter(c *gin.Context) (worker.TransactionFilter, error) {
	var filter worker.TransactionFilter
	if raw := c.Query("workerId"); raw != "" {
		workerID, err := id.Parse(raw)
		if err != nil {
			return filter, apperror.NewValidation("invalid workerId format").WithDetail("field", "workerId")
		}
		filter.WorkerID = &workerID
	}
	return filter, nil
}
