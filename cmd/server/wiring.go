package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"invoicer/internal/config"
	"invoicer/internal/core/numerator"
	"invoicer/internal/core/phone"
	"invoicer/internal/core/tx"
	"invoicer/internal/domain/catalogs/company"
	"invoicer/internal/domain/catalogs/worker"
	"invoicer/internal/domain/documents/invoice"
	"invoicer/internal/domain/registers/stock"
	"invoicer/internal/infrastructure/cache"
	v1 "invoicer/internal/infrastructure/http/v1"
	"invoicer/internal/infrastructure/http/v1/handlers"
	"invoicer/internal/infrastructure/storage/memory"
	"invoicer/internal/infrastructure/storage/postgres"
	"invoicer/internal/infrastructure/storage/postgres/catalog_repo"
	"invoicer/internal/infrastructure/storage/postgres/document_repo"
	"invoicer/internal/infrastructure/storage/postgres/register_repo"
	"invoicer/pkg/logger"
	pgnumerator "invoicer/pkg/numerator"
)

// repositories is one storage backend's implementation of every contract.
type repositories struct {
	name         string
	txManager    tx.Manager
	numerator    numerator.Generator
	invoices     invoice.Repository
	stock        stock.Repository
	workers      worker.Repository
	transactions worker.TransactionRepository
	company      company.Repository
	checks       map[string]handlers.Pinger
}

func poolConfig(cfg *config.Config) postgres.PoolConfig {
	pc := postgres.DefaultPoolConfig(cfg.Database.URL)
	pc.MaxConns = cfg.Database.MaxConns
	pc.MinConns = cfg.Database.MinConns
	return pc
}

func memoryRepositories() repositories {
	store := memory.New()
	return repositories{
		name:         "memory",
		txManager:    memory.NewTxManager(store),
		numerator:    memory.NewNumerator(store),
		invoices:     memory.NewInvoiceRepo(store),
		stock:        memory.NewStockRepo(store),
		workers:      memory.NewWorkerRepo(store),
		transactions: memory.NewTransactionRepo(store),
		company:      memory.NewCompanyRepo(store),
		checks:       map[string]handlers.Pinger{},
	}
}

func postgresRepositories(cfg *config.Config, pool *postgres.Pool) repositories {
	opts := postgres.DefaultTxOptions()
	if cfg.Database.StatementTimeout > 0 {
		opts.StatementTimeout = cfg.Database.StatementTimeout
	}
	txm := postgres.NewTxManager(pool, opts)

	return repositories{
		name:      "postgres",
		txManager: txm,
		numerator: pgnumerator.NewWithResolver(func(ctx context.Context) pgnumerator.Querier {
			return txm.GetQuerier(ctx)
		}),
		invoices:     document_repo.NewInvoiceRepo(txm),
		stock:        register_repo.NewStockRepo(txm),
		workers:      catalog_repo.NewWorkerRepo(txm),
		transactions: catalog_repo.NewTransactionRepo(txm),
		company:      catalog_repo.NewCompanyRepo(txm),
		checks:       map[string]handlers.Pinger{"database": pool},
	}
}

// withCompanyCache puts Redis in front of the company repository when it is
// configured and reachable. The returned client may be nil.
func withCompanyCache(ctx context.Context, cfg *config.Config, repos *repositories, log *logger.Logger) *redis.Client {
	client, err := cache.Connect(ctx, cache.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warnw("redis unavailable, company cache disabled", "addr", cfg.Redis.Addr, "error", err)
		return nil
	}
	if client == nil {
		return nil
	}

	repos.company = cache.NewCompanyRepo(repos.company, client, cfg.Redis.CompanyTTL)
	repos.checks["redis"] = redisPinger{client}
	log.Infow("company cache enabled", "addr", cfg.Redis.Addr)
	return client
}

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func buildServices(cfg *config.Config, repos repositories) (v1.Services, error) {
	if cfg.Invoice.NumberPrefix == "" {
		return v1.Services{}, fmt.Errorf("invoice number prefix is empty")
	}

	stockSvc := stock.NewService(repos.stock, repos.txManager)
	return v1.Services{
		Invoice: invoice.NewService(
			repos.invoices,
			stockSvc,
			repos.numerator,
			repos.txManager,
			phone.NewNormalizer(cfg.Invoice.PhoneRegion),
			cfg.Invoice.NumberPrefix,
		),
		Stock:              stockSvc,
		Worker:             worker.NewService(repos.workers, repos.transactions, repos.txManager),
		WorkerTransactions: worker.NewTransactionService(repos.transactions, repos.workers, repos.txManager),
		Company:            company.NewService(repos.company),
	}, nil
}
