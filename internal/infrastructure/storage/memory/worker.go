package memory

import (
	"context"
	"slices"
	"strings"

	"invoicer/internal/core/apperror"
	"invoicer/internal/core/id"
	"invoicer/internal/domain/catalogs/worker"
)

// WorkerRepo implements worker.Repository.
type WorkerRepo struct {
	store *Store
}

// NewWorkerRepo creates a worker repository over s.
func NewWorkerRepo(s *Store) *WorkerRepo {
	return &WorkerRepo{store: s}
}

var _ worker.Repository = (*WorkerRepo)(nil)

func cloneWorker(w *worker.Worker) *worker.Worker {
	out := *w
	if w.JoiningDate != nil {
		d := *w.JoiningDate
		out.JoiningDate = &d
	}
	return &out
}

func (r *WorkerRepo) Create(ctx context.Context, w *worker.Worker) error {
	return r.store.write(ctx, func(st *state) error {
		if _, exists := st.workers[w.ID]; exists {
			return apperror.NewDuplicate("worker", "id", w.ID.String())
		}
		st.workers[w.ID] = cloneWorker(w)
		return nil
	})
}

func (r *WorkerRepo) GetByID(ctx context.Context, workerID id.ID) (*worker.Worker, error) {
	var (
		out *worker.Worker
		err error
	)
	r.store.read(func(st *state) {
		w, ok := st.workers[workerID]
		if !ok {
			err = apperror.NewNotFound("worker", workerID.String())
			return
		}
		out = cloneWorker(w)
	})
	return out, err
}

func (r *WorkerRepo) Update(ctx context.Context, w *worker.Worker) error {
	return r.store.write(ctx, func(st *state) error {
		if _, ok := st.workers[w.ID]; !ok {
			return apperror.NewNotFound("worker", w.ID.String())
		}
		st.workers[w.ID] = cloneWorker(w)
		return nil
	})
}

func (r *WorkerRepo) Delete(ctx context.Context, workerID id.ID) error {
	return r.store.write(ctx, func(st *state) error {
		if _, ok := st.workers[workerID]; !ok {
			return apperror.NewNotFound("worker", workerID.String())
		}
		delete(st.workers, workerID)
		return nil
	})
}

func (r *WorkerRepo) List(ctx context.Context, filter worker.ListFilter) ([]*worker.Worker, error) {
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	out := []*worker.Worker{}
	r.store.read(func(st *state) {
		for _, w := range st.workers {
			if search != "" && !strings.Contains(strings.ToLower(w.Name), search) {
				continue
			}
			out = append(out, cloneWorker(w))
		}
	})
	slices.SortFunc(out, func(a, b *worker.Worker) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return out, nil
}

// TransactionRepo implements worker.TransactionRepository.
type TransactionRepo struct {
	store *Store
}

// NewTransactionRepo creates a worker transaction repository over s.
func NewTransactionRepo(s *Store) *TransactionRepo {
	return &TransactionRepo{store: s}
}

var _ worker.TransactionRepository = (*TransactionRepo)(nil)

func cloneTransaction(t *worker.Transaction) *worker.Transaction {
	out := *t
	return &out
}

func (r *TransactionRepo) Create(ctx context.Context, t *worker.Transaction) error {
	return r.store.write(ctx, func(st *state) error {
		if _, exists := st.transactions[t.ID]; exists {
			return apperror.NewDuplicate("worker transaction", "id", t.ID.String())
		}
		st.transactions[t.ID] = cloneTransaction(t)
		return nil
	})
}

func (r *TransactionRepo) GetByID(ctx context.Context, txID id.ID) (*worker.Transaction, error) {
	var (
		out *worker.Transaction
		err error
	)
	r.store.read(func(st *state) {
		t, ok := st.transactions[txID]
		if !ok {
			err = apperror.NewNotFound("worker transaction", txID.String())
			return
		}
		out = cloneTransaction(t)
	})
	return out, err
}

func (r *TransactionRepo) Update(ctx context.Context, t *worker.Transaction) error {
	return r.store.write(ctx, func(st *state) error {
		if _, ok := st.transactions[t.ID]; !ok {
			return apperror.NewNotFound("worker transaction", t.ID.String())
		}
		st.transactions[t.ID] = cloneTransaction(t)
		return nil
	})
}

func (r *TransactionRepo) Delete(ctx context.Context, txID id.ID) error {
	return r.store.write(ctx, func(st *state) error {
		if _, ok := st.transactions[txID]; !ok {
			return apperror.NewNotFound("worker transaction", txID.String())
		}
		delete(st.transactions, txID)
		return nil
	})
}

func (r *TransactionRepo) DeleteByWorker(ctx context.Context, workerID id.ID) error {
	return r.store.write(ctx, func(st *state) error {
		for txID, t := range st.transactions {
			if t.WorkerID == workerID {
				delete(st.transactions, txID)
			}
		}
		return nil
	})
}

func (r *TransactionRepo) List(ctx context.Context, filter worker.TransactionFilter) ([]*worker.Transaction, error) {
	out := []*worker.Transaction{}
	r.store.read(func(st *state) {
		for _, t := range st.transactions {
			if filter.WorkerID != nil && t.WorkerID != *filter.WorkerID {
				continue
			}
			out = append(out, cloneTransaction(t))
		}
	})
	slices.SortFunc(out, func(a, b *worker.Transaction) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}
