// Package memory is the in-process storage backend. It serves development
// runs without a database and the domain and HTTP tests.
//
// Every write goes through one writer lock. RunInTransaction holds that lock
// for the whole callback and restores a snapshot when the callback fails, so
// a failed transaction leaves no trace. Readers outside a transaction may
// observe writes of a transaction that has not finished yet.
package memory

import (
	"context"
	"maps"
	"sync"

	"invoicer/internal/core/id"
	"invoicer/internal/core/tx"
	"invoicer/internal/domain/catalogs/company"
	"invoicer/internal/domain/catalogs/worker"
	"invoicer/internal/domain/documents/invoice"
	"invoicer/internal/domain/registers/stock"
)

// Store holds all records of the in-memory backend.
type Store struct {
	// writeMu serializes writers; a transaction holds it for its lifetime
	writeMu sync.Mutex

	// mu guards data
	mu   sync.RWMutex
	data state
}

// state is replaced, never mutated in place, by writers: maps hold pointers
// to records that are copied on every write. A shallow copy is a snapshot.
type state struct {
	invoices     map[string]*invoice.Invoice
	invoiceSeq   int64
	stock        map[id.ID]*stock.Stock
	workers      map[id.ID]*worker.Worker
	transactions map[id.ID]*worker.Transaction
	company      *company.Company
	sequences    map[string]int64
}

func (st state) snapshot() state {
	return state{
		invoices:     maps.Clone(st.invoices),
		invoiceSeq:   st.invoiceSeq,
		stock:        maps.Clone(st.stock),
		workers:      maps.Clone(st.workers),
		transactions: maps.Clone(st.transactions),
		company:      st.company,
		sequences:    maps.Clone(st.sequences),
	}
}

// New creates an empty store.
func New() *Store {
	return &Store{
		data: state{
			invoices:     make(map[string]*invoice.Invoice),
			stock:        make(map[id.ID]*stock.Stock),
			workers:      make(map[id.ID]*worker.Worker),
			transactions: make(map[id.ID]*worker.Transaction),
			sequences:    make(map[string]int64),
		},
	}
}

type txKey struct{}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// TxManager implements tx.Manager over the store.
type TxManager struct {
	store *Store
}

// NewTxManager creates a transaction manager for s.
func NewTxManager(s *Store) *TxManager {
	return &TxManager{store: s}
}

var _ tx.Manager = (*TxManager)(nil)

// RunInTransaction runs fn with exclusive write access. Nested calls reuse
// the outer transaction.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s := m.store
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	saved := s.data.snapshot()
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.mu.Lock()
		s.data = saved
		s.mu.Unlock()
		return err
	}
	return nil
}

// write runs fn under the data lock, taking the writer lock first unless ctx
// already belongs to a transaction of this store.
func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	if !s.inTx(ctx) {
		s.writeMu.Lock()
		defer s.writeMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.data)
}

func (s *Store) read(fn func(st *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.data)
}
