package finance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/agency/backend/internal/domain/finance"
	"github.com/agency/backend/internal/domain/shared"
	"github.com/agency/backend/internal/domain/trade"
	"github.com/google/uuid"
)

// memoryStore is an in-memory implementation of every repository the
// finance services use. Execute does not roll back, so failure tests
// only check that nothing was written before the error.
type memoryStore struct {
	mu       sync.Mutex
	orders   map[uuid.UUID]*trade.Order
	payments map[uuid.UUID]*finance.Payment
	invoices map[uuid.UUID]*finance.Invoice
	expenses map[uuid.UUID]*finance.Expense
	accounts map[uuid.UUID]*finance.Account
	entries  []*finance.JournalEntry
	seq      map[string]int64
}

func newMemoryStore() *memoryStore {
	s := &memoryStore{
		orders:   make(map[uuid.UUID]*trade.Order),
		payments: make(map[uuid.UUID]*finance.Payment),
		invoices: make(map[uuid.UUID]*finance.Invoice),
		expenses: make(map[uuid.UUID]*finance.Expense),
		accounts: make(map[uuid.UUID]*finance.Account),
		seq:      make(map[string]int64),
	}
	for _, acc := range finance.SystemAccounts() {
		s.accounts[acc.ID] = acc
	}
	return s
}

func (s *memoryStore) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *memoryStore) OrderRepo() trade.OrderRepository            { return &orderRepo{s} }
func (s *memoryStore) PaymentRepo() finance.PaymentRepository      { return &paymentRepo{s} }
func (s *memoryStore) InvoiceRepo() finance.InvoiceRepository      { return &invoiceRepo{s} }
func (s *memoryStore) ExpenseRepo() finance.ExpenseRepository      { return &expenseRepo{s} }
func (s *memoryStore) AccountRepo() finance.AccountRepository      { return &accountRepo{s} }
func (s *memoryStore) JournalRepo() finance.JournalEntryRepository { return &journalRepo{s} }
func (s *memoryStore) Numbers() shared.NumberGenerator             { return s }

func (s *memoryStore) Next(_ context.Context, prefix string, at time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := fmt.Sprintf("%s-%d", prefix, at.Year())
	s.seq[key]++
	return shared.FormatDocumentNumber(prefix, at.Year(), s.seq[key]), nil
}

func (s *memoryStore) account(code string) *finance.Account {
	for _, acc := range s.accounts {
		if acc.Code == code {
			return acc
		}
	}
	return nil
}

func (s *memoryStore) entriesFor(referenceType string, id uuid.UUID) []*finance.JournalEntry {
	var out []*finance.JournalEntry
	for _, e := range s.entries {
		if e.ReferenceType == referenceType && e.ReferenceID != nil && *e.ReferenceID == id {
			out = append(out, e)
		}
	}
	return out
}

// --- orders ---

type orderRepo struct{ s *memoryStore }

func (r *orderRepo) FindByID(_ context.Context, id uuid.UUID) (*trade.Order, error) {
	if o, ok := r.s.orders[id]; ok {
		return o, nil
	}
	return nil, shared.ErrNotFound
}
func (r *orderRepo) FindByNumber(context.Context, string) (*trade.Order, error) {
	return nil, shared.ErrNotFound
}
func (r *orderRepo) FindAll(context.Context, shared.Filter) ([]trade.Order, error) { return nil, nil }
func (r *orderRepo) Count(context.Context, shared.Filter) (int64, error)           { return 0, nil }
func (r *orderRepo) Save(_ context.Context, o *trade.Order) error {
	r.s.orders[o.ID] = o
	return nil
}
func (r *orderRepo) SaveWithLock(_ context.Context, o *trade.Order) error {
	o.Version++
	r.s.orders[o.ID] = o
	return nil
}
func (r *orderRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.s.orders, id)
	return nil
}
func (r *orderRepo) CountByStatus(context.Context) (map[trade.OrderStatus]int64, error) {
	return nil, nil
}
func (r *orderRepo) Debtors(context.Context) ([]trade.Debtor, error) { return nil, nil }

// --- payments ---

type paymentRepo struct{ s *memoryStore }

func (r *paymentRepo) FindByID(_ context.Context, id uuid.UUID) (*finance.Payment, error) {
	if p, ok := r.s.payments[id]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}
func (r *paymentRepo) FindAll(context.Context, shared.Filter) ([]finance.Payment, error) {
	return nil, nil
}
func (r *paymentRepo) Count(context.Context, shared.Filter) (int64, error) { return 0, nil }
func (r *paymentRepo) FindByOrder(_ context.Context, orderID uuid.UUID) ([]finance.Payment, error) {
	var out []finance.Payment
	for _, p := range r.s.payments {
		if p.OrderID == orderID {
			out = append(out, *p)
		}
	}
	return out, nil
}
func (r *paymentRepo) Save(_ context.Context, p *finance.Payment) error {
	r.s.payments[p.ID] = p
	return nil
}
func (r *paymentRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.s.payments, id)
	return nil
}

// --- invoices ---

type invoiceRepo struct{ s *memoryStore }

func (r *invoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*finance.Invoice, error) {
	if i, ok := r.s.invoices[id]; ok {
		return i, nil
	}
	return nil, shared.ErrNotFound
}
func (r *invoiceRepo) FindByNumber(context.Context, string) (*finance.Invoice, error) {
	return nil, shared.ErrNotFound
}
func (r *invoiceRepo) FindAll(context.Context, shared.Filter) ([]finance.Invoice, error) {
	return nil, nil
}
func (r *invoiceRepo) Count(context.Context, shared.Filter) (int64, error) { return 0, nil }
func (r *invoiceRepo) FindOverdue(_ context.Context, asOf time.Time) ([]finance.Invoice, error) {
	var out []finance.Invoice
	for _, i := range r.s.invoices {
		if i.IsOverdue(asOf) {
			out = append(out, *i)
		}
	}
	return out, nil
}
func (r *invoiceRepo) Save(_ context.Context, i *finance.Invoice) error {
	r.s.invoices[i.ID] = i
	return nil
}
func (r *invoiceRepo) SaveWithLock(_ context.Context, i *finance.Invoice) error {
	i.Version++
	r.s.invoices[i.ID] = i
	return nil
}
func (r *invoiceRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.s.invoices, id)
	return nil
}

// --- expenses ---

type expenseRepo struct{ s *memoryStore }

func (r *expenseRepo) FindByID(_ context.Context, id uuid.UUID) (*finance.Expense, error) {
	if e, ok := r.s.expenses[id]; ok {
		return e, nil
	}
	return nil, shared.ErrNotFound
}
func (r *expenseRepo) FindAll(context.Context, shared.Filter) ([]finance.Expense, error) {
	return nil, nil
}
func (r *expenseRepo) Count(context.Context, shared.Filter) (int64, error) { return 0, nil }
func (r *expenseRepo) Save(_ context.Context, e *finance.Expense) error {
	r.s.expenses[e.ID] = e
	return nil
}
func (r *expenseRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.s.expenses, id)
	return nil
}

// --- accounts ---

type accountRepo struct{ s *memoryStore }

func (r *accountRepo) FindByID(_ context.Context, id uuid.UUID) (*finance.Account, error) {
	if a, ok := r.s.accounts[id]; ok {
		return a, nil
	}
	return nil, shared.ErrNotFound
}
func (r *accountRepo) FindByCode(_ context.Context, code string) (*finance.Account, error) {
	if a := r.s.account(code); a != nil {
		return a, nil
	}
	return nil, shared.ErrNotFound
}
func (r *accountRepo) FindAll(context.Context) ([]finance.Account, error) {
	out := make([]finance.Account, 0, len(r.s.accounts))
	for _, a := range r.s.accounts {
		out = append(out, *a)
	}
	return out, nil
}
func (r *accountRepo) Save(_ context.Context, a *finance.Account) error {
	r.s.accounts[a.ID] = a
	return nil
}
func (r *accountRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.s.accounts, id)
	return nil
}

// --- journal ---

type journalRepo struct{ s *memoryStore }

func (r *journalRepo) FindByID(_ context.Context, id uuid.UUID) (*finance.JournalEntry, error) {
	for _, e := range r.s.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, shared.ErrNotFound
}
func (r *journalRepo) FindByReference(_ context.Context, referenceType string, id uuid.UUID) (*finance.JournalEntry, error) {
	if found := r.s.entriesFor(referenceType, id); len(found) > 0 {
		return found[0], nil
	}
	return nil, shared.ErrNotFound
}
func (r *journalRepo) FindAll(context.Context, shared.Filter) ([]finance.JournalEntry, error) {
	out := make([]finance.JournalEntry, len(r.s.entries))
	for i, e := range r.s.entries {
		out[i] = *e
	}
	return out, nil
}
func (r *journalRepo) Count(context.Context, shared.Filter) (int64, error) {
	return int64(len(r.s.entries)), nil
}
func (r *journalRepo) Save(_ context.Context, e *finance.JournalEntry) error {
	r.s.entries = append(r.s.entries, e)
	return nil
}
func (r *journalRepo) HasLinesForAccount(_ context.Context, accountID uuid.UUID) (bool, error) {
	for _, e := range r.s.entries {
		for _, l := range e.Lines {
			if l.AccountID == accountID {
				return true, nil
			}
		}
	}
	return false, nil
}
