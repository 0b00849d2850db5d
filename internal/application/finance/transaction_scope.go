package finance

import (
	"context"

	"github.com/agency/backend/internal/domain/finance"
	"github.com/agency/backend/internal/domain/shared"
	"github.com/agency/backend/internal/domain/trade"
)

// TransactionScope provides transactional access to the finance repositories.
// Every repository handed to fn shares one database transaction, committed
// when fn returns nil and rolled back otherwise.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories within a transaction.
//
// Posting a document and its journal entry always happens through one
// TransactionalRepositories value, so account balances never drift from
// the journal.
type TransactionalRepositories interface {
	OrderRepo() trade.OrderRepository
	PaymentRepo() finance.PaymentRepository
	InvoiceRepo() finance.InvoiceRepository
	ExpenseRepo() finance.ExpenseRepository
	AccountRepo() finance.AccountRepository
	JournalRepo() finance.JournalEntryRepository
	// Numbers issues document numbers inside the transaction
	Numbers() shared.NumberGenerator
}
