package persistence

import (
	"context"

	appfinance "github.com/agency/backend/internal/application/finance"
	appprinting "github.com/agency/backend/internal/application/printing"
	"github.com/agency/backend/internal/domain/finance"
	"github.com/agency/backend/internal/domain/printing"
	"github.com/agency/backend/internal/domain/shared"
	"github.com/agency/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// GormFinanceTransactionScope runs finance postings in one GORM transaction
type GormFinanceTransactionScope struct {
	db *gorm.DB
}

// NewGormFinanceTransactionScope creates a new GormFinanceTransactionScope
func NewGormFinanceTransactionScope(db *gorm.DB) *GormFinanceTransactionScope {
	return &GormFinanceTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back.
func (s *GormFinanceTransactionScope) Execute(ctx context.Context, fn func(repos appfinance.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&financeRepositories{tx: tx})
	})
}

type financeRepositories struct {
	tx *gorm.DB
}

func (r *financeRepositories) OrderRepo() trade.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

func (r *financeRepositories) PaymentRepo() finance.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

func (r *financeRepositories) InvoiceRepo() finance.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

func (r *financeRepositories) ExpenseRepo() finance.ExpenseRepository {
	return NewGormExpenseRepository(r.tx)
}

func (r *financeRepositories) AccountRepo() finance.AccountRepository {
	return NewGormAccountRepository(r.tx)
}

func (r *financeRepositories) JournalRepo() finance.JournalEntryRepository {
	return NewGormJournalEntryRepository(r.tx)
}

func (r *financeRepositories) Numbers() shared.NumberGenerator {
	return NewGormNumberGenerator(r.tx)
}

// GormPrintingTransactionScope runs print order and stock changes in one
// GORM transaction
type GormPrintingTransactionScope struct {
	db *gorm.DB
}

// NewGormPrintingTransactionScope creates a new GormPrintingTransactionScope
func NewGormPrintingTransactionScope(db *gorm.DB) *GormPrintingTransactionScope {
	return &GormPrintingTransactionScope{db: db}
}

// Execute runs fn within a database transaction
func (s *GormPrintingTransactionScope) Execute(ctx context.Context, fn func(repos appprinting.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&printingRepositories{tx: tx})
	})
}

type printingRepositories struct {
	tx *gorm.DB
}

func (r *printingRepositories) PrintOrderRepo() printing.PrintOrderRepository {
	return NewGormPrintOrderRepository(r.tx)
}

func (r *printingRepositories) MaterialRepo() printing.PrintMaterialRepository {
	return NewGormPrintMaterialRepository(r.tx)
}

func (r *printingRepositories) Numbers() shared.NumberGenerator {
	return NewGormNumberGenerator(r.tx)
}

var (
	_ appfinance.TransactionScope           = (*GormFinanceTransactionScope)(nil)
	_ appfinance.TransactionalRepositories  = (*financeRepositories)(nil)
	_ appprinting.TransactionScope          = (*GormPrintingTransactionScope)(nil)
	_ appprinting.TransactionalRepositories = (*printingRepositories)(nil)
)
