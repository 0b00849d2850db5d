package report

import (
	"context"

	"github.com/shopspring/decimal"
)

// Query is a resolved filter handed to the repository
type Query struct {
	Window   Window
	Status   string
	Method   string
	Category string
}

// ReportRepository runs the read-only report queries
type ReportRepository interface {
	OrderRows(ctx context.Context, q Query) ([]OrderRow, error)
	PaymentRows(ctx context.Context, q Query) ([]PaymentRow, error)
	ExpenseRows(ctx context.Context, q Query) ([]ExpenseRow, error)

	SumPayments(ctx context.Context, w Window) (decimal.Decimal, error)
	SumExpenses(ctx context.Context, w Window) (decimal.Decimal, error)
	// SumInvoiced totals issued, partially paid and paid invoices by issue date
	SumInvoiced(ctx context.Context, w Window) (decimal.Decimal, error)
	// SumOutstanding totals order balances still owed
	SumOutstanding(ctx context.Context) (decimal.Decimal, error)

	// MonthlySeries returns revenue and expenses per month of year
	MonthlySeries(ctx context.Context, year int) ([]MonthlyPoint, error)
	// Counts fills the counters of the dashboard
	Counts(ctx context.Context, d *Dashboard) error
}
