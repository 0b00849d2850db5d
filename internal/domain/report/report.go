package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderRow is one line of the orders report
type OrderRow struct {
	OrderID      uuid.UUID       `json:"order_id"`
	OrderNumber  string          `json:"order_number"`
	CustomerName string          `json:"customer_name"`
	Title        string          `json:"title"`
	Status       string          `json:"status"`
	StatusLabel  string          `json:"status_label"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	PaidAmount   decimal.Decimal `json:"paid_amount"`
	Remaining    decimal.Decimal `json:"remaining_amount"`
	CreatedAt    time.Time       `json:"created_at"`
}

// OrderTotals sums the orders report
type OrderTotals struct {
	Count     int             `json:"count"`
	Total     decimal.Decimal `json:"total_amount"`
	Paid      decimal.Decimal `json:"paid_amount"`
	Remaining decimal.Decimal `json:"remaining_amount"`
}

// OrderReport is the orders report
type OrderReport struct {
	Rows   []OrderRow  `json:"rows"`
	Totals OrderTotals `json:"totals"`
}

// NewOrderReport totals the given rows
func NewOrderReport(rows []OrderRow) OrderReport {
	totals := OrderTotals{Count: len(rows), Total: decimal.Zero, Paid: decimal.Zero, Remaining: decimal.Zero}
	for _, r := range rows {
		totals.Total = totals.Total.Add(r.TotalAmount)
		totals.Paid = totals.Paid.Add(r.PaidAmount)
		totals.Remaining = totals.Remaining.Add(r.Remaining)
	}
	if rows == nil {
		rows = []OrderRow{}
	}
	return OrderReport{Rows: rows, Totals: totals}
}

// PaymentRow is one line of the payments report
type PaymentRow struct {
	PaymentID    uuid.UUID       `json:"payment_id"`
	PaidAt       time.Time       `json:"paid_at"`
	OrderNumber  string          `json:"order_number"`
	CustomerName string          `json:"customer_name"`
	Method       string          `json:"method"`
	MethodLabel  string          `json:"method_label"`
	Amount       decimal.Decimal `json:"amount"`
	Reference    string          `json:"reference"`
}

// PaymentReport is the payments report
type PaymentReport struct {
	Rows     []PaymentRow               `json:"rows"`
	Total    decimal.Decimal            `json:"total"`
	ByMethod map[string]decimal.Decimal `json:"by_method"`
}

// NewPaymentReport totals the given rows
func NewPaymentReport(rows []PaymentRow) PaymentReport {
	rep := PaymentReport{Rows: rows, Total: decimal.Zero, ByMethod: make(map[string]decimal.Decimal)}
	for _, r := range rows {
		rep.Total = rep.Total.Add(r.Amount)
		rep.ByMethod[r.Method] = rep.ByMethod[r.Method].Add(r.Amount)
	}
	if rep.Rows == nil {
		rep.Rows = []PaymentRow{}
	}
	return rep
}

// ExpenseRow is one line of the expenses report
type ExpenseRow struct {
	ExpenseID     uuid.UUID       `json:"expense_id"`
	ExpenseNumber string          `json:"expense_number"`
	SpentAt       time.Time       `json:"spent_at"`
	Category      string          `json:"category"`
	CategoryLabel string          `json:"category_label"`
	Description   string          `json:"description"`
	Vendor        string          `json:"vendor"`
	Amount        decimal.Decimal `json:"amount"`
}

// ExpenseReport is the expenses report
type ExpenseReport struct {
	Rows       []ExpenseRow               `json:"rows"`
	Total      decimal.Decimal            `json:"total"`
	ByCategory map[string]decimal.Decimal `json:"by_category"`
}

// NewExpenseReport totals the given rows
func NewExpenseReport(rows []ExpenseRow) ExpenseReport {
	rep := ExpenseReport{Rows: rows, Total: decimal.Zero, ByCategory: make(map[string]decimal.Decimal)}
	for _, r := range rows {
		rep.Total = rep.Total.Add(r.Amount)
		rep.ByCategory[r.Category] = rep.ByCategory[r.Category].Add(r.Amount)
	}
	if rep.Rows == nil {
		rep.Rows = []ExpenseRow{}
	}
	return rep
}

// FinancialSummary compares money in and out over a period
type FinancialSummary struct {
	Revenue     decimal.Decimal `json:"revenue"`
	Expenses    decimal.Decimal `json:"expenses"`
	Net         decimal.Decimal `json:"net"`
	Invoiced    decimal.Decimal `json:"invoiced"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// NewFinancialSummary derives the net figure
func NewFinancialSummary(revenue, expenses, invoiced, outstanding decimal.Decimal) FinancialSummary {
	return FinancialSummary{
		Revenue:     revenue,
		Expenses:    expenses,
		Net:         revenue.Sub(expenses),
		Invoiced:    invoiced,
		Outstanding: outstanding,
	}
}

// MonthlyPoint is one month of the dashboard revenue series
type MonthlyPoint struct {
	Month    int             `json:"month"`
	Revenue  decimal.Decimal `json:"revenue"`
	Expenses decimal.Decimal `json:"expenses"`
}

// FillYear returns twelve points, one per month, taking values from points
func FillYear(points []MonthlyPoint) []MonthlyPoint {
	out := make([]MonthlyPoint, 12)
	for i := range out {
		out[i] = MonthlyPoint{Month: i + 1, Revenue: decimal.Zero, Expenses: decimal.Zero}
	}
	for _, p := range points {
		if p.Month < 1 || p.Month > 12 {
			continue
		}
		out[p.Month-1].Revenue = out[p.Month-1].Revenue.Add(p.Revenue)
		out[p.Month-1].Expenses = out[p.Month-1].Expenses.Add(p.Expenses)
	}
	return out
}

// Dashboard is the landing page summary
type Dashboard struct {
	Year               int              `json:"year"`
	CustomerCount      int64            `json:"customer_count"`
	OrderCount         int64            `json:"order_count"`
	OrdersByStatus     map[string]int64 `json:"orders_by_status"`
	PrintOrdersActive  int64            `json:"print_orders_active"`
	LowStockMaterials  int64            `json:"low_stock_materials"`
	OverdueInvoices    int64            `json:"overdue_invoices"`
	TotalRevenue       decimal.Decimal  `json:"total_revenue"`
	TotalExpenses      decimal.Decimal  `json:"total_expenses"`
	OutstandingBalance decimal.Decimal  `json:"outstanding_balance"`
	AverageRating      float64          `json:"average_rating"`
	MonthlySeries      []MonthlyPoint   `json:"monthly_series"`
	GeneratedAt        time.Time        `json:"generated_at"`
}
