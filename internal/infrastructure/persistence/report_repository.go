package persistence

import (
	"context"
	"time"

	"github.com/agency/backend/internal/domain/finance"
	"github.com/agency/backend/internal/domain/printing"
	"github.com/agency/backend/internal/domain/report"
	"github.com/agency/backend/internal/domain/trade"
	"github.com/agency/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReportRepository runs the read-only report queries
type GormReportRepository struct {
	db  *gorm.DB
	loc *time.Location
}

// NewGormReportRepository creates a new GormReportRepository. loc decides
// month boundaries for the monthly series.
func NewGormReportRepository(db *gorm.DB, loc *time.Location) *GormReportRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &GormReportRepository{db: db, loc: loc}
}

func within(query *gorm.DB, column string, w report.Window) *gorm.DB {
	if w.Start != nil {
		query = query.Where(column+" >= ?", w.Start.UTC())
	}
	if w.End != nil {
		query = query.Where(column+" < ?", w.End.UTC())
	}
	return query
}

// OrderRows returns orders created inside the window, newest first
func (r *GormReportRepository) OrderRows(ctx context.Context, q report.Query) ([]report.OrderRow, error) {
	var rows []report.OrderRow
	query := r.db.WithContext(ctx).
		Table("orders AS o").
		Select(`o.id AS order_id, o.order_number, c.name AS customer_name, o.title, o.status,
			o.total_amount, o.paid_amount, o.total_amount - o.paid_amount AS remaining, o.created_at`).
		Joins("LEFT JOIN customers c ON c.id = o.customer_id")
	query = within(query, "o.created_at", q.Window)
	if q.Status != "" {
		query = query.Where("o.status = ?", q.Status)
	}
	if err := query.Order("o.created_at DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].StatusLabel = trade.OrderStatus(rows[i].Status).Label()
		rows[i].Remaining = rows[i].Remaining.Round(2)
	}
	return rows, nil
}

// PaymentRows returns payments received inside the window, newest first
func (r *GormReportRepository) PaymentRows(ctx context.Context, q report.Query) ([]report.PaymentRow, error) {
	var rows []report.PaymentRow
	query := r.db.WithContext(ctx).
		Table("payments AS p").
		Select(`p.id AS payment_id, p.paid_at, o.order_number, c.name AS customer_name,
			p.method, p.amount, p.reference`).
		Joins("LEFT JOIN orders o ON o.id = p.order_id").
		Joins("LEFT JOIN customers c ON c.id = p.customer_id")
	query = within(query, "p.paid_at", q.Window)
	if q.Method != "" {
		query = query.Where("p.method = ?", q.Method)
	}
	if err := query.Order("p.paid_at DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].MethodLabel = finance.PaymentMethod(rows[i].Method).Label()
	}
	return rows, nil
}

// ExpenseRows returns expenses spent inside the window, newest first
func (r *GormReportRepository) ExpenseRows(ctx context.Context, q report.Query) ([]report.ExpenseRow, error) {
	var rows []report.ExpenseRow
	query := r.db.WithContext(ctx).
		Table("expenses").
		Select("id AS expense_id, expense_number, spent_at, category, description, vendor, amount")
	query = within(query, "spent_at", q.Window)
	if q.Category != "" {
		query = query.Where("category = ?", q.Category)
	}
	if err := query.Order("spent_at DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].CategoryLabel = finance.ExpenseCategory(rows[i].Category).Label()
	}
	return rows, nil
}

func sum(query *gorm.DB, expr string) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := query.Select("SUM(" + expr + ")").Row().Scan(&total); err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal.Round(2), nil
}

// SumPayments totals payments received inside the window
func (r *GormReportRepository) SumPayments(ctx context.Context, w report.Window) (decimal.Decimal, error) {
	return sum(within(r.db.WithContext(ctx).Model(&models.PaymentModel{}), "paid_at", w), "amount")
}

// SumExpenses totals expenses spent inside the window
func (r *GormReportRepository) SumExpenses(ctx context.Context, w report.Window) (decimal.Decimal, error) {
	return sum(within(r.db.WithContext(ctx).Model(&models.ExpenseModel{}), "spent_at", w), "amount")
}

// SumInvoiced totals issued, partially paid and paid invoices by issue date
func (r *GormReportRepository) SumInvoiced(ctx context.Context, w report.Window) (decimal.Decimal, error) {
	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Where("status IN ?", []finance.InvoiceStatus{
			finance.InvoiceStatusIssued, finance.InvoiceStatusPartiallyPaid, finance.InvoiceStatusPaid,
		})
	return sum(within(query, "issue_date", w), "total")
}

// SumOutstanding totals order balances still owed
func (r *GormReportRepository) SumOutstanding(ctx context.Context) (decimal.Decimal, error) {
	return outstanding(r.db.WithContext(ctx))
}

type datedAmount struct {
	At     time.Time
	Amount decimal.Decimal
}

// MonthlySeries returns revenue and expenses per month of year. Rows are
// bucketed in Go so month boundaries follow the configured time zone on
// every database.
func (r *GormReportRepository) MonthlySeries(ctx context.Context, year int) ([]report.MonthlyPoint, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, r.loc)
	end := start.AddDate(1, 0, 0)
	w := report.Window{Start: &start, End: &end}

	var payments, expenses []datedAmount
	if err := within(r.db.WithContext(ctx).Model(&models.PaymentModel{}), "paid_at", w).
		Select("paid_at AS at, amount").Scan(&payments).Error; err != nil {
		return nil, err
	}
	if err := within(r.db.WithContext(ctx).Model(&models.ExpenseModel{}), "spent_at", w).
		Select("spent_at AS at, amount").Scan(&expenses).Error; err != nil {
		return nil, err
	}

	points := report.FillYear(nil)
	for _, p := range payments {
		m := p.At.In(r.loc).Month() - 1
		points[m].Revenue = points[m].Revenue.Add(p.Amount)
	}
	for _, e := range expenses {
		m := e.At.In(r.loc).Month() - 1
		points[m].Expenses = points[m].Expenses.Add(e.Amount)
	}
	for i := range points {
		points[i].Revenue = points[i].Revenue.Round(2)
		points[i].Expenses = points[i].Expenses.Round(2)
	}
	return points, nil
}

// Counts fills the counters of the dashboard
func (r *GormReportRepository) Counts(ctx context.Context, d *report.Dashboard) error {
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.CustomerModel{}).Count(&d.CustomerCount).Error; err != nil {
		return err
	}
	if err := db.Model(&models.OrderModel{}).Count(&d.OrderCount).Error; err != nil {
		return err
	}

	byStatus, err := NewGormOrderRepository(r.db).CountByStatus(ctx)
	if err != nil {
		return err
	}
	d.OrdersByStatus = make(map[string]int64, len(byStatus))
	for s, n := range byStatus {
		d.OrdersByStatus[string(s)] = n
	}

	if err := db.Model(&models.PrintOrderModel{}).
		Where("status <> ?", printing.PrintStatusCompleted).
		Count(&d.PrintOrdersActive).Error; err != nil {
		return err
	}
	if err := db.Model(&models.PrintMaterialModel{}).
		Where("stock_quantity <= min_stock").
		Count(&d.LowStockMaterials).Error; err != nil {
		return err
	}

	y, m, day := time.Now().In(r.loc).Date()
	today := time.Date(y, m, day, 0, 0, 0, 0, r.loc).UTC()
	if err := db.Model(&models.InvoiceModel{}).
		Where("status IN ? AND due_date IS NOT NULL AND due_date < ?",
			[]finance.InvoiceStatus{finance.InvoiceStatusIssued, finance.InvoiceStatusPartiallyPaid}, today).
		Count(&d.OverdueInvoices).Error; err != nil {
		return err
	}

	summary, err := NewGormEvaluationRepository(r.db).Summary(ctx)
	if err != nil {
		return err
	}
	d.AverageRating = summary.Average
	return nil
}

var _ report.ReportRepository = (*GormReportRepository)(nil)
