package report

import (
	"context"
	"time"

	"github.com/agency/backend/internal/domain/finance"
	"github.com/agency/backend/internal/domain/report"
	"github.com/agency/backend/internal/domain/shared"
	"github.com/agency/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// ReportService provides application-level report operations
type ReportService struct {
	reportRepo report.ReportRepository
	orderRepo  trade.OrderRepository
	cache      DashboardCache
	loc        *time.Location
	logger     *zap.Logger
	now        func() time.Time
}

// NewReportService creates a new ReportService. Reports resolve dates in loc.
// cache may be nil, in which case the dashboard is computed on every call.
func NewReportService(
	reportRepo report.ReportRepository,
	orderRepo trade.OrderRepository,
	cache DashboardCache,
	loc *time.Location,
	logger *zap.Logger,
) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		reportRepo: reportRepo,
		orderRepo:  orderRepo,
		cache:      cache,
		loc:        loc,
		logger:     logger,
		now:        time.Now,
	}
}

// ===================== Filters =====================

// ReportFilter is the query-string form of report.Filter
type ReportFilter struct {
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	Month    int        `form:"month" binding:"omitempty,min=1,max=12"`
	Year     int        `form:"year"`
	Status   string     `form:"status"`
	Method   string     `form:"method"`
	Category string     `form:"category"`
}

// query validates the filter and resolves it against the current time
func (s *ReportService) query(f ReportFilter) (report.Query, error) {
	domainFilter := report.Filter{
		From:     f.From,
		To:       f.To,
		Month:    f.Month,
		Year:     f.Year,
		Status:   f.Status,
		Method:   f.Method,
		Category: f.Category,
	}
	if err := domainFilter.Validate(); err != nil {
		return report.Query{}, err
	}
	if f.Status != "" && !trade.OrderStatus(f.Status).IsValid() {
		return report.Query{}, shared.NewDomainError("INVALID_STATUS", "Unknown order status: "+f.Status)
	}
	if f.Method != "" && !finance.PaymentMethod(f.Method).IsValid() {
		return report.Query{}, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method: "+f.Method)
	}
	if f.Category != "" && !finance.ExpenseCategory(f.Category).IsValid() {
		return report.Query{}, shared.NewDomainError("INVALID_CATEGORY", "Unknown expense category: "+f.Category)
	}
	return report.Query{
		Window:   domainFilter.Window(s.now().In(s.loc)),
		Status:   f.Status,
		Method:   f.Method,
		Category: f.Category,
	}, nil
}

// ===================== Reports =====================

// Orders returns the orders report with totals
func (s *ReportService) Orders(ctx context.Context, f ReportFilter) (*report.OrderReport, error) {
	q, err := s.query(f)
	if err != nil {
		return nil, err
	}
	if q.Window.IsEmpty() {
		rep := report.NewOrderReport(nil)
		return &rep, nil
	}
	rows, err := s.reportRepo.OrderRows(ctx, q)
	if err != nil {
		return nil, err
	}
	rep := report.NewOrderReport(rows)
	return &rep, nil
}

// Payments returns the payments report summed by method
func (s *ReportService) Payments(ctx context.Context, f ReportFilter) (*report.PaymentReport, error) {
	q, err := s.query(f)
	if err != nil {
		return nil, err
	}
	if q.Window.IsEmpty() {
		rep := report.NewPaymentReport(nil)
		return &rep, nil
	}
	rows, err := s.reportRepo.PaymentRows(ctx, q)
	if err != nil {
		return nil, err
	}
	rep := report.NewPaymentReport(rows)
	return &rep, nil
}

// Expenses returns the expenses report summed by category
func (s *ReportService) Expenses(ctx context.Context, f ReportFilter) (*report.ExpenseReport, error) {
	q, err := s.query(f)
	if err != nil {
		return nil, err
	}
	if q.Window.IsEmpty() {
		rep := report.NewExpenseReport(nil)
		return &rep, nil
	}
	rows, err := s.reportRepo.ExpenseRows(ctx, q)
	if err != nil {
		return nil, err
	}
	rep := report.NewExpenseReport(rows)
	return &rep, nil
}

// FinancialSummary compares payments received with expenses over the
// filtered period. Outstanding is the current total owed on orders.
func (s *ReportService) FinancialSummary(ctx context.Context, f ReportFilter) (*report.FinancialSummary, error) {
	q, err := s.query(f)
	if err != nil {
		return nil, err
	}
	outstanding, err := s.reportRepo.SumOutstanding(ctx)
	if err != nil {
		return nil, err
	}
	if q.Window.IsEmpty() {
		summary := report.NewFinancialSummary(zero(), zero(), zero(), outstanding)
		return &summary, nil
	}

	revenue, err := s.reportRepo.SumPayments(ctx, q.Window)
	if err != nil {
		return nil, err
	}
	expenses, err := s.reportRepo.SumExpenses(ctx, q.Window)
	if err != nil {
		return nil, err
	}
	invoiced, err := s.reportRepo.SumInvoiced(ctx, q.Window)
	if err != nil {
		return nil, err
	}
	summary := report.NewFinancialSummary(revenue, expenses, invoiced, outstanding)
	return &summary, nil
}

// Debtors lists customers with unpaid order balances, largest first
func (s *ReportService) Debtors(ctx context.Context) ([]trade.Debtor, error) {
	debtors, err := s.orderRepo.Debtors(ctx)
	if err != nil {
		return nil, err
	}
	if debtors == nil {
		debtors = []trade.Debtor{}
	}
	return debtors, nil
}

// ===================== Dashboard =====================

// Dashboard returns the landing page summary for year (0 = current year).
// Results are served from the cache when one is configured.
func (s *ReportService) Dashboard(ctx context.Context, year int) (*report.Dashboard, error) {
	now := s.now().In(s.loc)
	if year == 0 {
		year = now.Year()
	}
	if year < 2000 || year > 2100 {
		return nil, shared.NewDomainError("INVALID_YEAR", "Year is out of range")
	}

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, year)
		if err != nil {
			s.logger.Warn("dashboard cache read failed", zap.Int("year", year), zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	d, err := s.buildDashboard(ctx, year, now)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, year, d); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Int("year", year), zap.Error(err))
		}
	}
	return d, nil
}

func (s *ReportService) buildDashboard(ctx context.Context, year int, now time.Time) (*report.Dashboard, error) {
	d := &report.Dashboard{
		Year:           year,
		OrdersByStatus: make(map[string]int64),
		GeneratedAt:    now,
	}
	if err := s.reportRepo.Counts(ctx, d); err != nil {
		return nil, err
	}

	window := report.Filter{Year: year}.Window(now)
	var err error
	if d.TotalRevenue, err = s.reportRepo.SumPayments(ctx, window); err != nil {
		return nil, err
	}
	if d.TotalExpenses, err = s.reportRepo.SumExpenses(ctx, window); err != nil {
		return nil, err
	}
	if d.OutstandingBalance, err = s.reportRepo.SumOutstanding(ctx); err != nil {
		return nil, err
	}
	points, err := s.reportRepo.MonthlySeries(ctx, year)
	if err != nil {
		return nil, err
	}
	d.MonthlySeries = report.FillYear(points)
	return d, nil
}

// InvalidateDashboard drops every cached dashboard
func (s *ReportService) InvalidateDashboard(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx)
}
