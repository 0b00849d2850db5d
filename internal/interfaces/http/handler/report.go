package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	appreport "github.com/agency/backend/internal/application/report"
	"github.com/agency/backend/internal/domain/report"
	"github.com/agency/backend/internal/domain/trade"
	"github.com/agency/backend/internal/infrastructure/export"
	"github.com/gin-gonic/gin"
)

// ReportService is the reporting use-case surface
type ReportService interface {
	Orders(ctx context.Context, f appreport.ReportFilter) (*report.OrderReport, error)
	Payments(ctx context.Context, f appreport.ReportFilter) (*report.PaymentReport, error)
	Expenses(ctx context.Context, f appreport.ReportFilter) (*report.ExpenseReport, error)
	FinancialSummary(ctx context.Context, f appreport.ReportFilter) (*report.FinancialSummary, error)
	Debtors(ctx context.Context) ([]trade.Debtor, error)
	Dashboard(ctx context.Context, year int) (*report.Dashboard, error)
}

// ReportExporter writes reports as spreadsheets
type ReportExporter interface {
	Orders(w io.Writer, rep *report.OrderReport) error
	Payments(w io.Writer, rep *report.PaymentReport) error
	Expenses(w io.Writer, rep *report.ExpenseReport) error
	Debtors(w io.Writer, debtors []trade.Debtor) error
}

// ReportHandler handles report endpoints
type ReportHandler struct {
	BaseHandler
	reportService ReportService
	exporter      ReportExporter
	now           func() time.Time
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService ReportService, exporter ReportExporter) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		exporter:      exporter,
		now:           time.Now,
	}
}

type dashboardQuery struct {
	Year int `form:"year"`
}

// Orders godoc
// @ID           getOrderReport
// @Summary      Orders report
// @Description  from/to take precedence over month/year. Without any date filter the current month is used.
// @Tags         reports
// @Produce      json
// @Param        from query string false "Start date" format(date)
// @Param        to query string false "End date" format(date)
// @Param        month query int false "Month" minimum(1) maximum(12)
// @Param        year query int false "Year"
// @Param        status query string false "Order status"
// @Success      200 {object} APIResponse[report.OrderReport]
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /reports/orders [get]
func (h *ReportHandler) Orders(c *gin.Context) {
	var f appreport.ReportFilter
	if !h.bindQuery(c, &f) {
		return
	}

	rep, err := h.reportService.Orders(c.Request.Context(), f)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rep)
}

// Payments godoc
// @ID           getPaymentReport
// @Summary      Payments report
// @Tags         reports
// @Produce      json
// @Param        from query string false "Start date" format(date)
// @Param        to query string false "End date" format(date)
// @Param        month query int false "Month" minimum(1) maximum(12)
// @Param        year query int false "Year"
// @Param        method query string false "Payment method"
// @Success      200 {object} APIResponse[report.PaymentReport]
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /reports/payments [get]
func (h *ReportHandler) Payments(c *gin.Context) {
	var f appreport.ReportFilter
	if !h.bindQuery(c, &f) {
		return
	}

	rep, err := h.reportService.Payments(c.Request.Context(), f)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rep)
}

// Expenses godoc
// @ID           getExpenseReport
// @Summary      Expenses report
// @Tags         reports
// @Produce      json
// @Param        from query string false "Start date" format(date)
// @Param        to query string false "End date" format(date)
// @Param        month query int false "Month" minimum(1) maximum(12)
// @Param        year query int false "Year"
// @Param        category query string false "Expense category"
// @Success      200 {object} APIResponse[report.ExpenseReport]
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /reports/expenses [get]
func (h *ReportHandler) Expenses(c *gin.Context) {
	var f appreport.ReportFilter
	if !h.bindQuery(c, &f) {
		return
	}

	rep, err := h.reportService.Expenses(c.Request.Context(), f)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rep)
}

// FinancialSummary godoc
// @ID           getFinancialSummary
// @Summary      Revenue, expenses and profit for a period
// @Tags         reports
// @Produce      json
// @Param        from query string false "Start date" format(date)
// @Param        to query string false "End date" format(date)
// @Param        month query int false "Month" minimum(1) maximum(12)
// @Param        year query int false "Year"
// @Success      200 {object} APIResponse[report.FinancialSummary]
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /reports/financial-summary [get]
func (h *ReportHandler) FinancialSummary(c *gin.Context) {
	var f appreport.ReportFilter
	if !h.bindQuery(c, &f) {
		return
	}

	summary, err := h.reportService.FinancialSummary(c.Request.Context(), f)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// Debtors godoc
// @ID           getDebtorReport
// @Summary      Customers with unpaid balances
// @Tags         reports
// @Produce      json
// @Success      200 {object} APIResponse[[]trade.Debtor]
// @Security     BearerAuth
// @Router       /reports/debtors [get]
func (h *ReportHandler) Debtors(c *gin.Context) {
	debtors, err := h.reportService.Debtors(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, debtors)
}

// Dashboard godoc
// @ID           getDashboard
// @Summary      Landing page summary
// @Description  Served from cache; orders, payments and expenses invalidate it
// @Tags         reports
// @Produce      json
// @Param        year query int false "Year, defaults to the current year"
// @Success      200 {object} APIResponse[report.Dashboard]
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	var q dashboardQuery
	if !h.bindQuery(c, &q) {
		return
	}

	dashboard, err := h.reportService.Dashboard(c.Request.Context(), q.Year)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dashboard)
}

// ExportOrders godoc
// @ID           exportOrderReport
// @Summary      Download the orders report as Excel
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        from query string false "Start date" format(date)
// @Param        to query string false "End date" format(date)
// @Param        month query int false "Month" minimum(1) maximum(12)
// @Param        year query int false "Year"
// @Param        status query string false "Order status"
// @Success      200 {file} binary
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /reports/orders/export [get]
func (h *ReportHandler) ExportOrders(c *gin.Context) {
	var f appreport.ReportFilter
	if !h.bindQuery(c, &f) {
		return
	}

	rep, err := h.reportService.Orders(c.Request.Context(), f)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.sendWorkbook(c, "orders", func(w io.Writer) error { return h.exporter.Orders(w, rep) })
}

// ExportPayments godoc
// @ID           exportPaymentReport
// @Summary      Download the payments report as Excel
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        from query string false "Start date" format(date)
// @Param        to query string false "End date" format(date)
// @Param        month query int false "Month" minimum(1) maximum(12)
// @Param        year query int false "Year"
// @Param        method query string false "Payment method"
// @Success      200 {file} binary
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /reports/payments/export [get]
func (h *ReportHandler) ExportPayments(c *gin.Context) {
	var f appreport.ReportFilter
	if !h.bindQuery(c, &f) {
		return
	}

	rep, err := h.reportService.Payments(c.Request.Context(), f)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.sendWorkbook(c, "payments", func(w io.Writer) error { return h.exporter.Payments(w, rep) })
}

// ExportExpenses godoc
// @ID           exportExpenseReport
// @Summary      Download the expenses report as Excel
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        from query string false "Start date" format(date)
// @Param        to query string false "End date" format(date)
// @Param        month query int false "Month" minimum(1) maximum(12)
// @Param        year query int false "Year"
// @Param        category query string false "Expense category"
// @Success      200 {file} binary
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /reports/expenses/export [get]
func (h *ReportHandler) ExportExpenses(c *gin.Context) {
	var f appreport.ReportFilter
	if !h.bindQuery(c, &f) {
		return
	}

	rep, err := h.reportService.Expenses(c.Request.Context(), f)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.sendWorkbook(c, "expenses", func(w io.Writer) error { return h.exporter.Expenses(w, rep) })
}

// ExportDebtors godoc
// @ID           exportDebtorReport
// @Summary      Download the debtors report as Excel
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200 {file} binary
// @Security     BearerAuth
// @Router       /reports/debtors/export [get]
func (h *ReportHandler) ExportDebtors(c *gin.Context) {
	debtors, err := h.reportService.Debtors(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.sendWorkbook(c, "debtors", func(w io.Writer) error { return h.exporter.Debtors(w, debtors) })
}

// sendWorkbook renders into memory first so a failed export still gets a JSON error
func (h *ReportHandler) sendWorkbook(c *gin.Context, kind string, write func(io.Writer) error) {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		h.HandleError(c, fmt.Errorf("export %s report: %w", kind, err))
		return
	}

	filename := export.Filename(kind, h.now())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}
