package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appreport "github.com/agency/backend/internal/application/report"
	"github.com/agency/backend/internal/domain/report"
	"github.com/agency/backend/internal/domain/trade"
	"github.com/agency/backend/internal/infrastructure/export"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// MockReportService mocks the report calls used by these tests
type MockReportService struct {
	mock.Mock
	ReportService
}

func (m *MockReportService) Orders(ctx context.Context, f appreport.ReportFilter) (*report.OrderReport, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.OrderReport), args.Error(1)
}

func (m *MockReportService) Debtors(ctx context.Context) ([]trade.Debtor, error) {
	args := m.Called(ctx)
	return args.Get(0).([]trade.Debtor), args.Error(1)
}

func (m *MockReportService) Dashboard(ctx context.Context, year int) (*report.Dashboard, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Dashboard), args.Error(1)
}

type failingExporter struct {
	ReportExporter
}

func (failingExporter) Debtors(io.Writer, []trade.Debtor) error {
	return errors.New("disk full")
}

func setupReportRouter(svc ReportService, exporter ReportExporter) *gin.Engine {
	h := NewReportHandler(svc, exporter)
	h.now = func() time.Time { return time.Date(2026, 3, 9, 14, 30, 0, 0, time.UTC) }
	r := gin.New()
	g := r.Group("/api/v1/reports")
	g.GET("/orders", h.Orders)
	g.GET("/orders/export", h.ExportOrders)
	g.GET("/debtors/export", h.ExportDebtors)
	g.GET("/dashboard", h.Dashboard)
	return r
}

func TestReportHandler_Orders_BindsFilter(t *testing.T) {
	svc := new(MockReportService)
	router := setupReportRouter(svc, export.NewExporter(nil))

	svc.On("Orders", mock.Anything, mock.MatchedBy(func(f appreport.ReportFilter) bool {
		return f.Month == 2 && f.Year == 2026 && f.Status == "completed"
	})).Return(&report.OrderReport{Rows: []report.OrderRow{}}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/reports/orders?month=2&year=2026&status=completed", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestReportHandler_ExportDebtors(t *testing.T) {
	svc := new(MockReportService)
	router := setupReportRouter(svc, export.NewExporter(nil))

	svc.On("Debtors", mock.Anything).Return([]trade.Debtor{{CustomerName: "Acme Print", Phone: "0555"}}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/reports/debtors/export", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.ContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="debtors-report-20260309-1430.xlsx"`, w.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(w.Body)
	require.NoError(t, err)
	defer f.Close()
	assert.NotEmpty(t, f.GetSheetList())
}

func TestReportHandler_ExportDebtors_WriteFails(t *testing.T) {
	svc := new(MockReportService)
	router := setupReportRouter(svc, failingExporter{})

	svc.On("Debtors", mock.Anything).Return([]trade.Debtor{}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/reports/debtors/export", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Header().Get("Content-Disposition"))
	assert.False(t, decodeResponse(t, w).Success)
}

func TestReportHandler_Dashboard(t *testing.T) {
	svc := new(MockReportService)
	router := setupReportRouter(svc, export.NewExporter(nil))

	svc.On("Dashboard", mock.Anything, 2025).Return(&report.Dashboard{}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/reports/dashboard?year=2025", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}
