package report

import (
	"context"

	"github.com/agency/backend/internal/domain/crm"
	"github.com/agency/backend/internal/domain/finance"
	"github.com/agency/backend/internal/domain/printing"
	"github.com/agency/backend/internal/domain/report"
	"github.com/agency/backend/internal/domain/shared"
	"github.com/agency/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DashboardCache stores computed dashboards per year
type DashboardCache interface {
	// Get returns the cached dashboard and true, or false on a miss
	Get(ctx context.Context, year int) (*report.Dashboard, bool, error)
	Set(ctx context.Context, year int, d *report.Dashboard) error
	// Invalidate drops every cached year
	Invalidate(ctx context.Context) error
}

// DashboardInvalidationHandler clears the dashboard cache when figures it
// shows change.
type DashboardInvalidationHandler struct {
	cache  DashboardCache
	logger *zap.Logger
}

// NewDashboardInvalidationHandler creates a new DashboardInvalidationHandler
func NewDashboardInvalidationHandler(cache DashboardCache, logger *zap.Logger) *DashboardInvalidationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardInvalidationHandler{cache: cache, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *DashboardInvalidationHandler) EventTypes() []string {
	return []string{
		trade.EventTypeOrderCreated,
		trade.EventTypeOrderStatusChanged,
		finance.EventTypePaymentReceived,
		finance.EventTypeInvoiceIssued,
		finance.EventTypeExpenseRecorded,
		printing.EventTypePrintOrderStatusChanged,
		crm.EventTypeEvaluationSubmitted,
	}
}

// Handle invalidates the cache
func (h *DashboardInvalidationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if err := h.cache.Invalidate(ctx); err != nil {
		h.logger.Warn("dashboard cache invalidation failed",
			zap.String("event_type", event.EventType()),
			zap.Error(err))
		return err
	}
	h.logger.Debug("dashboard cache invalidated", zap.String("event_type", event.EventType()))
	return nil
}

func zero() decimal.Decimal { return decimal.Zero }
