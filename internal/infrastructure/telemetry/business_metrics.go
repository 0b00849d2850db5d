package telemetry

import (
	"context"
	"strconv"

	"github.com/agency/backend/internal/domain/crm"
	"github.com/agency/backend/internal/domain/finance"
	"github.com/agency/backend/internal/domain/printing"
	"github.com/agency/backend/internal/domain/shared"
	"github.com/agency/backend/internal/domain/trade"
	"go.opentelemetry.io/otel/metric"
)

// BusinessMetrics counts domain activity. It subscribes to the event bus,
// so services never call it directly.
type BusinessMetrics struct {
	events          *Counter
	ordersCreated   *Counter
	orderValue      *AmountCounter
	orderStatus     *Counter
	paymentsCount   *Counter
	paymentsAmount  *AmountCounter
	invoicesIssued  *Counter
	invoicedAmount  *AmountCounter
	expensesCount   *Counter
	expensesAmount  *AmountCounter
	printStatus     *Counter
	evaluations     *Counter
	campaignsSent   *Counter
	campaignsFailed *Counter
}

// NewBusinessMetrics creates the business instruments on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	bm := &BusinessMetrics{}
	counters := []struct {
		dst        **Counter
		name, desc string
	}{
		{&bm.events, "agency.events.total", "Domain events published"},
		{&bm.ordersCreated, "agency.orders.created", "Orders created"},
		{&bm.orderStatus, "agency.orders.status_changes", "Order status transitions by target status"},
		{&bm.paymentsCount, "agency.payments.count", "Payments received by method"},
		{&bm.invoicesIssued, "agency.invoices.issued", "Invoices issued"},
		{&bm.expensesCount, "agency.expenses.count", "Expenses recorded by category"},
		{&bm.printStatus, "agency.print_orders.status_changes", "Print order transitions by target status"},
		{&bm.evaluations, "agency.evaluations.submitted", "Customer evaluations by rating"},
		{&bm.campaignsSent, "agency.campaigns.messages_sent", "Campaign messages delivered"},
		{&bm.campaignsFailed, "agency.campaigns.messages_failed", "Campaign messages that failed"},
	}
	for _, c := range counters {
		counter, err := NewCounter(meter, c.name, c.desc, "{count}")
		if err != nil {
			return nil, err
		}
		*c.dst = counter
	}

	amounts := []struct {
		dst        **AmountCounter
		name, desc string
	}{
		{&bm.orderValue, "agency.orders.value", "Total value of created orders"},
		{&bm.paymentsAmount, "agency.payments.amount", "Amount received"},
		{&bm.invoicedAmount, "agency.invoices.amount", "Total of issued invoices"},
		{&bm.expensesAmount, "agency.expenses.amount", "Amount spent"},
	}
	for _, a := range amounts {
		counter, err := NewAmountCounter(meter, a.name, a.desc, "{currency}")
		if err != nil {
			return nil, err
		}
		*a.dst = counter
	}

	return bm, nil
}

// EventTypes returns nil to receive every event
func (bm *BusinessMetrics) EventTypes() []string {
	return nil
}

// Handle records the event
func (bm *BusinessMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	bm.events.Inc(ctx, AttrEventType.String(event.EventType()))

	switch e := event.(type) {
	case *trade.OrderCreatedEvent:
		bm.ordersCreated.Inc(ctx)
		bm.orderValue.Add(ctx, e.TotalAmount.InexactFloat64())
	case *trade.OrderStatusChangedEvent:
		bm.orderStatus.Inc(ctx, AttrStatus.String(string(e.NewStatus)))
	case *finance.PaymentReceivedEvent:
		method := AttrPaymentMethod.String(string(e.Method))
		bm.paymentsCount.Inc(ctx, method)
		bm.paymentsAmount.Add(ctx, e.Amount.InexactFloat64(), method)
	case *finance.InvoiceIssuedEvent:
		bm.invoicesIssued.Inc(ctx)
		bm.invoicedAmount.Add(ctx, e.Total.InexactFloat64())
	case *finance.ExpenseRecordedEvent:
		category := AttrCategory.String(string(e.Category))
		bm.expensesCount.Inc(ctx, category)
		bm.expensesAmount.Add(ctx, e.Amount.InexactFloat64(), category)
	case *printing.PrintOrderStatusChangedEvent:
		bm.printStatus.Inc(ctx, AttrStatus.String(string(e.NewStatus)))
	case *crm.EvaluationSubmittedEvent:
		bm.evaluations.Inc(ctx, AttrRating.String(strconv.Itoa(e.Rating)))
	case *crm.CampaignCompletedEvent:
		channel := AttrChannel.String(string(e.Channel))
		bm.campaignsSent.Add(ctx, int64(e.SentCount), channel)
		bm.campaignsFailed.Add(ctx, int64(e.FailedCount), channel)
	}
	return nil
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Message: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Message string
}

func (e *MetricsError) Error() string {
	return "metrics: " + e.Message
}

var _ shared.EventHandler = (*BusinessMetrics)(nil)
