package telemetry

import (
	"context"
	"testing"

	"github.com/agency/backend/internal/domain/crm"
	"github.com/agency/backend/internal/domain/finance"
	"github.com/agency/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func intSum(t *testing.T, agg metricdata.Aggregation) int64 {
	t.Helper()
	sum, ok := agg.(metricdata.Sum[int64])
	require.True(t, ok, "expected int64 sum, got %T", agg)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func floatSum(t *testing.T, agg metricdata.Aggregation) float64 {
	t.Helper()
	sum, ok := agg.(metricdata.Sum[float64])
	require.True(t, ok, "expected float64 sum, got %T", agg)
	var total float64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func newTestBusinessMetrics(t *testing.T) (*BusinessMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	bm, err := NewBusinessMetrics(provider.Meter("test"))
	require.NoError(t, err)
	return bm, reader
}

func TestNewBusinessMetrics_NilMeter(t *testing.T) {
	_, err := NewBusinessMetrics(nil)
	assert.ErrorIs(t, err, ErrMeterNil)
}

func TestBusinessMetrics_Handle(t *testing.T) {
	ctx := context.Background()
	bm, reader := newTestBusinessMetrics(t)
	assert.Nil(t, bm.EventTypes())

	order := &trade.Order{OrderNumber: "ORD-2025-00001", TotalAmount: decimal.NewFromInt(1500)}
	order.ID = uuid.New()
	require.NoError(t, bm.Handle(ctx, trade.NewOrderCreatedEvent(order)))

	for _, amount := range []int64{200, 300} {
		p := &finance.Payment{Amount: decimal.NewFromInt(amount), Method: finance.PaymentMethodCash}
		p.ID = uuid.New()
		require.NoError(t, bm.Handle(ctx, finance.NewPaymentReceivedEvent(p, decimal.Zero)))
	}

	campaign := &crm.Campaign{Name: "Ramadan", Channel: crm.ChannelWhatsApp, SentCount: 8, FailedCount: 2}
	campaign.ID = uuid.New()
	require.NoError(t, bm.Handle(ctx, crm.NewCampaignCompletedEvent(campaign)))

	data := collect(t, reader)
	assert.Equal(t, int64(4), intSum(t, data["agency.events.total"]))
	assert.Equal(t, int64(1), intSum(t, data["agency.orders.created"]))
	assert.InDelta(t, 1500.0, floatSum(t, data["agency.orders.value"]), 0.001)
	assert.Equal(t, int64(2), intSum(t, data["agency.payments.count"]))
	assert.InDelta(t, 500.0, floatSum(t, data["agency.payments.amount"]), 0.001)
	assert.Equal(t, int64(8), intSum(t, data["agency.campaigns.messages_sent"]))
	assert.Equal(t, int64(2), intSum(t, data["agency.campaigns.messages_failed"]))
}

func TestAmountCounter_IgnoresNegative(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	c, err := NewAmountCounter(provider.Meter("test"), "amount", "", "")
	require.NoError(t, err)
	c.Add(context.Background(), 10)
	c.Add(context.Background(), -4)

	assert.InDelta(t, 10.0, floatSum(t, collect(t, reader)["amount"]), 0.001)
}
