package trade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestOrder(t *testing.T, total float64) *Order {
	order, err := NewOrder("ORD-2026-00001", uuid.New(), OrderDetails{Title: "Shop sign"})
	require.NoError(t, err)
	require.NoError(t, order.SetTotalAmount(decimal.NewFromFloat(total)))
	return order
}

func TestOrderStatus_Labels(t *testing.T) {
	for _, s := range AllOrderStatuses() {
		t.Run(string(s), func(t *testing.T) {
			assert.True(t, s.IsValid())
			assert.NotEqual(t, string(s), s.Label(), "every status has a display label")
		})
	}
	assert.False(t, OrderStatus("shipped").IsValid())
	assert.Equal(t, "shipped", OrderStatus("shipped").Label())
	assert.Len(t, AllOrderStatuses(), len(orderStatusLabels))
}

func TestNewOrder(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		order := createTestOrder(t, 100)
		assert.Equal(t, OrderStatusPending, order.Status)
		assert.Equal(t, PriorityNormal, order.Priority)
		assert.Equal(t, 1, order.GetVersion())
		require.Len(t, order.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeOrderCreated, order.GetDomainEvents()[0].EventType())
	})

	t.Run("title required", func(t *testing.T) {
		_, err := NewOrder("ORD-2026-00001", uuid.New(), OrderDetails{Title: " "})
		assert.Error(t, err)
	})

	t.Run("customer required", func(t *testing.T) {
		_, err := NewOrder("ORD-2026-00001", uuid.Nil, OrderDetails{Title: "x"})
		assert.Error(t, err)
	})

	t.Run("invalid priority", func(t *testing.T) {
		_, err := NewOrder("ORD-2026-00001", uuid.New(), OrderDetails{Title: "x", Priority: "asap"})
		assert.Error(t, err)
	})
}

func TestOrder_SetItems(t *testing.T) {
	order := createTestOrder(t, 0)
	a, err := NewOrderItem(order.ID, "Banner", decimal.NewFromInt(2), decimal.NewFromFloat(150.5))
	require.NoError(t, err)
	b, err := NewOrderItem(order.ID, "Flyers", decimal.NewFromInt(1000), decimal.NewFromFloat(0.25))
	require.NoError(t, err)

	require.NoError(t, order.SetItems([]OrderItem{*a, *b}))
	assert.True(t, decimal.NewFromFloat(551).Equal(order.TotalAmount))

	_, err = NewOrderItem(order.ID, "", decimal.NewFromInt(1), decimal.NewFromInt(1))
	assert.Error(t, err)
	_, err = NewOrderItem(order.ID, "x", decimal.Zero, decimal.NewFromInt(1))
	assert.Error(t, err)
}

func TestOrder_RemainingAmount(t *testing.T) {
	cases := []struct{ total, paid, remaining float64 }{
		{0, 0, 0},
		{100, 0, 100},
		{100, 40, 60},
		{100, 100, 0},
		{999.99, 0.99, 999},
	}
	for _, c := range cases {
		order := createTestOrder(t, c.total)
		if c.paid > 0 {
			require.NoError(t, order.RecordPayment(decimal.NewFromFloat(c.paid)))
		}
		assert.True(t, decimal.NewFromFloat(c.remaining).Equal(order.RemainingAmount()),
			"total=%v paid=%v", c.total, c.paid)
		assert.True(t, order.TotalAmount.Sub(order.PaidAmount).Equal(order.RemainingAmount()))
	}
}

func TestOrder_RecordPayment(t *testing.T) {
	t.Run("increments paid amount", func(t *testing.T) {
		order := createTestOrder(t, 100)
		require.NoError(t, order.RecordPayment(decimal.NewFromInt(30)))
		assert.True(t, decimal.NewFromInt(30).Equal(order.PaidAmount))
		assert.False(t, order.IsFullyPaid())
	})

	t.Run("rejects overpayment", func(t *testing.T) {
		order := createTestOrder(t, 100)
		err := order.RecordPayment(decimal.NewFromInt(101))
		assert.Error(t, err)
		assert.True(t, order.PaidAmount.IsZero())
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		order := createTestOrder(t, 100)
		assert.Error(t, order.RecordPayment(decimal.Zero))
		assert.Error(t, order.RecordPayment(decimal.NewFromInt(-5)))
	})

	t.Run("rejects cancelled order", func(t *testing.T) {
		order := createTestOrder(t, 100)
		require.NoError(t, order.UpdateStatus(OrderStatusCancelled))
		assert.Error(t, order.RecordPayment(decimal.NewFromInt(10)))
	})

	t.Run("reverse payment", func(t *testing.T) {
		order := createTestOrder(t, 100)
		require.NoError(t, order.RecordPayment(decimal.NewFromInt(60)))
		require.NoError(t, order.ReversePayment(decimal.NewFromInt(20)))
		assert.True(t, decimal.NewFromInt(40).Equal(order.PaidAmount))
		assert.Error(t, order.ReversePayment(decimal.NewFromInt(50)))
	})
}

func TestOrder_SetTotalBelowPaid(t *testing.T) {
	order := createTestOrder(t, 100)
	require.NoError(t, order.RecordPayment(decimal.NewFromInt(80)))
	assert.Error(t, order.SetTotalAmount(decimal.NewFromInt(50)))
	assert.Error(t, order.SetTotalAmount(decimal.NewFromInt(-1)))
}

func TestOrder_UpdateStatus(t *testing.T) {
	order := createTestOrder(t, 100)
	order.ClearDomainEvents()

	require.NoError(t, order.UpdateStatus(OrderStatusCompleted))
	assert.NotNil(t, order.CompletedAt)
	require.Len(t, order.GetDomainEvents(), 1)
	evt, ok := order.GetDomainEvents()[0].(*OrderStatusChangedEvent)
	require.True(t, ok)
	assert.Equal(t, OrderStatusPending, evt.OldStatus)
	assert.Equal(t, OrderStatusCompleted, evt.NewStatus)
	assert.Equal(t, "مكتمل", evt.StatusLabel)

	require.NoError(t, order.UpdateStatus(OrderStatusCompleted))
	assert.Len(t, order.GetDomainEvents(), 1, "same status raises no event")

	require.NoError(t, order.UpdateStatus(OrderStatusOnHold))
	assert.Nil(t, order.CompletedAt)

	assert.Error(t, order.UpdateStatus("archived"))
}
