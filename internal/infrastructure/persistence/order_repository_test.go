package persistence

import (
	"context"
	"testing"

	"github.com/agency/backend/internal/domain/shared"
	"github.com/agency/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T, repo *GormOrderRepository, number string, customerID uuid.UUID, total, paid string) *trade.Order {
	t.Helper()
	o, err := trade.NewOrder(number, customerID, trade.OrderDetails{Title: "Banner " + number})
	require.NoError(t, err)
	require.NoError(t, o.SetTotalAmount(decimal.RequireFromString(total)))
	if p := decimal.RequireFromString(paid); p.IsPositive() {
		require.NoError(t, o.RecordPayment(p))
	}
	require.NoError(t, repo.Save(context.Background(), o))
	return o
}

func TestGormOrderRepository_SaveWithItems(t *testing.T) {
	repo := NewGormOrderRepository(setupTestDB(t))
	ctx := context.Background()

	o, err := trade.NewOrder("ORD-2025-00001", uuid.New(), trade.OrderDetails{Title: "Shop sign"})
	require.NoError(t, err)
	first, err := trade.NewOrderItem(o.ID, "Design", decimal.NewFromInt(1), decimal.NewFromInt(300))
	require.NoError(t, err)
	second, err := trade.NewOrderItem(o.ID, "Print", decimal.NewFromInt(2), decimal.NewFromInt(150))
	require.NoError(t, err)
	require.NoError(t, o.SetItems([]trade.OrderItem{*first, *second}))
	require.NoError(t, repo.Save(ctx, o))

	found, err := repo.FindByNumber(ctx, "ORD-2025-00001")
	require.NoError(t, err)
	require.Len(t, found.Items, 2)
	assert.True(t, found.TotalAmount.Equal(decimal.NewFromInt(600)))

	t.Run("replacing items removes dropped lines", func(t *testing.T) {
		require.NoError(t, found.SetItems(found.Items[:1]))
		require.NoError(t, repo.Save(ctx, found))

		again, err := repo.FindByID(ctx, o.ID)
		require.NoError(t, err)
		require.Len(t, again.Items, 1)
		assert.Equal(t, "Design", again.Items[0].Description)
	})
}

func TestGormOrderRepository_SaveWithLock(t *testing.T) {
	repo := NewGormOrderRepository(setupTestDB(t))
	ctx := context.Background()
	o := newTestOrder(t, repo, "ORD-2025-00001", uuid.New(), "1000", "0")

	loaded, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	stale, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)

	require.NoError(t, loaded.RecordPayment(decimal.NewFromInt(400)))
	require.NoError(t, repo.SaveWithLock(ctx, loaded))
	assert.Equal(t, o.Version+1, loaded.Version)

	require.NoError(t, stale.RecordPayment(decimal.NewFromInt(100)))
	err = repo.SaveWithLock(ctx, stale)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CONCURRENCY_CONFLICT", domainErr.Code)

	stale.ID = uuid.New()
	assert.ErrorIs(t, repo.SaveWithLock(ctx, stale), shared.ErrNotFound)
}

func TestGormOrderRepository_FilterByStatusAndCustomer(t *testing.T) {
	repo := NewGormOrderRepository(setupTestDB(t))
	ctx := context.Background()
	customerID := uuid.New()

	newTestOrder(t, repo, "ORD-2025-00001", customerID, "100", "0")
	done := newTestOrder(t, repo, "ORD-2025-00002", customerID, "200", "200")
	require.NoError(t, done.UpdateStatus(trade.OrderStatusCompleted))
	require.NoError(t, repo.Save(ctx, done))
	newTestOrder(t, repo, "ORD-2025-00003", uuid.New(), "300", "0")

	filter := shared.DefaultFilter().
		With(trade.FilterCustomerID, customerID).
		With(trade.FilterStatus, trade.OrderStatusCompleted)
	rows, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ORD-2025-00002", rows[0].OrderNumber)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[trade.OrderStatusPending])
	assert.Equal(t, int64(1), counts[trade.OrderStatusCompleted])
	assert.Equal(t, int64(0), counts[trade.OrderStatusOnHold])
}

func TestGormOrderRepository_Debtors(t *testing.T) {
	db := setupTestDB(t)
	customers := NewGormCustomerRepository(db)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	small := newTestCustomer(t, customers, "Small Debt", "0501111111")
	big := newTestCustomer(t, customers, "Big Debt", "0502222222")
	settled := newTestCustomer(t, customers, "Settled", "0503333333")

	newTestOrder(t, repo, "ORD-2025-00001", small.ID, "100", "50")
	newTestOrder(t, repo, "ORD-2025-00002", big.ID, "1000", "100")
	newTestOrder(t, repo, "ORD-2025-00003", big.ID, "500", "0")
	newTestOrder(t, repo, "ORD-2025-00004", settled.ID, "300", "300")
	cancelled := newTestOrder(t, repo, "ORD-2025-00005", settled.ID, "900", "0")
	require.NoError(t, cancelled.UpdateStatus(trade.OrderStatusCancelled))
	require.NoError(t, repo.Save(ctx, cancelled))

	debtors, err := repo.Debtors(ctx)
	require.NoError(t, err)
	require.Len(t, debtors, 2)
	assert.Equal(t, big.ID, debtors[0].CustomerID)
	assert.Equal(t, int64(2), debtors[0].OrderCount)
	assert.True(t, debtors[0].Remaining.Equal(decimal.NewFromInt(1400)))
	assert.True(t, debtors[1].Remaining.Equal(decimal.NewFromInt(50)))

	total, err := outstanding(db.WithContext(ctx))
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(1450)))
}
