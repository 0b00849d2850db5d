package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	appfinance "github.com/agency/backend/internal/application/finance"
	appprinting "github.com/agency/backend/internal/application/printing"
	"github.com/agency/backend/internal/domain/printing"
	"github.com/agency/backend/internal/domain/shared"
	"github.com/agency/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormFinanceTransactionScope_RollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	scope := NewGormFinanceTransactionScope(db)
	ctx := context.Background()
	boom := errors.New("boom")

	var orderID uuid.UUID
	err := scope.Execute(ctx, func(repos appfinance.TransactionalRepositories) error {
		number, err := repos.Numbers().Next(ctx, "ORD", time.Now())
		require.NoError(t, err)
		o, err := trade.NewOrder(number, uuid.New(), trade.OrderDetails{Title: "Flyers"})
		require.NoError(t, err)
		orderID = o.ID
		require.NoError(t, repos.OrderRepo().Save(ctx, o))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = NewGormOrderRepository(db).FindByID(ctx, orderID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	// the number allocated inside the rolled back transaction is reused
	n, err := NewGormNumberGenerator(db).Next(ctx, "ORD", time.Now())
	require.NoError(t, err)
	assert.Equal(t, shared.FormatDocumentNumber("ORD", time.Now().Year(), 1), n)
}

func TestGormPrintingTransactionScope_Commits(t *testing.T) {
	db := setupTestDB(t)
	scope := NewGormPrintingTransactionScope(db)
	ctx := context.Background()

	material, err := printing.NewPrintMaterial(printing.MaterialDetails{
		Name: "Vinyl", Type: "roll", Unit: "m2", MinStock: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(12),
	}, decimal.NewFromInt(100))
	require.NoError(t, err)

	err = scope.Execute(ctx, func(repos appprinting.TransactionalRepositories) error {
		if err := repos.MaterialRepo().Save(ctx, material); err != nil {
			return err
		}
		if err := material.Consume(decimal.NewFromInt(95)); err != nil {
			return err
		}
		return repos.MaterialRepo().Save(ctx, material)
	})
	require.NoError(t, err)

	materials := NewGormPrintMaterialRepository(db)
	found, err := materials.FindByID(ctx, material.ID)
	require.NoError(t, err)
	assert.True(t, found.StockQuantity.Equal(decimal.NewFromInt(5)))

	low, err := materials.FindLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Vinyl", low[0].Name)
}
