package printing

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/agency/backend/internal/domain/printing"
	"github.com/agency/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mock Implementations
// =============================================================================

type MockPrintOrderRepository struct {
	mock.Mock
}

func (m *MockPrintOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*printing.PrintOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printing.PrintOrder), args.Error(1)
}

func (m *MockPrintOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*printing.PrintOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printing.PrintOrder), args.Error(1)
}

func (m *MockPrintOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]printing.PrintOrder, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]printing.PrintOrder), args.Error(1)
}

func (m *MockPrintOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPrintOrderRepository) Save(ctx context.Context, order *printing.PrintOrder) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockPrintOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPrintOrderRepository) CountByStatus(ctx context.Context) (map[printing.PrintStatus]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[printing.PrintStatus]int64), args.Error(1)
}

type MockMaterialRepository struct {
	mock.Mock
}

func (m *MockMaterialRepository) FindByID(ctx context.Context, id uuid.UUID) (*printing.PrintMaterial, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printing.PrintMaterial), args.Error(1)
}

func (m *MockMaterialRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*printing.PrintMaterial, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printing.PrintMaterial), args.Error(1)
}

func (m *MockMaterialRepository) FindAll(ctx context.Context, filter shared.Filter) ([]printing.PrintMaterial, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]printing.PrintMaterial), args.Error(1)
}

func (m *MockMaterialRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMaterialRepository) FindLowStock(ctx context.Context) ([]printing.PrintMaterial, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]printing.PrintMaterial), args.Error(1)
}

func (m *MockMaterialRepository) Save(ctx context.Context, material *printing.PrintMaterial) error {
	return m.Called(ctx, material).Error(0)
}

func (m *MockMaterialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockNumberGenerator struct {
	mock.Mock
}

func (m *MockNumberGenerator) Next(ctx context.Context, prefix string, at time.Time) (string, error) {
	args := m.Called(ctx, prefix, at)
	return args.String(0), args.Error(1)
}

type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	return m.Called(ctx, key, contentType, body, size).Error(0)
}

func (m *MockObjectStorage) DownloadURL(ctx context.Context, key string) (string, time.Time, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

// mockScope runs fn against the mock repositories without a real transaction
type mockScope struct {
	orders    *MockPrintOrderRepository
	materials *MockMaterialRepository
	numbers   *MockNumberGenerator
}

func (s *mockScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *mockScope) PrintOrderRepo() printing.PrintOrderRepository  { return s.orders }
func (s *mockScope) MaterialRepo() printing.PrintMaterialRepository { return s.materials }
func (s *mockScope) Numbers() shared.NumberGenerator                { return s.numbers }

// =============================================================================
// Helpers
// =============================================================================

var fixedNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	scope   *mockScope
	files   *MockObjectStorage
	service *PrintOrderService
}

func newFixture() *fixture {
	scope := &mockScope{
		orders:    new(MockPrintOrderRepository),
		materials: new(MockMaterialRepository),
		numbers:   new(MockNumberGenerator),
	}
	files := new(MockObjectStorage)
	svc := NewPrintOrderService(scope.orders, scope, files, nil)
	svc.now = func() time.Time { return fixedNow }
	return &fixture{scope: scope, files: files, service: svc}
}

func newMaterial(t *testing.T, stock int64) *printing.PrintMaterial {
	t.Helper()
	m, err := printing.NewPrintMaterial(printing.MaterialDetails{
		Name:     "ورق كوشيه 300 جم",
		Unit:     "sheet",
		MinStock: decimal.NewFromInt(100),
		UnitCost: decimal.RequireFromString("0.75"),
	}, decimal.NewFromInt(stock))
	require.NoError(t, err)
	return m
}

func newPrintOrder(t *testing.T, status printing.PrintStatus, materialID *uuid.UUID, qty int64) *printing.PrintOrder {
	t.Helper()
	p, err := printing.NewPrintOrder("PRN-2025-00001", printing.PrintOrderDetails{
		Title:      "بروشور",
		MaterialID: materialID,
		Quantity:   decimal.NewFromInt(qty),
	})
	require.NoError(t, err)
	p.Status = status
	return p
}

// =============================================================================
// Print Order Tests
// =============================================================================

func TestPrintOrderService_Create(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	material := newMaterial(t, 500)

	f.scope.materials.On("FindByID", ctx, material.ID).Return(material, nil)
	f.scope.numbers.On("Next", ctx, printing.PrintNumberPrefix, fixedNow).Return("PRN-2025-00012", nil)
	f.scope.orders.On("Save", ctx, mock.AnythingOfType("*printing.PrintOrder")).Return(nil)

	resp, err := f.service.Create(ctx, PrintOrderRequest{
		Title:      "كروت شخصية",
		MaterialID: &material.ID,
		Quantity:   decimal.NewFromInt(250),
		Sides:      2,
	})
	require.NoError(t, err)

	assert.Equal(t, "PRN-2025-00012", resp.PrintNumber)
	assert.Equal(t, string(printing.PrintStatusPending), resp.Status)
	assert.Equal(t, float64(0), resp.Progress)
	assert.Equal(t, 2, resp.Sides)
}

func TestPrintOrderService_CreateWithUnknownMaterial(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	missing := uuid.New()
	f.scope.materials.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)

	_, err := f.service.Create(ctx, PrintOrderRequest{Title: "x", MaterialID: &missing, Quantity: decimal.NewFromInt(1)})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_MATERIAL", domainErr.Code)
	f.scope.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPrintOrderService_AdvanceIntoPrintingConsumesMaterial(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	material := newMaterial(t, 500)
	order := newPrintOrder(t, printing.PrintStatusReadyForPrint, &material.ID, 300)

	f.scope.orders.On("FindByIDForUpdate", ctx, order.ID).Return(order, nil)
	f.scope.materials.On("FindByIDForUpdate", ctx, material.ID).Return(material, nil)
	f.scope.materials.On("Save", ctx, material).Return(nil).Once()
	f.scope.orders.On("Save", ctx, order).Return(nil)

	resp, err := f.service.Advance(ctx, order.ID)
	require.NoError(t, err)

	assert.Equal(t, string(printing.PrintStatusPrinting), resp.Status)
	assert.Equal(t, float64(50), resp.Progress)
	assert.True(t, resp.MaterialConsumed)
	assert.True(t, material.StockQuantity.Equal(decimal.NewFromInt(200)))

	// moving back and into printing again does not take stock twice
	_, err = f.service.UpdateStatus(ctx, order.ID, UpdatePrintStatusRequest{Status: "ready_for_print"})
	require.NoError(t, err)
	_, err = f.service.Advance(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, material.StockQuantity.Equal(decimal.NewFromInt(200)))
	f.scope.materials.AssertNumberOfCalls(t, "Save", 1)
	// stock and status are read under row locks
	f.scope.materials.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	f.scope.orders.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestPrintOrderService_InsufficientStockBlocksPrinting(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	material := newMaterial(t, 50)
	order := newPrintOrder(t, printing.PrintStatusReadyForPrint, &material.ID, 300)

	f.scope.orders.On("FindByIDForUpdate", ctx, order.ID).Return(order, nil)
	f.scope.materials.On("FindByIDForUpdate", ctx, material.ID).Return(material, nil)

	_, err := f.service.UpdateStatus(ctx, order.ID, UpdatePrintStatusRequest{Status: "printing"})

	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	assert.Equal(t, printing.PrintStatusReadyForPrint, order.Status)
	assert.False(t, order.MaterialConsumed)
	f.scope.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPrintOrderService_AdvanceFromCompleted(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	order := newPrintOrder(t, printing.PrintStatusCompleted, nil, 1)
	f.scope.orders.On("FindByIDForUpdate", ctx, order.ID).Return(order, nil)

	_, err := f.service.Advance(ctx, order.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestPrintOrderService_UpdateStatusRejectsUnknown(t *testing.T) {
	f := newFixture()

	_, err := f.service.UpdateStatus(context.Background(), uuid.New(), UpdatePrintStatusRequest{Status: "shipped"})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATUS", domainErr.Code)
}

func TestPrintOrderService_StatusChangePublishesEvent(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	order := newPrintOrder(t, printing.PrintStatusPending, nil, 10)
	order.ClearDomainEvents()
	f.scope.orders.On("FindByIDForUpdate", ctx, order.ID).Return(order, nil)
	f.scope.orders.On("Save", ctx, order).Return(nil)

	publisher := new(MockEventPublisher)
	publisher.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
		return len(events) == 1 && events[0].EventType() == printing.EventTypePrintOrderStatusChanged
	})).Return(nil).Once()
	f.service.SetEventPublisher(publisher)

	resp, err := f.service.Advance(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, string(printing.PrintStatusInDesign), resp.Status)
	publisher.AssertExpectations(t)
}

func TestPrintOrderService_StageSummary(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.scope.orders.On("CountByStatus", ctx).Return(map[printing.PrintStatus]int64{
		printing.PrintStatusPrinting:  3,
		printing.PrintStatusCompleted: 7,
	}, nil)

	summary, err := f.service.StageSummary(ctx)
	require.NoError(t, err)

	require.Len(t, summary, 8)
	assert.Equal(t, "pending", summary[0].Status)
	assert.Equal(t, int64(0), summary[0].Count)
	assert.Equal(t, int64(3), summary[4].Count)
	assert.Equal(t, int64(7), summary[7].Count)
	assert.Equal(t, float64(87.5), summary[7].Progress)
}

func TestPrintOrderService_DesignFile(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	order := newPrintOrder(t, printing.PrintStatusInDesign, nil, 1)
	order.AttachDesignFile("designs/old.ai")
	f.scope.orders.On("FindByID", ctx, order.ID).Return(order, nil)
	f.scope.orders.On("Save", ctx, order).Return(nil)

	expectedKey := "designs/" + order.ID.String() + "/1741597200-poster.pdf"
	f.files.On("Upload", ctx, expectedKey, "application/pdf", mock.Anything, int64(4)).Return(nil).Once()
	f.files.On("Delete", ctx, "designs/old.ai").Return(nil).Once()
	f.files.On("DownloadURL", ctx, expectedKey).Return("https://files.example/poster.pdf", fixedNow.Add(15*time.Minute), nil)

	resp, err := f.service.AttachDesignFile(ctx, order.ID, "C/uploads/poster.pdf", "application/pdf", strings.NewReader("%PDF"), 4)
	require.NoError(t, err)
	assert.Equal(t, expectedKey, resp.DesignFileKey)

	link, err := f.service.DesignFileURL(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://files.example/poster.pdf", link.URL)
	assert.Equal(t, fixedNow.Add(15*time.Minute), link.ExpiresAt)
	f.files.AssertExpectations(t)
}

func TestPrintOrderService_DesignFileWithoutStorage(t *testing.T) {
	scope := &mockScope{orders: new(MockPrintOrderRepository), materials: new(MockMaterialRepository), numbers: new(MockNumberGenerator)}
	svc := NewPrintOrderService(scope.orders, scope, nil, nil)

	_, err := svc.DesignFileURL(context.Background(), uuid.New())

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "STORAGE_UNAVAILABLE", domainErr.Code)
}

// =============================================================================
// Material Tests
// =============================================================================

func newMaterialService() (*MaterialService, *mockScope) {
	scope := &mockScope{
		orders:    new(MockPrintOrderRepository),
		materials: new(MockMaterialRepository),
		numbers:   new(MockNumberGenerator),
	}
	return NewMaterialService(scope.materials, scope.orders, scope, nil), scope
}

func TestMaterialService_AdjustStock(t *testing.T) {
	ctx := context.Background()
	svc, scope := newMaterialService()
	material := newMaterial(t, 120)
	scope.materials.On("FindByIDForUpdate", ctx, material.ID).Return(material, nil)
	scope.materials.On("Save", ctx, material).Return(nil)

	resp, err := svc.AdjustStock(ctx, material.ID, AdjustStockRequest{Delta: decimal.NewFromInt(-30), Reason: "تالف"})
	require.NoError(t, err)
	assert.True(t, resp.StockQuantity.Equal(decimal.NewFromInt(90)))
	assert.True(t, resp.IsLowStock)

	_, err = svc.AdjustStock(ctx, material.ID, AdjustStockRequest{Delta: decimal.NewFromInt(-91)})
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	assert.True(t, material.StockQuantity.Equal(decimal.NewFromInt(90)))
	scope.materials.AssertNumberOfCalls(t, "Save", 1)
	scope.materials.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestMaterialService_AdjustStockUnknownMaterial(t *testing.T) {
	ctx := context.Background()
	svc, scope := newMaterialService()
	missing := uuid.New()
	scope.materials.On("FindByIDForUpdate", ctx, missing).Return(nil, shared.ErrNotFound)

	_, err := svc.AdjustStock(ctx, missing, AdjustStockRequest{Delta: decimal.NewFromInt(5)})
	assert.ErrorIs(t, err, shared.ErrNotFound)
	scope.materials.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestMaterialService_DeleteInUse(t *testing.T) {
	ctx := context.Background()
	svc, scope := newMaterialService()
	materials, orders := scope.materials, scope.orders
	material := newMaterial(t, 10)

	materials.On("FindByID", ctx, material.ID).Return(material, nil)
	orders.On("Count", ctx, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters[printing.FilterMaterialID] == material.ID
	})).Return(int64(2), nil)

	err := svc.Delete(ctx, material.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	materials.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestMaterialService_ListDefaultsToNameOrder(t *testing.T) {
	ctx := context.Background()
	svc, scope := newMaterialService()
	materials := scope.materials

	materials.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
		return f.OrderBy == "name" && f.OrderDir == "asc"
	})).Return([]printing.PrintMaterial{*newMaterial(t, 5)}, nil)
	materials.On("Count", ctx, mock.Anything).Return(int64(1), nil)

	items, total, err := svc.List(ctx, MaterialListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.True(t, items[0].IsLowStock)
	assert.True(t, items[0].StockValue.Equal(decimal.RequireFromString("3.75")))
}

func TestMaterialService_LowStock(t *testing.T) {
	ctx := context.Background()
	svc, scope := newMaterialService()
	materials := scope.materials
	materials.On("FindLowStock", ctx).Return([]printing.PrintMaterial{}, nil)

	items, err := svc.LowStock(ctx)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}
