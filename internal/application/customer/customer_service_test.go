package customer

import (
	"context"
	"testing"

	"github.com/agency/backend/internal/domain/customer"
	"github.com/agency/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mock Repositories
// =============================================================================

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]customer.Customer, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByPhone(ctx context.Context, phone string) (*customer.Customer, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]customer.Customer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, c *customer.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCustomerRepository) SaveBatch(ctx context.Context, customers []*customer.Customer) error {
	return m.Called(ctx, customers).Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*customer.CustomerGroup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.CustomerGroup), args.Error(1)
}

func (m *MockGroupRepository) FindAll(ctx context.Context, filter shared.Filter) ([]customer.CustomerGroup, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]customer.CustomerGroup), args.Error(1)
}

func (m *MockGroupRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGroupRepository) Save(ctx context.Context, g *customer.CustomerGroup) error {
	return m.Called(ctx, g).Error(0)
}

func (m *MockGroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockGroupRepository) AddMembers(ctx context.Context, groupID uuid.UUID, ids []uuid.UUID) error {
	return m.Called(ctx, groupID, ids).Error(0)
}

func (m *MockGroupRepository) RemoveMember(ctx context.Context, groupID, customerID uuid.UUID) error {
	return m.Called(ctx, groupID, customerID).Error(0)
}

func (m *MockGroupRepository) ListMembers(ctx context.Context, groupID uuid.UUID) ([]customer.Customer, error) {
	args := m.Called(ctx, groupID)
	return args.Get(0).([]customer.Customer), args.Error(1)
}

func newTestCustomer(t *testing.T, name, phone string) *customer.Customer {
	t.Helper()
	c, err := customer.NewCustomer(customer.CustomerDetails{Name: name, Phone: phone})
	require.NoError(t, err)
	return c
}

// =============================================================================
// CustomerService
// =============================================================================

func TestCustomerService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("cleans phone and saves", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo)

		repo.On("FindByPhone", ctx, "0501234567").Return(nil, shared.ErrNotFound)
		repo.On("Save", ctx, mock.AnythingOfType("*customer.Customer")).Return(nil)

		resp, err := svc.Create(ctx, CustomerRequest{Name: "Sara", Phone: "٠٥٠ 123 4567"})
		require.NoError(t, err)
		assert.Equal(t, "0501234567", resp.Phone)
		assert.Equal(t, customer.SourceOther, resp.Source)
		repo.AssertExpectations(t)
	})

	t.Run("rejects duplicate phone", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo)

		repo.On("FindByPhone", ctx, "0501234567").Return(newTestCustomer(t, "Other", "0501234567"), nil)

		_, err := svc.Create(ctx, CustomerRequest{Name: "Sara", Phone: "0501234567"})
		require.Error(t, err)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "ALREADY_EXISTS", de.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo)

		_, err := svc.Create(ctx, CustomerRequest{Name: " "})
		assert.Error(t, err)
		repo.AssertExpectations(t)
	})
}

func TestCustomerService_Update_KeepsOwnPhone(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCustomerRepository)
	svc := NewCustomerService(repo)

	existing := newTestCustomer(t, "Old", "0501234567")
	repo.On("FindByID", ctx, existing.ID).Return(existing, nil)
	repo.On("FindByPhone", ctx, "0501234567").Return(existing, nil)
	repo.On("Save", ctx, existing).Return(nil)

	resp, err := svc.Update(ctx, existing.ID, CustomerRequest{Name: "New", Phone: "0501234567", Company: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "New", resp.Name)
	assert.Equal(t, "Acme", resp.DisplayName)
	repo.AssertExpectations(t)
}

func TestCustomerService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCustomerRepository)
	svc := NewCustomerService(repo)

	c := newTestCustomer(t, "A", "")
	match := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Search == "acme" && f.Filters["source"] == "referral" && f.Page == 1 && f.PageSize == 20
	})
	repo.On("FindAll", ctx, match).Return([]customer.Customer{*c}, nil)
	repo.On("Count", ctx, match).Return(int64(1), nil)

	items, total, err := svc.List(ctx, CustomerListFilter{Search: "acme", Source: "referral"})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(1), total)
}

func TestCustomerService_Delete_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCustomerRepository)
	svc := NewCustomerService(repo)

	id := uuid.New()
	repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

	err := svc.Delete(ctx, id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

// =============================================================================
// GroupService
// =============================================================================

func TestGroupService_AddMembers(t *testing.T) {
	ctx := context.Background()
	group, err := customer.NewCustomerGroup("VIP", "")
	require.NoError(t, err)
	a := newTestCustomer(t, "A", "")
	b := newTestCustomer(t, "B", "")

	t.Run("adds existing customers", func(t *testing.T) {
		groups := new(MockGroupRepository)
		customers := new(MockCustomerRepository)
		svc := NewGroupService(groups, customers)

		ids := []uuid.UUID{a.ID, b.ID, a.ID}
		groups.On("FindByID", ctx, group.ID).Return(group, nil)
		customers.On("FindByIDs", ctx, ids).Return([]customer.Customer{*a, *b}, nil)
		groups.On("AddMembers", ctx, group.ID, ids).Return(nil)

		resp, err := svc.AddMembers(ctx, group.ID, AddMembersRequest{CustomerIDs: ids})
		require.NoError(t, err)
		assert.Equal(t, "VIP", resp.Name)
		groups.AssertExpectations(t)
	})

	t.Run("rejects unknown customer", func(t *testing.T) {
		groups := new(MockGroupRepository)
		customers := new(MockCustomerRepository)
		svc := NewGroupService(groups, customers)

		ids := []uuid.UUID{a.ID, uuid.New()}
		groups.On("FindByID", ctx, group.ID).Return(group, nil)
		customers.On("FindByIDs", ctx, ids).Return([]customer.Customer{*a}, nil)

		_, err := svc.AddMembers(ctx, group.ID, AddMembersRequest{CustomerIDs: ids})
		require.Error(t, err)
		groups.AssertNotCalled(t, "AddMembers", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGroupService_ListMembers(t *testing.T) {
	ctx := context.Background()
	groups := new(MockGroupRepository)
	svc := NewGroupService(groups, new(MockCustomerRepository))

	group, err := customer.NewCustomerGroup("VIP", "")
	require.NoError(t, err)
	groups.On("FindByID", ctx, group.ID).Return(group, nil)
	groups.On("ListMembers", ctx, group.ID).Return([]customer.Customer{*newTestCustomer(t, "A", "")}, nil)

	members, err := svc.ListMembers(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "A", members[0].Name)
}
