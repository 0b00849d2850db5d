package customer

import (
	"context"
	"errors"
	"testing"

	"github.com/agency/backend/internal/domain/customer"
	"github.com/agency/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCustomerService_Import(t *testing.T) {
	ctx := context.Background()

	t.Run("reports rejected rows and continues", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo)

		repo.On("FindByPhone", ctx, "0501234567").Return(nil, shared.ErrNotFound).Once()
		repo.On("FindByPhone", ctx, "0501234567").Return(newTestCustomer(t, "Sara", "0501234567"), nil)
		repo.On("FindByPhone", ctx, "0559876543").Return(nil, shared.ErrNotFound)
		repo.On("Save", ctx, mock.AnythingOfType("*customer.Customer")).Return(nil)

		result, err := svc.Import(ctx, []ImportRow{
			{Line: 2, Request: CustomerRequest{Name: "Sara", Phone: "0501234567"}},
			{Line: 3, Request: CustomerRequest{Name: "Sara again", Phone: "050 123 4567"}},
			{Line: 4, Request: CustomerRequest{Name: "Omar", Email: "not-an-email"}},
			{Line: 5, Request: CustomerRequest{Name: "Huda", Phone: "0559876543", Source: customer.SourceReferral}},
		})
		require.NoError(t, err)

		assert.Equal(t, 4, result.Total)
		assert.Equal(t, 2, result.Created)
		assert.Equal(t, 2, result.Failed)
		require.Len(t, result.Errors, 2)
		assert.Equal(t, ImportError{Line: 3, Code: "ALREADY_EXISTS", Message: "A customer with this phone number already exists"}, result.Errors[0])
		assert.Equal(t, 4, result.Errors[1].Line)
		assert.Equal(t, "INVALID_EMAIL", result.Errors[1].Code)

		repo.AssertNumberOfCalls(t, "Save", 2)
	})

	t.Run("defaults source to import", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo)

		repo.On("Save", ctx, mock.MatchedBy(func(c *customer.Customer) bool {
			return c.Source == customer.SourceImport
		})).Return(nil)

		result, err := svc.Import(ctx, []ImportRow{{Line: 2, Request: CustomerRequest{Name: "Walk-in"}}})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Created)
		assert.Empty(t, result.Errors)
		repo.AssertExpectations(t)
	})

	t.Run("stops on infrastructure errors", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo)
		dbErr := errors.New("connection reset")

		repo.On("Save", ctx, mock.Anything).Return(dbErr)

		result, err := svc.Import(ctx, []ImportRow{
			{Line: 2, Request: CustomerRequest{Name: "A"}},
			{Line: 3, Request: CustomerRequest{Name: "B"}},
		})
		assert.ErrorIs(t, err, dbErr)
		assert.Equal(t, 0, result.Created)
		repo.AssertNumberOfCalls(t, "Save", 1)
	})
}
