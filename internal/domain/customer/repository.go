package customer

import (
	"context"

	"github.com/agency/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Customer, error)
	// FindByPhone finds a customer by cleaned phone number
	FindByPhone(ctx context.Context, phone string) (*Customer, error)
	// FindAll lists customers; Search matches name, phone, email and company
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, customer *Customer) error
	SaveBatch(ctx context.Context, customers []*Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CustomerGroupRepository defines the interface for customer group persistence
type CustomerGroupRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CustomerGroup, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]CustomerGroup, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, group *CustomerGroup) error
	Delete(ctx context.Context, id uuid.UUID) error

	// AddMembers adds customers to the group; existing members are ignored
	AddMembers(ctx context.Context, groupID uuid.UUID, customerIDs []uuid.UUID) error
	RemoveMember(ctx context.Context, groupID, customerID uuid.UUID) error
	ListMembers(ctx context.Context, groupID uuid.UUID) ([]Customer, error)
}
