package printing

import (
	"context"

	"github.com/agency/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Filter keys understood by PrintOrderRepository.FindAll
const (
	FilterStatus     = "status"
	FilterMaterialID = "material_id"
	FilterAssignedTo = "assigned_to"
)

// PrintOrderRepository defines the interface for print order persistence
type PrintOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PrintOrder, error)
	// FindByIDForUpdate locks the row until the surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*PrintOrder, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]PrintOrder, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, order *PrintOrder) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context) (map[PrintStatus]int64, error)
}

// PrintMaterialRepository defines the interface for print material persistence
type PrintMaterialRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PrintMaterial, error)
	// FindByIDForUpdate locks the row until the surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*PrintMaterial, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]PrintMaterial, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// FindLowStock returns materials with stock at or below their minimum
	FindLowStock(ctx context.Context) ([]PrintMaterial, error)
	Save(ctx context.Context, material *PrintMaterial) error
	Delete(ctx context.Context, id uuid.UUID) error
}
