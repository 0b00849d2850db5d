package printing

import (
	"context"

	"github.com/agency/backend/internal/domain/printing"
	"github.com/agency/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaterialService manages print shop consumables
type MaterialService struct {
	materialRepo   printing.PrintMaterialRepository
	printOrderRepo printing.PrintOrderRepository
	txScope        TransactionScope
	logger         *zap.Logger
}

// NewMaterialService creates a new MaterialService
func NewMaterialService(
	materialRepo printing.PrintMaterialRepository,
	printOrderRepo printing.PrintOrderRepository,
	txScope TransactionScope,
	logger *zap.Logger,
) *MaterialService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MaterialService{
		materialRepo:   materialRepo,
		printOrderRepo: printOrderRepo,
		txScope:        txScope,
		logger:         logger,
	}
}

// Create adds a material with its opening stock
func (s *MaterialService) Create(ctx context.Context, req MaterialRequest) (*MaterialResponse, error) {
	material, err := printing.NewPrintMaterial(req.details(), req.OpeningStock)
	if err != nil {
		return nil, err
	}
	if err := s.materialRepo.Save(ctx, material); err != nil {
		return nil, err
	}
	response := ToMaterialResponse(material)
	return &response, nil
}

// GetByID retrieves a material by ID
func (s *MaterialService) GetByID(ctx context.Context, id uuid.UUID) (*MaterialResponse, error) {
	material, err := s.materialRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToMaterialResponse(material)
	return &response, nil
}

// List retrieves materials with pagination
func (s *MaterialService) List(ctx context.Context, filter MaterialListFilter) ([]MaterialResponse, int64, error) {
	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "name"
	}
	orderDir := filter.OrderDir
	if orderDir == "" {
		orderDir = "asc"
	}
	domainFilter := shared.NewFilter(filter.Page, filter.PageSize, orderBy, orderDir, filter.Search)

	materials, err := s.materialRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.materialRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToMaterialResponses(materials), total, nil
}

// Update edits a material's details. Stock is left alone.
func (s *MaterialService) Update(ctx context.Context, id uuid.UUID, req MaterialRequest) (*MaterialResponse, error) {
	material, err := s.materialRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := material.Update(req.details()); err != nil {
		return nil, err
	}
	if err := s.materialRepo.Save(ctx, material); err != nil {
		return nil, err
	}
	response := ToMaterialResponse(material)
	return &response, nil
}

// Delete removes a material that no print order references
func (s *MaterialService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.materialRepo.FindByID(ctx, id); err != nil {
		return err
	}
	filter := shared.DefaultFilter()
	filter.Filters[printing.FilterMaterialID] = id
	used, err := s.printOrderRepo.Count(ctx, filter)
	if err != nil {
		return err
	}
	if used > 0 {
		return shared.NewDomainError("INVALID_STATE", "Material is used by print orders")
	}
	return s.materialRepo.Delete(ctx, id)
}

// AdjustStock adds delta to the stock on hand. The result cannot go below zero.
func (s *MaterialService) AdjustStock(ctx context.Context, id uuid.UUID, req AdjustStockRequest) (*MaterialResponse, error) {
	var material *printing.PrintMaterial
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		material, err = repos.MaterialRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := material.AdjustStock(req.Delta); err != nil {
			return err
		}
		return repos.MaterialRepo().Save(ctx, material)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("material stock adjusted",
		zap.String("material_id", id.String()),
		zap.String("delta", req.Delta.String()),
		zap.String("reason", req.Reason))
	response := ToMaterialResponse(material)
	return &response, nil
}

// LowStock lists materials at or below their minimum stock
func (s *MaterialService) LowStock(ctx context.Context) ([]MaterialResponse, error) {
	materials, err := s.materialRepo.FindLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return ToMaterialResponses(materials), nil
}
