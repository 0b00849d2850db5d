package printing

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/agency/backend/internal/domain/printing"
	"github.com/agency/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PrintOrderService drives print orders through the production pipeline
type PrintOrderService struct {
	printOrderRepo printing.PrintOrderRepository
	txScope        TransactionScope
	files          shared.ObjectStorage
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewPrintOrderService creates a new PrintOrderService. files is the
// print-files bucket and may be nil when storage is disabled.
func NewPrintOrderService(
	printOrderRepo printing.PrintOrderRepository,
	txScope TransactionScope,
	files shared.ObjectStorage,
	logger *zap.Logger,
) *PrintOrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PrintOrderService{
		printOrderRepo: printOrderRepo,
		txScope:        txScope,
		files:          files,
		logger:         logger,
		now:            time.Now,
	}
}

// SetEventPublisher sets the event publisher
func (s *PrintOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a print order in the pending stage
func (s *PrintOrderService) Create(ctx context.Context, req PrintOrderRequest) (*PrintOrderResponse, error) {
	var order *printing.PrintOrder
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if req.MaterialID != nil {
			if _, err := repos.MaterialRepo().FindByID(ctx, *req.MaterialID); err != nil {
				if shared.IsNotFound(err) {
					return shared.NewDomainError("INVALID_MATERIAL", "Material does not exist")
				}
				return err
			}
		}
		number, err := repos.Numbers().Next(ctx, printing.PrintNumberPrefix, s.now())
		if err != nil {
			return err
		}
		order, err = printing.NewPrintOrder(number, req.details())
		if err != nil {
			return err
		}
		return repos.PrintOrderRepo().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("print order created",
		zap.String("print_order_id", order.ID.String()),
		zap.String("print_number", order.PrintNumber))
	response := ToPrintOrderResponse(order)
	return &response, nil
}

// GetByID retrieves a print order by ID
func (s *PrintOrderService) GetByID(ctx context.Context, id uuid.UUID) (*PrintOrderResponse, error) {
	order, err := s.printOrderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToPrintOrderResponse(order)
	return &response, nil
}

// List retrieves print orders with filtering and pagination
func (s *PrintOrderService) List(ctx context.Context, filter PrintOrderListFilter) ([]PrintOrderResponse, int64, error) {
	domainFilter := shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.Status != "" {
		status := printing.PrintStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_STATUS", "Unknown print status: "+filter.Status)
		}
		domainFilter.Filters[printing.FilterStatus] = status
	}
	if filter.MaterialID != nil {
		domainFilter.Filters[printing.FilterMaterialID] = *filter.MaterialID
	}
	if filter.AssignedTo != "" {
		domainFilter.Filters[printing.FilterAssignedTo] = filter.AssignedTo
	}

	orders, err := s.printOrderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.printOrderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]PrintOrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToPrintOrderResponse(&orders[i])
	}
	return responses, total, nil
}

// Update edits a print order's details
func (s *PrintOrderService) Update(ctx context.Context, id uuid.UUID, req PrintOrderRequest) (*PrintOrderResponse, error) {
	var order *printing.PrintOrder
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.PrintOrderRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if req.MaterialID != nil {
			if _, err := repos.MaterialRepo().FindByID(ctx, *req.MaterialID); err != nil {
				if shared.IsNotFound(err) {
					return shared.NewDomainError("INVALID_MATERIAL", "Material does not exist")
				}
				return err
			}
		}
		if err := order.Update(req.details()); err != nil {
			return err
		}
		return repos.PrintOrderRepo().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	response := ToPrintOrderResponse(order)
	return &response, nil
}

// UpdateStatus moves a print order to any pipeline status
func (s *PrintOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdatePrintStatusRequest) (*PrintOrderResponse, error) {
	status := printing.PrintStatus(req.Status)
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown print status: "+req.Status)
	}
	return s.moveTo(ctx, id, func(*printing.PrintOrder) (printing.PrintStatus, error) {
		return status, nil
	})
}

// Advance moves a print order to the next pipeline status
func (s *PrintOrderService) Advance(ctx context.Context, id uuid.UUID) (*PrintOrderResponse, error) {
	return s.moveTo(ctx, id, func(order *printing.PrintOrder) (printing.PrintStatus, error) {
		return order.NextStatus()
	})
}

// moveTo changes the status chosen by target. Entering printing for the
// first time takes the order's quantity out of material stock in the same
// transaction.
func (s *PrintOrderService) moveTo(
	ctx context.Context,
	id uuid.UUID,
	target func(*printing.PrintOrder) (printing.PrintStatus, error),
) (*PrintOrderResponse, error) {
	var order *printing.PrintOrder
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.PrintOrderRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		status, err := target(order)
		if err != nil {
			return err
		}

		if order.NeedsMaterialFor(status) {
			material, err := repos.MaterialRepo().FindByIDForUpdate(ctx, *order.MaterialID)
			if err != nil {
				return fmt.Errorf("load material: %w", err)
			}
			if err := material.Consume(order.Quantity); err != nil {
				return err
			}
			if err := repos.MaterialRepo().Save(ctx, material); err != nil {
				return err
			}
			order.MarkMaterialConsumed()
			if material.IsLowStock() {
				s.logger.Warn("print material low on stock",
					zap.String("material_id", material.ID.String()),
					zap.String("stock", material.StockQuantity.String()))
			}
		}

		if err := order.SetStatus(status); err != nil {
			return err
		}
		return repos.PrintOrderRepo().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	if err := shared.PublishPending(ctx, s.eventPublisher, order); err != nil {
		s.logger.Warn("failed to publish print order events", zap.String("print_order_id", id.String()), zap.Error(err))
	}
	response := ToPrintOrderResponse(order)
	return &response, nil
}

// Delete removes a print order and its design file
func (s *PrintOrderService) Delete(ctx context.Context, id uuid.UUID) error {
	order, err := s.printOrderRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.printOrderRepo.Delete(ctx, id); err != nil {
		return err
	}
	if order.HasDesignFile() && s.files != nil {
		if err := s.files.Delete(ctx, order.DesignFileKey); err != nil {
			s.logger.Warn("failed to delete design file", zap.String("key", order.DesignFileKey), zap.Error(err))
		}
	}
	return nil
}

// StageSummary counts print orders per pipeline stage, in pipeline order
func (s *PrintOrderService) StageSummary(ctx context.Context) ([]StageCount, error) {
	counts, err := s.printOrderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	stages := printing.Pipeline()
	summary := make([]StageCount, len(stages))
	for i, status := range stages {
		summary[i] = StageCount{
			Status:   string(status),
			Label:    status.Label(),
			Progress: status.Progress(),
			Count:    counts[status],
		}
	}
	return summary, nil
}

// AttachDesignFile uploads a design to the print-files bucket. A previous
// design is replaced.
func (s *PrintOrderService) AttachDesignFile(ctx context.Context, id uuid.UUID, filename, contentType string, body io.Reader, size int64) (*PrintOrderResponse, error) {
	if s.files == nil {
		return nil, shared.NewDomainError("STORAGE_UNAVAILABLE", "File storage is not configured")
	}
	order, err := s.printOrderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := order.DesignFileKey
	key := fmt.Sprintf("designs/%s/%d-%s", order.ID, s.now().Unix(), path.Base(filename))
	if err := s.files.Upload(ctx, key, contentType, body, size); err != nil {
		return nil, fmt.Errorf("upload design file: %w", err)
	}
	order.AttachDesignFile(key)
	if err := s.printOrderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	if previous != "" && previous != key {
		if err := s.files.Delete(ctx, previous); err != nil {
			s.logger.Warn("failed to delete old design file", zap.String("key", previous), zap.Error(err))
		}
	}
	response := ToPrintOrderResponse(order)
	return &response, nil
}

// DesignFileURL returns a presigned download URL for the design file
func (s *PrintOrderService) DesignFileURL(ctx context.Context, id uuid.UUID) (*FileURLResponse, error) {
	if s.files == nil {
		return nil, shared.NewDomainError("STORAGE_UNAVAILABLE", "File storage is not configured")
	}
	order, err := s.printOrderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.HasDesignFile() {
		return nil, shared.NewDomainError("NOT_FOUND", "Print order has no design file")
	}
	url, expiresAt, err := s.files.DownloadURL(ctx, order.DesignFileKey)
	if err != nil {
		return nil, err
	}
	return &FileURLResponse{URL: url, ExpiresAt: expiresAt}, nil
}
