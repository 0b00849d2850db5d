package trade

import (
	"context"
	"time"

	"github.com/agency/backend/internal/domain/customer"
	"github.com/agency/backend/internal/domain/shared"
	"github.com/agency/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderService handles order business operations
type OrderService struct {
	orderRepo      trade.OrderRepository
	customerRepo   customer.CustomerRepository
	numbers        shared.NumberGenerator
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo trade.OrderRepository,
	customerRepo customer.CustomerRepository,
	numbers shared.NumberGenerator,
	logger *zap.Logger,
) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		numbers:      numbers,
		logger:       logger,
		now:          time.Now,
	}
}

// SetEventPublisher sets the event publisher for webhooks, notifications and cache invalidation
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new pending order numbered ORD-YYYY-NNNNN
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	if _, err := s.customerRepo.FindByID(ctx, req.CustomerID); err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer does not exist")
		}
		return nil, err
	}

	orderNumber, err := s.numbers.Next(ctx, trade.OrderNumberPrefix, s.now())
	if err != nil {
		return nil, err
	}

	order, err := trade.NewOrder(orderNumber, req.CustomerID, trade.OrderDetails{
		Title:       req.Title,
		ServiceType: req.ServiceType,
		Description: req.Description,
		Priority:    trade.Priority(req.Priority),
		DueDate:     req.DueDate,
		Notes:       req.Notes,
	})
	if err != nil {
		return nil, err
	}
	if err := applyAmounts(order, req.Items, req.TotalAmount); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.publish(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// GetByNumber retrieves an order by its order number
func (s *OrderService) GetByNumber(ctx context.Context, orderNumber string) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderResponse, int64, error) {
	if filter.Status != "" && !trade.OrderStatus(filter.Status).IsValid() {
		return nil, 0, shared.NewDomainError("INVALID_STATUS", "Invalid order status: "+filter.Status)
	}

	domainFilter := shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.Status != "" {
		domainFilter.Filters[trade.FilterStatus] = filter.Status
	}
	if filter.CustomerID != nil {
		domainFilter.Filters[trade.FilterCustomerID] = *filter.CustomerID
	}
	if filter.From != nil {
		domainFilter.Filters[trade.FilterFrom] = *filter.From
	}
	if filter.To != nil {
		// inclusive date: up to the end of that day
		domainFilter.Filters[trade.FilterTo] = filter.To.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToOrderResponses(orders), total, nil
}

// Update replaces an order's details and amounts
func (s *OrderService) Update(ctx context.Context, id uuid.UUID, req UpdateOrderRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Version != 0 && req.Version != order.Version {
		return nil, shared.ErrConcurrencyConflict
	}
	if order.Status == trade.OrderStatusCancelled {
		return nil, shared.NewDomainError("INVALID_STATE", "Cancelled orders cannot be edited")
	}

	if err := order.UpdateDetails(trade.OrderDetails{
		Title:       req.Title,
		ServiceType: req.ServiceType,
		Description: req.Description,
		Priority:    trade.Priority(req.Priority),
		DueDate:     req.DueDate,
		Notes:       req.Notes,
	}); err != nil {
		return nil, err
	}
	if err := applyAmounts(order, req.Items, req.TotalAmount); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	s.publish(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// UpdateStatus moves an order to the given status
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.UpdateStatus(trade.OrderStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	s.publish(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// Delete deletes an order that has not received payments
func (s *OrderService) Delete(ctx context.Context, id uuid.UUID) error {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if order.PaidAmount.IsPositive() {
		return shared.NewDomainError("INVALID_STATE", "Orders with recorded payments cannot be deleted")
	}
	return s.orderRepo.Delete(ctx, id)
}

// StatusSummary returns the number of orders per status, in display order
func (s *OrderService) StatusSummary(ctx context.Context) ([]StatusCount, error) {
	counts, err := s.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	summary := make([]StatusCount, 0, len(trade.AllOrderStatuses()))
	for _, status := range trade.AllOrderStatuses() {
		summary = append(summary, StatusCount{
			Status: string(status),
			Label:  status.Label(),
			Count:  counts[status],
		})
	}
	return summary, nil
}

// Debtors lists customers with an unpaid balance, largest first
func (s *OrderService) Debtors(ctx context.Context) ([]trade.Debtor, error) {
	debtors, err := s.orderRepo.Debtors(ctx)
	if err != nil {
		return nil, err
	}
	if debtors == nil {
		debtors = []trade.Debtor{}
	}
	return debtors, nil
}

func (s *OrderService) publish(ctx context.Context, order *trade.Order) {
	if err := shared.PublishPending(ctx, s.eventPublisher, order); err != nil {
		s.logger.Warn("failed to publish order events",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}
}

// applyAmounts sets the items, or the bare total when no items are given.
// With neither, the current amounts are kept.
func applyAmounts(order *trade.Order, inputs []OrderItemInput, total *decimal.Decimal) error {
	if len(inputs) == 0 {
		if total == nil {
			return nil
		}
		order.Items = nil
		return order.SetTotalAmount(*total)
	}

	items := make([]trade.OrderItem, 0, len(inputs))
	for _, in := range inputs {
		item, err := trade.NewOrderItem(order.ID, in.Description, in.Quantity, in.UnitPrice)
		if err != nil {
			return err
		}
		items = append(items, *item)
	}
	return order.SetItems(items)
}
