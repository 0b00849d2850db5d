package trade

import (
	"context"

	"github.com/agency/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Filter keys understood by OrderRepository.FindAll
const (
	FilterStatus     = "status"
	FilterCustomerID = "customer_id"
	FilterFrom       = "from" // time.Time, inclusive on created_at
	FilterTo         = "to"   // time.Time, inclusive on created_at
)

// Debtor aggregates the outstanding balance of one customer
type Debtor struct {
	CustomerID   uuid.UUID       `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	Phone        string          `json:"phone"`
	OrderCount   int64           `json:"order_count"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	PaidAmount   decimal.Decimal `json:"paid_amount"`
	Remaining    decimal.Decimal `json:"remaining_amount"`
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByNumber(ctx context.Context, orderNumber string) (*Order, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates an order with its items
	Save(ctx context.Context, order *Order) error
	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, order *Order) error
	Delete(ctx context.Context, id uuid.UUID) error

	// CountByStatus returns the number of orders per status
	CountByStatus(ctx context.Context) (map[OrderStatus]int64, error)
	// Debtors lists customers whose non-cancelled orders have an unpaid
	// balance, largest balance first
	Debtors(ctx context.Context) ([]Debtor, error)
}
