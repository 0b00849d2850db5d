package trade

import (
	"strings"
	"time"

	"github.com/agency/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderNumberPrefix is the prefix of generated order numbers
const OrderNumberPrefix = "ORD"

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusOnHold     OrderStatus = "on_hold"
)

var orderStatusLabels = map[OrderStatus]string{
	OrderStatusPending:    "قيد الانتظار",
	OrderStatusInProgress: "قيد التنفيذ",
	OrderStatusCompleted:  "مكتمل",
	OrderStatusCancelled:  "ملغي",
	OrderStatusOnHold:     "معلق",
}

// AllOrderStatuses returns every order status in display order
func AllOrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusPending, OrderStatusInProgress, OrderStatusOnHold,
		OrderStatusCompleted, OrderStatusCancelled,
	}
}

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	_, ok := orderStatusLabels[s]
	return ok
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// Label returns the Arabic badge text for the status
func (s OrderStatus) Label() string {
	if label, ok := orderStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Priority represents how urgent an order is
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var priorityLabels = map[Priority]string{
	PriorityLow:    "منخفضة",
	PriorityNormal: "عادية",
	PriorityHigh:   "عالية",
	PriorityUrgent: "عاجلة",
}

// IsValid checks if the priority is valid
func (p Priority) IsValid() bool {
	_, ok := priorityLabels[p]
	return ok
}

// Label returns the Arabic display text for the priority
func (p Priority) Label() string {
	if label, ok := priorityLabels[p]; ok {
		return label
	}
	return string(p)
}

// OrderItem represents a line item of an order
type OrderItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal // Quantity * UnitPrice
}

// NewOrderItem creates a new order item
func NewOrderItem(orderID uuid.UUID, description string, quantity, unitPrice decimal.Decimal) (*OrderItem, error) {
	if strings.TrimSpace(description) == "" {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item description cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	return &OrderItem{
		ID:          uuid.New(),
		OrderID:     orderID,
		Description: strings.TrimSpace(description),
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Amount:      quantity.Mul(unitPrice).Round(2),
	}, nil
}

// OrderDetails holds the descriptive fields of an order
type OrderDetails struct {
	Title       string
	ServiceType string
	Description string
	Priority    Priority
	DueDate     *time.Time
	Notes       string
}

// Order is a customer's job for the agency
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber string
	CustomerID  uuid.UUID
	Title       string
	ServiceType string
	Description string
	Items       []OrderItem
	TotalAmount decimal.Decimal
	PaidAmount  decimal.Decimal
	Status      OrderStatus
	Priority    Priority
	DueDate     *time.Time
	Notes       string
	CompletedAt *time.Time
}

// NewOrder creates a new pending order
func NewOrder(orderNumber string, customerID uuid.UUID, details OrderDetails) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		CustomerID:        customerID,
		Items:             make([]OrderItem, 0),
		TotalAmount:       decimal.Zero,
		PaidAmount:        decimal.Zero,
		Status:            OrderStatusPending,
	}
	if err := order.applyDetails(details); err != nil {
		return nil, err
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))
	return order, nil
}

// UpdateDetails replaces the descriptive fields
func (o *Order) UpdateDetails(details OrderDetails) error {
	if err := o.applyDetails(details); err != nil {
		return err
	}
	o.Touch()
	return nil
}

func (o *Order) applyDetails(d OrderDetails) error {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Order title cannot be empty")
	}
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Order title cannot exceed 200 characters")
	}
	priority := d.Priority
	if priority == "" {
		priority = PriorityNormal
	}
	if !priority.IsValid() {
		return shared.NewDomainError("INVALID_PRIORITY", "Invalid order priority")
	}

	o.Title = title
	o.ServiceType = strings.TrimSpace(d.ServiceType)
	o.Description = d.Description
	o.Priority = priority
	o.DueDate = d.DueDate
	o.Notes = d.Notes
	return nil
}

// SetItems replaces the line items and recomputes the total
func (o *Order) SetItems(items []OrderItem) error {
	total := decimal.Zero
	for i := range items {
		items[i].OrderID = o.ID
		total = total.Add(items[i].Amount)
	}
	if err := o.SetTotalAmount(total); err != nil {
		return err
	}
	o.Items = items
	return nil
}

// SetTotalAmount sets the total directly for orders without line items
func (o *Order) SetTotalAmount(total decimal.Decimal) error {
	if total.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Total amount cannot be negative")
	}
	if total.LessThan(o.PaidAmount) {
		return shared.NewDomainError("INVALID_AMOUNT", "Total amount cannot be less than the amount already paid")
	}
	o.TotalAmount = total.Round(2)
	o.Touch()
	return nil
}

// RemainingAmount returns the amount still owed on the order
func (o *Order) RemainingAmount() decimal.Decimal {
	return o.TotalAmount.Sub(o.PaidAmount)
}

// IsFullyPaid reports whether nothing remains to be paid
func (o *Order) IsFullyPaid() bool {
	return !o.RemainingAmount().IsPositive()
}

// UpdateStatus moves the order to the given status
func (o *Order) UpdateStatus(status OrderStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invalid order status: "+string(status))
	}
	if status == o.Status {
		return nil
	}

	old := o.Status
	o.Status = status
	if status == OrderStatusCompleted {
		now := time.Now()
		o.CompletedAt = &now
	} else {
		o.CompletedAt = nil
	}
	o.Touch()
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, old))
	return nil
}

// RecordPayment adds amount to the paid total
func (o *Order) RecordPayment(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if o.Status == OrderStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot record a payment for a cancelled order")
	}
	if o.PaidAmount.Add(amount).GreaterThan(o.TotalAmount) {
		return shared.NewDomainError("OVERPAYMENT", "Payment exceeds the remaining amount")
	}
	o.PaidAmount = o.PaidAmount.Add(amount)
	o.Touch()
	return nil
}

// ReversePayment subtracts amount from the paid total, used when a payment is deleted
func (o *Order) ReversePayment(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if amount.GreaterThan(o.PaidAmount) {
		return shared.NewDomainError("INVALID_AMOUNT", "Cannot reverse more than the paid amount")
	}
	o.PaidAmount = o.PaidAmount.Sub(amount)
	o.Touch()
	return nil
}
