package trade

import (
	"time"

	"github.com/agency/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItemInput represents an item in a create or update request
type OrderItemInput struct {
	Description string          `json:"description" binding:"required,min=1,max=500"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreateOrderRequest represents a request to create an order.
// When Items is empty, TotalAmount is used as the order total.
type CreateOrderRequest struct {
	CustomerID  uuid.UUID        `json:"customer_id" binding:"required"`
	Title       string           `json:"title" binding:"required,min=1,max=200"`
	ServiceType string           `json:"service_type" binding:"max=100"`
	Description string           `json:"description"`
	Priority    string           `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	DueDate     *time.Time       `json:"due_date"`
	Notes       string           `json:"notes"`
	Items       []OrderItemInput `json:"items" binding:"omitempty,dive"`
	TotalAmount *decimal.Decimal `json:"total_amount"`
}

// UpdateOrderRequest represents a request to update an order.
// Version, when set, must match the stored version.
type UpdateOrderRequest struct {
	Title       string           `json:"title" binding:"required,min=1,max=200"`
	ServiceType string           `json:"service_type" binding:"max=100"`
	Description string           `json:"description"`
	Priority    string           `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	DueDate     *time.Time       `json:"due_date"`
	Notes       string           `json:"notes"`
	Items       []OrderItemInput `json:"items" binding:"omitempty,dive"`
	TotalAmount *decimal.Decimal `json:"total_amount"`
	Version     int              `json:"version"`
}

// UpdateStatusRequest represents a status change
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderListFilter represents filter options for order list
type OrderListFilter struct {
	Search     string     `form:"search"`
	Status     string     `form:"status"`
	CustomerID *uuid.UUID `form:"customer_id"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size" binding:"omitempty,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// OrderItemResponse represents an order item in API responses
type OrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	OrderNumber     string              `json:"order_number"`
	CustomerID      uuid.UUID           `json:"customer_id"`
	Title           string              `json:"title"`
	ServiceType     string              `json:"service_type"`
	Description     string              `json:"description"`
	Items           []OrderItemResponse `json:"items"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	PaidAmount      decimal.Decimal     `json:"paid_amount"`
	RemainingAmount decimal.Decimal     `json:"remaining_amount"`
	Status          string              `json:"status"`
	StatusLabel     string              `json:"status_label"`
	Priority        string              `json:"priority"`
	PriorityLabel   string              `json:"priority_label"`
	DueDate         *time.Time          `json:"due_date,omitempty"`
	Notes           string              `json:"notes"`
	CompletedAt     *time.Time          `json:"completed_at,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	Version         int                 `json:"version"`
}

// StatusCount is one entry of the status summary
type StatusCount struct {
	Status string `json:"status"`
	Label  string `json:"label"`
	Count  int64  `json:"count"`
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *trade.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		}
	}
	return OrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		Title:           o.Title,
		ServiceType:     o.ServiceType,
		Description:     o.Description,
		Items:           items,
		TotalAmount:     o.TotalAmount,
		PaidAmount:      o.PaidAmount,
		RemainingAmount: o.RemainingAmount(),
		Status:          string(o.Status),
		StatusLabel:     o.Status.Label(),
		Priority:        string(o.Priority),
		PriorityLabel:   o.Priority.Label(),
		DueDate:         o.DueDate,
		Notes:           o.Notes,
		CompletedAt:     o.CompletedAt,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Version:         o.Version,
	}
}

// ToOrderResponses converts a slice of domain orders
func ToOrderResponses(orders []trade.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses
}
