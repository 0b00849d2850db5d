package models

import (
	"time"

	"github.com/agency/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate root
type OrderModel struct {
	AggregateModel
	OrderNumber string            `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID  uuid.UUID         `gorm:"type:uuid;not null;index"`
	Title       string            `gorm:"type:varchar(200);not null"`
	ServiceType string            `gorm:"type:varchar(100)"`
	Description string            `gorm:"type:text"`
	TotalAmount decimal.Decimal   `gorm:"type:decimal(18,2);not null;default:0"`
	PaidAmount  decimal.Decimal   `gorm:"type:decimal(18,2);not null;default:0"`
	Status      trade.OrderStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	Priority    trade.Priority    `gorm:"type:varchar(20);not null;default:'normal'"`
	DueDate     *time.Time
	Notes       string `gorm:"type:text"`
	CompletedAt *time.Time
	Items       []OrderItemModel `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the model to a domain Order
func (m *OrderModel) ToDomain() *trade.Order {
	o := &trade.Order{
		BaseAggregateRoot: m.ToAggregateRoot(),
		OrderNumber:       m.OrderNumber,
		CustomerID:        m.CustomerID,
		Title:             m.Title,
		ServiceType:       m.ServiceType,
		Description:       m.Description,
		Items:             make([]trade.OrderItem, len(m.Items)),
		TotalAmount:       m.TotalAmount,
		PaidAmount:        m.PaidAmount,
		Status:            m.Status,
		Priority:          m.Priority,
		DueDate:           m.DueDate,
		Notes:             m.Notes,
		CompletedAt:       m.CompletedAt,
	}
	for i, item := range m.Items {
		o.Items[i] = *item.ToDomain()
	}
	return o
}

// FromDomain populates the model from a domain Order, items included
func (m *OrderModel) FromDomain(o *trade.Order) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.CustomerID = o.CustomerID
	m.Title = o.Title
	m.ServiceType = o.ServiceType
	m.Description = o.Description
	m.TotalAmount = o.TotalAmount
	m.PaidAmount = o.PaidAmount
	m.Status = o.Status
	m.Priority = o.Priority
	m.DueDate = utcPtr(o.DueDate)
	m.Notes = o.Notes
	m.CompletedAt = utcPtr(o.CompletedAt)
	m.Items = make([]OrderItemModel, len(o.Items))
	for i := range o.Items {
		m.Items[i].FromDomain(&o.Items[i], o.ID)
		m.Items[i].Position = i
	}
}

// OrderItemModel is the persistence model for order lines
type OrderItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position    int             `gorm:"not null;default:0"`
	Description string          `gorm:"type:varchar(500);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the model to a domain OrderItem
func (m *OrderItemModel) ToDomain() *trade.OrderItem {
	return &trade.OrderItem{
		ID:          m.ID,
		OrderID:     m.OrderID,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		Amount:      m.Amount,
	}
}

// FromDomain populates the model from a domain OrderItem
func (m *OrderItemModel) FromDomain(item *trade.OrderItem, orderID uuid.UUID) {
	m.ID = item.ID
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.OrderID = orderID
	m.Description = item.Description
	m.Quantity = item.Quantity
	m.UnitPrice = item.UnitPrice
	m.Amount = item.Amount
}
