package models

import (
	"time"

	"github.com/agency/backend/internal/domain/printing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PrintOrderModel is the persistence model for print orders
type PrintOrderModel struct {
	AggregateModel
	PrintNumber      string               `gorm:"type:varchar(50);not null;uniqueIndex"`
	OrderID          *uuid.UUID           `gorm:"type:uuid;index"`
	CustomerID       *uuid.UUID           `gorm:"type:uuid;index"`
	Title            string               `gorm:"type:varchar(200);not null"`
	MaterialID       *uuid.UUID           `gorm:"type:uuid;index"`
	Quantity         decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	WidthCM          decimal.Decimal      `gorm:"column:width_cm;type:decimal(10,2);not null;default:0"`
	HeightCM         decimal.Decimal      `gorm:"column:height_cm;type:decimal(10,2);not null;default:0"`
	Sides            int                  `gorm:"not null;default:1"`
	DesignFileKey    string               `gorm:"type:varchar(500)"`
	Status           printing.PrintStatus `gorm:"type:varchar(30);not null;default:'pending';index"`
	AssignedTo       string               `gorm:"type:varchar(100);index"`
	Notes            string               `gorm:"type:text"`
	DueDate          *time.Time
	MaterialConsumed bool `gorm:"not null;default:false"`
	CompletedAt      *time.Time
}

// TableName returns the table name for GORM
func (PrintOrderModel) TableName() string {
	return "print_orders"
}

// ToDomain converts the model to a domain PrintOrder
func (m *PrintOrderModel) ToDomain() *printing.PrintOrder {
	return &printing.PrintOrder{
		BaseAggregateRoot: m.ToAggregateRoot(),
		PrintNumber:       m.PrintNumber,
		OrderID:           m.OrderID,
		CustomerID:        m.CustomerID,
		Title:             m.Title,
		MaterialID:        m.MaterialID,
		Quantity:          m.Quantity,
		WidthCM:           m.WidthCM,
		HeightCM:          m.HeightCM,
		Sides:             m.Sides,
		DesignFileKey:     m.DesignFileKey,
		Status:            m.Status,
		AssignedTo:        m.AssignedTo,
		Notes:             m.Notes,
		DueDate:           m.DueDate,
		MaterialConsumed:  m.MaterialConsumed,
		CompletedAt:       m.CompletedAt,
	}
}

// FromDomain populates the model from a domain PrintOrder
func (m *PrintOrderModel) FromDomain(p *printing.PrintOrder) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.PrintNumber = p.PrintNumber
	m.OrderID = p.OrderID
	m.CustomerID = p.CustomerID
	m.Title = p.Title
	m.MaterialID = p.MaterialID
	m.Quantity = p.Quantity
	m.WidthCM = p.WidthCM
	m.HeightCM = p.HeightCM
	m.Sides = p.Sides
	m.DesignFileKey = p.DesignFileKey
	m.Status = p.Status
	m.AssignedTo = p.AssignedTo
	m.Notes = p.Notes
	m.DueDate = utcPtr(p.DueDate)
	m.MaterialConsumed = p.MaterialConsumed
	m.CompletedAt = utcPtr(p.CompletedAt)
}

// PrintMaterialModel is the persistence model for print materials
type PrintMaterialModel struct {
	BaseModel
	Name          string          `gorm:"type:varchar(200);not null;uniqueIndex"`
	Type          string          `gorm:"type:varchar(100)"`
	Unit          string          `gorm:"type:varchar(30);not null"`
	StockQuantity decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	MinStock      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	UnitCost      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (PrintMaterialModel) TableName() string {
	return "print_materials"
}

// ToDomain converts the model to a domain PrintMaterial
func (m *PrintMaterialModel) ToDomain() *printing.PrintMaterial {
	return &printing.PrintMaterial{
		BaseEntity:    m.BaseModel.ToDomain(),
		Name:          m.Name,
		Type:          m.Type,
		Unit:          m.Unit,
		StockQuantity: m.StockQuantity,
		MinStock:      m.MinStock,
		UnitCost:      m.UnitCost,
	}
}

// FromDomain populates the model from a domain PrintMaterial
func (m *PrintMaterialModel) FromDomain(p *printing.PrintMaterial) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Name = p.Name
	m.Type = p.Type
	m.Unit = p.Unit
	m.StockQuantity = p.StockQuantity
	m.MinStock = p.MinStock
	m.UnitCost = p.UnitCost
}
