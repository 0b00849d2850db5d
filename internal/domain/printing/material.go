package printing

import (
	"strings"

	"github.com/agency/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MaterialDetails holds the editable fields of a print material
type MaterialDetails struct {
	Name     string
	Type     string
	Unit     string
	MinStock decimal.Decimal
	UnitCost decimal.Decimal
}

// PrintMaterial is a consumable stocked by the print shop
type PrintMaterial struct {
	shared.BaseEntity
	Name          string
	Type          string
	Unit          string
	StockQuantity decimal.Decimal
	MinStock      decimal.Decimal
	UnitCost      decimal.Decimal
}

// NewPrintMaterial creates a new material with the given opening stock
func NewPrintMaterial(d MaterialDetails, openingStock decimal.Decimal) (*PrintMaterial, error) {
	if openingStock.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Opening stock cannot be negative")
	}
	m := &PrintMaterial{BaseEntity: shared.NewBaseEntity(), StockQuantity: openingStock}
	if err := m.apply(d); err != nil {
		return nil, err
	}
	return m, nil
}

// Update replaces the editable fields; stock changes go through AdjustStock
func (m *PrintMaterial) Update(d MaterialDetails) error {
	if err := m.apply(d); err != nil {
		return err
	}
	m.Touch()
	return nil
}

func (m *PrintMaterial) apply(d MaterialDetails) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Material name cannot be empty")
	}
	unit := strings.TrimSpace(d.Unit)
	if unit == "" {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if d.MinStock.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Minimum stock cannot be negative")
	}
	if d.UnitCost.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit cost cannot be negative")
	}
	m.Name = name
	m.Type = strings.TrimSpace(d.Type)
	m.Unit = unit
	m.MinStock = d.MinStock
	m.UnitCost = d.UnitCost
	return nil
}

// AdjustStock adds delta (which may be negative) to the stock on hand
func (m *PrintMaterial) AdjustStock(delta decimal.Decimal) error {
	next := m.StockQuantity.Add(delta)
	if next.IsNegative() {
		return shared.NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock for material "+m.Name)
	}
	m.StockQuantity = next
	m.Touch()
	return nil
}

// Consume takes quantity out of stock
func (m *PrintMaterial) Consume(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	return m.AdjustStock(quantity.Neg())
}

// IsLowStock reports whether stock is at or below the minimum
func (m *PrintMaterial) IsLowStock() bool {
	return m.StockQuantity.LessThanOrEqual(m.MinStock)
}

// StockValue returns stock on hand times unit cost
func (m *PrintMaterial) StockValue() decimal.Decimal {
	return m.StockQuantity.Mul(m.UnitCost).Round(2)
}
