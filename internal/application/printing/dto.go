package printing

import (
	"time"

	"github.com/agency/backend/internal/domain/printing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Print Order DTOs
// =============================================================================

// PrintOrderRequest creates or updates a print order
type PrintOrderRequest struct {
	OrderID    *uuid.UUID      `json:"order_id"`
	CustomerID *uuid.UUID      `json:"customer_id"`
	Title      string          `json:"title" binding:"required,min=1,max=200"`
	MaterialID *uuid.UUID      `json:"material_id"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	WidthCM    decimal.Decimal `json:"width_cm"`
	HeightCM   decimal.Decimal `json:"height_cm"`
	Sides      int             `json:"sides" binding:"omitempty,oneof=1 2"`
	AssignedTo string          `json:"assigned_to" binding:"max=100"`
	Notes      string          `json:"notes"`
	DueDate    *time.Time      `json:"due_date"`
}

func (r PrintOrderRequest) details() printing.PrintOrderDetails {
	return printing.PrintOrderDetails{
		OrderID:    r.OrderID,
		CustomerID: r.CustomerID,
		Title:      r.Title,
		MaterialID: r.MaterialID,
		Quantity:   r.Quantity,
		WidthCM:    r.WidthCM,
		HeightCM:   r.HeightCM,
		Sides:      r.Sides,
		AssignedTo: r.AssignedTo,
		Notes:      r.Notes,
		DueDate:    r.DueDate,
	}
}

// UpdatePrintStatusRequest moves a print order to a pipeline status
type UpdatePrintStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// PrintOrderListFilter represents filter options for print order list
type PrintOrderListFilter struct {
	Search     string     `form:"search"`
	Status     string     `form:"status"`
	MaterialID *uuid.UUID `form:"material_id"`
	AssignedTo string     `form:"assigned_to"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size" binding:"omitempty,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PrintOrderResponse represents a print order in API responses
type PrintOrderResponse struct {
	ID               uuid.UUID       `json:"id"`
	PrintNumber      string          `json:"print_number"`
	OrderID          *uuid.UUID      `json:"order_id,omitempty"`
	CustomerID       *uuid.UUID      `json:"customer_id,omitempty"`
	Title            string          `json:"title"`
	MaterialID       *uuid.UUID      `json:"material_id,omitempty"`
	Quantity         decimal.Decimal `json:"quantity"`
	WidthCM          decimal.Decimal `json:"width_cm"`
	HeightCM         decimal.Decimal `json:"height_cm"`
	Sides            int             `json:"sides"`
	DesignFileKey    string          `json:"design_file_key,omitempty"`
	Status           string          `json:"status"`
	StatusLabel      string          `json:"status_label"`
	Progress         float64         `json:"progress"`
	AssignedTo       string          `json:"assigned_to"`
	Notes            string          `json:"notes"`
	DueDate          *time.Time      `json:"due_date,omitempty"`
	MaterialConsumed bool            `json:"material_consumed"`
	CompletedAt      *time.Time      `json:"completed_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ToPrintOrderResponse converts a domain PrintOrder to PrintOrderResponse
func ToPrintOrderResponse(p *printing.PrintOrder) PrintOrderResponse {
	return PrintOrderResponse{
		ID:               p.ID,
		PrintNumber:      p.PrintNumber,
		OrderID:          p.OrderID,
		CustomerID:       p.CustomerID,
		Title:            p.Title,
		MaterialID:       p.MaterialID,
		Quantity:         p.Quantity,
		WidthCM:          p.WidthCM,
		HeightCM:         p.HeightCM,
		Sides:            p.Sides,
		DesignFileKey:    p.DesignFileKey,
		Status:           string(p.Status),
		StatusLabel:      p.Status.Label(),
		Progress:         p.Progress(),
		AssignedTo:       p.AssignedTo,
		Notes:            p.Notes,
		DueDate:          p.DueDate,
		MaterialConsumed: p.MaterialConsumed,
		CompletedAt:      p.CompletedAt,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// StageCount is the number of print orders in one pipeline stage
type StageCount struct {
	Status   string  `json:"status"`
	Label    string  `json:"label"`
	Progress float64 `json:"progress"`
	Count    int64   `json:"count"`
}

// FileURLResponse is a presigned download link
type FileURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// =============================================================================
// Material DTOs
// =============================================================================

// MaterialRequest creates or updates a print material
type MaterialRequest struct {
	Name         string          `json:"name" binding:"required,min=1,max=200"`
	Type         string          `json:"type" binding:"max=100"`
	Unit         string          `json:"unit" binding:"required,max=20"`
	MinStock     decimal.Decimal `json:"min_stock"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	OpeningStock decimal.Decimal `json:"opening_stock"`
}

func (r MaterialRequest) details() printing.MaterialDetails {
	return printing.MaterialDetails{
		Name:     r.Name,
		Type:     r.Type,
		Unit:     r.Unit,
		MinStock: r.MinStock,
		UnitCost: r.UnitCost,
	}
}

// AdjustStockRequest changes a material's stock by delta
type AdjustStockRequest struct {
	Delta  decimal.Decimal `json:"delta" binding:"required"`
	Reason string          `json:"reason" binding:"max=200"`
}

// MaterialListFilter represents filter options for material list
type MaterialListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"omitempty,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// MaterialResponse represents a print material in API responses
type MaterialResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Type          string          `json:"type"`
	Unit          string          `json:"unit"`
	StockQuantity decimal.Decimal `json:"stock_quantity"`
	MinStock      decimal.Decimal `json:"min_stock"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	StockValue    decimal.Decimal `json:"stock_value"`
	IsLowStock    bool            `json:"is_low_stock"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToMaterialResponse converts a domain PrintMaterial to MaterialResponse
func ToMaterialResponse(m *printing.PrintMaterial) MaterialResponse {
	return MaterialResponse{
		ID:            m.ID,
		Name:          m.Name,
		Type:          m.Type,
		Unit:          m.Unit,
		StockQuantity: m.StockQuantity,
		MinStock:      m.MinStock,
		UnitCost:      m.UnitCost,
		StockValue:    m.StockValue(),
		IsLowStock:    m.IsLowStock(),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// ToMaterialResponses converts a slice of materials
func ToMaterialResponses(materials []printing.PrintMaterial) []MaterialResponse {
	responses := make([]MaterialResponse, len(materials))
	for i := range materials {
		responses[i] = ToMaterialResponse(&materials[i])
	}
	return responses
}
