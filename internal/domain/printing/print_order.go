package printing

import (
	"strings"
	"time"

	"github.com/agency/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PrintNumberPrefix is the prefix of generated print order numbers
const PrintNumberPrefix = "PRN"

// PrintOrderDetails holds the editable fields of a print order
type PrintOrderDetails struct {
	OrderID    *uuid.UUID
	CustomerID *uuid.UUID
	Title      string
	MaterialID *uuid.UUID
	Quantity   decimal.Decimal
	WidthCM    decimal.Decimal
	HeightCM   decimal.Decimal
	Sides      int
	AssignedTo string
	Notes      string
	DueDate    *time.Time
}

// PrintOrder is a job on the print shop floor
type PrintOrder struct {
	shared.BaseAggregateRoot
	PrintNumber      string
	OrderID          *uuid.UUID
	CustomerID       *uuid.UUID
	Title            string
	MaterialID       *uuid.UUID
	Quantity         decimal.Decimal
	WidthCM          decimal.Decimal
	HeightCM         decimal.Decimal
	Sides            int
	DesignFileKey    string
	Status           PrintStatus
	AssignedTo       string
	Notes            string
	DueDate          *time.Time
	MaterialConsumed bool
	CompletedAt      *time.Time
}

// NewPrintOrder creates a new print order at the start of the pipeline
func NewPrintOrder(printNumber string, d PrintOrderDetails) (*PrintOrder, error) {
	if printNumber == "" {
		return nil, shared.NewDomainError("INVALID_PRINT_NUMBER", "Print number cannot be empty")
	}
	p := &PrintOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PrintNumber:       printNumber,
		Status:            PrintStatusPending,
	}
	if err := p.apply(d); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces the editable fields. The material cannot change once consumed.
func (p *PrintOrder) Update(d PrintOrderDetails) error {
	if p.MaterialConsumed && !sameID(p.MaterialID, d.MaterialID) {
		return shared.NewDomainError("INVALID_STATE", "Material cannot change after printing started")
	}
	if p.MaterialConsumed && !d.Quantity.Equal(p.Quantity) {
		return shared.NewDomainError("INVALID_STATE", "Quantity cannot change after printing started")
	}
	if err := p.apply(d); err != nil {
		return err
	}
	p.Touch()
	return nil
}

func (p *PrintOrder) apply(d PrintOrderDetails) error {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Print order title cannot be empty")
	}
	if !d.Quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if d.WidthCM.IsNegative() || d.HeightCM.IsNegative() {
		return shared.NewDomainError("INVALID_DIMENSIONS", "Dimensions cannot be negative")
	}
	sides := d.Sides
	if sides == 0 {
		sides = 1
	}
	if sides != 1 && sides != 2 {
		return shared.NewDomainError("INVALID_SIDES", "Sides must be 1 or 2")
	}

	p.OrderID = d.OrderID
	p.CustomerID = d.CustomerID
	p.Title = title
	p.MaterialID = d.MaterialID
	p.Quantity = d.Quantity
	p.WidthCM = d.WidthCM
	p.HeightCM = d.HeightCM
	p.Sides = sides
	p.AssignedTo = strings.TrimSpace(d.AssignedTo)
	p.Notes = d.Notes
	p.DueDate = d.DueDate
	return nil
}

// Progress returns the completion percentage of the current status
func (p *PrintOrder) Progress() float64 {
	return p.Status.Progress()
}

// NeedsMaterialFor reports whether moving to status must consume material stock.
// Stock is taken once, the first time the order enters printing.
func (p *PrintOrder) NeedsMaterialFor(status PrintStatus) bool {
	return status == PrintStatusPrinting && p.MaterialID != nil && !p.MaterialConsumed
}

// MarkMaterialConsumed records that stock has been taken for this order
func (p *PrintOrder) MarkMaterialConsumed() {
	p.MaterialConsumed = true
}

// SetStatus moves the order to any pipeline status
func (p *PrintOrder) SetStatus(status PrintStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown print status: "+string(status))
	}
	if status == p.Status {
		return nil
	}
	old := p.Status
	p.Status = status
	if status == PrintStatusCompleted {
		now := time.Now()
		p.CompletedAt = &now
	} else {
		p.CompletedAt = nil
	}
	p.Touch()
	p.AddDomainEvent(NewPrintOrderStatusChangedEvent(p, old))
	return nil
}

// NextStatus returns the status Advance would move to
func (p *PrintOrder) NextStatus() (PrintStatus, error) {
	return p.Status.Next()
}

// AttachDesignFile stores the object key of the uploaded design
func (p *PrintOrder) AttachDesignFile(key string) {
	p.DesignFileKey = key
	p.Touch()
}

// HasDesignFile reports whether a design has been uploaded
func (p *PrintOrder) HasDesignFile() bool {
	return p.DesignFileKey != ""
}

func sameID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
