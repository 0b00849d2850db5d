package printing

import (
	"github.com/agency/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypePrintOrder = "PrintOrder"

// EventTypePrintOrderStatusChanged is published when a print order changes stage
const EventTypePrintOrderStatusChanged = "print_order.status_changed"

// PrintOrderStatusChangedEvent is raised when a print order changes status
type PrintOrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	PrintOrderID uuid.UUID   `json:"print_order_id"`
	PrintNumber  string      `json:"print_number"`
	Title        string      `json:"title"`
	OldStatus    PrintStatus `json:"old_status"`
	NewStatus    PrintStatus `json:"new_status"`
	StatusLabel  string      `json:"status_label"`
	Progress     float64     `json:"progress"`
}

// NewPrintOrderStatusChangedEvent creates a new PrintOrderStatusChangedEvent
func NewPrintOrderStatusChangedEvent(p *PrintOrder, old PrintStatus) *PrintOrderStatusChangedEvent {
	return &PrintOrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePrintOrderStatusChanged, AggregateTypePrintOrder, p.ID),
		PrintOrderID:    p.ID,
		PrintNumber:     p.PrintNumber,
		Title:           p.Title,
		OldStatus:       old,
		NewStatus:       p.Status,
		StatusLabel:     p.Status.Label(),
		Progress:        p.Status.Progress(),
	}
}
