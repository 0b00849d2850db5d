// Package notification pushes domain events to connected dashboard clients
// over websockets, where they are shown as toasts.
package notification

import (
	"time"

	"github.com/agency/backend/internal/domain/crm"
	"github.com/agency/backend/internal/domain/finance"
	"github.com/agency/backend/internal/domain/printing"
	"github.com/agency/backend/internal/domain/shared"
	"github.com/agency/backend/internal/domain/trade"
	"github.com/google/uuid"
)

// Notification is the message written to every client
type Notification struct {
	Seq         int64     `json:"seq"`
	Event       string    `json:"event"`
	Title       string    `json:"title"`
	AggregateID string    `json:"aggregate_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
	Data        any       `json:"data,omitempty"`
}

var titles = map[string]string{
	trade.EventTypeOrderCreated:               "تم إنشاء طلب جديد",
	trade.EventTypeOrderStatusChanged:         "تم تحديث حالة الطلب",
	finance.EventTypePaymentReceived:          "تم استلام دفعة",
	finance.EventTypeInvoiceIssued:            "تم إصدار فاتورة",
	finance.EventTypeExpenseRecorded:          "تم تسجيل مصروف",
	printing.EventTypePrintOrderStatusChanged: "تم تحديث حالة أمر الطباعة",
	crm.EventTypeEvaluationSubmitted:          "تم استلام تقييم جديد",
	crm.EventTypeCampaignCompleted:            "اكتملت حملة الرسائل",
}

// Title returns the toast title for an event type, or the type itself
func Title(eventType string) string {
	if t, ok := titles[eventType]; ok {
		return t
	}
	return eventType
}

// FromEvent builds the notification for a domain event
func FromEvent(event shared.DomainEvent) Notification {
	n := Notification{
		Event:      event.EventType(),
		Title:      Title(event.EventType()),
		OccurredAt: event.OccurredAt(),
		Data:       event,
	}
	if id := event.AggregateID(); id != uuid.Nil {
		n.AggregateID = id.String()
	}
	return n
}
