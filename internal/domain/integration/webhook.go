package integration

import (
	"net/url"
	"strings"
	"time"

	"github.com/agency/backend/internal/domain/shared"
)

// Webhook event names. They match the event types published on the bus.
const (
	EventOrderCreated            = "order.created"
	EventOrderStatusChanged      = "order.status_changed"
	EventPaymentReceived         = "payment.received"
	EventInvoiceIssued           = "invoice.issued"
	EventPrintOrderStatusChanged = "print_order.status_changed"
	EventEvaluationSubmitted     = "evaluation.submitted"
	EventCampaignCompleted       = "campaign.completed"
)

// SupportedEvents returns every event a webhook may subscribe to
func SupportedEvents() []string {
	return []string{
		EventOrderCreated,
		EventOrderStatusChanged,
		EventPaymentReceived,
		EventInvoiceIssued,
		EventPrintOrderStatusChanged,
		EventEvaluationSubmitted,
		EventCampaignCompleted,
	}
}

// IsSupportedEvent checks whether name is a known webhook event
func IsSupportedEvent(name string) bool {
	for _, e := range SupportedEvents() {
		if e == name {
			return true
		}
	}
	return false
}

// WebhookSetting is a user-configured outbound notification target
type WebhookSetting struct {
	shared.BaseEntity
	Name            string
	URL             string
	Events          []string
	IsActive        bool
	Secret          string
	LastTriggeredAt *time.Time
	LastStatusCode  int
	LastError       string
}

// NewWebhookSetting creates a new active webhook
func NewWebhookSetting(name, rawURL string, events []string, secret string) (*WebhookSetting, error) {
	w := &WebhookSetting{BaseEntity: shared.NewBaseEntity(), IsActive: true}
	if err := w.Update(name, rawURL, events, secret); err != nil {
		return nil, err
	}
	return w, nil
}

// Update replaces the webhook's configuration
func (w *WebhookSetting) Update(name, rawURL string, events []string, secret string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Webhook name cannot be empty")
	}
	if err := ValidateURL(rawURL); err != nil {
		return err
	}
	if len(events) == 0 {
		return shared.NewDomainError("INVALID_EVENTS", "Webhook must subscribe to at least one event")
	}
	seen := make(map[string]bool, len(events))
	unique := make([]string, 0, len(events))
	for _, e := range events {
		if !IsSupportedEvent(e) {
			return shared.NewDomainError("INVALID_EVENTS", "Unsupported webhook event: "+e)
		}
		if !seen[e] {
			seen[e] = true
			unique = append(unique, e)
		}
	}

	w.Name = name
	w.URL = strings.TrimSpace(rawURL)
	w.Events = unique
	w.Secret = secret
	w.Touch()
	return nil
}

// SetActive enables or disables deliveries
func (w *WebhookSetting) SetActive(active bool) {
	w.IsActive = active
	w.Touch()
}

// Subscribes reports whether an active webhook wants the event
func (w *WebhookSetting) Subscribes(eventType string) bool {
	if !w.IsActive {
		return false
	}
	for _, e := range w.Events {
		if e == eventType {
			return true
		}
	}
	return false
}

// RecordDelivery stores the outcome of the latest delivery
func (w *WebhookSetting) RecordDelivery(result DeliveryResult, at time.Time) {
	w.LastTriggeredAt = &at
	w.LastStatusCode = result.StatusCode
	w.LastError = result.Error
}

// ValidateURL checks that rawURL is an absolute http(s) URL
func ValidateURL(rawURL string) error {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return shared.NewDomainError("INVALID_URL", "Webhook URL must be an absolute URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return shared.NewDomainError("INVALID_URL", "Webhook URL must use http or https")
	}
	return nil
}

// DeliveryResult is the outcome of one webhook POST
type DeliveryResult struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"status_code"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// Payload is the JSON body POSTed to webhook URLs
type Payload struct {
	Event      string    `json:"event"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}
