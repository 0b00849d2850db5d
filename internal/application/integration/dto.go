package integration

import (
	"time"

	"github.com/agency/backend/internal/domain/integration"
	"github.com/google/uuid"
)

// WebhookRequest creates or updates a webhook
type WebhookRequest struct {
	Name     string   `json:"name" binding:"required,min=1,max=100"`
	URL      string   `json:"url" binding:"required,url,max=500"`
	Events   []string `json:"events" binding:"required,min=1"`
	Secret   string   `json:"secret" binding:"max=200"`
	IsActive *bool    `json:"is_active"`
}

// WebhookResponse represents a webhook in API responses. The secret itself
// is never returned.
type WebhookResponse struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	URL             string     `json:"url"`
	Events          []string   `json:"events"`
	IsActive        bool       `json:"is_active"`
	HasSecret       bool       `json:"has_secret"`
	LastTriggeredAt *time.Time `json:"last_triggered_at,omitempty"`
	LastStatusCode  int        `json:"last_status_code,omitempty"`
	LastError       string     `json:"last_error,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ToWebhookResponse converts a domain WebhookSetting to WebhookResponse
func ToWebhookResponse(w *integration.WebhookSetting) WebhookResponse {
	events := w.Events
	if events == nil {
		events = []string{}
	}
	return WebhookResponse{
		ID:              w.ID,
		Name:            w.Name,
		URL:             w.URL,
		Events:          events,
		IsActive:        w.IsActive,
		HasSecret:       w.Secret != "",
		LastTriggeredAt: w.LastTriggeredAt,
		LastStatusCode:  w.LastStatusCode,
		LastError:       w.LastError,
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       w.UpdatedAt,
	}
}

// TestWebhookRequest targets either a saved webhook or an ad-hoc URL
type TestWebhookRequest struct {
	WebhookID *uuid.UUID `json:"webhook_id"`
	URL       string     `json:"url" binding:"omitempty,url"`
	Secret    string     `json:"secret"`
}

// EventInfo describes a subscribable event
type EventInfo struct {
	Name string `json:"name"`
}
