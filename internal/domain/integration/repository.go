package integration

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// WebhookRepository defines the interface for webhook persistence
type WebhookRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*WebhookSetting, error)
	FindAll(ctx context.Context) ([]WebhookSetting, error)
	// FindActiveByEvent returns active webhooks subscribed to eventType
	FindActiveByEvent(ctx context.Context, eventType string) ([]WebhookSetting, error)
	Save(ctx context.Context, webhook *WebhookSetting) error
	Delete(ctx context.Context, id uuid.UUID) error
	// UpdateDeliveryStatus stores the last delivery outcome without touching configuration
	UpdateDeliveryStatus(ctx context.Context, id uuid.UUID, result DeliveryResult, at time.Time) error
}

// WebhookSender performs a single HTTP delivery
type WebhookSender interface {
	Send(ctx context.Context, targetURL, secret string, payload Payload) DeliveryResult
}
