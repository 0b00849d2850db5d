package integration

import (
	"context"
	"sync"
	"time"

	"github.com/agency/backend/internal/domain/integration"
	"github.com/agency/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// WebhookDispatcher forwards bus events to subscribed webhooks. Each
// delivery is attempted once in its own goroutine; outcomes are logged and
// stored on the webhook, never retried.
type WebhookDispatcher struct {
	webhookRepo integration.WebhookRepository
	sender      integration.WebhookSender
	timeout     time.Duration
	logger      *zap.Logger

	mu   sync.RWMutex
	base context.Context
	wg   sync.WaitGroup
}

// NewWebhookDispatcher creates a new WebhookDispatcher
func NewWebhookDispatcher(webhookRepo integration.WebhookRepository, sender integration.WebhookSender, timeout time.Duration, logger *zap.Logger) *WebhookDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookDispatcher{
		webhookRepo: webhookRepo,
		sender:      sender,
		timeout:     timeout,
		logger:      logger,
		base:        context.Background(),
	}
}

// Bind ties in-flight deliveries to ctx; cancelling it aborts them.
func (d *WebhookDispatcher) Bind(ctx context.Context) {
	d.mu.Lock()
	d.base = ctx
	d.mu.Unlock()
}

// Wait blocks until every started delivery has finished
func (d *WebhookDispatcher) Wait() {
	d.wg.Wait()
}

// EventTypes returns the event types this handler is interested in
func (d *WebhookDispatcher) EventTypes() []string {
	return integration.SupportedEvents()
}

// Handle looks up the webhooks subscribed to the event and starts one
// delivery per webhook. It does not wait for the deliveries.
func (d *WebhookDispatcher) Handle(ctx context.Context, event shared.DomainEvent) error {
	webhooks, err := d.webhookRepo.FindActiveByEvent(ctx, event.EventType())
	if err != nil {
		return err
	}
	if len(webhooks) == 0 {
		return nil
	}

	payload := integration.Payload{
		Event:      event.EventType(),
		OccurredAt: event.OccurredAt(),
		Data:       event,
	}

	d.mu.RLock()
	base := d.base
	d.mu.RUnlock()

	for i := range webhooks {
		webhook := webhooks[i]
		if !webhook.Subscribes(event.EventType()) {
			continue
		}
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.deliver(base, webhook, payload)
		}()
	}
	return nil
}

func (d *WebhookDispatcher) deliver(base context.Context, webhook integration.WebhookSetting, payload integration.Payload) {
	ctx, cancel := context.WithTimeout(base, d.timeout)
	defer cancel()

	result := d.sender.Send(ctx, webhook.URL, webhook.Secret, payload)

	fields := []zap.Field{
		zap.String("webhook_id", webhook.ID.String()),
		zap.String("event", payload.Event),
		zap.Int("status_code", result.StatusCode),
		zap.Int64("duration_ms", result.DurationMS),
	}
	if result.Success {
		d.logger.Info("webhook delivered", fields...)
	} else {
		d.logger.Warn("webhook delivery failed", append(fields, zap.String("error", result.Error))...)
	}

	// status is stored even after base is cancelled
	statusCtx, statusCancel := context.WithTimeout(context.WithoutCancel(base), 5*time.Second)
	defer statusCancel()
	if err := d.webhookRepo.UpdateDeliveryStatus(statusCtx, webhook.ID, result, time.Now()); err != nil {
		d.logger.Warn("failed to store webhook delivery status", zap.String("webhook_id", webhook.ID.String()), zap.Error(err))
	}
}
