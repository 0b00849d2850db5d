package integration

import (
	"context"
	"time"

	"github.com/agency/backend/internal/domain/integration"
	"github.com/agency/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TestEventType is the event name sent by webhook tests
const TestEventType = "webhook.test"

// WebhookService manages webhook settings and test deliveries
type WebhookService struct {
	webhookRepo integration.WebhookRepository
	sender      integration.WebhookSender
	timeout     time.Duration
	logger      *zap.Logger
	now         func() time.Time
}

// NewWebhookService creates a new WebhookService
func NewWebhookService(webhookRepo integration.WebhookRepository, sender integration.WebhookSender, timeout time.Duration, logger *zap.Logger) *WebhookService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookService{
		webhookRepo: webhookRepo,
		sender:      sender,
		timeout:     timeout,
		logger:      logger,
		now:         time.Now,
	}
}

// Events lists the events a webhook may subscribe to
func (s *WebhookService) Events() []EventInfo {
	names := integration.SupportedEvents()
	out := make([]EventInfo, len(names))
	for i, n := range names {
		out[i] = EventInfo{Name: n}
	}
	return out
}

// Create adds a webhook
func (s *WebhookService) Create(ctx context.Context, req WebhookRequest) (*WebhookResponse, error) {
	webhook, err := integration.NewWebhookSetting(req.Name, req.URL, req.Events, req.Secret)
	if err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		webhook.SetActive(*req.IsActive)
	}
	if err := s.webhookRepo.Save(ctx, webhook); err != nil {
		return nil, err
	}
	response := ToWebhookResponse(webhook)
	return &response, nil
}

// GetByID retrieves a webhook by ID
func (s *WebhookService) GetByID(ctx context.Context, id uuid.UUID) (*WebhookResponse, error) {
	webhook, err := s.webhookRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToWebhookResponse(webhook)
	return &response, nil
}

// List returns every webhook
func (s *WebhookService) List(ctx context.Context) ([]WebhookResponse, error) {
	webhooks, err := s.webhookRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]WebhookResponse, len(webhooks))
	for i := range webhooks {
		responses[i] = ToWebhookResponse(&webhooks[i])
	}
	return responses, nil
}

// Update replaces a webhook's configuration. An empty secret keeps the current one.
func (s *WebhookService) Update(ctx context.Context, id uuid.UUID, req WebhookRequest) (*WebhookResponse, error) {
	webhook, err := s.webhookRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	secret := req.Secret
	if secret == "" {
		secret = webhook.Secret
	}
	if err := webhook.Update(req.Name, req.URL, req.Events, secret); err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		webhook.SetActive(*req.IsActive)
	}
	if err := s.webhookRepo.Save(ctx, webhook); err != nil {
		return nil, err
	}
	response := ToWebhookResponse(webhook)
	return &response, nil
}

// SetActive enables or disables a webhook
func (s *WebhookService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*WebhookResponse, error) {
	webhook, err := s.webhookRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	webhook.SetActive(active)
	if err := s.webhookRepo.Save(ctx, webhook); err != nil {
		return nil, err
	}
	response := ToWebhookResponse(webhook)
	return &response, nil
}

// Delete removes a webhook
func (s *WebhookService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.webhookRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.webhookRepo.Delete(ctx, id)
}

// Test POSTs a sample payload and reports the outcome. A saved webhook has
// the result stored as its last delivery.
func (s *WebhookService) Test(ctx context.Context, req TestWebhookRequest) (*integration.DeliveryResult, error) {
	var (
		target  = req.URL
		secret  = req.Secret
		webhook *integration.WebhookSetting
	)
	if req.WebhookID != nil {
		found, err := s.webhookRepo.FindByID(ctx, *req.WebhookID)
		if err != nil {
			return nil, err
		}
		webhook = found
		target = found.URL
		secret = found.Secret
	}
	if target == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Either webhook_id or url is required")
	}
	if err := integration.ValidateURL(target); err != nil {
		return nil, err
	}

	now := s.now()
	payload := integration.Payload{
		Event:      TestEventType,
		OccurredAt: now,
		Data: map[string]any{
			"message": "اختبار الربط",
			"sent_at": now.Format(time.RFC3339),
		},
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	result := s.sender.Send(sendCtx, target, secret, payload)

	if webhook != nil {
		if err := s.webhookRepo.UpdateDeliveryStatus(ctx, webhook.ID, result, now); err != nil {
			s.logger.Warn("failed to store webhook test result", zap.String("webhook_id", webhook.ID.String()), zap.Error(err))
		}
	}
	s.logger.Info("webhook test delivered",
		zap.String("url", target),
		zap.Bool("success", result.Success),
		zap.Int("status_code", result.StatusCode),
		zap.Int64("duration_ms", result.DurationMS))
	return &result, nil
}
