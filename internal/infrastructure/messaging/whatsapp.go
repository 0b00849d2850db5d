package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/agency/backend/internal/domain/crm"
	"github.com/agency/backend/internal/domain/settings"
	"github.com/agency/backend/internal/domain/shared"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// whatsAppRequest is the body posted to the gateway
type whatsAppRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// WhatsAppSender posts messages to an HTTP WhatsApp gateway. The gateway
// URL is read from company settings on each send and falls back to the
// configured URL.
type WhatsAppSender struct {
	client      *http.Client
	settings    settings.CompanySettingsRepository
	fallbackURL string
	token       string
	logger      *zap.Logger
}

// NewWhatsAppSender creates a WhatsAppSender
func NewWhatsAppSender(
	settingsRepo settings.CompanySettingsRepository,
	fallbackURL, token string,
	timeout time.Duration,
	logger *zap.Logger,
) *WhatsAppSender {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WhatsAppSender{
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		settings:    settingsRepo,
		fallbackURL: fallbackURL,
		token:       token,
		logger:      logger,
	}
}

func (s *WhatsAppSender) gatewayURL(ctx context.Context) (string, error) {
	if s.settings != nil {
		cs, err := s.settings.Get(ctx)
		switch {
		case err == nil && strings.TrimSpace(cs.WhatsAppGatewayURL) != "":
			return strings.TrimSpace(cs.WhatsAppGatewayURL), nil
		case err != nil && !shared.IsNotFound(err):
			return "", err
		}
	}
	if s.fallbackURL == "" {
		return "", errors.New("WhatsApp gateway URL is not configured")
	}
	return s.fallbackURL, nil
}

// Send posts msg to the gateway. Any non-2xx answer is an error.
func (s *WhatsAppSender) Send(ctx context.Context, msg crm.Message) error {
	if msg.Channel != crm.ChannelWhatsApp {
		return fmt.Errorf("whatsapp sender cannot deliver %s messages", msg.Channel)
	}
	phone := shared.CleanPhoneNumber(msg.To)
	if phone == "" {
		return errors.New("whatsapp recipient is empty")
	}

	url, err := s.gatewayURL(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(whatsAppRequest{Phone: phone, Message: msg.Body})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("invalid WhatsApp gateway URL: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("WhatsApp gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("WhatsApp gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	s.logger.Debug("whatsapp message sent", zap.String("to", phone))
	return nil
}

var _ crm.MessageSender = (*WhatsAppSender)(nil)
