// Package webhook delivers event payloads to customer-configured HTTP endpoints.
package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/agency/backend/internal/domain/integration"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const (
	// SignatureHeader carries the HMAC-SHA256 of the request body
	SignatureHeader = "X-Webhook-Signature"
	// EventHeader repeats the event name for receivers that route on headers
	EventHeader = "X-Webhook-Event"

	userAgent = "agency-webhooks/1.0"
)

// HTTPSender posts webhook payloads as JSON, one attempt per call
type HTTPSender struct {
	client *http.Client
	logger *zap.Logger
	now    func() time.Time
}

// Option configures an HTTPSender
type Option func(*HTTPSender)

// WithHTTPClient replaces the underlying client
func WithHTTPClient(client *http.Client) Option {
	return func(s *HTTPSender) {
		if client != nil {
			s.client = client
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *HTTPSender) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewHTTPSender creates an HTTPSender. timeout bounds a single request on top
// of whatever deadline the caller's context carries.
func NewHTTPSender(timeout time.Duration, opts ...Option) *HTTPSender {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	s := &HTTPSender{
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sign returns the signature header value for body
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// Send posts payload to targetURL. Success means a 2xx answer; transport
// failures and other status codes are reported in the result, not returned.
func (s *HTTPSender) Send(ctx context.Context, targetURL, secret string, payload integration.Payload) integration.DeliveryResult {
	start := s.now()
	result := integration.DeliveryResult{}
	finish := func() integration.DeliveryResult {
		result.DurationMS = s.now().Sub(start).Milliseconds()
		return result
	}

	body, err := json.Marshal(payload)
	if err != nil {
		result.Error = fmt.Sprintf("encode payload: %v", err)
		return finish()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, targetURL, bytes.NewReader(body))
	if err != nil {
		result.Error = fmt.Sprintf("build request: %v", err)
		return finish()
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(EventHeader, payload.Event)
	if secret != "" {
		req.Header.Set(SignatureHeader, Sign(secret, body))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		result.Error = err.Error()
		s.logger.Debug("webhook request failed", zap.String("url", targetURL), zap.Error(err))
		return finish()
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	result.StatusCode = resp.StatusCode
	result.Success = resp.StatusCode >= 200 && resp.StatusCode < 300
	if !result.Success {
		result.Error = fmt.Sprintf("unexpected status %d", resp.StatusCode)
	}
	return finish()
}

var _ integration.WebhookSender = (*HTTPSender)(nil)
