// Package messaging delivers customer messages over email and WhatsApp.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/agency/backend/internal/domain/crm"
	"github.com/resend/resend-go/v3"
	"go.uber.org/zap"
)

// emailAPI is the part of the Resend client used here
type emailAPI interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// EmailSender sends messages through the Resend API
type EmailSender struct {
	emails   emailAPI
	from     string
	fromName func(ctx context.Context) string
	logger   *zap.Logger
}

// NewEmailSender creates an EmailSender. fromName, when set, supplies the
// display name of the sender, usually the company name.
func NewEmailSender(apiKey, from string, fromName func(ctx context.Context) string, logger *zap.Logger) *EmailSender {
	return newEmailSender(resend.NewClient(apiKey).Emails, from, fromName, logger)
}

func newEmailSender(emails emailAPI, from string, fromName func(ctx context.Context) string, logger *zap.Logger) *EmailSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmailSender{emails: emails, from: from, fromName: fromName, logger: logger}
}

// Send delivers msg as a plain text email with an HTML alternative
func (s *EmailSender) Send(ctx context.Context, msg crm.Message) error {
	if msg.Channel != crm.ChannelEmail {
		return fmt.Errorf("email sender cannot deliver %s messages", msg.Channel)
	}
	if strings.TrimSpace(msg.To) == "" {
		return errors.New("email recipient is empty")
	}

	from := s.from
	if s.fromName != nil {
		if name := strings.TrimSpace(s.fromName(ctx)); name != "" {
			from = fmt.Sprintf("%s <%s>", name, s.from)
		}
	}

	params := &resend.SendEmailRequest{
		From:    from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Text:    msg.Body,
		Html:    textToHTML(msg.Body),
	}

	resp, err := s.emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	id := ""
	if resp != nil {
		id = resp.Id
	}
	s.logger.Debug("email sent", zap.String("to", msg.To), zap.String("resend_id", id))
	return nil
}

// textToHTML escapes text and keeps its line breaks
func textToHTML(text string) string {
	escaped := html.EscapeString(text)
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	return `<div dir="auto" style="font-family:Arial,Helvetica,sans-serif;font-size:15px;line-height:1.6;">` +
		strings.ReplaceAll(escaped, "\n", "<br>") + `</div>`
}

var _ crm.MessageSender = (*EmailSender)(nil)
