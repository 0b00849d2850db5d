package functions

import (
	"context"
	"encoding/json"

	"github.com/agency/backend/internal/application/crm"
	"github.com/agency/backend/internal/application/finance"
	"github.com/agency/backend/internal/application/integration"
	domainIntegration "github.com/agency/backend/internal/domain/integration"
	"github.com/google/uuid"
)

// Names of the built-in functions
const (
	GenerateInvoiceNumber        = "generate_invoice_number"
	GenerateExpenseNumber        = "generate_expense_number"
	CreateInvoiceAccountingEntry = "create_invoice_accounting_entry"
	SendGoogleReviewRequest      = "send-google-review-request"
	WebhookTest                  = "webhook-test"
)

// NumberGenerator issues the next document number of one kind
type NumberGenerator interface {
	GenerateNumber(ctx context.Context) (*finance.NumberResponse, error)
}

// InvoiceAccounting posts the journal entry of an issued invoice
type InvoiceAccounting interface {
	CreateAccountingEntry(ctx context.Context, id uuid.UUID) (*finance.AccountingEntryResponse, error)
}

// ReviewRequester sends a Google review request to a customer
type ReviewRequester interface {
	RequestReview(ctx context.Context, req crm.ReviewRequest) (*crm.ReviewRequestResponse, error)
}

// WebhookTester sends a sample delivery to a webhook
type WebhookTester interface {
	Test(ctx context.Context, req integration.TestWebhookRequest) (*domainIntegration.DeliveryResult, error)
}

// Services are the application services behind the built-in functions.
// A nil service leaves its function unregistered.
type Services struct {
	Invoices InvoiceNumbersAndAccounting
	Expenses NumberGenerator
	Reviews  ReviewRequester
	Webhooks WebhookTester
}

// InvoiceNumbersAndAccounting is implemented by the invoice service
type InvoiceNumbersAndAccounting interface {
	NumberGenerator
	InvoiceAccounting
}

// InvoiceAccountingInput is the input of create_invoice_accounting_entry
type InvoiceAccountingInput struct {
	InvoiceID uuid.UUID `json:"invoice_id" binding:"required"`
}

// RegisterBuiltins registers every built-in function whose service is set
func (r *Registry) RegisterBuiltins(s Services) {
	if s.Invoices != nil {
		r.Register(GenerateInvoiceNumber, func(ctx context.Context, _ json.RawMessage) (any, error) {
			return s.Invoices.GenerateNumber(ctx)
		})
		r.Register(CreateInvoiceAccountingEntry, func(ctx context.Context, input json.RawMessage) (any, error) {
			var in InvoiceAccountingInput
			if err := r.decode(input, &in); err != nil {
				return nil, err
			}
			return s.Invoices.CreateAccountingEntry(ctx, in.InvoiceID)
		})
	}
	if s.Expenses != nil {
		r.Register(GenerateExpenseNumber, func(ctx context.Context, _ json.RawMessage) (any, error) {
			return s.Expenses.GenerateNumber(ctx)
		})
	}
	if s.Reviews != nil {
		r.Register(SendGoogleReviewRequest, func(ctx context.Context, input json.RawMessage) (any, error) {
			var in crm.ReviewRequest
			if err := r.decode(input, &in); err != nil {
				return nil, err
			}
			return s.Reviews.RequestReview(ctx, in)
		})
	}
	if s.Webhooks != nil {
		r.Register(WebhookTest, func(ctx context.Context, input json.RawMessage) (any, error) {
			var in integration.TestWebhookRequest
			if err := r.decode(input, &in); err != nil {
				return nil, err
			}
			return s.Webhooks.Test(ctx, in)
		})
	}
}
