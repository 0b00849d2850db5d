package printing

import (
	"context"
	"errors"
	"time"

	appfinance "github.com/agency/backend/internal/application/finance"
	"github.com/agency/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// invoiceView is the data bound to the invoice template
type invoiceView struct {
	Number      string
	StatusLabel string
	IssueDate   time.Time
	DueDate     *time.Time
	Currency    string
	LogoURL     string
	Company     partyView
	Customer    partyView
	Items       []itemView
	Subtotal    decimal.Decimal
	Discount    decimal.Decimal
	TaxRate     decimal.Decimal
	TaxAmount   decimal.Decimal
	Total       decimal.Decimal
	Paid        decimal.Decimal
	Remaining   decimal.Decimal
	Notes       string
}

type partyView struct {
	Name      string
	Company   string
	Phone     string
	Email     string
	Address   string
	TaxNumber string
}

type itemView struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal
}

// InvoicePDFRenderer renders invoices to PDF
type InvoicePDFRenderer struct {
	engine *TemplateEngine
	pdf    PDFRenderer
	assets shared.ObjectStorage
	logger *zap.Logger
}

// NewInvoicePDFRenderer creates a new InvoicePDFRenderer. assets is used to
// link the company logo and may be nil.
func NewInvoicePDFRenderer(engine *TemplateEngine, pdf PDFRenderer, assets shared.ObjectStorage, logger *zap.Logger) *InvoicePDFRenderer {
	if engine == nil {
		engine = NewTemplateEngine()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoicePDFRenderer{engine: engine, pdf: pdf, assets: assets, logger: logger}
}

// RenderInvoiceHTML renders the invoice document as HTML
func (r *InvoicePDFRenderer) RenderInvoiceHTML(ctx context.Context, doc appfinance.InvoiceDocument) (string, error) {
	if doc.Invoice == nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "invoice is nil", nil)
	}
	return r.engine.RenderString("invoice", invoiceTemplate, r.view(ctx, doc))
}

// RenderInvoicePDF renders the invoice document as an A4 PDF
func (r *InvoicePDFRenderer) RenderInvoicePDF(ctx context.Context, doc appfinance.InvoiceDocument) ([]byte, error) {
	if r.pdf == nil {
		return nil, errors.New("PDF renderer is not configured")
	}
	html, err := r.RenderInvoiceHTML(ctx, doc)
	if err != nil {
		return nil, err
	}
	result, err := r.pdf.Render(ctx, &RenderRequest{
		HTML:       html,
		Margins:    DefaultMargins(),
		Title:      doc.Invoice.InvoiceNumber,
		FooterHTML: invoiceFooter,
	})
	if err != nil {
		return nil, err
	}
	return result.PDFData, nil
}

func (r *InvoicePDFRenderer) view(ctx context.Context, doc appfinance.InvoiceDocument) invoiceView {
	inv := doc.Invoice
	v := invoiceView{
		Number:      inv.InvoiceNumber,
		StatusLabel: inv.Status.Label(),
		IssueDate:   inv.IssueDate,
		DueDate:     inv.DueDate,
		Subtotal:    inv.Subtotal,
		Discount:    inv.Discount,
		TaxRate:     inv.TaxRate,
		TaxAmount:   inv.TaxAmount,
		Total:       inv.Total,
		Paid:        inv.PaidAmount,
		Remaining:   inv.RemainingAmount(),
		Notes:       inv.Notes,
	}
	for _, it := range inv.Items {
		v.Items = append(v.Items, itemView{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Amount:      it.Amount,
		})
	}
	if c := doc.Customer; c != nil {
		v.Customer = partyView{
			Name:    c.Name,
			Company: c.Company,
			Phone:   c.Phone,
			Email:   c.Email,
			Address: c.Address,
		}
	}
	if s := doc.Company; s != nil {
		v.Currency = s.Currency
		v.Company = partyView{
			Name:      s.CompanyName,
			Phone:     s.Phone,
			Email:     s.Email,
			Address:   s.Address,
			TaxNumber: s.TaxNumber,
		}
		if s.LogoKey != "" && r.assets != nil {
			url, _, err := r.assets.DownloadURL(ctx, s.LogoKey)
			if err != nil {
				r.logger.Warn("invoice logo unavailable", zap.String("key", s.LogoKey), zap.Error(err))
			} else {
				v.LogoURL = url
			}
		}
	}
	return v
}

var _ appfinance.InvoiceRenderer = (*InvoicePDFRenderer)(nil)
