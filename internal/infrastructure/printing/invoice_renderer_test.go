package printing

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	appfinance "github.com/agency/backend/internal/application/finance"
	"github.com/agency/backend/internal/domain/customer"
	"github.com/agency/backend/internal/domain/finance"
	"github.com/agency/backend/internal/domain/settings"
	"github.com/agency/backend/internal/infrastructure/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPDFRenderer struct {
	mock.Mock
}

func (m *MockPDFRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RenderResult), args.Error(1)
}

func (m *MockPDFRenderer) Close() error {
	return m.Called().Error(0)
}

func newTestInvoiceDocument(t *testing.T) appfinance.InvoiceDocument {
	t.Helper()
	c, err := customer.NewCustomer(customer.CustomerDetails{
		Name:    "Sara Ahmed",
		Phone:   "0501234567",
		Company: "Ahmed Trading",
	})
	require.NoError(t, err)

	inv, err := finance.NewInvoice("INV-2025-00001", c.ID, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	item, err := finance.NewInvoiceItem("Roll-up banner", decimal.NewFromInt(2), decimal.NewFromInt(500))
	require.NoError(t, err)
	require.NoError(t, inv.SetItems([]finance.InvoiceItem{*item}))
	require.NoError(t, inv.SetTerms(decimal.NewFromInt(50), decimal.NewFromInt(15)))

	company := settings.DefaultCompanySettings()
	company.CompanyName = "Bright Signs"
	company.TaxNumber = "300000000000003"

	return appfinance.InvoiceDocument{Invoice: inv, Customer: c, Company: company}
}

func TestInvoicePDFRenderer_RenderInvoiceHTML(t *testing.T) {
	r := NewInvoicePDFRenderer(nil, nil, nil, nil)
	doc := newTestInvoiceDocument(t)

	html, err := r.RenderInvoiceHTML(context.Background(), doc)
	require.NoError(t, err)

	assert.Contains(t, html, "INV-2025-00001")
	assert.Contains(t, html, "Bright Signs")
	assert.Contains(t, html, "300000000000003")
	assert.Contains(t, html, "Sara Ahmed")
	assert.Contains(t, html, "Roll-up banner")
	assert.Contains(t, html, "SAR 1,000.00", "subtotal")
	assert.Contains(t, html, "SAR 50.00", "discount")
	assert.Contains(t, html, "SAR 142.50", "tax")
	assert.Contains(t, html, "SAR 1,092.50", "total")
	assert.Contains(t, html, "2025-03-10")
	assert.Contains(t, html, doc.Invoice.Status.Label())
	assert.NotContains(t, html, "<img")
}

func TestInvoicePDFRenderer_Logo(t *testing.T) {
	assets := storage.NewMemoryObjectStorage("company-assets")
	require.NoError(t, assets.Upload(context.Background(), "logo/1.png", "image/png", strings.NewReader("png"), 3))

	doc := newTestInvoiceDocument(t)
	doc.Company.LogoKey = "logo/1.png"

	html, err := NewInvoicePDFRenderer(nil, nil, assets, nil).RenderInvoiceHTML(context.Background(), doc)
	require.NoError(t, err)
	assert.Contains(t, html, `<img src="https://storage.example.com/company-assets/logo/1.png`)

	t.Run("missing logo is skipped", func(t *testing.T) {
		doc.Company.LogoKey = "logo/missing.png"
		html, err := NewInvoicePDFRenderer(nil, nil, assets, nil).RenderInvoiceHTML(context.Background(), doc)
		require.NoError(t, err)
		assert.NotContains(t, html, "<img")
	})
}

func TestInvoicePDFRenderer_RenderInvoicePDF(t *testing.T) {
	doc := newTestInvoiceDocument(t)

	t.Run("passes html to the pdf renderer", func(t *testing.T) {
		pdf := new(MockPDFRenderer)
		pdf.On("Render", mock.Anything, mock.MatchedBy(func(req *RenderRequest) bool {
			return req.Title == "INV-2025-00001" &&
				strings.Contains(req.HTML, "Roll-up banner") &&
				req.FooterHTML != ""
		})).Return(&RenderResult{PDFData: []byte("%PDF"), PageCount: 1}, nil)

		data, err := NewInvoicePDFRenderer(nil, pdf, nil, nil).RenderInvoicePDF(context.Background(), doc)
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF"), data)
		pdf.AssertExpectations(t)
	})

	t.Run("propagates render errors", func(t *testing.T) {
		pdf := new(MockPDFRenderer)
		pdf.On("Render", mock.Anything, mock.Anything).Return(nil, errors.New("chrome gone"))

		_, err := NewInvoicePDFRenderer(nil, pdf, nil, nil).RenderInvoicePDF(context.Background(), doc)
		assert.EqualError(t, err, "chrome gone")
	})

	t.Run("no pdf renderer", func(t *testing.T) {
		_, err := NewInvoicePDFRenderer(nil, nil, nil, nil).RenderInvoicePDF(context.Background(), doc)
		assert.Error(t, err)
	})

	t.Run("nil invoice", func(t *testing.T) {
		pdf := new(MockPDFRenderer)
		_, err := NewInvoicePDFRenderer(nil, pdf, nil, nil).RenderInvoicePDF(context.Background(), appfinance.InvoiceDocument{})
		assert.Error(t, err)
		pdf.AssertNotCalled(t, "Render", mock.Anything, mock.Anything)
	})
}
