package finance

import (
	"context"
	"time"

	"github.com/agency/backend/internal/domain/customer"
	"github.com/agency/backend/internal/domain/finance"
	"github.com/agency/backend/internal/domain/settings"
	"github.com/agency/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InvoiceDocument is everything needed to render an invoice
type InvoiceDocument struct {
	Invoice  *finance.Invoice
	Customer *customer.Customer
	Company  *settings.CompanySettings
}

// InvoiceRenderer renders an invoice as a PDF
type InvoiceRenderer interface {
	RenderInvoicePDF(ctx context.Context, doc InvoiceDocument) ([]byte, error)
}

// InvoiceService handles invoice business operations
type InvoiceService struct {
	invoiceRepo    finance.InvoiceRepository
	customerRepo   customer.CustomerRepository
	settingsRepo   settings.CompanySettingsRepository
	numbers        shared.NumberGenerator
	txScope        TransactionScope
	renderer       InvoiceRenderer
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo finance.InvoiceRepository,
	customerRepo customer.CustomerRepository,
	settingsRepo settings.CompanySettingsRepository,
	numbers shared.NumberGenerator,
	txScope TransactionScope,
	logger *zap.Logger,
) *InvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		settingsRepo: settingsRepo,
		numbers:      numbers,
		txScope:      txScope,
		logger:       logger,
		now:          time.Now,
	}
}

// SetEventPublisher sets the event publisher
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetRenderer sets the PDF renderer. Without one, PDF requests fail.
func (s *InvoiceService) SetRenderer(renderer InvoiceRenderer) {
	s.renderer = renderer
}

// GenerateNumber issues the next INV-YYYY-NNNNN number
func (s *InvoiceService) GenerateNumber(ctx context.Context) (*NumberResponse, error) {
	number, err := s.numbers.Next(ctx, finance.InvoiceNumberPrefix, s.now())
	if err != nil {
		return nil, err
	}
	return &NumberResponse{Number: number}, nil
}

// Create creates a draft invoice
func (s *InvoiceService) Create(ctx context.Context, req InvoiceRequest) (*InvoiceResponse, error) {
	if _, err := s.customerRepo.FindByID(ctx, req.CustomerID); err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer does not exist")
		}
		return nil, err
	}

	issueDate := s.now()
	if req.IssueDate != nil && !req.IssueDate.IsZero() {
		issueDate = *req.IssueDate
	}
	if req.TaxRate == nil {
		rate, err := s.defaultTaxRate(ctx)
		if err != nil {
			return nil, err
		}
		req.TaxRate = &rate
	}

	number, err := s.numbers.Next(ctx, finance.InvoiceNumberPrefix, issueDate)
	if err != nil {
		return nil, err
	}
	invoice, err := finance.NewInvoice(number, req.CustomerID, issueDate)
	if err != nil {
		return nil, err
	}
	if err := applyInvoiceRequest(invoice, req, issueDate); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	return s.respond(invoice), nil
}

// GetByID retrieves an invoice by ID
func (s *InvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.respond(invoice), nil
}

// List retrieves invoices with filtering and pagination
func (s *InvoiceService) List(ctx context.Context, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	if filter.Status != "" && !finance.InvoiceStatus(filter.Status).IsValid() {
		return nil, 0, shared.NewDomainError("INVALID_STATUS", "Invalid invoice status: "+filter.Status)
	}
	domainFilter := shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.Status != "" {
		domainFilter.Filters[finance.FilterStatus] = filter.Status
	}
	if filter.CustomerID != nil {
		domainFilter.Filters[finance.FilterCustomerID] = *filter.CustomerID
	}
	if filter.OrderID != nil {
		domainFilter.Filters[finance.FilterOrderID] = *filter.OrderID
	}
	setDateRange(&domainFilter, filter.From, filter.To)

	invoices, err := s.invoiceRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.invoiceRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return s.respondAll(invoices), total, nil
}

// Overdue lists issued or partially paid invoices past their due date
func (s *InvoiceService) Overdue(ctx context.Context) ([]InvoiceResponse, error) {
	invoices, err := s.invoiceRepo.FindOverdue(ctx, s.now())
	if err != nil {
		return nil, err
	}
	return s.respondAll(invoices), nil
}

// Update replaces the content of a draft invoice
func (s *InvoiceService) Update(ctx context.Context, id uuid.UUID, req InvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Version != 0 && req.Version != invoice.Version {
		return nil, shared.ErrConcurrencyConflict
	}
	if req.CustomerID != invoice.CustomerID {
		return nil, shared.NewDomainError("INVALID_INPUT", "The customer of an invoice cannot change")
	}
	if req.TaxRate == nil {
		rate := invoice.TaxRate
		req.TaxRate = &rate
	}
	issueDate := invoice.IssueDate
	if req.IssueDate != nil && !req.IssueDate.IsZero() {
		issueDate = *req.IssueDate
	}
	if err := applyInvoiceRequest(invoice, req, issueDate); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}
	return s.respond(invoice), nil
}

// Issue finalizes a draft invoice and posts its accounting entry in the same transaction
func (s *InvoiceService) Issue(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	var invoice *finance.Invoice
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		invoice, err = repos.InvoiceRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := invoice.Issue(); err != nil {
			return err
		}
		if err := repos.InvoiceRepo().SaveWithLock(ctx, invoice); err != nil {
			return err
		}
		_, _, err = s.ensureAccountingEntry(ctx, repos, invoice)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := shared.PublishPending(ctx, s.eventPublisher, invoice); err != nil {
		s.logger.Warn("failed to publish invoice events", zap.String("invoice_id", id.String()), zap.Error(err))
	}
	return s.respond(invoice), nil
}

// CreateAccountingEntry posts Dr Receivable / Cr Revenue / Cr Tax Payable for
// an issued invoice. It is idempotent: an invoice gets at most one entry.
func (s *InvoiceService) CreateAccountingEntry(ctx context.Context, id uuid.UUID) (*AccountingEntryResponse, error) {
	var (
		entry   *finance.JournalEntry
		created bool
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoice, err := repos.InvoiceRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		entry, created, err = s.ensureAccountingEntry(ctx, repos, invoice)
		return err
	})
	if err != nil {
		return nil, err
	}
	response := &AccountingEntryResponse{Created: created}
	if entry != nil {
		journal := ToJournalEntryResponse(entry)
		response.Entry = &journal
	}
	return response, nil
}

func (s *InvoiceService) ensureAccountingEntry(ctx context.Context, repos TransactionalRepositories, invoice *finance.Invoice) (*finance.JournalEntry, bool, error) {
	if invoice.Status == finance.InvoiceStatusDraft || invoice.Status == finance.InvoiceStatusCancelled {
		return nil, false, shared.NewDomainError("INVALID_STATE", "Only issued invoices can be posted to the journal")
	}
	// every line would be zero
	if invoice.Total.IsZero() {
		return nil, false, nil
	}
	existing, err := repos.JournalRepo().FindByReference(ctx, finance.ReferenceTypeInvoice, invoice.ID)
	if err == nil {
		return existing, false, nil
	}
	if !shared.IsNotFound(err) {
		return nil, false, err
	}

	memo := "فاتورة " + invoice.InvoiceNumber
	date := invoice.IssueDate
	entry, err := postEntry(ctx, repos, date, memo, finance.ReferenceTypeInvoice, &invoice.ID, []lineSpec{
		debit(finance.AccountCodeAccountsReceivable, invoice.Total, memo),
		credit(finance.AccountCodeRevenue, invoice.NetRevenue(), memo),
		credit(finance.AccountCodeTaxPayable, invoice.TaxAmount, memo),
	})
	if err != nil {
		return nil, false, err
	}
	return entry, true, nil
}

// RecordPayment applies a payment to an issued invoice, moving it to
// partially_paid or paid. Cash postings happen when the payment is
// recorded against the order.
func (s *InvoiceService) RecordPayment(ctx context.Context, id uuid.UUID, req InvoicePaymentRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := invoice.RecordPayment(req.Amount); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}
	return s.respond(invoice), nil
}

// Cancel voids an unpaid invoice. An issued invoice's accounting entry is reversed.
func (s *InvoiceService) Cancel(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	var invoice *finance.Invoice
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		invoice, err = repos.InvoiceRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := invoice.Cancel(); err != nil {
			return err
		}
		if err := repos.InvoiceRepo().SaveWithLock(ctx, invoice); err != nil {
			return err
		}
		if invoice.Total.IsZero() {
			return nil
		}

		if _, err := repos.JournalRepo().FindByReference(ctx, finance.ReferenceTypeInvoice, invoice.ID); err != nil {
			if shared.IsNotFound(err) {
				return nil
			}
			return err
		}
		memo := "إلغاء فاتورة " + invoice.InvoiceNumber
		_, err = postEntry(ctx, repos, s.now(), memo, finance.ReferenceTypeInvoiceReversal, &invoice.ID, []lineSpec{
			debit(finance.AccountCodeRevenue, invoice.NetRevenue(), memo),
			debit(finance.AccountCodeTaxPayable, invoice.TaxAmount, memo),
			credit(finance.AccountCodeAccountsReceivable, invoice.Total, memo),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.respond(invoice), nil
}

// Delete deletes a draft invoice
func (s *InvoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if invoice.Status != finance.InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be deleted; cancel issued invoices instead")
	}
	return s.invoiceRepo.Delete(ctx, id)
}

// PDF renders the invoice and returns the file name to use
func (s *InvoiceService) PDF(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	if s.renderer == nil {
		return nil, "", shared.NewDomainError("PDF_UNAVAILABLE", "PDF rendering is not configured")
	}
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	c, err := s.customerRepo.FindByID(ctx, invoice.CustomerID)
	if err != nil {
		return nil, "", err
	}
	company, err := s.company(ctx)
	if err != nil {
		return nil, "", err
	}
	pdf, err := s.renderer.RenderInvoicePDF(ctx, InvoiceDocument{Invoice: invoice, Customer: c, Company: company})
	if err != nil {
		return nil, "", err
	}
	return pdf, invoice.InvoiceNumber + ".pdf", nil
}

func (s *InvoiceService) company(ctx context.Context) (*settings.CompanySettings, error) {
	company, err := s.settingsRepo.Get(ctx)
	if err != nil {
		if shared.IsNotFound(err) {
			return settings.DefaultCompanySettings(), nil
		}
		return nil, err
	}
	return company, nil
}

func (s *InvoiceService) defaultTaxRate(ctx context.Context) (decimal.Decimal, error) {
	company, err := s.company(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return company.DefaultTaxRate, nil
}

func (s *InvoiceService) respond(invoice *finance.Invoice) *InvoiceResponse {
	response := ToInvoiceResponse(invoice, s.now())
	return &response
}

func (s *InvoiceService) respondAll(invoices []finance.Invoice) []InvoiceResponse {
	now := s.now()
	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i], now)
	}
	return responses
}

func applyInvoiceRequest(invoice *finance.Invoice, req InvoiceRequest, issueDate time.Time) error {
	items := make([]finance.InvoiceItem, 0, len(req.Items))
	for _, in := range req.Items {
		item, err := finance.NewInvoiceItem(in.Description, in.Quantity, in.UnitPrice)
		if err != nil {
			return err
		}
		items = append(items, *item)
	}
	if err := invoice.SetDetails(req.OrderID, issueDate, req.DueDate, req.Notes); err != nil {
		return err
	}
	// clear the discount first so a smaller item set cannot trip the discount check
	if err := invoice.SetTerms(decimal.Zero, *req.TaxRate); err != nil {
		return err
	}
	if err := invoice.SetItems(items); err != nil {
		return err
	}
	return invoice.SetTerms(req.Discount, *req.TaxRate)
}
