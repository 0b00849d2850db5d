package finance

import (
	"time"

	"github.com/agency/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Payments
// =============================================================================

// RecordPaymentRequest records money received against an order
type RecordPaymentRequest struct {
	OrderID   uuid.UUID       `json:"order_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Method    string          `json:"method" binding:"omitempty,oneof=cash bank_transfer card cheque other"`
	PaidAt    *time.Time      `json:"paid_at"`
	Reference string          `json:"reference" binding:"max=100"`
	Notes     string          `json:"notes"`
}

// PaymentListFilter represents filter options for payment list
type PaymentListFilter struct {
	Search     string     `form:"search"`
	OrderID    *uuid.UUID `form:"order_id"`
	CustomerID *uuid.UUID `form:"customer_id"`
	Method     string     `form:"method"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size" binding:"omitempty,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID          uuid.UUID       `json:"id"`
	OrderID     uuid.UUID       `json:"order_id"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`
	MethodLabel string          `json:"method_label"`
	PaidAt      time.Time       `json:"paid_at"`
	Reference   string          `json:"reference"`
	Notes       string          `json:"notes"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToPaymentResponse converts a domain Payment to PaymentResponse
func ToPaymentResponse(p *finance.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          p.ID,
		OrderID:     p.OrderID,
		CustomerID:  p.CustomerID,
		Amount:      p.Amount,
		Method:      string(p.Method),
		MethodLabel: p.Method.Label(),
		PaidAt:      p.PaidAt,
		Reference:   p.Reference,
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt,
	}
}

// =============================================================================
// Invoices
// =============================================================================

// InvoiceItemInput is a line of an invoice request
type InvoiceItemInput struct {
	Description string          `json:"description" binding:"required,min=1,max=500"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// InvoiceRequest is the body of invoice create and update requests.
// A nil TaxRate uses the company's default tax rate on create.
type InvoiceRequest struct {
	CustomerID uuid.UUID          `json:"customer_id" binding:"required"`
	OrderID    *uuid.UUID         `json:"order_id"`
	Items      []InvoiceItemInput `json:"items" binding:"required,min=1,dive"`
	Discount   decimal.Decimal    `json:"discount"`
	TaxRate    *decimal.Decimal   `json:"tax_rate"`
	IssueDate  *time.Time         `json:"issue_date"`
	DueDate    *time.Time         `json:"due_date"`
	Notes      string             `json:"notes"`
	Version    int                `json:"version"`
}

// InvoicePaymentRequest applies a payment to an invoice
type InvoicePaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// InvoiceListFilter represents filter options for invoice list
type InvoiceListFilter struct {
	Search     string     `form:"search"`
	Status     string     `form:"status"`
	CustomerID *uuid.UUID `form:"customer_id"`
	OrderID    *uuid.UUID `form:"order_id"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size" binding:"omitempty,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// InvoiceItemResponse represents an invoice line in API responses
type InvoiceItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID              uuid.UUID             `json:"id"`
	InvoiceNumber   string                `json:"invoice_number"`
	CustomerID      uuid.UUID             `json:"customer_id"`
	OrderID         *uuid.UUID            `json:"order_id,omitempty"`
	Items           []InvoiceItemResponse `json:"items"`
	Subtotal        decimal.Decimal       `json:"subtotal"`
	Discount        decimal.Decimal       `json:"discount"`
	TaxRate         decimal.Decimal       `json:"tax_rate"`
	TaxAmount       decimal.Decimal       `json:"tax_amount"`
	Total           decimal.Decimal       `json:"total"`
	PaidAmount      decimal.Decimal       `json:"paid_amount"`
	RemainingAmount decimal.Decimal       `json:"remaining_amount"`
	Status          string                `json:"status"`
	StatusLabel     string                `json:"status_label"`
	IsOverdue       bool                  `json:"is_overdue"`
	IssueDate       time.Time             `json:"issue_date"`
	DueDate         *time.Time            `json:"due_date,omitempty"`
	IssuedAt        *time.Time            `json:"issued_at,omitempty"`
	Notes           string                `json:"notes"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
	Version         int                   `json:"version"`
}

// ToInvoiceResponse converts a domain Invoice to InvoiceResponse
func ToInvoiceResponse(inv *finance.Invoice, now time.Time) InvoiceResponse {
	items := make([]InvoiceItemResponse, len(inv.Items))
	for i, item := range inv.Items {
		items[i] = InvoiceItemResponse{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		}
	}
	return InvoiceResponse{
		ID:              inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		CustomerID:      inv.CustomerID,
		OrderID:         inv.OrderID,
		Items:           items,
		Subtotal:        inv.Subtotal,
		Discount:        inv.Discount,
		TaxRate:         inv.TaxRate,
		TaxAmount:       inv.TaxAmount,
		Total:           inv.Total,
		PaidAmount:      inv.PaidAmount,
		RemainingAmount: inv.RemainingAmount(),
		Status:          string(inv.Status),
		StatusLabel:     inv.Status.Label(),
		IsOverdue:       inv.IsOverdue(now),
		IssueDate:       inv.IssueDate,
		DueDate:         inv.DueDate,
		IssuedAt:        inv.IssuedAt,
		Notes:           inv.Notes,
		CreatedAt:       inv.CreatedAt,
		UpdatedAt:       inv.UpdatedAt,
		Version:         inv.Version,
	}
}

// =============================================================================
// Expenses
// =============================================================================

// ExpenseRequest is the body of expense create and update requests
type ExpenseRequest struct {
	Category    string          `json:"category" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	SpentAt     *time.Time      `json:"spent_at"`
	Description string          `json:"description" binding:"max=500"`
	Vendor      string          `json:"vendor" binding:"max=200"`
	AccountCode string          `json:"account_code" binding:"max=20"`
}

// ExpenseListFilter represents filter options for expense list
type ExpenseListFilter struct {
	Search   string     `form:"search"`
	Category string     `form:"category"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	Page     int        `form:"page"`
	PageSize int        `form:"page_size" binding:"omitempty,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID            uuid.UUID       `json:"id"`
	ExpenseNumber string          `json:"expense_number"`
	Category      string          `json:"category"`
	CategoryLabel string          `json:"category_label"`
	Amount        decimal.Decimal `json:"amount"`
	SpentAt       time.Time       `json:"spent_at"`
	Description   string          `json:"description"`
	Vendor        string          `json:"vendor"`
	AccountCode   string          `json:"account_code"`
	ReceiptKey    string          `json:"receipt_key,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToExpenseResponse converts a domain Expense to ExpenseResponse
func ToExpenseResponse(e *finance.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:            e.ID,
		ExpenseNumber: e.ExpenseNumber,
		Category:      string(e.Category),
		CategoryLabel: e.Category.Label(),
		Amount:        e.Amount,
		SpentAt:       e.SpentAt,
		Description:   e.Description,
		Vendor:        e.Vendor,
		AccountCode:   e.AccountCode,
		ReceiptKey:    e.ReceiptKey,
		CreatedAt:     e.CreatedAt,
	}
}

// =============================================================================
// Accounting
// =============================================================================

// CreateAccountRequest adds an account to the chart of accounts
type CreateAccountRequest struct {
	Code string `json:"code" binding:"required,min=1,max=20"`
	Name string `json:"name" binding:"required,min=1,max=200"`
	Type string `json:"type" binding:"required,oneof=asset liability equity revenue expense"`
}

// RenameAccountRequest renames an account
type RenameAccountRequest struct {
	Name string `json:"name" binding:"required,min=1,max=200"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID       uuid.UUID       `json:"id"`
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	Balance  decimal.Decimal `json:"balance"`
	IsSystem bool            `json:"is_system"`
}

// ToAccountResponse converts a domain Account to AccountResponse
func ToAccountResponse(a *finance.Account) AccountResponse {
	return AccountResponse{
		ID:       a.ID,
		Code:     a.Code,
		Name:     a.Name,
		Type:     string(a.Type),
		Balance:  a.Balance,
		IsSystem: a.IsSystem,
	}
}

// JournalLineInput is a line of a manual journal entry
type JournalLineInput struct {
	AccountCode string          `json:"account_code" binding:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// CreateJournalEntryRequest posts a manual journal entry
type CreateJournalEntryRequest struct {
	Date        *time.Time         `json:"date"`
	Description string             `json:"description" binding:"required,max=500"`
	Lines       []JournalLineInput `json:"lines" binding:"required,min=2,dive"`
}

// JournalListFilter represents filter options for the journal
type JournalListFilter struct {
	ReferenceType string     `form:"reference_type"`
	From          *time.Time `form:"from" time_format:"2006-01-02"`
	To            *time.Time `form:"to" time_format:"2006-01-02"`
	Page          int        `form:"page"`
	PageSize      int        `form:"page_size" binding:"omitempty,max=100"`
}

// JournalLineResponse represents a journal line in API responses
type JournalLineResponse struct {
	AccountID   uuid.UUID       `json:"account_id"`
	AccountCode string          `json:"account_code"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// JournalEntryResponse represents a journal entry in API responses
type JournalEntryResponse struct {
	ID            uuid.UUID             `json:"id"`
	EntryNumber   string                `json:"entry_number"`
	Date          time.Time             `json:"date"`
	Description   string                `json:"description"`
	ReferenceType string                `json:"reference_type"`
	ReferenceID   *uuid.UUID            `json:"reference_id,omitempty"`
	Lines         []JournalLineResponse `json:"lines"`
	TotalDebit    decimal.Decimal       `json:"total_debit"`
	TotalCredit   decimal.Decimal       `json:"total_credit"`
	CreatedAt     time.Time             `json:"created_at"`
}

// ToJournalEntryResponse converts a domain JournalEntry to JournalEntryResponse
func ToJournalEntryResponse(e *finance.JournalEntry) JournalEntryResponse {
	lines := make([]JournalLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = JournalLineResponse{
			AccountID:   l.AccountID,
			AccountCode: l.AccountCode,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
		}
	}
	debitTotal, creditTotal := e.Totals()
	return JournalEntryResponse{
		ID:            e.ID,
		EntryNumber:   e.EntryNumber,
		Date:          e.Date,
		Description:   e.Description,
		ReferenceType: e.ReferenceType,
		ReferenceID:   e.ReferenceID,
		Lines:         lines,
		TotalDebit:    debitTotal,
		TotalCredit:   creditTotal,
		CreatedAt:     e.CreatedAt,
	}
}

// NumberResponse carries a generated document number
type NumberResponse struct {
	Number string `json:"number"`
}

// AccountingEntryResponse is the result of create_invoice_accounting_entry.
// Entry is nil for a zero-total invoice, which posts nothing.
type AccountingEntryResponse struct {
	Created bool                  `json:"created"`
	Entry   *JournalEntryResponse `json:"entry,omitempty"`
}
