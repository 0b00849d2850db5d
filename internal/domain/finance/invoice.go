package finance

import (
	"strings"
	"time"

	"github.com/agency/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceNumberPrefix is the prefix of generated invoice numbers
const InvoiceNumberPrefix = "INV"

var hundred = decimal.NewFromInt(100)

// InvoiceStatus represents the status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "draft"
	InvoiceStatusIssued        InvoiceStatus = "issued"
	InvoiceStatusPartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceStatusPaid          InvoiceStatus = "paid"
	InvoiceStatusCancelled     InvoiceStatus = "cancelled"
)

var invoiceStatusLabels = map[InvoiceStatus]string{
	InvoiceStatusDraft:         "مسودة",
	InvoiceStatusIssued:        "صادرة",
	InvoiceStatusPartiallyPaid: "مدفوعة جزئياً",
	InvoiceStatusPaid:          "مدفوعة",
	InvoiceStatusCancelled:     "ملغاة",
}

// AllInvoiceStatuses returns every invoice status
func AllInvoiceStatuses() []InvoiceStatus {
	return []InvoiceStatus{
		InvoiceStatusDraft, InvoiceStatusIssued, InvoiceStatusPartiallyPaid,
		InvoiceStatusPaid, InvoiceStatusCancelled,
	}
}

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	_, ok := invoiceStatusLabels[s]
	return ok
}

// Label returns the Arabic badge text for the status
func (s InvoiceStatus) Label() string {
	if label, ok := invoiceStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// IsOpen reports whether the invoice still expects payment
func (s InvoiceStatus) IsOpen() bool {
	return s == InvoiceStatusIssued || s == InvoiceStatusPartiallyPaid
}

// InvoiceItem is a line of an invoice
type InvoiceItem struct {
	ID          uuid.UUID
	InvoiceID   uuid.UUID
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal
}

// NewInvoiceItem creates a new invoice line
func NewInvoiceItem(description string, quantity, unitPrice decimal.Decimal) (*InvoiceItem, error) {
	if strings.TrimSpace(description) == "" {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item description cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	return &InvoiceItem{
		ID:          uuid.New(),
		Description: strings.TrimSpace(description),
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Amount:      quantity.Mul(unitPrice).Round(2),
	}, nil
}

// Invoice is a bill issued to a customer
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber string
	CustomerID    uuid.UUID
	OrderID       *uuid.UUID
	Items         []InvoiceItem
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	TaxRate       decimal.Decimal // percent
	TaxAmount     decimal.Decimal
	Total         decimal.Decimal
	PaidAmount    decimal.Decimal
	Status        InvoiceStatus
	IssueDate     time.Time
	DueDate       *time.Time
	Notes         string
	IssuedAt      *time.Time
}

// NewInvoice creates a new draft invoice
func NewInvoice(invoiceNumber string, customerID uuid.UUID, issueDate time.Time) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if issueDate.IsZero() {
		issueDate = time.Now()
	}
	return &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     invoiceNumber,
		CustomerID:        customerID,
		Items:             make([]InvoiceItem, 0),
		Subtotal:          decimal.Zero,
		Discount:          decimal.Zero,
		TaxRate:           decimal.Zero,
		TaxAmount:         decimal.Zero,
		Total:             decimal.Zero,
		PaidAmount:        decimal.Zero,
		Status:            InvoiceStatusDraft,
		IssueDate:         issueDate,
	}, nil
}

func (i *Invoice) ensureDraft() error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be edited")
	}
	return nil
}

// SetTerms sets the discount and tax rate and recalculates totals
func (i *Invoice) SetTerms(discount, taxRate decimal.Decimal) error {
	if err := i.ensureDraft(); err != nil {
		return err
	}
	if discount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100")
	}
	oldDiscount, oldRate := i.Discount, i.TaxRate
	i.Discount = discount.Round(2)
	i.TaxRate = taxRate
	if err := i.recalculate(); err != nil {
		i.Discount, i.TaxRate = oldDiscount, oldRate
		return err
	}
	return nil
}

// SetItems replaces the lines and recalculates totals
func (i *Invoice) SetItems(items []InvoiceItem) error {
	if err := i.ensureDraft(); err != nil {
		return err
	}
	if len(items) == 0 {
		return shared.NewDomainError("INVALID_ITEMS", "Invoice must have at least one item")
	}
	for idx := range items {
		items[idx].InvoiceID = i.ID
	}
	old := i.Items
	i.Items = items
	if err := i.recalculate(); err != nil {
		i.Items = old
		return err
	}
	return nil
}

// SetDetails sets the order link, dates and notes
func (i *Invoice) SetDetails(orderID *uuid.UUID, issueDate time.Time, dueDate *time.Time, notes string) error {
	if err := i.ensureDraft(); err != nil {
		return err
	}
	if !issueDate.IsZero() {
		i.IssueDate = issueDate
	}
	if dueDate != nil && dueDate.Before(truncateDay(i.IssueDate)) {
		return shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot be before the issue date")
	}
	i.OrderID = orderID
	i.DueDate = dueDate
	i.Notes = notes
	i.Touch()
	return nil
}

// recalculate derives subtotal, tax and total from the lines
func (i *Invoice) recalculate() error {
	subtotal := decimal.Zero
	for _, item := range i.Items {
		subtotal = subtotal.Add(item.Amount)
	}
	if i.Discount.GreaterThan(subtotal) && len(i.Items) > 0 {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed the subtotal")
	}
	taxable := subtotal.Sub(i.Discount)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	i.Subtotal = subtotal
	i.TaxAmount = taxable.Mul(i.TaxRate).Div(hundred).Round(2)
	i.Total = taxable.Add(i.TaxAmount)
	i.Touch()
	return nil
}

// NetRevenue returns the revenue portion of the total (subtotal minus discount)
func (i *Invoice) NetRevenue() decimal.Decimal {
	return i.Subtotal.Sub(i.Discount)
}

// RemainingAmount returns what is still owed on the invoice
func (i *Invoice) RemainingAmount() decimal.Decimal {
	return i.Total.Sub(i.PaidAmount)
}

// Issue finalizes a draft invoice
func (i *Invoice) Issue() error {
	if err := i.ensureDraft(); err != nil {
		return err
	}
	if len(i.Items) == 0 {
		return shared.NewDomainError("INVALID_ITEMS", "Cannot issue an invoice without items")
	}
	now := time.Now()
	i.Status = InvoiceStatusIssued
	i.IssuedAt = &now
	i.Touch()
	i.AddDomainEvent(NewInvoiceIssuedEvent(i))
	return nil
}

// RecordPayment applies a payment to an issued invoice
func (i *Invoice) RecordPayment(amount decimal.Decimal) error {
	if !i.Status.IsOpen() {
		return shared.NewDomainError("INVALID_STATE", "Payments can only be recorded on issued invoices")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if amount.GreaterThan(i.RemainingAmount()) {
		return shared.NewDomainError("OVERPAYMENT", "Payment exceeds the remaining amount")
	}
	i.PaidAmount = i.PaidAmount.Add(amount)
	if i.RemainingAmount().IsZero() {
		i.Status = InvoiceStatusPaid
	} else {
		i.Status = InvoiceStatusPartiallyPaid
	}
	i.Touch()
	return nil
}

// Cancel voids an unpaid invoice
func (i *Invoice) Cancel() error {
	switch i.Status {
	case InvoiceStatusCancelled:
		return shared.NewDomainError("INVALID_STATE", "Invoice is already cancelled")
	case InvoiceStatusPaid, InvoiceStatusPartiallyPaid:
		return shared.NewDomainError("INVALID_STATE", "Cannot cancel an invoice that has payments")
	}
	i.Status = InvoiceStatusCancelled
	i.Touch()
	return nil
}

// IsOverdue reports whether an open invoice is past its due date
func (i *Invoice) IsOverdue(now time.Time) bool {
	if !i.Status.IsOpen() || i.DueDate == nil {
		return false
	}
	return i.DueDate.Before(truncateDay(now))
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
