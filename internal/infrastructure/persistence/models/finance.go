package models

import (
	"time"

	"github.com/agency/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentModel is the persistence model for payments
type PaymentModel struct {
	BaseModel
	OrderID    uuid.UUID             `gorm:"type:uuid;not null;index"`
	CustomerID uuid.UUID             `gorm:"type:uuid;not null;index"`
	Amount     decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	Method     finance.PaymentMethod `gorm:"type:varchar(20);not null;index"`
	PaidAt     time.Time             `gorm:"not null;index"`
	Reference  string                `gorm:"type:varchar(100)"`
	Notes      string                `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the model to a domain Payment
func (m *PaymentModel) ToDomain() *finance.Payment {
	return &finance.Payment{
		BaseEntity: m.BaseModel.ToDomain(),
		OrderID:    m.OrderID,
		CustomerID: m.CustomerID,
		Amount:     m.Amount,
		Method:     m.Method,
		PaidAt:     m.PaidAt,
		Reference:  m.Reference,
		Notes:      m.Notes,
	}
}

// FromDomain populates the model from a domain Payment
func (m *PaymentModel) FromDomain(p *finance.Payment) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.OrderID = p.OrderID
	m.CustomerID = p.CustomerID
	m.Amount = p.Amount
	m.Method = p.Method
	m.PaidAt = utc(p.PaidAt)
	m.Reference = p.Reference
	m.Notes = p.Notes
}

// InvoiceModel is the persistence model for the Invoice aggregate root
type InvoiceModel struct {
	AggregateModel
	InvoiceNumber string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID    uuid.UUID             `gorm:"type:uuid;not null;index"`
	OrderID       *uuid.UUID            `gorm:"type:uuid;index"`
	Subtotal      decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	Discount      decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	TaxRate       decimal.Decimal       `gorm:"type:decimal(5,2);not null;default:0"`
	TaxAmount     decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	Total         decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	PaidAmount    decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	Status        finance.InvoiceStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	IssueDate     time.Time             `gorm:"not null;index"`
	DueDate       *time.Time            `gorm:"index"`
	Notes         string                `gorm:"type:text"`
	IssuedAt      *time.Time
	Items         []InvoiceItemModel `gorm:"foreignKey:InvoiceID;references:ID"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the model to a domain Invoice
func (m *InvoiceModel) ToDomain() *finance.Invoice {
	inv := &finance.Invoice{
		BaseAggregateRoot: m.ToAggregateRoot(),
		InvoiceNumber:     m.InvoiceNumber,
		CustomerID:        m.CustomerID,
		OrderID:           m.OrderID,
		Items:             make([]finance.InvoiceItem, len(m.Items)),
		Subtotal:          m.Subtotal,
		Discount:          m.Discount,
		TaxRate:           m.TaxRate,
		TaxAmount:         m.TaxAmount,
		Total:             m.Total,
		PaidAmount:        m.PaidAmount,
		Status:            m.Status,
		IssueDate:         m.IssueDate,
		DueDate:           m.DueDate,
		Notes:             m.Notes,
		IssuedAt:          m.IssuedAt,
	}
	for i, item := range m.Items {
		inv.Items[i] = finance.InvoiceItem{
			ID:          item.ID,
			InvoiceID:   item.InvoiceID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		}
	}
	return inv
}

// FromDomain populates the model from a domain Invoice, items included
func (m *InvoiceModel) FromDomain(inv *finance.Invoice) {
	m.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	m.InvoiceNumber = inv.InvoiceNumber
	m.CustomerID = inv.CustomerID
	m.OrderID = inv.OrderID
	m.Subtotal = inv.Subtotal
	m.Discount = inv.Discount
	m.TaxRate = inv.TaxRate
	m.TaxAmount = inv.TaxAmount
	m.Total = inv.Total
	m.PaidAmount = inv.PaidAmount
	m.Status = inv.Status
	m.IssueDate = utc(inv.IssueDate)
	m.DueDate = utcPtr(inv.DueDate)
	m.Notes = inv.Notes
	m.IssuedAt = utcPtr(inv.IssuedAt)
	m.Items = make([]InvoiceItemModel, len(inv.Items))
	for i, item := range inv.Items {
		id := item.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		m.Items[i] = InvoiceItemModel{
			ID:          id,
			InvoiceID:   inv.ID,
			Position:    i,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		}
	}
}

// InvoiceItemModel is the persistence model for invoice lines
type InvoiceItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position    int             `gorm:"not null;default:0"`
	Description string          `gorm:"type:varchar(500);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// ExpenseModel is the persistence model for expenses
type ExpenseModel struct {
	BaseModel
	ExpenseNumber string                  `gorm:"type:varchar(50);not null;uniqueIndex"`
	Category      finance.ExpenseCategory `gorm:"type:varchar(30);not null;index"`
	Amount        decimal.Decimal         `gorm:"type:decimal(18,2);not null"`
	SpentAt       time.Time               `gorm:"not null;index"`
	Description   string                  `gorm:"type:text"`
	Vendor        string                  `gorm:"type:varchar(200)"`
	AccountCode   string                  `gorm:"type:varchar(20);not null"`
	ReceiptKey    string                  `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToDomain converts the model to a domain Expense
func (m *ExpenseModel) ToDomain() *finance.Expense {
	return &finance.Expense{
		BaseEntity:    m.BaseModel.ToDomain(),
		ExpenseNumber: m.ExpenseNumber,
		Category:      m.Category,
		Amount:        m.Amount,
		SpentAt:       m.SpentAt,
		Description:   m.Description,
		Vendor:        m.Vendor,
		AccountCode:   m.AccountCode,
		ReceiptKey:    m.ReceiptKey,
	}
}

// FromDomain populates the model from a domain Expense
func (m *ExpenseModel) FromDomain(e *finance.Expense) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.ExpenseNumber = e.ExpenseNumber
	m.Category = e.Category
	m.Amount = e.Amount
	m.SpentAt = utc(e.SpentAt)
	m.Description = e.Description
	m.Vendor = e.Vendor
	m.AccountCode = e.AccountCode
	m.ReceiptKey = e.ReceiptKey
}

// AccountModel is the persistence model for the chart of accounts
type AccountModel struct {
	BaseModel
	Code     string              `gorm:"type:varchar(20);not null;uniqueIndex"`
	Name     string              `gorm:"type:varchar(200);not null"`
	Type     finance.AccountType `gorm:"type:varchar(20);not null"`
	Balance  decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	IsSystem bool                `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the model to a domain Account
func (m *AccountModel) ToDomain() *finance.Account {
	return &finance.Account{
		BaseEntity: m.BaseModel.ToDomain(),
		Code:       m.Code,
		Name:       m.Name,
		Type:       m.Type,
		Balance:    m.Balance,
		IsSystem:   m.IsSystem,
	}
}

// FromDomain populates the model from a domain Account
func (m *AccountModel) FromDomain(a *finance.Account) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Code = a.Code
	m.Name = a.Name
	m.Type = a.Type
	m.Balance = a.Balance
	m.IsSystem = a.IsSystem
}

// JournalEntryModel is the persistence model for journal entries
type JournalEntryModel struct {
	BaseModel
	EntryNumber   string             `gorm:"type:varchar(50);not null;uniqueIndex"`
	Date          time.Time          `gorm:"not null;index"`
	Description   string             `gorm:"type:text"`
	ReferenceType string             `gorm:"type:varchar(20);not null;index:idx_journal_reference"`
	ReferenceID   *uuid.UUID         `gorm:"type:uuid;index:idx_journal_reference"`
	Lines         []JournalLineModel `gorm:"foreignKey:EntryID;references:ID"`
}

// TableName returns the table name for GORM
func (JournalEntryModel) TableName() string {
	return "journal_entries"
}

// ToDomain converts the model to a domain JournalEntry
func (m *JournalEntryModel) ToDomain() *finance.JournalEntry {
	e := &finance.JournalEntry{
		BaseEntity:    m.BaseModel.ToDomain(),
		EntryNumber:   m.EntryNumber,
		Date:          m.Date,
		Description:   m.Description,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		Lines:         make([]finance.JournalLine, len(m.Lines)),
	}
	for i, l := range m.Lines {
		e.Lines[i] = finance.JournalLine{
			ID:          l.ID,
			EntryID:     l.EntryID,
			AccountID:   l.AccountID,
			AccountCode: l.AccountCode,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
		}
	}
	return e
}

// FromDomain populates the model from a domain JournalEntry, lines included
func (m *JournalEntryModel) FromDomain(e *finance.JournalEntry) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.EntryNumber = e.EntryNumber
	m.Date = utc(e.Date)
	m.Description = e.Description
	m.ReferenceType = e.ReferenceType
	m.ReferenceID = e.ReferenceID
	m.Lines = make([]JournalLineModel, len(e.Lines))
	for i, l := range e.Lines {
		m.Lines[i] = JournalLineModel{
			ID:          l.ID,
			EntryID:     e.ID,
			Position:    i,
			AccountID:   l.AccountID,
			AccountCode: l.AccountCode,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
		}
	}
}

// JournalLineModel is the persistence model for journal lines
type JournalLineModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	EntryID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position    int             `gorm:"not null;default:0"`
	AccountID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountCode string          `gorm:"type:varchar(20);not null"`
	Debit       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Credit      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Description string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (JournalLineModel) TableName() string {
	return "journal_lines"
}
