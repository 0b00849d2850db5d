package finance

import (
	"strings"
	"time"

	"github.com/agency/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ExpenseNumberPrefix is the prefix of generated expense numbers
const ExpenseNumberPrefix = "EXP"

// ExpenseCategory represents the category of an expense
type ExpenseCategory string

const (
	ExpenseCategoryRent        ExpenseCategory = "rent"
	ExpenseCategorySalaries    ExpenseCategory = "salaries"
	ExpenseCategoryUtilities   ExpenseCategory = "utilities"
	ExpenseCategorySupplies    ExpenseCategory = "supplies"
	ExpenseCategoryMarketing   ExpenseCategory = "marketing"
	ExpenseCategoryTransport   ExpenseCategory = "transport"
	ExpenseCategoryMaintenance ExpenseCategory = "maintenance"
	ExpenseCategoryOther       ExpenseCategory = "other"
)

var expenseCategoryLabels = map[ExpenseCategory]string{
	ExpenseCategoryRent:        "إيجار",
	ExpenseCategorySalaries:    "رواتب",
	ExpenseCategoryUtilities:   "خدمات",
	ExpenseCategorySupplies:    "مستلزمات",
	ExpenseCategoryMarketing:   "تسويق",
	ExpenseCategoryTransport:   "نقل",
	ExpenseCategoryMaintenance: "صيانة",
	ExpenseCategoryOther:       "أخرى",
}

// IsValid checks if the category is a valid ExpenseCategory
func (c ExpenseCategory) IsValid() bool {
	_, ok := expenseCategoryLabels[c]
	return ok
}

// Label returns the Arabic display text for the category
func (c ExpenseCategory) Label() string {
	if label, ok := expenseCategoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// ExpenseDetails holds the editable fields of an expense
type ExpenseDetails struct {
	Category    ExpenseCategory
	Amount      decimal.Decimal
	SpentAt     time.Time
	Description string
	Vendor      string
	AccountCode string // expense account to debit, defaults to general expenses
}

// Expense is money spent by the agency
type Expense struct {
	shared.BaseEntity
	ExpenseNumber string
	Category      ExpenseCategory
	Amount        decimal.Decimal
	SpentAt       time.Time
	Description   string
	Vendor        string
	AccountCode   string
	ReceiptKey    string
}

// NewExpense creates a new expense
func NewExpense(expenseNumber string, d ExpenseDetails) (*Expense, error) {
	if expenseNumber == "" {
		return nil, shared.NewDomainError("INVALID_EXPENSE_NUMBER", "Expense number cannot be empty")
	}
	e := &Expense{BaseEntity: shared.NewBaseEntity(), ExpenseNumber: expenseNumber}
	if err := e.apply(d); err != nil {
		return nil, err
	}
	return e, nil
}

// Update replaces the editable fields. The amount is fixed once posted.
func (e *Expense) Update(d ExpenseDetails) error {
	if !d.Amount.Equal(e.Amount) {
		return shared.NewDomainError("INVALID_STATE", "Expense amount cannot be changed after recording")
	}
	if err := e.apply(d); err != nil {
		return err
	}
	e.Touch()
	return nil
}

func (e *Expense) apply(d ExpenseDetails) error {
	if !d.Category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", "Invalid expense category: "+string(d.Category))
	}
	if !d.Amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Expense amount must be positive")
	}
	if d.SpentAt.IsZero() {
		d.SpentAt = time.Now()
	}
	if d.AccountCode == "" {
		d.AccountCode = AccountCodeGeneralExpenses
	}
	e.Category = d.Category
	e.Amount = d.Amount.Round(2)
	e.SpentAt = d.SpentAt
	e.Description = strings.TrimSpace(d.Description)
	e.Vendor = strings.TrimSpace(d.Vendor)
	e.AccountCode = d.AccountCode
	return nil
}

// AttachReceipt stores the object key of an uploaded receipt
func (e *Expense) AttachReceipt(key string) {
	e.ReceiptKey = key
	e.Touch()
}
