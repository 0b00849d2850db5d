package finance

import (
	"strings"
	"time"

	"github.com/agency/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// JournalEntryNumberPrefix is the prefix of generated journal entry numbers
const JournalEntryNumberPrefix = "JE"

// Reference types of journal entries
const (
	ReferenceTypePayment = "payment"
	ReferenceTypeInvoice = "invoice"
	ReferenceTypeExpense = "expense"
	ReferenceTypeManual  = "manual"

	ReferenceTypePaymentReversal = "payment_reversal"
	ReferenceTypeExpenseReversal = "expense_reversal"
	ReferenceTypeInvoiceReversal = "invoice_reversal"
)

// JournalLine is one side of a journal entry
type JournalLine struct {
	ID          uuid.UUID
	EntryID     uuid.UUID
	AccountID   uuid.UUID
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string
}

// Debit builds a debit line against the account
func Debit(account *Account, amount decimal.Decimal, description string) JournalLine {
	return JournalLine{
		ID:          uuid.New(),
		AccountID:   account.ID,
		AccountCode: account.Code,
		Debit:       amount.Round(2),
		Credit:      decimal.Zero,
		Description: description,
	}
}

// Credit builds a credit line against the account
func Credit(account *Account, amount decimal.Decimal, description string) JournalLine {
	return JournalLine{
		ID:          uuid.New(),
		AccountID:   account.ID,
		AccountCode: account.Code,
		Debit:       decimal.Zero,
		Credit:      amount.Round(2),
		Description: description,
	}
}

// JournalEntry is a balanced double-entry posting
type JournalEntry struct {
	shared.BaseEntity
	EntryNumber   string
	Date          time.Time
	Description   string
	ReferenceType string
	ReferenceID   *uuid.UUID
	Lines         []JournalLine
}

// NewJournalEntry creates a journal entry and checks that it balances.
// Zero-amount lines are dropped.
func NewJournalEntry(entryNumber string, date time.Time, description, referenceType string, referenceID *uuid.UUID, lines []JournalLine) (*JournalEntry, error) {
	if entryNumber == "" {
		return nil, shared.NewDomainError("INVALID_ENTRY_NUMBER", "Entry number cannot be empty")
	}
	if referenceType == "" {
		referenceType = ReferenceTypeManual
	}
	if date.IsZero() {
		date = time.Now()
	}

	entry := &JournalEntry{
		BaseEntity:    shared.NewBaseEntity(),
		EntryNumber:   entryNumber,
		Date:          date,
		Description:   strings.TrimSpace(description),
		ReferenceType: referenceType,
		ReferenceID:   referenceID,
	}

	kept := make([]JournalLine, 0, len(lines))
	for _, line := range lines {
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return nil, shared.NewDomainError("INVALID_JOURNAL_LINE", "Journal line amounts cannot be negative")
		}
		if line.Debit.IsPositive() && line.Credit.IsPositive() {
			return nil, shared.NewDomainError("INVALID_JOURNAL_LINE", "A journal line cannot be both debit and credit")
		}
		if line.Debit.IsZero() && line.Credit.IsZero() {
			continue
		}
		if line.AccountID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_JOURNAL_LINE", "Journal line must reference an account")
		}
		if line.ID == uuid.Nil {
			line.ID = uuid.New()
		}
		line.EntryID = entry.ID
		kept = append(kept, line)
	}
	if len(kept) < 2 {
		return nil, shared.NewDomainError("INVALID_JOURNAL_ENTRY", "A journal entry needs at least two lines")
	}
	entry.Lines = kept

	if !entry.IsBalanced() {
		return nil, shared.NewDomainError("UNBALANCED_ENTRY", "Total debits must equal total credits")
	}
	return entry, nil
}

// Totals returns the sum of debits and credits
func (e *JournalEntry) Totals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, line := range e.Lines {
		debit = debit.Add(line.Debit)
		credit = credit.Add(line.Credit)
	}
	return debit, credit
}

// IsBalanced reports whether debits equal credits
func (e *JournalEntry) IsBalanced() bool {
	debit, credit := e.Totals()
	return debit.Equal(credit)
}

// PostTo applies every line to the matching account balance.
// All referenced accounts must be present in accounts, keyed by ID.
func (e *JournalEntry) PostTo(accounts map[uuid.UUID]*Account) error {
	for _, line := range e.Lines {
		if _, ok := accounts[line.AccountID]; !ok {
			return shared.NewDomainError("ACCOUNT_NOT_FOUND", "Account "+line.AccountCode+" not found")
		}
	}
	for _, line := range e.Lines {
		accounts[line.AccountID].Post(line.Debit, line.Credit)
	}
	return nil
}
