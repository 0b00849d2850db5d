package finance

import (
	"strings"

	"github.com/agency/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// System account codes
const (
	AccountCodeCash               = "1000"
	AccountCodeAccountsReceivable = "1100"
	AccountCodeTaxPayable         = "2100"
	AccountCodeRevenue            = "4000"
	AccountCodeGeneralExpenses    = "5000"
)

// AccountType classifies an account in the chart of accounts
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// IsValid checks if the type is a valid AccountType
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// IsDebitNormal reports whether debits increase the account's balance
func (t AccountType) IsDebitNormal() bool {
	return t == AccountTypeAsset || t == AccountTypeExpense
}

// Account is an entry of the chart of accounts
type Account struct {
	shared.BaseEntity
	Code     string
	Name     string
	Type     AccountType
	Balance  decimal.Decimal
	IsSystem bool
}

// NewAccount creates a new account with a zero balance
func NewAccount(code, name string, accountType AccountType) (*Account, error) {
	code = strings.TrimSpace(code)
	if code == "" || len(code) > 20 {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_CODE", "Account code must be 1-20 characters")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Account name cannot be empty")
	}
	if !accountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_TYPE", "Invalid account type: "+string(accountType))
	}
	return &Account{
		BaseEntity: shared.NewBaseEntity(),
		Code:       code,
		Name:       strings.TrimSpace(name),
		Type:       accountType,
		Balance:    decimal.Zero,
	}, nil
}

// Rename changes the account's display name
func (a *Account) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Account name cannot be empty")
	}
	a.Name = strings.TrimSpace(name)
	a.Touch()
	return nil
}

// Post applies a debit and credit amount to the balance
func (a *Account) Post(debit, credit decimal.Decimal) {
	if a.Type.IsDebitNormal() {
		a.Balance = a.Balance.Add(debit).Sub(credit)
	} else {
		a.Balance = a.Balance.Add(credit).Sub(debit)
	}
	a.Touch()
}

// SystemAccounts returns the accounts every installation starts with
func SystemAccounts() []*Account {
	defs := []struct {
		code, name string
		typ        AccountType
	}{
		{AccountCodeCash, "الصندوق", AccountTypeAsset},
		{AccountCodeAccountsReceivable, "ذمم مدينة", AccountTypeAsset},
		{AccountCodeTaxPayable, "ضريبة مستحقة", AccountTypeLiability},
		{AccountCodeRevenue, "الإيرادات", AccountTypeRevenue},
		{AccountCodeGeneralExpenses, "مصروفات عامة", AccountTypeExpense},
	}
	accounts := make([]*Account, 0, len(defs))
	for _, d := range defs {
		acc, _ := NewAccount(d.code, d.name, d.typ)
		acc.IsSystem = true
		accounts = append(accounts, acc)
	}
	return accounts
}
