package finance

import (
	"sort"

	"github.com/shopspring/decimal"
)

// TrialBalanceLine is one account's row in the trial balance
type TrialBalanceLine struct {
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	AccountType AccountType     `json:"account_type"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalance lists account balances on the debit or credit side
type TrialBalance struct {
	Lines       []TrialBalanceLine `json:"lines"`
	TotalDebit  decimal.Decimal    `json:"total_debit"`
	TotalCredit decimal.Decimal    `json:"total_credit"`
	Balanced    bool               `json:"balanced"`
}

// BuildTrialBalance places each account's balance on its normal side,
// or on the opposite side when the balance is negative.
func BuildTrialBalance(accounts []Account) TrialBalance {
	sorted := make([]Account, len(accounts))
	copy(sorted, accounts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Code < sorted[j].Code })

	tb := TrialBalance{
		Lines:       make([]TrialBalanceLine, 0, len(sorted)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for _, acc := range sorted {
		line := TrialBalanceLine{
			AccountCode: acc.Code,
			AccountName: acc.Name,
			AccountType: acc.Type,
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
		}
		debitSide := acc.Type.IsDebitNormal()
		if acc.Balance.IsNegative() {
			debitSide = !debitSide
		}
		if debitSide {
			line.Debit = acc.Balance.Abs()
		} else {
			line.Credit = acc.Balance.Abs()
		}
		tb.TotalDebit = tb.TotalDebit.Add(line.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(line.Credit)
		tb.Lines = append(tb.Lines, line)
	}
	tb.Balanced = tb.TotalDebit.Equal(tb.TotalCredit)
	return tb
}
