package finance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func systemAccountsByCode(t *testing.T) map[string]*Account {
	out := make(map[string]*Account)
	for _, acc := range SystemAccounts() {
		out[acc.Code] = acc
	}
	require.Len(t, out, 5)
	return out
}

func byID(accounts map[string]*Account) map[uuid.UUID]*Account {
	out := make(map[uuid.UUID]*Account, len(accounts))
	for _, acc := range accounts {
		out[acc.ID] = acc
	}
	return out
}

func TestAccountType_IsDebitNormal(t *testing.T) {
	assert.True(t, AccountTypeAsset.IsDebitNormal())
	assert.True(t, AccountTypeExpense.IsDebitNormal())
	assert.False(t, AccountTypeLiability.IsDebitNormal())
	assert.False(t, AccountTypeEquity.IsDebitNormal())
	assert.False(t, AccountTypeRevenue.IsDebitNormal())
}

func TestNewAccount(t *testing.T) {
	_, err := NewAccount("", "Cash", AccountTypeAsset)
	assert.Error(t, err)
	_, err = NewAccount("1200", "", AccountTypeAsset)
	assert.Error(t, err)
	_, err = NewAccount("1200", "Bank", "cash")
	assert.Error(t, err)

	acc, err := NewAccount(" 1200 ", "Bank", AccountTypeAsset)
	require.NoError(t, err)
	assert.Equal(t, "1200", acc.Code)
	assert.True(t, acc.Balance.IsZero())
}

func TestNewJournalEntry(t *testing.T) {
	accts := systemAccountsByCode(t)
	cash, ar := accts[AccountCodeCash], accts[AccountCodeAccountsReceivable]

	t.Run("balanced", func(t *testing.T) {
		entry, err := NewJournalEntry("JE-2026-00001", time.Now(), "payment", ReferenceTypePayment, nil, []JournalLine{
			Debit(cash, d("100"), ""),
			Credit(ar, d("100"), ""),
		})
		require.NoError(t, err)
		assert.True(t, entry.IsBalanced())
		for _, line := range entry.Lines {
			assert.Equal(t, entry.ID, line.EntryID)
		}
	})

	t.Run("unbalanced", func(t *testing.T) {
		_, err := NewJournalEntry("JE-2026-00001", time.Now(), "", "", nil, []JournalLine{
			Debit(cash, d("100"), ""),
			Credit(ar, d("90"), ""),
		})
		assert.Error(t, err)
	})

	t.Run("single line after dropping zeros", func(t *testing.T) {
		_, err := NewJournalEntry("JE-2026-00001", time.Now(), "", "", nil, []JournalLine{
			Debit(cash, d("0"), ""),
			Credit(ar, d("0"), ""),
		})
		assert.Error(t, err)
	})

	t.Run("two sided line", func(t *testing.T) {
		line := Debit(cash, d("10"), "")
		line.Credit = d("10")
		_, err := NewJournalEntry("JE-2026-00001", time.Now(), "", "", nil, []JournalLine{line, Credit(ar, d("0"), "")})
		assert.Error(t, err)
	})

	t.Run("negative amount", func(t *testing.T) {
		_, err := NewJournalEntry("JE-2026-00001", time.Now(), "", "", nil, []JournalLine{
			Debit(cash, d("-10"), ""),
			Credit(ar, d("-10"), ""),
		})
		assert.Error(t, err)
	})
}

func TestJournalEntry_PostToKeepsTrialBalanceBalanced(t *testing.T) {
	accts := systemAccountsByCode(t)
	idx := byID(accts)

	entries := [][]JournalLine{
		// invoice: Dr AR 1150 / Cr Revenue 1000 / Cr Tax 150
		{
			Debit(accts[AccountCodeAccountsReceivable], d("1150"), ""),
			Credit(accts[AccountCodeRevenue], d("1000"), ""),
			Credit(accts[AccountCodeTaxPayable], d("150"), ""),
		},
		// payment: Dr Cash 400 / Cr AR 400
		{
			Debit(accts[AccountCodeCash], d("400"), ""),
			Credit(accts[AccountCodeAccountsReceivable], d("400"), ""),
		},
		// expense: Dr Expenses 600 / Cr Cash 600
		{
			Debit(accts[AccountCodeGeneralExpenses], d("600"), ""),
			Credit(accts[AccountCodeCash], d("600"), ""),
		},
	}

	for _, lines := range entries {
		entry, err := NewJournalEntry("JE", time.Now(), "", "", nil, lines)
		require.NoError(t, err)
		require.NoError(t, entry.PostTo(idx))

		all := make([]Account, 0, len(accts))
		for _, acc := range accts {
			all = append(all, *acc)
		}
		tb := BuildTrialBalance(all)
		assert.True(t, tb.Balanced, "debit=%s credit=%s", tb.TotalDebit, tb.TotalCredit)
	}

	assert.True(t, d("-200").Equal(accts[AccountCodeCash].Balance))
	assert.True(t, d("750").Equal(accts[AccountCodeAccountsReceivable].Balance))
	assert.True(t, d("1000").Equal(accts[AccountCodeRevenue].Balance))
	assert.True(t, d("150").Equal(accts[AccountCodeTaxPayable].Balance))
	assert.True(t, d("600").Equal(accts[AccountCodeGeneralExpenses].Balance))

	all := make([]Account, 0, len(accts))
	for _, acc := range accts {
		all = append(all, *acc)
	}
	tb := BuildTrialBalance(all)
	require.Len(t, tb.Lines, 5)
	assert.Equal(t, AccountCodeCash, tb.Lines[0].AccountCode)
	assert.True(t, d("200").Equal(tb.Lines[0].Credit), "negative cash balance shows on the credit side")
	assert.True(t, d("1350").Equal(tb.TotalDebit))
}

func TestJournalEntry_PostToUnknownAccount(t *testing.T) {
	accts := systemAccountsByCode(t)
	entry, err := NewJournalEntry("JE", time.Now(), "", "", nil, []JournalLine{
		Debit(accts[AccountCodeCash], d("5"), ""),
		Credit(accts[AccountCodeRevenue], d("5"), ""),
	})
	require.NoError(t, err)

	partial := map[uuid.UUID]*Account{accts[AccountCodeCash].ID: accts[AccountCodeCash]}
	assert.Error(t, entry.PostTo(partial))
	assert.True(t, accts[AccountCodeCash].Balance.IsZero(), "nothing posted on failure")
}

func TestNewPayment(t *testing.T) {
	_, err := NewPayment(uuid.Nil, uuid.New(), d("10"), PaymentMethodCash, time.Now())
	assert.Error(t, err)
	_, err = NewPayment(uuid.New(), uuid.New(), d("0"), PaymentMethodCash, time.Now())
	assert.Error(t, err)
	_, err = NewPayment(uuid.New(), uuid.New(), d("10"), "bitcoin", time.Now())
	assert.Error(t, err)

	p, err := NewPayment(uuid.New(), uuid.New(), d("10.005"), "", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, PaymentMethodCash, p.Method)
	assert.False(t, p.PaidAt.IsZero())
	assert.True(t, decimal.RequireFromString("10.01").Equal(p.Amount))

	for _, m := range AllPaymentMethods() {
		assert.NotEqual(t, string(m), m.Label())
	}
}

func TestNewExpense(t *testing.T) {
	e, err := NewExpense("EXP-2026-00001", ExpenseDetails{Category: ExpenseCategoryRent, Amount: d("1200")})
	require.NoError(t, err)
	assert.Equal(t, AccountCodeGeneralExpenses, e.AccountCode)

	_, err = NewExpense("EXP-2026-00001", ExpenseDetails{Category: "food", Amount: d("1")})
	assert.Error(t, err)
	_, err = NewExpense("EXP-2026-00001", ExpenseDetails{Category: ExpenseCategoryRent, Amount: d("0")})
	assert.Error(t, err)

	assert.Error(t, e.Update(ExpenseDetails{Category: ExpenseCategoryRent, Amount: d("1300")}))
	require.NoError(t, e.Update(ExpenseDetails{Category: ExpenseCategoryUtilities, Amount: d("1200"), Vendor: "Power Co"}))
	assert.Equal(t, "Power Co", e.Vendor)
}
