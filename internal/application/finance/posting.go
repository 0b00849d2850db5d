package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/agency/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// lineSpec describes one journal line by account code
type lineSpec struct {
	code   string
	debit  decimal.Decimal
	credit decimal.Decimal
	memo   string
}

func debit(code string, amount decimal.Decimal, memo string) lineSpec {
	return lineSpec{code: code, debit: amount, credit: decimal.Zero, memo: memo}
}

func credit(code string, amount decimal.Decimal, memo string) lineSpec {
	return lineSpec{code: code, debit: decimal.Zero, credit: amount, memo: memo}
}

// postEntry builds a balanced journal entry from specs, applies it to the
// account balances and saves everything through repos.
func postEntry(
	ctx context.Context,
	repos TransactionalRepositories,
	date time.Time,
	description, referenceType string,
	referenceID *uuid.UUID,
	specs []lineSpec,
) (*finance.JournalEntry, error) {
	accounts := make(map[uuid.UUID]*finance.Account, len(specs))
	byCode := make(map[string]*finance.Account, len(specs))
	lines := make([]finance.JournalLine, 0, len(specs))

	for _, spec := range specs {
		acc, ok := byCode[spec.code]
		if !ok {
			found, err := repos.AccountRepo().FindByCode(ctx, spec.code)
			if err != nil {
				return nil, fmt.Errorf("load account %s: %w", spec.code, err)
			}
			acc = found
			byCode[spec.code] = acc
			accounts[acc.ID] = acc
		}
		if spec.debit.IsPositive() {
			lines = append(lines, finance.Debit(acc, spec.debit, spec.memo))
		} else {
			lines = append(lines, finance.Credit(acc, spec.credit, spec.memo))
		}
	}

	number, err := repos.Numbers().Next(ctx, finance.JournalEntryNumberPrefix, date)
	if err != nil {
		return nil, err
	}
	entry, err := finance.NewJournalEntry(number, date, description, referenceType, referenceID, lines)
	if err != nil {
		return nil, err
	}
	if err := entry.PostTo(accounts); err != nil {
		return nil, err
	}
	for _, acc := range accounts {
		if err := repos.AccountRepo().Save(ctx, acc); err != nil {
			return nil, err
		}
	}
	if err := repos.JournalRepo().Save(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}
