package finance

import (
	"context"
	"time"

	"github.com/agency/backend/internal/domain/finance"
	"github.com/agency/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AccountingService manages the chart of accounts, the journal and the trial balance
type AccountingService struct {
	accountRepo finance.AccountRepository
	journalRepo finance.JournalEntryRepository
	txScope     TransactionScope
	now         func() time.Time
}

// NewAccountingService creates a new AccountingService
func NewAccountingService(accountRepo finance.AccountRepository, journalRepo finance.JournalEntryRepository, txScope TransactionScope) *AccountingService {
	return &AccountingService{
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		txScope:     txScope,
		now:         time.Now,
	}
}

// SeedSystemAccounts creates any missing system account
func (s *AccountingService) SeedSystemAccounts(ctx context.Context) error {
	for _, acc := range finance.SystemAccounts() {
		_, err := s.accountRepo.FindByCode(ctx, acc.Code)
		if err == nil {
			continue
		}
		if !shared.IsNotFound(err) {
			return err
		}
		if err := s.accountRepo.Save(ctx, acc); err != nil {
			return err
		}
	}
	return nil
}

// ListAccounts returns the chart of accounts
func (s *AccountingService) ListAccounts(ctx context.Context) ([]AccountResponse, error) {
	accounts, err := s.accountRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses, nil
}

// CreateAccount adds an account with a zero balance
func (s *AccountingService) CreateAccount(ctx context.Context, req CreateAccountRequest) (*AccountResponse, error) {
	acc, err := finance.NewAccount(req.Code, req.Name, finance.AccountType(req.Type))
	if err != nil {
		return nil, err
	}
	if _, err := s.accountRepo.FindByCode(ctx, acc.Code); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Account code "+acc.Code+" already exists")
	} else if !shared.IsNotFound(err) {
		return nil, err
	}
	if err := s.accountRepo.Save(ctx, acc); err != nil {
		return nil, err
	}
	response := ToAccountResponse(acc)
	return &response, nil
}

// RenameAccount changes an account's display name
func (s *AccountingService) RenameAccount(ctx context.Context, id uuid.UUID, req RenameAccountRequest) (*AccountResponse, error) {
	acc, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := acc.Rename(req.Name); err != nil {
		return nil, err
	}
	if err := s.accountRepo.Save(ctx, acc); err != nil {
		return nil, err
	}
	response := ToAccountResponse(acc)
	return &response, nil
}

// DeleteAccount deletes a non-system account that has never been posted to
func (s *AccountingService) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	acc, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if acc.IsSystem {
		return shared.NewDomainError("INVALID_STATE", "System accounts cannot be deleted")
	}
	used, err := s.journalRepo.HasLinesForAccount(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return shared.NewDomainError("INVALID_STATE", "Accounts with journal lines cannot be deleted")
	}
	return s.accountRepo.Delete(ctx, id)
}

// ListJournal lists journal entries, newest first
func (s *AccountingService) ListJournal(ctx context.Context, filter JournalListFilter) ([]JournalEntryResponse, int64, error) {
	domainFilter := shared.NewFilter(filter.Page, filter.PageSize, "date", "desc", "")
	if filter.ReferenceType != "" {
		domainFilter.Filters["reference_type"] = filter.ReferenceType
	}
	setDateRange(&domainFilter, filter.From, filter.To)

	entries, err := s.journalRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.journalRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]JournalEntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToJournalEntryResponse(&entries[i])
	}
	return responses, total, nil
}

// GetJournalEntry retrieves one journal entry
func (s *AccountingService) GetJournalEntry(ctx context.Context, id uuid.UUID) (*JournalEntryResponse, error) {
	entry, err := s.journalRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToJournalEntryResponse(entry)
	return &response, nil
}

// CreateManualEntry posts a balanced manual journal entry
func (s *AccountingService) CreateManualEntry(ctx context.Context, req CreateJournalEntryRequest) (*JournalEntryResponse, error) {
	date := s.now()
	if req.Date != nil && !req.Date.IsZero() {
		date = *req.Date
	}
	specs := make([]lineSpec, 0, len(req.Lines))
	for _, l := range req.Lines {
		if l.Debit.IsPositive() && l.Credit.IsPositive() {
			return nil, shared.NewDomainError("INVALID_JOURNAL_LINE", "A journal line cannot be both debit and credit")
		}
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return nil, shared.NewDomainError("INVALID_JOURNAL_LINE", "Journal line amounts cannot be negative")
		}
		if l.Debit.IsPositive() {
			specs = append(specs, debit(l.AccountCode, l.Debit, l.Description))
		} else {
			specs = append(specs, credit(l.AccountCode, l.Credit, l.Description))
		}
	}

	var entry *finance.JournalEntry
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		entry, err = postEntry(ctx, repos, date, req.Description, finance.ReferenceTypeManual, nil, specs)
		return err
	})
	if err != nil {
		return nil, err
	}
	response := ToJournalEntryResponse(entry)
	return &response, nil
}

// TrialBalance lists every account's balance on its debit or credit side
func (s *AccountingService) TrialBalance(ctx context.Context) (*finance.TrialBalance, error) {
	accounts, err := s.accountRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	tb := finance.BuildTrialBalance(accounts)
	return &tb, nil
}
