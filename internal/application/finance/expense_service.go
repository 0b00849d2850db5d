package finance

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/agency/backend/internal/domain/finance"
	"github.com/agency/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ExpenseService records expenses and posts them to the journal
type ExpenseService struct {
	expenseRepo    finance.ExpenseRepository
	numbers        shared.NumberGenerator
	txScope        TransactionScope
	storage        shared.ObjectStorage
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewExpenseService creates a new ExpenseService. storage holds receipts and may be nil.
func NewExpenseService(
	expenseRepo finance.ExpenseRepository,
	numbers shared.NumberGenerator,
	txScope TransactionScope,
	storage shared.ObjectStorage,
	logger *zap.Logger,
) *ExpenseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExpenseService{
		expenseRepo: expenseRepo,
		numbers:     numbers,
		txScope:     txScope,
		storage:     storage,
		logger:      logger,
		now:         time.Now,
	}
}

// SetEventPublisher sets the event publisher
func (s *ExpenseService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GenerateNumber issues the next EXP-YYYY-NNNNN number
func (s *ExpenseService) GenerateNumber(ctx context.Context) (*NumberResponse, error) {
	number, err := s.numbers.Next(ctx, finance.ExpenseNumberPrefix, s.now())
	if err != nil {
		return nil, err
	}
	return &NumberResponse{Number: number}, nil
}

// Create records an expense and posts Dr expense account / Cr Cash
func (s *ExpenseService) Create(ctx context.Context, req ExpenseRequest) (*ExpenseResponse, error) {
	details := s.details(req)

	var expense *finance.Expense
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		at := details.SpentAt
		if at.IsZero() {
			at = s.now()
		}
		number, err := repos.Numbers().Next(ctx, finance.ExpenseNumberPrefix, at)
		if err != nil {
			return err
		}
		expense, err = finance.NewExpense(number, details)
		if err != nil {
			return err
		}
		if err := ensureExpenseAccount(ctx, repos, expense.AccountCode); err != nil {
			return err
		}
		if err := repos.ExpenseRepo().Save(ctx, expense); err != nil {
			return err
		}

		memo := expense.Category.Label() + " " + expense.ExpenseNumber
		_, err = postEntry(ctx, repos, expense.SpentAt, memo, finance.ReferenceTypeExpense, &expense.ID, []lineSpec{
			debit(expense.AccountCode, expense.Amount, memo),
			credit(finance.AccountCodeCash, expense.Amount, memo),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, finance.NewExpenseRecordedEvent(expense)); err != nil {
			s.logger.Warn("failed to publish expense event", zap.String("expense_id", expense.ID.String()), zap.Error(err))
		}
	}

	response := ToExpenseResponse(expense)
	return &response, nil
}

// GetByID retrieves an expense by ID
func (s *ExpenseService) GetByID(ctx context.Context, id uuid.UUID) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToExpenseResponse(expense)
	return &response, nil
}

// List retrieves expenses with filtering and pagination
func (s *ExpenseService) List(ctx context.Context, filter ExpenseListFilter) ([]ExpenseResponse, int64, error) {
	domainFilter := shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.Category != "" {
		domainFilter.Filters[finance.FilterCategory] = filter.Category
	}
	setDateRange(&domainFilter, filter.From, filter.To)

	expenses, err := s.expenseRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.expenseRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		responses[i] = ToExpenseResponse(&expenses[i])
	}
	return responses, total, nil
}

// Update edits an expense. The amount and the posted account are fixed.
func (s *ExpenseService) Update(ctx context.Context, id uuid.UUID, req ExpenseRequest) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	details := s.details(req)
	if details.AccountCode == "" {
		details.AccountCode = expense.AccountCode
	}
	if details.AccountCode != expense.AccountCode {
		return nil, shared.NewDomainError("INVALID_STATE", "Expense account cannot be changed after recording")
	}
	if details.SpentAt.IsZero() {
		details.SpentAt = expense.SpentAt
	}
	if err := expense.Update(details); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}
	response := ToExpenseResponse(expense)
	return &response, nil
}

// Delete removes an expense and posts a reversing entry
func (s *ExpenseService) Delete(ctx context.Context, id uuid.UUID) error {
	var receiptKey string
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		expense, err := repos.ExpenseRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		receiptKey = expense.ReceiptKey
		if err := repos.ExpenseRepo().Delete(ctx, id); err != nil {
			return err
		}
		memo := "إلغاء مصروف " + expense.ExpenseNumber
		_, err = postEntry(ctx, repos, s.now(), memo, finance.ReferenceTypeExpenseReversal, &expense.ID, []lineSpec{
			debit(finance.AccountCodeCash, expense.Amount, memo),
			credit(expense.AccountCode, expense.Amount, memo),
		})
		return err
	})
	if err != nil {
		return err
	}

	if receiptKey != "" && s.storage != nil {
		if err := s.storage.Delete(ctx, receiptKey); err != nil {
			s.logger.Warn("failed to delete receipt", zap.String("key", receiptKey), zap.Error(err))
		}
	}
	return nil
}

// AttachReceipt uploads a receipt file and links it to the expense
func (s *ExpenseService) AttachReceipt(ctx context.Context, id uuid.UUID, filename, contentType string, body io.Reader, size int64) (*ExpenseResponse, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError("STORAGE_UNAVAILABLE", "File storage is not configured")
	}
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("receipts/%s/%s", expense.ID, path.Base(filename))
	if err := s.storage.Upload(ctx, key, contentType, body, size); err != nil {
		return nil, fmt.Errorf("upload receipt: %w", err)
	}
	expense.AttachReceipt(key)
	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}
	response := ToExpenseResponse(expense)
	return &response, nil
}

// ReceiptURL returns a presigned download URL for the expense's receipt
func (s *ExpenseService) ReceiptURL(ctx context.Context, id uuid.UUID) (string, time.Time, error) {
	if s.storage == nil {
		return "", time.Time{}, shared.NewDomainError("STORAGE_UNAVAILABLE", "File storage is not configured")
	}
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return "", time.Time{}, err
	}
	if expense.ReceiptKey == "" {
		return "", time.Time{}, shared.NewDomainError("NOT_FOUND", "Expense has no receipt")
	}
	return s.storage.DownloadURL(ctx, expense.ReceiptKey)
}

func (s *ExpenseService) details(req ExpenseRequest) finance.ExpenseDetails {
	d := finance.ExpenseDetails{
		Category:    finance.ExpenseCategory(req.Category),
		Amount:      req.Amount,
		Description: req.Description,
		Vendor:      req.Vendor,
		AccountCode: req.AccountCode,
	}
	if req.SpentAt != nil {
		d.SpentAt = *req.SpentAt
	}
	return d
}

// ensureExpenseAccount checks that code names an expense account
func ensureExpenseAccount(ctx context.Context, repos TransactionalRepositories, code string) error {
	acc, err := repos.AccountRepo().FindByCode(ctx, code)
	if err != nil {
		if shared.IsNotFound(err) {
			return shared.NewDomainError("INVALID_ACCOUNT", "Account "+code+" does not exist")
		}
		return err
	}
	if acc.Type != finance.AccountTypeExpense {
		return shared.NewDomainError("INVALID_ACCOUNT", "Account "+code+" is not an expense account")
	}
	return nil
}
