package handler

import (
	"context"

	appfinance "github.com/agency/backend/internal/application/finance"
	"github.com/agency/backend/internal/domain/finance"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AccountingService is the chart of accounts and journal use-case surface
type AccountingService interface {
	ListAccounts(ctx context.Context) ([]appfinance.AccountResponse, error)
	CreateAccount(ctx context.Context, req appfinance.CreateAccountRequest) (*appfinance.AccountResponse, error)
	RenameAccount(ctx context.Context, id uuid.UUID, req appfinance.RenameAccountRequest) (*appfinance.AccountResponse, error)
	DeleteAccount(ctx context.Context, id uuid.UUID) error
	ListJournal(ctx context.Context, filter appfinance.JournalListFilter) ([]appfinance.JournalEntryResponse, int64, error)
	GetJournalEntry(ctx context.Context, id uuid.UUID) (*appfinance.JournalEntryResponse, error)
	CreateManualEntry(ctx context.Context, req appfinance.CreateJournalEntryRequest) (*appfinance.JournalEntryResponse, error)
	TrialBalance(ctx context.Context) (*finance.TrialBalance, error)
}

// AccountingHandler handles chart of accounts and journal endpoints
type AccountingHandler struct {
	BaseHandler
	accountingService AccountingService
}

// NewAccountingHandler creates a new AccountingHandler
func NewAccountingHandler(accountingService AccountingService) *AccountingHandler {
	return &AccountingHandler{accountingService: accountingService}
}

// ListAccounts godoc
// @ID           listAccounts
// @Summary      List the chart of accounts
// @Tags         accounting
// @Produce      json
// @Success      200 {object} APIResponse[[]appfinance.AccountResponse]
// @Security     BearerAuth
// @Router       /accounting/accounts [get]
func (h *AccountingHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.accountingService.ListAccounts(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, accounts)
}

// CreateAccount godoc
// @ID           createAccount
// @Summary      Add an account
// @Tags         accounting
// @Accept       json
// @Produce      json
// @Param        request body appfinance.CreateAccountRequest true "Account details"
// @Success      201 {object} APIResponse[appfinance.AccountResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /accounting/accounts [post]
func (h *AccountingHandler) CreateAccount(c *gin.Context) {
	var req appfinance.CreateAccountRequest
	if !h.bindJSON(c, &req) {
		return
	}

	account, err := h.accountingService.CreateAccount(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, account)
}

// RenameAccount godoc
// @ID           renameAccount
// @Summary      Rename an account
// @Tags         accounting
// @Accept       json
// @Produce      json
// @Param        id path string true "Account ID" format(uuid)
// @Param        request body appfinance.RenameAccountRequest true "New name"
// @Success      200 {object} APIResponse[appfinance.AccountResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /accounting/accounts/{id} [put]
func (h *AccountingHandler) RenameAccount(c *gin.Context) {
	id, ok := h.parseID(c, "id", "account")
	if !ok {
		return
	}
	var req appfinance.RenameAccountRequest
	if !h.bindJSON(c, &req) {
		return
	}

	account, err := h.accountingService.RenameAccount(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, account)
}

// DeleteAccount godoc
// @ID           deleteAccount
// @Summary      Delete an account
// @Description  System accounts and accounts with journal lines cannot be deleted
// @Tags         accounting
// @Param        id path string true "Account ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /accounting/accounts/{id} [delete]
func (h *AccountingHandler) DeleteAccount(c *gin.Context) {
	id, ok := h.parseID(c, "id", "account")
	if !ok {
		return
	}

	if err := h.accountingService.DeleteAccount(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ListJournal godoc
// @ID           listJournalEntries
// @Summary      List journal entries
// @Tags         accounting
// @Produce      json
// @Param        reference_type query string false "Source document type" Enums(payment, payment_reversal, invoice, invoice_reversal, expense, expense_reversal, manual)
// @Param        from query string false "Dated on or after" format(date)
// @Param        to query string false "Dated on or before" format(date)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]appfinance.JournalEntryResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /accounting/journal [get]
func (h *AccountingHandler) ListJournal(c *gin.Context) {
	var filter appfinance.JournalListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	pageOf(&filter.Page, &filter.PageSize)

	entries, total, err := h.accountingService.ListJournal(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, entries, total, filter.Page, filter.PageSize)
}

// GetJournalEntry godoc
// @ID           getJournalEntry
// @Summary      Get a journal entry
// @Tags         accounting
// @Produce      json
// @Param        id path string true "Entry ID" format(uuid)
// @Success      200 {object} APIResponse[appfinance.JournalEntryResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /accounting/journal/{id} [get]
func (h *AccountingHandler) GetJournalEntry(c *gin.Context) {
	id, ok := h.parseID(c, "id", "journal entry")
	if !ok {
		return
	}

	entry, err := h.accountingService.GetJournalEntry(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entry)
}

// CreateManualEntry godoc
// @ID           createJournalEntry
// @Summary      Post a manual journal entry
// @Description  Debits must equal credits
// @Tags         accounting
// @Accept       json
// @Produce      json
// @Param        request body appfinance.CreateJournalEntryRequest true "Entry lines"
// @Success      201 {object} APIResponse[appfinance.JournalEntryResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /accounting/journal [post]
func (h *AccountingHandler) CreateManualEntry(c *gin.Context) {
	var req appfinance.CreateJournalEntryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	entry, err := h.accountingService.CreateManualEntry(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, entry)
}

// TrialBalance godoc
// @ID           getTrialBalance
// @Summary      Get the trial balance
// @Tags         accounting
// @Produce      json
// @Success      200 {object} APIResponse[finance.TrialBalance]
// @Security     BearerAuth
// @Router       /accounting/trial-balance [get]
func (h *AccountingHandler) TrialBalance(c *gin.Context) {
	tb, err := h.accountingService.TrialBalance(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tb)
}
