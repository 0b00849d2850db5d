package handler

import (
	"context"
	"io"
	"time"

	appfinance "github.com/agency/backend/internal/application/finance"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ExpenseService is the expense use-case surface
type ExpenseService interface {
	GenerateNumber(ctx context.Context) (*appfinance.NumberResponse, error)
	Create(ctx context.Context, req appfinance.ExpenseRequest) (*appfinance.ExpenseResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*appfinance.ExpenseResponse, error)
	List(ctx context.Context, filter appfinance.ExpenseListFilter) ([]appfinance.ExpenseResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req appfinance.ExpenseRequest) (*appfinance.ExpenseResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AttachReceipt(ctx context.Context, id uuid.UUID, filename, contentType string, body io.Reader, size int64) (*appfinance.ExpenseResponse, error)
	ReceiptURL(ctx context.Context, id uuid.UUID) (string, time.Time, error)
}

// ExpenseHandler handles expense endpoints
type ExpenseHandler struct {
	BaseHandler
	expenseService ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// GenerateNumber godoc
// @ID           generateExpenseNumber
// @Summary      Reserve the next expense number
// @Tags         expenses
// @Produce      json
// @Success      200 {object} APIResponse[appfinance.NumberResponse]
// @Security     BearerAuth
// @Router       /expenses/number [post]
func (h *ExpenseHandler) GenerateNumber(c *gin.Context) {
	number, err := h.expenseService.GenerateNumber(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, number)
}

// Create godoc
// @ID           createExpense
// @Summary      Record an expense
// @Description  The expense is posted to the journal against its expense account and cash
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        request body appfinance.ExpenseRequest true "Expense details"
// @Success      201 {object} APIResponse[appfinance.ExpenseResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req appfinance.ExpenseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	expense, err := h.expenseService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, expense)
}

// GetByID godoc
// @ID           getExpenseById
// @Summary      Get expense by ID
// @Tags         expenses
// @Produce      json
// @Param        id path string true "Expense ID" format(uuid)
// @Success      200 {object} APIResponse[appfinance.ExpenseResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /expenses/{id} [get]
func (h *ExpenseHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id", "expense")
	if !ok {
		return
	}

	expense, err := h.expenseService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, expense)
}

// List godoc
// @ID           listExpenses
// @Summary      List expenses
// @Tags         expenses
// @Produce      json
// @Param        search query string false "Matches number, description and vendor"
// @Param        category query string false "Category" Enums(rent, salaries, utilities, supplies, marketing, transport, maintenance, other)
// @Param        from query string false "Spent on or after" format(date)
// @Param        to query string false "Spent on or before" format(date)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]appfinance.ExpenseResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	var filter appfinance.ExpenseListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	pageOf(&filter.Page, &filter.PageSize)

	expenses, total, err := h.expenseService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, expenses, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateExpense
// @Summary      Update an expense
// @Description  The journal entry is reversed and reposted when the amount or account changes
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        id path string true "Expense ID" format(uuid)
// @Param        request body appfinance.ExpenseRequest true "Expense details"
// @Success      200 {object} APIResponse[appfinance.ExpenseResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /expenses/{id} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id", "expense")
	if !ok {
		return
	}
	var req appfinance.ExpenseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	expense, err := h.expenseService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, expense)
}

// Delete godoc
// @ID           deleteExpense
// @Summary      Delete an expense
// @Tags         expenses
// @Param        id path string true "Expense ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id", "expense")
	if !ok {
		return
	}

	if err := h.expenseService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// UploadReceipt godoc
// @ID           uploadExpenseReceipt
// @Summary      Attach a receipt to an expense
// @Tags         expenses
// @Accept       multipart/form-data
// @Produce      json
// @Param        id path string true "Expense ID" format(uuid)
// @Param        file formData file true "Receipt image or PDF"
// @Success      200 {object} APIResponse[appfinance.ExpenseResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      413 {object} dto.ErrorResponse
// @Failure      503 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /expenses/{id}/receipt [post]
func (h *ExpenseHandler) UploadReceipt(c *gin.Context) {
	id, ok := h.parseID(c, "id", "expense")
	if !ok {
		return
	}
	up, ok := h.openUpload(c)
	if !ok {
		return
	}
	defer up.Body.Close()

	expense, err := h.expenseService.AttachReceipt(c.Request.Context(), id, up.Filename, up.ContentType, up.Body, up.Size)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, expense)
}

// ReceiptURL godoc
// @ID           getExpenseReceiptUrl
// @Summary      Get a download link for the receipt
// @Tags         expenses
// @Produce      json
// @Param        id path string true "Expense ID" format(uuid)
// @Success      200 {object} APIResponse[FileURLData]
// @Failure      404 {object} dto.ErrorResponse
// @Failure      503 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /expenses/{id}/receipt [get]
func (h *ExpenseHandler) ReceiptURL(c *gin.Context) {
	id, ok := h.parseID(c, "id", "expense")
	if !ok {
		return
	}

	url, expiresAt, err := h.expenseService.ReceiptURL(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newFileURLData(url, expiresAt))
}
