package handler

import (
	"context"
	"fmt"
	"net/http"

	appfinance "github.com/agency/backend/internal/application/finance"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InvoiceService is the invoice use-case surface
type InvoiceService interface {
	GenerateNumber(ctx context.Context) (*appfinance.NumberResponse, error)
	Create(ctx context.Context, req appfinance.InvoiceRequest) (*appfinance.InvoiceResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*appfinance.InvoiceResponse, error)
	List(ctx context.Context, filter appfinance.InvoiceListFilter) ([]appfinance.InvoiceResponse, int64, error)
	Overdue(ctx context.Context) ([]appfinance.InvoiceResponse, error)
	Update(ctx context.Context, id uuid.UUID, req appfinance.InvoiceRequest) (*appfinance.InvoiceResponse, error)
	Issue(ctx context.Context, id uuid.UUID) (*appfinance.InvoiceResponse, error)
	CreateAccountingEntry(ctx context.Context, id uuid.UUID) (*appfinance.AccountingEntryResponse, error)
	RecordPayment(ctx context.Context, id uuid.UUID, req appfinance.InvoicePaymentRequest) (*appfinance.InvoiceResponse, error)
	Cancel(ctx context.Context, id uuid.UUID) (*appfinance.InvoiceResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	PDF(ctx context.Context, id uuid.UUID) ([]byte, string, error)
}

// InvoiceHandler handles invoice endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// GenerateNumber godoc
// @ID           generateInvoiceNumber
// @Summary      Reserve the next invoice number
// @Description  Numbers have the form INV-YYYYMM-NNNN and never repeat
// @Tags         invoices
// @Produce      json
// @Success      200 {object} APIResponse[appfinance.NumberResponse]
// @Security     BearerAuth
// @Router       /invoices/number [post]
func (h *InvoiceHandler) GenerateNumber(c *gin.Context) {
	number, err := h.invoiceService.GenerateNumber(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, number)
}

// Create godoc
// @ID           createInvoice
// @Summary      Create a draft invoice
// @Description  Totals are computed from the items; the tax rate defaults to the company setting
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body appfinance.InvoiceRequest true "Invoice details"
// @Success      201 {object} APIResponse[appfinance.InvoiceResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req appfinance.InvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, invoice)
}

// GetByID godoc
// @ID           getInvoiceById
// @Summary      Get invoice by ID
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[appfinance.InvoiceResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id", "invoice")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// List godoc
// @ID           listInvoices
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Param        search query string false "Matches invoice number"
// @Param        status query string false "Invoice status" Enums(draft, issued, partially_paid, paid, cancelled)
// @Param        customer_id query string false "Customer ID" format(uuid)
// @Param        order_id query string false "Order ID" format(uuid)
// @Param        from query string false "Issued on or after" format(date)
// @Param        to query string false "Issued on or before" format(date)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]appfinance.InvoiceResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	var filter appfinance.InvoiceListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	pageOf(&filter.Page, &filter.PageSize)

	invoices, total, err := h.invoiceService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, invoices, total, filter.Page, filter.PageSize)
}

// Overdue godoc
// @ID           listOverdueInvoices
// @Summary      List overdue invoices
// @Description  Issued or partially paid invoices whose due date has passed
// @Tags         invoices
// @Produce      json
// @Success      200 {object} APIResponse[[]appfinance.InvoiceResponse]
// @Security     BearerAuth
// @Router       /invoices/overdue [get]
func (h *InvoiceHandler) Overdue(c *gin.Context) {
	invoices, err := h.invoiceService.Overdue(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoices)
}

// Update godoc
// @ID           updateInvoice
// @Summary      Update a draft invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body appfinance.InvoiceRequest true "Invoice details"
// @Success      200 {object} APIResponse[appfinance.InvoiceResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id} [put]
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id", "invoice")
	if !ok {
		return
	}
	var req appfinance.InvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// Issue godoc
// @ID           issueInvoice
// @Summary      Issue a draft invoice
// @Description  Issuing posts the receivable to the journal
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[appfinance.InvoiceResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/issue [post]
func (h *InvoiceHandler) Issue(c *gin.Context) {
	h.transition(c, h.invoiceService.Issue)
}

// CreateAccountingEntry godoc
// @ID           createInvoiceAccountingEntry
// @Summary      Post the invoice's journal entry
// @Description  Idempotent: an existing entry is returned with created=false
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[appfinance.AccountingEntryResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/accounting-entry [post]
func (h *InvoiceHandler) CreateAccountingEntry(c *gin.Context) {
	id, ok := h.parseID(c, "id", "invoice")
	if !ok {
		return
	}

	result, err := h.invoiceService.CreateAccountingEntry(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RecordPayment godoc
// @ID           recordInvoicePayment
// @Summary      Record a payment against an invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body appfinance.InvoicePaymentRequest true "Amount paid"
// @Success      200 {object} APIResponse[appfinance.InvoiceResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/payment [post]
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	id, ok := h.parseID(c, "id", "invoice")
	if !ok {
		return
	}
	var req appfinance.InvoicePaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.RecordPayment(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// Cancel godoc
// @ID           cancelInvoice
// @Summary      Cancel an invoice
// @Description  A posted invoice gets a reversing journal entry
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[appfinance.InvoiceResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/cancel [post]
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	h.transition(c, h.invoiceService.Cancel)
}

// Delete godoc
// @ID           deleteInvoice
// @Summary      Delete a draft invoice
// @Tags         invoices
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id", "invoice")
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// PDF godoc
// @ID           downloadInvoicePdf
// @Summary      Download the invoice as PDF
// @Tags         invoices
// @Produce      application/pdf
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {file} binary
// @Failure      404 {object} dto.ErrorResponse
// @Failure      503 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/pdf [get]
func (h *InvoiceHandler) PDF(c *gin.Context) {
	id, ok := h.parseID(c, "id", "invoice")
	if !ok {
		return
	}

	pdf, filename, err := h.invoiceService.PDF(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *InvoiceHandler) transition(c *gin.Context, fn func(context.Context, uuid.UUID) (*appfinance.InvoiceResponse, error)) {
	id, ok := h.parseID(c, "id", "invoice")
	if !ok {
		return
	}

	invoice, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}
