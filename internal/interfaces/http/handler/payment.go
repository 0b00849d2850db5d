package handler

import (
	"context"

	appfinance "github.com/agency/backend/internal/application/finance"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentService is the payment use-case surface
type PaymentService interface {
	Record(ctx context.Context, req appfinance.RecordPaymentRequest) (*appfinance.PaymentResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*appfinance.PaymentResponse, error)
	List(ctx context.Context, filter appfinance.PaymentListFilter) ([]appfinance.PaymentResponse, int64, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]appfinance.PaymentResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PaymentHandler handles payment endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Record godoc
// @ID           recordPayment
// @Summary      Record a payment against an order
// @Description  The amount may not exceed the order's remaining balance. The order's paid amount and status are updated with the payment.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body appfinance.RecordPaymentRequest true "Payment details"
// @Success      201 {object} APIResponse[appfinance.PaymentResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /payments [post]
func (h *PaymentHandler) Record(c *gin.Context) {
	var req appfinance.RecordPaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	payment, err := h.paymentService.Record(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, payment)
}

// GetByID godoc
// @ID           getPaymentById
// @Summary      Get payment by ID
// @Tags         payments
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Success      200 {object} APIResponse[appfinance.PaymentResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /payments/{id} [get]
func (h *PaymentHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id", "payment")
	if !ok {
		return
	}

	payment, err := h.paymentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payment)
}

// List godoc
// @ID           listPayments
// @Summary      List payments
// @Tags         payments
// @Produce      json
// @Param        search query string false "Matches reference and notes"
// @Param        order_id query string false "Order ID" format(uuid)
// @Param        customer_id query string false "Customer ID" format(uuid)
// @Param        method query string false "Payment method" Enums(cash, bank_transfer, card, cheque, other)
// @Param        from query string false "Paid on or after" format(date)
// @Param        to query string false "Paid on or before" format(date)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]appfinance.PaymentResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	var filter appfinance.PaymentListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	pageOf(&filter.Page, &filter.PageSize)

	payments, total, err := h.paymentService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, payments, total, filter.Page, filter.PageSize)
}

// ListByOrder godoc
// @ID           listOrderPayments
// @Summary      List the payments of an order
// @Tags         payments
// @Produce      json
// @Param        order_id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[[]appfinance.PaymentResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /payments/by-order/{order_id} [get]
func (h *PaymentHandler) ListByOrder(c *gin.Context) {
	orderID, ok := h.parseID(c, "order_id", "order")
	if !ok {
		return
	}

	payments, err := h.paymentService.ListByOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payments)
}

// Delete godoc
// @ID           deletePayment
// @Summary      Delete a payment
// @Description  The order's paid amount is reduced and its journal entry reversed
// @Tags         payments
// @Param        id path string true "Payment ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /payments/{id} [delete]
func (h *PaymentHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id", "payment")
	if !ok {
		return
	}

	if err := h.paymentService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
