package handler

import (
	"context"

	appcrm "github.com/agency/backend/internal/application/crm"
	"github.com/agency/backend/internal/domain/crm"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EvaluationService is the customer evaluation use-case surface
type EvaluationService interface {
	Create(ctx context.Context, req appcrm.EvaluationRequest) (*appcrm.EvaluationResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*appcrm.EvaluationResponse, error)
	List(ctx context.Context, filter appcrm.EvaluationListFilter) ([]appcrm.EvaluationResponse, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Summary(ctx context.Context) (*crm.RatingSummary, error)
	RequestReview(ctx context.Context, req appcrm.ReviewRequest) (*appcrm.ReviewRequestResponse, error)
}

// EvaluationHandler handles evaluation endpoints
type EvaluationHandler struct {
	BaseHandler
	evaluationService EvaluationService
}

// NewEvaluationHandler creates a new EvaluationHandler
func NewEvaluationHandler(evaluationService EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{evaluationService: evaluationService}
}

// Create godoc
// @ID           createEvaluation
// @Summary      Record a customer rating
// @Tags         evaluations
// @Accept       json
// @Produce      json
// @Param        request body appcrm.EvaluationRequest true "Rating from 1 to 5"
// @Success      201 {object} APIResponse[appcrm.EvaluationResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /evaluations [post]
func (h *EvaluationHandler) Create(c *gin.Context) {
	var req appcrm.EvaluationRequest
	if !h.bindJSON(c, &req) {
		return
	}

	evaluation, err := h.evaluationService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, evaluation)
}

// GetByID godoc
// @ID           getEvaluationById
// @Summary      Get an evaluation
// @Tags         evaluations
// @Produce      json
// @Param        id path string true "Evaluation ID" format(uuid)
// @Success      200 {object} APIResponse[appcrm.EvaluationResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /evaluations/{id} [get]
func (h *EvaluationHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id", "evaluation")
	if !ok {
		return
	}

	evaluation, err := h.evaluationService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, evaluation)
}

// List godoc
// @ID           listEvaluations
// @Summary      List evaluations
// @Tags         evaluations
// @Produce      json
// @Param        customer_id query string false "Customer ID" format(uuid)
// @Param        rating query int false "Exact rating" minimum(1) maximum(5)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]appcrm.EvaluationResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /evaluations [get]
func (h *EvaluationHandler) List(c *gin.Context) {
	var filter appcrm.EvaluationListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	pageOf(&filter.Page, &filter.PageSize)

	evaluations, total, err := h.evaluationService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, evaluations, total, filter.Page, filter.PageSize)
}

// Delete godoc
// @ID           deleteEvaluation
// @Summary      Delete an evaluation
// @Tags         evaluations
// @Param        id path string true "Evaluation ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /evaluations/{id} [delete]
func (h *EvaluationHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id", "evaluation")
	if !ok {
		return
	}

	if err := h.evaluationService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Summary godoc
// @ID           getEvaluationSummary
// @Summary      Rating count, average and distribution
// @Tags         evaluations
// @Produce      json
// @Success      200 {object} APIResponse[crm.RatingSummary]
// @Security     BearerAuth
// @Router       /evaluations/summary [get]
func (h *EvaluationHandler) Summary(c *gin.Context) {
	summary, err := h.evaluationService.Summary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// RequestReview godoc
// @ID           requestGoogleReview
// @Summary      Ask a customer for a Google review
// @Description  Sent by WhatsApp when the customer has a phone and the gateway is configured, by email otherwise
// @Tags         evaluations
// @Accept       json
// @Produce      json
// @Param        request body appcrm.ReviewRequest true "Customer and optional message"
// @Success      200 {object} APIResponse[appcrm.ReviewRequestResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      502 {object} dto.ErrorResponse
// @Failure      503 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /evaluations/review-request [post]
func (h *EvaluationHandler) RequestReview(c *gin.Context) {
	var req appcrm.ReviewRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.evaluationService.RequestReview(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
