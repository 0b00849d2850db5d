package handler

import (
	"context"

	appintegration "github.com/agency/backend/internal/application/integration"
	"github.com/agency/backend/internal/domain/integration"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WebhookService is the webhook settings use-case surface
type WebhookService interface {
	Events() []appintegration.EventInfo
	Create(ctx context.Context, req appintegration.WebhookRequest) (*appintegration.WebhookResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*appintegration.WebhookResponse, error)
	List(ctx context.Context) ([]appintegration.WebhookResponse, error)
	Update(ctx context.Context, id uuid.UUID, req appintegration.WebhookRequest) (*appintegration.WebhookResponse, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*appintegration.WebhookResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Test(ctx context.Context, req appintegration.TestWebhookRequest) (*integration.DeliveryResult, error)
}

// WebhookHandler handles webhook settings endpoints
type WebhookHandler struct {
	BaseHandler
	webhookService WebhookService
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(webhookService WebhookService) *WebhookHandler {
	return &WebhookHandler{webhookService: webhookService}
}

// Events godoc
// @ID           listWebhookEvents
// @Summary      List subscribable events
// @Tags         webhooks
// @Produce      json
// @Success      200 {object} APIResponse[[]appintegration.EventInfo]
// @Security     BearerAuth
// @Router       /webhooks/events [get]
func (h *WebhookHandler) Events(c *gin.Context) {
	h.Success(c, h.webhookService.Events())
}

// Create godoc
// @ID           createWebhook
// @Summary      Register a webhook
// @Description  Only http and https URLs are accepted
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        request body appintegration.WebhookRequest true "Webhook details"
// @Success      201 {object} APIResponse[appintegration.WebhookResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /webhooks [post]
func (h *WebhookHandler) Create(c *gin.Context) {
	var req appintegration.WebhookRequest
	if !h.bindJSON(c, &req) {
		return
	}

	webhook, err := h.webhookService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, webhook)
}

// GetByID godoc
// @ID           getWebhookById
// @Summary      Get a webhook
// @Tags         webhooks
// @Produce      json
// @Param        id path string true "Webhook ID" format(uuid)
// @Success      200 {object} APIResponse[appintegration.WebhookResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /webhooks/{id} [get]
func (h *WebhookHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id", "webhook")
	if !ok {
		return
	}

	webhook, err := h.webhookService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, webhook)
}

// List godoc
// @ID           listWebhooks
// @Summary      List webhooks
// @Tags         webhooks
// @Produce      json
// @Success      200 {object} APIResponse[[]appintegration.WebhookResponse]
// @Security     BearerAuth
// @Router       /webhooks [get]
func (h *WebhookHandler) List(c *gin.Context) {
	webhooks, err := h.webhookService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, webhooks)
}

// Update godoc
// @ID           updateWebhook
// @Summary      Update a webhook
// @Description  An empty secret keeps the stored one
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        id path string true "Webhook ID" format(uuid)
// @Param        request body appintegration.WebhookRequest true "Webhook details"
// @Success      200 {object} APIResponse[appintegration.WebhookResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /webhooks/{id} [put]
func (h *WebhookHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id", "webhook")
	if !ok {
		return
	}
	var req appintegration.WebhookRequest
	if !h.bindJSON(c, &req) {
		return
	}

	webhook, err := h.webhookService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, webhook)
}

// SetActive godoc
// @ID           setWebhookActive
// @Summary      Enable or disable a webhook
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        id path string true "Webhook ID" format(uuid)
// @Param        request body ActiveRequest true "Activation flag"
// @Success      200 {object} APIResponse[appintegration.WebhookResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /webhooks/{id}/active [put]
func (h *WebhookHandler) SetActive(c *gin.Context) {
	id, ok := h.parseID(c, "id", "webhook")
	if !ok {
		return
	}
	var req ActiveRequest
	if !h.bindJSON(c, &req) {
		return
	}

	webhook, err := h.webhookService.SetActive(c.Request.Context(), id, *req.Active)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, webhook)
}

// Delete godoc
// @ID           deleteWebhook
// @Summary      Delete a webhook
// @Tags         webhooks
// @Param        id path string true "Webhook ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /webhooks/{id} [delete]
func (h *WebhookHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id", "webhook")
	if !ok {
		return
	}

	if err := h.webhookService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Test godoc
// @ID           testWebhook
// @Summary      Send a sample delivery
// @Description  Targets a saved webhook by ID or an ad-hoc URL. A failed delivery is reported in the result, not as an error.
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        request body appintegration.TestWebhookRequest true "Delivery target"
// @Success      200 {object} APIResponse[integration.DeliveryResult]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /webhooks/test [post]
func (h *WebhookHandler) Test(c *gin.Context) {
	var req appintegration.TestWebhookRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.webhookService.Test(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
