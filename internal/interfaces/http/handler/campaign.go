package handler

import (
	"context"

	appcrm "github.com/agency/backend/internal/application/crm"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CampaignService is the bulk message campaign use-case surface
type CampaignService interface {
	Create(ctx context.Context, req appcrm.CampaignRequest) (*appcrm.CampaignResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*appcrm.CampaignResponse, error)
	List(ctx context.Context, filter appcrm.CampaignListFilter) ([]appcrm.CampaignResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req appcrm.CampaignRequest) (*appcrm.CampaignResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Schedule(ctx context.Context, id uuid.UUID, req appcrm.ScheduleCampaignRequest) (*appcrm.CampaignResponse, error)
	Send(ctx context.Context, id uuid.UUID) (*appcrm.CampaignResponse, error)
	ListRecipients(ctx context.Context, id uuid.UUID) ([]appcrm.RecipientResponse, error)
}

// CampaignHandler handles campaign endpoints
type CampaignHandler struct {
	BaseHandler
	campaignService CampaignService
}

// NewCampaignHandler creates a new CampaignHandler
func NewCampaignHandler(campaignService CampaignService) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService}
}

// Create godoc
// @ID           createCampaign
// @Summary      Create a draft campaign
// @Description  Recipients are the group's members or the listed customers
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Param        request body appcrm.CampaignRequest true "Campaign details"
// @Success      201 {object} APIResponse[appcrm.CampaignResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /campaigns [post]
func (h *CampaignHandler) Create(c *gin.Context) {
	var req appcrm.CampaignRequest
	if !h.bindJSON(c, &req) {
		return
	}

	campaign, err := h.campaignService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, campaign)
}

// GetByID godoc
// @ID           getCampaignById
// @Summary      Get a campaign
// @Tags         campaigns
// @Produce      json
// @Param        id path string true "Campaign ID" format(uuid)
// @Success      200 {object} APIResponse[appcrm.CampaignResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /campaigns/{id} [get]
func (h *CampaignHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id", "campaign")
	if !ok {
		return
	}

	campaign, err := h.campaignService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, campaign)
}

// List godoc
// @ID           listCampaigns
// @Summary      List campaigns
// @Tags         campaigns
// @Produce      json
// @Param        search query string false "Matches name"
// @Param        status query string false "Status" Enums(draft, scheduled, sending, completed, failed)
// @Param        channel query string false "Channel" Enums(whatsapp, email)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]appcrm.CampaignResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /campaigns [get]
func (h *CampaignHandler) List(c *gin.Context) {
	var filter appcrm.CampaignListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	pageOf(&filter.Page, &filter.PageSize)

	campaigns, total, err := h.campaignService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, campaigns, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateCampaign
// @Summary      Update a draft or scheduled campaign
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Param        id path string true "Campaign ID" format(uuid)
// @Param        request body appcrm.CampaignRequest true "Campaign details"
// @Success      200 {object} APIResponse[appcrm.CampaignResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /campaigns/{id} [put]
func (h *CampaignHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id", "campaign")
	if !ok {
		return
	}
	var req appcrm.CampaignRequest
	if !h.bindJSON(c, &req) {
		return
	}

	campaign, err := h.campaignService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, campaign)
}

// Delete godoc
// @ID           deleteCampaign
// @Summary      Delete a campaign
// @Description  Campaigns being sent cannot be deleted
// @Tags         campaigns
// @Param        id path string true "Campaign ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /campaigns/{id} [delete]
func (h *CampaignHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id", "campaign")
	if !ok {
		return
	}

	if err := h.campaignService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Schedule godoc
// @ID           scheduleCampaign
// @Summary      Schedule a campaign
// @Description  The scheduler sends it once scheduled_at has passed
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Param        id path string true "Campaign ID" format(uuid)
// @Param        request body appcrm.ScheduleCampaignRequest true "Send time"
// @Success      200 {object} APIResponse[appcrm.CampaignResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /campaigns/{id}/schedule [post]
func (h *CampaignHandler) Schedule(c *gin.Context) {
	id, ok := h.parseID(c, "id", "campaign")
	if !ok {
		return
	}
	var req appcrm.ScheduleCampaignRequest
	if !h.bindJSON(c, &req) {
		return
	}

	campaign, err := h.campaignService.Schedule(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, campaign)
}

// Send godoc
// @ID           sendCampaign
// @Summary      Send a campaign now
// @Description  Each recipient's outcome is recorded; one failed recipient does not stop the rest
// @Tags         campaigns
// @Produce      json
// @Param        id path string true "Campaign ID" format(uuid)
// @Success      200 {object} APIResponse[appcrm.CampaignResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      503 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /campaigns/{id}/send [post]
func (h *CampaignHandler) Send(c *gin.Context) {
	id, ok := h.parseID(c, "id", "campaign")
	if !ok {
		return
	}

	campaign, err := h.campaignService.Send(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, campaign)
}

// ListRecipients godoc
// @ID           listCampaignRecipients
// @Summary      List a campaign's delivery results
// @Tags         campaigns
// @Produce      json
// @Param        id path string true "Campaign ID" format(uuid)
// @Success      200 {object} APIResponse[[]appcrm.RecipientResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /campaigns/{id}/recipients [get]
func (h *CampaignHandler) ListRecipients(c *gin.Context) {
	id, ok := h.parseID(c, "id", "campaign")
	if !ok {
		return
	}

	recipients, err := h.campaignService.ListRecipients(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, recipients)
}
