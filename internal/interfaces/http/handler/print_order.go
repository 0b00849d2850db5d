package handler

import (
	"context"
	"io"

	appprinting "github.com/agency/backend/internal/application/printing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PrintOrderService is the print pipeline use-case surface
type PrintOrderService interface {
	Create(ctx context.Context, req appprinting.PrintOrderRequest) (*appprinting.PrintOrderResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*appprinting.PrintOrderResponse, error)
	List(ctx context.Context, filter appprinting.PrintOrderListFilter) ([]appprinting.PrintOrderResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req appprinting.PrintOrderRequest) (*appprinting.PrintOrderResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req appprinting.UpdatePrintStatusRequest) (*appprinting.PrintOrderResponse, error)
	Advance(ctx context.Context, id uuid.UUID) (*appprinting.PrintOrderResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	StageSummary(ctx context.Context) ([]appprinting.StageCount, error)
	AttachDesignFile(ctx context.Context, id uuid.UUID, filename, contentType string, body io.Reader, size int64) (*appprinting.PrintOrderResponse, error)
	DesignFileURL(ctx context.Context, id uuid.UUID) (*appprinting.FileURLResponse, error)
}

// PrintOrderHandler handles print order endpoints
type PrintOrderHandler struct {
	BaseHandler
	printOrderService PrintOrderService
}

// NewPrintOrderHandler creates a new PrintOrderHandler
func NewPrintOrderHandler(printOrderService PrintOrderService) *PrintOrderHandler {
	return &PrintOrderHandler{printOrderService: printOrderService}
}

// Create godoc
// @ID           createPrintOrder
// @Summary      Create a print order
// @Description  New print orders start in the pending stage. Material usage is estimated from size, sides and quantity.
// @Tags         print-orders
// @Accept       json
// @Produce      json
// @Param        request body appprinting.PrintOrderRequest true "Print order details"
// @Success      201 {object} APIResponse[appprinting.PrintOrderResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /print-orders [post]
func (h *PrintOrderHandler) Create(c *gin.Context) {
	var req appprinting.PrintOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	po, err := h.printOrderService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, po)
}

// GetByID godoc
// @ID           getPrintOrderById
// @Summary      Get print order by ID
// @Tags         print-orders
// @Produce      json
// @Param        id path string true "Print order ID" format(uuid)
// @Success      200 {object} APIResponse[appprinting.PrintOrderResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /print-orders/{id} [get]
func (h *PrintOrderHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id", "print order")
	if !ok {
		return
	}

	po, err := h.printOrderService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, po)
}

// List godoc
// @ID           listPrintOrders
// @Summary      List print orders
// @Tags         print-orders
// @Produce      json
// @Param        search query string false "Matches number and title"
// @Param        status query string false "Pipeline stage" Enums(pending, in_design, design_completed, ready_for_print, printing, printed, quality_check, completed)
// @Param        material_id query string false "Material ID" format(uuid)
// @Param        assigned_to query string false "Assignee"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]appprinting.PrintOrderResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /print-orders [get]
func (h *PrintOrderHandler) List(c *gin.Context) {
	var filter appprinting.PrintOrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	pageOf(&filter.Page, &filter.PageSize)

	orders, total, err := h.printOrderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updatePrintOrder
// @Summary      Update a print order
// @Tags         print-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Print order ID" format(uuid)
// @Param        request body appprinting.PrintOrderRequest true "Print order details"
// @Success      200 {object} APIResponse[appprinting.PrintOrderResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /print-orders/{id} [put]
func (h *PrintOrderHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id", "print order")
	if !ok {
		return
	}
	var req appprinting.PrintOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	po, err := h.printOrderService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, po)
}

// UpdateStatus godoc
// @ID           updatePrintOrderStatus
// @Summary      Move a print order to a stage
// @Description  Stages only move forward. Reaching printing consumes material stock.
// @Tags         print-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Print order ID" format(uuid)
// @Param        request body appprinting.UpdatePrintStatusRequest true "Target stage"
// @Success      200 {object} APIResponse[appprinting.PrintOrderResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /print-orders/{id}/status [put]
func (h *PrintOrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.parseID(c, "id", "print order")
	if !ok {
		return
	}
	var req appprinting.UpdatePrintStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	po, err := h.printOrderService.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, po)
}

// Advance godoc
// @ID           advancePrintOrder
// @Summary      Move a print order to the next stage
// @Tags         print-orders
// @Produce      json
// @Param        id path string true "Print order ID" format(uuid)
// @Success      200 {object} APIResponse[appprinting.PrintOrderResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /print-orders/{id}/advance [post]
func (h *PrintOrderHandler) Advance(c *gin.Context) {
	id, ok := h.parseID(c, "id", "print order")
	if !ok {
		return
	}

	po, err := h.printOrderService.Advance(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, po)
}

// Delete godoc
// @ID           deletePrintOrder
// @Summary      Delete a print order
// @Tags         print-orders
// @Param        id path string true "Print order ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /print-orders/{id} [delete]
func (h *PrintOrderHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id", "print order")
	if !ok {
		return
	}

	if err := h.printOrderService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// StageSummary godoc
// @ID           getPrintStageSummary
// @Summary      Count print orders per stage
// @Tags         print-orders
// @Produce      json
// @Success      200 {object} APIResponse[[]appprinting.StageCount]
// @Security     BearerAuth
// @Router       /print-orders/stages [get]
func (h *PrintOrderHandler) StageSummary(c *gin.Context) {
	stages, err := h.printOrderService.StageSummary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stages)
}

// UploadDesignFile godoc
// @ID           uploadPrintDesignFile
// @Summary      Attach the design file
// @Tags         print-orders
// @Accept       multipart/form-data
// @Produce      json
// @Param        id path string true "Print order ID" format(uuid)
// @Param        file formData file true "Design file"
// @Success      200 {object} APIResponse[appprinting.PrintOrderResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      413 {object} dto.ErrorResponse
// @Failure      415 {object} dto.ErrorResponse
// @Failure      503 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /print-orders/{id}/design-file [post]
func (h *PrintOrderHandler) UploadDesignFile(c *gin.Context) {
	id, ok := h.parseID(c, "id", "print order")
	if !ok {
		return
	}
	up, ok := h.openUpload(c)
	if !ok {
		return
	}
	defer up.Body.Close()

	po, err := h.printOrderService.AttachDesignFile(c.Request.Context(), id, up.Filename, up.ContentType, up.Body, up.Size)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, po)
}

// DesignFileURL godoc
// @ID           getPrintDesignFileUrl
// @Summary      Get a download link for the design file
// @Tags         print-orders
// @Produce      json
// @Param        id path string true "Print order ID" format(uuid)
// @Success      200 {object} APIResponse[FileURLData]
// @Failure      404 {object} dto.ErrorResponse
// @Failure      503 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /print-orders/{id}/design-file [get]
func (h *PrintOrderHandler) DesignFileURL(c *gin.Context) {
	id, ok := h.parseID(c, "id", "print order")
	if !ok {
		return
	}

	file, err := h.printOrderService.DesignFileURL(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newFileURLData(file.URL, file.ExpiresAt))
}
