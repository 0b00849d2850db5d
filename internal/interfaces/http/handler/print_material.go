package handler

import (
	"context"

	appprinting "github.com/agency/backend/internal/application/printing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MaterialService is the print material use-case surface
type MaterialService interface {
	Create(ctx context.Context, req appprinting.MaterialRequest) (*appprinting.MaterialResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*appprinting.MaterialResponse, error)
	List(ctx context.Context, filter appprinting.MaterialListFilter) ([]appprinting.MaterialResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req appprinting.MaterialRequest) (*appprinting.MaterialResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AdjustStock(ctx context.Context, id uuid.UUID, req appprinting.AdjustStockRequest) (*appprinting.MaterialResponse, error)
	LowStock(ctx context.Context) ([]appprinting.MaterialResponse, error)
}

// MaterialHandler handles print material endpoints
type MaterialHandler struct {
	BaseHandler
	materialService MaterialService
}

// NewMaterialHandler creates a new MaterialHandler
func NewMaterialHandler(materialService MaterialService) *MaterialHandler {
	return &MaterialHandler{materialService: materialService}
}

// Create godoc
// @ID           createPrintMaterial
// @Summary      Add a print material
// @Tags         print-materials
// @Accept       json
// @Produce      json
// @Param        request body appprinting.MaterialRequest true "Material details"
// @Success      201 {object} APIResponse[appprinting.MaterialResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /print-materials [post]
func (h *MaterialHandler) Create(c *gin.Context) {
	var req appprinting.MaterialRequest
	if !h.bindJSON(c, &req) {
		return
	}

	material, err := h.materialService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, material)
}

// GetByID godoc
// @ID           getPrintMaterialById
// @Summary      Get a print material
// @Tags         print-materials
// @Produce      json
// @Param        id path string true "Material ID" format(uuid)
// @Success      200 {object} APIResponse[appprinting.MaterialResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /print-materials/{id} [get]
func (h *MaterialHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id", "material")
	if !ok {
		return
	}

	material, err := h.materialService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, material)
}

// List godoc
// @ID           listPrintMaterials
// @Summary      List print materials
// @Tags         print-materials
// @Produce      json
// @Param        search query string false "Matches name and type"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]appprinting.MaterialResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /print-materials [get]
func (h *MaterialHandler) List(c *gin.Context) {
	var filter appprinting.MaterialListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	pageOf(&filter.Page, &filter.PageSize)

	materials, total, err := h.materialService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, materials, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updatePrintMaterial
// @Summary      Update a print material
// @Description  Stock is changed through the stock endpoint only
// @Tags         print-materials
// @Accept       json
// @Produce      json
// @Param        id path string true "Material ID" format(uuid)
// @Param        request body appprinting.MaterialRequest true "Material details"
// @Success      200 {object} APIResponse[appprinting.MaterialResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /print-materials/{id} [put]
func (h *MaterialHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id", "material")
	if !ok {
		return
	}
	var req appprinting.MaterialRequest
	if !h.bindJSON(c, &req) {
		return
	}

	material, err := h.materialService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, material)
}

// Delete godoc
// @ID           deletePrintMaterial
// @Summary      Delete a print material
// @Description  Materials used by print orders cannot be deleted
// @Tags         print-materials
// @Param        id path string true "Material ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /print-materials/{id} [delete]
func (h *MaterialHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id", "material")
	if !ok {
		return
	}

	if err := h.materialService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// AdjustStock godoc
// @ID           adjustPrintMaterialStock
// @Summary      Adjust a material's stock
// @Description  Negative deltas may not take stock below zero
// @Tags         print-materials
// @Accept       json
// @Produce      json
// @Param        id path string true "Material ID" format(uuid)
// @Param        request body appprinting.AdjustStockRequest true "Stock change"
// @Success      200 {object} APIResponse[appprinting.MaterialResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /print-materials/{id}/stock [post]
func (h *MaterialHandler) AdjustStock(c *gin.Context) {
	id, ok := h.parseID(c, "id", "material")
	if !ok {
		return
	}
	var req appprinting.AdjustStockRequest
	if !h.bindJSON(c, &req) {
		return
	}

	material, err := h.materialService.AdjustStock(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, material)
}

// LowStock godoc
// @ID           listLowStockPrintMaterials
// @Summary      List materials at or below their minimum stock
// @Tags         print-materials
// @Produce      json
// @Success      200 {object} APIResponse[[]appprinting.MaterialResponse]
// @Security     BearerAuth
// @Router       /print-materials/low-stock [get]
func (h *MaterialHandler) LowStock(c *gin.Context) {
	materials, err := h.materialService.LowStock(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, materials)
}
