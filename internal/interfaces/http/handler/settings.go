package handler

import (
	"context"
	"io"
	"time"

	appsettings "github.com/agency/backend/internal/application/settings"
	"github.com/gin-gonic/gin"
)

// SettingsService is the company profile use-case surface
type SettingsService interface {
	Get(ctx context.Context) (*appsettings.CompanySettingsResponse, error)
	Update(ctx context.Context, req appsettings.CompanySettingsRequest) (*appsettings.CompanySettingsResponse, error)
	UploadLogo(ctx context.Context, filename, contentType string, body io.Reader, size int64) (*appsettings.CompanySettingsResponse, error)
	LogoURL(ctx context.Context) (string, time.Time, error)
}

// SettingsHandler handles company settings endpoints
type SettingsHandler struct {
	BaseHandler
	settingsService SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// Get godoc
// @ID           getCompanySettings
// @Summary      Get the company profile
// @Description  Defaults are returned until the profile is first saved
// @Tags         settings
// @Produce      json
// @Success      200 {object} APIResponse[appsettings.CompanySettingsResponse]
// @Security     BearerAuth
// @Router       /settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	current, err := h.settingsService.Get(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, current)
}

// Update godoc
// @ID           updateCompanySettings
// @Summary      Update the company profile
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        request body appsettings.CompanySettingsRequest true "Company profile"
// @Success      200 {object} APIResponse[appsettings.CompanySettingsResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	var req appsettings.CompanySettingsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	updated, err := h.settingsService.Update(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, updated)
}

// UploadLogo godoc
// @ID           uploadCompanyLogo
// @Summary      Upload the company logo
// @Description  PNG, JPEG, WebP or SVG up to 2 MB. The previous logo is removed.
// @Tags         settings
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Logo image"
// @Success      200 {object} APIResponse[appsettings.CompanySettingsResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      413 {object} dto.ErrorResponse
// @Failure      415 {object} dto.ErrorResponse
// @Failure      503 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /settings/logo [post]
func (h *SettingsHandler) UploadLogo(c *gin.Context) {
	up, ok := h.openUpload(c)
	if !ok {
		return
	}
	defer up.Body.Close()

	updated, err := h.settingsService.UploadLogo(c.Request.Context(), up.Filename, up.ContentType, up.Body, up.Size)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, updated)
}

// LogoURL godoc
// @ID           getCompanyLogoUrl
// @Summary      Get a download link for the logo
// @Tags         settings
// @Produce      json
// @Success      200 {object} APIResponse[FileURLData]
// @Failure      404 {object} dto.ErrorResponse
// @Failure      503 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /settings/logo [get]
func (h *SettingsHandler) LogoURL(c *gin.Context) {
	url, expiresAt, err := h.settingsService.LogoURL(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newFileURLData(url, expiresAt))
}
