package settings

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/agency/backend/internal/domain/settings"
	"github.com/agency/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MaxLogoSize is the largest accepted logo upload in bytes
const MaxLogoSize = 2 << 20

var logoContentTypes = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

// CompanySettingsRequest is the body of PUT /settings
type CompanySettingsRequest struct {
	CompanyName        string          `json:"company_name" binding:"required,max=200"`
	Phone              string          `json:"phone" binding:"max=30"`
	Email              string          `json:"email" binding:"omitempty,email"`
	Address            string          `json:"address" binding:"max=500"`
	TaxNumber          string          `json:"tax_number" binding:"max=50"`
	Currency           string          `json:"currency" binding:"required,len=3"`
	DefaultTaxRate     decimal.Decimal `json:"default_tax_rate"`
	GoogleReviewURL    string          `json:"google_review_url"`
	WhatsAppGatewayURL string          `json:"whatsapp_gateway_url"`
}

// CompanySettingsResponse is the company profile as returned by the API
type CompanySettingsResponse struct {
	CompanyName        string          `json:"company_name"`
	Phone              string          `json:"phone"`
	Email              string          `json:"email"`
	Address            string          `json:"address"`
	TaxNumber          string          `json:"tax_number"`
	Currency           string          `json:"currency"`
	DefaultTaxRate     decimal.Decimal `json:"default_tax_rate"`
	LogoKey            string          `json:"logo_key,omitempty"`
	GoogleReviewURL    string          `json:"google_review_url"`
	WhatsAppGatewayURL string          `json:"whatsapp_gateway_url"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// ToCompanySettingsResponse converts the domain settings to a response
func ToCompanySettingsResponse(s *settings.CompanySettings) CompanySettingsResponse {
	return CompanySettingsResponse{
		CompanyName:        s.CompanyName,
		Phone:              s.Phone,
		Email:              s.Email,
		Address:            s.Address,
		TaxNumber:          s.TaxNumber,
		Currency:           s.Currency,
		DefaultTaxRate:     s.DefaultTaxRate,
		LogoKey:            s.LogoKey,
		GoogleReviewURL:    s.GoogleReviewURL,
		WhatsAppGatewayURL: s.WhatsAppGatewayURL,
		UpdatedAt:          s.UpdatedAt,
	}
}

// SettingsService manages the company profile
type SettingsService struct {
	repo   settings.CompanySettingsRepository
	assets shared.ObjectStorage
	logger *zap.Logger
	now    func() time.Time
}

// NewSettingsService creates a new SettingsService. assets is the
// company-assets bucket and may be nil.
func NewSettingsService(repo settings.CompanySettingsRepository, assets shared.ObjectStorage, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, assets: assets, logger: logger, now: time.Now}
}

// load returns the saved settings or the defaults
func (s *SettingsService) load(ctx context.Context) (*settings.CompanySettings, error) {
	current, err := s.repo.Get(ctx)
	if err != nil {
		if shared.IsNotFound(err) {
			return settings.DefaultCompanySettings(), nil
		}
		return nil, err
	}
	return current, nil
}

// Get returns the company settings, falling back to the defaults
func (s *SettingsService) Get(ctx context.Context) (*CompanySettingsResponse, error) {
	current, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	response := ToCompanySettingsResponse(current)
	return &response, nil
}

// Update replaces the editable settings
func (s *SettingsService) Update(ctx context.Context, req CompanySettingsRequest) (*CompanySettingsResponse, error) {
	current, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if err := current.Update(settings.CompanySettingsDetails{
		CompanyName:        req.CompanyName,
		Phone:              req.Phone,
		Email:              req.Email,
		Address:            req.Address,
		TaxNumber:          req.TaxNumber,
		Currency:           req.Currency,
		DefaultTaxRate:     req.DefaultTaxRate,
		GoogleReviewURL:    req.GoogleReviewURL,
		WhatsAppGatewayURL: req.WhatsAppGatewayURL,
	}); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, current); err != nil {
		return nil, err
	}
	s.logger.Info("company settings updated", zap.String("company_name", current.CompanyName))

	response := ToCompanySettingsResponse(current)
	return &response, nil
}

// UploadLogo stores a new logo in the company-assets bucket and removes
// the previous one.
func (s *SettingsService) UploadLogo(ctx context.Context, filename, contentType string, body io.Reader, size int64) (*CompanySettingsResponse, error) {
	if s.assets == nil {
		return nil, shared.NewDomainError("STORAGE_UNAVAILABLE", "File storage is not configured")
	}
	contentType = strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	ext, ok := logoContentTypes[contentType]
	if !ok {
		return nil, shared.NewDomainError("INVALID_FILE_TYPE", "Logo must be a PNG, JPEG, WebP or SVG image")
	}
	if size <= 0 || size > MaxLogoSize {
		return nil, shared.NewDomainError("INVALID_FILE_SIZE", "Logo must be at most 2 MB")
	}

	current, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if e := strings.ToLower(path.Ext(filename)); e != "" && e != ext {
		s.logger.Debug("logo extension does not match content type",
			zap.String("filename", filename), zap.String("content_type", contentType))
	}

	key := fmt.Sprintf("logo/%d%s", s.now().Unix(), ext)
	if err := s.assets.Upload(ctx, key, contentType, body, size); err != nil {
		return nil, fmt.Errorf("upload logo: %w", err)
	}
	previous := current.LogoKey
	current.SetLogo(key)
	if err := s.repo.Save(ctx, current); err != nil {
		return nil, err
	}

	if previous != "" && previous != key {
		if err := s.assets.Delete(ctx, previous); err != nil {
			s.logger.Warn("failed to delete previous logo", zap.String("key", previous), zap.Error(err))
		}
	}
	response := ToCompanySettingsResponse(current)
	return &response, nil
}

// LogoURL returns a presigned URL for the current logo
func (s *SettingsService) LogoURL(ctx context.Context) (string, time.Time, error) {
	if s.assets == nil {
		return "", time.Time{}, shared.NewDomainError("STORAGE_UNAVAILABLE", "File storage is not configured")
	}
	current, err := s.load(ctx)
	if err != nil {
		return "", time.Time{}, err
	}
	if current.LogoKey == "" {
		return "", time.Time{}, shared.NewDomainError("NOT_FOUND", "No logo has been uploaded")
	}
	return s.assets.DownloadURL(ctx, current.LogoKey)
}
