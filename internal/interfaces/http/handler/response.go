package handler

import (
	"time"

	"github.com/agency/backend/internal/interfaces/http/dto"
)

// APIResponse represents a generic API response for OpenAPI documentation
// @Description Standard API response wrapper with typed data field
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// FileURLData is a presigned download link
// @Description Time-limited download URL
type FileURLData struct {
	URL       string `json:"url"`
	ExpiresAt string `json:"expires_at"`
}

// ActiveRequest toggles a webhook on or off
// @Description Webhook activation toggle
type ActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

func newFileURLData(url string, expiresAt time.Time) FileURLData {
	return FileURLData{URL: url, ExpiresAt: expiresAt.UTC().Format(time.RFC3339)}
}
