package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	appintegration "github.com/agency/backend/internal/application/integration"
	"github.com/agency/backend/internal/domain/integration"
	"github.com/agency/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockWebhookService struct {
	mock.Mock
	WebhookService
}

// Test resolves the selector ambiguity between mock.Mock.Test and
// WebhookService.Test by forwarding to the embedded interface.
func (m *MockWebhookService) Test(ctx context.Context, req appintegration.TestWebhookRequest) (*integration.DeliveryResult, error) {
	return m.WebhookService.Test(ctx, req)
}

func (m *MockWebhookService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*appintegration.WebhookResponse, error) {
	args := m.Called(ctx, id, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appintegration.WebhookResponse), args.Error(1)
}

func TestWebhookHandler_SetActive(t *testing.T) {
	id := uuid.New()

	t.Run("disable", func(t *testing.T) {
		svc := new(MockWebhookService)
		svc.On("SetActive", mock.Anything, id, false).
			Return(&appintegration.WebhookResponse{ID: id, IsActive: false}, nil)
		h := NewWebhookHandler(svc)
		r := gin.New()
		r.PUT("/api/v1/webhooks/:id/active", h.SetActive)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, jsonRequest(http.MethodPut, "/api/v1/webhooks/"+id.String()+"/active", map[string]bool{"active": false}))

		require.Equal(t, http.StatusOK, w.Code)
		var resp APIResponse[appintegration.WebhookResponse]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Data.IsActive)
		svc.AssertExpectations(t)
	})

	t.Run("flag is required", func(t *testing.T) {
		svc := new(MockWebhookService)
		h := NewWebhookHandler(svc)
		r := gin.New()
		r.PUT("/api/v1/webhooks/:id/active", h.SetActive)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, jsonRequest(http.MethodPut, "/api/v1/webhooks/"+id.String()+"/active", map[string]any{}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, decodeResponse(t, w).Error.Code)
		svc.AssertNotCalled(t, "SetActive", mock.Anything, mock.Anything, mock.Anything)
	})
}
