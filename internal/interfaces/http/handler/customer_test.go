package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	appcustomer "github.com/agency/backend/internal/application/customer"
	"github.com/agency/backend/internal/domain/shared"
	"github.com/agency/backend/internal/infrastructure/importer"
	"github.com/agency/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) Create(ctx context.Context, req appcustomer.CustomerRequest) (*appcustomer.CustomerResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appcustomer.CustomerResponse), args.Error(1)
}

func (m *MockCustomerService) GetByID(ctx context.Context, id uuid.UUID) (*appcustomer.CustomerResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appcustomer.CustomerResponse), args.Error(1)
}

func (m *MockCustomerService) List(ctx context.Context, filter appcustomer.CustomerListFilter) ([]appcustomer.CustomerResponse, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]appcustomer.CustomerResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockCustomerService) Update(ctx context.Context, id uuid.UUID, req appcustomer.CustomerRequest) (*appcustomer.CustomerResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appcustomer.CustomerResponse), args.Error(1)
}

func (m *MockCustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCustomerService) Import(ctx context.Context, rows []appcustomer.ImportRow) (*appcustomer.ImportResult, error) {
	args := m.Called(ctx, rows)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appcustomer.ImportResult), args.Error(1)
}

func setupCustomerRouter(svc CustomerService) *gin.Engine {
	h := NewCustomerHandler(svc)
	r := gin.New()
	g := r.Group("/api/v1/customers")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.POST("/import", h.Import)
	g.GET("/:id", h.GetByID)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	return r
}

func jsonRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCustomerHandler_Create(t *testing.T) {
	svc := new(MockCustomerService)
	router := setupCustomerRouter(svc)

	req := appcustomer.CustomerRequest{Name: "Layla Hassan", Phone: "0555123456"}
	created := &appcustomer.CustomerResponse{ID: uuid.New(), Name: req.Name, DisplayName: req.Name, Phone: req.Phone}
	svc.On("Create", mock.Anything, req).Return(created, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/api/v1/customers", req))

	require.Equal(t, http.StatusCreated, w.Code)
	var resp APIResponse[appcustomer.CustomerResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, created.ID, resp.Data.ID)
	svc.AssertExpectations(t)
}

func TestCustomerHandler_Create_RejectsEmptyName(t *testing.T) {
	svc := new(MockCustomerService)
	router := setupCustomerRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/api/v1/customers", map[string]string{"phone": "0555"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	require.NotEmpty(t, resp.Error.Details)
	assert.Equal(t, "name", resp.Error.Details[0].Field)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCustomerHandler_Create_DuplicatePhone(t *testing.T) {
	svc := new(MockCustomerService)
	router := setupCustomerRouter(svc)

	svc.On("Create", mock.Anything, mock.Anything).
		Return(nil, shared.NewDomainError("ALREADY_EXISTS", "A customer with this phone already exists"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/api/v1/customers", map[string]string{"name": "A", "phone": "1"}))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, dto.ErrCodeAlreadyExists, decodeResponse(t, w).Error.Code)
}

func TestCustomerHandler_GetByID(t *testing.T) {
	svc := new(MockCustomerService)
	router := setupCustomerRouter(svc)
	id := uuid.New()

	t.Run("found", func(t *testing.T) {
		svc.On("GetByID", mock.Anything, id).Return(&appcustomer.CustomerResponse{ID: id, Name: "Omar"}, nil).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/customers/"+id.String(), nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		svc.On("GetByID", mock.Anything, id).Return(nil, shared.ErrNotFound).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/customers/"+id.String(), nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/customers/abc", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid customer ID format", decodeResponse(t, w).Error.Message)
	})
}

func TestCustomerHandler_List_AppliesPagingDefaults(t *testing.T) {
	svc := new(MockCustomerService)
	router := setupCustomerRouter(svc)

	expected := appcustomer.CustomerListFilter{Search: "acme", Page: 1, PageSize: 20}
	svc.On("List", mock.Anything, expected).
		Return([]appcustomer.CustomerResponse{{Name: "Acme"}}, int64(41), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/customers?search=acme", nil))

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(41), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)
	svc.AssertExpectations(t)
}

func TestCustomerHandler_List_RejectsHugePage(t *testing.T) {
	svc := new(MockCustomerService)
	router := setupCustomerRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/customers?page_size=1000", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCustomerHandler_Delete(t *testing.T) {
	svc := new(MockCustomerService)
	router := setupCustomerRouter(svc)
	id := uuid.New()
	svc.On("Delete", mock.Anything, id).Return(nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/customers/"+id.String(), nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}

func TestCustomerHandler_Import(t *testing.T) {
	svc := new(MockCustomerService)
	router := setupCustomerRouter(svc)

	csv := "name,phone,email\nAcme Print,0555000001,info@acme.test\n,0555000002,\nNour,0555000003,\n"
	svc.On("Import", mock.Anything, mock.MatchedBy(func(rows []appcustomer.ImportRow) bool {
		return len(rows) == 2 && rows[0].Request.Name == "Acme Print" && rows[1].Line == 4
	})).Return(&appcustomer.ImportResult{Total: 2, Created: 2, Errors: []appcustomer.ImportError{}}, nil)

	body, ct := multipartBody(t, "customers.csv", "text/csv", []byte(csv))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers/import", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp APIResponse[appcustomer.ImportResult]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Data.Total)
	assert.Equal(t, 2, resp.Data.Created)
	assert.Equal(t, 1, resp.Data.Failed)
	require.Len(t, resp.Data.Errors, 1)
	assert.Equal(t, 3, resp.Data.Errors[0].Line)
	assert.Equal(t, importer.ErrCodeImportRequiredField, resp.Data.Errors[0].Code)
	svc.AssertExpectations(t)
}

func TestCustomerHandler_Import_BadFile(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
		code     string
	}{
		{"unsupported extension", "customers.txt", "name\nA\n", importer.ErrCodeImportInvalidFile},
		{"no name column", "customers.csv", "phone\n0555\n", importer.ErrCodeImportMissingHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockCustomerService)
			router := setupCustomerRouter(svc)

			body, ct := multipartBody(t, tt.filename, "text/plain", []byte(tt.content))
			req := httptest.NewRequest(http.MethodPost, "/api/v1/customers/import", body)
			req.Header.Set("Content-Type", ct)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.code, decodeResponse(t, w).Error.Code)
			svc.AssertNotCalled(t, "Import", mock.Anything, mock.Anything)
		})
	}
}

func TestCustomerHandler_Import_MissingFile(t *testing.T) {
	router := setupCustomerRouter(new(MockCustomerService))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers/import", strings.NewReader(""))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
