package handler

import (
	"context"
	"errors"
	"net/http"

	appcustomer "github.com/agency/backend/internal/application/customer"
	"github.com/agency/backend/internal/infrastructure/importer"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CustomerService is the customer use-case surface the handler depends on
type CustomerService interface {
	Create(ctx context.Context, req appcustomer.CustomerRequest) (*appcustomer.CustomerResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*appcustomer.CustomerResponse, error)
	List(ctx context.Context, filter appcustomer.CustomerListFilter) ([]appcustomer.CustomerResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req appcustomer.CustomerRequest) (*appcustomer.CustomerResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Import(ctx context.Context, rows []appcustomer.ImportRow) (*appcustomer.ImportResult, error)
}

// CustomerHandler handles customer-related API endpoints
type CustomerHandler struct {
	BaseHandler
	customerService CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// Create godoc
// @ID           createCustomer
// @Summary      Create a new customer
// @Description  Create a customer. The phone number must be unique when given.
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        request body appcustomer.CustomerRequest true "Customer details"
// @Success      201 {object} APIResponse[appcustomer.CustomerResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var req appcustomer.CustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	customer, err := h.customerService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, customer)
}

// GetByID godoc
// @ID           getCustomerById
// @Summary      Get customer by ID
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} APIResponse[appcustomer.CustomerResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /customers/{id} [get]
func (h *CustomerHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id", "customer")
	if !ok {
		return
	}

	customer, err := h.customerService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// List godoc
// @ID           listCustomers
// @Summary      List customers
// @Description  Search matches name, phone, email and company
// @Tags         customers
// @Produce      json
// @Param        search query string false "Search term"
// @Param        source query string false "Acquisition source" Enums(walk_in, referral, social_media, website, import, other)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Sort field" default(created_at)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc) default(desc)
// @Success      200 {object} APIResponse[[]appcustomer.CustomerResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	var filter appcustomer.CustomerListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	pageOf(&filter.Page, &filter.PageSize)

	customers, total, err := h.customerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, customers, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateCustomer
// @Summary      Update a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        request body appcustomer.CustomerRequest true "Customer details"
// @Success      200 {object} APIResponse[appcustomer.CustomerResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /customers/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id", "customer")
	if !ok {
		return
	}
	var req appcustomer.CustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	customer, err := h.customerService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// Delete godoc
// @ID           deleteCustomer
// @Summary      Delete a customer
// @Description  Customers with orders cannot be deleted
// @Tags         customers
// @Param        id path string true "Customer ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /customers/{id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id", "customer")
	if !ok {
		return
	}

	if err := h.customerService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Import godoc
// @ID           importCustomers
// @Summary      Import customers from CSV or Excel
// @Description  Rows that fail to parse or validate are reported per row; the rest are created.
// @Tags         customers
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "CSV or XLSX file with a name column"
// @Success      200 {object} APIResponse[appcustomer.ImportResult]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      413 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /customers/import [post]
func (h *CustomerHandler) Import(c *gin.Context) {
	up, ok := h.openUpload(c)
	if !ok {
		return
	}
	defer up.Body.Close()

	rows, sheet, err := importer.CustomerRows(up.Filename, up.Body)
	if err != nil {
		h.importError(c, err)
		return
	}

	result, err := h.customerService.Import(c.Request.Context(), rows)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	for _, rowErr := range sheet.Errors.Errors() {
		result.Errors = append(result.Errors, appcustomer.ImportError{
			Line:    rowErr.Row,
			Code:    rowErr.Code,
			Message: rowErr.Message,
		})
	}
	result.Total += sheet.Errors.TotalCount()
	result.Failed += sheet.Errors.TotalCount()

	h.Success(c, result)
}

func (h *CustomerHandler) importError(c *gin.Context, err error) {
	code := importer.ErrCodeImportInvalidFile
	if errors.Is(err, importer.ErrMissingHeader) {
		code = importer.ErrCodeImportMissingHeader
	}
	h.Error(c, http.StatusBadRequest, code, err.Error())
}
