package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/agency/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// FunctionInvoker runs named server-side functions
type FunctionInvoker interface {
	Names() []string
	Invoke(ctx context.Context, name string, input json.RawMessage) (any, error)
}

// FunctionHandler exposes the function registry over HTTP
type FunctionHandler struct {
	BaseHandler
	functions FunctionInvoker
}

// NewFunctionHandler creates a new FunctionHandler
func NewFunctionHandler(functions FunctionInvoker) *FunctionHandler {
	return &FunctionHandler{functions: functions}
}

// List godoc
// @ID           listFunctions
// @Summary      List callable functions
// @Tags         functions
// @Produce      json
// @Success      200 {object} APIResponse[[]string]
// @Security     BearerAuth
// @Router       /functions [get]
func (h *FunctionHandler) List(c *gin.Context) {
	h.Success(c, h.functions.Names())
}

// Invoke godoc
// @ID           invokeFunction
// @Summary      Invoke a function by name
// @Description  Built-ins: generate_invoice_number, generate_expense_number, create_invoice_accounting_entry, send-google-review-request, webhook-test. The body is the function's JSON input and may be empty.
// @Tags         functions
// @Accept       json
// @Produce      json
// @Param        name path string true "Function name"
// @Param        request body object false "Function input"
// @Success      200 {object} APIResponse[any]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /functions/{name} [post]
func (h *FunctionHandler) Invoke(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeFileTooLarge, "Request body exceeds maximum allowed size")
			return
		}
		h.BadRequest(c, "Failed to read request body")
		return
	}
	if len(body) > 0 && !json.Valid(body) {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Request body is not valid JSON")
		return
	}

	result, err := h.functions.Invoke(c.Request.Context(), c.Param("name"), body)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
