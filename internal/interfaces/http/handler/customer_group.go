package handler

import (
	"context"

	appcustomer "github.com/agency/backend/internal/application/customer"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GroupService is the customer group use-case surface
type GroupService interface {
	Create(ctx context.Context, req appcustomer.GroupRequest) (*appcustomer.GroupResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*appcustomer.GroupResponse, error)
	List(ctx context.Context, page, pageSize int, search string) ([]appcustomer.GroupResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req appcustomer.GroupRequest) (*appcustomer.GroupResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddMembers(ctx context.Context, groupID uuid.UUID, req appcustomer.AddMembersRequest) (*appcustomer.GroupResponse, error)
	RemoveMember(ctx context.Context, groupID, customerID uuid.UUID) error
	ListMembers(ctx context.Context, groupID uuid.UUID) ([]appcustomer.CustomerResponse, error)
}

// CustomerGroupHandler handles customer group endpoints
type CustomerGroupHandler struct {
	BaseHandler
	groupService GroupService
}

// NewCustomerGroupHandler creates a new CustomerGroupHandler
func NewCustomerGroupHandler(groupService GroupService) *CustomerGroupHandler {
	return &CustomerGroupHandler{groupService: groupService}
}

type groupListQuery struct {
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"omitempty,max=100"`
}

// Create godoc
// @ID           createCustomerGroup
// @Summary      Create a customer group
// @Tags         customer-groups
// @Accept       json
// @Produce      json
// @Param        request body appcustomer.GroupRequest true "Group details"
// @Success      201 {object} APIResponse[appcustomer.GroupResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /customer-groups [post]
func (h *CustomerGroupHandler) Create(c *gin.Context) {
	var req appcustomer.GroupRequest
	if !h.bindJSON(c, &req) {
		return
	}

	group, err := h.groupService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, group)
}

// GetByID godoc
// @ID           getCustomerGroupById
// @Summary      Get a customer group
// @Tags         customer-groups
// @Produce      json
// @Param        id path string true "Group ID" format(uuid)
// @Success      200 {object} APIResponse[appcustomer.GroupResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /customer-groups/{id} [get]
func (h *CustomerGroupHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id", "group")
	if !ok {
		return
	}

	group, err := h.groupService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, group)
}

// List godoc
// @ID           listCustomerGroups
// @Summary      List customer groups
// @Tags         customer-groups
// @Produce      json
// @Param        search query string false "Name search"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]appcustomer.GroupResponse]
// @Security     BearerAuth
// @Router       /customer-groups [get]
func (h *CustomerGroupHandler) List(c *gin.Context) {
	var q groupListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	pageOf(&q.Page, &q.PageSize)

	groups, total, err := h.groupService.List(c.Request.Context(), q.Page, q.PageSize, q.Search)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, groups, total, q.Page, q.PageSize)
}

// Update godoc
// @ID           updateCustomerGroup
// @Summary      Update a customer group
// @Tags         customer-groups
// @Accept       json
// @Produce      json
// @Param        id path string true "Group ID" format(uuid)
// @Param        request body appcustomer.GroupRequest true "Group details"
// @Success      200 {object} APIResponse[appcustomer.GroupResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /customer-groups/{id} [put]
func (h *CustomerGroupHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id", "group")
	if !ok {
		return
	}
	var req appcustomer.GroupRequest
	if !h.bindJSON(c, &req) {
		return
	}

	group, err := h.groupService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, group)
}

// Delete godoc
// @ID           deleteCustomerGroup
// @Summary      Delete a customer group
// @Description  Members stay; only the grouping is removed
// @Tags         customer-groups
// @Param        id path string true "Group ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /customer-groups/{id} [delete]
func (h *CustomerGroupHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id", "group")
	if !ok {
		return
	}

	if err := h.groupService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// AddMembers godoc
// @ID           addCustomerGroupMembers
// @Summary      Add customers to a group
// @Description  Customers already in the group are ignored
// @Tags         customer-groups
// @Accept       json
// @Produce      json
// @Param        id path string true "Group ID" format(uuid)
// @Param        request body appcustomer.AddMembersRequest true "Customer IDs"
// @Success      200 {object} APIResponse[appcustomer.GroupResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /customer-groups/{id}/members [post]
func (h *CustomerGroupHandler) AddMembers(c *gin.Context) {
	id, ok := h.parseID(c, "id", "group")
	if !ok {
		return
	}
	var req appcustomer.AddMembersRequest
	if !h.bindJSON(c, &req) {
		return
	}

	group, err := h.groupService.AddMembers(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, group)
}

// RemoveMember godoc
// @ID           removeCustomerGroupMember
// @Summary      Remove a customer from a group
// @Tags         customer-groups
// @Param        id path string true "Group ID" format(uuid)
// @Param        customer_id path string true "Customer ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /customer-groups/{id}/members/{customer_id} [delete]
func (h *CustomerGroupHandler) RemoveMember(c *gin.Context) {
	id, ok := h.parseID(c, "id", "group")
	if !ok {
		return
	}
	customerID, ok := h.parseID(c, "customer_id", "customer")
	if !ok {
		return
	}

	if err := h.groupService.RemoveMember(c.Request.Context(), id, customerID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ListMembers godoc
// @ID           listCustomerGroupMembers
// @Summary      List the customers in a group
// @Tags         customer-groups
// @Produce      json
// @Param        id path string true "Group ID" format(uuid)
// @Success      200 {object} APIResponse[[]appcustomer.CustomerResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /customer-groups/{id}/members [get]
func (h *CustomerGroupHandler) ListMembers(c *gin.Context) {
	id, ok := h.parseID(c, "id", "group")
	if !ok {
		return
	}

	members, err := h.groupService.ListMembers(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, members)
}
