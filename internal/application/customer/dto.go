package customer

import (
	"time"

	"github.com/agency/backend/internal/domain/customer"
	"github.com/google/uuid"
)

// =============================================================================
// Customer DTOs
// =============================================================================

// CustomerRequest is the body of create and update requests
type CustomerRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Phone   string `json:"phone" binding:"max=50"`
	Email   string `json:"email" binding:"omitempty,email,max=200"`
	Company string `json:"company" binding:"max=200"`
	Address string `json:"address" binding:"max=500"`
	Notes   string `json:"notes"`
	Source  string `json:"source" binding:"omitempty,oneof=walk_in referral social_media website import other"`
}

func (r CustomerRequest) details() customer.CustomerDetails {
	return customer.CustomerDetails{
		Name:    r.Name,
		Phone:   r.Phone,
		Email:   r.Email,
		Company: r.Company,
		Address: r.Address,
		Notes:   r.Notes,
		Source:  r.Source,
	}
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	Company     string    `json:"company"`
	Address     string    `json:"address"`
	Notes       string    `json:"notes"`
	Source      string    `json:"source"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CustomerListFilter represents filter options for customer list
type CustomerListFilter struct {
	Search   string `form:"search"`
	Source   string `form:"source"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"omitempty,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *customer.Customer) CustomerResponse {
	return CustomerResponse{
		ID:          c.ID,
		Name:        c.Name,
		DisplayName: c.DisplayName(),
		Phone:       c.Phone,
		Email:       c.Email,
		Company:     c.Company,
		Address:     c.Address,
		Notes:       c.Notes,
		Source:      c.Source,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ToCustomerResponses converts a slice of domain customers
func ToCustomerResponses(customers []customer.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}
	return responses
}

// =============================================================================
// Customer group DTOs
// =============================================================================

// GroupRequest is the body of group create and update requests
type GroupRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// AddMembersRequest adds customers to a group
type AddMembersRequest struct {
	CustomerIDs []uuid.UUID `json:"customer_ids" binding:"required,min=1"`
}

// GroupResponse represents a customer group in API responses
type GroupResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	MemberCount int64     `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToGroupResponse converts a domain CustomerGroup to GroupResponse
func ToGroupResponse(g *customer.CustomerGroup) GroupResponse {
	return GroupResponse{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		MemberCount: g.MemberCount,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}
