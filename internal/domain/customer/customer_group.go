package customer

import (
	"strings"

	"github.com/agency/backend/internal/domain/shared"
)

// CustomerGroup is a named set of customers used as a bulk-message audience
type CustomerGroup struct {
	shared.BaseEntity
	Name        string
	Description string
	MemberCount int64 // read-only, filled by the repository
}

// NewCustomerGroup creates a new customer group
func NewCustomerGroup(name, description string) (*CustomerGroup, error) {
	g := &CustomerGroup{BaseEntity: shared.NewBaseEntity()}
	if err := g.Rename(name, description); err != nil {
		return nil, err
	}
	return g, nil
}

// Rename updates the group's name and description
func (g *CustomerGroup) Rename(name, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Group name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Group name cannot exceed 100 characters")
	}
	g.Name = name
	g.Description = strings.TrimSpace(description)
	g.Touch()
	return nil
}
