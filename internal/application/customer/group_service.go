package customer

import (
	"context"

	"github.com/agency/backend/internal/domain/customer"
	"github.com/agency/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// GroupService manages customer groups used as bulk-message audiences
type GroupService struct {
	groupRepo    customer.CustomerGroupRepository
	customerRepo customer.CustomerRepository
}

// NewGroupService creates a new GroupService
func NewGroupService(groupRepo customer.CustomerGroupRepository, customerRepo customer.CustomerRepository) *GroupService {
	return &GroupService{groupRepo: groupRepo, customerRepo: customerRepo}
}

// Create creates a new group
func (s *GroupService) Create(ctx context.Context, req GroupRequest) (*GroupResponse, error) {
	g, err := customer.NewCustomerGroup(req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.groupRepo.Save(ctx, g); err != nil {
		return nil, err
	}
	response := ToGroupResponse(g)
	return &response, nil
}

// GetByID retrieves a group with its member count
func (s *GroupService) GetByID(ctx context.Context, id uuid.UUID) (*GroupResponse, error) {
	g, err := s.groupRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToGroupResponse(g)
	return &response, nil
}

// List retrieves groups
func (s *GroupService) List(ctx context.Context, page, pageSize int, search string) ([]GroupResponse, int64, error) {
	filter := shared.NewFilter(page, pageSize, "name", "asc", search)
	groups, err := s.groupRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.groupRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]GroupResponse, len(groups))
	for i := range groups {
		responses[i] = ToGroupResponse(&groups[i])
	}
	return responses, total, nil
}

// Update renames a group
func (s *GroupService) Update(ctx context.Context, id uuid.UUID, req GroupRequest) (*GroupResponse, error) {
	g, err := s.groupRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := g.Rename(req.Name, req.Description); err != nil {
		return nil, err
	}
	if err := s.groupRepo.Save(ctx, g); err != nil {
		return nil, err
	}
	response := ToGroupResponse(g)
	return &response, nil
}

// Delete deletes a group and its memberships
func (s *GroupService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.groupRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.groupRepo.Delete(ctx, id)
}

// AddMembers adds existing customers to the group
func (s *GroupService) AddMembers(ctx context.Context, groupID uuid.UUID, req AddMembersRequest) (*GroupResponse, error) {
	if _, err := s.groupRepo.FindByID(ctx, groupID); err != nil {
		return nil, err
	}
	found, err := s.customerRepo.FindByIDs(ctx, req.CustomerIDs)
	if err != nil {
		return nil, err
	}
	if len(found) != len(uniqueIDs(req.CustomerIDs)) {
		return nil, shared.NewDomainError("INVALID_INPUT", "One or more customers do not exist")
	}
	if err := s.groupRepo.AddMembers(ctx, groupID, req.CustomerIDs); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, groupID)
}

// RemoveMember removes one customer from the group
func (s *GroupService) RemoveMember(ctx context.Context, groupID, customerID uuid.UUID) error {
	if _, err := s.groupRepo.FindByID(ctx, groupID); err != nil {
		return err
	}
	return s.groupRepo.RemoveMember(ctx, groupID, customerID)
}

// ListMembers lists the customers of a group
func (s *GroupService) ListMembers(ctx context.Context, groupID uuid.UUID) ([]CustomerResponse, error) {
	if _, err := s.groupRepo.FindByID(ctx, groupID); err != nil {
		return nil, err
	}
	members, err := s.groupRepo.ListMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return ToCustomerResponses(members), nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
