package persistence

import (
	"context"

	"github.com/agency/backend/internal/domain/customer"
	"github.com/agency/backend/internal/domain/shared"
	"github.com/agency/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs finds multiple customers by their IDs
func (r *GormCustomerRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]customer.Customer, error) {
	if len(ids) == 0 {
		return []customer.Customer{}, nil
	}
	var rows []models.CustomerModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toCustomers(rows), nil
}

// FindByPhone finds a customer by cleaned phone number
func (r *GormCustomerRepository) FindByPhone(ctx context.Context, phone string) (*customer.Customer, error) {
	phone = shared.CleanPhoneNumber(phone)
	if phone == "" {
		return nil, shared.NewDomainError("INVALID_PHONE", "Phone cannot be empty")
	}
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all customers matching the filter
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]customer.Customer, error) {
	var rows []models.CustomerModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CustomerModel{}), filter)
	query = query.Order(orderClause(filter.OrderBy, filter.OrderDir, CustomerSortFields, "created_at"))
	if err := paginate(query, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toCustomers(rows), nil
}

// Count counts customers matching the filter
func (r *GormCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.CustomerModel{}), filter).Count(&count).Error
	return count, err
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, c *customer.Customer) error {
	return r.db.WithContext(ctx).Save(models.CustomerModelFromDomain(c)).Error
}

// SaveBatch inserts or updates several customers in one transaction
func (r *GormCustomerRepository) SaveBatch(ctx context.Context, customers []*customer.Customer) error {
	if len(customers) == 0 {
		return nil
	}
	rows := make([]*models.CustomerModel, len(customers))
	for i, c := range customers {
		rows[i] = models.CustomerModelFromDomain(c)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(rows, 100).Error
	})
}

// Delete deletes a customer and its group memberships
func (r *GormCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("customer_id = ?", id).Delete(&models.CustomerGroupMemberModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.CustomerModel{}, "id = ?", id)
		if result.Error != nil {
			return referenced(result.Error, "Customer")
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func (r *GormCustomerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(
			"LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ? OR LOWER(company) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	if source, ok := filter.Filters["source"]; ok && source != "" {
		query = query.Where("source = ?", source)
	}
	return query
}

func toCustomers(rows []models.CustomerModel) []customer.Customer {
	out := make([]customer.Customer, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// GormCustomerGroupRepository implements CustomerGroupRepository using GORM
type GormCustomerGroupRepository struct {
	db *gorm.DB
}

// NewGormCustomerGroupRepository creates a new GormCustomerGroupRepository
func NewGormCustomerGroupRepository(db *gorm.DB) *GormCustomerGroupRepository {
	return &GormCustomerGroupRepository{db: db}
}

type groupRow struct {
	models.CustomerGroupModel
	MemberCount int64
}

func (r *GormCustomerGroupRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("customer_groups").
		Select("customer_groups.*, (SELECT COUNT(*) FROM customer_group_members m WHERE m.group_id = customer_groups.id) AS member_count")
}

// FindByID finds a group with its member count
func (r *GormCustomerGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*customer.CustomerGroup, error) {
	var row groupRow
	if err := r.baseQuery(ctx).Where("customer_groups.id = ?", id).Take(&row).Error; err != nil {
		return nil, notFound(err)
	}
	return row.ToDomain(row.MemberCount), nil
}

// FindAll lists groups matching the filter
func (r *GormCustomerGroupRepository) FindAll(ctx context.Context, filter shared.Filter) ([]customer.CustomerGroup, error) {
	var rows []groupRow
	query := r.applyFilter(r.baseQuery(ctx), filter).
		Order("customer_groups." + orderClause(filter.OrderBy, filter.OrderDir, CustomerGroupSortFields, "name"))
	if err := paginate(query, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]customer.CustomerGroup, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain(rows[i].MemberCount)
	}
	return out, nil
}

// Count counts groups matching the filter
func (r *GormCustomerGroupRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.CustomerGroupModel{}), filter).Count(&count).Error
	return count, err
}

// Save creates or updates a group
func (r *GormCustomerGroupRepository) Save(ctx context.Context, g *customer.CustomerGroup) error {
	model := &models.CustomerGroupModel{}
	model.FromDomain(g)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a group and its memberships
func (r *GormCustomerGroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", id).Delete(&models.CustomerGroupMemberModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.CustomerGroupModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// AddMembers adds customers to the group; existing members are ignored
func (r *GormCustomerGroupRepository) AddMembers(ctx context.Context, groupID uuid.UUID, customerIDs []uuid.UUID) error {
	if len(customerIDs) == 0 {
		return nil
	}
	rows := make([]models.CustomerGroupMemberModel, len(customerIDs))
	for i, id := range customerIDs {
		rows[i] = models.CustomerGroupMemberModel{GroupID: groupID, CustomerID: id}
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

// RemoveMember removes one customer from the group
func (r *GormCustomerGroupRepository) RemoveMember(ctx context.Context, groupID, customerID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("group_id = ? AND customer_id = ?", groupID, customerID).
		Delete(&models.CustomerGroupMemberModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListMembers returns the group's customers ordered by name
func (r *GormCustomerGroupRepository) ListMembers(ctx context.Context, groupID uuid.UUID) ([]customer.Customer, error) {
	var rows []models.CustomerModel
	err := r.db.WithContext(ctx).
		Joins("JOIN customer_group_members m ON m.customer_id = customers.id").
		Where("m.group_id = ?", groupID).
		Order("customers.name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toCustomers(rows), nil
}

func (r *GormCustomerGroupRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(customer_groups.name) LIKE ?", likePattern(filter.Search))
	}
	return query
}

var (
	_ customer.CustomerRepository      = (*GormCustomerRepository)(nil)
	_ customer.CustomerGroupRepository = (*GormCustomerGroupRepository)(nil)
)
