package persistence

import (
	"context"

	"github.com/agency/backend/internal/domain/printing"
	"github.com/agency/backend/internal/domain/shared"
	"github.com/agency/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPrintOrderRepository implements PrintOrderRepository using GORM
type GormPrintOrderRepository struct {
	db *gorm.DB
}

// NewGormPrintOrderRepository creates a new GormPrintOrderRepository
func NewGormPrintOrderRepository(db *gorm.DB) *GormPrintOrderRepository {
	return &GormPrintOrderRepository{db: db}
}

// FindByID finds a print order by its ID
func (r *GormPrintOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*printing.PrintOrder, error) {
	var model models.PrintOrderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a print order and holds a row lock on it
func (r *GormPrintOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*printing.PrintOrder, error) {
	var model models.PrintOrderModel
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists print orders matching the filter
func (r *GormPrintOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]printing.PrintOrder, error) {
	var rows []models.PrintOrderModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.PrintOrderModel{}), filter).
		Order(orderClause(filter.OrderBy, filter.OrderDir, PrintOrderSortFields, "created_at"))
	if err := paginate(query, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]printing.PrintOrder, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Count counts print orders matching the filter
func (r *GormPrintOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.PrintOrderModel{}), filter).Count(&count).Error
	return count, err
}

// Save creates or updates a print order. Callers that read then write
// load the row with FindByIDForUpdate inside a transaction.
func (r *GormPrintOrderRepository) Save(ctx context.Context, p *printing.PrintOrder) error {
	model := &models.PrintOrderModel{}
	model.FromDomain(p)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a print order
func (r *GormPrintOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PrintOrderModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

type printStatusCount struct {
	Status printing.PrintStatus
	Count  int64
}

// CountByStatus returns the number of print orders per pipeline status
func (r *GormPrintOrderRepository) CountByStatus(ctx context.Context) (map[printing.PrintStatus]int64, error) {
	var rows []printStatusCount
	if err := r.db.WithContext(ctx).Model(&models.PrintOrderModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[printing.PrintStatus]int64)
	for _, s := range printing.Pipeline() {
		out[s] = 0
	}
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

func (r *GormPrintOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(print_number) LIKE ? OR LOWER(title) LIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case printing.FilterStatus:
			if s, ok := value.(string); ok && s != "" {
				query = query.Where("status = ?", s)
			}
		case printing.FilterMaterialID:
			if id, ok := value.(uuid.UUID); ok && id != uuid.Nil {
				query = query.Where("material_id = ?", id)
			}
		case printing.FilterAssignedTo:
			if s, ok := value.(string); ok && s != "" {
				query = query.Where("assigned_to = ?", s)
			}
		}
	}
	return query
}

// GormPrintMaterialRepository implements PrintMaterialRepository using GORM
type GormPrintMaterialRepository struct {
	db *gorm.DB
}

// NewGormPrintMaterialRepository creates a new GormPrintMaterialRepository
func NewGormPrintMaterialRepository(db *gorm.DB) *GormPrintMaterialRepository {
	return &GormPrintMaterialRepository{db: db}
}

// FindByID finds a material by its ID
func (r *GormPrintMaterialRepository) FindByID(ctx context.Context, id uuid.UUID) (*printing.PrintMaterial, error) {
	var model models.PrintMaterialModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a material and holds a row lock on it so stock
// changes serialize
func (r *GormPrintMaterialRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*printing.PrintMaterial, error) {
	var model models.PrintMaterialModel
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists materials matching the filter
func (r *GormPrintMaterialRepository) FindAll(ctx context.Context, filter shared.Filter) ([]printing.PrintMaterial, error) {
	var rows []models.PrintMaterialModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.PrintMaterialModel{}), filter).
		Order(orderClause(filter.OrderBy, filter.OrderDir, PrintMaterialSortFields, "name"))
	if err := paginate(query, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toMaterials(rows), nil
}

// Count counts materials matching the filter
func (r *GormPrintMaterialRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.PrintMaterialModel{}), filter).Count(&count).Error
	return count, err
}

// FindLowStock returns materials with stock at or below their minimum
func (r *GormPrintMaterialRepository) FindLowStock(ctx context.Context) ([]printing.PrintMaterial, error) {
	var rows []models.PrintMaterialModel
	if err := r.db.WithContext(ctx).Where("stock_quantity <= min_stock").Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toMaterials(rows), nil
}

// Save creates or updates a material
func (r *GormPrintMaterialRepository) Save(ctx context.Context, m *printing.PrintMaterial) error {
	model := &models.PrintMaterialModel{}
	model.FromDomain(m)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a material
func (r *GormPrintMaterialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PrintMaterialModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormPrintMaterialRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(type) LIKE ?", pattern, pattern)
	}
	return query
}

func toMaterials(rows []models.PrintMaterialModel) []printing.PrintMaterial {
	out := make([]printing.PrintMaterial, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

var (
	_ printing.PrintOrderRepository    = (*GormPrintOrderRepository)(nil)
	_ printing.PrintMaterialRepository = (*GormPrintMaterialRepository)(nil)
)
