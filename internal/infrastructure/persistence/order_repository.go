package persistence

import (
	"context"
	"time"

	"github.com/agency/backend/internal/domain/shared"
	"github.com/agency/backend/internal/domain/trade"
	"github.com/agency/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func itemsByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// FindByID finds an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).Preload("Items", itemsByPosition).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByNumber finds an order by its order number
func (r *GormOrderRepository) FindByNumber(ctx context.Context, orderNumber string) (*trade.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).Preload("Items", itemsByPosition).
		Where("order_number = ?", orderNumber).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists orders matching the filter, items included
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Order, error) {
	var rows []models.OrderModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.OrderModel{}), filter).
		Preload("Items", itemsByPosition).
		Order(orderClause(filter.OrderBy, filter.OrderDir, OrderSortFields, "created_at"))
	if err := paginate(query, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	orders := make([]trade.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, nil
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.OrderModel{}), filter).Count(&count).Error
	return count, err
}

// Save creates or updates an order with its items
func (r *GormOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	model := &models.OrderModel{}
	model.FromDomain(order)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		return replaceOrderItems(tx, model)
	})
}

// SaveWithLock saves with optimistic locking. The stored version must equal
// order.Version; on success the version is incremented.
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, order *trade.Order) error {
	model := &models.OrderModel{}
	model.FromDomain(order)
	expected := order.Version
	now := time.Now().UTC()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.OrderModel{}).
			Where("id = ? AND version = ?", order.ID, expected).
			Updates(map[string]any{
				"customer_id":  model.CustomerID,
				"title":        model.Title,
				"service_type": model.ServiceType,
				"description":  model.Description,
				"total_amount": model.TotalAmount,
				"paid_amount":  model.PaidAmount,
				"status":       model.Status,
				"priority":     model.Priority,
				"due_date":     model.DueDate,
				"notes":        model.Notes,
				"completed_at": model.CompletedAt,
				"version":      expected + 1,
				"updated_at":   now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return concurrencyOrMissing(tx, &models.OrderModel{}, order.ID, "order")
		}
		return replaceOrderItems(tx, model)
	})
	if err != nil {
		return err
	}
	order.Version = expected + 1
	order.UpdatedAt = now
	return nil
}

func replaceOrderItems(tx *gorm.DB, model *models.OrderModel) error {
	keep := make([]uuid.UUID, len(model.Items))
	for i, item := range model.Items {
		keep[i] = item.ID
	}
	del := tx.Where("order_id = ?", model.ID)
	if len(keep) > 0 {
		del = del.Where("id NOT IN ?", keep)
	}
	if err := del.Delete(&models.OrderItemModel{}).Error; err != nil {
		return err
	}
	if len(model.Items) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&model.Items).Error
}

// concurrencyOrMissing tells a version conflict apart from a missing row
func concurrencyOrMissing(tx *gorm.DB, model any, id uuid.UUID, what string) error {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return shared.ErrNotFound
	}
	return shared.NewDomainError("CONCURRENCY_CONFLICT", "The "+what+" has been modified by another user")
}

// Delete deletes an order and its items
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItemModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.OrderModel{}, "id = ?", id)
		if result.Error != nil {
			return referenced(result.Error, "Order")
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

type orderStatusCount struct {
	Status trade.OrderStatus
	Count  int64
}

// CountByStatus returns the number of orders per status. Every status is
// present in the result, zero when no order has it.
func (r *GormOrderRepository) CountByStatus(ctx context.Context) (map[trade.OrderStatus]int64, error) {
	var rows []orderStatusCount
	if err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[trade.OrderStatus]int64, len(trade.AllOrderStatuses()))
	for _, s := range trade.AllOrderStatuses() {
		out[s] = 0
	}
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

// Debtors lists customers with an unpaid balance on non-cancelled orders
func (r *GormOrderRepository) Debtors(ctx context.Context) ([]trade.Debtor, error) {
	var rows []trade.Debtor
	err := r.db.WithContext(ctx).
		Table("orders AS o").
		Select(`o.customer_id AS customer_id,
			c.name AS customer_name,
			c.phone AS phone,
			COUNT(*) AS order_count,
			SUM(o.total_amount) AS total_amount,
			SUM(o.paid_amount) AS paid_amount,
			SUM(o.total_amount - o.paid_amount) AS remaining`).
		Joins("JOIN customers c ON c.id = o.customer_id").
		Where("o.status <> ? AND o.total_amount > o.paid_amount", trade.OrderStatusCancelled).
		Group("o.customer_id, c.name, c.phone").
		Order("remaining DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].TotalAmount = rows[i].TotalAmount.Round(2)
		rows[i].PaidAmount = rows[i].PaidAmount.Round(2)
		rows[i].Remaining = rows[i].Remaining.Round(2)
	}
	if rows == nil {
		rows = []trade.Debtor{}
	}
	return rows, nil
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(order_number) LIKE ? OR LOWER(title) LIKE ? OR LOWER(service_type) LIKE ?",
			pattern, pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case trade.FilterStatus:
			if s, ok := value.(string); ok && s != "" {
				query = query.Where("status = ?", s)
			} else if s, ok := value.(trade.OrderStatus); ok && s != "" {
				query = query.Where("status = ?", s)
			}
		case trade.FilterCustomerID:
			if id, ok := value.(uuid.UUID); ok && id != uuid.Nil {
				query = query.Where("customer_id = ?", id)
			}
		case trade.FilterFrom:
			if t, ok := timeValue(value); ok {
				query = query.Where("created_at >= ?", t)
			}
		case trade.FilterTo:
			if t, ok := timeValue(value); ok {
				query = query.Where("created_at <= ?", t)
			}
		}
	}
	return query
}

// outstanding sums unpaid order balances, cancelled orders excluded
func outstanding(db *gorm.DB) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := db.Model(&models.OrderModel{}).
		Select("SUM(total_amount - paid_amount)").
		Where("status <> ?", trade.OrderStatusCancelled).
		Row().Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal.Round(2), nil
}

var _ trade.OrderRepository = (*GormOrderRepository)(nil)
