package persistence

import (
	"context"
	"time"

	"github.com/agency/backend/internal/domain/finance"
	"github.com/agency/backend/internal/domain/shared"
	"github.com/agency/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice with its items
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).Preload("Items", itemsByPosition).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByNumber finds an invoice by its number
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, invoiceNumber string) (*finance.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).Preload("Items", itemsByPosition).
		Where("invoice_number = ?", invoiceNumber).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists invoices matching the filter
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.Invoice, error) {
	var rows []models.InvoiceModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.InvoiceModel{}), filter).
		Preload("Items", itemsByPosition).
		Order(orderClause(filter.OrderBy, filter.OrderDir, InvoiceSortFields, "issue_date"))
	if err := paginate(query, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toInvoices(rows), nil
}

// Count counts invoices matching the filter
func (r *GormInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.InvoiceModel{}), filter).Count(&count).Error
	return count, err
}

// FindOverdue returns issued or partially paid invoices due before asOf's day
func (r *GormInvoiceRepository) FindOverdue(ctx context.Context, asOf time.Time) ([]finance.Invoice, error) {
	y, m, d := asOf.Date()
	startOfDay := time.Date(y, m, d, 0, 0, 0, 0, asOf.Location()).UTC()
	var rows []models.InvoiceModel
	err := r.db.WithContext(ctx).Preload("Items", itemsByPosition).
		Where("status IN ? AND due_date IS NOT NULL AND due_date < ?",
			[]finance.InvoiceStatus{finance.InvoiceStatusIssued, finance.InvoiceStatusPartiallyPaid}, startOfDay).
		Order("due_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toInvoices(rows), nil
}

// Save creates or updates an invoice with its items
func (r *GormInvoiceRepository) Save(ctx context.Context, inv *finance.Invoice) error {
	model := &models.InvoiceModel{}
	model.FromDomain(inv)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		return replaceInvoiceItems(tx, model)
	})
}

// SaveWithLock saves with optimistic locking; the version is incremented on success
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, inv *finance.Invoice) error {
	model := &models.InvoiceModel{}
	model.FromDomain(inv)
	expected := inv.Version
	now := time.Now().UTC()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.InvoiceModel{}).
			Where("id = ? AND version = ?", inv.ID, expected).
			Updates(map[string]any{
				"customer_id": model.CustomerID,
				"order_id":    model.OrderID,
				"subtotal":    model.Subtotal,
				"discount":    model.Discount,
				"tax_rate":    model.TaxRate,
				"tax_amount":  model.TaxAmount,
				"total":       model.Total,
				"paid_amount": model.PaidAmount,
				"status":      model.Status,
				"issue_date":  model.IssueDate,
				"due_date":    model.DueDate,
				"notes":       model.Notes,
				"issued_at":   model.IssuedAt,
				"version":     expected + 1,
				"updated_at":  now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return concurrencyOrMissing(tx, &models.InvoiceModel{}, inv.ID, "invoice")
		}
		return replaceInvoiceItems(tx, model)
	})
	if err != nil {
		return err
	}
	inv.Version = expected + 1
	inv.UpdatedAt = now
	return nil
}

func replaceInvoiceItems(tx *gorm.DB, model *models.InvoiceModel) error {
	keep := make([]uuid.UUID, len(model.Items))
	for i, item := range model.Items {
		keep[i] = item.ID
	}
	del := tx.Where("invoice_id = ?", model.ID)
	if len(keep) > 0 {
		del = del.Where("id NOT IN ?", keep)
	}
	if err := del.Delete(&models.InvoiceItemModel{}).Error; err != nil {
		return err
	}
	if len(model.Items) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&model.Items).Error
}

// Delete deletes an invoice and its items
func (r *GormInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&models.InvoiceItemModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.InvoiceModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(invoice_number) LIKE ? OR LOWER(notes) LIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case finance.FilterStatus:
			if s, ok := value.(string); ok && s != "" {
				query = query.Where("status = ?", s)
			}
		case finance.FilterCustomerID, finance.FilterOrderID:
			if id, ok := value.(uuid.UUID); ok && id != uuid.Nil {
				query = query.Where(key+" = ?", id)
			}
		case finance.FilterFrom:
			if t, ok := timeValue(value); ok {
				query = query.Where("issue_date >= ?", t)
			}
		case finance.FilterTo:
			if t, ok := timeValue(value); ok {
				query = query.Where("issue_date <= ?", t)
			}
		}
	}
	return query
}

func toInvoices(rows []models.InvoiceModel) []finance.Invoice {
	out := make([]finance.Invoice, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

var _ finance.InvoiceRepository = (*GormInvoiceRepository)(nil)
