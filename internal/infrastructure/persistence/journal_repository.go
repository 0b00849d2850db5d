package persistence

import (
	"context"

	"github.com/agency/backend/internal/domain/finance"
	"github.com/agency/backend/internal/domain/shared"
	"github.com/agency/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormJournalEntryRepository implements JournalEntryRepository using GORM
type GormJournalEntryRepository struct {
	db *gorm.DB
}

// NewGormJournalEntryRepository creates a new GormJournalEntryRepository
func NewGormJournalEntryRepository(db *gorm.DB) *GormJournalEntryRepository {
	return &GormJournalEntryRepository{db: db}
}

// FindByID finds an entry with its lines
func (r *GormJournalEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.JournalEntry, error) {
	var model models.JournalEntryModel
	if err := r.db.WithContext(ctx).Preload("Lines", itemsByPosition).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByReference returns the entry posted for a source document
func (r *GormJournalEntryRepository) FindByReference(ctx context.Context, referenceType string, referenceID uuid.UUID) (*finance.JournalEntry, error) {
	var model models.JournalEntryModel
	if err := r.db.WithContext(ctx).Preload("Lines", itemsByPosition).
		Where("reference_type = ? AND reference_id = ?", referenceType, referenceID).
		First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists entries, newest first by default
func (r *GormJournalEntryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.JournalEntry, error) {
	var rows []models.JournalEntryModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.JournalEntryModel{}), filter).
		Preload("Lines", itemsByPosition).
		Order(orderClause(filter.OrderBy, filter.OrderDir, JournalEntrySortFields, "date"))
	if err := paginate(query, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]finance.JournalEntry, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Count counts entries matching the filter
func (r *GormJournalEntryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.JournalEntryModel{}), filter).Count(&count).Error
	return count, err
}

// Save inserts an entry with its lines. Entries are immutable once posted.
func (r *GormJournalEntryRepository) Save(ctx context.Context, entry *finance.JournalEntry) error {
	model := &models.JournalEntryModel{}
	model.FromDomain(entry)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return err
		}
		if len(model.Lines) == 0 {
			return nil
		}
		return tx.Create(&model.Lines).Error
	})
}

// HasLinesForAccount reports whether any posted line references the account
func (r *GormJournalEntryRepository) HasLinesForAccount(ctx context.Context, accountID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.JournalLineModel{}).
		Where("account_id = ?", accountID).Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormJournalEntryRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(entry_number) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "reference_type":
			if s, ok := value.(string); ok && s != "" {
				query = query.Where("reference_type = ?", s)
			}
		case finance.FilterFrom:
			if t, ok := timeValue(value); ok {
				query = query.Where("date >= ?", t)
			}
		case finance.FilterTo:
			if t, ok := timeValue(value); ok {
				query = query.Where("date <= ?", t)
			}
		}
	}
	return query
}

var _ finance.JournalEntryRepository = (*GormJournalEntryRepository)(nil)
