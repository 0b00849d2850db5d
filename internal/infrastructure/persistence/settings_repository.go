package persistence

import (
	"context"

	"github.com/agency/backend/internal/domain/settings"
	"github.com/agency/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCompanySettingsRepository stores the single company settings row
type GormCompanySettingsRepository struct {
	db *gorm.DB
}

// NewGormCompanySettingsRepository creates a new GormCompanySettingsRepository
func NewGormCompanySettingsRepository(db *gorm.DB) *GormCompanySettingsRepository {
	return &GormCompanySettingsRepository{db: db}
}

// Get returns the saved settings or shared.ErrNotFound
func (r *GormCompanySettingsRepository) Get(ctx context.Context) (*settings.CompanySettings, error) {
	var model models.CompanySettingsModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates the settings row
func (r *GormCompanySettingsRepository) Save(ctx context.Context, s *settings.CompanySettings) error {
	model := &models.CompanySettingsModel{}
	model.FromDomain(s)
	return r.db.WithContext(ctx).Save(model).Error
}

var _ settings.CompanySettingsRepository = (*GormCompanySettingsRepository)(nil)
