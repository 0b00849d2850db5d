package persistence

import (
	"context"
	"time"

	"github.com/agency/backend/internal/domain/crm"
	"github.com/agency/backend/internal/domain/shared"
	"github.com/agency/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCampaignRepository implements CampaignRepository using GORM
type GormCampaignRepository struct {
	db *gorm.DB
}

// NewGormCampaignRepository creates a new GormCampaignRepository
func NewGormCampaignRepository(db *gorm.DB) *GormCampaignRepository {
	return &GormCampaignRepository{db: db}
}

// FindByID finds a campaign by its ID
func (r *GormCampaignRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.Campaign, error) {
	var model models.CampaignModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists campaigns matching the filter
func (r *GormCampaignRepository) FindAll(ctx context.Context, filter shared.Filter) ([]crm.Campaign, error) {
	var rows []models.CampaignModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CampaignModel{}), filter).
		Order(orderClause(filter.OrderBy, filter.OrderDir, CampaignSortFields, "created_at"))
	if err := paginate(query, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toCampaigns(rows), nil
}

// Count counts campaigns matching the filter
func (r *GormCampaignRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.CampaignModel{}), filter).Count(&count).Error
	return count, err
}

// FindDue returns scheduled campaigns whose time has come, oldest first
func (r *GormCampaignRepository) FindDue(ctx context.Context, now time.Time) ([]crm.Campaign, error) {
	var rows []models.CampaignModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_at IS NOT NULL AND scheduled_at <= ?", crm.CampaignStatusScheduled, now.UTC()).
		Order("scheduled_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toCampaigns(rows), nil
}

// Save creates or updates a campaign
func (r *GormCampaignRepository) Save(ctx context.Context, c *crm.Campaign) error {
	model := &models.CampaignModel{}
	model.FromDomain(c)
	return r.db.WithContext(ctx).Save(model).Error
}

// ClaimForSending flips the stored status to sending with a conditional
// update so only one sender wins
func (r *GormCampaignRepository) ClaimForSending(ctx context.Context, c *crm.Campaign) error {
	var startedAt *time.Time
	if c.StartedAt != nil {
		t := c.StartedAt.UTC()
		startedAt = &t
	}
	result := r.db.WithContext(ctx).Model(&models.CampaignModel{}).
		Where("id = ? AND status IN ?", c.ID, []crm.CampaignStatus{crm.CampaignStatusDraft, crm.CampaignStatusScheduled}).
		Updates(map[string]any{
			"status":       c.Status,
			"started_at":   startedAt,
			"sent_count":   0,
			"failed_count": 0,
			"updated_at":   c.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return crm.ErrCampaignClaimed
	}
	return nil
}

// Delete deletes a campaign and its recipient log
func (r *GormCampaignRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("campaign_id = ?", id).Delete(&models.CampaignRecipientModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.CampaignModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// SaveRecipient appends a per-recipient result row
func (r *GormCampaignRepository) SaveRecipient(ctx context.Context, recipient *crm.CampaignRecipient) error {
	model := &models.CampaignRecipientModel{}
	model.FromDomain(recipient)
	return r.db.WithContext(ctx).Create(model).Error
}

// ListRecipients returns the send log of a campaign in send order
func (r *GormCampaignRepository) ListRecipients(ctx context.Context, campaignID uuid.UUID) ([]crm.CampaignRecipient, error) {
	var rows []models.CampaignRecipientModel
	if err := r.db.WithContext(ctx).Where("campaign_id = ?", campaignID).Order("sent_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]crm.CampaignRecipient, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

func (r *GormCampaignRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(filter.Search))
	}
	for key, value := range filter.Filters {
		switch key {
		case crm.FilterStatus:
			if s, ok := value.(string); ok && s != "" {
				query = query.Where("status = ?", s)
			}
		case crm.FilterChannel:
			if s, ok := value.(string); ok && s != "" {
				query = query.Where("channel = ?", s)
			}
		}
	}
	return query
}

func toCampaigns(rows []models.CampaignModel) []crm.Campaign {
	out := make([]crm.Campaign, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

var _ crm.CampaignRepository = (*GormCampaignRepository)(nil)
