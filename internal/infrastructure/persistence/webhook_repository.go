package persistence

import (
	"context"
	"time"

	"github.com/agency/backend/internal/domain/integration"
	"github.com/agency/backend/internal/domain/shared"
	"github.com/agency/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormWebhookRepository implements WebhookRepository using GORM
type GormWebhookRepository struct {
	db *gorm.DB
}

// NewGormWebhookRepository creates a new GormWebhookRepository
func NewGormWebhookRepository(db *gorm.DB) *GormWebhookRepository {
	return &GormWebhookRepository{db: db}
}

// FindByID finds a webhook by its ID
func (r *GormWebhookRepository) FindByID(ctx context.Context, id uuid.UUID) (*integration.WebhookSetting, error) {
	var model models.WebhookSettingModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists every webhook ordered by name
func (r *GormWebhookRepository) FindAll(ctx context.Context) ([]integration.WebhookSetting, error) {
	var rows []models.WebhookSettingModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toWebhooks(rows), nil
}

// FindActiveByEvent returns active webhooks subscribed to eventType.
// Events are a JSON array, so the subscription check runs in Go.
func (r *GormWebhookRepository) FindActiveByEvent(ctx context.Context, eventType string) ([]integration.WebhookSetting, error) {
	var rows []models.WebhookSettingModel
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	all := toWebhooks(rows)
	out := make([]integration.WebhookSetting, 0, len(all))
	for _, w := range all {
		if w.Subscribes(eventType) {
			out = append(out, w)
		}
	}
	return out, nil
}

// Save creates or updates a webhook
func (r *GormWebhookRepository) Save(ctx context.Context, w *integration.WebhookSetting) error {
	model := &models.WebhookSettingModel{}
	model.FromDomain(w)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a webhook
func (r *GormWebhookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.WebhookSettingModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// UpdateDeliveryStatus stores the last delivery outcome
func (r *GormWebhookRepository) UpdateDeliveryStatus(ctx context.Context, id uuid.UUID, result integration.DeliveryResult, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.WebhookSettingModel{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"last_triggered_at": at.UTC(),
			"last_status_code":  result.StatusCode,
			"last_error":        result.Error,
		}).Error
}

func toWebhooks(rows []models.WebhookSettingModel) []integration.WebhookSetting {
	out := make([]integration.WebhookSetting, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

var _ integration.WebhookRepository = (*GormWebhookRepository)(nil)
