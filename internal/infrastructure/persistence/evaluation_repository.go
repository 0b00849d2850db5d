package persistence

import (
	"context"
	"math"

	"github.com/agency/backend/internal/domain/crm"
	"github.com/agency/backend/internal/domain/shared"
	"github.com/agency/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormEvaluationRepository implements EvaluationRepository using GORM
type GormEvaluationRepository struct {
	db *gorm.DB
}

// NewGormEvaluationRepository creates a new GormEvaluationRepository
func NewGormEvaluationRepository(db *gorm.DB) *GormEvaluationRepository {
	return &GormEvaluationRepository{db: db}
}

// FindByID finds an evaluation by its ID
func (r *GormEvaluationRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.Evaluation, error) {
	var model models.EvaluationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists evaluations matching the filter
func (r *GormEvaluationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]crm.Evaluation, error) {
	var rows []models.EvaluationModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.EvaluationModel{}), filter).
		Order(orderClause(filter.OrderBy, filter.OrderDir, EvaluationSortFields, "created_at"))
	if err := paginate(query, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]crm.Evaluation, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Count counts evaluations matching the filter
func (r *GormEvaluationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.EvaluationModel{}), filter).Count(&count).Error
	return count, err
}

// Save creates or updates an evaluation
func (r *GormEvaluationRepository) Save(ctx context.Context, e *crm.Evaluation) error {
	model := &models.EvaluationModel{}
	model.FromDomain(e)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes an evaluation
func (r *GormEvaluationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.EvaluationModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

type ratingCount struct {
	Rating int
	Count  int64
}

// Summary returns the count, average and per-star distribution of ratings
func (r *GormEvaluationRepository) Summary(ctx context.Context) (crm.RatingSummary, error) {
	var rows []ratingCount
	if err := r.db.WithContext(ctx).Model(&models.EvaluationModel{}).
		Select("rating, COUNT(*) AS count").
		Group("rating").
		Scan(&rows).Error; err != nil {
		return crm.RatingSummary{}, err
	}
	summary := crm.RatingSummary{ByStars: map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	var weighted int64
	for _, row := range rows {
		summary.ByStars[row.Rating] = row.Count
		summary.Count += row.Count
		weighted += int64(row.Rating) * row.Count
	}
	if summary.Count > 0 {
		summary.Average = math.Round(float64(weighted)/float64(summary.Count)*100) / 100
	}
	return summary, nil
}

func (r *GormEvaluationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(comment) LIKE ?", likePattern(filter.Search))
	}
	for key, value := range filter.Filters {
		switch key {
		case crm.FilterCustomerID:
			if id, ok := value.(uuid.UUID); ok && id != uuid.Nil {
				query = query.Where("customer_id = ?", id)
			}
		case crm.FilterRating:
			if n, ok := value.(int); ok && n > 0 {
				query = query.Where("rating = ?", n)
			}
		}
	}
	return query
}

var _ crm.EvaluationRepository = (*GormEvaluationRepository)(nil)
