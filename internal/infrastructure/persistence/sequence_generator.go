package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/agency/backend/internal/domain/shared"
	"github.com/agency/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormNumberGenerator issues yearly document numbers from the
// document_sequences table. The counter row is locked for the duration of
// the increment, so concurrent callers never receive the same number.
type GormNumberGenerator struct {
	db *gorm.DB
}

// NewGormNumberGenerator creates a new GormNumberGenerator
func NewGormNumberGenerator(db *gorm.DB) *GormNumberGenerator {
	return &GormNumberGenerator{db: db}
}

// Next returns the next number for prefix in at's year, e.g. INV-2026-00001
func (g *GormNumberGenerator) Next(ctx context.Context, prefix string, at time.Time) (string, error) {
	if prefix == "" {
		return "", shared.NewDomainError("INVALID_PREFIX", "Document prefix cannot be empty")
	}
	year := at.Year()
	var next int64

	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.DocumentSequenceModel{Prefix: prefix, Year: year, UpdatedAt: now}).Error; err != nil {
			return err
		}

		var seq models.DocumentSequenceModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("prefix = ? AND year = ?", prefix, year).
			First(&seq).Error; err != nil {
			return err
		}

		next = seq.LastValue + 1
		return tx.Model(&models.DocumentSequenceModel{}).
			Where("prefix = ? AND year = ?", prefix, year).
			Updates(map[string]any{"last_value": next, "updated_at": now}).Error
	})
	if err != nil {
		return "", fmt.Errorf("failed to allocate %s number: %w", prefix, err)
	}
	return shared.FormatDocumentNumber(prefix, year, next), nil
}

var _ shared.NumberGenerator = (*GormNumberGenerator)(nil)
