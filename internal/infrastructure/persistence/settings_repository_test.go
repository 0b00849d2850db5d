package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/agency/backend/internal/domain/settings"
	"github.com/agency/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockSettingsRepository creates a GormCompanySettingsRepository with a mocked SQL connection
func newMockSettingsRepository(t *testing.T) (*GormCompanySettingsRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormCompanySettingsRepository(gormDB), mock, mockDB
}

func TestGormCompanySettingsRepository_Get(t *testing.T) {
	t.Run("returns the saved row", func(t *testing.T) {
		repo, mock, mockDB := newMockSettingsRepository(t)
		defer mockDB.Close()

		id := uuid.New()
		now := time.Now().UTC()
		rows := sqlmock.NewRows([]string{
			"id", "created_at", "updated_at", "company_name", "currency", "default_tax_rate", "google_review_url",
		}).AddRow(id, now, now, "Bright Ads", "SAR", "15.00", "https://g.page/r/bright/review")

		mock.ExpectQuery(`SELECT \* FROM "company_settings" ORDER BY created_at ASC.* LIMIT \$1`).
			WithArgs(1).
			WillReturnRows(rows)

		s, err := repo.Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, id, s.ID)
		assert.Equal(t, "Bright Ads", s.CompanyName)
		assert.True(t, s.DefaultTaxRate.Equal(decimal.NewFromInt(15)))
		assert.Equal(t, "https://g.page/r/bright/review", s.GoogleReviewURL)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps a missing row to not found", func(t *testing.T) {
		repo, mock, mockDB := newMockSettingsRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "company_settings"`).
			WithArgs(1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.Get(context.Background())
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCompanySettingsRepository_RoundTrip(t *testing.T) {
	repo := NewGormCompanySettingsRepository(setupTestDB(t))
	ctx := context.Background()

	_, err := repo.Get(ctx)
	require.ErrorIs(t, err, shared.ErrNotFound)

	s := settings.DefaultCompanySettings()
	require.NoError(t, s.Update(settings.CompanySettingsDetails{
		CompanyName:        "Bright Ads",
		Currency:           "SAR",
		DefaultTaxRate:     decimal.NewFromInt(15),
		WhatsAppGatewayURL: "https://wa.example.com/send",
	}))
	require.NoError(t, repo.Save(ctx, s))
	s.SetLogo("logo/1.png")
	require.NoError(t, repo.Save(ctx, s))

	found, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, s.ID, found.ID)
	assert.Equal(t, "logo/1.png", found.LogoKey)
	assert.Equal(t, "https://wa.example.com/send", found.WhatsAppGatewayURL)
}
