package settings

import (
	"context"
	"net/url"
	"strings"

	"github.com/agency/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CompanySettingsDetails holds the editable fields of the company profile
type CompanySettingsDetails struct {
	CompanyName        string
	Phone              string
	Email              string
	Address            string
	TaxNumber          string
	Currency           string
	DefaultTaxRate     decimal.Decimal
	GoogleReviewURL    string
	WhatsAppGatewayURL string
}

// CompanySettings is the single-row company profile
type CompanySettings struct {
	shared.BaseEntity
	CompanyName        string
	Phone              string
	Email              string
	Address            string
	TaxNumber          string
	Currency           string
	DefaultTaxRate     decimal.Decimal
	LogoKey            string
	GoogleReviewURL    string
	WhatsAppGatewayURL string
}

// DefaultCompanySettings returns the settings used before anything is saved
func DefaultCompanySettings() *CompanySettings {
	return &CompanySettings{
		BaseEntity:     shared.NewBaseEntity(),
		CompanyName:    "Agency",
		Currency:       "SAR",
		DefaultTaxRate: decimal.NewFromInt(15),
	}
}

// Update replaces the editable fields
func (s *CompanySettings) Update(d CompanySettingsDetails) error {
	name := strings.TrimSpace(d.CompanyName)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Company name cannot be empty")
	}
	currency := strings.ToUpper(strings.TrimSpace(d.Currency))
	if len(currency) != 3 {
		return shared.NewDomainError("INVALID_CURRENCY", "Currency must be a 3-letter code")
	}
	if d.DefaultTaxRate.IsNegative() || d.DefaultTaxRate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100")
	}
	for _, raw := range []string{d.GoogleReviewURL, d.WhatsAppGatewayURL} {
		if raw == "" {
			continue
		}
		if u, err := url.Parse(raw); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return shared.NewDomainError("INVALID_URL", "Invalid URL: "+raw)
		}
	}

	s.CompanyName = name
	s.Phone = shared.CleanPhoneNumber(d.Phone)
	s.Email = strings.TrimSpace(d.Email)
	s.Address = strings.TrimSpace(d.Address)
	s.TaxNumber = strings.TrimSpace(d.TaxNumber)
	s.Currency = currency
	s.DefaultTaxRate = d.DefaultTaxRate
	s.GoogleReviewURL = strings.TrimSpace(d.GoogleReviewURL)
	s.WhatsAppGatewayURL = strings.TrimSpace(d.WhatsAppGatewayURL)
	s.Touch()
	return nil
}

// SetLogo stores the object key of the uploaded logo
func (s *CompanySettings) SetLogo(key string) {
	s.LogoKey = key
	s.Touch()
}

// CompanySettingsRepository persists the company profile
type CompanySettingsRepository interface {
	// Get returns the saved settings or shared.ErrNotFound
	Get(ctx context.Context) (*CompanySettings, error)
	Save(ctx context.Context, settings *CompanySettings) error
}
