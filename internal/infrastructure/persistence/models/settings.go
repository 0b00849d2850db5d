package models

import (
	"time"

	"github.com/agency/backend/internal/domain/settings"
	"github.com/shopspring/decimal"
)

// CompanySettingsModel is the single-row company profile
type CompanySettingsModel struct {
	BaseModel
	CompanyName        string          `gorm:"type:varchar(200);not null"`
	Phone              string          `gorm:"type:varchar(20)"`
	Email              string          `gorm:"type:varchar(200)"`
	Address            string          `gorm:"type:text"`
	TaxNumber          string          `gorm:"type:varchar(50)"`
	Currency           string          `gorm:"type:varchar(3);not null;default:'SAR'"`
	DefaultTaxRate     decimal.Decimal `gorm:"type:decimal(5,2);not null;default:15"`
	LogoKey            string          `gorm:"type:varchar(500)"`
	GoogleReviewURL    string          `gorm:"column:google_review_url;type:varchar(1000)"`
	WhatsAppGatewayURL string          `gorm:"column:whatsapp_gateway_url;type:varchar(1000)"`
}

// TableName returns the table name for GORM
func (CompanySettingsModel) TableName() string {
	return "company_settings"
}

// ToDomain converts the model to domain CompanySettings
func (m *CompanySettingsModel) ToDomain() *settings.CompanySettings {
	return &settings.CompanySettings{
		BaseEntity:         m.BaseModel.ToDomain(),
		CompanyName:        m.CompanyName,
		Phone:              m.Phone,
		Email:              m.Email,
		Address:            m.Address,
		TaxNumber:          m.TaxNumber,
		Currency:           m.Currency,
		DefaultTaxRate:     m.DefaultTaxRate,
		LogoKey:            m.LogoKey,
		GoogleReviewURL:    m.GoogleReviewURL,
		WhatsAppGatewayURL: m.WhatsAppGatewayURL,
	}
}

// FromDomain populates the model from domain CompanySettings
func (m *CompanySettingsModel) FromDomain(s *settings.CompanySettings) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.CompanyName = s.CompanyName
	m.Phone = s.Phone
	m.Email = s.Email
	m.Address = s.Address
	m.TaxNumber = s.TaxNumber
	m.Currency = s.Currency
	m.DefaultTaxRate = s.DefaultTaxRate
	m.LogoKey = s.LogoKey
	m.GoogleReviewURL = s.GoogleReviewURL
	m.WhatsAppGatewayURL = s.WhatsAppGatewayURL
}

// DocumentSequenceModel holds the yearly counter per document prefix
type DocumentSequenceModel struct {
	Prefix    string    `gorm:"type:varchar(10);primaryKey"`
	Year      int       `gorm:"primaryKey"`
	LastValue int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DocumentSequenceModel) TableName() string {
	return "document_sequences"
}

// AllModels lists every model, in dependency order, for auto-migration in tests
func AllModels() []any {
	return []any{
		&CustomerModel{},
		&CustomerGroupModel{},
		&CustomerGroupMemberModel{},
		&OrderModel{},
		&OrderItemModel{},
		&PaymentModel{},
		&InvoiceModel{},
		&InvoiceItemModel{},
		&ExpenseModel{},
		&AccountModel{},
		&JournalEntryModel{},
		&JournalLineModel{},
		&PrintOrderModel{},
		&PrintMaterialModel{},
		&WebhookSettingModel{},
		&EvaluationModel{},
		&CampaignModel{},
		&CampaignRecipientModel{},
		&CompanySettingsModel{},
		&DocumentSequenceModel{},
	}
}
