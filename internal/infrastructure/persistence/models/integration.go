package models

import (
	"time"

	"github.com/agency/backend/internal/domain/integration"
)

// WebhookSettingModel is the persistence model for webhook settings
type WebhookSettingModel struct {
	BaseModel
	Name            string     `gorm:"type:varchar(100);not null"`
	URL             string     `gorm:"column:url;type:varchar(1000);not null"`
	Events          StringList `gorm:"type:jsonb;not null"`
	IsActive        bool       `gorm:"not null;default:true;index"`
	Secret          string     `gorm:"type:varchar(200)"`
	LastTriggeredAt *time.Time
	LastStatusCode  int    `gorm:"not null;default:0"`
	LastError       string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (WebhookSettingModel) TableName() string {
	return "webhook_settings"
}

// ToDomain converts the model to a domain WebhookSetting
func (m *WebhookSettingModel) ToDomain() *integration.WebhookSetting {
	events := []string(m.Events)
	if events == nil {
		events = []string{}
	}
	return &integration.WebhookSetting{
		BaseEntity:      m.BaseModel.ToDomain(),
		Name:            m.Name,
		URL:             m.URL,
		Events:          events,
		IsActive:        m.IsActive,
		Secret:          m.Secret,
		LastTriggeredAt: m.LastTriggeredAt,
		LastStatusCode:  m.LastStatusCode,
		LastError:       m.LastError,
	}
}

// FromDomain populates the model from a domain WebhookSetting
func (m *WebhookSettingModel) FromDomain(w *integration.WebhookSetting) {
	m.FromDomainBaseEntity(w.BaseEntity)
	m.Name = w.Name
	m.URL = w.URL
	m.Events = StringList(w.Events)
	m.IsActive = w.IsActive
	m.Secret = w.Secret
	m.LastTriggeredAt = utcPtr(w.LastTriggeredAt)
	m.LastStatusCode = w.LastStatusCode
	m.LastError = w.LastError
}
