package models

import (
	"time"

	"github.com/agency/backend/internal/domain/crm"
	"github.com/google/uuid"
)

// EvaluationModel is the persistence model for customer evaluations
type EvaluationModel struct {
	AggregateModel
	CustomerID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	OrderID           *uuid.UUID `gorm:"type:uuid;index"`
	Rating            int        `gorm:"not null;index"`
	Comment           string     `gorm:"type:text"`
	ReviewRequestedAt *time.Time
}

// TableName returns the table name for GORM
func (EvaluationModel) TableName() string {
	return "evaluations"
}

// ToDomain converts the model to a domain Evaluation
func (m *EvaluationModel) ToDomain() *crm.Evaluation {
	return &crm.Evaluation{
		BaseAggregateRoot: m.ToAggregateRoot(),
		CustomerID:        m.CustomerID,
		OrderID:           m.OrderID,
		Rating:            m.Rating,
		Comment:           m.Comment,
		ReviewRequestedAt: m.ReviewRequestedAt,
	}
}

// FromDomain populates the model from a domain Evaluation
func (m *EvaluationModel) FromDomain(e *crm.Evaluation) {
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	m.CustomerID = e.CustomerID
	m.OrderID = e.OrderID
	m.Rating = e.Rating
	m.Comment = e.Comment
	m.ReviewRequestedAt = utcPtr(e.ReviewRequestedAt)
}

// CampaignModel is the persistence model for bulk message campaigns
type CampaignModel struct {
	AggregateModel
	Name            string             `gorm:"type:varchar(200);not null"`
	Channel         crm.Channel        `gorm:"type:varchar(20);not null"`
	Subject         string             `gorm:"type:varchar(300)"`
	MessageTemplate string             `gorm:"type:text;not null"`
	GroupID         *uuid.UUID         `gorm:"type:uuid;index"`
	CustomerIDs     UUIDList           `gorm:"type:jsonb"`
	Status          crm.CampaignStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	ScheduledAt     *time.Time         `gorm:"index"`
	StartedAt       *time.Time
	CompletedAt     *time.Time
	SentCount       int `gorm:"not null;default:0"`
	FailedCount     int `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (CampaignModel) TableName() string {
	return "bulk_message_campaigns"
}

// ToDomain converts the model to a domain Campaign
func (m *CampaignModel) ToDomain() *crm.Campaign {
	ids := []uuid.UUID(m.CustomerIDs)
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return &crm.Campaign{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		Channel:           m.Channel,
		Subject:           m.Subject,
		MessageTemplate:   m.MessageTemplate,
		GroupID:           m.GroupID,
		CustomerIDs:       ids,
		Status:            m.Status,
		ScheduledAt:       m.ScheduledAt,
		StartedAt:         m.StartedAt,
		CompletedAt:       m.CompletedAt,
		SentCount:         m.SentCount,
		FailedCount:       m.FailedCount,
	}
}

// FromDomain populates the model from a domain Campaign
func (m *CampaignModel) FromDomain(c *crm.Campaign) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Name = c.Name
	m.Channel = c.Channel
	m.Subject = c.Subject
	m.MessageTemplate = c.MessageTemplate
	m.GroupID = c.GroupID
	m.CustomerIDs = UUIDList(c.CustomerIDs)
	m.Status = c.Status
	m.ScheduledAt = utcPtr(c.ScheduledAt)
	m.StartedAt = utcPtr(c.StartedAt)
	m.CompletedAt = utcPtr(c.CompletedAt)
	m.SentCount = c.SentCount
	m.FailedCount = c.FailedCount
}

// CampaignRecipientModel is the per-recipient log of a campaign send
type CampaignRecipientModel struct {
	ID          uuid.UUID           `gorm:"type:uuid;primaryKey"`
	CampaignID  uuid.UUID           `gorm:"type:uuid;not null;index"`
	CustomerID  uuid.UUID           `gorm:"type:uuid;not null"`
	Destination string              `gorm:"type:varchar(200)"`
	Status      crm.RecipientStatus `gorm:"type:varchar(20);not null"`
	Error       string              `gorm:"type:text"`
	SentAt      time.Time           `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CampaignRecipientModel) TableName() string {
	return "campaign_recipients"
}

// ToDomain converts the model to a domain CampaignRecipient
func (m *CampaignRecipientModel) ToDomain() crm.CampaignRecipient {
	return crm.CampaignRecipient{
		ID:          m.ID,
		CampaignID:  m.CampaignID,
		CustomerID:  m.CustomerID,
		Destination: m.Destination,
		Status:      m.Status,
		Error:       m.Error,
		SentAt:      m.SentAt,
	}
}

// FromDomain populates the model from a domain CampaignRecipient
func (m *CampaignRecipientModel) FromDomain(r *crm.CampaignRecipient) {
	m.ID = r.ID
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
		r.ID = m.ID
	}
	m.CampaignID = r.CampaignID
	m.CustomerID = r.CustomerID
	m.Destination = r.Destination
	m.Status = r.Status
	m.Error = r.Error
	m.SentAt = utc(r.SentAt)
}
