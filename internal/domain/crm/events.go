package crm

import (
	"github.com/agency/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypeEvaluation = "Evaluation"
	AggregateTypeCampaign   = "Campaign"
)

// Event type constants
const (
	EventTypeEvaluationSubmitted = "evaluation.submitted"
	EventTypeCampaignCompleted   = "campaign.completed"
)

// EvaluationSubmittedEvent is raised when a customer rates the agency
type EvaluationSubmittedEvent struct {
	shared.BaseDomainEvent
	EvaluationID uuid.UUID  `json:"evaluation_id"`
	CustomerID   uuid.UUID  `json:"customer_id"`
	OrderID      *uuid.UUID `json:"order_id,omitempty"`
	Rating       int        `json:"rating"`
	Comment      string     `json:"comment"`
}

// NewEvaluationSubmittedEvent creates a new EvaluationSubmittedEvent
func NewEvaluationSubmittedEvent(e *Evaluation) *EvaluationSubmittedEvent {
	return &EvaluationSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEvaluationSubmitted, AggregateTypeEvaluation, e.ID),
		EvaluationID:    e.ID,
		CustomerID:      e.CustomerID,
		OrderID:         e.OrderID,
		Rating:          e.Rating,
		Comment:         e.Comment,
	}
}

// CampaignCompletedEvent is raised when a campaign finishes sending
type CampaignCompletedEvent struct {
	shared.BaseDomainEvent
	CampaignID  uuid.UUID      `json:"campaign_id"`
	Name        string         `json:"name"`
	Channel     Channel        `json:"channel"`
	Status      CampaignStatus `json:"status"`
	SentCount   int            `json:"sent_count"`
	FailedCount int            `json:"failed_count"`
}

// NewCampaignCompletedEvent creates a new CampaignCompletedEvent
func NewCampaignCompletedEvent(c *Campaign) *CampaignCompletedEvent {
	return &CampaignCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCampaignCompleted, AggregateTypeCampaign, c.ID),
		CampaignID:      c.ID,
		Name:            c.Name,
		Channel:         c.Channel,
		Status:          c.Status,
		SentCount:       c.SentCount,
		FailedCount:     c.FailedCount,
	}
}
