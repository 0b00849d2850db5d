package crm

import (
	"time"

	"github.com/agency/backend/internal/domain/crm"
	"github.com/google/uuid"
)

// =============================================================================
// Evaluation DTOs
// =============================================================================

// EvaluationRequest records a customer's rating
type EvaluationRequest struct {
	CustomerID uuid.UUID  `json:"customer_id" binding:"required"`
	OrderID    *uuid.UUID `json:"order_id"`
	Rating     int        `json:"rating" binding:"required,min=1,max=5"`
	Comment    string     `json:"comment" binding:"max=2000"`
}

// EvaluationListFilter represents filter options for evaluation list
type EvaluationListFilter struct {
	CustomerID *uuid.UUID `form:"customer_id"`
	Rating     int        `form:"rating" binding:"omitempty,min=1,max=5"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size" binding:"omitempty,max=100"`
}

// EvaluationResponse represents an evaluation in API responses
type EvaluationResponse struct {
	ID                uuid.UUID  `json:"id"`
	CustomerID        uuid.UUID  `json:"customer_id"`
	OrderID           *uuid.UUID `json:"order_id,omitempty"`
	Rating            int        `json:"rating"`
	Comment           string     `json:"comment"`
	IsPositive        bool       `json:"is_positive"`
	ReviewRequestedAt *time.Time `json:"review_requested_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// ToEvaluationResponse converts a domain Evaluation to EvaluationResponse
func ToEvaluationResponse(e *crm.Evaluation) EvaluationResponse {
	return EvaluationResponse{
		ID:                e.ID,
		CustomerID:        e.CustomerID,
		OrderID:           e.OrderID,
		Rating:            e.Rating,
		Comment:           e.Comment,
		IsPositive:        e.IsPositive(),
		ReviewRequestedAt: e.ReviewRequestedAt,
		CreatedAt:         e.CreatedAt,
	}
}

// ReviewRequest asks a customer for a public Google review
type ReviewRequest struct {
	CustomerID   uuid.UUID  `json:"customer_id" binding:"required"`
	EvaluationID *uuid.UUID `json:"evaluation_id"`
	// Message overrides the default text; {name}, {phone}, {company} and
	// {link} are substituted.
	Message string `json:"message" binding:"max=2000"`
}

// ReviewRequestResponse reports where the review request went
type ReviewRequestResponse struct {
	Channel string    `json:"channel"`
	To      string    `json:"to"`
	SentAt  time.Time `json:"sent_at"`
}

// =============================================================================
// Campaign DTOs
// =============================================================================

// CampaignRequest creates or updates a campaign
type CampaignRequest struct {
	Name            string      `json:"name" binding:"required,min=1,max=200"`
	Channel         string      `json:"channel" binding:"required,oneof=whatsapp email"`
	Subject         string      `json:"subject" binding:"max=200"`
	MessageTemplate string      `json:"message_template" binding:"required"`
	GroupID         *uuid.UUID  `json:"group_id"`
	CustomerIDs     []uuid.UUID `json:"customer_ids"`
}

func (r CampaignRequest) details() crm.CampaignDetails {
	return crm.CampaignDetails{
		Name:            r.Name,
		Channel:         crm.Channel(r.Channel),
		Subject:         r.Subject,
		MessageTemplate: r.MessageTemplate,
		GroupID:         r.GroupID,
		CustomerIDs:     r.CustomerIDs,
	}
}

// ScheduleCampaignRequest sets a campaign's send time
type ScheduleCampaignRequest struct {
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
}

// CampaignListFilter represents filter options for campaign list
type CampaignListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status"`
	Channel  string `form:"channel"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"omitempty,max=100"`
}

// CampaignResponse represents a campaign in API responses
type CampaignResponse struct {
	ID              uuid.UUID   `json:"id"`
	Name            string      `json:"name"`
	Channel         string      `json:"channel"`
	Subject         string      `json:"subject"`
	MessageTemplate string      `json:"message_template"`
	GroupID         *uuid.UUID  `json:"group_id,omitempty"`
	CustomerIDs     []uuid.UUID `json:"customer_ids"`
	Status          string      `json:"status"`
	StatusLabel     string      `json:"status_label"`
	ScheduledAt     *time.Time  `json:"scheduled_at,omitempty"`
	StartedAt       *time.Time  `json:"started_at,omitempty"`
	CompletedAt     *time.Time  `json:"completed_at,omitempty"`
	SentCount       int         `json:"sent_count"`
	FailedCount     int         `json:"failed_count"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// ToCampaignResponse converts a domain Campaign to CampaignResponse
func ToCampaignResponse(c *crm.Campaign) CampaignResponse {
	ids := c.CustomerIDs
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return CampaignResponse{
		ID:              c.ID,
		Name:            c.Name,
		Channel:         string(c.Channel),
		Subject:         c.Subject,
		MessageTemplate: c.MessageTemplate,
		GroupID:         c.GroupID,
		CustomerIDs:     ids,
		Status:          string(c.Status),
		StatusLabel:     c.Status.Label(),
		ScheduledAt:     c.ScheduledAt,
		StartedAt:       c.StartedAt,
		CompletedAt:     c.CompletedAt,
		SentCount:       c.SentCount,
		FailedCount:     c.FailedCount,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// RecipientResponse is one recipient's delivery result
type RecipientResponse struct {
	CustomerID  uuid.UUID `json:"customer_id"`
	Destination string    `json:"destination"`
	Status      string    `json:"status"`
	Error       string    `json:"error,omitempty"`
	SentAt      time.Time `json:"sent_at"`
}

// ToRecipientResponse converts a domain CampaignRecipient to RecipientResponse
func ToRecipientResponse(r *crm.CampaignRecipient) RecipientResponse {
	return RecipientResponse{
		CustomerID:  r.CustomerID,
		Destination: r.Destination,
		Status:      string(r.Status),
		Error:       r.Error,
		SentAt:      r.SentAt,
	}
}
