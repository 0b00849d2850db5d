package crm

import (
	"context"
	"time"

	"github.com/agency/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Filter keys understood by the crm repositories
const (
	FilterCustomerID = "customer_id"
	FilterRating     = "rating"
	FilterStatus     = "status"
	FilterChannel    = "channel"
)

// EvaluationRepository defines the interface for evaluation persistence
type EvaluationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Evaluation, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Evaluation, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, evaluation *Evaluation) error
	Delete(ctx context.Context, id uuid.UUID) error
	Summary(ctx context.Context) (RatingSummary, error)
}

// CampaignRepository defines the interface for campaign persistence
type CampaignRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Campaign, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Campaign, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// FindDue returns scheduled campaigns whose time has come
	FindDue(ctx context.Context, now time.Time) ([]Campaign, error)
	Save(ctx context.Context, campaign *Campaign) error
	// ClaimForSending stores a campaign that StartSending has just moved into
	// sending, but only while the stored row is still draft or scheduled.
	// A campaign another sender claimed first yields ErrCampaignClaimed.
	ClaimForSending(ctx context.Context, campaign *Campaign) error
	Delete(ctx context.Context, id uuid.UUID) error

	SaveRecipient(ctx context.Context, recipient *CampaignRecipient) error
	ListRecipients(ctx context.Context, campaignID uuid.UUID) ([]CampaignRecipient, error)
}

// MessageSender delivers a rendered message over one channel
type MessageSender interface {
	Send(ctx context.Context, msg Message) error
}
