package crm

import (
	"strings"
	"time"

	"github.com/agency/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Channel is a delivery channel for customer messages
type Channel string

const (
	ChannelWhatsApp Channel = "whatsapp"
	ChannelEmail    Channel = "email"
)

// IsValid checks if the channel is supported
func (c Channel) IsValid() bool {
	return c == ChannelWhatsApp || c == ChannelEmail
}

// CampaignStatus represents the lifecycle of a bulk message campaign
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusScheduled CampaignStatus = "scheduled"
	CampaignStatusSending   CampaignStatus = "sending"
	CampaignStatusCompleted CampaignStatus = "completed"
	CampaignStatusFailed    CampaignStatus = "failed"
)

var campaignStatusLabels = map[CampaignStatus]string{
	CampaignStatusDraft:     "مسودة",
	CampaignStatusScheduled: "مجدولة",
	CampaignStatusSending:   "جارٍ الإرسال",
	CampaignStatusCompleted: "مكتملة",
	CampaignStatusFailed:    "فشلت",
}

// AllCampaignStatuses returns every campaign status
func AllCampaignStatuses() []CampaignStatus {
	return []CampaignStatus{
		CampaignStatusDraft, CampaignStatusScheduled, CampaignStatusSending,
		CampaignStatusCompleted, CampaignStatusFailed,
	}
}

// IsValid checks if the status is a valid CampaignStatus
func (s CampaignStatus) IsValid() bool {
	_, ok := campaignStatusLabels[s]
	return ok
}

// Label returns the Arabic badge text for the status
func (s CampaignStatus) Label() string {
	if label, ok := campaignStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// IsEditable reports whether campaign content may still change
func (s CampaignStatus) IsEditable() bool {
	return s == CampaignStatusDraft || s == CampaignStatusScheduled
}

// CampaignDetails holds the editable fields of a campaign
type CampaignDetails struct {
	Name            string
	Channel         Channel
	Subject         string
	MessageTemplate string
	GroupID         *uuid.UUID
	CustomerIDs     []uuid.UUID
}

// Campaign is a bulk message sent to a group of customers
type Campaign struct {
	shared.BaseAggregateRoot
	Name            string
	Channel         Channel
	Subject         string
	MessageTemplate string
	GroupID         *uuid.UUID
	CustomerIDs     []uuid.UUID
	Status          CampaignStatus
	ScheduledAt     *time.Time
	StartedAt       *time.Time
	CompletedAt     *time.Time
	SentCount       int
	FailedCount     int
}

// NewCampaign creates a new draft campaign
func NewCampaign(d CampaignDetails) (*Campaign, error) {
	c := &Campaign{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Status:            CampaignStatusDraft,
	}
	if err := c.apply(d); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the content of a draft or scheduled campaign
func (c *Campaign) Update(d CampaignDetails) error {
	if !c.Status.IsEditable() {
		return shared.NewDomainError("INVALID_STATE", "Only draft or scheduled campaigns can be edited")
	}
	if err := c.apply(d); err != nil {
		return err
	}
	c.Touch()
	return nil
}

func (c *Campaign) apply(d CampaignDetails) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Campaign name cannot be empty")
	}
	if !d.Channel.IsValid() {
		return shared.NewDomainError("INVALID_CHANNEL", "Channel must be whatsapp or email")
	}
	if strings.TrimSpace(d.MessageTemplate) == "" {
		return shared.NewDomainError("INVALID_MESSAGE", "Message template cannot be empty")
	}
	if d.Channel == ChannelEmail && strings.TrimSpace(d.Subject) == "" {
		return shared.NewDomainError("INVALID_SUBJECT", "Email campaigns need a subject")
	}
	if d.GroupID == nil && len(d.CustomerIDs) == 0 {
		return shared.NewDomainError("INVALID_AUDIENCE", "Campaign needs a group or at least one customer")
	}

	c.Name = name
	c.Channel = d.Channel
	c.Subject = strings.TrimSpace(d.Subject)
	c.MessageTemplate = d.MessageTemplate
	c.GroupID = d.GroupID
	c.CustomerIDs = dedupeIDs(d.CustomerIDs)
	return nil
}

// Schedule sets a future send time
func (c *Campaign) Schedule(at, now time.Time) error {
	if !c.Status.IsEditable() {
		return shared.NewDomainError("INVALID_STATE", "Only draft or scheduled campaigns can be scheduled")
	}
	if !at.After(now) {
		return shared.NewDomainError("INVALID_SCHEDULE", "Scheduled time must be in the future")
	}
	c.ScheduledAt = &at
	c.Status = CampaignStatusScheduled
	c.Touch()
	return nil
}

// IsDue reports whether a scheduled campaign should be sent at now
func (c *Campaign) IsDue(now time.Time) bool {
	return c.Status == CampaignStatusScheduled && c.ScheduledAt != nil && !c.ScheduledAt.After(now)
}

// ErrCampaignClaimed is returned when another sender started the campaign first
var ErrCampaignClaimed = shared.NewDomainError("INVALID_STATE", "Campaign is already being sent")

// StartSending moves the campaign into sending
func (c *Campaign) StartSending(now time.Time) error {
	if !c.Status.IsEditable() {
		return shared.NewDomainError("INVALID_STATE", "Campaign has already been sent")
	}
	c.Status = CampaignStatusSending
	c.StartedAt = &now
	c.SentCount = 0
	c.FailedCount = 0
	c.Touch()
	return nil
}

// Finish records the send outcome. A campaign where every recipient failed is failed.
func (c *Campaign) Finish(sent, failed int, now time.Time) error {
	if c.Status != CampaignStatusSending {
		return shared.NewDomainError("INVALID_STATE", "Campaign is not sending")
	}
	c.SentCount = sent
	c.FailedCount = failed
	c.CompletedAt = &now
	if sent == 0 && failed > 0 {
		c.Status = CampaignStatusFailed
	} else {
		c.Status = CampaignStatusCompleted
	}
	c.Touch()
	c.AddDomainEvent(NewCampaignCompletedEvent(c))
	return nil
}

// RenderMessage substitutes {name}, {phone} and {company} in template
func RenderMessage(template, name, phone, company string) string {
	return strings.NewReplacer(
		"{name}", name,
		"{phone}", phone,
		"{company}", company,
	).Replace(template)
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// RecipientStatus is the delivery outcome for one recipient
type RecipientStatus string

const (
	RecipientStatusSent    RecipientStatus = "sent"
	RecipientStatusFailed  RecipientStatus = "failed"
	RecipientStatusSkipped RecipientStatus = "skipped"
)

// CampaignRecipient is the per-recipient result row of a campaign send
type CampaignRecipient struct {
	ID          uuid.UUID
	CampaignID  uuid.UUID
	CustomerID  uuid.UUID
	Destination string
	Status      RecipientStatus
	Error       string
	SentAt      time.Time
}

// Message is a rendered message ready for a channel
type Message struct {
	Channel Channel
	To      string
	Subject string
	Body    string
}
