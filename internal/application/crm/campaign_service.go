package crm

import (
	"context"
	"errors"
	"time"

	"github.com/agency/backend/internal/domain/crm"
	"github.com/agency/backend/internal/domain/customer"
	"github.com/agency/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CampaignService manages bulk message campaigns
type CampaignService struct {
	campaignRepo   crm.CampaignRepository
	customerRepo   customer.CustomerRepository
	groupRepo      customer.CustomerGroupRepository
	senders        Senders
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewCampaignService creates a new CampaignService
func NewCampaignService(
	campaignRepo crm.CampaignRepository,
	customerRepo customer.CustomerRepository,
	groupRepo customer.CustomerGroupRepository,
	senders Senders,
	logger *zap.Logger,
) *CampaignService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CampaignService{
		campaignRepo: campaignRepo,
		customerRepo: customerRepo,
		groupRepo:    groupRepo,
		senders:      senders,
		logger:       logger,
		now:          time.Now,
	}
}

// SetEventPublisher sets the event publisher
func (s *CampaignService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a draft campaign
func (s *CampaignService) Create(ctx context.Context, req CampaignRequest) (*CampaignResponse, error) {
	campaign, err := crm.NewCampaign(req.details())
	if err != nil {
		return nil, err
	}
	if err := s.checkGroup(ctx, campaign.GroupID); err != nil {
		return nil, err
	}
	if err := s.campaignRepo.Save(ctx, campaign); err != nil {
		return nil, err
	}
	response := ToCampaignResponse(campaign)
	return &response, nil
}

// GetByID retrieves a campaign by ID
func (s *CampaignService) GetByID(ctx context.Context, id uuid.UUID) (*CampaignResponse, error) {
	campaign, err := s.campaignRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToCampaignResponse(campaign)
	return &response, nil
}

// List retrieves campaigns with filtering and pagination
func (s *CampaignService) List(ctx context.Context, filter CampaignListFilter) ([]CampaignResponse, int64, error) {
	domainFilter := shared.NewFilter(filter.Page, filter.PageSize, "", "", filter.Search)
	if filter.Status != "" {
		status := crm.CampaignStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_STATUS", "Unknown campaign status: "+filter.Status)
		}
		domainFilter.Filters[crm.FilterStatus] = status
	}
	if filter.Channel != "" {
		domainFilter.Filters[crm.FilterChannel] = crm.Channel(filter.Channel)
	}

	campaigns, err := s.campaignRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.campaignRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]CampaignResponse, len(campaigns))
	for i := range campaigns {
		responses[i] = ToCampaignResponse(&campaigns[i])
	}
	return responses, total, nil
}

// Update edits a draft or scheduled campaign
func (s *CampaignService) Update(ctx context.Context, id uuid.UUID, req CampaignRequest) (*CampaignResponse, error) {
	campaign, err := s.campaignRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := campaign.Update(req.details()); err != nil {
		return nil, err
	}
	if err := s.checkGroup(ctx, campaign.GroupID); err != nil {
		return nil, err
	}
	if err := s.campaignRepo.Save(ctx, campaign); err != nil {
		return nil, err
	}
	response := ToCampaignResponse(campaign)
	return &response, nil
}

// Delete removes a campaign that is not currently sending
func (s *CampaignService) Delete(ctx context.Context, id uuid.UUID) error {
	campaign, err := s.campaignRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if campaign.Status == crm.CampaignStatusSending {
		return shared.NewDomainError("INVALID_STATE", "A campaign cannot be deleted while sending")
	}
	return s.campaignRepo.Delete(ctx, id)
}

// Schedule sets the campaign to be sent by the scheduler at req.ScheduledAt
func (s *CampaignService) Schedule(ctx context.Context, id uuid.UUID, req ScheduleCampaignRequest) (*CampaignResponse, error) {
	campaign, err := s.campaignRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := campaign.Schedule(req.ScheduledAt, s.now()); err != nil {
		return nil, err
	}
	if err := s.campaignRepo.Save(ctx, campaign); err != nil {
		return nil, err
	}
	response := ToCampaignResponse(campaign)
	return &response, nil
}

// Send delivers the campaign to every recipient, one after another, and
// stores a result row per recipient. Recipients without an address on the
// campaign's channel are skipped.
func (s *CampaignService) Send(ctx context.Context, id uuid.UUID) (*CampaignResponse, error) {
	campaign, err := s.campaignRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.send(ctx, campaign); err != nil {
		return nil, err
	}
	response := ToCampaignResponse(campaign)
	return &response, nil
}

func (s *CampaignService) send(ctx context.Context, campaign *crm.Campaign) error {
	sender, err := s.senders.For(campaign.Channel)
	if err != nil {
		return err
	}
	recipients, err := s.recipients(ctx, campaign)
	if err != nil {
		return err
	}

	if err := campaign.StartSending(s.now()); err != nil {
		return err
	}
	if err := s.campaignRepo.ClaimForSending(ctx, campaign); err != nil {
		return err
	}

	sent, failed := 0, 0
	for i := range recipients {
		c := &recipients[i]
		row := &crm.CampaignRecipient{
			ID:         uuid.New(),
			CampaignID: campaign.ID,
			CustomerID: c.ID,
		}
		row.Destination = destination(c, campaign.Channel)
		switch {
		case row.Destination == "":
			row.Status = crm.RecipientStatusSkipped
			row.Error = "no " + string(campaign.Channel) + " address"
		default:
			msg := crm.Message{
				Channel: campaign.Channel,
				To:      row.Destination,
				Subject: campaign.Subject,
				Body:    crm.RenderMessage(campaign.MessageTemplate, c.Name, c.Phone, c.Company),
			}
			if err := sender.Send(ctx, msg); err != nil {
				row.Status = crm.RecipientStatusFailed
				row.Error = err.Error()
				failed++
			} else {
				row.Status = crm.RecipientStatusSent
				sent++
			}
		}
		row.SentAt = s.now()
		if err := s.campaignRepo.SaveRecipient(ctx, row); err != nil {
			s.logger.Warn("failed to store campaign recipient",
				zap.String("campaign_id", campaign.ID.String()),
				zap.String("customer_id", c.ID.String()),
				zap.Error(err))
		}
	}

	if err := campaign.Finish(sent, failed, s.now()); err != nil {
		return err
	}
	if err := s.campaignRepo.Save(ctx, campaign); err != nil {
		return err
	}
	s.logger.Info("campaign sent",
		zap.String("campaign_id", campaign.ID.String()),
		zap.Int("recipients", len(recipients)),
		zap.Int("sent", sent),
		zap.Int("failed", failed))

	if err := shared.PublishPending(ctx, s.eventPublisher, campaign); err != nil {
		s.logger.Warn("failed to publish campaign events", zap.String("campaign_id", campaign.ID.String()), zap.Error(err))
	}
	return nil
}

// recipients merges the group's members with the explicitly listed
// customers, each customer once, group members first
func (s *CampaignService) recipients(ctx context.Context, campaign *crm.Campaign) ([]customer.Customer, error) {
	var out []customer.Customer
	seen := make(map[uuid.UUID]bool)
	add := func(list []customer.Customer) {
		for _, c := range list {
			if !seen[c.ID] {
				seen[c.ID] = true
				out = append(out, c)
			}
		}
	}

	if campaign.GroupID != nil {
		members, err := s.groupRepo.ListMembers(ctx, *campaign.GroupID)
		if err != nil {
			return nil, err
		}
		add(members)
	}
	if len(campaign.CustomerIDs) > 0 {
		listed, err := s.customerRepo.FindByIDs(ctx, campaign.CustomerIDs)
		if err != nil {
			return nil, err
		}
		add(listed)
	}
	if len(out) == 0 {
		return nil, shared.NewDomainError("INVALID_AUDIENCE", "Campaign has no recipients")
	}
	return out, nil
}

// ListRecipients returns the per-recipient results of a sent campaign
func (s *CampaignService) ListRecipients(ctx context.Context, id uuid.UUID) ([]RecipientResponse, error) {
	if _, err := s.campaignRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	rows, err := s.campaignRepo.ListRecipients(ctx, id)
	if err != nil {
		return nil, err
	}
	responses := make([]RecipientResponse, len(rows))
	for i := range rows {
		responses[i] = ToRecipientResponse(&rows[i])
	}
	return responses, nil
}

// RunDue sends every scheduled campaign whose time has come and returns
// how many were sent. One campaign failing does not stop the others.
func (s *CampaignService) RunDue(ctx context.Context) (int, error) {
	now := s.now()
	due, err := s.campaignRepo.FindDue(ctx, now)
	if err != nil {
		return 0, err
	}
	done := 0
	for i := range due {
		campaign := &due[i]
		if !campaign.IsDue(now) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return done, err
		}
		if err := s.send(ctx, campaign); err != nil {
			if errors.Is(err, crm.ErrCampaignClaimed) {
				s.logger.Info("scheduled campaign already claimed", zap.String("campaign_id", campaign.ID.String()))
				continue
			}
			s.logger.Error("scheduled campaign failed",
				zap.String("campaign_id", campaign.ID.String()),
				zap.Error(err))
			continue
		}
		done++
	}
	return done, nil
}

func (s *CampaignService) checkGroup(ctx context.Context, groupID *uuid.UUID) error {
	if groupID == nil {
		return nil
	}
	if _, err := s.groupRepo.FindByID(ctx, *groupID); err != nil {
		if shared.IsNotFound(err) {
			return shared.NewDomainError("INVALID_GROUP", "Customer group does not exist")
		}
		return err
	}
	return nil
}
