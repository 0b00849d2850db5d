package crm

import (
	"context"
	"strings"
	"time"

	"github.com/agency/backend/internal/domain/crm"
	"github.com/agency/backend/internal/domain/customer"
	"github.com/agency/backend/internal/domain/settings"
	"github.com/agency/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultReviewMessage = "مرحباً {name}، شكراً لثقتك بـ{agency}. يسعدنا تقييمك لنا على جوجل: {link}"

// EvaluationService records customer ratings and sends review requests
type EvaluationService struct {
	evaluationRepo crm.EvaluationRepository
	customerRepo   customer.CustomerRepository
	settingsRepo   settings.CompanySettingsRepository
	senders        Senders
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewEvaluationService creates a new EvaluationService
func NewEvaluationService(
	evaluationRepo crm.EvaluationRepository,
	customerRepo customer.CustomerRepository,
	settingsRepo settings.CompanySettingsRepository,
	senders Senders,
	logger *zap.Logger,
) *EvaluationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EvaluationService{
		evaluationRepo: evaluationRepo,
		customerRepo:   customerRepo,
		settingsRepo:   settingsRepo,
		senders:        senders,
		logger:         logger,
		now:            time.Now,
	}
}

// SetEventPublisher sets the event publisher
func (s *EvaluationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create records an evaluation
func (s *EvaluationService) Create(ctx context.Context, req EvaluationRequest) (*EvaluationResponse, error) {
	if _, err := s.customerRepo.FindByID(ctx, req.CustomerID); err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer does not exist")
		}
		return nil, err
	}
	evaluation, err := crm.NewEvaluation(req.CustomerID, req.OrderID, req.Rating, req.Comment)
	if err != nil {
		return nil, err
	}
	if err := s.evaluationRepo.Save(ctx, evaluation); err != nil {
		return nil, err
	}
	if err := shared.PublishPending(ctx, s.eventPublisher, evaluation); err != nil {
		s.logger.Warn("failed to publish evaluation events", zap.String("evaluation_id", evaluation.ID.String()), zap.Error(err))
	}
	response := ToEvaluationResponse(evaluation)
	return &response, nil
}

// GetByID retrieves an evaluation by ID
func (s *EvaluationService) GetByID(ctx context.Context, id uuid.UUID) (*EvaluationResponse, error) {
	evaluation, err := s.evaluationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToEvaluationResponse(evaluation)
	return &response, nil
}

// List retrieves evaluations, newest first
func (s *EvaluationService) List(ctx context.Context, filter EvaluationListFilter) ([]EvaluationResponse, int64, error) {
	domainFilter := shared.NewFilter(filter.Page, filter.PageSize, "", "", "")
	if filter.CustomerID != nil {
		domainFilter.Filters[crm.FilterCustomerID] = *filter.CustomerID
	}
	if filter.Rating != 0 {
		domainFilter.Filters[crm.FilterRating] = filter.Rating
	}

	evaluations, err := s.evaluationRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.evaluationRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]EvaluationResponse, len(evaluations))
	for i := range evaluations {
		responses[i] = ToEvaluationResponse(&evaluations[i])
	}
	return responses, total, nil
}

// Delete removes an evaluation
func (s *EvaluationService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.evaluationRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.evaluationRepo.Delete(ctx, id)
}

// Summary returns the rating count, average and star distribution
func (s *EvaluationService) Summary(ctx context.Context) (*crm.RatingSummary, error) {
	summary, err := s.evaluationRepo.Summary(ctx)
	if err != nil {
		return nil, err
	}
	if summary.ByStars == nil {
		summary.ByStars = make(map[int]int64)
	}
	return &summary, nil
}

// RequestReview sends the company's Google review link to the customer,
// over WhatsApp when the customer has a phone and email otherwise. When an
// evaluation is given its review_requested_at is stamped.
func (s *EvaluationService) RequestReview(ctx context.Context, req ReviewRequest) (*ReviewRequestResponse, error) {
	company, err := s.settingsRepo.Get(ctx)
	if err != nil && !shared.IsNotFound(err) {
		return nil, err
	}
	if company == nil || company.GoogleReviewURL == "" {
		return nil, shared.NewDomainError("REVIEW_LINK_MISSING", "Google review link is not configured")
	}

	c, err := s.customerRepo.FindByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	var evaluation *crm.Evaluation
	if req.EvaluationID != nil {
		evaluation, err = s.evaluationRepo.FindByID(ctx, *req.EvaluationID)
		if err != nil {
			return nil, err
		}
		if evaluation.CustomerID != c.ID {
			return nil, shared.NewDomainError("INVALID_INPUT", "Evaluation belongs to another customer")
		}
	}

	channel := crm.ChannelWhatsApp
	to := destination(c, channel)
	if to == "" {
		channel = crm.ChannelEmail
		to = destination(c, channel)
	}
	if to == "" {
		return nil, shared.NewDomainError("NO_CONTACT", "Customer has neither a phone number nor an email")
	}
	sender, err := s.senders.For(channel)
	if err != nil {
		return nil, err
	}

	template := req.Message
	if strings.TrimSpace(template) == "" {
		template = defaultReviewMessage
	}
	body := crm.RenderMessage(template, c.Name, c.Phone, c.Company)
	body = strings.NewReplacer("{link}", company.GoogleReviewURL, "{agency}", company.CompanyName).Replace(body)
	if !strings.Contains(body, company.GoogleReviewURL) {
		body += "\n" + company.GoogleReviewURL
	}

	msg := crm.Message{Channel: channel, To: to, Subject: "شاركنا رأيك - " + company.CompanyName, Body: body}
	if err := sender.Send(ctx, msg); err != nil {
		s.logger.Warn("review request failed",
			zap.String("customer_id", c.ID.String()),
			zap.String("channel", string(channel)),
			zap.Error(err))
		return nil, shared.NewDomainError("SEND_FAILED", "Could not send the review request: "+err.Error())
	}

	sentAt := s.now()
	if evaluation != nil {
		evaluation.MarkReviewRequested(sentAt)
		if err := s.evaluationRepo.Save(ctx, evaluation); err != nil {
			return nil, err
		}
	}
	s.logger.Info("review request sent", zap.String("customer_id", c.ID.String()), zap.String("channel", string(channel)))
	return &ReviewRequestResponse{Channel: string(channel), To: to, SentAt: sentAt}, nil
}
