package crm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agency/backend/internal/domain/crm"
	"github.com/agency/backend/internal/domain/customer"
	"github.com/agency/backend/internal/domain/settings"
	"github.com/agency/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mock Implementations
// =============================================================================

type MockEvaluationRepository struct {
	mock.Mock
}

func (m *MockEvaluationRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.Evaluation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Evaluation), args.Error(1)
}

func (m *MockEvaluationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]crm.Evaluation, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]crm.Evaluation), args.Error(1)
}

func (m *MockEvaluationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEvaluationRepository) Save(ctx context.Context, evaluation *crm.Evaluation) error {
	return m.Called(ctx, evaluation).Error(0)
}

func (m *MockEvaluationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockEvaluationRepository) Summary(ctx context.Context) (crm.RatingSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).(crm.RatingSummary), args.Error(1)
}

type MockCampaignRepository struct {
	mock.Mock
}

func (m *MockCampaignRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.Campaign, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) FindAll(ctx context.Context, filter shared.Filter) ([]crm.Campaign, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]crm.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCampaignRepository) FindDue(ctx context.Context, now time.Time) ([]crm.Campaign, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]crm.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) Save(ctx context.Context, campaign *crm.Campaign) error {
	return m.Called(ctx, campaign).Error(0)
}

func (m *MockCampaignRepository) ClaimForSending(ctx context.Context, campaign *crm.Campaign) error {
	return m.Called(ctx, campaign).Error(0)
}

func (m *MockCampaignRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCampaignRepository) SaveRecipient(ctx context.Context, recipient *crm.CampaignRecipient) error {
	return m.Called(ctx, recipient).Error(0)
}

func (m *MockCampaignRepository) ListRecipients(ctx context.Context, campaignID uuid.UUID) ([]crm.CampaignRecipient, error) {
	args := m.Called(ctx, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]crm.CampaignRecipient), args.Error(1)
}

// MockCustomerRepository implements only the lookups the crm services use
type MockCustomerRepository struct {
	customer.CustomerRepository
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]customer.Customer, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]customer.Customer), args.Error(1)
}

type MockGroupRepository struct {
	customer.CustomerGroupRepository
	mock.Mock
}

func (m *MockGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*customer.CustomerGroup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.CustomerGroup), args.Error(1)
}

func (m *MockGroupRepository) ListMembers(ctx context.Context, groupID uuid.UUID) ([]customer.Customer, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]customer.Customer), args.Error(1)
}

type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get(ctx context.Context) (*settings.CompanySettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settings.CompanySettings), args.Error(1)
}

func (m *MockSettingsRepository) Save(ctx context.Context, s *settings.CompanySettings) error {
	return m.Called(ctx, s).Error(0)
}

// outbox records messages; addresses listed in fail are rejected
type outbox struct {
	sent []crm.Message
	fail map[string]bool
}

func (o *outbox) Send(_ context.Context, msg crm.Message) error {
	if o.fail[msg.To] {
		return errors.New("gateway rejected " + msg.To)
	}
	o.sent = append(o.sent, msg)
	return nil
}

// =============================================================================
// Helpers
// =============================================================================

var fixedNow = time.Date(2025, 4, 2, 10, 30, 0, 0, time.UTC)

func newCustomer(t *testing.T, name, phone, email string) *customer.Customer {
	t.Helper()
	c, err := customer.NewCustomer(customer.CustomerDetails{Name: name, Phone: phone, Email: email, Company: "شركة الأفق"})
	require.NoError(t, err)
	return c
}

func companyWithReviewLink() *settings.CompanySettings {
	s := settings.DefaultCompanySettings()
	s.CompanyName = "وكالة الإبداع"
	s.GoogleReviewURL = "https://g.page/r/agency/review"
	return s
}

// =============================================================================
// Evaluation Tests
// =============================================================================

func TestEvaluationService_Create(t *testing.T) {
	ctx := context.Background()
	evaluations := new(MockEvaluationRepository)
	customers := new(MockCustomerRepository)
	svc := NewEvaluationService(evaluations, customers, new(MockSettingsRepository), nil, nil)

	c := newCustomer(t, "سارة", "0501234567", "")
	customers.On("FindByID", ctx, c.ID).Return(c, nil)
	evaluations.On("Save", ctx, mock.AnythingOfType("*crm.Evaluation")).Return(nil)

	resp, err := svc.Create(ctx, EvaluationRequest{CustomerID: c.ID, Rating: 5, Comment: "ممتاز"})
	require.NoError(t, err)
	assert.Equal(t, 5, resp.Rating)
	assert.True(t, resp.IsPositive)

	_, err = svc.Create(ctx, EvaluationRequest{CustomerID: c.ID, Rating: 6})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_RATING", domainErr.Code)
	evaluations.AssertNumberOfCalls(t, "Save", 1)
}

func TestEvaluationService_Summary(t *testing.T) {
	ctx := context.Background()
	evaluations := new(MockEvaluationRepository)
	svc := NewEvaluationService(evaluations, new(MockCustomerRepository), new(MockSettingsRepository), nil, nil)
	evaluations.On("Summary", ctx).Return(crm.RatingSummary{}, nil)

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.NotNil(t, summary.ByStars)
	assert.Zero(t, summary.Average)
}

func TestEvaluationService_RequestReviewOverWhatsApp(t *testing.T) {
	ctx := context.Background()
	evaluations := new(MockEvaluationRepository)
	customers := new(MockCustomerRepository)
	settingsRepo := new(MockSettingsRepository)
	whatsapp := &outbox{}
	email := &outbox{}
	svc := NewEvaluationService(evaluations, customers, settingsRepo, Senders{crm.ChannelWhatsApp: whatsapp, crm.ChannelEmail: email}, nil)
	svc.now = func() time.Time { return fixedNow }

	c := newCustomer(t, "خالد", "0551112222", "khaled@example.com")
	evaluation, err := crm.NewEvaluation(c.ID, nil, 5, "")
	require.NoError(t, err)

	settingsRepo.On("Get", ctx).Return(companyWithReviewLink(), nil)
	customers.On("FindByID", ctx, c.ID).Return(c, nil)
	evaluations.On("FindByID", ctx, evaluation.ID).Return(evaluation, nil)
	evaluations.On("Save", ctx, evaluation).Return(nil).Once()

	resp, err := svc.RequestReview(ctx, ReviewRequest{CustomerID: c.ID, EvaluationID: &evaluation.ID})
	require.NoError(t, err)

	assert.Equal(t, "whatsapp", resp.Channel)
	assert.Equal(t, c.Phone, resp.To)
	require.Len(t, whatsapp.sent, 1)
	assert.Empty(t, email.sent)
	assert.Contains(t, whatsapp.sent[0].Body, "خالد")
	assert.Contains(t, whatsapp.sent[0].Body, "وكالة الإبداع")
	assert.Contains(t, whatsapp.sent[0].Body, "https://g.page/r/agency/review")
	require.NotNil(t, evaluation.ReviewRequestedAt)
	assert.Equal(t, fixedNow, *evaluation.ReviewRequestedAt)
	evaluations.AssertExpectations(t)
}

func TestEvaluationService_RequestReviewFallsBackToEmail(t *testing.T) {
	ctx := context.Background()
	customers := new(MockCustomerRepository)
	settingsRepo := new(MockSettingsRepository)
	email := &outbox{}
	svc := NewEvaluationService(new(MockEvaluationRepository), customers, settingsRepo, Senders{crm.ChannelEmail: email}, nil)

	c := newCustomer(t, "ليلى", "", "layla@example.com")
	settingsRepo.On("Get", ctx).Return(companyWithReviewLink(), nil)
	customers.On("FindByID", ctx, c.ID).Return(c, nil)

	resp, err := svc.RequestReview(ctx, ReviewRequest{CustomerID: c.ID, Message: "شكراً {name}"})
	require.NoError(t, err)

	assert.Equal(t, "email", resp.Channel)
	require.Len(t, email.sent, 1)
	assert.Equal(t, "شكراً ليلى\nhttps://g.page/r/agency/review", email.sent[0].Body)
	assert.NotEmpty(t, email.sent[0].Subject)
}

func TestEvaluationService_RequestReviewErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing review link", func(t *testing.T) {
		settingsRepo := new(MockSettingsRepository)
		settingsRepo.On("Get", ctx).Return(nil, shared.ErrNotFound)
		svc := NewEvaluationService(new(MockEvaluationRepository), new(MockCustomerRepository), settingsRepo, nil, nil)

		_, err := svc.RequestReview(ctx, ReviewRequest{CustomerID: uuid.New()})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "REVIEW_LINK_MISSING", domainErr.Code)
	})

	t.Run("no contact details", func(t *testing.T) {
		customers := new(MockCustomerRepository)
		settingsRepo := new(MockSettingsRepository)
		settingsRepo.On("Get", ctx).Return(companyWithReviewLink(), nil)
		c := newCustomer(t, "مجهول", "", "")
		customers.On("FindByID", ctx, c.ID).Return(c, nil)
		svc := NewEvaluationService(new(MockEvaluationRepository), customers, settingsRepo, Senders{}, nil)

		_, err := svc.RequestReview(ctx, ReviewRequest{CustomerID: c.ID})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NO_CONTACT", domainErr.Code)
	})

	t.Run("channel not configured", func(t *testing.T) {
		customers := new(MockCustomerRepository)
		settingsRepo := new(MockSettingsRepository)
		settingsRepo.On("Get", ctx).Return(companyWithReviewLink(), nil)
		c := newCustomer(t, "عمر", "0509998888", "")
		customers.On("FindByID", ctx, c.ID).Return(c, nil)
		svc := NewEvaluationService(new(MockEvaluationRepository), customers, settingsRepo, Senders{}, nil)

		_, err := svc.RequestReview(ctx, ReviewRequest{CustomerID: c.ID})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CHANNEL_UNAVAILABLE", domainErr.Code)
	})
}

// =============================================================================
// Campaign Tests
// =============================================================================

func newCampaignService(campaigns *MockCampaignRepository, customers *MockCustomerRepository, groups *MockGroupRepository, senders Senders) *CampaignService {
	svc := NewCampaignService(campaigns, customers, groups, senders, nil)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestCampaignService_Send(t *testing.T) {
	ctx := context.Background()
	campaigns := new(MockCampaignRepository)
	customers := new(MockCustomerRepository)
	groups := new(MockGroupRepository)
	whatsapp := &outbox{fail: map[string]bool{}}
	svc := newCampaignService(campaigns, customers, groups, Senders{crm.ChannelWhatsApp: whatsapp})

	groupID := uuid.New()
	ahmed := newCustomer(t, "أحمد", "0501111111", "")
	mona := newCustomer(t, "منى", "0502222222", "")
	noPhone := newCustomer(t, "يوسف", "", "yousef@example.com")
	whatsapp.fail[mona.Phone] = true

	campaign, err := crm.NewCampaign(crm.CampaignDetails{
		Name:            "عرض رمضان",
		Channel:         crm.ChannelWhatsApp,
		MessageTemplate: "أهلاً {name} من {company}",
		GroupID:         &groupID,
		CustomerIDs:     []uuid.UUID{ahmed.ID, noPhone.ID},
	})
	require.NoError(t, err)

	campaigns.On("FindByID", ctx, campaign.ID).Return(campaign, nil)
	groups.On("ListMembers", ctx, groupID).Return([]customer.Customer{*ahmed, *mona}, nil)
	customers.On("FindByIDs", ctx, campaign.CustomerIDs).Return([]customer.Customer{*ahmed, *noPhone}, nil)
	campaigns.On("ClaimForSending", ctx, campaign).Return(nil).Once()
	campaigns.On("Save", ctx, campaign).Return(nil)

	var rows []*crm.CampaignRecipient
	campaigns.On("SaveRecipient", ctx, mock.AnythingOfType("*crm.CampaignRecipient")).
		Run(func(args mock.Arguments) { rows = append(rows, args.Get(1).(*crm.CampaignRecipient)) }).
		Return(nil)

	resp, err := svc.Send(ctx, campaign.ID)
	require.NoError(t, err)

	assert.Equal(t, string(crm.CampaignStatusCompleted), resp.Status)
	assert.Equal(t, 1, resp.SentCount)
	assert.Equal(t, 1, resp.FailedCount)
	require.Len(t, whatsapp.sent, 1)
	assert.Equal(t, "أهلاً أحمد من شركة الأفق", whatsapp.sent[0].Body)

	require.Len(t, rows, 3)
	assert.Equal(t, crm.RecipientStatusSent, rows[0].Status)
	assert.Equal(t, crm.RecipientStatusFailed, rows[1].Status)
	assert.Contains(t, rows[1].Error, "gateway rejected")
	assert.Equal(t, crm.RecipientStatusSkipped, rows[2].Status)
	campaigns.AssertNumberOfCalls(t, "Save", 1)
}

func TestCampaignService_SendAllFailed(t *testing.T) {
	ctx := context.Background()
	campaigns := new(MockCampaignRepository)
	customers := new(MockCustomerRepository)
	c := newCustomer(t, "هند", "", "hind@example.com")
	email := &outbox{fail: map[string]bool{c.Email: true}}
	svc := newCampaignService(campaigns, customers, new(MockGroupRepository), Senders{crm.ChannelEmail: email})

	campaign, err := crm.NewCampaign(crm.CampaignDetails{
		Name: "نشرة", Channel: crm.ChannelEmail, Subject: "جديدنا",
		MessageTemplate: "مرحباً {name}", CustomerIDs: []uuid.UUID{c.ID},
	})
	require.NoError(t, err)
	campaigns.On("FindByID", ctx, campaign.ID).Return(campaign, nil)
	customers.On("FindByIDs", ctx, campaign.CustomerIDs).Return([]customer.Customer{*c}, nil)
	campaigns.On("ClaimForSending", ctx, campaign).Return(nil)
	campaigns.On("Save", ctx, campaign).Return(nil)
	campaigns.On("SaveRecipient", ctx, mock.Anything).Return(nil)

	resp, err := svc.Send(ctx, campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, string(crm.CampaignStatusFailed), resp.Status)
}

func TestCampaignService_SendTwiceRejected(t *testing.T) {
	ctx := context.Background()
	campaigns := new(MockCampaignRepository)
	customers := new(MockCustomerRepository)
	c := newCustomer(t, "سعد", "0503333333", "")
	svc := newCampaignService(campaigns, customers, new(MockGroupRepository), Senders{crm.ChannelWhatsApp: &outbox{}})

	campaign, err := crm.NewCampaign(crm.CampaignDetails{
		Name: "x", Channel: crm.ChannelWhatsApp, MessageTemplate: "hi", CustomerIDs: []uuid.UUID{c.ID},
	})
	require.NoError(t, err)
	campaigns.On("FindByID", ctx, campaign.ID).Return(campaign, nil)
	customers.On("FindByIDs", ctx, campaign.CustomerIDs).Return([]customer.Customer{*c}, nil)
	campaigns.On("ClaimForSending", ctx, campaign).Return(nil)
	campaigns.On("Save", ctx, campaign).Return(nil)
	campaigns.On("SaveRecipient", ctx, mock.Anything).Return(nil)

	_, err = svc.Send(ctx, campaign.ID)
	require.NoError(t, err)
	_, err = svc.Send(ctx, campaign.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestCampaignService_SendLosesClaim(t *testing.T) {
	ctx := context.Background()
	campaigns := new(MockCampaignRepository)
	customers := new(MockCustomerRepository)
	c := newCustomer(t, "نوال", "0505555555", "")
	whatsapp := &outbox{}
	svc := newCampaignService(campaigns, customers, new(MockGroupRepository), Senders{crm.ChannelWhatsApp: whatsapp})

	campaign, err := crm.NewCampaign(crm.CampaignDetails{
		Name: "x", Channel: crm.ChannelWhatsApp, MessageTemplate: "hi", CustomerIDs: []uuid.UUID{c.ID},
	})
	require.NoError(t, err)
	due := *campaign
	require.NoError(t, due.Schedule(fixedNow.Add(30*time.Minute), fixedNow))

	campaigns.On("FindByID", ctx, campaign.ID).Return(campaign, nil)
	customers.On("FindByIDs", ctx, campaign.CustomerIDs).Return([]customer.Customer{*c}, nil)
	// another sender moved the stored row to sending first
	campaigns.On("ClaimForSending", ctx, mock.AnythingOfType("*crm.Campaign")).Return(crm.ErrCampaignClaimed)

	_, err = svc.Send(ctx, campaign.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	assert.Empty(t, whatsapp.sent)
	campaigns.AssertNotCalled(t, "SaveRecipient", mock.Anything, mock.Anything)
	campaigns.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)

	// the scheduler skips a campaign it lost without counting it
	later := fixedNow.Add(time.Hour)
	svc.now = func() time.Time { return later }
	campaigns.On("FindDue", ctx, later).Return([]crm.Campaign{due}, nil)

	done, err := svc.RunDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, done)
	assert.Empty(t, whatsapp.sent)
	campaigns.AssertNumberOfCalls(t, "ClaimForSending", 2)
}

func TestCampaignService_ScheduleAndRunDue(t *testing.T) {
	ctx := context.Background()
	campaigns := new(MockCampaignRepository)
	customers := new(MockCustomerRepository)
	c := newCustomer(t, "ريم", "0504444444", "")
	whatsapp := &outbox{}
	svc := newCampaignService(campaigns, customers, new(MockGroupRepository), Senders{crm.ChannelWhatsApp: whatsapp})

	campaign, err := crm.NewCampaign(crm.CampaignDetails{
		Name: "تذكير", Channel: crm.ChannelWhatsApp, MessageTemplate: "{name}", CustomerIDs: []uuid.UUID{c.ID},
	})
	require.NoError(t, err)
	campaigns.On("FindByID", ctx, campaign.ID).Return(campaign, nil)
	campaigns.On("Save", ctx, campaign).Return(nil)

	_, err = svc.Schedule(ctx, campaign.ID, ScheduleCampaignRequest{ScheduledAt: fixedNow.Add(-time.Minute)})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_SCHEDULE", domainErr.Code)

	resp, err := svc.Schedule(ctx, campaign.ID, ScheduleCampaignRequest{ScheduledAt: fixedNow.Add(time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, string(crm.CampaignStatusScheduled), resp.Status)

	// an hour later the scheduler picks it up
	later := fixedNow.Add(time.Hour)
	svc.now = func() time.Time { return later }
	due := *campaign
	campaigns.On("FindDue", ctx, later).Return([]crm.Campaign{due}, nil)
	customers.On("FindByIDs", ctx, campaign.CustomerIDs).Return([]customer.Customer{*c}, nil)
	campaigns.On("ClaimForSending", ctx, mock.AnythingOfType("*crm.Campaign")).Return(nil)
	campaigns.On("Save", ctx, mock.AnythingOfType("*crm.Campaign")).Return(nil)
	campaigns.On("SaveRecipient", ctx, mock.Anything).Return(nil)

	sent, err := svc.RunDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Len(t, whatsapp.sent, 1)
}

func TestCampaignService_CreateWithUnknownGroup(t *testing.T) {
	ctx := context.Background()
	campaigns := new(MockCampaignRepository)
	groups := new(MockGroupRepository)
	svc := newCampaignService(campaigns, new(MockCustomerRepository), groups, nil)
	groupID := uuid.New()
	groups.On("FindByID", ctx, groupID).Return(nil, shared.ErrNotFound)

	_, err := svc.Create(ctx, CampaignRequest{Name: "x", Channel: "whatsapp", MessageTemplate: "hi", GroupID: &groupID})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_GROUP", domainErr.Code)
	campaigns.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCampaignService_DeleteWhileSending(t *testing.T) {
	ctx := context.Background()
	campaigns := new(MockCampaignRepository)
	svc := newCampaignService(campaigns, new(MockCustomerRepository), new(MockGroupRepository), nil)

	campaign, err := crm.NewCampaign(crm.CampaignDetails{
		Name: "x", Channel: crm.ChannelWhatsApp, MessageTemplate: "hi", CustomerIDs: []uuid.UUID{uuid.New()},
	})
	require.NoError(t, err)
	require.NoError(t, campaign.StartSending(fixedNow))
	campaigns.On("FindByID", ctx, campaign.ID).Return(campaign, nil)

	assert.ErrorIs(t, svc.Delete(ctx, campaign.ID), shared.ErrInvalidState)
}
