package crm

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvaluation(t *testing.T) {
	for rating := 1; rating <= 5; rating++ {
		e, err := NewEvaluation(uuid.New(), nil, rating, "")
		require.NoError(t, err)
		assert.Equal(t, rating >= 4, e.IsPositive())
		require.Len(t, e.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeEvaluationSubmitted, e.GetDomainEvents()[0].EventType())
	}
	for _, bad := range []int{0, 6, -1} {
		_, err := NewEvaluation(uuid.New(), nil, bad, "")
		assert.Error(t, err, bad)
	}
	_, err := NewEvaluation(uuid.Nil, nil, 5, "")
	assert.Error(t, err)
}

func newTestCampaign(t *testing.T) *Campaign {
	c, err := NewCampaign(CampaignDetails{
		Name:            "Ramadan offer",
		Channel:         ChannelWhatsApp,
		MessageTemplate: "Hello {name} from {company}",
		CustomerIDs:     []uuid.UUID{uuid.New()},
	})
	require.NoError(t, err)
	return c
}

func TestCampaignStatus_Labels(t *testing.T) {
	for _, s := range AllCampaignStatuses() {
		assert.True(t, s.IsValid())
		assert.NotEqual(t, string(s), s.Label())
	}
}

func TestNewCampaign_Validation(t *testing.T) {
	group := uuid.New()
	tests := []struct {
		name    string
		details CampaignDetails
		ok      bool
	}{
		{"valid group", CampaignDetails{Name: "x", Channel: ChannelWhatsApp, MessageTemplate: "hi", GroupID: &group}, true},
		{"missing name", CampaignDetails{Channel: ChannelWhatsApp, MessageTemplate: "hi", GroupID: &group}, false},
		{"bad channel", CampaignDetails{Name: "x", Channel: "sms", MessageTemplate: "hi", GroupID: &group}, false},
		{"empty template", CampaignDetails{Name: "x", Channel: ChannelWhatsApp, GroupID: &group}, false},
		{"email without subject", CampaignDetails{Name: "x", Channel: ChannelEmail, MessageTemplate: "hi", GroupID: &group}, false},
		{"no audience", CampaignDetails{Name: "x", Channel: ChannelWhatsApp, MessageTemplate: "hi"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCampaign(tt.details)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestCampaign_Lifecycle(t *testing.T) {
	now := time.Now()
	c := newTestCampaign(t)

	assert.Error(t, c.Schedule(now.Add(-time.Minute), now))
	require.NoError(t, c.Schedule(now.Add(time.Hour), now))
	assert.Equal(t, CampaignStatusScheduled, c.Status)
	assert.False(t, c.IsDue(now))
	assert.True(t, c.IsDue(now.Add(time.Hour)))

	require.NoError(t, c.StartSending(now))
	assert.Equal(t, CampaignStatusSending, c.Status)
	assert.Error(t, c.Update(CampaignDetails{Name: "y", Channel: ChannelWhatsApp, MessageTemplate: "x", CustomerIDs: c.CustomerIDs}))
	assert.Error(t, c.StartSending(now))

	require.NoError(t, c.Finish(3, 1, now))
	assert.Equal(t, CampaignStatusCompleted, c.Status)
	require.Len(t, c.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeCampaignCompleted, c.GetDomainEvents()[0].EventType())
	assert.Error(t, c.Finish(0, 0, now))
}

func TestCampaign_AllFailed(t *testing.T) {
	c := newTestCampaign(t)
	require.NoError(t, c.StartSending(time.Now()))
	require.NoError(t, c.Finish(0, 2, time.Now()))
	assert.Equal(t, CampaignStatusFailed, c.Status)
}

func TestRenderMessage(t *testing.T) {
	got := RenderMessage("Hi {name} ({phone}) at {company}, {name}!", "Sara", "9665", "Acme")
	assert.Equal(t, "Hi Sara (9665) at Acme, Sara!", got)
	assert.Equal(t, "no placeholders", RenderMessage("no placeholders", "a", "b", "c"))
	assert.Equal(t, "Hi  at ", RenderMessage("Hi {name} at {company}", "", "", ""))
}

func TestCampaign_DedupesCustomers(t *testing.T) {
	id := uuid.New()
	c, err := NewCampaign(CampaignDetails{
		Name: "x", Channel: ChannelWhatsApp, MessageTemplate: "hi",
		CustomerIDs: []uuid.UUID{id, id, uuid.Nil},
	})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{id}, c.CustomerIDs)
}
