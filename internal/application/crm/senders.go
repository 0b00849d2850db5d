package crm

import (
	"github.com/agency/backend/internal/domain/crm"
	"github.com/agency/backend/internal/domain/customer"
	"github.com/agency/backend/internal/domain/shared"
)

// Senders maps each channel to the sender that delivers it. A channel
// without a configured sender is unavailable.
type Senders map[crm.Channel]crm.MessageSender

// For returns the sender for ch
func (s Senders) For(ch crm.Channel) (crm.MessageSender, error) {
	sender, ok := s[ch]
	if !ok || sender == nil {
		return nil, shared.NewDomainError("CHANNEL_UNAVAILABLE", "Messaging channel "+string(ch)+" is not configured")
	}
	return sender, nil
}

// destination returns the customer's address on ch, or "" when there is none
func destination(c *customer.Customer, ch crm.Channel) string {
	switch ch {
	case crm.ChannelWhatsApp:
		if c.HasPhone() {
			return c.Phone
		}
	case crm.ChannelEmail:
		if c.HasEmail() {
			return c.Email
		}
	}
	return ""
}
