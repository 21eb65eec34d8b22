package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/wolfman30/sales-ai-platform/internal/leads"
)

// CalendarInviter sends meeting confirmations through a delivery
// provider. It satisfies the scheduler's Inviter interface.
type CalendarInviter struct {
	provider Provider
}

// NewCalendarInviter creates an inviter backed by the given provider.
func NewCalendarInviter(provider Provider) *CalendarInviter {
	if provider == nil {
		panic("messaging: provider required")
	}
	return &CalendarInviter{provider: provider}
}

// SendCalendarInvite confirms the meeting on the lead's preferred
// channel.
func (i *CalendarInviter) SendCalendarInvite(ctx context.Context, lead *leads.Lead, at time.Time, duration time.Duration, notes string) error {
	recipient := lead.Email
	if lead.PreferredChannel == leads.ChannelSMS && lead.Phone != "" {
		recipient = lead.Phone
	}

	subject := "Meeting confirmed"
	body := fmt.Sprintf("Hi %s, your meeting is confirmed for %s (%d minutes).",
		lead.FirstName, at.Format("Monday, January 2 at 3:04 PM"), int(duration/time.Minute))
	if notes != "" {
		body += "\n\nAgenda: " + notes
	}

	if _, err := i.provider.Deliver(ctx, lead.PreferredChannel, recipient, subject, body); err != nil {
		return fmt.Errorf("messaging: calendar invite failed: %w", err)
	}
	return nil
}
