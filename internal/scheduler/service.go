package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/wolfman30/sales-ai-platform/internal/leads"
	"github.com/wolfman30/sales-ai-platform/pkg/logging"
)

// Inviter sends a calendar invitation for a booked meeting. The actual
// transport lives with the delivery collaborator.
type Inviter interface {
	SendCalendarInvite(ctx context.Context, lead *leads.Lead, at time.Time, duration time.Duration, notes string) error
}

// Config carries scheduling defaults.
type Config struct {
	FollowupInterval       time.Duration
	DefaultMeetingDuration time.Duration
}

// Service coordinates meeting and follow-up scheduling against the
// store and the lead repository.
type Service struct {
	store   Store
	leads   leads.Repository
	inviter Inviter
	logger  *logging.Logger
	cfg     Config
}

// NewService wires a scheduler service. inviter may be nil, in which
// case meetings are booked without sending an invitation.
func NewService(store Store, repo leads.Repository, inviter Inviter, logger *logging.Logger, cfg Config) *Service {
	if store == nil {
		panic("scheduler: store required")
	}
	if repo == nil {
		panic("scheduler: lead repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FollowupInterval <= 0 {
		cfg.FollowupInterval = 24 * time.Hour
	}
	if cfg.DefaultMeetingDuration <= 0 {
		cfg.DefaultMeetingDuration = 30 * time.Minute
	}
	return &Service{store: store, leads: repo, inviter: inviter, logger: logger, cfg: cfg}
}

// ScheduleMeeting books a meeting with the lead, moves the lead into
// negotiation, and sends a calendar invite when an inviter is wired.
func (s *Service) ScheduleMeeting(ctx context.Context, lead *leads.Lead, at time.Time, duration time.Duration, notes string) (*ScheduledAction, error) {
	if duration <= 0 {
		duration = s.cfg.DefaultMeetingDuration
	}

	action := &ScheduledAction{
		LeadID:          lead.ID,
		Type:            ActionMeeting,
		Channel:         lead.PreferredChannel,
		Content:         notes,
		ScheduledFor:    at,
		DurationMinutes: int(duration / time.Minute),
	}
	if err := s.store.Create(ctx, action); err != nil {
		return nil, err
	}

	status := leads.StatusNegotiating
	if _, err := s.leads.Update(ctx, lead.ID, leads.Update{Status: &status}); err != nil {
		return nil, fmt.Errorf("scheduler: failed to update lead status: %w", err)
	}

	if s.inviter != nil {
		if err := s.inviter.SendCalendarInvite(ctx, lead, at, duration, notes); err != nil {
			// The meeting is booked; a lost invite is recoverable.
			s.logger.Error("failed to send calendar invite",
				"lead_id", lead.ID, "action_id", action.ID, "error", err)
		}
	}

	return action, nil
}

// ScheduleFollowup stores a follow-up message to send later. A zero at
// defaults to the configured follow-up interval from now.
func (s *Service) ScheduleFollowup(ctx context.Context, lead *leads.Lead, content string, at time.Time) (*ScheduledAction, error) {
	if at.IsZero() {
		at = time.Now().UTC().Add(s.cfg.FollowupInterval)
	}

	action := &ScheduledAction{
		LeadID:       lead.ID,
		Type:         ActionFollowup,
		Channel:      lead.PreferredChannel,
		Content:      content,
		ScheduledFor: at,
	}
	if err := s.store.Create(ctx, action); err != nil {
		return nil, err
	}

	if _, err := s.leads.Update(ctx, lead.ID, leads.Update{IncrementFollowups: true}); err != nil {
		return nil, fmt.Errorf("scheduler: failed to bump followup count: %w", err)
	}

	return action, nil
}

// DueActions surfaces pending work for an external sweep.
func (s *Service) DueActions(ctx context.Context, now time.Time, limit int) ([]ScheduledAction, error) {
	return s.store.DueActions(ctx, now, limit)
}

// MarkExecuted records completion of a due action.
func (s *Service) MarkExecuted(ctx context.Context, id string, at time.Time) error {
	return s.store.MarkExecuted(ctx, id, at)
}
