package scheduler

import (
	"context"
	"time"

	"github.com/wolfman30/sales-ai-platform/internal/leads"
	"github.com/wolfman30/sales-ai-platform/internal/messaging"
	"github.com/wolfman30/sales-ai-platform/pkg/logging"
)

const sweepBatch = 20

// Sweeper periodically executes due scheduled actions: follow-up
// messages go out through the delivery provider, due meetings are
// closed out. A failed send leaves the action pending for the next
// sweep.
type Sweeper struct {
	service  *Service
	leads    leads.Repository
	provider messaging.Provider
	logger   *logging.Logger
	interval time.Duration
}

// NewSweeper builds a sweeper over the scheduler service.
func NewSweeper(service *Service, repo leads.Repository, provider messaging.Provider, logger *logging.Logger, interval time.Duration) *Sweeper {
	if service == nil {
		panic("scheduler: service required")
	}
	if repo == nil {
		panic("scheduler: lead repository required")
	}
	if provider == nil {
		panic("scheduler: delivery provider required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{service: service, leads: repo, provider: provider, logger: logger, interval: interval}
}

// Run sweeps until ctx is canceled. It blocks; callers run it in a
// goroutine.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep executes one pass over the due actions.
func (s *Sweeper) Sweep(ctx context.Context) {
	now := time.Now().UTC()
	due, err := s.service.DueActions(ctx, now, sweepBatch)
	if err != nil {
		s.logger.Error("due action sweep failed", "error", err)
		return
	}

	for _, act := range due {
		if err := s.execute(ctx, act); err != nil {
			s.logger.Error("scheduled action failed, will retry next sweep",
				"action_id", act.ID, "type", act.Type, "error", err)
			continue
		}
		if err := s.service.MarkExecuted(ctx, act.ID, now); err != nil {
			s.logger.Error("failed to mark action executed", "action_id", act.ID, "error", err)
		}
	}
}

func (s *Sweeper) execute(ctx context.Context, act ScheduledAction) error {
	switch act.Type {
	case ActionFollowup:
		lead, err := s.leads.GetByID(ctx, act.LeadID)
		if err != nil {
			return err
		}
		content := act.Content
		if content == "" {
			content = "Hello " + lead.FirstName + ", I wanted to follow up on our conversation. Is there anything I can help with?"
		}
		recipient := lead.Email
		if act.Channel == leads.ChannelSMS && lead.Phone != "" {
			recipient = lead.Phone
		}
		_, err = s.provider.Deliver(ctx, act.Channel, recipient, "Following up", content)
		return err
	default:
		// Meetings need no send at the scheduled time; the invite went
		// out at booking. The sweep just closes them out.
		s.logger.Info("meeting reached its scheduled time", "action_id", act.ID, "lead_id", act.LeadID)
		return nil
	}
}
