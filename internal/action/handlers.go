package action

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/wolfman30/sales-ai-platform/internal/leads"
	"github.com/wolfman30/sales-ai-platform/internal/recommend"
	"github.com/wolfman30/sales-ai-platform/internal/scheduler"
)

const (
	defaultMeetingTime     = "tomorrow at 10:00 AM"
	defaultEscalateReason  = "Lead requested human assistance"
	defaultRecommendReason = "recommended by sales agent"
	defaultConfidence      = 0.7
)

func (d *Dispatcher) scheduleMeeting(deps Deps) Handler {
	return func(ctx context.Context, lead *leads.Lead, act Action) (map[string]any, error) {
		at, err := scheduler.ResolveTime(act.Param("time", defaultMeetingTime), time.Now())
		if err != nil {
			return nil, fmt.Errorf("action: meeting time: %w", err)
		}

		duration := time.Duration(0)
		if raw := act.Param("duration", ""); raw != "" {
			minutes, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("action: invalid duration %q", raw)
			}
			duration = time.Duration(minutes) * time.Minute
		}

		scheduled, err := deps.Scheduler.ScheduleMeeting(ctx, lead, at, duration, act.Param("notes", ""))
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"action_id":     scheduled.ID,
			"scheduled_for": scheduled.ScheduledFor,
			"duration_min":  scheduled.DurationMinutes,
		}, nil
	}
}

func (d *Dispatcher) scheduleFollowup(deps Deps) Handler {
	return func(ctx context.Context, lead *leads.Lead, act Action) (map[string]any, error) {
		// A zero time lets the service apply the follow-up interval.
		var at time.Time
		if raw := act.Param("time", ""); raw != "" {
			resolved, err := scheduler.ResolveTime(raw, time.Now())
			if err != nil {
				return nil, fmt.Errorf("action: followup time: %w", err)
			}
			at = resolved
		}

		scheduled, err := deps.Scheduler.ScheduleFollowup(ctx, lead, act.Param("message", ""), at)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"action_id":     scheduled.ID,
			"scheduled_for": scheduled.ScheduledFor,
		}, nil
	}
}

// sendInformation records which info category was requested; the
// actual content goes out with the reply, so there is nothing to
// mutate here.
func (d *Dispatcher) sendInformation(deps Deps) Handler {
	return func(ctx context.Context, lead *leads.Lead, act Action) (map[string]any, error) {
		return map[string]any{
			"lead_id":   lead.ID,
			"info_type": act.Param("type", ""),
		}, nil
	}
}

func (d *Dispatcher) updateLead(deps Deps) Handler {
	return func(ctx context.Context, lead *leads.Lead, act Action) (map[string]any, error) {
		var update leads.Update
		applied := map[string]any{}

		if raw, ok := act.Params["status"]; ok {
			if status, valid := leads.ParseStatus(raw); valid {
				update.Status = &status
				applied["status"] = string(status)
			}
			// Invalid status values are ignored, not errors.
		}
		if v, ok := act.Params["needs"]; ok {
			update.Needs = &v
			applied["needs"] = v
		}
		if v, ok := act.Params["budget"]; ok {
			update.Budget = &v
			applied["budget"] = v
		}
		if v, ok := act.Params["objections"]; ok {
			update.Objections = &v
			applied["objections"] = v
		}
		if v, ok := act.Params["notes"]; ok {
			update.Notes = &v
			applied["notes"] = v
		}

		if update.IsZero() {
			return map[string]any{"lead_id": lead.ID, "updates": applied}, nil
		}

		updated, err := deps.Leads.Update(ctx, lead.ID, update)
		if err != nil {
			return nil, err
		}
		*lead = *updated
		return map[string]any{"lead_id": lead.ID, "updates": applied}, nil
	}
}

func (d *Dispatcher) escalateToHuman(deps Deps) Handler {
	return func(ctx context.Context, lead *leads.Lead, act Action) (map[string]any, error) {
		status := leads.StatusEscalated
		updated, err := deps.Leads.Update(ctx, lead.ID, leads.Update{Status: &status})
		if err != nil {
			return nil, err
		}
		*lead = *updated

		reason := act.Param("reason", defaultEscalateReason)
		d.logger.Info("lead escalated to human", "lead_id", lead.ID, "reason", reason)
		return map[string]any{"lead_id": lead.ID, "reason": reason}, nil
	}
}

func (d *Dispatcher) recommendItem(deps Deps) Handler {
	return func(ctx context.Context, lead *leads.Lead, act Action) (map[string]any, error) {
		itemID := act.Param("item_id", "")
		if itemID == "" {
			if deps.Engine == nil {
				return nil, fmt.Errorf("action: no item_id and no recommendation engine configured")
			}
			recs, err := deps.Engine.Recommend(ctx, lead.ID, 3)
			if err != nil {
				return nil, fmt.Errorf("action: recommendation engine: %w", err)
			}
			if len(recs) == 0 {
				return nil, fmt.Errorf("action: recommendation engine returned nothing for lead %s", lead.ID)
			}
			for _, rec := range recs {
				rec.LeadID = lead.ID
				if _, err := deps.Records.Record(ctx, rec); err != nil {
					return nil, err
				}
			}
			return map[string]any{"lead_id": lead.ID, "generated": len(recs)}, nil
		}

		created, err := deps.Records.Record(ctx, recommend.Recommendation{
			LeadID:     lead.ID,
			ItemID:     itemID,
			Reason:     defaultRecommendReason,
			Confidence: defaultConfidence,
		})
		if err != nil {
			return nil, err
		}
		// Re-recommending the same item is a no-op success.
		return map[string]any{"lead_id": lead.ID, "item_id": itemID, "recorded": created}, nil
	}
}
