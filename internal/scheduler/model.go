// Package scheduler persists and executes time-deferred actions:
// meetings booked with a lead and scheduled follow-up messages.
package scheduler

import (
	"time"

	"github.com/wolfman30/sales-ai-platform/internal/leads"
)

// ActionType distinguishes scheduled work.
type ActionType string

const (
	ActionFollowup ActionType = "followup"
	ActionMeeting  ActionType = "meeting"
)

// ScheduledAction is one pending or executed deferred action.
type ScheduledAction struct {
	ID              string        `json:"id"`
	LeadID          string        `json:"lead_id"`
	Type            ActionType    `json:"type"`
	Channel         leads.Channel `json:"channel"`
	Content         string        `json:"content,omitempty"`
	ScheduledFor    time.Time     `json:"scheduled_for"`
	DurationMinutes int           `json:"duration_minutes,omitempty"`
	ExecutedAt      *time.Time    `json:"executed_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}
