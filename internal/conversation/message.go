// Package conversation holds the message processing pipeline: the
// ordered gating, scoring, and generation stages that turn one inbound
// lead message into an outbound reply plus independently dispatched
// side effects.
package conversation

import (
	"time"

	"github.com/wolfman30/sales-ai-platform/internal/leads"
)

// Direction distinguishes who produced a stored message.
type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// Message is one stored conversation turn half.
type Message struct {
	ID             string        `json:"id"`
	LeadID         string        `json:"lead_id"`
	Direction      Direction     `json:"direction"`
	Channel        leads.Channel `json:"channel"`
	Content        string        `json:"content"`
	SentimentScore *float64      `json:"sentiment_score,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}
