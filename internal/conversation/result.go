package conversation

import (
	"github.com/wolfman30/sales-ai-platform/internal/action"
	"github.com/wolfman30/sales-ai-platform/internal/compliance"
	"github.com/wolfman30/sales-ai-platform/internal/sentiment"
)

// PipelineResult packages everything one processed turn produced.
// Success reflects the primary reply being produced and stored; it is
// independent of transport delivery, which is reported separately.
type PipelineResult struct {
	MessageID string `json:"message_id"`
	LeadID    string `json:"lead_id"`
	Success   bool   `json:"success"`
	Response  string `json:"response"`

	// Escalated marks a compliance-terminated turn.
	Escalated      bool                    `json:"escalated"`
	RiskCategory   compliance.RiskCategory `json:"risk_category,omitempty"`
	MatchedPhrases []string                `json:"matched_phrases,omitempty"`

	Sentiment *sentiment.Snapshot `json:"sentiment,omitempty"`
	Actions   []action.Outcome    `json:"actions,omitempty"`

	Delivered     bool   `json:"delivered"`
	DeliveryError string `json:"delivery_error,omitempty"`

	// GenerationFellBack marks a turn answered with the canned reply
	// because the generator failed or timed out.
	GenerationFellBack bool `json:"generation_fell_back,omitempty"`
}
