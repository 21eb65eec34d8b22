package queue

import (
	"strings"

	"github.com/wolfman30/sales-ai-platform/internal/leads"
)

// Priority levels. Higher numbers are served first.
const (
	PriorityLow       = 1 // cold leads, routine follow-ups
	PriorityMedium    = 2 // warm leads, regular conversations
	PriorityHigh      = 3 // hot leads, new leads, objections
	PriorityUrgent    = 4 // closing opportunities, very negative sentiment
	PriorityImmediate = 5 // explicit purchase intent
)

var urgentKeywords = []string{
	"urgent", "asap", "emergency", "immediately", "buy now",
	"purchase now", "sign up now", "ready to proceed",
}

var buyingSignals = []string{
	"ready to buy", "credit card", "payment", "purchase",
	"sign contract", "let's do it", "move forward",
}

// PriorityInput carries everything the calculator may consider.
type PriorityInput struct {
	Lead    *leads.Lead
	Content string
	// SentimentScore is the message's score when already known; nil
	// when sentiment runs later in the pipeline.
	SentimentScore *float64
	// PriorInboundCount is how many inbound messages the lead has sent
	// before this one.
	PriorInboundCount int
}

// CalculatePriority derives a priority level from lead state and
// message content. The heuristics are deliberately coarse; they decide
// ordering under load, not anything user-visible.
func CalculatePriority(in PriorityInput) int {
	priority := PriorityMedium

	if in.Lead != nil {
		switch in.Lead.Status {
		case leads.StatusNew:
			priority = maxInt(priority, PriorityHigh)
		case leads.StatusNegotiating:
			priority = maxInt(priority, PriorityUrgent)
		}

		switch in.Lead.Temperature {
		case leads.TemperatureHot:
			priority = maxInt(priority, PriorityHigh)
		case leads.TemperatureWarm:
			priority = maxInt(priority, PriorityMedium)
		}
	}

	content := strings.ToLower(in.Content)
	for _, kw := range urgentKeywords {
		if strings.Contains(content, kw) {
			priority = maxInt(priority, PriorityUrgent)
			break
		}
	}

	// First contact gets answered quickly.
	if in.PriorInboundCount <= 1 {
		priority = maxInt(priority, PriorityHigh)
	}

	if in.SentimentScore != nil {
		switch {
		case *in.SentimentScore <= -0.5:
			priority = maxInt(priority, PriorityUrgent)
		case *in.SentimentScore <= -0.2:
			priority = maxInt(priority, PriorityHigh)
		}
	}

	for _, signal := range buyingSignals {
		if strings.Contains(content, signal) {
			return PriorityImmediate
		}
	}

	return priority
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
