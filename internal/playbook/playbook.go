// Package playbook selects conversation strategy parameters for a lead
// and renders canned message templates for well-known slots.
package playbook

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/wolfman30/sales-ai-platform/internal/leads"
)

// Slot names a well-known template position in the conversation.
type Slot string

const (
	SlotGreeting Slot = "greeting"
	SlotFollowup Slot = "followup"
)

// Strategy is the set of response-shaping parameters chosen for a lead.
type Strategy struct {
	Name      string
	Tone      string
	Style     string
	Questions []string

	// Templates maps slots to text/template sources rendered against
	// TemplateData.
	Templates map[Slot]string
}

// TemplateData is the substitution context for slot templates.
type TemplateData struct {
	FirstName string
	Company   string
	Industry  string
}

// Selector picks a strategy from lead attributes. Selection is a pure
// lookup; every lead gets some strategy, so there is no error path.
type Selector struct {
	playbooks map[string]Strategy
}

// NewSelector returns a selector with the built-in playbooks.
func NewSelector() *Selector {
	return &Selector{playbooks: defaultPlaybooks()}
}

// Select chooses a strategy for the lead. Job title drives the choice:
// technical roles get the technical playbook, executives the executive
// one, small companies the small-business one, everyone else default.
func (s *Selector) Select(lead *leads.Lead) Strategy {
	if lead == nil {
		return s.playbooks["default"]
	}

	title := strings.ToLower(lead.JobTitle)
	switch {
	case containsAny(title, "cto", "engineer", "developer", "architect", "technical"):
		return s.playbooks["technical"]
	case containsAny(title, "ceo", "cfo", "coo", "chief", "founder", "president", "vp", "director"):
		return s.playbooks["executive"]
	case containsAny(strings.ToLower(lead.Company), "llc", "shop", "studio") || lead.Company == "":
		return s.playbooks["small_business"]
	default:
		return s.playbooks["default"]
	}
}

// RenderTemplate renders the strategy's template for a slot. The second
// return value is false when the strategy has no template for the slot;
// that is not an error, it signals the caller to fall back to generation.
func RenderTemplate(strategy Strategy, slot Slot, data TemplateData) (string, bool) {
	src, ok := strategy.Templates[slot]
	if !ok || src == "" {
		return "", false
	}

	t, err := template.New(string(slot)).Option("missingkey=error").Parse(src)
	if err != nil {
		return "", false
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", false
	}
	return buf.String(), true
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func defaultPlaybooks() map[string]Strategy {
	return map[string]Strategy{
		"default": {
			Name:  "Default Playbook",
			Tone:  "friendly yet professional",
			Style: "consultative selling",
			Questions: []string{
				"What specific challenges are you looking to solve?",
				"What is your timeline for implementing a solution?",
				"Have you set aside a budget for this project?",
				"Who else is involved in the decision-making process?",
			},
			Templates: map[Slot]string{
				SlotGreeting: "Hello {{.FirstName}}, thank you for your interest in our services. How can I assist you today?",
				SlotFollowup: "Hello {{.FirstName}}, I wanted to follow up on our conversation. Have you had a chance to consider our solution?",
			},
		},
		"technical": {
			Name:  "Technical Lead Playbook",
			Tone:  "precise and data-driven",
			Style: "technical consultative",
			Questions: []string{
				"What technical requirements are most important for your implementation?",
				"Are there specific integrations you need?",
				"What performance metrics are you looking to achieve?",
				"What is your current technical stack?",
			},
			Templates: map[Slot]string{
				SlotGreeting: "Hello {{.FirstName}}, I understand you're exploring technical solutions. I'd be happy to discuss specifics about our platform.",
			},
		},
		"executive": {
			Name:  "Executive Playbook",
			Tone:  "confident and business-focused",
			Style: "value-based selling",
			Questions: []string{
				"What key business objectives are you looking to achieve?",
				"How are you measuring success for this initiative?",
				"What would be the impact of solving this challenge on your bottom line?",
				"When do you need to see results by?",
			},
			Templates: map[Slot]string{
				SlotGreeting: "Hello {{.FirstName}}, thank you for your interest. I'd like to understand how we can drive measurable business outcomes for {{.Company}}.",
			},
		},
		"small_business": {
			Name:  "Small Business Playbook",
			Tone:  "helpful and straightforward",
			Style: "consultative with focus on efficiency",
			Questions: []string{
				"What specific business challenge are you trying to solve?",
				"How are you handling this currently?",
				"What would success look like for you?",
				"Are you the main decision maker for this purchase?",
			},
			Templates: map[Slot]string{
				SlotGreeting: "Hi {{.FirstName}}, I appreciate business owners like yourself taking the time to explore solutions. How can I help your business today?",
			},
		},
	}
}
