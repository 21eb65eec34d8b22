package sentiment

import (
	"regexp"
	"strings"
)

type toneModifier struct {
	greeting string
	closing  string
}

var toneModifiers = map[Category]toneModifier{
	CategoryPositive: {
		greeting: "It's great to hear from you! ",
		closing:  "I'm looking forward to our continued conversation!",
	},
	CategoryNegative: {
		greeting: "I understand your concerns. ",
		closing:  "I'm here to help address any issues you have.",
	},
	CategoryNeutral: {
		greeting: "Thank you for your message. ",
		closing:  "Please let me know if you have any questions.",
	},
}

var greetingPattern = regexp.MustCompile(`^(hi|hello|hey|greetings|good (morning|afternoon|evening))`)

// ModifyResponse adapts an outbound reply to the lead's sentiment by
// prepending a tone-matched greeting (unless one is already present)
// and appending a tone-matched closing.
func ModifyResponse(text string, category Category) string {
	mod, ok := toneModifiers[category]
	if !ok {
		mod = toneModifiers[CategoryNeutral]
	}

	out := text
	if !greetingPattern.MatchString(strings.ToLower(text)) {
		out = mod.greeting + out
	}

	trimmed := strings.TrimRight(out, " ")
	if strings.HasSuffix(trimmed, ".") || strings.HasSuffix(trimmed, "!") || strings.HasSuffix(trimmed, "?") {
		out = trimmed + " "
	} else {
		out = trimmed + ". "
	}
	return out + mod.closing
}
