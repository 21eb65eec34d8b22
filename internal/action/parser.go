package action

import (
	"regexp"
	"strings"
)

// markerPattern matches one embedded action block. The body is
// non-greedy so adjacent blocks stay separate.
var markerPattern = regexp.MustCompile(`\[ACTION:(.*?)\]`)

// Parse extracts every embedded action from generated reply text and
// returns the text with all action spans removed, surrounding prose
// preserved verbatim. Actions come back in the order they appear.
//
// Parsing is tolerant: parameter pairs without an '=' are skipped
// without discarding the action, and unrecognized kind strings are kept
// as opaque kinds for dispatch to reject. Parameter values are not
// validated here.
func Parse(text string) (string, []Action) {
	var actions []Action
	for _, match := range markerPattern.FindAllStringSubmatch(text, -1) {
		body := match[1]
		parts := strings.Split(body, "|")

		kind := Kind(strings.TrimSpace(parts[0]))
		if kind == "" {
			continue
		}

		params := make(map[string]string)
		for _, part := range parts[1:] {
			key, value, ok := strings.Cut(part, "=")
			if !ok {
				continue
			}
			params[strings.TrimSpace(key)] = strings.TrimSpace(value)
		}
		actions = append(actions, Action{Kind: kind, Params: params})
	}

	cleaned := markerPattern.ReplaceAllString(text, "")
	return cleaned, actions
}
