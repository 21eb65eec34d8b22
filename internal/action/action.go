// Package action implements the protocol for commands embedded in
// generated reply text: parsing the markers out of the prose and
// dispatching each command to its handler with per-action failure
// isolation.
package action

// Kind identifies one command the reply text can carry. Unrecognized
// strings survive parsing as opaque kinds; dispatch rejects them.
type Kind string

const (
	KindScheduleMeeting  Kind = "SCHEDULE_MEETING"
	KindScheduleFollowup Kind = "SCHEDULE_FOLLOWUP"
	KindSendInformation  Kind = "SEND_INFORMATION"
	KindUpdateLead       Kind = "UPDATE_LEAD"
	KindEscalateToHuman  Kind = "ESCALATE_TO_HUMAN"
	KindRecommendItem    Kind = "RECOMMEND_ITEM"
)

// Action is one parsed command. It exists only between parse and
// dispatch; only its effects persist.
type Action struct {
	Kind   Kind
	Params map[string]string
}

// Param returns the named parameter or fallback when absent or empty.
func (a Action) Param(key, fallback string) string {
	if v, ok := a.Params[key]; ok && v != "" {
		return v
	}
	return fallback
}

// Outcome records the result of dispatching one action.
type Outcome struct {
	Kind    Kind           `json:"kind"`
	Success bool           `json:"success"`
	Error   string         `json:"error,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}
