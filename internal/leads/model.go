package leads

import (
	"strings"
	"time"
)

// Status is the lifecycle stage of a lead.
type Status string

const (
	StatusNew         Status = "new"
	StatusEngaged     Status = "engaged"
	StatusNegotiating Status = "negotiating"
	StatusWon         Status = "won"
	StatusLost        Status = "lost"
	StatusEscalated   Status = "escalated"
)

// ParseStatus maps a raw string to a Status, case-insensitively.
func ParseStatus(s string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusNew, StatusEngaged, StatusNegotiating, StatusWon, StatusLost, StatusEscalated:
		return Status(strings.ToLower(strings.TrimSpace(s))), true
	}
	return "", false
}

// Channel is the medium a lead prefers for conversation.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelChat  Channel = "chat"
)

// Temperature is a coarse measure of lead readiness used for queue priority.
type Temperature string

const (
	TemperatureCold Temperature = "cold"
	TemperatureWarm Temperature = "warm"
	TemperatureHot  Temperature = "hot"
)

// Lead is a prospective customer tracked through the sales lifecycle.
// Email is the unique external identity.
type Lead struct {
	ID               string      `json:"id"`
	FirstName        string      `json:"first_name"`
	LastName         string      `json:"last_name"`
	Email            string      `json:"email"`
	Phone            string      `json:"phone,omitempty"`
	Company          string      `json:"company,omitempty"`
	JobTitle         string      `json:"job_title,omitempty"`
	Source           string      `json:"source,omitempty"`
	Status           Status      `json:"status"`
	Needs            string      `json:"needs,omitempty"`
	Budget           string      `json:"budget,omitempty"`
	Objections       string      `json:"objections,omitempty"`
	Notes            string      `json:"notes,omitempty"`
	PreferredChannel Channel     `json:"preferred_channel"`
	Temperature      Temperature `json:"temperature"`
	FollowupCount    int         `json:"followup_count"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
	LastContact      *time.Time  `json:"last_contact,omitempty"`
}

// FullName joins first and last name, tolerating either being empty.
func (l *Lead) FullName() string {
	name := strings.TrimSpace(l.FirstName + " " + l.LastName)
	if name == "" {
		return l.Email
	}
	return name
}

// CreateLeadRequest carries the fields accepted when registering a lead.
type CreateLeadRequest struct {
	FirstName        string  `json:"first_name"`
	LastName         string  `json:"last_name"`
	Email            string  `json:"email"`
	Phone            string  `json:"phone"`
	Company          string  `json:"company"`
	JobTitle         string  `json:"job_title"`
	Source           string  `json:"source"`
	PreferredChannel Channel `json:"preferred_channel"`
}

// Validate checks the request for required fields.
func (r *CreateLeadRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return ErrMissingEmail
	}
	if strings.TrimSpace(r.FirstName) == "" && strings.TrimSpace(r.LastName) == "" {
		return ErrInvalidName
	}
	switch r.PreferredChannel {
	case ChannelEmail, ChannelSMS, ChannelChat, "":
	default:
		return ErrInvalidChannel
	}
	return nil
}

// Update describes a single logical mutation applied to a lead. Nil
// fields are left untouched; the repository applies all set fields as
// one write so concurrent readers never observe a partial update.
type Update struct {
	Status             *Status
	Needs              *string
	Budget             *string
	Objections         *string
	Notes              *string
	Temperature        *Temperature
	IncrementFollowups bool
	TouchLastContact   bool
}

// IsZero reports whether the update would change nothing.
func (u Update) IsZero() bool {
	return u.Status == nil && u.Needs == nil && u.Budget == nil &&
		u.Objections == nil && u.Notes == nil && u.Temperature == nil &&
		!u.IncrementFollowups && !u.TouchLastContact
}
