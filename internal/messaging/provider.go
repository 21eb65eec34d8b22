// Package messaging delivers outbound replies and notifications to
// leads over their preferred channel.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wolfman30/sales-ai-platform/internal/leads"
	"github.com/wolfman30/sales-ai-platform/pkg/logging"
)

// ErrUnsupportedChannel is returned when a provider cannot deliver on
// the requested channel.
var ErrUnsupportedChannel = errors.New("messaging: unsupported channel")

// Result describes one delivery attempt.
type Result struct {
	Delivered   bool   `json:"delivered"`
	ProviderRef string `json:"provider_ref,omitempty"`
}

// Provider delivers a message to a recipient on a channel.
type Provider interface {
	Deliver(ctx context.Context, channel leads.Channel, recipient, subject, body string) (Result, error)
}

const (
	// ProviderSendGrid forces the SendGrid email sender.
	ProviderSendGrid = "sendgrid"
	// ProviderLog logs outbound messages instead of sending them.
	ProviderLog = "log"
)

// ProviderSelectionConfig captures the credentials required to build an
// outbound provider.
type ProviderSelectionConfig struct {
	Preference        string
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
}

// BuildProvider instantiates a delivery provider based on the preferred
// provider. It returns the provider, the name that was selected, and a
// reason when the preferred provider could not be initialized and the
// log provider was substituted.
func BuildProvider(cfg ProviderSelectionConfig, logger *logging.Logger) (Provider, string, string) {
	if logger == nil {
		logger = logging.Default()
	}
	preference := strings.ToLower(strings.TrimSpace(cfg.Preference))
	if preference == "" {
		preference = ProviderSendGrid
	}

	switch preference {
	case ProviderLog:
		return NewLogProvider(logger), ProviderLog, ""
	case ProviderSendGrid:
		if cfg.SendGridAPIKey == "" {
			return NewLogProvider(logger), ProviderLog, "SENDGRID_API_KEY missing"
		}
		return NewSendGridProvider(SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger), ProviderSendGrid, ""
	default:
		return NewLogProvider(logger), ProviderLog, fmt.Sprintf("unknown provider %q", preference)
	}
}
