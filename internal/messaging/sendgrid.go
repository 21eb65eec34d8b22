package messaging

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/wolfman30/sales-ai-platform/internal/leads"
	"github.com/wolfman30/sales-ai-platform/pkg/logging"
)

// SendGridConfig holds configuration for SendGrid.
type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// SendGridProvider delivers email via the SendGrid API. Non-email
// channels are rejected with ErrUnsupportedChannel.
type SendGridProvider struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	logger    *logging.Logger
}

// NewSendGridProvider creates a SendGrid email provider.
func NewSendGridProvider(cfg SendGridConfig, logger *logging.Logger) *SendGridProvider {
	if cfg.APIKey == "" {
		panic("messaging: sendgrid api key required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FromName == "" {
		cfg.FromName = "Sales AI"
	}
	return &SendGridProvider{
		client:    sendgrid.NewSendClient(cfg.APIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		logger:    logger,
	}
}

// Deliver sends the message as a plain-text email.
func (p *SendGridProvider) Deliver(ctx context.Context, channel leads.Channel, recipient, subject, body string) (Result, error) {
	if channel != leads.ChannelEmail {
		return Result{}, fmt.Errorf("messaging: sendgrid cannot deliver %s: %w", channel, ErrUnsupportedChannel)
	}

	from := mail.NewEmail(p.fromName, p.fromEmail)
	to := mail.NewEmail("", recipient)
	message := mail.NewSingleEmail(from, subject, to, body, body)

	response, err := p.client.SendWithContext(ctx, message)
	if err != nil {
		p.logger.Error("sendgrid send failed", "error", err, "to", recipient)
		return Result{}, fmt.Errorf("messaging: sendgrid send failed: %w", err)
	}
	if response.StatusCode >= 400 {
		p.logger.Error("sendgrid returned error status", "status", response.StatusCode, "body", response.Body, "to", recipient)
		return Result{}, fmt.Errorf("messaging: sendgrid returned status %d", response.StatusCode)
	}

	p.logger.Info("email sent via sendgrid", "to", recipient, "subject", subject, "status", response.StatusCode)
	ref := response.Headers["X-Message-Id"]
	result := Result{Delivered: true}
	if len(ref) > 0 {
		result.ProviderRef = ref[0]
	}
	return result, nil
}
