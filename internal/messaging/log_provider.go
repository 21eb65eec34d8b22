package messaging

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/wolfman30/sales-ai-platform/internal/leads"
	"github.com/wolfman30/sales-ai-platform/pkg/logging"
)

// LogProvider logs outbound messages instead of sending them. It keeps
// the delivered messages so tests and local runs can inspect them.
type LogProvider struct {
	logger *logging.Logger

	mu   sync.Mutex
	sent []SentMessage
}

// SentMessage is one message the log provider accepted.
type SentMessage struct {
	Channel   leads.Channel
	Recipient string
	Subject   string
	Body      string
}

// NewLogProvider creates a provider that logs instead of sending.
func NewLogProvider(logger *logging.Logger) *LogProvider {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogProvider{logger: logger}
}

// Deliver records the message and reports success on every channel.
func (p *LogProvider) Deliver(ctx context.Context, channel leads.Channel, recipient, subject, body string) (Result, error) {
	p.mu.Lock()
	p.sent = append(p.sent, SentMessage{Channel: channel, Recipient: recipient, Subject: subject, Body: body})
	p.mu.Unlock()

	p.logger.Info("outbound message (log provider)",
		"channel", channel, "to", recipient, "subject", subject, "chars", len(body))
	return Result{Delivered: true, ProviderRef: uuid.NewString()}, nil
}

// Sent returns a copy of everything delivered so far.
func (p *LogProvider) Sent() []SentMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]SentMessage, len(p.sent))
	copy(out, p.sent)
	return out
}
