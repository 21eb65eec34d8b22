package conversation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/sales-ai-platform/internal/action"
	"github.com/wolfman30/sales-ai-platform/internal/compliance"
	"github.com/wolfman30/sales-ai-platform/internal/leads"
	"github.com/wolfman30/sales-ai-platform/internal/messaging"
	"github.com/wolfman30/sales-ai-platform/internal/observability/metrics"
	"github.com/wolfman30/sales-ai-platform/internal/playbook"
	"github.com/wolfman30/sales-ai-platform/internal/queue"
	"github.com/wolfman30/sales-ai-platform/internal/sentiment"
	"github.com/wolfman30/sales-ai-platform/pkg/logging"
)

// Config carries the pipeline's tunables.
type Config struct {
	GenerationModel   string
	GenerationTimeout time.Duration
	MaxResponseTokens int32
	Temperature       float32
	HistoryWindow     int
	TrendWindow       int
}

// StrategySelector picks the conversation strategy for a lead.
// *playbook.Selector is the production implementation.
type StrategySelector interface {
	Select(lead *leads.Lead) playbook.Strategy
}

// Deps are the collaborators the pipeline composes.
type Deps struct {
	Leads      leads.Repository
	Store      Store
	Analyzer   *sentiment.Analyzer
	Gate       *compliance.Gate
	Audit      compliance.AuditLog
	Selector   StrategySelector
	LLM        LLMClient
	Dispatcher *action.Dispatcher
	Provider   messaging.Provider
	Metrics    *metrics.PipelineMetrics
}

// Engine runs the message processing pipeline: compliance gate,
// sentiment scoring, context assembly, generation, action parsing,
// action dispatch, delivery. Turns for the same lead are serialized;
// different leads process concurrently.
type Engine struct {
	deps   Deps
	cfg    Config
	logger *logging.Logger
	tracer trace.Tracer

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewEngine wires a pipeline engine. Metrics and Audit may be nil.
func NewEngine(deps Deps, cfg Config, logger *logging.Logger, tracer trace.Tracer) *Engine {
	if deps.Leads == nil {
		panic("conversation: lead repository required")
	}
	if deps.Store == nil {
		panic("conversation: conversation store required")
	}
	if deps.Analyzer == nil {
		panic("conversation: sentiment analyzer required")
	}
	if deps.Gate == nil {
		panic("conversation: compliance gate required")
	}
	if deps.Selector == nil {
		panic("conversation: playbook selector required")
	}
	if deps.LLM == nil {
		panic("conversation: llm client required")
	}
	if deps.Dispatcher == nil {
		panic("conversation: action dispatcher required")
	}
	if deps.Provider == nil {
		panic("conversation: delivery provider required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if tracer == nil {
		tracer = otel.Tracer("sales.internal.conversation.pipeline")
	}
	if cfg.GenerationTimeout <= 0 {
		cfg.GenerationTimeout = 30 * time.Second
	}
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = 20
	}
	if cfg.TrendWindow <= 0 {
		cfg.TrendWindow = 5
	}
	return &Engine{
		deps:   deps,
		cfg:    cfg,
		logger: logger,
		tracer: tracer,
		locks:  make(map[string]*sync.Mutex),
	}
}

// leadLock serializes turns per lead so history reads and writes for
// one conversation never interleave.
func (e *Engine) leadLock(leadID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[leadID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[leadID] = l
	}
	return l
}

// ProcessMessage runs one dequeued inbound message through the full
// pipeline. Cancellation is honored up to the point the generation call
// returns; dispatch and everything after it run to completion so a
// side-effecting batch is never half-executed.
func (e *Engine) ProcessMessage(ctx context.Context, msg queue.Message) (*PipelineResult, error) {
	ctx, span := e.tracer.Start(ctx, "pipeline.process_message")
	defer span.End()

	lead, err := e.deps.Leads.GetByEmail(ctx, msg.LeadEmail)
	if err != nil {
		span.RecordError(err)
		e.deps.Metrics.ObserveTurn("rejected")
		return nil, fmt.Errorf("conversation: lead lookup for %s: %w", msg.LeadEmail, err)
	}

	lock := e.leadLock(lead.ID)
	lock.Lock()
	defer lock.Unlock()

	result := &PipelineResult{MessageID: msg.MessageID, LeadID: lead.ID}

	// Compliance gate. A flagged message terminates the turn before any
	// generation or dispatch happens.
	start := time.Now()
	check := e.deps.Gate.Check(msg.Content)
	e.deps.Metrics.ObserveStageLatency("compliance", time.Since(start).Seconds())
	if !check.Compliant {
		return e.escalateFlagged(ctx, lead, msg, check, result)
	}

	// Sentiment scoring.
	start = time.Now()
	score := e.deps.Analyzer.Analyze(msg.Content)
	history, err := e.deps.Store.RecentScores(ctx, lead.ID, e.cfg.TrendWindow)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	snapshot := e.deps.Analyzer.Snapshot(score, history)
	result.Sentiment = &snapshot
	e.deps.Metrics.ObserveStageLatency("sentiment", time.Since(start).Seconds())

	// The inbound turn is persisted with its score before generation so
	// a later failure cannot lose the lead's message.
	inbound := &Message{
		ID:             msg.MessageID,
		LeadID:         lead.ID,
		Direction:      DirectionInbound,
		Channel:        msg.Channel,
		Content:        msg.Content,
		SentimentScore: &score,
	}
	if err := e.deps.Store.AppendMessage(ctx, inbound); err != nil {
		span.RecordError(err)
		e.deps.Metrics.ObserveTurn("persistence_error")
		return nil, err
	}

	// Context assembly.
	start = time.Now()
	turns, err := e.deps.Store.RecentHistory(ctx, lead.ID, e.cfg.HistoryWindow)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	strategy := e.deps.Selector.Select(lead)
	systemPrompt := buildSystemPrompt(lead, strategy, &snapshot)
	chat := toChatMessages(turns, msg.Content)
	e.deps.Metrics.ObserveStageLatency("context", time.Since(start).Seconds())

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Generation: the only suspension point. Bounded by the configured
	// timeout; on failure the turn degrades to the canned reply.
	responseText, genErr := e.generate(ctx, systemPrompt, chat, lead)
	result.GenerationFellBack = genErr != nil

	// From here on the turn runs to completion even if the caller goes
	// away: dispatching half a side-effecting batch is worse than
	// finishing work for a caller that stopped listening.
	ctx = context.WithoutCancel(ctx)

	// Action parsing and tone adjustment.
	start = time.Now()
	cleaned, actions := action.Parse(responseText)
	cleaned = sentiment.ModifyResponse(cleaned, snapshot.Category)
	result.Response = cleaned
	e.deps.Metrics.ObserveStageLatency("parse", time.Since(start).Seconds())

	// Dispatch.
	start = time.Now()
	result.Actions = e.deps.Dispatcher.Dispatch(ctx, lead, actions)
	for _, outcome := range result.Actions {
		status := "success"
		if !outcome.Success {
			status = "failed"
		}
		e.deps.Metrics.ObserveAction(string(outcome.Kind), status)
	}
	e.deps.Metrics.ObserveStageLatency("dispatch", time.Since(start).Seconds())

	outbound := &Message{
		LeadID:    lead.ID,
		Direction: DirectionOutbound,
		Channel:   msg.Channel,
		Content:   cleaned,
	}
	if err := e.deps.Store.AppendMessage(ctx, outbound); err != nil {
		span.RecordError(err)
		e.deps.Metrics.ObserveTurn("persistence_error")
		return nil, err
	}

	result.Success = true
	e.deliver(ctx, lead, msg.Channel, cleaned, result)

	outcome := "delivered"
	if !result.Delivered {
		outcome = "delivery_failed"
	}
	e.deps.Metrics.ObserveTurn(outcome)
	e.logger.Info("turn processed",
		"lead_id", lead.ID, "message_id", msg.MessageID,
		"actions", len(result.Actions), "fellback", result.GenerationFellBack, "delivered", result.Delivered)
	return result, nil
}

// escalateFlagged terminates a turn the compliance gate rejected: the
// lead is escalated, the event audited, and a templated response sent.
func (e *Engine) escalateFlagged(ctx context.Context, lead *leads.Lead, msg queue.Message, check compliance.CheckResult, result *PipelineResult) (*PipelineResult, error) {
	ctx = context.WithoutCancel(ctx)

	result.Escalated = true
	result.RiskCategory = check.Category
	result.MatchedPhrases = check.MatchedPhrases
	result.Response = compliance.Response(check.Category)

	e.deps.Metrics.ObserveComplianceBlock(string(check.Category))
	e.logger.Warn("message flagged by compliance gate",
		"lead_id", lead.ID, "message_id", msg.MessageID, "category", check.Category)

	status := leads.StatusEscalated
	updated, err := e.deps.Leads.Update(ctx, lead.ID, leads.Update{Status: &status})
	if err != nil {
		return nil, fmt.Errorf("conversation: escalating lead %s: %w", lead.ID, err)
	}
	*lead = *updated

	if e.deps.Audit != nil {
		event := compliance.AuditEvent{
			ID:             uuid.NewString(),
			LeadID:         lead.ID,
			MessageID:      msg.MessageID,
			Category:       check.Category,
			MatchedPhrases: check.MatchedPhrases,
			Message:        msg.Content,
			ActionTaken:    "escalated_to_human",
		}
		if err := e.deps.Audit.Record(ctx, event); err != nil {
			return nil, fmt.Errorf("conversation: audit record: %w", err)
		}
	}

	inbound := &Message{
		ID:        msg.MessageID,
		LeadID:    lead.ID,
		Direction: DirectionInbound,
		Channel:   msg.Channel,
		Content:   msg.Content,
	}
	if err := e.deps.Store.AppendMessage(ctx, inbound); err != nil {
		return nil, err
	}
	outbound := &Message{
		LeadID:    lead.ID,
		Direction: DirectionOutbound,
		Channel:   msg.Channel,
		Content:   result.Response,
	}
	if err := e.deps.Store.AppendMessage(ctx, outbound); err != nil {
		return nil, err
	}

	result.Success = true
	e.deliver(ctx, lead, msg.Channel, result.Response, result)
	e.deps.Metrics.ObserveTurn("escalated")
	return result, nil
}

// generate calls the LLM with the configured timeout. Any failure
// degrades to the canned fallback reply; generation never fails a turn.
// The returned error wraps ErrGenerationUnavailable when the fallback
// was used.
func (e *Engine) generate(ctx context.Context, systemPrompt string, chat []ChatMessage, lead *leads.Lead) (string, error) {
	genCtx, cancel := context.WithTimeout(ctx, e.cfg.GenerationTimeout)
	defer cancel()

	start := time.Now()
	resp, err := e.deps.LLM.Complete(genCtx, LLMRequest{
		Model:       e.cfg.GenerationModel,
		System:      []string{systemPrompt},
		Messages:    chat,
		MaxTokens:   e.cfg.MaxResponseTokens,
		Temperature: e.cfg.Temperature,
	})
	e.deps.Metrics.ObserveStageLatency("generation", time.Since(start).Seconds())

	if err != nil || resp.Text == "" {
		switch {
		case err == nil:
			err = ErrGenerationUnavailable
		case !errors.Is(err, ErrGenerationUnavailable):
			err = fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
		}
		e.deps.Metrics.ObserveGenerationFailure()
		e.logger.Error("generation unavailable, using fallback reply",
			"lead_id", lead.ID, "error", err)
		return fallbackReply(lead), err
	}
	return resp.Text, nil
}

// deliver hands the reply to the transport provider. Delivery failure
// is reported on the result, never propagated: side effects are already
// committed and must not be rolled back.
func (e *Engine) deliver(ctx context.Context, lead *leads.Lead, channel leads.Channel, body string, result *PipelineResult) {
	recipient := lead.Email
	if channel == leads.ChannelSMS && lead.Phone != "" {
		recipient = lead.Phone
	}

	start := time.Now()
	res, err := e.deps.Provider.Deliver(ctx, channel, recipient, "Re: your inquiry", body)
	e.deps.Metrics.ObserveStageLatency("delivery", time.Since(start).Seconds())
	if err != nil {
		result.DeliveryError = err.Error()
		e.logger.Error("delivery failed", "lead_id", lead.ID, "channel", channel, "error", err)
		return
	}
	result.Delivered = res.Delivered
}

// toChatMessages converts stored turns into the chat transcript for the
// generator. The current inbound message is the final user turn; it is
// excluded from the history portion if the store already returned it.
func toChatMessages(turns []Message, current string) []ChatMessage {
	chat := make([]ChatMessage, 0, len(turns)+1)
	for _, turn := range turns {
		role := ChatRoleUser
		if turn.Direction == DirectionOutbound {
			role = ChatRoleAssistant
		}
		chat = append(chat, ChatMessage{Role: role, Content: turn.Content})
	}
	if len(chat) > 0 && chat[len(chat)-1].Role == ChatRoleUser && chat[len(chat)-1].Content == current {
		return chat
	}
	return append(chat, ChatMessage{Role: ChatRoleUser, Content: current})
}
