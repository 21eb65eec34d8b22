package conversation

import (
	"context"
	"fmt"

	"github.com/wolfman30/sales-ai-platform/internal/action"
	"github.com/wolfman30/sales-ai-platform/internal/playbook"
)

// GreetLead opens the conversation with a new lead. The selected
// playbook's greeting template short-circuits generation entirely; only
// a strategy without one falls through to the generator. Either way the
// greeting passes through the action parser and dispatcher, since
// templates may embed action markers just like generated text.
func (e *Engine) GreetLead(ctx context.Context, leadEmail string) (*PipelineResult, error) {
	ctx, span := e.tracer.Start(ctx, "pipeline.greet_lead")
	defer span.End()

	lead, err := e.deps.Leads.GetByEmail(ctx, leadEmail)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("conversation: lead lookup for %s: %w", leadEmail, err)
	}

	lock := e.leadLock(lead.ID)
	lock.Lock()
	defer lock.Unlock()

	result := &PipelineResult{LeadID: lead.ID}
	strategy := e.deps.Selector.Select(lead)

	text, ok := playbook.RenderTemplate(strategy, playbook.SlotGreeting, playbook.TemplateData{
		FirstName: lead.FirstName,
		Company:   lead.Company,
	})
	if !ok {
		generated, genErr := e.generate(ctx, buildSystemPrompt(lead, strategy, nil), []ChatMessage{
			{Role: ChatRoleUser, Content: "Please greet me and open the conversation."},
		}, lead)
		result.GenerationFellBack = genErr != nil
		text = generated
	}

	ctx = context.WithoutCancel(ctx)

	greeting, actions := action.Parse(text)
	result.Response = greeting
	result.Actions = e.deps.Dispatcher.Dispatch(ctx, lead, actions)
	for _, outcome := range result.Actions {
		status := "success"
		if !outcome.Success {
			status = "failed"
		}
		e.deps.Metrics.ObserveAction(string(outcome.Kind), status)
	}

	outbound := &Message{
		LeadID:    lead.ID,
		Direction: DirectionOutbound,
		Channel:   lead.PreferredChannel,
		Content:   greeting,
	}
	if err := e.deps.Store.AppendMessage(ctx, outbound); err != nil {
		span.RecordError(err)
		return nil, err
	}

	result.Success = true
	e.deliver(ctx, lead, lead.PreferredChannel, greeting, result)
	return result, nil
}
