package action

import (
	"context"
	"fmt"

	"github.com/wolfman30/sales-ai-platform/internal/leads"
	"github.com/wolfman30/sales-ai-platform/internal/recommend"
	"github.com/wolfman30/sales-ai-platform/internal/scheduler"
	"github.com/wolfman30/sales-ai-platform/pkg/logging"
)

// Handler executes one action against the lead and returns outcome
// details. Returning an error marks the outcome failed.
type Handler func(ctx context.Context, lead *leads.Lead, act Action) (map[string]any, error)

// Deps are the collaborators the built-in handlers act through.
type Deps struct {
	Scheduler *scheduler.Service
	Leads     leads.Repository
	Records   recommend.RecordStore
	// Engine proposes items when RECOMMEND_ITEM carries no item id.
	// Optional; without it an id-less recommendation fails.
	Engine recommend.Engine
}

// Dispatcher routes parsed actions to their handlers. Every action is
// executed independently: a failing or panicking handler yields a
// failed outcome and the remaining actions still run.
type Dispatcher struct {
	handlers map[Kind]Handler
	logger   *logging.Logger
}

// NewDispatcher builds a dispatcher with the built-in handler table.
func NewDispatcher(deps Deps, logger *logging.Logger) *Dispatcher {
	if deps.Scheduler == nil {
		panic("action: scheduler service required")
	}
	if deps.Leads == nil {
		panic("action: lead repository required")
	}
	if deps.Records == nil {
		panic("action: recommendation record store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	d := &Dispatcher{handlers: make(map[Kind]Handler), logger: logger}
	d.handlers[KindScheduleMeeting] = d.scheduleMeeting(deps)
	d.handlers[KindScheduleFollowup] = d.scheduleFollowup(deps)
	d.handlers[KindSendInformation] = d.sendInformation(deps)
	d.handlers[KindUpdateLead] = d.updateLead(deps)
	d.handlers[KindEscalateToHuman] = d.escalateToHuman(deps)
	d.handlers[KindRecommendItem] = d.recommendItem(deps)
	return d
}

// Register installs or replaces the handler for a kind.
func (d *Dispatcher) Register(kind Kind, h Handler) {
	d.handlers[kind] = h
}

// Dispatch executes every action in order and returns one outcome per
// action. Unknown kinds produce a failed outcome, never a dropped one.
func (d *Dispatcher) Dispatch(ctx context.Context, lead *leads.Lead, actions []Action) []Outcome {
	outcomes := make([]Outcome, 0, len(actions))
	for _, act := range actions {
		outcomes = append(outcomes, d.dispatchOne(ctx, lead, act))
	}
	return outcomes
}

func (d *Dispatcher) dispatchOne(ctx context.Context, lead *leads.Lead, act Action) (outcome Outcome) {
	outcome = Outcome{Kind: act.Kind}

	handler, ok := d.handlers[act.Kind]
	if !ok {
		outcome.Error = fmt.Sprintf("unknown action kind %q", act.Kind)
		d.logger.Warn("rejected unknown action kind", "kind", act.Kind, "lead_id", lead.ID)
		return outcome
	}

	defer func() {
		if r := recover(); r != nil {
			outcome.Success = false
			outcome.Details = nil
			outcome.Error = fmt.Sprintf("handler panic: %v", r)
			d.logger.Error("action handler panicked", "kind", act.Kind, "lead_id", lead.ID, "panic", r)
		}
	}()

	details, err := handler(ctx, lead, act)
	if err != nil {
		outcome.Error = err.Error()
		d.logger.Warn("action failed", "kind", act.Kind, "lead_id", lead.ID, "error", err)
		return outcome
	}
	outcome.Success = true
	outcome.Details = details
	return outcome
}
