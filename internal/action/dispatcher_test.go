package action

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/wolfman30/sales-ai-platform/internal/leads"
	"github.com/wolfman30/sales-ai-platform/internal/recommend"
	"github.com/wolfman30/sales-ai-platform/internal/scheduler"
	"github.com/wolfman30/sales-ai-platform/pkg/logging"
)

type fakeEngine struct {
	recs []recommend.Recommendation
	err  error
}

func (f *fakeEngine) Recommend(ctx context.Context, leadID string, limit int) ([]recommend.Recommendation, error) {
	return f.recs, f.err
}

type fixture struct {
	dispatcher *Dispatcher
	repo       *leads.InMemoryRepository
	records    *recommend.MemoryRecordStore
	store      *scheduler.MemoryStore
	lead       *leads.Lead
}

func newFixture(t *testing.T, engine recommend.Engine) *fixture {
	t.Helper()
	repo := leads.NewInMemoryRepository()
	lead, err := repo.Create(context.Background(), &leads.CreateLeadRequest{
		FirstName: "Dana", LastName: "Reyes", Email: "dana@example.com",
	})
	if err != nil {
		t.Fatalf("create lead: %v", err)
	}

	store := scheduler.NewMemoryStore()
	svc := scheduler.NewService(store, repo, nil, logging.Default(), scheduler.Config{})
	records := recommend.NewMemoryRecordStore()

	d := NewDispatcher(Deps{
		Scheduler: svc,
		Leads:     repo,
		Records:   records,
		Engine:    engine,
	}, logging.Default())

	return &fixture{dispatcher: d, repo: repo, records: records, store: store, lead: lead}
}

func TestDispatchScheduleMeeting(t *testing.T) {
	f := newFixture(t, nil)

	outcomes := f.dispatcher.Dispatch(context.Background(), f.lead, []Action{
		{Kind: KindScheduleMeeting, Params: map[string]string{"time": "tomorrow at 2:00 PM", "duration": "45", "notes": "demo"}},
	})
	if len(outcomes) != 1 || !outcomes[0].Success {
		t.Fatalf("outcomes = %+v", outcomes)
	}
	if outcomes[0].Details["duration_min"] != 45 {
		t.Errorf("details = %v", outcomes[0].Details)
	}

	updated, _ := f.repo.GetByID(context.Background(), f.lead.ID)
	if updated.Status != leads.StatusNegotiating {
		t.Errorf("status = %s, want %s", updated.Status, leads.StatusNegotiating)
	}
}

func TestDispatchScheduleMeetingBadTime(t *testing.T) {
	f := newFixture(t, nil)

	outcomes := f.dispatcher.Dispatch(context.Background(), f.lead, []Action{
		{Kind: KindScheduleMeeting, Params: map[string]string{"time": "whenever suits"}},
	})
	if outcomes[0].Success {
		t.Fatal("unresolvable time must fail the action")
	}
	if !strings.Contains(outcomes[0].Error, "whenever suits") {
		t.Errorf("error should name the raw time: %q", outcomes[0].Error)
	}

	due, _ := f.store.DueActions(context.Background(), time.Now().AddDate(1, 0, 0), 10)
	if len(due) != 0 {
		t.Errorf("nothing should be scheduled: %+v", due)
	}
}

func TestDispatchScheduleFollowupDefaultsInterval(t *testing.T) {
	f := newFixture(t, nil)

	outcomes := f.dispatcher.Dispatch(context.Background(), f.lead, []Action{
		{Kind: KindScheduleFollowup, Params: map[string]string{"message": "checking in"}},
	})
	if len(outcomes) != 1 || !outcomes[0].Success {
		t.Fatalf("outcomes = %+v", outcomes)
	}

	due, _ := f.store.DueActions(context.Background(), time.Now().Add(25*time.Hour), 10)
	if len(due) != 1 {
		t.Fatalf("got %d due actions, want 1", len(due))
	}
	if until := time.Until(due[0].ScheduledFor); until < 23*time.Hour {
		t.Errorf("follow-up scheduled too soon: %s away", until)
	}
	if due[0].Content != "checking in" {
		t.Errorf("content = %q", due[0].Content)
	}

	updated, _ := f.repo.GetByID(context.Background(), f.lead.ID)
	if updated.FollowupCount != 1 {
		t.Errorf("followup count = %d, want 1", updated.FollowupCount)
	}
}

func TestDispatchUpdateLeadWhitelist(t *testing.T) {
	f := newFixture(t, nil)

	outcomes := f.dispatcher.Dispatch(context.Background(), f.lead, []Action{
		{Kind: KindUpdateLead, Params: map[string]string{
			"status":     "engaged",
			"needs":      "automation software",
			"email":      "evil@example.com", // not updatable
			"first_name": "Mallory",          // not updatable
		}},
	})
	if !outcomes[0].Success {
		t.Fatalf("outcome = %+v", outcomes[0])
	}

	updated, _ := f.repo.GetByID(context.Background(), f.lead.ID)
	if updated.Status != leads.StatusEngaged {
		t.Errorf("status = %s", updated.Status)
	}
	if updated.Needs != "automation software" {
		t.Errorf("needs = %q", updated.Needs)
	}
	if updated.Email != "dana@example.com" || updated.FirstName != "Dana" {
		t.Errorf("non-whitelisted fields were written: %+v", updated)
	}
	// The in-memory lead must reflect the applied update.
	if f.lead.Status != leads.StatusEngaged {
		t.Errorf("dispatched lead not refreshed: %s", f.lead.Status)
	}
}

func TestDispatchUpdateLeadInvalidStatusIgnored(t *testing.T) {
	f := newFixture(t, nil)

	outcomes := f.dispatcher.Dispatch(context.Background(), f.lead, []Action{
		{Kind: KindUpdateLead, Params: map[string]string{"status": "galactic", "budget": "10k"}},
	})
	if !outcomes[0].Success {
		t.Fatalf("invalid status must be ignored, not an error: %+v", outcomes[0])
	}

	updated, _ := f.repo.GetByID(context.Background(), f.lead.ID)
	if updated.Status != leads.StatusNew {
		t.Errorf("status = %s, want untouched %s", updated.Status, leads.StatusNew)
	}
	if updated.Budget != "10k" {
		t.Errorf("budget = %q", updated.Budget)
	}
}

func TestDispatchEscalateToHuman(t *testing.T) {
	f := newFixture(t, nil)

	outcomes := f.dispatcher.Dispatch(context.Background(), f.lead, []Action{
		{Kind: KindEscalateToHuman, Params: map[string]string{}},
	})
	if !outcomes[0].Success {
		t.Fatalf("outcome = %+v", outcomes[0])
	}
	if outcomes[0].Details["reason"] != defaultEscalateReason {
		t.Errorf("reason = %v", outcomes[0].Details["reason"])
	}

	updated, _ := f.repo.GetByID(context.Background(), f.lead.ID)
	if updated.Status != leads.StatusEscalated {
		t.Errorf("status = %s, want %s", updated.Status, leads.StatusEscalated)
	}
}

func TestDispatchRecommendItemIdempotent(t *testing.T) {
	f := newFixture(t, nil)
	act := Action{Kind: KindRecommendItem, Params: map[string]string{"item_id": "pro-plan"}}

	first := f.dispatcher.Dispatch(context.Background(), f.lead, []Action{act})
	second := f.dispatcher.Dispatch(context.Background(), f.lead, []Action{act})

	if !first[0].Success || !second[0].Success {
		t.Fatalf("both dispatches must succeed: %+v %+v", first[0], second[0])
	}
	if first[0].Details["recorded"] != true || second[0].Details["recorded"] != false {
		t.Errorf("recorded flags = %v / %v", first[0].Details["recorded"], second[0].Details["recorded"])
	}

	recs, _ := f.records.ForLead(context.Background(), f.lead.ID)
	if len(recs) != 1 {
		t.Fatalf("got %d stored recommendations, want exactly 1", len(recs))
	}
	if recs[0].Confidence != defaultConfidence || recs[0].Reason != defaultRecommendReason {
		t.Errorf("record = %+v", recs[0])
	}
}

func TestDispatchRecommendItemGeneratesWithoutID(t *testing.T) {
	engine := &fakeEngine{recs: []recommend.Recommendation{
		{ItemID: "starter-plan", Reason: "budget fit", Confidence: 0.9},
		{ItemID: "onboarding-addon", Reason: "first purchase", Confidence: 0.6},
	}}
	f := newFixture(t, engine)

	outcomes := f.dispatcher.Dispatch(context.Background(), f.lead, []Action{
		{Kind: KindRecommendItem, Params: map[string]string{}},
	})
	if !outcomes[0].Success {
		t.Fatalf("outcome = %+v", outcomes[0])
	}

	recs, _ := f.records.ForLead(context.Background(), f.lead.ID)
	if len(recs) != 2 {
		t.Errorf("got %d records, want 2", len(recs))
	}
}

func TestDispatchRecommendItemNoEngineNoID(t *testing.T) {
	f := newFixture(t, nil)
	outcomes := f.dispatcher.Dispatch(context.Background(), f.lead, []Action{
		{Kind: KindRecommendItem, Params: map[string]string{}},
	})
	if outcomes[0].Success {
		t.Fatal("no item_id and no engine must fail")
	}
}

func TestDispatchUnknownKindFails(t *testing.T) {
	f := newFixture(t, nil)
	outcomes := f.dispatcher.Dispatch(context.Background(), f.lead, []Action{
		{Kind: Kind("LAUNCH_ROCKET"), Params: map[string]string{}},
	})
	if len(outcomes) != 1 || outcomes[0].Success {
		t.Fatalf("outcomes = %+v", outcomes)
	}
	if !strings.Contains(outcomes[0].Error, "LAUNCH_ROCKET") {
		t.Errorf("error should name the kind: %q", outcomes[0].Error)
	}
}

func TestDispatchIsolatesFailures(t *testing.T) {
	f := newFixture(t, &fakeEngine{err: errors.New("engine offline")})

	outcomes := f.dispatcher.Dispatch(context.Background(), f.lead, []Action{
		{Kind: KindRecommendItem, Params: map[string]string{}}, // fails: engine error
		{Kind: Kind("BOGUS"), Params: map[string]string{}},     // fails: unknown
		{Kind: KindUpdateLead, Params: map[string]string{"status": "engaged"}},
	})
	if len(outcomes) != 3 {
		t.Fatalf("got %d outcomes, want 3", len(outcomes))
	}
	if outcomes[0].Success || outcomes[1].Success {
		t.Errorf("first two must fail: %+v", outcomes[:2])
	}
	if !outcomes[2].Success {
		t.Errorf("later action must still run: %+v", outcomes[2])
	}
}

func TestDispatchRecoversPanic(t *testing.T) {
	f := newFixture(t, nil)
	f.dispatcher.Register(Kind("EXPLODE"), func(ctx context.Context, lead *leads.Lead, act Action) (map[string]any, error) {
		panic("boom")
	})

	outcomes := f.dispatcher.Dispatch(context.Background(), f.lead, []Action{
		{Kind: Kind("EXPLODE")},
		{Kind: KindSendInformation, Params: map[string]string{"type": "pricing"}},
	})
	if outcomes[0].Success || !strings.Contains(outcomes[0].Error, "boom") {
		t.Errorf("panic outcome = %+v", outcomes[0])
	}
	if !outcomes[1].Success {
		t.Errorf("action after panic must still run: %+v", outcomes[1])
	}
}
