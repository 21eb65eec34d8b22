package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wolfman30/sales-ai-platform/internal/leads"
	"github.com/wolfman30/sales-ai-platform/pkg/logging"
)

type fakeInviter struct {
	calls int
	err   error
	last  time.Time
}

func (f *fakeInviter) SendCalendarInvite(ctx context.Context, lead *leads.Lead, at time.Time, duration time.Duration, notes string) error {
	f.calls++
	f.last = at
	return f.err
}

func newTestLead(t *testing.T, repo leads.Repository) *leads.Lead {
	t.Helper()
	lead, err := repo.Create(context.Background(), &leads.CreateLeadRequest{
		FirstName: "Dana",
		LastName:  "Reyes",
		Email:     "dana@example.com",
	})
	if err != nil {
		t.Fatalf("create lead: %v", err)
	}
	return lead
}

func TestScheduleMeeting(t *testing.T) {
	repo := leads.NewInMemoryRepository()
	store := NewMemoryStore()
	inviter := &fakeInviter{}
	svc := NewService(store, repo, inviter, logging.Default(), Config{})

	lead := newTestLead(t, repo)
	at := time.Now().UTC().Add(48 * time.Hour)

	action, err := svc.ScheduleMeeting(context.Background(), lead, at, 0, "intro call")
	if err != nil {
		t.Fatalf("ScheduleMeeting: %v", err)
	}
	if action.Type != ActionMeeting {
		t.Errorf("type = %s, want %s", action.Type, ActionMeeting)
	}
	if action.DurationMinutes != 30 {
		t.Errorf("duration = %d minutes, want default 30", action.DurationMinutes)
	}
	if inviter.calls != 1 {
		t.Errorf("inviter called %d times, want 1", inviter.calls)
	}

	updated, err := repo.GetByID(context.Background(), lead.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if updated.Status != leads.StatusNegotiating {
		t.Errorf("lead status = %s, want %s", updated.Status, leads.StatusNegotiating)
	}
}

func TestScheduleMeetingInviteFailureIsNonFatal(t *testing.T) {
	repo := leads.NewInMemoryRepository()
	store := NewMemoryStore()
	inviter := &fakeInviter{err: errors.New("smtp down")}
	svc := NewService(store, repo, inviter, logging.Default(), Config{})

	lead := newTestLead(t, repo)
	if _, err := svc.ScheduleMeeting(context.Background(), lead, time.Now().Add(time.Hour), 45*time.Minute, ""); err != nil {
		t.Fatalf("ScheduleMeeting should succeed despite invite failure: %v", err)
	}
}

func TestScheduleFollowup(t *testing.T) {
	repo := leads.NewInMemoryRepository()
	store := NewMemoryStore()
	svc := NewService(store, repo, nil, logging.Default(), Config{FollowupInterval: 24 * time.Hour})

	lead := newTestLead(t, repo)

	action, err := svc.ScheduleFollowup(context.Background(), lead, "checking in", time.Time{})
	if err != nil {
		t.Fatalf("ScheduleFollowup: %v", err)
	}
	if action.Type != ActionFollowup {
		t.Errorf("type = %s, want %s", action.Type, ActionFollowup)
	}
	until := time.Until(action.ScheduledFor)
	if until < 23*time.Hour || until > 25*time.Hour {
		t.Errorf("default scheduled_for %s not near 24h out", action.ScheduledFor)
	}

	updated, err := repo.GetByID(context.Background(), lead.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if updated.FollowupCount != 1 {
		t.Errorf("followup count = %d, want 1", updated.FollowupCount)
	}
}

func TestDueActionsSweep(t *testing.T) {
	repo := leads.NewInMemoryRepository()
	store := NewMemoryStore()
	svc := NewService(store, repo, nil, logging.Default(), Config{})

	lead := newTestLead(t, repo)
	now := time.Now().UTC()

	past, err := svc.ScheduleFollowup(context.Background(), lead, "past", now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("ScheduleFollowup: %v", err)
	}
	if _, err := svc.ScheduleFollowup(context.Background(), lead, "future", now.Add(time.Hour)); err != nil {
		t.Fatalf("ScheduleFollowup: %v", err)
	}

	due, err := svc.DueActions(context.Background(), now, 10)
	if err != nil {
		t.Fatalf("DueActions: %v", err)
	}
	if len(due) != 1 || due[0].ID != past.ID {
		t.Fatalf("due = %+v, want exactly the past action", due)
	}

	if err := svc.MarkExecuted(context.Background(), past.ID, now); err != nil {
		t.Fatalf("MarkExecuted: %v", err)
	}
	due, err = svc.DueActions(context.Background(), now, 10)
	if err != nil {
		t.Fatalf("DueActions: %v", err)
	}
	if len(due) != 0 {
		t.Errorf("executed action still reported due: %+v", due)
	}

	if err := svc.MarkExecuted(context.Background(), "missing", now); !errors.Is(err, ErrActionNotFound) {
		t.Errorf("MarkExecuted(missing) = %v, want ErrActionNotFound", err)
	}
}
