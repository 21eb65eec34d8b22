package scheduler

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/wolfman30/sales-ai-platform/internal/leads"
	"github.com/wolfman30/sales-ai-platform/internal/messaging"
	"github.com/wolfman30/sales-ai-platform/pkg/logging"
)

func TestSweepSendsDueFollowups(t *testing.T) {
	repo := leads.NewInMemoryRepository()
	store := NewMemoryStore()
	svc := NewService(store, repo, nil, logging.Default(), Config{})
	provider := messaging.NewLogProvider(logging.Default())
	sweeper := NewSweeper(svc, repo, provider, logging.Default(), time.Minute)

	lead := newTestLead(t, repo)
	now := time.Now().UTC()

	if _, err := svc.ScheduleFollowup(context.Background(), lead, "", now.Add(-time.Minute)); err != nil {
		t.Fatalf("ScheduleFollowup: %v", err)
	}
	if _, err := svc.ScheduleFollowup(context.Background(), lead, "later", now.Add(time.Hour)); err != nil {
		t.Fatalf("ScheduleFollowup: %v", err)
	}

	sweeper.Sweep(context.Background())

	sent := provider.Sent()
	if len(sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sent))
	}
	if !strings.Contains(sent[0].Body, "Dana") {
		t.Errorf("default follow-up must address the lead: %q", sent[0].Body)
	}

	due, _ := svc.DueActions(context.Background(), now.Add(time.Second), 10)
	if len(due) != 0 {
		t.Errorf("executed followup still due: %+v", due)
	}

	// Second sweep sends nothing new.
	sweeper.Sweep(context.Background())
	if len(provider.Sent()) != 1 {
		t.Errorf("sweep resent an executed action")
	}
}
