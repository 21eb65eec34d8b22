package compliance

import (
	"context"
	"strings"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
)

func TestCheckCompliantText(t *testing.T) {
	gate := NewGate()

	for _, text := range []string{
		"I'm interested, what's the price?",
		"Can we schedule a demo for next week?",
		"",
	} {
		result := gate.Check(text)
		if !result.Compliant {
			t.Errorf("expected %q to be compliant, flagged %s (%v)", text, result.Category, result.MatchedPhrases)
		}
		if result.Category != "" || len(result.MatchedPhrases) != 0 {
			t.Errorf("compliant result must carry no category/phrases, got %+v", result)
		}
	}
}

func TestCheckFlagsRiskCategories(t *testing.T) {
	gate := NewGate()

	tests := []struct {
		text string
		want RiskCategory
	}{
		{"can you help me with laundering money offshore", RiskIllegalActivity},
		{"I want to bypass security on their accounts", RiskPrivacyViolation},
		{"this is a great pyramid scheme opportunity", RiskFinancialFraud},
		{"we only want to exclude based on age", RiskDiscrimination},
		{"I will threaten them until they sign", RiskHarassment},
		{"selling explicit content to your customers", RiskInappropriateContent},
		{"happy to bribe the inspector", RiskOther},
	}
	for _, tt := range tests {
		result := gate.Check(tt.text)
		if result.Compliant {
			t.Errorf("expected %q to be flagged", tt.text)
			continue
		}
		if result.Category != tt.want {
			t.Errorf("Check(%q) category = %s, want %s", tt.text, result.Category, tt.want)
		}
		if len(result.MatchedPhrases) == 0 {
			t.Errorf("Check(%q) returned no matched phrases", tt.text)
		}
	}
}

func TestCheckIsCaseInsensitive(t *testing.T) {
	gate := NewGate()
	result := gate.Check("LAUNDERING MONEY is the plan")
	if result.Compliant {
		t.Fatal("expected uppercase text to be flagged")
	}
	if result.Category != RiskIllegalActivity {
		t.Errorf("expected illegal_activity, got %s", result.Category)
	}
}

func TestCheckSeverityOrder(t *testing.T) {
	// Text matching two categories reports the higher-severity one.
	gate := NewGate()
	result := gate.Check("laundering money through a pyramid scheme")
	if result.Category != RiskIllegalActivity {
		t.Errorf("expected illegal_activity to win, got %s", result.Category)
	}
}

func TestResponseTexts(t *testing.T) {
	for _, category := range []RiskCategory{
		RiskIllegalActivity, RiskPrivacyViolation, RiskFinancialFraud,
		RiskDiscrimination, RiskHarassment, RiskInappropriateContent, RiskOther,
	} {
		resp := Response(category)
		if resp == "" {
			t.Errorf("no response for %s", category)
		}
		if !strings.Contains(resp, "human representative") {
			t.Errorf("response for %s must offer a human handoff: %q", category, resp)
		}
	}
}

func TestMemoryAuditLogRecord(t *testing.T) {
	log := NewMemoryAuditLog()

	err := log.Record(context.Background(), AuditEvent{
		LeadID:         "lead-1",
		Category:       RiskFinancialFraud,
		MatchedPhrases: []string{"pyramid scheme"},
		Message:        "original text",
		ActionTaken:    "escalated_to_human",
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	events := log.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ID == "" || events[0].CreatedAt.IsZero() {
		t.Error("expected generated id and timestamp")
	}
}

func TestPostgresAuditLogRecord(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("new pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO compliance_audit_events`).
		WithArgs(pgxmock.AnyArg(), "lead-1", "msg-1", RiskIllegalActivity,
			[]string{"laundering money"}, "raw message", "escalated_to_human", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	log := NewPostgresAuditLog(mock)
	err = log.Record(context.Background(), AuditEvent{
		LeadID:         "lead-1",
		MessageID:      "msg-1",
		Category:       RiskIllegalActivity,
		MatchedPhrases: []string{"laundering money"},
		Message:        "raw message",
		ActionTaken:    "escalated_to_human",
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
