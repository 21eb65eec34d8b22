package compliance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// AuditEvent is an immutable record of a blocked interaction.
type AuditEvent struct {
	ID             string       `json:"id"`
	LeadID         string       `json:"lead_id"`
	MessageID      string       `json:"message_id,omitempty"`
	Category       RiskCategory `json:"category"`
	MatchedPhrases []string     `json:"matched_phrases"`
	Message        string       `json:"message"`
	ActionTaken    string       `json:"action_taken"`
	CreatedAt      time.Time    `json:"created_at"`
}

// AuditLog records compliance escalations for operator review.
type AuditLog interface {
	Record(ctx context.Context, event AuditEvent) error
}

// DB is the subset of pgxpool.Pool the audit store needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresAuditLog persists audit events to the compliance_audit_events table.
type PostgresAuditLog struct {
	db DB
}

// NewPostgresAuditLog creates an audit log backed by pgx.
func NewPostgresAuditLog(db DB) *PostgresAuditLog {
	if db == nil {
		panic("compliance: pgx pool required")
	}
	return &PostgresAuditLog{db: db}
}

// Record inserts the event. Events are append-only; there is no update path.
func (s *PostgresAuditLog) Record(ctx context.Context, event AuditEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO compliance_audit_events (id, lead_id, message_id, category, matched_phrases, message, action_taken, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	if _, err := s.db.Exec(ctx, query,
		event.ID,
		event.LeadID,
		event.MessageID,
		event.Category,
		event.MatchedPhrases,
		event.Message,
		event.ActionTaken,
		event.CreatedAt,
	); err != nil {
		return fmt.Errorf("compliance: failed to record audit event: %w", err)
	}
	return nil
}

// MemoryAuditLog keeps audit events in memory for tests and for running
// without a database.
type MemoryAuditLog struct {
	mu     sync.Mutex
	events []AuditEvent
}

// NewMemoryAuditLog creates an empty in-memory audit log.
func NewMemoryAuditLog() *MemoryAuditLog {
	return &MemoryAuditLog{}
}

// Record appends the event.
func (s *MemoryAuditLog) Record(ctx context.Context, event AuditEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Events returns a copy of everything recorded so far.
func (s *MemoryAuditLog) Events() []AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]AuditEvent, len(s.events))
	copy(out, s.events)
	return out
}
