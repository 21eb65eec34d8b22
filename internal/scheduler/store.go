package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrActionNotFound is returned when a scheduled action id is unknown.
var ErrActionNotFound = errors.New("scheduler: action not found")

// Store persists scheduled actions.
type Store interface {
	Create(ctx context.Context, action *ScheduledAction) error
	DueActions(ctx context.Context, now time.Time, limit int) ([]ScheduledAction, error)
	MarkExecuted(ctx context.Context, id string, at time.Time) error
}

// MemoryStore keeps scheduled actions in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	actions map[string]*ScheduledAction
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{actions: make(map[string]*ScheduledAction)}
}

// Create stores the action, assigning id and creation time when unset.
func (s *MemoryStore) Create(ctx context.Context, action *ScheduledAction) error {
	if action.ID == "" {
		action.ID = uuid.NewString()
	}
	if action.CreatedAt.IsZero() {
		action.CreatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *action
	s.actions[action.ID] = &copied
	return nil
}

// DueActions returns unexecuted actions scheduled at or before now,
// oldest first.
func (s *MemoryStore) DueActions(ctx context.Context, now time.Time, limit int) ([]ScheduledAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []ScheduledAction
	for _, a := range s.actions {
		if a.ExecutedAt == nil && !a.ScheduledFor.After(now) {
			due = append(due, *a)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].ScheduledFor.Before(due[j].ScheduledFor) })
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

// MarkExecuted stamps the action as done.
func (s *MemoryStore) MarkExecuted(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	action, ok := s.actions[id]
	if !ok {
		return ErrActionNotFound
	}
	t := at
	action.ExecutedAt = &t
	return nil
}

// DB is the subset of pgxpool.Pool the store needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists scheduled actions in the scheduled_actions table.
type PostgresStore struct {
	db DB
}

// NewPostgresStore creates a store backed by pgx.
func NewPostgresStore(db DB) *PostgresStore {
	if db == nil {
		panic("scheduler: pgx pool required")
	}
	return &PostgresStore{db: db}
}

// Create inserts a new scheduled action row.
func (s *PostgresStore) Create(ctx context.Context, action *ScheduledAction) error {
	if action.ID == "" {
		action.ID = uuid.NewString()
	}
	query := `
		INSERT INTO scheduled_actions (id, lead_id, action_type, channel, content, scheduled_for, duration_minutes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	if err := s.db.QueryRow(ctx, query,
		action.ID,
		action.LeadID,
		action.Type,
		action.Channel,
		action.Content,
		action.ScheduledFor,
		action.DurationMinutes,
	).Scan(&action.CreatedAt); err != nil {
		return fmt.Errorf("scheduler: insert failed: %w", err)
	}
	return nil
}

// DueActions returns unexecuted actions scheduled at or before now.
func (s *PostgresStore) DueActions(ctx context.Context, now time.Time, limit int) ([]ScheduledAction, error) {
	query := `
		SELECT id, lead_id, action_type, channel, content, scheduled_for, duration_minutes, executed_at, created_at
		FROM scheduled_actions
		WHERE executed_at IS NULL AND scheduled_for <= $1
		ORDER BY scheduled_for ASC
		LIMIT $2
	`
	rows, err := s.db.Query(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("scheduler: due query failed: %w", err)
	}
	defer rows.Close()

	var due []ScheduledAction
	for rows.Next() {
		var a ScheduledAction
		var content *string
		if err := rows.Scan(&a.ID, &a.LeadID, &a.Type, &a.Channel, &content,
			&a.ScheduledFor, &a.DurationMinutes, &a.ExecutedAt, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scheduler: scan failed: %w", err)
		}
		if content != nil {
			a.Content = *content
		}
		due = append(due, a)
	}
	return due, rows.Err()
}

// MarkExecuted stamps the action as done.
func (s *PostgresStore) MarkExecuted(ctx context.Context, id string, at time.Time) error {
	tag, err := s.db.Exec(ctx, `UPDATE scheduled_actions SET executed_at = $2 WHERE id = $1 AND executed_at IS NULL`, id, at)
	if err != nil {
		return fmt.Errorf("scheduler: mark executed failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrActionNotFound
	}
	return nil
}
