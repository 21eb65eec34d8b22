package conversation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the store needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists conversation turns in the
// conversation_messages table.
type PostgresStore struct {
	db DB
}

// NewPostgresStore creates a store backed by pgx.
func NewPostgresStore(db DB) *PostgresStore {
	if db == nil {
		panic("conversation: pgx pool required")
	}
	return &PostgresStore{db: db}
}

// AppendMessage inserts one conversation turn.
func (s *PostgresStore) AppendMessage(ctx context.Context, msg *Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	query := `
		INSERT INTO conversation_messages (id, lead_id, direction, channel, content, sentiment_score)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	if err := s.db.QueryRow(ctx, query,
		msg.ID, msg.LeadID, msg.Direction, msg.Channel, msg.Content, msg.SentimentScore,
	).Scan(&msg.CreatedAt); err != nil {
		return fmt.Errorf("conversation: insert message failed: %w", err)
	}
	return nil
}

// sqlLimit maps a non-positive limit to LIMIT NULL, which Postgres
// treats as no limit.
func sqlLimit(limit int) any {
	if limit <= 0 {
		return nil
	}
	return limit
}

// RecentHistory returns up to limit messages for the lead, oldest first.
func (s *PostgresStore) RecentHistory(ctx context.Context, leadID string, limit int) ([]Message, error) {
	query := `
		SELECT id, lead_id, direction, channel, content, sentiment_score, created_at
		FROM (
			SELECT id, lead_id, direction, channel, content, sentiment_score, created_at
			FROM conversation_messages
			WHERE lead_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) trailing
		ORDER BY created_at ASC
	`
	rows, err := s.db.Query(ctx, query, leadID, sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("conversation: history query failed: %w", err)
	}
	defer rows.Close()

	var history []Message
	for rows.Next() {
		var msg Message
		if err := rows.Scan(&msg.ID, &msg.LeadID, &msg.Direction, &msg.Channel,
			&msg.Content, &msg.SentimentScore, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("conversation: history scan failed: %w", err)
		}
		history = append(history, msg)
	}
	return history, rows.Err()
}

// RecentScores returns up to limit inbound sentiment scores, oldest first.
func (s *PostgresStore) RecentScores(ctx context.Context, leadID string, limit int) ([]float64, error) {
	query := `
		SELECT score FROM (
			SELECT sentiment_score AS score, created_at
			FROM conversation_messages
			WHERE lead_id = $1 AND direction = 'inbound' AND sentiment_score IS NOT NULL
			ORDER BY created_at DESC
			LIMIT $2
		) trailing
		ORDER BY created_at ASC
	`
	rows, err := s.db.Query(ctx, query, leadID, sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("conversation: scores query failed: %w", err)
	}
	defer rows.Close()

	var scores []float64
	for rows.Next() {
		var score float64
		if err := rows.Scan(&score); err != nil {
			return nil, fmt.Errorf("conversation: scores scan failed: %w", err)
		}
		scores = append(scores, score)
	}
	return scores, rows.Err()
}
