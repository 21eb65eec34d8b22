package conversation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store persists conversation turns and serves the recent history the
// context assembly stage reads.
type Store interface {
	AppendMessage(ctx context.Context, msg *Message) error
	// RecentHistory returns up to limit messages for the lead, oldest
	// first. A non-positive limit returns everything.
	RecentHistory(ctx context.Context, leadID string, limit int) ([]Message, error)
	// RecentScores returns up to limit inbound sentiment scores for the
	// lead, oldest first. A non-positive limit returns everything.
	RecentScores(ctx context.Context, leadID string, limit int) ([]float64, error)
}

// MemoryStore keeps conversation history in process memory.
type MemoryStore struct {
	mu       sync.Mutex
	messages map[string][]Message
}

// NewMemoryStore creates an empty in-memory conversation store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{messages: make(map[string][]Message)}
}

// AppendMessage stores the message, assigning id and creation time when
// unset.
func (s *MemoryStore) AppendMessage(ctx context.Context, msg *Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[msg.LeadID] = append(s.messages[msg.LeadID], *msg)
	return nil
}

// RecentHistory returns the lead's trailing messages, oldest first.
func (s *MemoryStore) RecentHistory(ctx context.Context, leadID string, limit int) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.messages[leadID]
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	out := make([]Message, len(all))
	copy(out, all)
	return out, nil
}

// RecentScores returns the lead's trailing inbound sentiment scores,
// oldest first.
func (s *MemoryStore) RecentScores(ctx context.Context, leadID string, limit int) ([]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var scores []float64
	for _, msg := range s.messages[leadID] {
		if msg.Direction == DirectionInbound && msg.SentimentScore != nil {
			scores = append(scores, *msg.SentimentScore)
		}
	}
	if limit > 0 && len(scores) > limit {
		scores = scores[len(scores)-limit:]
	}
	return scores, nil
}
