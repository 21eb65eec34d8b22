// Package recommend records item recommendations surfaced to a lead and
// keeps them idempotent per lead and item.
package recommend

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Recommendation is one item surfaced to a lead with an optional reason.
type Recommendation struct {
	LeadID     string    `json:"lead_id"`
	ItemID     string    `json:"item_id"`
	Reason     string    `json:"reason,omitempty"`
	Confidence float64   `json:"confidence,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Engine proposes items for a lead. Implementations live outside this
// module; the pipeline only consumes the interface.
type Engine interface {
	Recommend(ctx context.Context, leadID string, limit int) ([]Recommendation, error)
}

// RecordStore persists which items were already recommended to a lead.
// Record reports whether a new record was created; repeating the same
// lead and item pair is a no-op returning false.
type RecordStore interface {
	Record(ctx context.Context, rec Recommendation) (bool, error)
	ForLead(ctx context.Context, leadID string) ([]Recommendation, error)
}

// MemoryRecordStore keeps recommendation records in process memory.
type MemoryRecordStore struct {
	mu   sync.Mutex
	seen map[string]Recommendation
	// order preserves insertion order per lead for ForLead
	order map[string][]string
}

// NewMemoryRecordStore creates an empty in-memory record store.
func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{
		seen:  make(map[string]Recommendation),
		order: make(map[string][]string),
	}
}

func recordKey(leadID, itemID string) string {
	return leadID + "\x00" + strings.ToLower(itemID)
}

// Record stores the recommendation unless the lead already saw the item.
func (s *MemoryRecordStore) Record(ctx context.Context, rec Recommendation) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := recordKey(rec.LeadID, rec.ItemID)
	if _, ok := s.seen[key]; ok {
		return false, nil
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	s.seen[key] = rec
	s.order[rec.LeadID] = append(s.order[rec.LeadID], key)
	return true, nil
}

// ForLead returns the lead's recommendations in the order recorded.
func (s *MemoryRecordStore) ForLead(ctx context.Context, leadID string) ([]Recommendation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := s.order[leadID]
	recs := make([]Recommendation, 0, len(keys))
	for _, key := range keys {
		recs = append(recs, s.seen[key])
	}
	return recs, nil
}
