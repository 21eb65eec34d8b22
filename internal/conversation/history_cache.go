package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const historyTTL = 24 * time.Hour

// CachedStore layers a Redis cache over another Store so context
// assembly does not hit the database on every turn. Writes go through
// to the inner store and refresh the cached window.
type CachedStore struct {
	inner  Store
	redis  *redis.Client
	tracer trace.Tracer
	window int
}

// NewCachedStore wraps inner with a Redis history cache. window is the
// number of trailing messages kept cached per lead.
func NewCachedStore(inner Store, client *redis.Client, window int, tracer trace.Tracer) *CachedStore {
	if inner == nil {
		panic("conversation: inner store cannot be nil")
	}
	if client == nil {
		panic("conversation: redis client cannot be nil")
	}
	if window <= 0 {
		window = 20
	}
	if tracer == nil {
		tracer = otel.Tracer("sales.internal.conversation.history")
	}
	return &CachedStore{inner: inner, redis: client, tracer: tracer, window: window}
}

func historyKey(leadID string) string {
	return fmt.Sprintf("history:%s", leadID)
}

// AppendMessage writes through to the inner store and appends to the
// cached window. A cache failure is not a persistence failure; the
// entry is dropped so the next read repopulates it.
func (s *CachedStore) AppendMessage(ctx context.Context, msg *Message) error {
	ctx, span := s.tracer.Start(ctx, "conversation.append_message")
	defer span.End()

	if err := s.inner.AppendMessage(ctx, msg); err != nil {
		span.RecordError(err)
		return err
	}

	cached, err := s.loadCache(ctx, msg.LeadID)
	if err != nil {
		s.redis.Del(ctx, historyKey(msg.LeadID))
		return nil
	}
	if cached == nil {
		// Clean miss; the next read repopulates the full window.
		return nil
	}
	cached = append(cached, *msg)
	if len(cached) > s.window {
		cached = cached[len(cached)-s.window:]
	}
	if err := s.saveCache(ctx, msg.LeadID, cached); err != nil {
		span.RecordError(err)
		s.redis.Del(ctx, historyKey(msg.LeadID))
	}
	return nil
}

// RecentHistory serves from the cache when possible and repopulates it
// from the inner store on a miss.
func (s *CachedStore) RecentHistory(ctx context.Context, leadID string, limit int) ([]Message, error) {
	ctx, span := s.tracer.Start(ctx, "conversation.recent_history")
	defer span.End()

	if limit > 0 && limit <= s.window {
		cached, err := s.loadCache(ctx, leadID)
		if err == nil && cached != nil {
			if len(cached) > limit {
				cached = cached[len(cached)-limit:]
			}
			return cached, nil
		}
	}

	history, err := s.inner.RecentHistory(ctx, leadID, limit)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if len(history) > 0 && (limit <= 0 || limit >= s.window) {
		window := history
		if len(window) > s.window {
			window = window[len(window)-s.window:]
		}
		if err := s.saveCache(ctx, leadID, window); err != nil {
			span.RecordError(err)
		}
	}
	return history, nil
}

// RecentScores always reads the inner store; the score window is small
// and the trend math needs the authoritative sequence.
func (s *CachedStore) RecentScores(ctx context.Context, leadID string, limit int) ([]float64, error) {
	return s.inner.RecentScores(ctx, leadID, limit)
}

// loadCache returns (nil, nil) on a clean miss.
func (s *CachedStore) loadCache(ctx context.Context, leadID string) ([]Message, error) {
	data, err := s.redis.Get(ctx, historyKey(leadID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("conversation: failed to load cached history: %w", err)
	}
	var history []Message
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("conversation: failed to decode cached history: %w", err)
	}
	return history, nil
}

func (s *CachedStore) saveCache(ctx context.Context, leadID string, history []Message) error {
	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("conversation: failed to marshal history: %w", err)
	}
	if err := s.redis.Set(ctx, historyKey(leadID), data, historyTTL).Err(); err != nil {
		return fmt.Errorf("conversation: failed to cache history: %w", err)
	}
	return nil
}
