package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// RedisRecordStore keeps recommendation records in Redis, one hash per
// lead keyed by normalized item id.
type RedisRecordStore struct {
	redis  *redis.Client
	tracer trace.Tracer
}

// NewRedisRecordStore creates a Redis-backed record store.
func NewRedisRecordStore(client *redis.Client, tracer trace.Tracer) *RedisRecordStore {
	if client == nil {
		panic("recommend: redis client cannot be nil")
	}
	if tracer == nil {
		tracer = otel.Tracer("sales.internal.recommend")
	}
	return &RedisRecordStore{redis: client, tracer: tracer}
}

func leadKey(leadID string) string {
	return fmt.Sprintf("recommendations:%s", leadID)
}

func itemField(itemID string) string {
	return strings.ToLower(strings.TrimSpace(itemID))
}

// Record writes the recommendation unless the lead already saw the
// item. HSetNX gives the idempotency check and the write in one call.
func (s *RedisRecordStore) Record(ctx context.Context, rec Recommendation) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "recommend.record")
	defer span.End()

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("recommend: failed to marshal record: %w", err)
	}

	created, err := s.redis.HSetNX(ctx, leadKey(rec.LeadID), itemField(rec.ItemID), data).Result()
	if err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("recommend: failed to persist record: %w", err)
	}
	return created, nil
}

// ForLead returns every recommendation recorded for the lead, oldest first.
func (s *RedisRecordStore) ForLead(ctx context.Context, leadID string) ([]Recommendation, error) {
	ctx, span := s.tracer.Start(ctx, "recommend.for_lead")
	defer span.End()

	fields, err := s.redis.HGetAll(ctx, leadKey(leadID)).Result()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("recommend: failed to load records: %w", err)
	}

	recs := make([]Recommendation, 0, len(fields))
	for _, raw := range fields {
		var rec Recommendation
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("recommend: failed to decode record: %w", err)
		}
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].CreatedAt.Before(recs[j].CreatedAt) })
	return recs, nil
}
