package conversation

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wolfman30/sales-ai-platform/internal/leads"
	"github.com/wolfman30/sales-ai-platform/internal/queue"
	"github.com/wolfman30/sales-ai-platform/pkg/logging"
)

// WorkerConfig tunes the queue draining pool.
type WorkerConfig struct {
	// Workers is the number of concurrent pipeline runners.
	Workers int
	// DrainBatch is how many messages one poll pulls off the queue.
	DrainBatch int
	// PollDelay is the sleep between polls when the queue is empty.
	PollDelay time.Duration
}

// Pool drains the shared priority queue with N workers. Messages are
// pinned to a worker by lead id, so turns for one lead always run on
// the same goroutine in arrival order while different leads proceed in
// parallel.
type Pool struct {
	engine *Engine
	queue  *queue.PriorityQueue
	cfg    WorkerConfig
	logger *logging.Logger
}

// NewPool builds a worker pool over the queue.
func NewPool(engine *Engine, q *queue.PriorityQueue, cfg WorkerConfig, logger *logging.Logger) *Pool {
	if engine == nil {
		panic("conversation: engine required")
	}
	if q == nil {
		panic("conversation: queue required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.DrainBatch <= 0 {
		cfg.DrainBatch = 5
	}
	if cfg.PollDelay <= 0 {
		cfg.PollDelay = 250 * time.Millisecond
	}
	return &Pool{engine: engine, queue: q, cfg: cfg, logger: logger}
}

// Ingest scores and enqueues one inbound message, returning its id.
// The lead must already exist.
func (p *Pool) Ingest(ctx context.Context, leadEmail, content string, channel leads.Channel) (string, error) {
	if content == "" {
		return "", ErrEmptyMessage
	}

	lead, err := p.engine.deps.Leads.GetByEmail(ctx, leadEmail)
	if err != nil {
		return "", fmt.Errorf("conversation: lead lookup for %s: %w", leadEmail, err)
	}

	score := p.engine.deps.Analyzer.Analyze(content)
	prior, err := p.engine.deps.Store.RecentScores(ctx, lead.ID, 0)
	if err != nil {
		return "", err
	}

	msg := queue.Message{
		MessageID: uuid.NewString(),
		LeadID:    lead.ID,
		LeadEmail: leadEmail,
		Content:   content,
		Channel:   channel,
		Priority: queue.CalculatePriority(queue.PriorityInput{
			Lead:              lead,
			Content:           content,
			SentimentScore:    &score,
			PriorInboundCount: len(prior),
		}),
		EnqueuedAt: time.Now().UTC(),
	}
	p.queue.Enqueue(msg)
	p.engine.deps.Metrics.SetQueueDepth(p.queue.Size())

	p.logger.Info("message enqueued",
		"message_id", msg.MessageID, "lead_id", lead.ID, "priority", msg.Priority)
	return msg.MessageID, nil
}

// Run drains the queue until ctx is canceled. It blocks; callers run it
// in a goroutine. In-flight turns finish before Run returns.
func (p *Pool) Run(ctx context.Context) {
	channels := make([]chan queue.Message, p.cfg.Workers)
	var wg sync.WaitGroup

	for i := range channels {
		channels[i] = make(chan queue.Message)
		wg.Add(1)
		go func(ch <-chan queue.Message, id int) {
			defer wg.Done()
			for msg := range ch {
				if _, err := p.engine.ProcessMessage(ctx, msg); err != nil {
					p.logger.Error("turn failed",
						"worker", id, "message_id", msg.MessageID, "lead_id", msg.LeadID, "error", err)
				}
			}
		}(channels[i], i)
	}

	ticker := time.NewTicker(p.cfg.PollDelay)
	defer ticker.Stop()

poll:
	for {
		batch := p.queue.DrainUpTo(p.cfg.DrainBatch)
		p.engine.deps.Metrics.SetQueueDepth(p.queue.Size())

		for i, msg := range batch {
			select {
			case channels[p.pin(msg.LeadID)] <- msg:
			case <-ctx.Done():
				// Undrained messages go back so a restart cannot lose them.
				for _, left := range batch[i:] {
					p.queue.Enqueue(left)
				}
				break poll
			}
		}

		if len(batch) == 0 {
			select {
			case <-ticker.C:
			case <-ctx.Done():
				break poll
			}
		} else if ctx.Err() != nil {
			break
		}
	}

	for _, ch := range channels {
		close(ch)
	}
	wg.Wait()
}

// pin maps a lead to a fixed worker index. The repository id is
// canonical; email casing varies per submission.
func (p *Pool) pin(leadID string) int {
	h := fnv.New32a()
	h.Write([]byte(leadID))
	return int(h.Sum32() % uint32(p.cfg.Workers))
}
