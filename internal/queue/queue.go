// Package queue buffers inbound lead messages and yields them in
// priority order for pipeline processing.
package queue

import (
	"container/heap"
	"sync"
	"time"

	"github.com/wolfman30/sales-ai-platform/internal/leads"
)

// Message is one pending unit of pipeline work.
type Message struct {
	MessageID string
	LeadID    string
	LeadEmail string
	Content   string
	Channel   leads.Channel

	Priority   int
	EnqueuedAt time.Time

	seq uint64
}

// PriorityQueue is a thread-safe priority buffer. Dequeue order is
// priority-descending; messages with equal priority come out in
// arrival order. Messages are never dropped between Enqueue and a
// successful Dequeue.
type PriorityQueue struct {
	mu    sync.Mutex
	items messageHeap
	seq   uint64
}

// NewPriorityQueue creates an empty queue.
func NewPriorityQueue() *PriorityQueue {
	return &PriorityQueue{}
}

// Enqueue adds a message. A zero EnqueuedAt is stamped with now.
func (q *PriorityQueue) Enqueue(msg Message) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if msg.EnqueuedAt.IsZero() {
		msg.EnqueuedAt = time.Now().UTC()
	}
	q.seq++
	msg.seq = q.seq
	heap.Push(&q.items, msg)
}

// Dequeue removes and returns the highest-priority message. The second
// return value is false when the queue is empty.
func (q *PriorityQueue) Dequeue() (Message, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return Message{}, false
	}
	return heap.Pop(&q.items).(Message), true
}

// Peek returns the highest-priority message without removing it.
func (q *PriorityQueue) Peek() (Message, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return Message{}, false
	}
	return q.items[0], true
}

// Size returns the number of pending messages.
func (q *PriorityQueue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// DrainUpTo removes and returns at most n messages in dequeue order.
// It never blocks: when the queue empties early it returns what it has.
func (q *PriorityQueue) DrainUpTo(n int) []Message {
	q.mu.Lock()
	defer q.mu.Unlock()

	if n <= 0 {
		return nil
	}
	count := n
	if count > len(q.items) {
		count = len(q.items)
	}
	out := make([]Message, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, heap.Pop(&q.items).(Message))
	}
	return out
}

// messageHeap orders by priority descending, then insertion sequence
// ascending so equal priorities are FIFO.
type messageHeap []Message

func (h messageHeap) Len() int { return len(h) }

func (h messageHeap) Less(i, j int) bool {
	if h[i].Priority != h[j].Priority {
		return h[i].Priority > h[j].Priority
	}
	return h[i].seq < h[j].seq
}

func (h messageHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *messageHeap) Push(x any) {
	*h = append(*h, x.(Message))
}

func (h *messageHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
