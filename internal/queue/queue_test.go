package queue

import (
	"sync"
	"testing"

	"github.com/wolfman30/sales-ai-platform/internal/leads"
)

func TestDequeueOrderPriorityThenFIFO(t *testing.T) {
	q := NewPriorityQueue()

	// Priorities [3,1,3,2] must come out [3,3,2,1] with the two
	// priority-3 messages in original relative order.
	q.Enqueue(Message{MessageID: "a", Priority: 3})
	q.Enqueue(Message{MessageID: "b", Priority: 1})
	q.Enqueue(Message{MessageID: "c", Priority: 3})
	q.Enqueue(Message{MessageID: "d", Priority: 2})

	var got []string
	for {
		msg, ok := q.Dequeue()
		if !ok {
			break
		}
		got = append(got, msg.MessageID)
	}

	want := []string{"a", "c", "d", "b"}
	if len(got) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s (full order %v)", i, want[i], got[i], got)
		}
	}
}

func TestDequeueEmpty(t *testing.T) {
	q := NewPriorityQueue()
	if _, ok := q.Dequeue(); ok {
		t.Error("expected empty dequeue to report no message")
	}
	if _, ok := q.Peek(); ok {
		t.Error("expected empty peek to report no message")
	}
	if q.Size() != 0 {
		t.Errorf("expected size 0, got %d", q.Size())
	}
}

func TestDrainUpToStopsEarly(t *testing.T) {
	q := NewPriorityQueue()
	q.Enqueue(Message{MessageID: "a", Priority: 1})
	q.Enqueue(Message{MessageID: "b", Priority: 5})

	drained := q.DrainUpTo(10)
	if len(drained) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(drained))
	}
	if drained[0].MessageID != "b" {
		t.Errorf("expected highest priority first, got %s", drained[0].MessageID)
	}
	if q.Size() != 0 {
		t.Errorf("expected empty queue after drain, got size %d", q.Size())
	}

	if drained := q.DrainUpTo(3); len(drained) != 0 {
		t.Errorf("draining an empty queue must return nothing, got %d", len(drained))
	}
}

func TestDrainUpToRespectsLimit(t *testing.T) {
	q := NewPriorityQueue()
	for i := 0; i < 5; i++ {
		q.Enqueue(Message{Priority: 1})
	}
	if drained := q.DrainUpTo(3); len(drained) != 3 {
		t.Errorf("expected 3 messages, got %d", len(drained))
	}
	if q.Size() != 2 {
		t.Errorf("expected 2 remaining, got %d", q.Size())
	}
}

func TestConcurrentEnqueueDequeueLosesNothing(t *testing.T) {
	q := NewPriorityQueue()
	const producers = 8
	const perProducer = 200

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Enqueue(Message{Priority: i % 5})
			}
		}(p)
	}
	wg.Wait()

	var total int
	for {
		batch := q.DrainUpTo(64)
		if len(batch) == 0 {
			break
		}
		total += len(batch)
	}
	if total != producers*perProducer {
		t.Errorf("expected %d messages, got %d", producers*perProducer, total)
	}
}

func TestCalculatePriority(t *testing.T) {
	negScore := -0.6

	tests := []struct {
		name string
		in   PriorityInput
		want int
	}{
		{
			name: "warm lead regular message",
			in: PriorityInput{
				Lead:              &leads.Lead{Status: leads.StatusEngaged, Temperature: leads.TemperatureWarm},
				Content:           "tell me more about the integrations",
				PriorInboundCount: 4,
			},
			want: PriorityMedium,
		},
		{
			name: "new lead gets high priority",
			in: PriorityInput{
				Lead:              &leads.Lead{Status: leads.StatusNew, Temperature: leads.TemperatureCold},
				Content:           "hello",
				PriorInboundCount: 0,
			},
			want: PriorityHigh,
		},
		{
			name: "negotiating lead is urgent",
			in: PriorityInput{
				Lead:              &leads.Lead{Status: leads.StatusNegotiating},
				Content:           "about that proposal",
				PriorInboundCount: 9,
			},
			want: PriorityUrgent,
		},
		{
			name: "urgent keyword escalates",
			in: PriorityInput{
				Lead:              &leads.Lead{Status: leads.StatusEngaged},
				Content:           "we need this ASAP",
				PriorInboundCount: 5,
			},
			want: PriorityUrgent,
		},
		{
			name: "very negative sentiment escalates",
			in: PriorityInput{
				Lead:              &leads.Lead{Status: leads.StatusEngaged},
				Content:           "this has been disappointing",
				SentimentScore:    &negScore,
				PriorInboundCount: 5,
			},
			want: PriorityUrgent,
		},
		{
			name: "buying signal is immediate",
			in: PriorityInput{
				Lead:              &leads.Lead{Status: leads.StatusEngaged},
				Content:           "we are ready to buy, send the contract",
				PriorInboundCount: 5,
			},
			want: PriorityImmediate,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculatePriority(tt.in); got != tt.want {
				t.Errorf("CalculatePriority() = %d, want %d", got, tt.want)
			}
		})
	}
}
