package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wolfman30/sales-ai-platform/internal/action"
	"github.com/wolfman30/sales-ai-platform/internal/compliance"
	"github.com/wolfman30/sales-ai-platform/internal/conversation"
	"github.com/wolfman30/sales-ai-platform/internal/leads"
	"github.com/wolfman30/sales-ai-platform/internal/messaging"
	"github.com/wolfman30/sales-ai-platform/internal/playbook"
	"github.com/wolfman30/sales-ai-platform/internal/queue"
	"github.com/wolfman30/sales-ai-platform/internal/recommend"
	"github.com/wolfman30/sales-ai-platform/internal/scheduler"
	"github.com/wolfman30/sales-ai-platform/internal/sentiment"
	"github.com/wolfman30/sales-ai-platform/pkg/logging"
)

type staticLLM struct{}

func (staticLLM) Complete(ctx context.Context, req conversation.LLMRequest) (conversation.LLMResponse, error) {
	return conversation.LLMResponse{Text: "Thanks for reaching out!"}, nil
}

func newTestServer(t *testing.T) (http.Handler, *leads.InMemoryRepository) {
	t.Helper()
	logger := logging.Default()
	repo := leads.NewInMemoryRepository()

	schedSvc := scheduler.NewService(scheduler.NewMemoryStore(), repo, nil, logger, scheduler.Config{})
	dispatcher := action.NewDispatcher(action.Deps{
		Scheduler: schedSvc,
		Leads:     repo,
		Records:   recommend.NewMemoryRecordStore(),
	}, logger)

	engine := conversation.NewEngine(conversation.Deps{
		Leads:      repo,
		Store:      conversation.NewMemoryStore(),
		Analyzer:   sentiment.NewAnalyzer(sentiment.Config{}),
		Gate:       compliance.NewGate(),
		Selector:   playbook.NewSelector(),
		LLM:        staticLLM{},
		Dispatcher: dispatcher,
		Provider:   messaging.NewLogProvider(logger),
	}, conversation.Config{GenerationTimeout: time.Second}, logger, nil)
	pool := conversation.NewPool(engine, queue.NewPriorityQueue(), conversation.WorkerConfig{}, logger)

	handler := New(&Config{
		Logger:              logger,
		LeadsHandler:        leads.NewHandler(repo, logger),
		ConversationHandler: conversation.NewHandler(pool, engine, logger),
	})
	return handler, repo
}

func TestHealthz(t *testing.T) {
	handler, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCreateAndGetLead(t *testing.T) {
	handler, _ := newTestServer(t)

	body, _ := json.Marshal(map[string]string{
		"first_name": "Dana", "last_name": "Reyes", "email": "dana@example.com",
	})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/leads", bytes.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}

	var created leads.Lead
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/leads/"+created.ID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	// Duplicate email conflicts.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/leads", bytes.NewReader(body)))
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d", rec.Code)
	}
}

func TestIngestMessage(t *testing.T) {
	handler, repo := newTestServer(t)
	if _, err := repo.Create(context.Background(), &leads.CreateLeadRequest{
		FirstName: "Dana", LastName: "Reyes", Email: "dana@example.com",
	}); err != nil {
		t.Fatalf("seed lead: %v", err)
	}

	body, _ := json.Marshal(map[string]string{
		"lead_email": "dana@example.com", "content": "tell me about pricing",
	})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/messages", bytes.NewReader(body)))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp conversation.IngestResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.MessageID == "" || resp.Status != "queued" {
		t.Errorf("resp = %+v", resp)
	}

	// Unknown lead is a 404.
	body, _ = json.Marshal(map[string]string{"lead_email": "ghost@example.com", "content": "hi"})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/messages", bytes.NewReader(body)))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown lead status = %d", rec.Code)
	}
}

func TestGreet(t *testing.T) {
	handler, repo := newTestServer(t)
	if _, err := repo.Create(context.Background(), &leads.CreateLeadRequest{
		FirstName: "Dana", LastName: "Reyes", Email: "dana@example.com",
	}); err != nil {
		t.Fatalf("seed lead: %v", err)
	}

	body, _ := json.Marshal(map[string]string{"lead_email": "dana@example.com"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/greetings", bytes.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var result conversation.PipelineResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Response == "" || !result.Success {
		t.Errorf("result = %+v", result)
	}
}
