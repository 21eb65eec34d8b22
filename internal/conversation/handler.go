package conversation

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wolfman30/sales-ai-platform/internal/leads"
	"github.com/wolfman30/sales-ai-platform/pkg/logging"
)

// Handler exposes message ingestion and greetings over HTTP.
type Handler struct {
	pool   *Pool
	engine *Engine
	logger *logging.Logger
}

// NewHandler creates a conversation handler.
func NewHandler(pool *Pool, engine *Engine, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{pool: pool, engine: engine, logger: logger}
}

// IngestRequest is the payload for POST /api/messages.
type IngestRequest struct {
	LeadEmail string `json:"lead_email"`
	Content   string `json:"content"`
	Channel   string `json:"channel"`
}

// IngestResponse acknowledges an enqueued message.
type IngestResponse struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
}

// Ingest handles POST /api/messages: the message is enqueued and the
// reply goes out asynchronously on the lead's channel.
func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	channel := leads.Channel(req.Channel)
	if req.Channel == "" {
		channel = leads.ChannelEmail
	}

	messageID, err := h.pool.Ingest(r.Context(), req.LeadEmail, req.Content, channel)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyMessage):
			http.Error(w, "content is required", http.StatusBadRequest)
		case errors.Is(err, leads.ErrLeadNotFound):
			http.Error(w, "lead not found", http.StatusNotFound)
		default:
			h.logger.Error("failed to ingest message", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(IngestResponse{MessageID: messageID, Status: "queued"})
}

// GreetRequest is the payload for POST /api/greetings.
type GreetRequest struct {
	LeadEmail string `json:"lead_email"`
}

// Greet handles POST /api/greetings: opens the conversation with a lead
// synchronously and returns the greeting that went out.
func (h *Handler) Greet(w http.ResponseWriter, r *http.Request) {
	var req GreetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.engine.GreetLead(r.Context(), req.LeadEmail)
	if err != nil {
		if errors.Is(err, leads.ErrLeadNotFound) {
			http.Error(w, "lead not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to greet lead", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
