package leads

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for lead storage.
type Repository interface {
	Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error)
	GetByID(ctx context.Context, id string) (*Lead, error)
	GetByEmail(ctx context.Context, email string) (*Lead, error)
	Update(ctx context.Context, id string, upd Update) (*Lead, error)
}

// InMemoryRepository is a Repository backed by process memory. It is
// used in tests and when no database is configured.
type InMemoryRepository struct {
	mu      sync.RWMutex
	leads   map[string]*Lead
	byEmail map[string]string
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		leads:   make(map[string]*Lead),
		byEmail: make(map[string]string),
	}
}

// Create registers a new lead.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[email]; exists {
		return nil, ErrDuplicateEmail
	}

	channel := req.PreferredChannel
	if channel == "" {
		channel = ChannelEmail
	}

	now := time.Now().UTC()
	lead := &Lead{
		ID:               uuid.NewString(),
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            email,
		Phone:            req.Phone,
		Company:          req.Company,
		JobTitle:         req.JobTitle,
		Source:           req.Source,
		Status:           StatusNew,
		PreferredChannel: channel,
		Temperature:      TemperatureCold,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	r.leads[lead.ID] = lead
	r.byEmail[email] = lead.ID

	copied := *lead
	return &copied, nil
}

// GetByID retrieves a lead by ID.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lead, ok := r.leads[id]
	if !ok {
		return nil, ErrLeadNotFound
	}
	copied := *lead
	return &copied, nil
}

// GetByEmail retrieves a lead by its email identity.
func (r *InMemoryRepository) GetByEmail(ctx context.Context, email string) (*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, ErrLeadNotFound
	}
	copied := *r.leads[id]
	return &copied, nil
}

// Update applies the mutation atomically and returns the updated lead.
func (r *InMemoryRepository) Update(ctx context.Context, id string, upd Update) (*Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lead, ok := r.leads[id]
	if !ok {
		return nil, ErrLeadNotFound
	}

	applyUpdate(lead, upd, time.Now().UTC())

	copied := *lead
	return &copied, nil
}

func applyUpdate(lead *Lead, upd Update, now time.Time) {
	if upd.Status != nil {
		lead.Status = *upd.Status
	}
	if upd.Needs != nil {
		lead.Needs = *upd.Needs
	}
	if upd.Budget != nil {
		lead.Budget = *upd.Budget
	}
	if upd.Objections != nil {
		lead.Objections = *upd.Objections
	}
	if upd.Notes != nil {
		lead.Notes = *upd.Notes
	}
	if upd.Temperature != nil {
		lead.Temperature = *upd.Temperature
	}
	if upd.IncrementFollowups {
		lead.FollowupCount++
	}
	if upd.TouchLastContact {
		t := now
		lead.LastContact = &t
	}
	lead.UpdatedAt = now
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
