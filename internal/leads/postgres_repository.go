package leads

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the repository needs. Tests satisfy
// it with pgxmock.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores leads in the relational database.
type PostgresRepository struct {
	db DB
}

// NewPostgresRepository initializes a repo backed by pgx.
func NewPostgresRepository(db DB) *PostgresRepository {
	if db == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresRepository{db: db}
}

const leadColumns = `id, first_name, last_name, email, phone, company, job_title, source,
	status, needs, budget, objections, notes, preferred_channel, temperature,
	followup_count, created_at, updated_at, last_contact`

// Create inserts a new lead row.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	channel := req.PreferredChannel
	if channel == "" {
		channel = ChannelEmail
	}

	id := uuid.New()
	query := `
		INSERT INTO leads (id, first_name, last_name, email, phone, company, job_title, source, status, preferred_channel, temperature)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`
	var createdAt, updatedAt time.Time
	if err := r.db.QueryRow(ctx, query,
		id,
		req.FirstName,
		req.LastName,
		normalizeEmail(req.Email),
		req.Phone,
		req.Company,
		req.JobTitle,
		req.Source,
		StatusNew,
		channel,
		TemperatureCold,
	).Scan(&createdAt, &updatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("leads: insert failed: %w", err)
	}

	return &Lead{
		ID:               id.String(),
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            normalizeEmail(req.Email),
		Phone:            req.Phone,
		Company:          req.Company,
		JobTitle:         req.JobTitle,
		Source:           req.Source,
		Status:           StatusNew,
		PreferredChannel: channel,
		Temperature:      TemperatureCold,
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
	}, nil
}

// GetByID fetches a lead by primary key.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	query := fmt.Sprintf(`SELECT %s FROM leads WHERE id = $1`, leadColumns)
	return r.scanLead(r.db.QueryRow(ctx, query, id))
}

// GetByEmail fetches a lead by its unique email.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*Lead, error) {
	query := fmt.Sprintf(`SELECT %s FROM leads WHERE email = $1`, leadColumns)
	return r.scanLead(r.db.QueryRow(ctx, query, normalizeEmail(email)))
}

// Update applies the mutation as a single UPDATE statement.
func (r *PostgresRepository) Update(ctx context.Context, id string, upd Update) (*Lead, error) {
	if upd.IsZero() {
		return r.GetByID(ctx, id)
	}

	sets := []string{"updated_at = now()"}
	args := []any{id}
	idx := 2

	addSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, value)
		idx++
	}

	if upd.Status != nil {
		addSet("status", *upd.Status)
	}
	if upd.Needs != nil {
		addSet("needs", *upd.Needs)
	}
	if upd.Budget != nil {
		addSet("budget", *upd.Budget)
	}
	if upd.Objections != nil {
		addSet("objections", *upd.Objections)
	}
	if upd.Notes != nil {
		addSet("notes", *upd.Notes)
	}
	if upd.Temperature != nil {
		addSet("temperature", *upd.Temperature)
	}
	if upd.IncrementFollowups {
		sets = append(sets, "followup_count = followup_count + 1")
	}
	if upd.TouchLastContact {
		sets = append(sets, "last_contact = now()")
	}

	query := fmt.Sprintf(`UPDATE leads SET %s WHERE id = $1 RETURNING %s`,
		strings.Join(sets, ", "), leadColumns)

	return r.scanLead(r.db.QueryRow(ctx, query, args...))
}

func (r *PostgresRepository) scanLead(row pgx.Row) (*Lead, error) {
	var lead Lead
	var phone, company, jobTitle, source, needs, budget, objections, notes *string
	var lastContact *time.Time

	if err := row.Scan(
		&lead.ID,
		&lead.FirstName,
		&lead.LastName,
		&lead.Email,
		&phone,
		&company,
		&jobTitle,
		&source,
		&lead.Status,
		&needs,
		&budget,
		&objections,
		&notes,
		&lead.PreferredChannel,
		&lead.Temperature,
		&lead.FollowupCount,
		&lead.CreatedAt,
		&lead.UpdatedAt,
		&lastContact,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}

	lead.Phone = deref(phone)
	lead.Company = deref(company)
	lead.JobTitle = deref(jobTitle)
	lead.Source = deref(source)
	lead.Needs = deref(needs)
	lead.Budget = deref(budget)
	lead.Objections = deref(objections)
	lead.Notes = deref(notes)
	lead.LastContact = lastContact
	return &lead, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
