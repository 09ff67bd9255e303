package leads

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores submissions in the relational database.
type PostgresRepository struct {
	pool pgxQuerier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

func newPostgresRepositoryWithQuerier(q pgxQuerier) *PostgresRepository {
	if q == nil {
		panic("leads: querier required")
	}
	return &PostgresRepository{pool: q}
}

const submissionColumns = `id, kind, name, email, phone, company, service, timeline, budget,
		preferred_date, preferred_time, description, message, intent, company_type, created_at`

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateSubmissionRequest) (*Submission, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sub := req.toSubmission(uuid.New().String(), time.Time{})
	query := `
		INSERT INTO submissions (id, kind, name, email, phone, company, service, timeline, budget,
			preferred_date, preferred_time, description, message, intent, company_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at
	`
	if err := r.pool.QueryRow(ctx, query,
		sub.ID,
		string(sub.Kind),
		sub.Name,
		sub.Email,
		sub.Phone,
		sub.Company,
		sub.Service,
		sub.Timeline,
		sub.Budget,
		sub.PreferredDate,
		sub.PreferredTime,
		sub.Description,
		sub.Message,
		sub.Intent,
		sub.CompanyType,
	).Scan(&sub.CreatedAt); err != nil {
		return nil, fmt.Errorf("leads: insert failed: %w", err)
	}
	return sub, nil
}

// GetByID fetches one submission.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1`
	sub, err := scanSubmission(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	return sub, nil
}

// List returns submissions newest first.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]*Submission, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT ` + submissionColumns + `
		FROM submissions
		WHERE ($1 = '' OR kind = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, string(filter.Kind), limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	defer rows.Close()

	out := []*Submission{}
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	return out, nil
}

func scanSubmission(row pgx.Row) (*Submission, error) {
	var (
		sub  Submission
		kind string
	)
	if err := row.Scan(
		&sub.ID,
		&kind,
		&sub.Name,
		&sub.Email,
		&sub.Phone,
		&sub.Company,
		&sub.Service,
		&sub.Timeline,
		&sub.Budget,
		&sub.PreferredDate,
		&sub.PreferredTime,
		&sub.Description,
		&sub.Message,
		&sub.Intent,
		&sub.CompanyType,
		&sub.CreatedAt,
	); err != nil {
		return nil, err
	}
	sub.Kind = Kind(kind)
	return &sub, nil
}
