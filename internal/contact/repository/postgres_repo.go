package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/oakline-signs/site-backend/internal/contact/domain"
)

// SubmissionRepository persists contact submissions in PostgreSQL.
type SubmissionRepository struct {
	db *sql.DB
}

// NewSubmissionRepository creates a new Postgres-backed submission repository
func NewSubmissionRepository(db *sql.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

const submissionColumns = `id, name, email, phone, country_code, category, sub_category, subject, message, created_at`

// Create inserts the submission. created_at comes from the database clock,
// seq breaks ties between rows stamped in the same microsecond.
func (r *SubmissionRepository) Create(ctx context.Context, p domain.Payload) (*domain.Submission, error) {
	for i := 0; i < 3; i++ {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, &domain.StorageError{Op: "create", Err: fmt.Errorf("generate id: %w", err)}
		}

		const q = `
INSERT INTO contact_submissions (id, name, email, phone, country_code, category, sub_category, subject, message)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING created_at;
`
		s := domain.NewSubmission(id.String(), p, time.Time{})
		err = r.db.QueryRowContext(ctx, q,
			s.ID, s.Name, s.Email, s.Phone, s.CountryCode, s.Category, s.SubCategory, s.Subject, s.Message,
		).Scan(&s.CreatedAt)
		if err == nil {
			s.CreatedAt = s.CreatedAt.UTC()
			return s, nil
		}

		// unique violation on id → retry with a fresh one
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			continue
		}
		return nil, &domain.StorageError{Op: "create", Err: err}
	}

	return nil, &domain.StorageError{Op: "create", Err: fmt.Errorf("failed to generate unique submission id")}
}

// ListRecent returns the newest submissions first.
func (r *SubmissionRepository) ListRecent(ctx context.Context, limit int) ([]domain.Submission, error) {
	if limit <= 0 {
		limit = domain.DefaultRecentLimit
	}

	q := `
SELECT ` + submissionColumns + `
FROM contact_submissions
ORDER BY created_at DESC, seq DESC
LIMIT $1;
`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, &domain.StorageError{Op: "list", Err: err}
	}
	defer rows.Close()

	out := make([]domain.Submission, 0, limit)
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, &domain.StorageError{Op: "list", Err: err}
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "list", Err: err}
	}
	return out, nil
}

// Get loads one submission by id.
func (r *SubmissionRepository) Get(ctx context.Context, id string) (*domain.Submission, error) {
	q := `
SELECT ` + submissionColumns + `
FROM contact_submissions
WHERE id = $1;
`
	s, err := scanSubmission(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSubmissionNotFound
		}
		return nil, &domain.StorageError{Op: "get", Err: err}
	}
	return s, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (*domain.Submission, error) {
	var s domain.Submission
	if err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Email,
		&s.Phone,
		&s.CountryCode,
		&s.Category,
		&s.SubCategory,
		&s.Subject,
		&s.Message,
		&s.CreatedAt,
	); err != nil {
		return nil, err
	}
	s.CreatedAt = s.CreatedAt.UTC()
	return &s, nil
}
