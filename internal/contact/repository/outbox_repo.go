package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/oakline-signs/site-backend/internal/contact/domain"
)

// OutboxRepository keeps track of operator notifications that failed on the
// request path so a worker can resend them later.
type OutboxRepository struct {
	db *sql.DB
}

// NewOutboxRepository creates a new OutboxRepository
func NewOutboxRepository(db *sql.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

// Enqueue records a failed delivery. The request path already made one
// attempt, so a new row starts at attempts = 1.
func (r *OutboxRepository) Enqueue(ctx context.Context, submissionID, lastError string) error {
	const q = `
INSERT INTO notification_outbox (submission_id, status, attempts, last_error)
VALUES ($1, $2, 1, $3)
ON CONFLICT (submission_id) DO UPDATE SET
	status = EXCLUDED.status,
	attempts = notification_outbox.attempts + 1,
	last_error = EXCLUDED.last_error,
	updated_at = NOW();
`
	if _, err := r.db.ExecContext(ctx, q, submissionID, domain.OutboxPending, lastError); err != nil {
		return fmt.Errorf("failed to enqueue notification: %w", err)
	}
	return nil
}

// ClaimPending leases up to limit pending entries, oldest first. Rows leased
// by another worker are skipped until their lease runs out, so concurrent
// resend passes never pick the same entry.
func (r *OutboxRepository) ClaimPending(ctx context.Context, limit int, lease time.Duration) ([]domain.OutboxEntry, error) {
	const q = `
UPDATE notification_outbox o
SET claimed_until = NOW() + make_interval(secs => $3), updated_at = NOW()
FROM (
	SELECT id
	FROM notification_outbox
	WHERE status = $1 AND (claimed_until IS NULL OR claimed_until < NOW())
	ORDER BY created_at ASC, id ASC
	LIMIT $2
	FOR UPDATE SKIP LOCKED
) picked
WHERE o.id = picked.id
RETURNING o.id, o.submission_id, o.status, o.attempts, o.last_error, o.created_at, o.updated_at;
`
	rows, err := r.db.QueryContext(ctx, q, domain.OutboxPending, limit, lease.Seconds())
	if err != nil {
		return nil, fmt.Errorf("failed to claim pending notifications: %w", err)
	}
	defer rows.Close()

	out := make([]domain.OutboxEntry, 0, limit)
	for rows.Next() {
		var e domain.OutboxEntry
		var lastErr sql.NullString
		if err := rows.Scan(&e.ID, &e.SubmissionID, &e.Status, &e.Attempts, &lastErr, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		if lastErr.Valid {
			e.LastError = lastErr.String
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// RETURNING has no defined order.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// MarkSent closes an entry after a successful resend.
func (r *OutboxRepository) MarkSent(ctx context.Context, id int64) error {
	const q = `
UPDATE notification_outbox
SET status = $2, last_error = NULL, claimed_until = NULL, updated_at = NOW()
WHERE id = $1;
`
	res, err := r.db.ExecContext(ctx, q, id, domain.OutboxSent)
	if err != nil {
		return fmt.Errorf("failed to mark notification sent: %w", err)
	}
	return requireOneRow(res)
}

// MarkAttemptFailed counts another failed attempt. Once maxAttempts is
// reached the entry is parked as failed and no longer picked up.
func (r *OutboxRepository) MarkAttemptFailed(ctx context.Context, id int64, lastError string, maxAttempts int) error {
	const q = `
UPDATE notification_outbox
SET attempts = attempts + 1,
	last_error = $2,
	status = CASE WHEN attempts + 1 >= $3 THEN $4 ELSE status END,
	claimed_until = NULL,
	updated_at = NOW()
WHERE id = $1;
`
	res, err := r.db.ExecContext(ctx, q, id, lastError, maxAttempts, domain.OutboxFailed)
	if err != nil {
		return fmt.Errorf("failed to record notification attempt: %w", err)
	}
	return requireOneRow(res)
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrOutboxNotFound
	}
	return nil
}

// IsNotFound reports whether err means the requested row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrSubmissionNotFound) || errors.Is(err, domain.ErrOutboxNotFound)
}
