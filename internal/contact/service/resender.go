package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oakline-signs/site-backend/internal/contact/domain"
	"github.com/oakline-signs/site-backend/internal/logging"
)

const (
	defaultResendBatch = 50
	defaultClaimLease  = 10 * time.Minute
)

// Outbox is the queue of notifications waiting to be resent.
type Outbox interface {
	ClaimPending(ctx context.Context, limit int, lease time.Duration) ([]domain.OutboxEntry, error)
	MarkSent(ctx context.Context, id int64) error
	MarkAttemptFailed(ctx context.Context, id int64, lastError string, maxAttempts int) error
}

// ResendResult summarises one resend pass.
type ResendResult struct {
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// Resender retries operator notifications recorded in the outbox.
// It never touches the submissions themselves.
type Resender struct {
	store       Store
	notifier    Notifier
	outbox      Outbox
	maxAttempts int
	batchSize   int
	claimLease  time.Duration
}

// NewResender creates a new Resender
func NewResender(store Store, notifier Notifier, outbox Outbox, maxAttempts int) *Resender {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &Resender{
		store:       store,
		notifier:    notifier,
		outbox:      outbox,
		maxAttempts: maxAttempts,
		batchSize:   defaultResendBatch,
		claimLease:  defaultClaimLease,
	}
}

// RunOnce makes one delivery attempt for each pending entry.
func (r *Resender) RunOnce(ctx context.Context) (ResendResult, error) {
	var res ResendResult
	log := logging.NewLogger(ctx)

	entries, err := r.outbox.ClaimPending(ctx, r.batchSize, r.claimLease)
	if err != nil {
		return res, err
	}

	for _, e := range entries {
		sub, err := r.store.Get(ctx, e.SubmissionID)
		if errors.Is(err, domain.ErrSubmissionNotFound) {
			// Nothing left to notify about; park the entry.
			if err := r.outbox.MarkAttemptFailed(ctx, e.ID, "submission not found", 0); err != nil {
				return res, err
			}
			res.Skipped++
			continue
		}
		if err != nil {
			return res, fmt.Errorf("load submission %s: %w", e.SubmissionID, err)
		}

		if err := r.notifier.Send(ctx, sub); err != nil {
			log.LogWarnf("contact.resend", "id=%s attempt=%d failed: %v", sub.ID, e.Attempts+1, err)
			if err := r.outbox.MarkAttemptFailed(ctx, e.ID, err.Error(), r.maxAttempts); err != nil {
				return res, err
			}
			res.Failed++
			continue
		}

		if err := r.outbox.MarkSent(ctx, e.ID); err != nil {
			return res, err
		}
		res.Sent++
	}

	log.LogInfof("contact.resend", "pass done sent=%d failed=%d skipped=%d", res.Sent, res.Failed, res.Skipped)
	return res, nil
}
