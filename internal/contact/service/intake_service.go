package service

import (
	"context"
	"errors"

	"github.com/oakline-signs/site-backend/internal/contact/domain"
	"github.com/oakline-signs/site-backend/internal/logging"
	"github.com/oakline-signs/site-backend/internal/metrics"
)

// Store persists submissions. Create must be atomic: a submission is either
// fully visible to ListRecent/Get or not at all.
type Store interface {
	Create(ctx context.Context, p domain.Payload) (*domain.Submission, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Submission, error)
	Get(ctx context.Context, id string) (*domain.Submission, error)
}

// Notifier tells the operator about a stored submission. One attempt per call.
type Notifier interface {
	Send(ctx context.Context, s *domain.Submission) error
}

// FailureRecorder remembers notifications that could not be delivered.
type FailureRecorder interface {
	Enqueue(ctx context.Context, submissionID, lastError string) error
}

// Observer is told how each submission ended.
type Observer interface {
	SubmissionOutcome(outcome string)
}

// IntakeService runs the contact pipeline: validate, persist, notify.
type IntakeService struct {
	store    Store
	notifier Notifier
	failures FailureRecorder
	observer Observer
}

// NewIntakeService creates a new IntakeService. failures may be nil.
func NewIntakeService(store Store, notifier Notifier, failures FailureRecorder) *IntakeService {
	return &IntakeService{
		store:    store,
		notifier: notifier,
		failures: failures,
	}
}

// WithObserver sets the outcome observer and returns s.
func (s *IntakeService) WithObserver(o Observer) *IntakeService {
	s.observer = o
	return s
}

// HandleSubmit accepts one inquiry.
//
// The returned error is one of *domain.ValidationError (nothing stored),
// *domain.StorageError (nothing stored, nothing sent) or
// *domain.NotificationError. In the last case the submission is stored and
// returned alongside the error.
func (s *IntakeService) HandleSubmit(ctx context.Context, p domain.Payload) (*domain.Submission, error) {
	log := logging.NewLogger(ctx)

	if err := domain.ValidatePayload(p); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			log.LogWarnf("contact.submit", "rejected missing=%s", ve.Detail())
		}
		s.observe(metrics.OutcomeRejected)
		return nil, err
	}

	// Once persisting starts it runs to completion even if the client goes away.
	detached := context.WithoutCancel(ctx)

	sub, err := s.store.Create(detached, p)
	if err != nil {
		if !domain.IsStorage(err) {
			err = &domain.StorageError{Op: "create", Err: err}
		}
		log.LogError("contact.submit.store", err)
		s.observe(metrics.OutcomeStorageError)
		return nil, err
	}

	if err := s.notifier.Send(detached, sub); err != nil {
		var ne *domain.NotificationError
		if !errors.As(err, &ne) {
			ne = &domain.NotificationError{SubmissionID: sub.ID, Err: err}
		}
		log.LogErrorf("contact.submit.notify", "stored id=%s but notification failed: %v", sub.ID, ne.Err)
		s.recordFailure(detached, log, sub.ID, ne)
		s.observe(metrics.OutcomeNotifyFailed)
		return sub, ne
	}

	log.LogInfof("contact.submit", "accepted id=%s category=%s", sub.ID, sub.Category)
	s.observe(metrics.OutcomeAccepted)
	return sub, nil
}

// ListRecent returns the latest submissions, newest first.
func (s *IntakeService) ListRecent(ctx context.Context) ([]domain.Submission, error) {
	items, err := s.store.ListRecent(ctx, domain.DefaultRecentLimit)
	if err != nil {
		if !domain.IsStorage(err) {
			err = &domain.StorageError{Op: "list", Err: err}
		}
		logging.NewLogger(ctx).LogError("contact.list", err)
		return nil, err
	}
	return items, nil
}

func (s *IntakeService) observe(outcome string) {
	if s.observer != nil {
		s.observer.SubmissionOutcome(outcome)
	}
}

func (s *IntakeService) recordFailure(ctx context.Context, log *logging.Logger, id string, cause error) {
	if s.failures == nil {
		return
	}
	if err := s.failures.Enqueue(ctx, id, cause.Error()); err != nil {
		log.LogErrorf("contact.outbox", "could not record failed notification id=%s: %v", id, err)
	}
}
