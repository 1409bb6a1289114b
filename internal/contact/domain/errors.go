package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSubmissionNotFound = errors.New("contact submission not found")
	ErrOutboxNotFound     = errors.New("outbox entry not found")
)

// ValidationError means the client left required fields empty.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "Missing required fields"
}

// Detail lists the missing fields, for logs only.
func (e *ValidationError) Detail() string {
	return strings.Join(e.Fields, ",")
}

// StorageError means nothing was saved (or nothing could be read).
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NotificationError means the submission is stored but the operator email
// was not delivered.
type NotificationError struct {
	SubmissionID string
	Err          error
}

func (e *NotificationError) Error() string {
	return e.Err.Error()
}

func (e *NotificationError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

func IsNotification(err error) bool {
	var ne *NotificationError
	return errors.As(err, &ne)
}
