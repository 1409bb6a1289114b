package domain

import "time"

// Categories offered by the contact form. The store accepts any non-empty
// value; these are what the site actually sends.
const (
	CategoryProject  = "Project"
	CategoryServices = "Services"
	CategoryOther    = "Other"
)

// DefaultRecentLimit is how many submissions the recent listing returns.
const DefaultRecentLimit = 5

// Payload is the raw inquiry as posted by the contact form.
type Payload struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
	CountryCode string `json:"countryCode" validate:"required"`
	Category    string `json:"category" validate:"required"`
	SubCategory string `json:"subCategory" validate:"required"`
	Subject     string `json:"subject"`
	Message     string `json:"message" validate:"required"`
}

// Submission is a stored inquiry. It is never updated once created.
type Submission struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	CountryCode string    `json:"countryCode"`
	Category    string    `json:"category"`
	SubCategory string    `json:"subCategory"`
	Subject     string    `json:"subject"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewSubmission copies the payload fields into a Submission with the given identity.
func NewSubmission(id string, p Payload, createdAt time.Time) *Submission {
	return &Submission{
		ID:          id,
		Name:        p.Name,
		Email:       p.Email,
		Phone:       p.Phone,
		CountryCode: p.CountryCode,
		Category:    p.Category,
		SubCategory: p.SubCategory,
		Subject:     p.Subject,
		Message:     p.Message,
		CreatedAt:   createdAt,
	}
}

// Outbox statuses for notifications that failed on the request path.
const (
	OutboxPending = "pending"
	OutboxSent    = "sent"
	OutboxFailed  = "failed"
)

// OutboxEntry tracks a notification that still has to reach the operator.
type OutboxEntry struct {
	ID           int64     `json:"id"`
	SubmissionID string    `json:"submission_id"`
	Status       string    `json:"status"`
	Attempts     int       `json:"attempts"`
	LastError    string    `json:"last_error,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
