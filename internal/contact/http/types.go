package http

import (
	"context"

	"github.com/oakline-signs/site-backend/internal/contact/domain"
)

// IntakeService is what the contact endpoints need from the service layer.
type IntakeService interface {
	HandleSubmit(ctx context.Context, p domain.Payload) (*domain.Submission, error)
	ListRecent(ctx context.Context) ([]domain.Submission, error)
}

// Handler bundles the dependencies for contact HTTP endpoints.
type Handler struct {
	svc IntakeService
}

func New(svc IntakeService) *Handler {
	return &Handler{svc: svc}
}
