// Package service provides the business logic layer (use cases).
// Services validate input locally before touching the upstream
// hospital API, cache successful list results, and keep the envelope
// contract: every operation yields exactly one result envelope.
package service

import (
	"time"

	"github.com/hospvida/hospital-admin-bff/internal/domain"

	"github.com/google/uuid"
)

// validationEnvelope builds a local VALIDATION failure without calling
// the upstream. Same shape as an upstream 400, so the frontend renders
// both identically.
func validationEnvelope(message string, errs map[string][]string) *domain.Envelope {
	return &domain.Envelope{
		Success:   false,
		Error:     message,
		Status:    400,
		RequestID: uuid.New().String(),
		Timestamp: time.Now().Format(time.RFC3339),
		Details: &domain.ErrorDetails{
			ValidationErrors: errs,
			Kind:             domain.KindValidation,
			Suggestions:      []string{"Confira os campos destacados e corrija os valores"},
			Retryable:        false,
		},
	}
}

// successEnvelope wraps locally produced data (overview, snapshots) in
// the same contract the integration layer uses.
func successEnvelope(data any) *domain.Envelope {
	return &domain.Envelope{
		Success:   true,
		Data:      data,
		Status:    200,
		RequestID: uuid.New().String(),
		Timestamp: time.Now().Format(time.RFC3339),
	}
}
