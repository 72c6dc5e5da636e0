// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the service
// layer from the hospital API adapter.
package port

import (
	"context"

	"github.com/hospvida/hospital-admin-bff/internal/domain"
)

// PatientDirectory handles patient registry operations against the
// hospital API. Every operation returns exactly one result envelope;
// upstream failures are classified inside the envelope, never raised
// as errors.
type PatientDirectory interface {
	ListPatients(ctx context.Context) *domain.Envelope
	CreatePatient(ctx context.Context, p domain.Patient) *domain.Envelope
	UpdatePatient(ctx context.Context, id string, p domain.Patient) *domain.Envelope
	DeletePatient(ctx context.Context, id string) *domain.Envelope
}

// SchedulingStore handles consultation and exam scheduling operations.
type SchedulingStore interface {
	ListConsultations(ctx context.Context) *domain.Envelope
	CreateConsultation(ctx context.Context, c domain.Consultation) *domain.Envelope
	DeleteConsultation(ctx context.Context, id string) *domain.Envelope

	ListExams(ctx context.Context) *domain.Envelope
	CreateExam(ctx context.Context, e domain.Exam) *domain.Envelope
	DeleteExam(ctx context.Context, id string) *domain.Envelope
}

// EnvelopeCache caches successful result envelopes with TTL.
type EnvelopeCache interface {
	Get(key string) (*domain.Envelope, bool)
	Put(key string, env *domain.Envelope)
	Invalidate(key string)
	InvalidatePrefix(prefix string)
}
