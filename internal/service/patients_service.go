package service

import (
	"context"

	"github.com/hospvida/hospital-admin-bff/internal/domain"
	"github.com/hospvida/hospital-admin-bff/internal/infra/observability"
	"github.com/hospvida/hospital-admin-bff/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var patientsTracer = otel.Tracer("service/patients")

const patientsListKey = "patients:list"

// PatientService orchestrates patient registry operations: local
// validation, envelope caching for the list, cache invalidation on
// writes.
type PatientService struct {
	directory port.PatientDirectory
	cache     port.EnvelopeCache
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewPatientService creates a new patient service.
func NewPatientService(directory port.PatientDirectory, cache port.EnvelopeCache, metrics *observability.Metrics, logger *zap.Logger) *PatientService {
	return &PatientService{directory: directory, cache: cache, metrics: metrics, logger: logger}
}

func (s *PatientService) List(ctx context.Context) *domain.Envelope {
	ctx, span := patientsTracer.Start(ctx, "PatientService.List")
	defer span.End()

	if env, ok := s.cache.Get(patientsListKey); ok {
		s.metrics.IncrCacheHit("patients")
		return env
	}
	s.metrics.IncrCacheMiss("patients")

	env := s.directory.ListPatients(ctx)
	s.cache.Put(patientsListKey, env)
	return env
}

func (s *PatientService) Create(ctx context.Context, p domain.Patient) *domain.Envelope {
	ctx, span := patientsTracer.Start(ctx, "PatientService.Create")
	defer span.End()

	if errs := validatePatient(&p); errs != nil {
		return validationEnvelope("Os dados do paciente são inválidos.", errs)
	}

	env := s.directory.CreatePatient(ctx, p)
	if env.Success {
		s.cache.InvalidatePrefix("patients:")
		s.logger.Info("patient created", zap.String("request_id", env.RequestID))
	}
	return env
}

func (s *PatientService) Update(ctx context.Context, id string, p domain.Patient) *domain.Envelope {
	ctx, span := patientsTracer.Start(ctx, "PatientService.Update")
	defer span.End()
	span.SetAttributes(attribute.String("patient.id", id))

	if id == "" {
		return validationEnvelope("Identificador do paciente é obrigatório.", map[string][]string{
			"id": {"Identificador é obrigatório"},
		})
	}
	if errs := validatePatient(&p); errs != nil {
		return validationEnvelope("Os dados do paciente são inválidos.", errs)
	}

	env := s.directory.UpdatePatient(ctx, id, p)
	if env.Success {
		s.cache.InvalidatePrefix("patients:")
	}
	return env
}

func (s *PatientService) Delete(ctx context.Context, id string) *domain.Envelope {
	ctx, span := patientsTracer.Start(ctx, "PatientService.Delete")
	defer span.End()
	span.SetAttributes(attribute.String("patient.id", id))

	if id == "" {
		return validationEnvelope("Identificador do paciente é obrigatório.", map[string][]string{
			"id": {"Identificador é obrigatório"},
		})
	}

	env := s.directory.DeletePatient(ctx, id)
	if env.Success {
		s.cache.InvalidatePrefix("patients:")
		s.logger.Info("patient deleted", zap.String("patient_id", id))
	}
	return env
}
