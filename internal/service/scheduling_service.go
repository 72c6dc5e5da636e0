package service

import (
	"context"

	"github.com/hospvida/hospital-admin-bff/internal/domain"
	"github.com/hospvida/hospital-admin-bff/internal/infra/observability"
	"github.com/hospvida/hospital-admin-bff/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var schedulingTracer = otel.Tracer("service/scheduling")

const (
	consultationsListKey = "consultations:list"
	examsListKey         = "exams:list"
)

// SchedulingService orchestrates consultation and exam scheduling.
type SchedulingService struct {
	store   port.SchedulingStore
	cache   port.EnvelopeCache
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewSchedulingService creates a new scheduling service.
func NewSchedulingService(store port.SchedulingStore, cache port.EnvelopeCache, metrics *observability.Metrics, logger *zap.Logger) *SchedulingService {
	return &SchedulingService{store: store, cache: cache, metrics: metrics, logger: logger}
}

func (s *SchedulingService) ListConsultations(ctx context.Context) *domain.Envelope {
	ctx, span := schedulingTracer.Start(ctx, "SchedulingService.ListConsultations")
	defer span.End()

	if env, ok := s.cache.Get(consultationsListKey); ok {
		s.metrics.IncrCacheHit("consultations")
		return env
	}
	s.metrics.IncrCacheMiss("consultations")

	env := s.store.ListConsultations(ctx)
	s.cache.Put(consultationsListKey, env)
	return env
}

func (s *SchedulingService) CreateConsultation(ctx context.Context, c domain.Consultation) *domain.Envelope {
	ctx, span := schedulingTracer.Start(ctx, "SchedulingService.CreateConsultation")
	defer span.End()

	if errs := validateConsultation(&c); errs != nil {
		return validationEnvelope("Os dados da consulta são inválidos.", errs)
	}

	env := s.store.CreateConsultation(ctx, c)
	if env.Success {
		s.cache.InvalidatePrefix("consultations:")
		s.logger.Info("consultation scheduled", zap.String("specialty", c.Specialty))
	}
	return env
}

func (s *SchedulingService) DeleteConsultation(ctx context.Context, id string) *domain.Envelope {
	ctx, span := schedulingTracer.Start(ctx, "SchedulingService.DeleteConsultation")
	defer span.End()

	if id == "" {
		return validationEnvelope("Identificador da consulta é obrigatório.", map[string][]string{
			"id": {"Identificador é obrigatório"},
		})
	}

	env := s.store.DeleteConsultation(ctx, id)
	if env.Success {
		s.cache.InvalidatePrefix("consultations:")
	}
	return env
}

func (s *SchedulingService) ListExams(ctx context.Context) *domain.Envelope {
	ctx, span := schedulingTracer.Start(ctx, "SchedulingService.ListExams")
	defer span.End()

	if env, ok := s.cache.Get(examsListKey); ok {
		s.metrics.IncrCacheHit("exams")
		return env
	}
	s.metrics.IncrCacheMiss("exams")

	env := s.store.ListExams(ctx)
	s.cache.Put(examsListKey, env)
	return env
}

func (s *SchedulingService) CreateExam(ctx context.Context, e domain.Exam) *domain.Envelope {
	ctx, span := schedulingTracer.Start(ctx, "SchedulingService.CreateExam")
	defer span.End()

	if errs := validateExam(&e); errs != nil {
		return validationEnvelope("Os dados do exame são inválidos.", errs)
	}

	env := s.store.CreateExam(ctx, e)
	if env.Success {
		s.cache.InvalidatePrefix("exams:")
		s.logger.Info("exam scheduled", zap.String("type", e.Type))
	}
	return env
}

func (s *SchedulingService) DeleteExam(ctx context.Context, id string) *domain.Envelope {
	ctx, span := schedulingTracer.Start(ctx, "SchedulingService.DeleteExam")
	defer span.End()

	if id == "" {
		return validationEnvelope("Identificador do exame é obrigatório.", map[string][]string{
			"id": {"Identificador é obrigatório"},
		})
	}

	env := s.store.DeleteExam(ctx, id)
	if env.Success {
		s.cache.InvalidatePrefix("exams:")
	}
	return env
}
