package service

import (
	"context"

	"github.com/hospvida/hospital-admin-bff/internal/domain"
	"github.com/hospvida/hospital-admin-bff/internal/infra/observability"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var overviewTracer = otel.Tracer("service/overview")

type patientLister interface {
	List(ctx context.Context) *domain.Envelope
}

type scheduleLister interface {
	ListConsultations(ctx context.Context) *domain.Envelope
	ListExams(ctx context.Context) *domain.Envelope
}

// OverviewService aggregates counts across the three resources for the
// admin dashboard. The three upstream lists are fetched concurrently;
// going through the list services keeps the dashboard on the same
// cache the list screens use.
type OverviewService struct {
	patients   patientLister
	scheduling scheduleLister
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewOverviewService creates a new overview service.
func NewOverviewService(patients patientLister, scheduling scheduleLister, metrics *observability.Metrics, logger *zap.Logger) *OverviewService {
	return &OverviewService{patients: patients, scheduling: scheduling, metrics: metrics, logger: logger}
}

// Get fans out the three list calls and folds the counts. The first
// failed envelope is returned as-is so the dashboard shows the same
// classified error the list screens would.
func (s *OverviewService) Get(ctx context.Context) *domain.Envelope {
	ctx, span := overviewTracer.Start(ctx, "OverviewService.Get")
	defer span.End()

	var patientsEnv, consultationsEnv, examsEnv *domain.Envelope

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		patientsEnv = s.patients.List(gctx)
		return nil
	})
	g.Go(func() error {
		consultationsEnv = s.scheduling.ListConsultations(gctx)
		return nil
	})
	g.Go(func() error {
		examsEnv = s.scheduling.ListExams(gctx)
		return nil
	})
	_ = g.Wait()

	for _, env := range []*domain.Envelope{patientsEnv, consultationsEnv, examsEnv} {
		if !env.Success {
			s.logger.Warn("overview: upstream list failed", zap.String("error", env.Error))
			return env
		}
	}

	return successEnvelope(domain.Overview{
		Patients:      countItems(patientsEnv),
		Consultations: countItems(consultationsEnv),
		Exams:         countItems(examsEnv),
	})
}

// GetIntegrationSnapshot exposes the integration layer's cumulative
// counters for the admin panel.
func (s *OverviewService) GetIntegrationSnapshot(ctx context.Context) *domain.Envelope {
	_, span := overviewTracer.Start(ctx, "OverviewService.GetIntegrationSnapshot")
	defer span.End()

	return successEnvelope(s.metrics.GetIntegrationSnapshot())
}

func countItems(env *domain.Envelope) int {
	switch data := env.Data.(type) {
	case []domain.Patient:
		return len(data)
	case []domain.Consultation:
		return len(data)
	case []domain.Exam:
		return len(data)
	case []any:
		return len(data)
	}
	return 0
}
