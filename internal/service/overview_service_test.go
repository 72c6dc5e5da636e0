package service

import (
	"context"
	"testing"

	"github.com/hospvida/hospital-admin-bff/internal/domain"
	"github.com/hospvida/hospital-admin-bff/internal/infra/observability"

	"go.uber.org/zap"
)

type fakeScheduling struct {
	consultations *domain.Envelope
	exams         *domain.Envelope
}

func (f *fakeScheduling) ListConsultations(ctx context.Context) *domain.Envelope {
	return f.consultations
}

func (f *fakeScheduling) ListExams(ctx context.Context) *domain.Envelope {
	return f.exams
}

func TestOverviewService_CountsAllResources(t *testing.T) {
	patients := &fakeDirectory{listEnv: okEnvelope([]domain.Patient{{ID: "p-1"}, {ID: "p-2"}})}
	scheduling := &fakeScheduling{
		consultations: okEnvelope([]domain.Consultation{{ID: "c-1"}}),
		exams:         okEnvelope([]domain.Exam{}),
	}
	psvc, c := newPatientFixture(patients)
	defer c.Close()
	svc := NewOverviewService(psvc, scheduling, observability.NewMetrics(), zap.NewNop())

	env := svc.Get(context.Background())

	if !env.Success {
		t.Fatalf("expected success, got %+v", env)
	}
	overview := env.Data.(domain.Overview)
	if overview.Patients != 2 || overview.Consultations != 1 || overview.Exams != 0 {
		t.Errorf("unexpected counts: %+v", overview)
	}
}

func TestOverviewService_SurfacesUpstreamFailure(t *testing.T) {
	patients := &fakeDirectory{listEnv: okEnvelope([]domain.Patient{})}
	scheduling := &fakeScheduling{
		consultations: &domain.Envelope{Success: false, Status: 503, Error: "indisponível", Details: &domain.ErrorDetails{Kind: domain.KindAPI}},
		exams:         okEnvelope([]domain.Exam{}),
	}
	psvc, c := newPatientFixture(patients)
	defer c.Close()
	svc := NewOverviewService(psvc, scheduling, observability.NewMetrics(), zap.NewNop())

	env := svc.Get(context.Background())

	if env.Success {
		t.Fatal("expected the failed list envelope to surface")
	}
	if env.Status != 503 {
		t.Errorf("expected the original failure envelope, got status %d", env.Status)
	}
}
