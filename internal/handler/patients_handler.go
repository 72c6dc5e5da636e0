package handler

import (
	"encoding/json"
	"net/http"

	"github.com/hospvida/hospital-admin-bff/internal/domain"
	"github.com/hospvida/hospital-admin-bff/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Pacientes — /v1/patients
// ============================================================

func listPatientsHandler(svc *service.PatientService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/patients")
		defer span.End()

		writeEnvelope(w, svc.List(ctx))
	}
}

func createPatientHandler(svc *service.PatientService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/patients")
		defer span.End()

		var p domain.Patient
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeError(w, http.StatusBadRequest, domain.KindValidation, "Corpo da requisição inválido")
			return
		}

		writeEnvelope(w, svc.Create(ctx, p))
	}
}

func updatePatientHandler(svc *service.PatientService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/patients/{patientId}")
		defer span.End()

		id := chi.URLParam(r, "patientId")
		span.SetAttributes(attribute.String("patient.id", id))

		var p domain.Patient
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeError(w, http.StatusBadRequest, domain.KindValidation, "Corpo da requisição inválido")
			return
		}

		writeEnvelope(w, svc.Update(ctx, id, p))
	}
}

func deletePatientHandler(svc *service.PatientService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/patients/{patientId}")
		defer span.End()

		id := chi.URLParam(r, "patientId")
		span.SetAttributes(attribute.String("patient.id", id))
		logger.Info("patient deletion requested",
			zap.String("patient_id", id),
			zap.String("admin", AdminFromContext(ctx)),
		)

		writeEnvelope(w, svc.Delete(ctx, id))
	}
}
