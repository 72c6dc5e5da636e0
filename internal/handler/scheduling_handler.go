package handler

import (
	"encoding/json"
	"net/http"

	"github.com/hospvida/hospital-admin-bff/internal/domain"
	"github.com/hospvida/hospital-admin-bff/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Consultas — /v1/consultations
// ============================================================

func listConsultationsHandler(svc *service.SchedulingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/consultations")
		defer span.End()

		writeEnvelope(w, svc.ListConsultations(ctx))
	}
}

func createConsultationHandler(svc *service.SchedulingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/consultations")
		defer span.End()

		var c domain.Consultation
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			writeError(w, http.StatusBadRequest, domain.KindValidation, "Corpo da requisição inválido")
			return
		}

		writeEnvelope(w, svc.CreateConsultation(ctx, c))
	}
}

func deleteConsultationHandler(svc *service.SchedulingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/consultations/{consultationId}")
		defer span.End()

		id := chi.URLParam(r, "consultationId")
		logger.Info("consultation cancellation requested",
			zap.String("consultation_id", id),
			zap.String("admin", AdminFromContext(ctx)),
		)

		writeEnvelope(w, svc.DeleteConsultation(ctx, id))
	}
}

// ============================================================
// Exames — /v1/exams
// ============================================================

func listExamsHandler(svc *service.SchedulingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/exams")
		defer span.End()

		writeEnvelope(w, svc.ListExams(ctx))
	}
}

func createExamHandler(svc *service.SchedulingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/exams")
		defer span.End()

		var e domain.Exam
		if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
			writeError(w, http.StatusBadRequest, domain.KindValidation, "Corpo da requisição inválido")
			return
		}

		writeEnvelope(w, svc.CreateExam(ctx, e))
	}
}

func deleteExamHandler(svc *service.SchedulingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/exams/{examId}")
		defer span.End()

		id := chi.URLParam(r, "examId")
		logger.Info("exam cancellation requested",
			zap.String("exam_id", id),
			zap.String("admin", AdminFromContext(ctx)),
		)

		writeEnvelope(w, svc.DeleteExam(ctx, id))
	}
}
