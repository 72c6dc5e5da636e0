package handler

import (
	"net/http"
	"time"

	"github.com/hospvida/hospital-admin-bff/internal/infra/hospital"
	"github.com/hospvida/hospital-admin-bff/internal/infra/observability"
	"github.com/hospvida/hospital-admin-bff/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
// Routes follow the API contract of the hospital admin frontend.
func NewRouter(
	patientSvc *service.PatientService,
	schedulingSvc *service.SchedulingService,
	overviewSvc *service.OverviewService,
	authSvc *service.AuthService,
	probe *hospital.Probe,
	metrics *observability.Metrics,
	logger *zap.Logger,
	allowedOrigins []string,
) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(probe))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// =============================================
		// Pacientes
		// =============================================
		r.Get("/patients", listPatientsHandler(patientSvc, logger))
		r.Post("/patients", createPatientHandler(patientSvc, logger))
		r.Put("/patients/{patientId}", updatePatientHandler(patientSvc, logger))

		// =============================================
		// Consultas e Exames
		// =============================================
		r.Get("/consultations", listConsultationsHandler(schedulingSvc, logger))
		r.Post("/consultations", createConsultationHandler(schedulingSvc, logger))
		r.Get("/exams", listExamsHandler(schedulingSvc, logger))
		r.Post("/exams", createExamHandler(schedulingSvc, logger))

		// =============================================
		// Autenticação
		// =============================================
		r.Post("/admin/login", adminLoginHandler(authSvc, logger))

		// =============================================
		// Rotas protegidas: exclusões e painel admin
		// =============================================
		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(authSvc, logger))

			r.Delete("/patients/{patientId}", deletePatientHandler(patientSvc, logger))
			r.Delete("/consultations/{consultationId}", deleteConsultationHandler(schedulingSvc, logger))
			r.Delete("/exams/{examId}", deleteExamHandler(schedulingSvc, logger))

			r.Get("/overview", overviewHandler(overviewSvc, logger))
			r.Get("/admin/integration", integrationSnapshotHandler(overviewSvc, logger))
		})
	})

	return r
}

// healthzHandler reports BFF liveness plus upstream reachability as
// seen by the connectivity probe.
func healthzHandler(probe *hospital.Probe) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		upstream := "reachable"
		status := "healthy"
		if err := probe.Check(r.Context()); err != nil {
			upstream = "unreachable"
			status = "degraded"
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"status":    status,
			"upstream":  upstream,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
