package handler

import (
	"encoding/json"
	"net/http"

	"github.com/hospvida/hospital-admin-bff/internal/domain"
	"github.com/hospvida/hospital-admin-bff/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Autenticação e painel administrativo — /v1/admin
// ============================================================

func adminLoginHandler(svc *service.AuthService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/admin/login")
		defer span.End()

		var req domain.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, domain.KindValidation, "Corpo da requisição inválido")
			return
		}
		if req.Username == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, domain.KindValidation, "Usuário e senha são obrigatórios")
			return
		}

		resp, err := svc.Login(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, http.StatusOK, resp)
	}
}

func overviewHandler(svc *service.OverviewService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/overview")
		defer span.End()

		writeEnvelope(w, svc.Get(ctx))
	}
}

func integrationSnapshotHandler(svc *service.OverviewService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/admin/integration")
		defer span.End()

		writeEnvelope(w, svc.GetIntegrationSnapshot(ctx))
	}
}
