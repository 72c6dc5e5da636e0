package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/hospvida/hospital-admin-bff/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ============================================================
// Shared helper functions
// ============================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeEnvelope serializes a result envelope, deriving the HTTP status
// from the envelope itself. The envelope's Status field keeps the
// upstream status (or 0 when the upstream was never reached); the HTTP
// layer maps that onto a BFF status.
func writeEnvelope(w http.ResponseWriter, env *domain.Envelope) {
	writeJSON(w, httpStatusFor(env), env)
}

func httpStatusFor(env *domain.Envelope) int {
	if env.Status >= 100 {
		return env.Status
	}
	// the upstream was never reached; status comes from the error kind
	if env.Details == nil {
		return http.StatusInternalServerError
	}
	switch env.Details.Kind {
	case domain.KindNetwork, domain.KindCORS, domain.KindAPI:
		return http.StatusBadGateway
	case domain.KindTimeout:
		return http.StatusGatewayTimeout
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindAuthentication:
		return http.StatusUnauthorized
	case domain.KindAuthorization:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// writeData wraps locally produced data in a success envelope.
func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, &domain.Envelope{
		Success:   true,
		Data:      data,
		Status:    status,
		RequestID: uuid.New().String(),
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// writeError emits a locally produced failure in the same envelope
// shape the integration layer uses, so clients parse one format only.
func writeError(w http.ResponseWriter, status int, kind domain.ErrorKind, msg string) {
	writeJSON(w, status, &domain.Envelope{
		Success:   false,
		Error:     msg,
		Status:    status,
		RequestID: uuid.New().String(),
		Timestamp: time.Now().Format(time.RFC3339),
		Details:   &domain.ErrorDetails{Kind: kind},
	})
}

// handleServiceError maps domain errors from the auth service to HTTP
// responses.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var unauthorized *domain.ErrUnauthorized
	var validation *domain.ErrValidation

	switch {
	case errors.As(err, &unauthorized):
		logger.Warn("unauthorized", zap.String("error", err.Error()))
		writeError(w, http.StatusUnauthorized, domain.KindAuthentication, err.Error())
	case errors.As(err, &validation):
		logger.Debug("validation error", zap.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, domain.KindValidation, err.Error())
	default:
		logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, domain.KindUnknown, "Ocorreu um erro inesperado.")
	}
}
