package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/hospvida/hospital-admin-bff/internal/domain"
	"github.com/hospvida/hospital-admin-bff/internal/service"

	"go.uber.org/zap"
)

type contextKey string

const adminUserKey contextKey = "adminUser"

// AdminAuthMiddleware validates Bearer tokens and injects the admin
// username into context. Protects the destructive routes and the admin
// panel.
func AdminAuthMiddleware(authSvc *service.AuthService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("auth: missing token",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				writeError(w, http.StatusUnauthorized, domain.KindAuthentication, "Token de autenticação não fornecido")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeError(w, http.StatusUnauthorized, domain.KindAuthentication, "Formato de token inválido")
				return
			}

			username, err := authSvc.ValidateToken(parts[1])
			if err != nil {
				logger.Warn("auth: invalid or expired token",
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				writeError(w, http.StatusUnauthorized, domain.KindAuthentication, "Sessão inválida ou expirada")
				return
			}

			ctx := context.WithValue(r.Context(), adminUserKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminFromContext extracts the authenticated admin username.
func AdminFromContext(ctx context.Context) string {
	v, _ := ctx.Value(adminUserKey).(string)
	return v
}
