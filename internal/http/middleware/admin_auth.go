package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/diagnosis/syllatech-api/internal/http/response"
	"github.com/diagnosis/syllatech-api/pkg/logger"
)

// AdminAuthenticator is implemented by service.AdminService.
type AdminAuthenticator interface {
	Authenticate(ctx context.Context, key string) (bool, error)
	AuthenticateSession(ctx context.Context, token string) (bool, error)
}

// RequireAdmin accepts either the shared secret in X-API-Key or a bearer
// session token issued by POST /admin/session.
func RequireAdmin(auth AdminAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key := r.Header.Get("X-API-Key"); key != "" {
				ok, err := auth.Authenticate(r.Context(), key)
				if err != nil {
					logger.ErrorContext(r.Context(), "admin auth failed", "error", err)
					response.InternalError(w, "Internal server error")
					return
				}
				if ok {
					next.ServeHTTP(w, r)
					return
				}
				response.Unauthorized(w, "Unauthorized")
				return
			}

			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				response.Unauthorized(w, "Unauthorized")
				return
			}
			ok, err := auth.AuthenticateSession(r.Context(), strings.TrimPrefix(authz, "Bearer "))
			if err != nil {
				logger.ErrorContext(r.Context(), "admin session check failed", "error", err)
				response.InternalError(w, "Internal server error")
				return
			}
			if !ok {
				response.Unauthorized(w, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdminKey only accepts the shared secret. Sessions are minted from
// it, so a session cannot be used to mint another one.
func RequireAdminKey(auth AdminAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, err := auth.Authenticate(r.Context(), r.Header.Get("X-API-Key"))
			if err != nil {
				logger.ErrorContext(r.Context(), "admin auth failed", "error", err)
				response.InternalError(w, "Internal server error")
				return
			}
			if !ok {
				response.Unauthorized(w, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
