package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	dErrors "github.com/BikashBaishnab/horibol-website-sub000/pkg/domain-errors"
	"github.com/BikashBaishnab/horibol-website-sub000/pkg/platform/httputil"
)

// TokenValidator validates bearer tokens for the admin surface.
type TokenValidator interface {
	ValidateToken(tokenString string) (*TokenClaims, error)
}

// TokenClaims is the subset of JWT claims the middleware cares about.
type TokenClaims struct {
	Subject string
	Role    string
}

type contextKeyAdminSubject struct{}

// ContextKeyAdminSubject is exported for handlers and tests.
var ContextKeyAdminSubject = contextKeyAdminSubject{}

// GetAdminSubject retrieves the authenticated admin subject from the context.
func GetAdminSubject(ctx context.Context) string {
	sub, ok := ctx.Value(ContextKeyAdminSubject).(string)
	if !ok {
		return ""
	}
	return sub
}

// RequireAdmin guards admin routes with a bearer token carrying role=admin.
func RequireAdmin(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
			if !ok || token == "" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing bearer token"))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(r.Context(), "unauthorized admin access - invalid token",
					"error", err,
					"request_id", GetRequestID(r.Context()),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid token"))
				return
			}
			if claims.Role != "admin" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "admin role required"))
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyAdminSubject, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
