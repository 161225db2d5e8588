package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"filetrack/internal/platform/token"
	id "filetrack/pkg/domain"
	"filetrack/pkg/requestcontext"
)

// TokenValidator validates bearer tokens issued by the external identity
// collaborator. This module never authenticates; it only records the actor.
type TokenValidator interface {
	ValidateToken(tokenString string) (*token.Claims, error)
}

// RequireAuth extracts the acting user from the Authorization header and puts
// it on the request context. Requests without a valid bearer token get 401.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const bearerPrefix = "Bearer "
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
			if !ok {
				unauthorized(w, r, logger, "missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(raw)
			if err != nil {
				unauthorized(w, r, logger, "invalid or expired token")
				return
			}

			actorID, err := id.ParseUserID(claims.UserID)
			if err != nil {
				unauthorized(w, r, logger, "token carries no usable actor id")
				return
			}

			ctx := requestcontext.WithActorID(r.Context(), actorID)
			if claims.OfficeID != "" {
				if officeID, err := id.ParseOfficeID(claims.OfficeID); err == nil {
					ctx = requestcontext.WithActingOfficeID(ctx, officeID)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request, logger *slog.Logger, reason string) {
	logger.WarnContext(r.Context(), "unauthorized access",
		"reason", reason,
		"request_id", requestcontext.RequestID(r.Context()),
	)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
}
