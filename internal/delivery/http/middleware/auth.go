package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "newsletterapi/internal/delivery/http/helpers"
	"newsletterapi/internal/domain"
)

type contextKey string

const adminIDKey contextKey = "adminID"

// SetAdminID returns a context carrying the authenticated administrator's user ID.
func SetAdminID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, adminIDKey, userID)
}

// AdminIDFromContext returns the authenticated administrator's user ID, if present.
func AdminIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(adminIDKey).(string)
	return id, ok
}

// RequireAuth returns a wrapper that accepts only requests carrying a valid admin Bearer token.
// Rejected requests get 401 and never reach next; lookup failures get 500.
func RequireAuth(authenticator domain.AdminAuthenticator, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authorization header")
				return
			}
			scheme, token, found := strings.Cut(header, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid authorization format")
				return
			}
			token = strings.TrimSpace(token)
			if token == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing token")
				return
			}
			user, err := authenticator.Authenticate(r.Context(), token)
			if err != nil {
				if !errors.Is(err, domain.ErrInvalidCredentials) {
					logger.ErrorContext(r.Context(), "failed to authenticate bearer token",
						"request_id", RequestIDFromContext(r.Context()),
						"err", err,
					)
					h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "something went wrong")
					return
				}
				logger.InfoContext(r.Context(), "rejected bearer token",
					"path", r.URL.Path,
					"request_id", RequestIDFromContext(r.Context()),
					"err", err,
				)
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			next(w, r.WithContext(SetAdminID(r.Context(), user.ID)))
		}
	}
}
