package middleware

import (
	"context"
	"net/http"
	"time"
)

// Timeout attaches a deadline to every request context, bounding downstream work such as
// waiting for a database connection. A non-positive d disables it.
func Timeout(d time.Duration, next http.Handler) http.Handler {
	if d <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), d)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
