package http

import (
	"log/slog"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"newsletterapi/internal/delivery/http/controllers"
	"newsletterapi/internal/delivery/http/middleware"
	"newsletterapi/internal/domain"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Health       *controllers.HealthController
	Subscription *controllers.SubscriptionController
	Admin        *controllers.AdminController
	Newsletter   *controllers.NewsletterController
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(c Controllers, authenticator domain.AdminAuthenticator, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(authenticator, logger)

	// Health
	mux.HandleFunc("GET /health", c.Health.Check)
	mux.HandleFunc("GET /health_check", c.Health.Check)

	// Subscriptions
	mux.HandleFunc("POST /subscriptions", c.Subscription.Subscribe)
	mux.HandleFunc("GET /subscriptions/confirm", c.Subscription.Confirm)

	// Admin
	mux.HandleFunc("POST /admin/login", c.Admin.Login)
	mux.HandleFunc("POST /newsletters", requireAuth(c.Newsletter.Publish))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// NewHandler wraps the router with the middleware chain:
// request id -> request timeout -> CORS -> logging.
func NewHandler(router http.Handler, logger *slog.Logger, requestTimeout time.Duration, allowedOrigins []string) http.Handler {
	handler := middleware.LoggingMiddleware(logger, router)
	handler = middleware.CORS(allowedOrigins, handler)
	handler = middleware.Timeout(requestTimeout, handler)
	return middleware.RequestID(handler)
}
