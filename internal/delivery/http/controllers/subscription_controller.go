package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	h "newsletterapi/internal/delivery/http/helpers"
	"newsletterapi/internal/delivery/http/middleware"
	"newsletterapi/internal/domain"
	"newsletterapi/internal/services"
)

// maxFormBody caps urlencoded subscription forms.
const maxFormBody = 64 << 10

type SubscriptionController struct {
	Logger  *slog.Logger
	Service domain.SubscriptionService
}

func NewSubscriptionController(logger *slog.Logger, svc domain.SubscriptionService) *SubscriptionController {
	return &SubscriptionController{
		Logger:  logger,
		Service: svc,
	}
}

// Subscribe godoc
// @Summary Subscribe to the newsletter
// @Description Registers a pending subscriber and mails a confirmation link. Re-subscribing with a pending email mails a fresh link.
// @Tags subscriptions
// @Accept x-www-form-urlencoded
// @Produce json
// @Param name formData string true "Subscriber name"
// @Param email formData string true "Subscriber email"
// @Success 200 "empty body"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /subscriptions [post]
func (c *SubscriptionController) Subscribe(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBody)
	if err := r.ParseForm(); err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid form body")
		return
	}
	names, hasName := r.PostForm["name"]
	emails, hasEmail := r.PostForm["email"]
	if !hasName || !hasEmail {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "name and email are required")
		return
	}

	err := c.Service.Subscribe(r.Context(), domain.SubscribeInput{Name: names[0], Email: emails[0]})
	switch {
	case err == nil:
		h.WriteEmpty(w, http.StatusOK)
	case errors.Is(err, domain.ErrInvalidInput):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrAlreadySubscribed):
		h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "email is already subscribed")
	default:
		c.fail(w, r, err)
	}
}

// Confirm godoc
// @Summary Confirm a subscription
// @Description Marks the subscriber owning the token as confirmed. Confirming twice succeeds.
// @Tags subscriptions
// @Produce json
// @Param subscription_token query string true "Token from the confirmation email"
// @Success 200 "empty body"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /subscriptions/confirm [get]
func (c *SubscriptionController) Confirm(w http.ResponseWriter, r *http.Request) {
	tokens, ok := r.URL.Query()[services.SubscriptionTokenParam]
	if !ok || tokens[0] == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "subscription_token is required")
		return
	}

	err := c.Service.Confirm(r.Context(), tokens[0])
	switch {
	case err == nil:
		h.WriteEmpty(w, http.StatusOK)
	case errors.Is(err, domain.ErrUnknownToken):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "unknown subscription token")
	default:
		c.fail(w, r, err)
	}
}

func (c *SubscriptionController) fail(w http.ResponseWriter, r *http.Request, err error) {
	c.Logger.ErrorContext(r.Context(), "request failed",
		"path", r.URL.Path,
		"method", r.Method,
		"request_id", middleware.RequestIDFromContext(r.Context()),
		"err", err,
	)
	h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "something went wrong")
}
