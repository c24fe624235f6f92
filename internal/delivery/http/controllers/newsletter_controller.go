package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	h "newsletterapi/internal/delivery/http/helpers"
	"newsletterapi/internal/delivery/http/middleware"
	"newsletterapi/internal/domain"
)

// NewsletterContent holds both renderings of an issue.
type NewsletterContent struct {
	HTML string `json:"html" validate:"required"`
	Text string `json:"text" validate:"required"`
}

// PublishNewsletterRequest is the request body for POST /newsletters
type PublishNewsletterRequest struct {
	Title   string            `json:"title" validate:"required,max=998"`
	Content NewsletterContent `json:"content"`
}

type NewsletterController struct {
	Logger  *slog.Logger
	Service domain.NewsletterService
}

func NewNewsletterController(logger *slog.Logger, svc domain.NewsletterService) *NewsletterController {
	return &NewsletterController{
		Logger:  logger,
		Service: svc,
	}
}

// Publish godoc
// @Summary Publish a newsletter issue
// @Description Sends the issue to every confirmed subscriber. Requires an admin Bearer token.
// @Tags newsletters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body PublishNewsletterRequest true "Newsletter issue"
// @Success 200 {object} helpers.APIResponse "data contains recipients and skipped counts"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /newsletters [post]
func (c *NewsletterController) Publish(w http.ResponseWriter, r *http.Request) {
	var req PublishNewsletterRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	adminID, _ := middleware.AdminIDFromContext(r.Context())

	// Publication may run past the server write timeout; the result still has to reach the admin.
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		c.Logger.WarnContext(r.Context(), "failed to clear write deadline", "err", err)
	}

	result, err := c.Service.Publish(r.Context(), domain.NewsletterIssue{
		Title:       req.Title,
		HTMLContent: req.Content.HTML,
		TextContent: req.Content.Text,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidNewsletter) {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "newsletter publication failed",
			"admin_id", adminID,
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"err", err,
		)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "failed to publish newsletter")
		return
	}

	c.Logger.InfoContext(r.Context(), "newsletter published", "admin_id", adminID, "recipients", result.Recipients)
	h.WriteJSONSuccess(w, http.StatusOK, result)
}
