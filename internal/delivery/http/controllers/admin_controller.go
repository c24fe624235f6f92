package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	h "newsletterapi/internal/delivery/http/helpers"
	"newsletterapi/internal/delivery/http/middleware"
	"newsletterapi/internal/domain"
)

// LoginRequest is the request body for POST /admin/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the response body for POST /admin/login
type LoginResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
}

type AdminController struct {
	Logger  *slog.Logger
	Service domain.AdminService
}

func NewAdminController(logger *slog.Logger, svc domain.AdminService) *AdminController {
	return &AdminController{
		Logger:  logger,
		Service: svc,
	}
}

// Login godoc
// @Summary Log in as administrator
// @Description Authenticate with email and password. Returns a JWT for publishing newsletters.
// @Tags admin
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} helpers.APIResponse "data contains token and token_type"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/login [post]
func (c *AdminController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	token, err := c.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid credentials")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path,
			"method", r.Method,
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"err", err,
		)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "something went wrong")
		return
	}

	h.WriteJSONSuccess(w, http.StatusOK, LoginResponse{Token: token, TokenType: "Bearer"})
}
