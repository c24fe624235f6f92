package controllers

import (
	"net/http"

	h "newsletterapi/internal/delivery/http/helpers"
)

type HealthController struct{}

func NewHealthController() *HealthController {
	return &HealthController{}
}

// Check godoc
// @Summary Liveness probe
// @Description Returns 200 with an empty body whenever the process is serving requests.
// @Tags health
// @Success 200 "empty body"
// @Router /health [get]
func (c *HealthController) Check(w http.ResponseWriter, r *http.Request) {
	h.WriteEmpty(w, http.StatusOK)
}
