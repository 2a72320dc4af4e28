package handler

import (
	"context"
	"net/http"

	"github.com/ricirt/accounts-api/internal/domain"
)

// HealthChecker is satisfied by *health.Checker.
type HealthChecker interface {
	Check(ctx context.Context) domain.HealthStatus
}

// HealthHandler serves the liveness probe endpoint.
type HealthHandler struct {
	checker HealthChecker
}

// NewHealthHandler serves GET /health from checker.
func NewHealthHandler(checker HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// Health handles GET /health
//
// @Summary  Liveness probe including a database round trip
// @Tags     system
// @Produce  json
// @Success  200  {object}  domain.HealthStatus
// @Failure  503  {object}  domain.HealthStatus
// @Router   /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	hs := h.checker.Check(r.Context())
	respondJSON(w, hs.HTTPStatus(), hs)
}
