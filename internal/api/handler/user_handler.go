package handler

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	apimw "github.com/ricirt/accounts-api/internal/api/middleware"
	"github.com/ricirt/accounts-api/internal/domain"
)

// UserLister is the part of service.UserService the handler needs.
type UserLister interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)
}

// UserHandler serves account endpoints behind the authentication gate.
type UserHandler struct {
	users  UserLister
	logger *zap.Logger
}

// NewUserHandler builds the handler for /api/v1 account routes.
func NewUserHandler(users UserLister, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// Me handles GET /api/v1/me
//
// @Summary  Current user with roles
// @Tags     users
// @Produce  json
// @Security BearerAuth
// @Success  200  {object}  domain.User
// @Failure  401  {object}  map[string]string
// @Router   /api/v1/me [get]
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := apimw.UserFromContext(r.Context())
	if !ok {
		mapError(w, domain.ErrUnauthorized)
		return
	}
	respondJSON(w, http.StatusOK, u)
}

// List handles GET /api/v1/users
//
// @Summary  List all users (admin only)
// @Tags     users
// @Produce  json
// @Security BearerAuth
// @Success  200  {object}  map[string]any
// @Failure  403  {object}  map[string]string
// @Router   /api/v1/users [get]
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("list users failed", zap.Error(err))
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"data":  users,
		"total": len(users),
	})
}
