// Package authhelper provides fixtures for request-level tests that need
// authenticated callers. Each test builds its own Helper with New; nothing
// is registered globally.
package authhelper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ricirt/accounts-api/internal/domain"
)

// Accounts is the slice of service.UserService the helper drives.
type Accounts interface {
	CreateUser(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error)
	AssignRole(ctx context.Context, userID uuid.UUID, roleName string) (*domain.User, error)
	EnsureRole(ctx context.Context, name string) (*domain.Role, error)
	GenerateAccessToken(u *domain.User) (string, error)
}

// Helper builds persisted users, roles and credentials for a single test.
type Helper struct {
	t        testing.TB
	accounts Accounts
}

// New binds a Helper to t; any setup failure fails t.
func New(t testing.TB, accounts Accounts) *Helper {
	t.Helper()
	return &Helper{t: t, accounts: accounts}
}

// AuthHeaders returns a header set carrying only "Authorization: Bearer <token>"
// for a freshly generated access token of u.
func (h *Helper) AuthHeaders(u *domain.User) http.Header {
	h.t.Helper()
	token, err := h.accounts.GenerateAccessToken(u)
	require.NoError(h.t, err, "generate access token")
	return http.Header{"Authorization": []string{"Bearer " + token}}
}

// AuthenticatedUser persists a new user holding the "user" role.
func (h *Helper) AuthenticatedUser() *domain.User {
	h.t.Helper()
	return h.userWithRole(domain.RoleUser)
}

// AdminUser persists a new user holding the "admin" role.
func (h *Helper) AdminUser() *domain.User {
	h.t.Helper()
	return h.userWithRole(domain.RoleAdmin)
}

// NewUser persists a user with unique defaults and no roles.
func (h *Helper) NewUser() *domain.User {
	h.t.Helper()
	suffix := uuid.NewString()[:8]
	u, err := h.accounts.CreateUser(context.Background(), domain.CreateUserRequest{
		Email:    fmt.Sprintf("user-%s@example.test", suffix),
		Username: "user-" + suffix,
	})
	require.NoError(h.t, err, "create user")
	return u
}

// NewRole returns the persisted role with the given name, creating it if needed.
func (h *Helper) NewRole(name string) *domain.Role {
	h.t.Helper()
	role, err := h.accounts.EnsureRole(context.Background(), name)
	require.NoError(h.t, err, "create role %q", name)
	return role
}

func (h *Helper) userWithRole(role string) *domain.User {
	h.t.Helper()
	u := h.NewUser()
	u, err := h.accounts.AssignRole(context.Background(), u.ID, role)
	require.NoError(h.t, err, "assign role %q", role)
	return u
}

// NewRequest builds a request authenticated as u; a nil u sends no credentials.
func (h *Helper) NewRequest(method, target string, u *domain.User) *http.Request {
	h.t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if u != nil {
		for k, vs := range h.AuthHeaders(u) {
			req.Header[k] = vs
		}
	}
	return req
}
