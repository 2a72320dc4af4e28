package middleware_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ricirt/accounts-api/internal/api/middleware"
	"github.com/ricirt/accounts-api/internal/domain"
)

type stubAuthenticator struct {
	users map[string]*domain.User
	err   error
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[token]
	if !ok {
		return nil, fmt.Errorf("%w: unknown token", domain.ErrUnauthorized)
	}
	return u, nil
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UserFromContext(r.Context())
	w.WriteHeader(http.StatusOK)
	if u != nil {
		_, _ = w.Write([]byte(u.Email))
	}
}

func TestAuthenticate(t *testing.T) {
	alice := &domain.User{ID: uuid.New(), Email: "alice@example.com"}
	auth := &stubAuthenticator{users: map[string]*domain.User{"good": alice}}

	var reasons []string
	h := middleware.Authenticate(auth, zap.NewNop(), func(r string) { reasons = append(reasons, r) })(http.HandlerFunc(okHandler))

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantBody string
	}{
		{"missing header", "", http.StatusUnauthorized, "missing authorization header"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "invalid authorization header format"},
		{"no token", "Bearer", http.StatusUnauthorized, "invalid authorization header format"},
		{"unknown token", "Bearer bad", http.StatusUnauthorized, "invalid token"},
		{"valid token", "Bearer good", http.StatusOK, "alice@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
	assert.Equal(t, []string{"missing_header", "malformed_header", "malformed_header", "invalid_token"}, reasons)
}

func TestAuthenticate_LookupFailureIs500(t *testing.T) {
	auth := &stubAuthenticator{err: errors.New("db down")}
	h := middleware.Authenticate(auth, zap.NewNop(), nil)(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequireRole(t *testing.T) {
	h := middleware.RequireRole(domain.RoleAdmin)(http.HandlerFunc(okHandler))

	serve := func(u *domain.User) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
		if u != nil {
			req = req.WithContext(middleware.WithUser(req.Context(), u))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, serve(nil))
	assert.Equal(t, http.StatusForbidden, serve(&domain.User{Roles: []domain.Role{{Name: domain.RoleUser}}}))
	assert.Equal(t, http.StatusOK, serve(&domain.User{Roles: []domain.Role{{Name: domain.RoleAdmin}}}))
}

type countingLimiter struct {
	allowed int
	keys    []string
}

func (c *countingLimiter) Allow(key string) bool {
	c.keys = append(c.keys, key)
	c.allowed--
	return c.allowed >= 0
}

func TestRateLimit(t *testing.T) {
	l := &countingLimiter{allowed: 1}
	h := middleware.RateLimit(l)(http.HandlerFunc(okHandler))

	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.7:51234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, want, rec.Code, "request %d", i)
	}
	assert.Equal(t, []string{"192.0.2.7", "192.0.2.7"}, l.keys)
}

func TestCorrelationID(t *testing.T) {
	var seen string
	h := middleware.CorrelationID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = middleware.GetCorrelationID(r.Context())
	}))

	t.Run("echoes caller id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.CorrelationIDHeader, "req-42")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "req-42", seen)
		assert.Equal(t, "req-42", rec.Header().Get(middleware.CorrelationIDHeader))
	})

	t.Run("replaces unusable id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.CorrelationIDHeader, strings.Repeat("x", 200))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		_, err := uuid.Parse(seen)
		assert.NoError(t, err)
		assert.Equal(t, seen, rec.Header().Get(middleware.CorrelationIDHeader))
	})
}
