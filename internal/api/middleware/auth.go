package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ricirt/accounts-api/internal/domain"
)

const userKey contextKey = "user"

// Authenticator resolves a bearer token to a user.
// *service.UserService implements it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// AuthFailureObserver is told why a request was rejected.
type AuthFailureObserver func(reason string)

// Authenticate gates every route it wraps behind a valid bearer token.
// Routes that must stay reachable without credentials, such as /health,
// are registered outside the group this middleware is attached to.
func Authenticate(a Authenticator, logger *zap.Logger, observe AuthFailureObserver) func(http.Handler) http.Handler {
	reject := func(w http.ResponseWriter, reason, msg string) {
		if observe != nil {
			observe(reason)
		}
		writeError(w, http.StatusUnauthorized, msg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				reject(w, "missing_header", "missing authorization header")
				return
			}

			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				reject(w, "malformed_header", "invalid authorization header format")
				return
			}

			u, err := a.Authenticate(r.Context(), token)
			if err != nil {
				if !errors.Is(err, domain.ErrUnauthorized) {
					logger.Error("authentication lookup failed",
						zap.String("correlation_id", GetCorrelationID(r.Context())),
						zap.Error(err),
					)
					writeError(w, http.StatusInternalServerError, "internal server error")
					return
				}
				reject(w, "invalid_token", "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

// RequireRole rejects authenticated users that lack the named role.
// It must be mounted after Authenticate.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := UserFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, domain.ErrUnauthorized.Error())
				return
			}
			if !u.HasRole(role) {
				writeError(w, http.StatusForbidden, domain.ErrForbidden.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithUser stores the authenticated user on ctx.
func WithUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext returns the user stored by Authenticate.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userKey).(*domain.User)
	return u, ok && u != nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
