package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ricirt/accounts-api/internal/auth"
	"github.com/ricirt/accounts-api/internal/domain"
	"github.com/ricirt/accounts-api/internal/repository"
)

// TokenIssuer is the token side of auth.TokenManager the service depends on.
type TokenIssuer interface {
	GenerateAccessToken(u *domain.User) (string, error)
	ValidateToken(token string) (*auth.Claims, error)
}

// UserService owns user accounts, their roles and access tokens.
type UserService struct {
	users  repository.UserRepository
	roles  repository.RoleRepository
	tokens TokenIssuer
	logger *zap.Logger
}

func NewUserService(
	users repository.UserRepository,
	roles repository.RoleRepository,
	tokens TokenIssuer,
	logger *zap.Logger,
) *UserService {
	return &UserService{users: users, roles: roles, tokens: tokens, logger: logger}
}

// CreateUser validates and persists a new user without any roles.
func (s *UserService) CreateUser(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u := &domain.User{
		ID:        uuid.New(),
		Email:     req.Email,
		Username:  req.Username,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("user created", zap.String("user_id", u.ID.String()))
	return u, nil
}

// EnsureRole returns the role with the given name, creating it when absent.
func (s *UserService) EnsureRole(ctx context.Context, name string) (*domain.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidRoleName
	}

	role, err := s.roles.GetByName(ctx, name)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	role = &domain.Role{ID: uuid.New(), Name: name, CreatedAt: time.Now().UTC()}
	if err := s.roles.Create(ctx, role); err != nil {
		// Lost a race with a concurrent creator: read the winner back.
		if errors.Is(err, domain.ErrConflict) {
			return s.roles.GetByName(ctx, name)
		}
		return nil, err
	}
	return role, nil
}

// AssignRole links the named role to the user and returns the reloaded user.
func (s *UserService) AssignRole(ctx context.Context, userID uuid.UUID, roleName string) (*domain.User, error) {
	role, err := s.EnsureRole(ctx, roleName)
	if err != nil {
		return nil, err
	}
	if err := s.users.AddRole(ctx, userID, role.ID); err != nil {
		return nil, err
	}

	s.logger.Info("role assigned",
		zap.String("user_id", userID.String()),
		zap.String("role", role.Name),
	)
	return s.users.GetByID(ctx, userID)
}

// GenerateAccessToken issues a bearer token for the user.
func (s *UserService) GenerateAccessToken(u *domain.User) (string, error) {
	return s.tokens.GenerateAccessToken(u)
}

// Authenticate validates a bearer token and loads the user it was issued to.
// Any token or lookup problem is reported as domain.ErrUnauthorized.
func (s *UserService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed subject", domain.ErrUnauthorized)
	}

	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: unknown user", domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}
