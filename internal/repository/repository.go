package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ricirt/accounts-api/internal/domain"
)

// UserRepository defines persistence operations for users and their role links.
// The pgx implementation is in pg_user_repo.go; tests use the in-memory mocks
// in mock_repo.go.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	AddRole(ctx context.Context, userID, roleID uuid.UUID) error
}

// RoleRepository defines persistence operations for roles.
type RoleRepository interface {
	Create(ctx context.Context, r *domain.Role) error
	GetByName(ctx context.Context, name string) (*domain.Role, error)
}
