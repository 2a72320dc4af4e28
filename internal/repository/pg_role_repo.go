package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ricirt/accounts-api/internal/domain"
)

type pgRoleRepository struct {
	pool *pgxpool.Pool
}

// NewPgRoleRepository returns a RoleRepository backed by PostgreSQL.
func NewPgRoleRepository(pool *pgxpool.Pool) RoleRepository {
	return &pgRoleRepository{pool: pool}
}

func (r *pgRoleRepository) Create(ctx context.Context, role *domain.Role) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO roles (id, name, created_at) VALUES ($1,$2,$3)`,
		role.ID, role.Name, role.CreatedAt,
	)
	return translatePgError(err, "insert role", map[string]error{
		pgerrcode.UniqueViolation: domain.ErrConflict,
	})
}

func (r *pgRoleRepository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	var role domain.Role
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, created_at FROM roles WHERE name = $1`, name,
	).Scan(&role.ID, &role.Name, &role.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get role: %w", err)
	}
	return &role, nil
}
