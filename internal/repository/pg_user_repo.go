package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ricirt/accounts-api/internal/domain"
)

type pgUserRepository struct {
	pool *pgxpool.Pool
}

// NewPgUserRepository returns a UserRepository backed by PostgreSQL.
func NewPgUserRepository(pool *pgxpool.Pool) UserRepository {
	return &pgUserRepository{pool: pool}
}

func (r *pgUserRepository) Create(ctx context.Context, u *domain.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, email, username, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5)`,
		u.ID, u.Email, u.Username, u.CreatedAt, u.UpdatedAt,
	)
	return translatePgError(err, "insert user", map[string]error{
		pgerrcode.UniqueViolation: domain.ErrConflict,
	})
}

func (r *pgUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, username, created_at, updated_at
		FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Email, &u.Username, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	roles, err := r.rolesFor(ctx, []uuid.UUID{u.ID})
	if err != nil {
		return nil, err
	}
	u.Roles = roles[u.ID]
	return &u, nil
}

func (r *pgUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, email, username, created_at, updated_at
		FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var (
		users []*domain.User
		ids   []uuid.UUID
	)
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Username, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, &u)
		ids = append(ids, u.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	if len(users) == 0 {
		return users, nil
	}

	roles, err := r.rolesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		u.Roles = roles[u.ID]
	}
	return users, nil
}

func (r *pgUserRepository) AddRole(ctx context.Context, userID, roleID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_roles (user_id, role_id, created_at)
		VALUES ($1,$2,now())`, userID, roleID)
	return translatePgError(err, "insert user role", userRoleErrors)
}

// rolesFor loads the roles of every given user in a single query.
func (r *pgUserRepository) rolesFor(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID][]domain.Role, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT ur.user_id, ro.id, ro.name, ro.created_at
		FROM user_roles ur
		JOIN roles ro ON ro.id = ur.role_id
		WHERE ur.user_id = ANY($1)
		ORDER BY ur.created_at, ro.name`, userIDs)
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]domain.Role, len(userIDs))
	for rows.Next() {
		var (
			userID uuid.UUID
			role   domain.Role
		)
		if err := rows.Scan(&userID, &role.ID, &role.Name, &role.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		out[userID] = append(out[userID], role)
	}
	return out, rows.Err()
}
