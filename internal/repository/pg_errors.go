package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ricirt/accounts-api/internal/domain"
)

// userRoleErrors maps constraint failures on the user_roles insert.
var userRoleErrors = map[string]error{
	pgerrcode.UniqueViolation:     domain.ErrRoleAlreadyGiven,
	pgerrcode.ForeignKeyViolation: domain.ErrNotFound,
}

// translatePgError returns nil for nil, the domain error registered for the
// PostgreSQL SQLSTATE of err, or err wrapped with op.
func translatePgError(err error, op string, byCode map[string]error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if mapped, ok := byCode[pgErr.Code]; ok {
			return mapped
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
