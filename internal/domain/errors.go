package domain

import "errors"

// Sentinel errors used throughout the application.
// Handlers translate these to HTTP status codes via a single mapError function.
var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict: resource already exists")
	ErrInvalidEmail     = errors.New("email must not be empty")
	ErrInvalidRoleName  = errors.New("role name must not be empty")
	ErrRoleAlreadyGiven = errors.New("user already has this role")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
)
