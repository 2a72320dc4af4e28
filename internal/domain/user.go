package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Well-known role names.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account that can authenticate against the API.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Roles     []Role    `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasRole reports whether the user holds a role with the given name.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// RoleNames returns the names of the user's roles in assignment order.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// Role is a named permission set. Users and roles are linked through UserRole.
type Role struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// UserRole is a row of the user_roles join table.
type UserRole struct {
	UserID    uuid.UUID `json:"user_id"`
	RoleID    uuid.UUID `json:"role_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateUserRequest is the input accepted by the user service.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Validate normalises the request in place and checks required fields.
func (r *CreateUserRequest) Validate() error {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	r.Username = strings.TrimSpace(r.Username)
	if r.Email == "" {
		return ErrInvalidEmail
	}
	if r.Username == "" {
		r.Username = strings.SplitN(r.Email, "@", 2)[0]
	}
	return nil
}
