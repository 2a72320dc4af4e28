package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ricirt/accounts-api/internal/domain"
)

// MockRoleRepository is a hand-written, in-memory RoleRepository used in tests.
type MockRoleRepository struct {
	mu    sync.RWMutex
	roles map[uuid.UUID]*domain.Role

	// Optional error overrides, set in tests to simulate failure paths.
	CreateErr    error
	GetByNameErr error
}

func NewMockRoleRepository() *MockRoleRepository {
	return &MockRoleRepository{roles: make(map[uuid.UUID]*domain.Role)}
}

func (m *MockRoleRepository) Create(_ context.Context, r *domain.Role) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.roles {
		if existing.Name == r.Name {
			return domain.ErrConflict
		}
	}
	clone := *r
	m.roles[r.ID] = &clone
	return nil
}

func (m *MockRoleRepository) GetByName(_ context.Context, name string) (*domain.Role, error) {
	if m.GetByNameErr != nil {
		return nil, m.GetByNameErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.roles {
		if r.Name == name {
			clone := *r
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockRoleRepository) get(id uuid.UUID) (domain.Role, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.roles[id]
	if !ok {
		return domain.Role{}, false
	}
	return *r, true
}

// MockUserRepository is a hand-written, in-memory UserRepository used in tests.
// Role links are resolved against the MockRoleRepository it was built with.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*domain.User
	links []domain.UserRole
	roles *MockRoleRepository

	CreateErr  error
	GetByIDErr error
	AddRoleErr error
}

func NewMockUserRepository(roles *MockRoleRepository) *MockUserRepository {
	return &MockUserRepository{
		users: make(map[uuid.UUID]*domain.User),
		roles: roles,
	}
}

func (m *MockUserRepository) Create(_ context.Context, u *domain.User) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return domain.ErrConflict
		}
	}
	clone := *u
	clone.Roles = nil
	m.users[u.ID] = &clone
	return nil
}

func (m *MockUserRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDErr != nil {
		return nil, m.GetByIDErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return m.withRoles(u), nil
}

func (m *MockUserRepository) List(_ context.Context) ([]*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		result = append(result, m.withRoles(u))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID.String() < result[j].ID.String()
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (m *MockUserRepository) AddRole(_ context.Context, userID, roleID uuid.UUID) error {
	if m.AddRoleErr != nil {
		return m.AddRoleErr
	}
	if _, ok := m.roles.get(roleID); !ok {
		return domain.ErrNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[userID]; !ok {
		return domain.ErrNotFound
	}
	for _, l := range m.links {
		if l.UserID == userID && l.RoleID == roleID {
			return domain.ErrRoleAlreadyGiven
		}
	}
	m.links = append(m.links, domain.UserRole{UserID: userID, RoleID: roleID, CreatedAt: time.Now().UTC()})
	return nil
}

// withRoles must be called with m.mu held.
func (m *MockUserRepository) withRoles(u *domain.User) *domain.User {
	clone := *u
	clone.Roles = nil
	for _, l := range m.links {
		if l.UserID != u.ID {
			continue
		}
		if r, ok := m.roles.get(l.RoleID); ok {
			clone.Roles = append(clone.Roles, r)
		}
	}
	return &clone
}
