package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/signupflow/backend/internal/domain"
)

// memoryUserRepository is the reference volatile store: a keyed map guarded
// by a RWMutex.
type memoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewMemoryUsers() Users {
	return &memoryUserRepository{
		users: make(map[string]domain.User),
	}
}

func (r *memoryUserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}

func (r *memoryUserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, ok := r.users[key]; ok {
		return nil, domain.ErrDuplicateEntry
	}

	stored := *user
	stored.Email = key
	r.users[key] = stored

	copied := stored
	return &copied, nil
}

func (r *memoryUserRepository) Update(_ context.Context, email string, patch domain.UserPatch) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(email)
	existing, ok := r.users[key]
	if !ok {
		return nil, domain.ErrNotFound
	}

	if patch.Name != nil {
		existing.Name = *patch.Name
	}
	if patch.PasswordHash != nil {
		existing.PasswordHash = *patch.PasswordHash
	}
	if patch.Status != nil {
		existing.Status = *patch.Status
	}
	if patch.VerifiedAt != nil {
		verifiedAt := *patch.VerifiedAt
		existing.VerifiedAt = &verifiedAt
	}
	r.users[key] = existing

	copied := existing
	return &copied, nil
}
