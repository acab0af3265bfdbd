package memory

import (
	"context"
	"sync"
	"time"

	"github.com/calloway/itemvault/internal/domain/user"
)

// UsersRepo is the in-memory twin of the postgres repo, used in tests.
type UsersRepo struct {
	mu      sync.RWMutex
	byID    map[string]user.User
	byEmail map[string]string // email -> id
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		byID:    make(map[string]user.User),
		byEmail: make(map[string]string),
	}
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[u.Email]; taken {
		return user.User{}, user.ErrEmailTaken
	}

	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID

	return u, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]

	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return r.byID[id], nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]

	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return u, nil
}

func (r *UsersRepo) UpdateProfile(ctx context.Context, id, firstName, lastName string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]

	if !ok {
		return user.User{}, user.ErrNotFound
	}

	u.FirstName = firstName
	u.LastName = lastName
	u.UpdatedAt = time.Now().UTC()

	r.byID[id] = u

	return u, nil
}
