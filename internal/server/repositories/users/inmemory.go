package users

import (
	"context"
	"sync"

	"github.com/lunamood/lunamood/internal/common"
	"github.com/lunamood/lunamood/internal/server/models"
)

// InMemoryRepository backs tests and database-less development runs.
type InMemoryRepository struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.User
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1, byID: make(map[int64]*models.User)}
}

func (r *InMemoryRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Username == user.Username {
			return nil, common.ErrorAlreadyExists
		}
	}
	user.ID = r.nextID
	r.nextID++
	clone := *user
	r.byID[user.ID] = &clone
	return user, nil
}

func (r *InMemoryRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *InMemoryRepository) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *InMemoryRepository) SetActiveToken(_ context.Context, id int64, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.IOSAuthToken = token
	return nil
}
