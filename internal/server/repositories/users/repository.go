package users

import (
	"context"

	"github.com/lunamood/lunamood/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	// SetActiveToken records the single active iOS bearer token for the
	// user; an empty token clears it.
	SetActiveToken(ctx context.Context, id int64, token string) error
}
