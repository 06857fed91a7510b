// Package services contains server-side business logic. This file
// implements UserService: registration, credential verification, and
// native bearer token issuance.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/lunamood/lunamood/internal/common"
	"github.com/lunamood/lunamood/internal/server/models"
	"github.com/lunamood/lunamood/internal/server/repositories/users"
	"github.com/lunamood/lunamood/internal/server/token"
	"golang.org/x/crypto/bcrypt"
)

// UserService provides authentication-related operations:
//   - Register: create users with a bcrypt-hashed password
//   - Login: verify credentials
//   - IssueNativeToken: mint the bearer token for the iOS path and record
//     it as the user's single active token
type UserService struct {
	users users.Repository
	codec *token.Codec
}

func NewUserService(repo users.Repository, codec *token.Codec) *UserService {
	return &UserService{users: repo, codec: codec}
}

// Register creates a new user. Usernames are unique; a duplicate yields
// common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, username, password, name string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:         username,
		Name:             name,
		Role:             "user",
		SubscriptionTier: "free",
		PasswordHash:     string(hash),
	}
	u, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login verifies the username/password pair. Unknown users and wrong
// passwords are indistinguishable to the caller: both yield
// common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, common.ErrorUnauthorized
	}
	return user, nil
}

// IssueNativeToken mints a fresh bearer token for user and stores it as the
// single active token, invalidating any token issued by an earlier login.
func (s *UserService) IssueNativeToken(ctx context.Context, user *models.User) (string, error) {
	tok := s.codec.Issue(user.ID)
	if err := s.users.SetActiveToken(ctx, user.ID, tok); err != nil {
		return "", common.ErrorInternal
	}
	return tok, nil
}

// GetByID loads a user by ID.
func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}
