// Package common defines shared constants and sentinel errors used across
// client and server layers of Lunamood. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal       = errors.New("internal error")
	ErrorUnauthorized   = errors.New("unauthorized")
	ErrorIncorrectInput = errors.New("incorrect input")

	// Auth errors (invalid or malformed bearer token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")

	// Session lifecycle errors.
	ErrSessionExpired = errors.New("session expired")
)
