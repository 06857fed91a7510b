// Package models defines server-side entities persisted in Postgres.
package models

// User is an account holder. PasswordHash and the active iOS token never
// leave the server; JSON serialization exposes only the public identity
// subset.
type User struct {
	ID               int64  `json:"id"`
	Username         string `json:"username"`
	Name             string `json:"name"`
	Role             string `json:"role"`
	SubscriptionTier string `json:"subscriptionTier"`
	PasswordHash     string `json:"-"`

	// IOSAuthToken is the single active bearer token for this user, empty
	// when none was issued. When populated, a presented token that differs
	// is rejected; re-login invalidates older tokens.
	IOSAuthToken string `json:"-"`
}
