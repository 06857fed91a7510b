// Package models defines client-side data shapes mirrored from the API.
package models

// User is the identity subset the API exposes to clients.
type User struct {
	ID               int64  `json:"id"`
	Username         string `json:"username"`
	Name             string `json:"name"`
	Role             string `json:"role"`
	SubscriptionTier string `json:"subscriptionTier"`
}

// AuthStatus is the response shape of GET /api/auth/status.
type AuthStatus struct {
	IsAuthenticated bool  `json:"isAuthenticated"`
	User            *User `json:"user"`
}

// MoodEntry mirrors a logged mood as returned by the API.
type MoodEntry struct {
	ID        int64  `json:"id"`
	Mood      string `json:"mood"`
	Score     int    `json:"score"`
	MoonPhase string `json:"moonPhase"`
	Note      string `json:"note,omitempty"`
	CreatedAt string `json:"createdAt"`
	GuestID   string `json:"guestId,omitempty"`
	UserID    *int64 `json:"userId,omitempty"`
}
