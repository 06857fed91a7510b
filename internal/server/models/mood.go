package models

import "time"

// MoodEntry is one logged mood, correlated with the lunar phase at logging
// time. Exactly one of UserID / GuestID identifies the author: registered
// users own their entries, anonymous entries carry the client-generated
// guest ID until claimed.
type MoodEntry struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"userId,omitempty"`
	GuestID   string    `json:"guestId,omitempty"`
	Mood      string    `json:"mood"`
	Score     int       `json:"score"`
	MoonPhase string    `json:"moonPhase"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// MoodSummary aggregates a user's entries for the analytics view.
type MoodSummary struct {
	Count        int                `json:"count"`
	AverageScore float64            `json:"averageScore"`
	ByPhase      map[string]float64 `json:"byPhase"`
}
