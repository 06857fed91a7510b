package moods

import (
	"context"

	"github.com/lunamood/lunamood/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, entry *models.MoodEntry) (*models.MoodEntry, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]*models.MoodEntry, error)
	ListByGuest(ctx context.Context, guestID string, limit int) ([]*models.MoodEntry, error)
	// ClaimGuestEntries reassigns anonymous entries with guestID to userID,
	// returning the number of entries claimed.
	ClaimGuestEntries(ctx context.Context, guestID string, userID int64) (int64, error)
}
