package moods

import (
	"context"
	"sort"
	"sync"

	"github.com/lunamood/lunamood/internal/server/models"
)

// InMemoryRepository backs tests and database-less development runs.
type InMemoryRepository struct {
	mu      sync.Mutex
	nextID  int64
	entries []*models.MoodEntry
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1}
}

func (r *InMemoryRepository) Create(_ context.Context, entry *models.MoodEntry) (*models.MoodEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = r.nextID
	r.nextID++
	clone := *entry
	r.entries = append(r.entries, &clone)
	return entry, nil
}

func (r *InMemoryRepository) ListByUser(_ context.Context, userID int64, limit int) ([]*models.MoodEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.MoodEntry
	for _, e := range r.entries {
		if e.UserID != nil && *e.UserID == userID {
			clone := *e
			out = append(out, &clone)
		}
	}
	return sortAndCap(out, limit), nil
}

func (r *InMemoryRepository) ListByGuest(_ context.Context, guestID string, limit int) ([]*models.MoodEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.MoodEntry
	for _, e := range r.entries {
		if e.UserID == nil && e.GuestID == guestID {
			clone := *e
			out = append(out, &clone)
		}
	}
	return sortAndCap(out, limit), nil
}

func (r *InMemoryRepository) ClaimGuestEntries(_ context.Context, guestID string, userID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, e := range r.entries {
		if e.UserID == nil && e.GuestID == guestID {
			id := userID
			e.UserID = &id
			e.GuestID = ""
			n++
		}
	}
	return n, nil
}

func sortAndCap(entries []*models.MoodEntry, limit int) []*models.MoodEntry {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
