package services

import (
	"context"
	"fmt"
	"time"

	"github.com/lunamood/lunamood/internal/common"
	"github.com/lunamood/lunamood/internal/moonphase"
	"github.com/lunamood/lunamood/internal/server/models"
	"github.com/lunamood/lunamood/internal/server/repositories/moods"
)

// moodScores maps each selectable mood to its numeric score used by the
// analytics aggregation.
var moodScores = map[string]int{
	"great":    5,
	"good":     4,
	"okay":     3,
	"low":      2,
	"terrible": 1,
}

// defaultListLimit caps mood listings.
const defaultListLimit = 100

// MoodService logs and aggregates mood entries. Each entry is stamped with
// the lunar phase at logging time.
type MoodService struct {
	moods moods.Repository
	now   func() time.Time
}

func NewMoodService(repo moods.Repository) *MoodService {
	return &MoodService{moods: repo, now: time.Now}
}

// Log records a mood for either a registered user (userID != nil) or a
// guest (guestID != ""). Unknown moods are rejected.
func (s *MoodService) Log(ctx context.Context, userID *int64, guestID, mood, note string) (*models.MoodEntry, error) {
	score, ok := moodScores[mood]
	if !ok {
		return nil, fmt.Errorf("unknown mood %q: %w", mood, common.ErrorIncorrectInput)
	}
	if userID == nil && guestID == "" {
		return nil, common.ErrorIncorrectInput
	}

	now := s.now()
	entry := &models.MoodEntry{
		UserID:    userID,
		GuestID:   guestID,
		Mood:      mood,
		Score:     score,
		MoonPhase: moonphase.At(now).String(),
		Note:      note,
		CreatedAt: now,
	}
	if userID != nil {
		// Registered entries never carry the guest correlation ID.
		entry.GuestID = ""
	}

	created, err := s.moods.Create(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("error creating mood entry: %w", err)
	}
	return created, nil
}

// ListForUser returns the user's most recent entries.
func (s *MoodService) ListForUser(ctx context.Context, userID int64) ([]*models.MoodEntry, error) {
	return s.moods.ListByUser(ctx, userID, defaultListLimit)
}

// ListForGuest returns the anonymous entries correlated to guestID.
func (s *MoodService) ListForGuest(ctx context.Context, guestID string) ([]*models.MoodEntry, error) {
	return s.moods.ListByGuest(ctx, guestID, defaultListLimit)
}

// Claim reassigns a guest's anonymous entries to a freshly registered user.
func (s *MoodService) Claim(ctx context.Context, guestID string, userID int64) (int64, error) {
	if guestID == "" {
		return 0, nil
	}
	return s.moods.ClaimGuestEntries(ctx, guestID, userID)
}

// Summary aggregates the user's entries: total count, average score, and
// per-phase score averages.
func (s *MoodService) Summary(ctx context.Context, userID int64) (*models.MoodSummary, error) {
	entries, err := s.moods.ListByUser(ctx, userID, 0)
	if err != nil {
		return nil, err
	}

	summary := &models.MoodSummary{ByPhase: make(map[string]float64)}
	if len(entries) == 0 {
		return summary, nil
	}

	total := 0
	phaseTotals := make(map[string]int)
	phaseCounts := make(map[string]int)
	for _, e := range entries {
		total += e.Score
		phaseTotals[e.MoonPhase] += e.Score
		phaseCounts[e.MoonPhase]++
	}

	summary.Count = len(entries)
	summary.AverageScore = float64(total) / float64(len(entries))
	for phase, sum := range phaseTotals {
		summary.ByPhase[phase] = float64(sum) / float64(phaseCounts[phase])
	}
	return summary, nil
}
