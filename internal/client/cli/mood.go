package cli

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/lunamood/lunamood/internal/client/models"
)

type createMoodRequest struct {
	Mood    string `json:"mood"`
	Note    string `json:"note,omitempty"`
	GuestID string `json:"guestId,omitempty"`
}

type moodSummary struct {
	Count        int                `json:"count"`
	AverageScore float64            `json:"averageScore"`
	ByPhase      map[string]float64 `json:"byPhase"`
}

// LogMood prompts for a mood and an optional note and records the entry.
// Anonymous entries are attached to the local guest session; after the
// second one the user is nudged towards creating an account.
func (a *App) LogMood(ctx context.Context) error {
	mood, err := getSimpleText(a.reader, "How are you feeling? (great/good/okay/bad/terrible)", os.Stdout)
	if err != nil {
		return err
	}
	note, err := getSimpleText(a.reader, "Add a note (optional)", os.Stdout)
	if err != nil {
		return err
	}

	req := createMoodRequest{Mood: mood, Note: note}
	if !a.isLoggedIn() {
		guest, err := a.guests.Load(ctx)
		if err != nil {
			return err
		}
		req.GuestID = guest.ID
	}

	var entry models.MoodEntry
	if err := a.api.FetchJSON(ctx, http.MethodPost, "/api/moods", req, &entry); err != nil {
		a.logger.Warn(ctx, "mood entry failed", "error", err)
		return err
	}

	fmt.Printf("Logged %q under a %s\n", entry.Mood, entry.MoonPhase)

	if !a.isLoggedIn() {
		guest, err := a.guests.RecordMood(ctx)
		if err != nil {
			return err
		}
		if guest.NeedsAccount() {
			fmt.Println("Create an account to keep your mood history.")
		}
	}
	return nil
}

// List prints recent mood entries, newest first.
func (a *App) List(ctx context.Context) error {
	path := "/api/moods"
	if !a.isLoggedIn() {
		guest, err := a.guests.Load(ctx)
		if err != nil {
			return err
		}
		path += "?guestId=" + url.QueryEscape(guest.ID)
	}

	var entries []models.MoodEntry
	if err := a.api.FetchJSON(ctx, http.MethodGet, path, nil, &entries); err != nil {
		a.logger.Warn(ctx, "mood list failed", "error", err)
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No moods logged yet")
		return nil
	}
	for _, e := range entries {
		line := fmt.Sprintf("%s  %-8s  %s", e.CreatedAt, e.Mood, e.MoonPhase)
		if e.Note != "" {
			line += "  " + e.Note
		}
		fmt.Println(line)
	}
	return nil
}

// Summary prints aggregate mood statistics for the signed-in user.
func (a *App) Summary(ctx context.Context) error {
	var summary moodSummary
	if err := a.api.FetchJSON(ctx, http.MethodGet, "/api/analytics/summary", nil, &summary); err != nil {
		a.logger.Warn(ctx, "summary failed", "error", err)
		return err
	}

	fmt.Printf("Entries: %d, average score: %.2f\n", summary.Count, summary.AverageScore)
	for phase, avg := range summary.ByPhase {
		fmt.Printf("  %-16s %.2f\n", phase, avg)
	}
	return nil
}
