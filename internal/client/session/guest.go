package session

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/lunamood/lunamood/internal/client/tokenstore"
)

// Guest-session keys in the local metadata store. The guest identity lives
// entirely client-side; the server only ever sees the opaque ID as a query
// parameter correlating anonymous entries.
const (
	keyGuestID        = "guest_id"
	keyGuestMoodCount = "guest_mood_count"
)

// needsAccountThreshold is the number of guest entries after which the UI
// nudges account creation.
const needsAccountThreshold = 1

// Guest is the anonymous, client-only identity used before sign-up.
type Guest struct {
	ID        string
	MoodCount int
}

// NeedsAccount reports whether the guest has logged enough entries to be
// prompted to create an account.
func (g Guest) NeedsAccount() bool {
	return g.MoodCount > needsAccountThreshold
}

// GuestStore manages the guest session in the local KV store.
type GuestStore struct {
	kv tokenstore.KV
}

func NewGuestStore(kv tokenstore.KV) *GuestStore {
	return &GuestStore{kv: kv}
}

// Load returns the current guest session, creating the opaque ID on first
// use.
func (s *GuestStore) Load(ctx context.Context) (Guest, error) {
	id, err := s.kv.Get(ctx, keyGuestID)
	if err != nil {
		return Guest{}, err
	}
	if len(id) == 0 {
		id = []byte(uuid.NewString())
		if err := s.kv.Set(ctx, keyGuestID, id); err != nil {
			return Guest{}, err
		}
	}

	count := 0
	if raw, err := s.kv.Get(ctx, keyGuestMoodCount); err == nil && len(raw) > 0 {
		count, _ = strconv.Atoi(string(raw))
	}
	return Guest{ID: string(id), MoodCount: count}, nil
}

// RecordMood bumps the guest mood counter and returns the updated session.
func (s *GuestStore) RecordMood(ctx context.Context) (Guest, error) {
	g, err := s.Load(ctx)
	if err != nil {
		return Guest{}, err
	}
	g.MoodCount++
	if err := s.kv.Set(ctx, keyGuestMoodCount, []byte(strconv.Itoa(g.MoodCount))); err != nil {
		return g, err
	}
	return g, nil
}

// Clear wipes the guest session, typically after the entries were claimed
// by a fresh account.
func (s *GuestStore) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, keyGuestID); err != nil {
		return err
	}
	return s.kv.Delete(ctx, keyGuestMoodCount)
}
