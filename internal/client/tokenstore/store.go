package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/lunamood/lunamood/internal/logging"
)

// Storage keys for the credential and its parallel issuance timestamp.
// The timestamp is written on every Set; the auth state machine needs it
// for the client-side expiry check.
const (
	keyAuthToken    = "auth_token"
	keyAuthIssuedAt = "auth_token_issued_at"
)

// Store holds the bearer credential with a durable primary KV and a
// volatile secondary fallback.
//
// Error contract:
//   - Set returns an error only when both stores fail.
//   - Get and IssuedAt never fail on storage errors; absence in both
//     stores yields the zero value.
//   - Remove clears both stores unconditionally and aggregates failures,
//     so the caller can warn that residual credentials may remain.
type Store struct {
	primary   KV
	secondary KV
	log       logging.Logger
	now       func() time.Time
}

func NewStore(primary, secondary KV, log logging.Logger) *Store {
	return &Store{primary: primary, secondary: secondary, log: log, now: time.Now}
}

// Set persists the token and its issuance timestamp. The primary store is
// tried first; on failure the secondary takes the write so the credential
// survives at least for the current run.
func (s *Store) Set(ctx context.Context, token string) error {
	ts := []byte(strconv.FormatInt(s.now().UnixMilli(), 10))

	primaryErr := s.setBoth(ctx, s.primary, token, ts)
	if primaryErr == nil {
		return nil
	}
	s.log.Warn(ctx, "primary token store write failed, using fallback", "error", primaryErr)

	if err := s.setBoth(ctx, s.secondary, token, ts); err != nil {
		return fmt.Errorf("token store write failed: %w", errors.Join(primaryErr, err))
	}
	return nil
}

func (s *Store) setBoth(ctx context.Context, kv KV, token string, ts []byte) error {
	if err := kv.Set(ctx, keyAuthToken, []byte(token)); err != nil {
		return err
	}
	return kv.Set(ctx, keyAuthIssuedAt, ts)
}

// Get returns the stored token, or "" when no token is stored anywhere.
// Storage errors are logged, never surfaced.
func (s *Store) Get(ctx context.Context) (string, error) {
	v := s.read(ctx, keyAuthToken)
	return string(v), nil
}

// IssuedAt returns the issuance timestamp recorded alongside the token,
// or the zero time when absent or unparseable.
func (s *Store) IssuedAt(ctx context.Context) (time.Time, error) {
	v := s.read(ctx, keyAuthIssuedAt)
	if len(v) == 0 {
		return time.Time{}, nil
	}
	millis, err := strconv.ParseInt(string(v), 10, 64)
	if err != nil {
		s.log.Warn(ctx, "stored token timestamp is unparseable", "value", string(v))
		return time.Time{}, nil
	}
	return time.UnixMilli(millis), nil
}

func (s *Store) read(ctx context.Context, key string) []byte {
	v, err := s.primary.Get(ctx, key)
	if err != nil {
		s.log.Warn(ctx, "primary token store read failed", "key", key, "error", err)
	} else if v != nil {
		return v
	}

	v, err = s.secondary.Get(ctx, key)
	if err != nil {
		s.log.Warn(ctx, "secondary token store read failed", "key", key, "error", err)
		return nil
	}
	return v
}

// Remove deletes the token and timestamp from both stores. All failures
// are joined into one error; a non-nil result means residual credentials
// may remain on the device.
func (s *Store) Remove(ctx context.Context) error {
	var errs []error
	for _, kv := range []KV{s.primary, s.secondary} {
		for _, key := range []string{keyAuthToken, keyAuthIssuedAt} {
			if err := kv.Delete(ctx, key); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("token store clear incomplete: %w", errors.Join(errs...))
	}
	return nil
}
