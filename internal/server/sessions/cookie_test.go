package sessions

import (
	"errors"
	"testing"
	"time"

	"github.com/lunamood/lunamood/internal/common"
)

func TestCookieCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	codec := NewCookieCodec([]byte("cookie-secret"), time.Hour)

	value, err := codec.Encode("session-123")
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	got, err := codec.Decode(value)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if got != "session-123" {
		t.Fatalf("session ID mismatch: got %q", got)
	}
}

func TestCookieCodec_WrongSecret(t *testing.T) {
	t.Parallel()

	value, err := NewCookieCodec([]byte("right"), time.Hour).Encode("s1")
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if _, err := NewCookieCodec([]byte("wrong"), time.Hour).Decode(value); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestCookieCodec_Garbage(t *testing.T) {
	t.Parallel()

	codec := NewCookieCodec([]byte("secret"), time.Hour)
	if _, err := codec.Decode("not.a.jwt"); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestCookieCodec_Expired(t *testing.T) {
	t.Parallel()

	value, err := NewCookieCodec([]byte("secret"), -time.Minute).Encode("s1")
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if _, err := NewCookieCodec([]byte("secret"), time.Hour).Decode(value); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired cookie, got %v", err)
	}
}

func TestCookies_Attributes(t *testing.T) {
	t.Parallel()

	codec := NewCookieCodec([]byte("secret"), time.Hour)

	cookie := codec.NewCookie("value")
	if cookie.Name != common.SessionCookieName {
		t.Fatalf("unexpected cookie name %q", cookie.Name)
	}
	if !cookie.HttpOnly {
		t.Fatalf("session cookie must be HttpOnly")
	}
	if cookie.MaxAge != int(time.Hour.Seconds()) {
		t.Fatalf("unexpected MaxAge %d", cookie.MaxAge)
	}

	expired := codec.ExpiredCookie()
	if expired.MaxAge >= 0 || expired.Value != "" {
		t.Fatalf("expired cookie must clear the value: %+v", expired)
	}
}
