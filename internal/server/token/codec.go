// Package token implements the bearer credential issued to the native app:
// a compact "subjectId:issuedAtMillis:integrityTag" string where the tag is
// an HMAC-SHA256 over the first two fields. Expiry is absolute, measured
// from issuance; there is no revocation list, so a leaked token stays valid
// until it ages out (re-login replaces the single active token, which the
// middleware checks separately).
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lunamood/lunamood/internal/common"
)

// DefaultLifetime is the server-side absolute token lifetime. The client
// applies its own, stricter age check; the two policies are independent and
// this one is the hard security boundary.
const DefaultLifetime = 7 * 24 * time.Hour

// Claims are the authenticated fields decoded from a valid token.
type Claims struct {
	SubjectID int64
	IssuedAt  time.Time
}

// Codec issues and verifies bearer tokens.
type Codec struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

func NewCodec(secret []byte, lifetime time.Duration) *Codec {
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	return &Codec{secret: secret, lifetime: lifetime, now: time.Now}
}

// Issue creates a token for subjectID stamped with the current time.
func (c *Codec) Issue(subjectID int64) string {
	issuedAt := c.now().UnixMilli()
	payload := fmt.Sprintf("%d:%d", subjectID, issuedAt)
	return payload + ":" + c.tag(payload)
}

// Verify parses and authenticates a token. Malformed input (wrong field
// count, non-numeric fields) and bad integrity tags yield ErrInvalidToken;
// tokens older than the absolute lifetime yield ErrTokenExpired. Verify
// never panics on untrusted input.
func (c *Codec) Verify(tok string) (*Claims, error) {
	parts := strings.Split(tok, ":")
	if len(parts) != 3 {
		return nil, common.ErrInvalidToken
	}

	subjectID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return nil, common.ErrInvalidToken
	}
	issuedAtMillis, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	payload := parts[0] + ":" + parts[1]
	if !hmac.Equal([]byte(c.tag(payload)), []byte(parts[2])) {
		return nil, common.ErrInvalidToken
	}

	issuedAt := time.UnixMilli(issuedAtMillis)
	if c.now().Sub(issuedAt) > c.lifetime {
		return nil, common.ErrTokenExpired
	}

	return &Claims{SubjectID: subjectID, IssuedAt: issuedAt}, nil
}

func (c *Codec) tag(payload string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
