// Package slottoken binds a slot's identity (event type, start instant) with
// an HMAC so a client cannot book a time it was never offered. The model is
// optimistic: no server-side hold is taken when a slot is displayed.
package slottoken

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

type Signer struct {
	secret []byte
}

func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

// Sign returns the hex HMAC-SHA256 over "eventTypeID|startAtUtc". The start
// instant is normalized to UTC RFC3339 so signer and verifier agree on the
// serialized form regardless of the caller's location.
func (s *Signer) Sign(eventTypeID uuid.UUID, startAtUTC time.Time) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(eventTypeID.String() + "|" + startAtUTC.UTC().Format(time.RFC3339)))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the token and compares in constant time. Length mismatch
// and byte mismatch are both plain authenticity failures.
func (s *Signer) Verify(eventTypeID uuid.UUID, startAtUTC time.Time, token string) bool {
	expected := s.Sign(eventTypeID, startAtUTC)
	if len(expected) != len(token) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(token)) == 1
}
