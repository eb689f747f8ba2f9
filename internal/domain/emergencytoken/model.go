package emergencytoken

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TokenLength is the length of an emergency token in hex characters.
// Tokens carry 32 bytes (256 bits) of entropy.
const TokenLength = 64

var (
	ErrNotFound     = errors.New("emergency token not found")
	ErrInvalidToken = errors.New("invalid token format")
)

// EmergencyToken maps to the emergency_token table. Each user holds at
// most one token at a time; lookups from the public side go through the
// SHA-256 digest, never the raw value.
type EmergencyToken struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Token     string    `db:"token" json:"token"`
	Digest    string    `db:"digest" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Generate produces a new token from 32 bytes of crypto/rand output,
// hex-encoded. A failure of the randomness source is returned as an
// error, never papered over with a weaker fallback.
func Generate() (string, error) {
	buf := make([]byte, TokenLength/2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Digest returns the hex-encoded SHA-256 digest of a token.
func Digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// IsValidFormat reports whether token is syntactically a token:
// exactly 64 lowercase hex characters.
func IsValidFormat(token string) bool {
	if len(token) != TokenLength {
		return false
	}
	for i := 0; i < len(token); i++ {
		c := token[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// DisclosureCacheKey is the cache key under which the rendered public
// profile for a token digest is stored.
func DisclosureCacheKey(digest string) string {
	return "disclosure:" + digest
}
