// Package cache stores provider answers addressed by a fingerprint of the
// exact prompt text. Entries expire by TTL only; an expired entry is never
// returned.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// DefaultTTL is the answer lifetime when the caller passes zero.
const DefaultTTL = 86400 * time.Second

// Key returns the SHA-256 hex digest of prompt. Reads and writes both go
// through Key so a prompt always maps to the same entry.
func Key(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}

// Store is an answer cache keyed by prompt.
type Store interface {
	// Get returns the cached answer for prompt. ok is false on a miss or
	// when the entry has expired.
	Get(ctx context.Context, prompt string) (answer string, ok bool, err error)
	// Set stores answer for prompt. A non-positive ttl means DefaultTTL.
	Set(ctx context.Context, prompt, answer string, ttl time.Duration) error
}
