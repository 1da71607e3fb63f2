package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrUnavailable is returned when Redis itself fails. A plain miss is not
// an error; it falls through to the loader.
var ErrUnavailable = errors.New("identity cache unavailable")

// Snapshot is the cached representation of a principal. It mirrors the
// engine's principal record so a cache hit can satisfy bearer-token
// resolution without touching the credential store.
type Snapshot struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	Verified     bool   `json:"verified"`
	PendingKind  uint8  `json:"pending_kind,omitempty"`
	PendingToken string `json:"pending_token,omitempty"`
	DisplayName  string `json:"display_name,omitempty"`
	AvatarURL    string `json:"avatar_url,omitempty"`
}

// Loader fetches a principal snapshot from the backing store on a cache
// miss. A not-found error from the loader is propagated verbatim and the
// miss is not cached.
type Loader func(ctx context.Context, email string) (*Snapshot, error)

// Identity is the read-through cache. Concurrent misses for the same key
// are not coalesced: the loader is idempotent and the last writer wins
// harmlessly, so single-flight machinery is not worth its coupling.
type Identity struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewIdentity creates a cache over rdb. Keys are "<prefix>:<email>" and
// every entry carries the absolute ttl.
func NewIdentity(rdb *redis.Client, prefix string, ttl time.Duration) *Identity {
	return &Identity{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (c *Identity) key(email string) string {
	return c.prefix + ":" + email
}

// GetOrLoad returns the cached snapshot for email, or invokes load,
// stores the result under the configured TTL, and returns it. Loader
// errors (including not-found) pass through uncached. A corrupt cache
// entry is discarded and treated as a miss.
func (c *Identity) GetOrLoad(ctx context.Context, email string, load Loader) (*Snapshot, error) {
	data, err := c.rdb.Get(ctx, c.key(email)).Bytes()
	switch {
	case err == nil:
		var snap Snapshot
		if jsonErr := json.Unmarshal(data, &snap); jsonErr == nil {
			return &snap, nil
		}
		_ = c.rdb.Del(ctx, c.key(email)).Err()
	case errors.Is(err, redis.Nil):
		// miss
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	snap, err := load(ctx, email)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(snap); err == nil {
		// Population is best effort: a failed write just means the next
		// lookup loads again.
		_ = c.rdb.Set(ctx, c.key(email), data, c.ttl).Err()
	}

	return snap, nil
}

// Forget drops the cached entry for email. The engine itself never calls
// this (bounded staleness is the documented contract); it exists for
// callers that mutate a principal and want the next resolution fresh.
func (c *Identity) Forget(ctx context.Context, email string) error {
	if err := c.rdb.Del(ctx, c.key(email)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
