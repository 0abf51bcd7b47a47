package registry

import (
	"context"
	"errors"
	"time"

	"github.com/anthanhphan/go-music-streaming/internal/port"
	"github.com/redis/go-redis/v9"
)

// SessionRepo pins one active token id per user. Logging in overwrites the
// pinned id, so every previously issued token stops authenticating.
type SessionRepo struct {
	rdb *redis.Client
}

var _ port.SessionStore = (*SessionRepo)(nil)

func NewSessionRepo(rdb *redis.Client) *SessionRepo {
	return &SessionRepo{rdb: rdb}
}

func sessionKey(userID string) string {
	return keySessionPrefix + userID
}

func (r *SessionRepo) Put(ctx context.Context, userID, tokenID string, ttl time.Duration) error {
	return r.rdb.Set(ctx, sessionKey(userID), tokenID, ttl).Err()
}

func (r *SessionRepo) Get(ctx context.Context, userID string) (string, error) {
	tokenID, err := r.rdb.Get(ctx, sessionKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return tokenID, err
}

func (r *SessionRepo) Clear(ctx context.Context, userID string) error {
	return r.rdb.Del(ctx, sessionKey(userID)).Err()
}

// CountActive counts live session keys. SCAN keeps Redis responsive on large
// keyspaces.
func (r *SessionRepo) CountActive(ctx context.Context) (int64, error) {
	var count int64
	iter := r.rdb.Scan(ctx, 0, keySessionPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		count++
	}
	return count, iter.Err()
}
