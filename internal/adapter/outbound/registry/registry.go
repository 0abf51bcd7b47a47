// Package registry implements the Redis-backed metadata registry: accounts,
// sessions, song entries, and monetization state. Blob bytes never live here;
// records reference blob store files by id.
package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/anthanhphan/go-music-streaming/internal/config"
	"github.com/redis/go-redis/v9"
)

// Key layout. Entities are JSON strings under a typed prefix; secondary
// indexes are hashes and sorted sets beside them.
const (
	keyUserPrefix    = "user:"
	keyUserByEmail   = "index:users:email"
	keyUserByName    = "index:users:name"
	keyUserAll       = "users:all"
	keySessionPrefix = "session:"
	keySongPrefix    = "song:"
	keySongsByStatus = "songs:status:" // + status, ZSET scored by upload time
	keySongLikes     = "song:likes:"   // + song id, SET of user ids
	keySongViews     = "song:views:"   // + song id, SET of user ids
	keyAdConfig      = "monetization:adconfig"
	keyPayoutPrefix  = "payout:"
	keyPayoutsByDate = "payouts:by_date"
)

// NewClient connects to Redis and verifies the connection with a ping.
func NewClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}
