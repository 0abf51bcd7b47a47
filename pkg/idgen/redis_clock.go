package idgen

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Clock abstracts the millisecond time source for the generator.
type Clock interface {
	// Now returns the current timestamp in milliseconds.
	Now() int64
}

// SystemClock uses the local system time.
type SystemClock struct{}

func (s *SystemClock) Now() int64 {
	return time.Now().UnixMilli()
}

// RedisClock reads time from Redis so that every process generating IDs
// agrees on a single time source.
type RedisClock struct {
	client *redis.Client
}

func NewRedisClock(client *redis.Client) *RedisClock {
	return &RedisClock{client: client}
}

func (r *RedisClock) Now() int64 {
	res, err := r.client.Time(context.Background()).Result()
	if err != nil {
		// Degrade to the local clock rather than stalling uploads when
		// Redis is briefly unreachable.
		return time.Now().UnixMilli()
	}
	return res.Unix()*1000 + int64(res.Nanosecond())/1_000_000
}
