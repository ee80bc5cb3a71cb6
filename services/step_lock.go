package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// StepLock marks an innovation's step generation as in progress so that
// other API instances wait for the result instead of calling the LLM again.
type StepLock interface {
	// Acquire returns acquired=false when another holder owns the marker.
	// release must be called once the holder is done.
	Acquire(ctx context.Context, innovationID string) (release func(), acquired bool, err error)
	TTL() time.Duration
}

// localStepLock is used when no Redis is configured. Collapsing within one
// process is already handled by singleflight, so it always grants.
type localStepLock struct {
	ttl time.Duration
}

func NewLocalStepLock(ttl time.Duration) StepLock {
	return &localStepLock{ttl: ttl}
}

func (l *localStepLock) Acquire(context.Context, string) (func(), bool, error) {
	return func() {}, true, nil
}

func (l *localStepLock) TTL() time.Duration { return l.ttl }

const stepLockKeyPrefix = "recircuit:steps-generation:"

// releaseScript deletes the marker only if this holder still owns it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisStepLock struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStepLock(client *redis.Client, ttl time.Duration) *RedisStepLock {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &RedisStepLock{client: client, ttl: ttl}
}

func (l *RedisStepLock) Acquire(ctx context.Context, innovationID string) (func(), bool, error) {
	key := stepLockKeyPrefix + innovationID
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire step lock: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = releaseScript.Run(ctx, l.client, []string{key}, token).Err()
	}
	return release, true, nil
}

func (l *RedisStepLock) TTL() time.Duration { return l.ttl }
