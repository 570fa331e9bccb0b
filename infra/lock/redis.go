package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/kilianp07/aquacharge/core/booking"
	"github.com/kilianp07/aquacharge/core/logger"
)

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisConfig defines the Redis connection and lock timing.
type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	Prefix   string `json:"prefix"`
	// TTLMS bounds how long a crashed holder can keep a charger locked.
	TTLMS   int `json:"ttl_ms"`
	RetryMS int `json:"retry_ms"`
}

// SetDefaults applies sane defaults.
func (c *RedisConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = "localhost:6379"
	}
	if c.Prefix == "" {
		c.Prefix = "aquacharge:lock:"
	}
	if c.TTLMS <= 0 {
		c.TTLMS = 5000
	}
	if c.RetryMS <= 0 {
		c.RetryMS = 25
	}
}

// RedisLocker serializes work per key across processes sharing a Redis
// instance.
type RedisLocker struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	retry  time.Duration
	log    logger.Logger
}

// NewRedisLocker creates a locker using the provided client.
func NewRedisLocker(client *redis.Client, cfg RedisConfig, log logger.Logger) *RedisLocker {
	cfg.SetDefaults()
	if log == nil {
		log = logger.NopLogger{}
	}
	return &RedisLocker{
		client: client,
		prefix: cfg.Prefix,
		ttl:    time.Duration(cfg.TTLMS) * time.Millisecond,
		retry:  time.Duration(cfg.RetryMS) * time.Millisecond,
		log:    log,
	}
}

// Lock polls SET NX until it owns key or ctx ends.
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	k := l.prefix + key
	token := uuid.NewString()
	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()
	for {
		ok, err := l.client.SetNX(ctx, k, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %s: %v", booking.ErrLockNotAcquired, key, ctx.Err())
			}
			return nil, fmt.Errorf("redis lock %s: %w", key, err)
		}
		if ok {
			return func() { l.release(k, token) }, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s: %v", booking.ErrLockNotAcquired, key, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (l *RedisLocker) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
		l.log.Errorf("redis unlock %s: %v", key, err)
	}
}
