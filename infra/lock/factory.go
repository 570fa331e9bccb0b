package lock

import (
	"github.com/redis/go-redis/v9"

	"github.com/kilianp07/aquacharge/core/booking"
	"github.com/kilianp07/aquacharge/core/factory"
	"github.com/kilianp07/aquacharge/infra/logger"
)

// init registers the built-in lockers.
func init() {
	_ = booking.RegisterLocker("local", func(map[string]any) (booking.Locker, error) {
		return NewLocalLocker(), nil
	})

	_ = booking.RegisterLocker("redis", func(conf map[string]any) (booking.Locker, error) {
		var c RedisConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		c.SetDefaults()
		client := redis.NewClient(&redis.Options{Addr: c.Addr, Password: c.Password, DB: c.DB})
		return NewRedisLocker(client, c, logger.New("redis-locker")), nil
	})
}
