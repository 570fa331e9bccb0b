// Package factory provides a small generic registry used to instantiate modules
// from configuration. Modules are defined by a type string and a map of raw
// settings. Factories decode the settings into typed structs and return the
// concrete implementation.
//
// Example usage:
//
//	reg := factory.NewRegistry[booking.Locker]()
//	reg.Register("redis", func(conf map[string]any) (booking.Locker, error) {
//	    var c lock.RedisConfig
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return lock.NewRedisLocker(redis.NewClient(&redis.Options{Addr: c.Addr}), c, nil), nil
//	})
//	l, err := reg.Create(factory.ModuleConfig{Type: "redis", Conf: map[string]any{"addr": "localhost:6379"}})
package factory
