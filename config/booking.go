package config

import (
	"fmt"

	"github.com/kilianp07/aquacharge/core/factory"
)

// BookingConfig selects the reservation store and the per-charger locker.
// The local locker only serializes bookings inside one process. A sqlite or
// postgres store shared by several processes needs the redis locker, or two
// processes can admit overlapping reservations.
type BookingConfig struct {
	Store factory.ModuleConfig `json:"store"`
	Lock  factory.ModuleConfig `json:"lock"`
	// LockTimeoutMS bounds how long a booking waits for its charger lock.
	LockTimeoutMS int `json:"lock_timeout_ms"`
}

// SetDefaults applies the in-memory store, the local locker and a five
// second lock wait.
func (c *BookingConfig) SetDefaults() {
	if c.Store.Type == "" {
		c.Store.Type = "memory"
	}
	if c.Lock.Type == "" {
		c.Lock.Type = "local"
	}
	if c.LockTimeoutMS <= 0 {
		c.LockTimeoutMS = 5000
	}
}

// SharedStoreLocalLock reports a store reachable from other processes paired
// with a lock that is not.
func (c BookingConfig) SharedStoreLocalLock() bool {
	switch c.Store.Type {
	case "sqlite", "postgres":
		return c.Lock.Type == "local" || c.Lock.Type == "noop"
	}
	return false
}

// Validate checks backend selections that need extra settings.
func (c BookingConfig) Validate() error {
	if c.Store.Type == "postgres" {
		if dsn, _ := c.Store.Conf["dsn"].(string); dsn == "" {
			return fmt.Errorf("booking.store.conf.dsn is required for postgres")
		}
	}
	return nil
}
