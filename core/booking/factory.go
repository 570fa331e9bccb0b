package booking

import "github.com/kilianp07/aquacharge/core/factory"

var (
	storeRegistry  = factory.NewRegistry[ReservationStore]()
	lockerRegistry = factory.NewRegistry[Locker]()
)

func init() {
	_ = RegisterStore("memory", func(map[string]any) (ReservationStore, error) {
		return NewMemoryStore(), nil
	})
	_ = RegisterLocker("noop", func(map[string]any) (Locker, error) {
		return NoopLocker{}, nil
	})
}

// RegisterStore adds a reservation store factory identified by name.
func RegisterStore(name string, f factory.Factory[ReservationStore]) error {
	return storeRegistry.Register(name, f)
}

// NewStore creates a reservation store. An empty type means memory.
func NewStore(cfg factory.ModuleConfig) (ReservationStore, error) {
	if cfg.Type == "" {
		cfg.Type = "memory"
	}
	return storeRegistry.Create(cfg)
}

// RegisterLocker adds a locker factory identified by name.
func RegisterLocker(name string, f factory.Factory[Locker]) error {
	return lockerRegistry.Register(name, f)
}

// NewLocker creates a charger locker. An empty type means noop.
func NewLocker(cfg factory.ModuleConfig) (Locker, error) {
	if cfg.Type == "" {
		cfg.Type = "noop"
	}
	return lockerRegistry.Create(cfg)
}
