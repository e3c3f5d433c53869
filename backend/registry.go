package backend

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/blit"
)

type entry struct {
	name     string
	priority int
	factory  Factory
}

// registry holds registered drivers.
var (
	registryMu sync.RWMutex
	drivers    = make(map[string]entry)
)

// Register registers a driver factory with the given name and priority.
// This is typically called from init() functions in driver packages.
// Higher priorities are preferred by Default. If a driver with the same
// name is already registered, it will be replaced.
func Register(name string, priority int, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	drivers[name] = entry{name: name, priority: priority, factory: factory}
}

// Unregister removes name. Tests use it to undo Register.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(drivers, name)
}

// Available returns the registered driver names, highest priority first.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	sorted := sortedLocked()
	names := make([]string, len(sorted))
	for i, e := range sorted {
		names[i] = e.name
	}
	return names
}

// IsRegistered checks if a driver with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := drivers[name]
	return ok
}

// Get creates the driver registered under name.
func Get(name string) (blit.Driver, error) {
	registryMu.RLock()
	e, ok := drivers[name]
	registryMu.RUnlock()

	if !ok {
		return nil, &NotFoundError{Name: name, Available: Available()}
	}
	d, err := e.factory()
	if err != nil {
		return nil, fmt.Errorf("backend: %s: %w", name, err)
	}
	return d, nil
}

// Default creates the highest priority driver whose factory succeeds.
// Drivers with equal priority are tried in name order.
func Default() (blit.Driver, error) {
	registryMu.RLock()
	sorted := sortedLocked()
	registryMu.RUnlock()

	log := blit.Logger()
	for _, e := range sorted {
		d, err := e.factory()
		if err == nil && d != nil {
			return d, nil
		}
		log.Debug("backend: driver unavailable", "driver", e.name, "err", err)
	}
	return nil, ErrNoDriver
}

// sortedLocked returns the entries by descending priority.
// Caller must hold registryMu.
func sortedLocked() []entry {
	out := make([]entry, 0, len(drivers))
	for _, e := range drivers {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b entry) int {
		return cmp.Or(cmp.Compare(b.priority, a.priority), cmp.Compare(a.name, b.name))
	})
	return out
}
