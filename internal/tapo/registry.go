package tapo

import (
	"fmt"
	"sort"
	"sync"
)

// Driver creates clients for one implementation of the device-control protocol
type Driver interface {
	NewClient() (Client, error)
}

// DriverFunc adapts a function to the Driver interface
type DriverFunc func() (Client, error)

// NewClient calls f
func (f DriverFunc) NewClient() (Client, error) { return f() }

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]Driver)
)

// Register makes a driver available by name. It panics if Register is called
// twice with the same name or if driver is nil.
func Register(name string, driver Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()
	if driver == nil {
		panic("tapo: Register driver is nil")
	}
	if _, dup := drivers[name]; dup {
		panic("tapo: Register called twice for driver " + name)
	}
	drivers[name] = driver
}

// Drivers returns a sorted list of the names of the registered drivers
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	list := make([]string, 0, len(drivers))
	for name := range drivers {
		list = append(list, name)
	}
	sort.Strings(list)
	return list
}

// Open creates a client from the named driver. An empty name selects the only
// registered driver when exactly one is registered.
func Open(name string) (Client, error) {
	driversMu.RLock()
	var (
		driver Driver
		ok     bool
	)
	if name == "" && len(drivers) == 1 {
		for _, d := range drivers {
			driver, ok = d, true
		}
	} else {
		driver, ok = drivers[name]
	}
	driversMu.RUnlock()

	if !ok {
		if name == "" {
			return nil, fmt.Errorf("no device-control driver selected (registered: %v)", Drivers())
		}
		return nil, fmt.Errorf("unknown device-control driver %q (registered: %v)", name, Drivers())
	}
	return driver.NewClient()
}
