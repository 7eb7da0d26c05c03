package svcreg

import "sync"

// Descriptor is the registration record of one service: its key, the constructible used to
// build it, and the keys of the services that have to be resolved first. The order of the
// dependency keys is the order the resolved dependencies are passed to the constructor.
//
// Everything except the cached instance is fixed at creation. The instance starts out empty
// and is set once by the registry when the service is resolved.
type Descriptor struct {
	key            string
	constructible  any
	dependencyKeys []string
	instance       onceCell
}

// NewDescriptor creates a descriptor for the given key. The constructible is handed to the
// registry's Builder unchanged; with the default ReflectBuilder it is a function taking the
// dependencies as parameters.
func NewDescriptor(key string, constructible any, dependencyKeys ...string) *Descriptor {
	deps := make([]string, len(dependencyKeys))
	copy(deps, dependencyKeys)
	return &Descriptor{
		key:            key,
		constructible:  constructible,
		dependencyKeys: deps,
	}
}

// Key returns the key the service is registered under.
func (d *Descriptor) Key() string {
	return d.key
}

// Constructible returns the handle passed to the Builder.
func (d *Descriptor) Constructible() any {
	return d.constructible
}

// DependencyKeys returns a copy of the declared dependency keys in declaration order.
func (d *Descriptor) DependencyKeys() []string {
	deps := make([]string, len(d.dependencyKeys))
	copy(deps, d.dependencyKeys)
	return deps
}

// Instance returns the cached instance and whether there is one.
func (d *Descriptor) Instance() (any, bool) {
	return d.instance.get()
}

// SetInstance stores the resolved instance. Only the first call has any effect; it returns
// true if this call was the one that stored the value.
func (d *Descriptor) SetInstance(value any) bool {
	return d.instance.set(value)
}

// IsResolved reports whether an instance has been stored.
func (d *Descriptor) IsResolved() bool {
	_, ok := d.instance.get()
	return ok
}

// onceCell holds a value that can be written at most once. A stored nil still counts as set.
type onceCell struct {
	lock   sync.RWMutex
	value  any
	filled bool
}

func (c *onceCell) get() (any, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.value, c.filled
}

func (c *onceCell) set(value any) bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.filled {
		return false
	}
	c.value = value
	c.filled = true
	return true
}
