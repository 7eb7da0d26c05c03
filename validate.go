package svcreg

import (
	"errors"
	"fmt"
)

type visitState int

const (
	unvisited visitState = iota
	visiting
	visited
)

// Validate checks the whole dependency graph without building anything. It reports every
// dependency key that is not registered and every cycle, joined into one error. It returns nil
// when every registered service could be resolved as far as the graph is concerned;
// constructors can still fail.
//
// Missing keys are reported as ErrNotFound wrapped with the key of the service that needs them.
// Cycles are reported as ErrCircularDependency with the keys of the cycle as the Path.
//
//	reg.Close()
//	if err := reg.Validate(); err != nil {
//	    log.Fatal().Err(err).Msg("service graph is broken")
//	}
func (r *Registry) Validate() error {
	r.tableLock.RLock()
	defer r.tableLock.RUnlock()

	var errs []error
	keys := r.sortedKeys()

	for _, key := range keys {
		for _, depKey := range r.descriptors[key].dependencyKeys {
			if _, found := r.descriptors[depKey]; !found {
				errs = append(errs, fmt.Errorf("service %s: %w", key, notFoundError(depKey)))
			}
		}
	}

	states := map[string]visitState{}
	for _, key := range keys {
		errs = append(errs, r.findCycles(key, states, nil)...)
	}

	return errors.Join(errs...)
}

// findCycles walks the graph depth-first and returns one error per back edge it finds. Missing
// keys are skipped here; Validate reports them separately. Must be called with tableLock held.
func (r *Registry) findCycles(key string, states map[string]visitState, path visitPath) []error {
	switch states[key] {
	case visiting:
		return []error{&DependencyError{Kind: ErrCircularDependency, Key: key, Path: path.cycle(key)}}
	case visited:
		return nil
	}

	d, found := r.descriptors[key]
	if !found {
		return nil
	}

	states[key] = visiting
	path = path.extend(key)

	var errs []error
	for _, depKey := range d.dependencyKeys {
		errs = append(errs, r.findCycles(depKey, states, path)...)
	}

	states[key] = visited
	return errs
}

// ResolutionOrder returns the keys in the order Get(key) would build them on a registry where
// nothing is resolved yet: dependencies first, in declared order, each key once, key last. It
// fails exactly where Get would, with ErrNotFound or ErrCircularDependency, but never calls a
// constructor.
func (r *Registry) ResolutionOrder(key string) ([]string, error) {
	r.tableLock.RLock()
	defer r.tableLock.RUnlock()

	var order []string
	done := map[string]bool{}

	var walk func(key string, path visitPath) error
	walk = func(key string, path visitPath) error {
		d, found := r.descriptors[key]
		if !found {
			return notFoundError(key)
		}
		if path.contains(key) {
			return &DependencyError{Kind: ErrCircularDependency, Key: key, Path: path.cycle(key)}
		}
		if done[key] {
			return nil
		}
		path = path.extend(key)
		for _, depKey := range d.dependencyKeys {
			if err := walk(depKey, path); err != nil {
				return err
			}
		}
		done[key] = true
		order = append(order, key)
		return nil
	}

	if err := walk(key, nil); err != nil {
		return nil, err
	}
	return order, nil
}
