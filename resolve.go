package svcreg

import (
	"context"
	"time"

	"github.com/gburgyan/go-timing"
)

// Get returns the instance registered under key, building it and its dependencies first if
// this is the first time it is asked for. It fails with ErrNotFound for an unknown key (the key
// itself or any dependency), with ErrCircularDependency for a cycle, and with the builder's own
// error if a constructor fails.
func (r *Registry) Get(key string) (any, error) {
	return r.GetContext(context.Background(), key)
}

// GetContext is Get with a context. The context is passed to constructors that take a
// context.Context as their first parameter, bounds the wait for a concurrent Get to finish, and
// carries the go-timing root when the registry is created WithTiming(TimingConstructors).
//
// A constructor may look up further services with the context it was given (GetContext or
// GetFromContext). Such a lookup joins the resolution that is already running instead of
// waiting for it, and a lookup that leads back to a key being built is a cycle.
func (r *Registry) GetContext(ctx context.Context, key string) (any, error) {
	if active, ok := ctx.Value(resolutionKey).(*activeResolution); ok && active.registry == r {
		return r.resolve(ctx, key, active.path)
	}

	unlock, err := r.resolving.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return r.resolve(ctx, key, nil)
}

// resolve is the depth-first walk. The path holds the keys that are being built further up the
// current chain.
func (r *Registry) resolve(ctx context.Context, key string, path visitPath) (any, error) {
	d, found := r.lookup(key)
	if !found {
		return nil, notFoundError(key)
	}
	if path.contains(key) {
		return nil, r.cycleError(path, key)
	}
	path = path.extend(key)

	if instance, ok := d.Instance(); ok {
		return instance, nil
	}

	if r.timing == TimingConstructors {
		timingCtx, complete := timing.Start(ctx, key)
		defer complete()
		ctx = timingCtx
	}

	deps := make([]any, len(d.dependencyKeys))
	for i, depKey := range d.dependencyKeys {
		dep, err := r.resolve(ctx, depKey, path)
		if err != nil {
			return nil, err
		}
		deps[i] = dep
	}

	instance, err := r.construct(withResolution(ctx, r, path), d, deps)
	if err != nil {
		return nil, err
	}

	if !d.SetInstance(instance) {
		// Someone stored an instance first; that one wins.
		instance, _ = d.Instance()
	}
	return instance, nil
}

// construct calls the builder for one descriptor. Errors from the builder are returned as they
// are.
func (r *Registry) construct(ctx context.Context, d *Descriptor, deps []any) (any, error) {
	start := time.Now()
	instance, err := r.builder.Build(ctx, d.constructible, deps)
	if err != nil {
		r.logger.Warn().
			Err(err).
			Str("service", d.key).
			Msg("service construction failed")
		return nil, err
	}

	r.logger.Debug().
		Str("service", d.key).
		Strs("dependencies", d.dependencyKeys).
		Dur("elapsed", time.Since(start)).
		Msg("service constructed")
	return instance, nil
}

type resolutionKeyType int

const resolutionKey resolutionKeyType = 0

// activeResolution marks a context handed to a constructor. It is only valid while that
// constructor runs, which is when the resolution lock is held.
type activeResolution struct {
	registry *Registry
	path     visitPath
}

func withResolution(ctx context.Context, r *Registry, path visitPath) context.Context {
	return context.WithValue(ctx, resolutionKey, &activeResolution{registry: r, path: path})
}
