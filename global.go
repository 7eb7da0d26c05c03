package svcreg

import (
	"context"
	"reflect"

	"github.com/rs/zerolog"
)

type TimingMode int

const (
	// TimingDisable will disable timing for all resolutions.
	TimingDisable TimingMode = iota

	// TimingConstructors will start a timing context for each constructor that is called. The
	// context passed to GetContext needs to carry a go-timing root for the results to be
	// collected. This is useful to see where the time of a resolution is being spent, and the
	// nesting shows the exact stack of the resolution.
	TimingConstructors
)

// Option is a functional option for configuring a Registry.
type Option func(*Registry)

// WithBuilder replaces the default ReflectBuilder.
func WithBuilder(builder Builder) Option {
	return func(r *Registry) {
		r.builder = builder
	}
}

// WithLogger sets the logger used for registration, construction and warm-up events. The
// default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithTiming sets the TimingMode of the registry.
func WithTiming(mode TimingMode) Option {
	return func(r *Registry) {
		r.timing = mode
	}
}

type registryKeyType int

const registryKey registryKeyType = 0

// NewContext returns a copy of ctx that carries the registry.
func NewContext(ctx context.Context, r *Registry) context.Context {
	return context.WithValue(ctx, registryKey, r)
}

// FromContext finds the Registry stored by NewContext. If there is none this function panics.
func FromContext(ctx context.Context) *Registry {
	value := ctx.Value(registryKey)
	if value == nil {
		panic("no service registry available")
	}
	r, ok := value.(*Registry)
	if !ok {
		// We should never get here.
		panic("service registry unexpected type")
	}
	return r
}

// Get resolves key and returns the instance as a T. If the instance is not a T, a *TypeError is
// returned.
//
//	db, err := svcreg.Get[*Database](reg, "db")
func Get[T any](r *Registry, key string) (T, error) {
	return getTyped[T](context.Background(), r, key)
}

// MustGet behaves like Get except it will panic if the service cannot be resolved or has the
// wrong type. Handy in composition roots where a broken wiring is a programming error.
func MustGet[T any](r *Registry, key string) T {
	result, err := Get[T](r, key)
	if err != nil {
		panic(err)
	}
	return result
}

// GetFromContext resolves key as a T from the registry stored in ctx. The context is also
// passed on to GetContext.
func GetFromContext[T any](ctx context.Context, key string) (T, error) {
	return getTyped[T](ctx, FromContext(ctx), key)
}

func getTyped[T any](ctx context.Context, r *Registry, key string) (T, error) {
	var zero T
	instance, err := r.GetContext(ctx, key)
	if err != nil {
		return zero, err
	}
	result, ok := instance.(T)
	if !ok {
		return zero, &TypeError{
			Key:      key,
			Actual:   reflect.TypeOf(instance),
			Expected: reflect.TypeOf((*T)(nil)).Elem(),
		}
	}
	return result, nil
}
