package svcreg

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// The error kinds reported by the registry. Every *DependencyError unwraps to exactly one of
// these, so callers match with errors.Is:
//
//	if errors.Is(err, svcreg.ErrNotFound) { ... }
var (
	ErrNotFound           = errors.New("service not found")
	ErrAlreadyRegistered  = errors.New("service already registered")
	ErrReadOnly           = errors.New("registry is read-only")
	ErrCircularDependency = errors.New("circular dependency")
	ErrNilDescriptor      = errors.New("descriptor is nil")
)

// DependencyError is returned by the registry for every failure it detects itself. Failures
// of the constructors are never turned into a DependencyError; they are returned as-is.
type DependencyError struct {
	// Kind is one of ErrNotFound, ErrAlreadyRegistered, ErrReadOnly, ErrCircularDependency or
	// ErrNilDescriptor.
	Kind error
	// Key is the key the failing operation was about. For cycles it is the key that was
	// found twice on the visitation path.
	Key string
	// Path is only set for cycles: the keys taking part in the cycle, starting and ending
	// with Key.
	Path []string
	// Status is a snapshot of Registry.Status taken when a cycle is detected.
	Status string
}

func (e *DependencyError) Error() string {
	if len(e.Path) > 0 {
		return fmt.Sprintf("%v: %s", e.Kind, strings.Join(e.Path, " -> "))
	}
	if e.Key == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Key)
}

func (e *DependencyError) Unwrap() error {
	return e.Kind
}

func notFoundError(key string) error {
	return &DependencyError{Kind: ErrNotFound, Key: key}
}

// BuildError reports a constructible that the ReflectBuilder does not know how to call with
// the dependencies it was given.
type BuildError struct {
	Message         string
	ConstructorType reflect.Type
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.ConstructorType)
}

// TypeError is returned by the typed accessors when the resolved instance does not have the
// requested type.
type TypeError struct {
	Key      string
	Actual   reflect.Type
	Expected reflect.Type
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("service %s is %v, expected %v", e.Key, e.Actual, e.Expected)
}
