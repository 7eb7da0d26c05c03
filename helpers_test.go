package svcreg

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type testWidget struct {
	Val int
}

type testDoodad struct {
	Val string
}

// The test services carry a field so that two instances never share an address.
type serviceWithoutDependencies struct {
	id int
}

type anotherServiceWithoutDependencies struct {
	id int
}

type serviceWithOneDependency struct {
	dependency any
}

type serviceWithTwoDependencies struct {
	dependency        any
	anotherDependency any
}

func newServiceWithoutDependencies() *serviceWithoutDependencies {
	return &serviceWithoutDependencies{}
}

func newAnotherServiceWithoutDependencies() *anotherServiceWithoutDependencies {
	return &anotherServiceWithoutDependencies{}
}

func newServiceWithOneDependency(dependency any) *serviceWithOneDependency {
	return &serviceWithOneDependency{dependency: dependency}
}

func newServiceWithTwoDependencies(dependency, anotherDependency any) *serviceWithTwoDependencies {
	return &serviceWithTwoDependencies{dependency: dependency, anotherDependency: anotherDependency}
}

// constructionLog records the order constructors are called in.
type constructionLog struct {
	keys []string
}

// constructor returns a Constructor for key that records its call and returns the key and its
// dependencies.
func (l *constructionLog) constructor(key string) Constructor {
	return func(deps ...any) (any, error) {
		l.keys = append(l.keys, key)
		return &testNode{key: key, deps: deps}, nil
	}
}

func (l *constructionLog) count(key string) int {
	n := 0
	for _, k := range l.keys {
		if k == key {
			n++
		}
	}
	return n
}

type testNode struct {
	key  string
	deps []any
}

func mustRegister(t *testing.T, r *Registry, key string, constructible any, deps ...string) {
	t.Helper()
	require.NoError(t, r.Register(key, constructible, deps...), fmt.Sprintf("Register(%q)", key))
}

func mustResolved(t *testing.T, r *Registry, key string) bool {
	t.Helper()
	resolved, err := r.IsResolved(key)
	require.NoError(t, err)
	return resolved
}
