package svcreg

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarm_All(t *testing.T) {
	log := &constructionLog{}
	reg := New()
	mustRegister(t, reg, "service", log.constructor("service"), "dependency")
	mustRegister(t, reg, "dependency", log.constructor("dependency"))
	mustRegister(t, reg, "another", log.constructor("another"))
	reg.Close()

	require.NoError(t, reg.Warm(context.Background()))

	// Sorted key order, dependencies built on the way.
	assert.Equal(t, []string{"another", "dependency", "service"}, log.keys)
	for _, key := range reg.Keys() {
		assert.True(t, mustResolved(t, reg, key))
	}
}

func TestWarm_SelectedKeys(t *testing.T) {
	log := &constructionLog{}
	reg := New()
	mustRegister(t, reg, "service", log.constructor("service"), "dependency")
	mustRegister(t, reg, "dependency", log.constructor("dependency"))
	mustRegister(t, reg, "unused", log.constructor("unused"))

	require.NoError(t, reg.Warm(context.Background(), "service"))

	assert.Equal(t, []string{"dependency", "service"}, log.keys)
	assert.False(t, mustResolved(t, reg, "unused"))
}

func TestWarm_CollectsFailures(t *testing.T) {
	expected := errors.New("boom")
	log := &constructionLog{}
	reg := New()
	mustRegister(t, reg, "a.broken", func() (*testWidget, error) { return nil, expected })
	mustRegister(t, reg, "b.missing", log.constructor("b.missing"), "ghost")
	mustRegister(t, reg, "c.fine", log.constructor("c.fine"))

	err := reg.Warm(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, expected))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, []string{"c.fine"}, log.keys)
	assert.True(t, mustResolved(t, reg, "c.fine"))
	assert.False(t, mustResolved(t, reg, "a.broken"))
}

func TestWarm_CancelledContext(t *testing.T) {
	log := &constructionLog{}
	reg := New()
	mustRegister(t, reg, "a", log.constructor("a"))
	mustRegister(t, reg, "b", log.constructor("b"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := reg.Warm(ctx)

	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, log.keys)
}
