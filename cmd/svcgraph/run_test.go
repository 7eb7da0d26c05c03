package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gburgyan/go-svcreg"
	"github.com/gburgyan/go-svcreg/manifest"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const diamondManifest = `
services:
  - key: service
    type: two
    dependencies: [one.dependency, another.dependency]
  - key: one.dependency
    type: one
    dependencies: [dependency]
  - key: another.dependency
    type: one
    dependencies: [dependency]
  - key: dependency
    type: none
`

func writeManifest(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "services.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func manifestService(key string) manifest.Service {
	return manifest.Service{Key: key, Type: "test"}
}

func TestRun(t *testing.T) {
	cfg := &Config{Manifest: writeManifest(t, diamondManifest)}
	cfg.ApplyDefaults()
	out := &bytes.Buffer{}

	err := run(context.Background(), cfg, out, zerolog.Nop())

	require.NoError(t, err)
	assert.Contains(t, out.String(), "service: dependency -> one.dependency -> another.dependency -> service\n")
	assert.Contains(t, out.String(), "dependency: dependency\n")
	assert.Contains(t, out.String(), "registry - closed\n")
	assert.Contains(t, out.String(), "service - resolved - deps: [one.dependency, another.dependency] - constructor: manifest.Service")
}

func TestRun_SelectedKeys(t *testing.T) {
	cfg := &Config{Manifest: writeManifest(t, diamondManifest), Resolve: []string{"one.dependency"}}
	out := &bytes.Buffer{}

	require.NoError(t, run(context.Background(), cfg, out, zerolog.Nop()))

	assert.Contains(t, out.String(), "one.dependency: dependency -> one.dependency\n")
	assert.Contains(t, out.String(), "another.dependency - unresolved")
	assert.NotContains(t, out.String(), "service:")
}

func TestRun_Timing(t *testing.T) {
	cfg := &Config{Manifest: writeManifest(t, diamondManifest), Timing: true}
	out := &bytes.Buffer{}

	require.NoError(t, run(context.Background(), cfg, out, zerolog.Nop()))

	assert.Contains(t, out.String(), "one.dependency")
}

func TestRun_Cycle(t *testing.T) {
	cfg := &Config{Manifest: writeManifest(t, `
services:
  - key: service
    type: one
    dependencies: [one.dependency]
  - key: one.dependency
    type: one
    dependencies: [circular.dependency]
  - key: circular.dependency
    type: one
    dependencies: [service]
`)}
	out := &bytes.Buffer{}

	err := run(context.Background(), cfg, out, zerolog.Nop())

	assert.True(t, errors.Is(err, svcreg.ErrCircularDependency))
	assert.Empty(t, out.String())
}

func TestRun_MissingDependency(t *testing.T) {
	cfg := &Config{Manifest: writeManifest(t, `
services:
  - key: service
    type: one
    dependencies: [ghost]
`)}

	err := run(context.Background(), cfg, &bytes.Buffer{}, zerolog.Nop())

	assert.True(t, errors.Is(err, svcreg.ErrNotFound))
}

func TestRun_InvalidManifest(t *testing.T) {
	cfg := &Config{Manifest: writeManifest(t, `
services:
  - key: a
    type: none
  - key: a
    type: none
`)}

	err := run(context.Background(), cfg, &bytes.Buffer{}, zerolog.Nop())

	assert.ErrorContains(t, err, "already used")
}

func TestRun_UnknownKey(t *testing.T) {
	cfg := &Config{Manifest: writeManifest(t, diamondManifest), Resolve: []string{"nothing"}}

	err := run(context.Background(), cfg, &bytes.Buffer{}, zerolog.Nop())

	assert.True(t, errors.Is(err, svcreg.ErrNotFound))
}

func TestBuildNode(t *testing.T) {
	dep := &Node{Key: "dependency"}

	instance, err := buildNode(context.Background(), manifestService("service"), []any{dep})
	require.NoError(t, err)
	assert.Equal(t, &Node{Key: "service", Type: "test", Dependencies: []*Node{dep}}, instance)

	_, err = buildNode(context.Background(), "not a service", nil)
	assert.Error(t, err)

	_, err = buildNode(context.Background(), manifestService("service"), []any{"not a node"})
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	out := &bytes.Buffer{}
	logger := newLogger(&Config{LogLevel: "warn", LogFormat: "json"}, out)

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), `"message":"shown"`)
	assert.Contains(t, out.String(), `"component":"svcgraph"`)
}
