package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gburgyan/go-svcreg"
	"github.com/gburgyan/go-svcreg/manifest"
	"github.com/gburgyan/go-timing"
	"github.com/rs/zerolog"
)

// Node stands in for a real service. Its dependencies are the nodes of its dependency keys.
type Node struct {
	Key          string
	Type         string
	Dependencies []*Node
}

// buildNode is the builder for every manifest entry: the constructible is the manifest.Service
// itself.
func buildNode(_ context.Context, constructible any, dependencies []any) (any, error) {
	s, ok := constructible.(manifest.Service)
	if !ok {
		return nil, fmt.Errorf("unexpected constructible %T", constructible)
	}
	n := &Node{Key: s.Key, Type: s.Type}
	for _, dep := range dependencies {
		depNode, ok := dep.(*Node)
		if !ok {
			return nil, fmt.Errorf("service %s: unexpected dependency %T", s.Key, dep)
		}
		n.Dependencies = append(n.Dependencies, depNode)
	}
	return n, nil
}

// run loads the manifest, checks the graph, resolves it and writes the report to out.
func run(ctx context.Context, cfg *Config, out io.Writer, logger zerolog.Logger) error {
	m, err := manifest.Load(cfg.Manifest)
	if err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		return fmt.Errorf("invalid manifest %s: %w", cfg.Manifest, err)
	}

	mode := svcreg.TimingDisable
	if cfg.Timing {
		mode = svcreg.TimingConstructors
	}
	reg := svcreg.New(
		svcreg.WithBuilder(svcreg.BuilderFunc(buildNode)),
		svcreg.WithLogger(logger),
		svcreg.WithTiming(mode),
	)
	if err := m.RegisterEach(reg, func(s manifest.Service) (any, error) {
		return s, nil
	}); err != nil {
		return err
	}
	reg.Close()
	logger.Info().Int("services", len(m.Services)).Str("manifest", cfg.Manifest).Msg("manifest registered")

	if err := reg.Validate(); err != nil {
		return fmt.Errorf("invalid service graph: %w", err)
	}

	keys := cfg.Resolve
	if len(keys) == 0 {
		keys = m.Keys()
	}

	var timingCtx *timing.Context
	if cfg.Timing {
		timingCtx = timing.Root(ctx)
		ctx = timingCtx
	}

	if err := reg.Warm(ctx, keys...); err != nil {
		return err
	}

	for _, key := range keys {
		order, err := reg.ResolutionOrder(key)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "%s: %s\n", key, strings.Join(order, " -> "))
	}
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, reg.Status())

	if timingCtx != nil {
		_, _ = fmt.Fprintln(out)
		_, _ = fmt.Fprintln(out, timingCtx.String())
	}
	return nil
}
