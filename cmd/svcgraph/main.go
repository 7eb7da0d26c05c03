// Command svcgraph checks a service manifest: it registers every service with a stand-in
// constructor, validates the dependency graph, resolves it and prints the construction order of
// each key.
//
//	svcgraph --resolve service --timing services.yaml
package main

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/pflag"
)

func main() {
	cfg, err := loadConfig(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		_, _ = os.Stderr.WriteString("svcgraph: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := newLogger(cfg, os.Stderr)
	if err := run(context.Background(), cfg, os.Stdout, logger); err != nil {
		logger.Error().Err(err).Msg("svcgraph failed")
		os.Exit(1)
	}
}
