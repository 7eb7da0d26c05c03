package main

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// newLogger builds the logger handed to the registry. An unknown level falls back to info.
func newLogger(cfg *Config, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var zl zerolog.Logger
	if cfg.LogFormat == "console" {
		zl = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen})
	} else {
		zl = zerolog.New(out)
	}
	return zl.Level(level).With().Timestamp().Str("component", "svcgraph").Logger()
}
