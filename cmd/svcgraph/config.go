package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "SVCGRAPH"

// Config holds the settings of one svcgraph run. Every field can come from a flag or from a
// SVCGRAPH_ environment variable (SVCGRAPH_LOG_LEVEL for --log-level), and the environment can
// be seeded from a .env file.
type Config struct {
	Manifest  string   `mapstructure:"manifest"`
	LogLevel  string   `mapstructure:"log-level"`
	LogFormat string   `mapstructure:"log-format"`
	Timing    bool     `mapstructure:"timing"`
	EnvFile   string   `mapstructure:"env-file"`
	Resolve   []string `mapstructure:"resolve"`
}

// ApplyDefaults fills in unset fields.
func (c *Config) ApplyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "console"
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Manifest == "" {
		return fmt.Errorf("manifest is required")
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("log-format must be one of [console, json] (got: %s)", c.LogFormat)
	}
	return nil
}

// loadConfig parses args, loads the .env file and merges flags with the environment. Flags
// given on the command line win over the environment.
func loadConfig(args []string, stderr io.Writer) (*Config, error) {
	fs := pflag.NewFlagSet("svcgraph", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		_, _ = fmt.Fprintln(stderr, "usage: svcgraph [flags] <manifest>")
		fs.PrintDefaults()
	}
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.String("log-format", "console", "log format (console or json)")
	fs.Bool("timing", false, "print construction timings")
	fs.String("env-file", ".env", "environment file to load if present")
	fs.StringSlice("resolve", nil, "keys to resolve (default all)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	envFile, _ := fs.GetString("env-file")
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
			}
		}
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}
	if err := v.BindEnv("manifest"); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		v.Set("manifest", fs.Arg(0))
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
