// Package manifest reads service registrations from a configuration file and adds them to a
// svcreg.Registry. A manifest names each service by key, says which constructor builds it by
// type name, and lists its dependency keys in argument order:
//
//	services:
//	  - key: service
//	    type: two
//	    dependencies: [one.dependency, another.dependency]
//	  - key: one.dependency
//	    type: one
//	    dependencies: [dependency]
//
// Files are read with viper, so YAML, JSON and TOML all work.
package manifest

import (
	"errors"
	"fmt"
	"io"

	"github.com/gburgyan/go-svcreg"
	"github.com/spf13/viper"
)

// Service is one registration.
type Service struct {
	Key          string   `yaml:"key" mapstructure:"key"`
	Type         string   `yaml:"type" mapstructure:"type"`
	Dependencies []string `yaml:"dependencies" mapstructure:"dependencies"`
}

// Manifest is an ordered list of registrations.
type Manifest struct {
	Services []Service `yaml:"services" mapstructure:"services"`
}

// Catalog maps type names used in a manifest to constructibles.
type Catalog map[string]any

// UnknownTypeError is returned by Register when a service names a type the catalog does not
// have.
type UnknownTypeError struct {
	Key  string
	Type string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("service %s: unknown type %q", e.Key, e.Type)
}

// Load reads a manifest file. The format is taken from the file extension.
func Load(path string) (*Manifest, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	return unmarshal(v, path)
}

// Parse reads a manifest from r. The format is any viper understands: "yaml", "json", "toml".
func Parse(r io.Reader, format string) (*Manifest, error) {
	v := viper.New()
	v.SetConfigType(format)
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("failed to parse %s manifest: %w", format, err)
	}
	return unmarshal(v, format+" manifest")
}

func unmarshal(v *viper.Viper, source string) (*Manifest, error) {
	m := &Manifest{}
	if err := v.Unmarshal(m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", source, err)
	}
	return m, nil
}

// Validate checks that every service has a key and a type and that no key is used twice. All
// problems are reported together.
func (m *Manifest) Validate() error {
	var errs []error
	seen := map[string]int{}
	for i, s := range m.Services {
		if s.Key == "" {
			errs = append(errs, fmt.Errorf("services[%d].key is required", i))
			continue
		}
		if s.Type == "" {
			errs = append(errs, fmt.Errorf("services[%d].type is required (key: %s)", i, s.Key))
		}
		if first, found := seen[s.Key]; found {
			errs = append(errs, fmt.Errorf("services[%d].key %s already used by services[%d]", i, s.Key, first))
			continue
		}
		seen[s.Key] = i
	}
	return errors.Join(errs...)
}

// Keys returns the service keys in manifest order.
func (m *Manifest) Keys() []string {
	keys := make([]string, len(m.Services))
	for i, s := range m.Services {
		keys[i] = s.Key
	}
	return keys
}

// Register adds every service to reg, in manifest order, using the catalog to find each
// constructible. It stops at the first failure. Errors from the registry are returned as they
// are, so errors.Is(err, svcreg.ErrReadOnly) and the like work.
func (m *Manifest) Register(reg *svcreg.Registry, catalog Catalog) error {
	return m.RegisterEach(reg, func(s Service) (any, error) {
		constructible, found := catalog[s.Type]
		if !found {
			return nil, &UnknownTypeError{Key: s.Key, Type: s.Type}
		}
		return constructible, nil
	})
}

// RegisterEach is Register with the constructible of each service chosen by fn. Returning the
// Service itself together with a custom svcreg.Builder is a way to build services whose
// behavior depends on the manifest entry.
func (m *Manifest) RegisterEach(reg *svcreg.Registry, fn func(s Service) (any, error)) error {
	for _, s := range m.Services {
		constructible, err := fn(s)
		if err != nil {
			return err
		}
		if err := reg.Register(s.Key, constructible, s.Dependencies...); err != nil {
			return err
		}
	}
	return nil
}
