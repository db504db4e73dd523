package bind

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Config holds framework-wide binding defaults. They apply to every
// descriptor a [Config] compiles, before per-statement [Options].
type Config struct {
	// Validation participation defaults. Deliberately on, inverting the
	// usual toolkit default: models written for this framework are expected
	// to always take part in validation. Embedders that want toolkit
	// behavior back turn these off here rather than per statement.
	ValidatesOnDataErrors bool `yaml:"validates-on-data-errors"`
	ValidatesOnExceptions bool `yaml:"validates-on-exceptions"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		ValidatesOnDataErrors: true,
		ValidatesOnExceptions: true,
	}
}

// ReadConfig reads a YAML configuration, with unset fields taking their
// default values.
func ReadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if err == io.EOF {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read binding config: %w", err)
	}
	return cfg, nil
}
