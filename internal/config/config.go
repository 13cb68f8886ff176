// Package config holds the resolved configuration for a naming pass.
//
// Configuration comes from an optional YAML file merged with CLI flags;
// the engine validates it once before any declaration is processed and
// never coerces invalid values.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config controls how names are synthesized during a pass.
type Config struct {
	// Prefix is prepended to every synthesized name. Required.
	Prefix string `yaml:"prefix"`

	// ExportPrefix, when set, replaces Prefix for stack output exports.
	ExportPrefix string `yaml:"exportPrefix"`

	// GenerateExports enables the export-naming pass over stack outputs.
	GenerateExports bool `yaml:"generateExports"`

	// StripFunctionSuffix removes the trailing "LambdaFunction" token from
	// a function's logical id before case conversion.
	StripFunctionSuffix bool `yaml:"stripFunctionSuffix"`

	// WarnOnUnknownType emits a diagnostic when a resource's type has no
	// naming rule. The resource is left untouched either way.
	WarnOnUnknownType bool `yaml:"warnOnUnknownType"`
}

// Default returns the configuration used when no file or flags are given.
func Default() Config {
	return Config{WarnOnUnknownType: true}
}

// ValidationError reports a configuration field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Message)
}

// Validate checks field constraints. Called once per pass, before any
// declaration is touched; a failure is fatal for the whole pass.
func (c Config) Validate() error {
	if c.Prefix == "" {
		return &ValidationError{Field: "prefix", Message: "must be a non-empty string"}
	}
	return nil
}

// Load reads a YAML configuration file. Unknown keys are rejected so a
// typo in a config file fails fast instead of being silently ignored.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			// Empty file: defaults apply.
			return cfg, nil
		}
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}
