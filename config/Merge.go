package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Merge returns the options in base overridden by those in override.
// Keys in override take precedence, including keys explicitly set to
// nil. Neither argument is modified.
func Merge(base, override map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(base)+len(override))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range override {
		merged[k] = v
	}
	return merged
}

// ToMap returns the options of c as a map from option name to value
func ToMap(c Config) (map[string]interface{}, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("toMap: could not encode config: %w", err)
	}

	m := make(map[string]interface{})
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("toMap: could not decode config: %w", err)
	}
	return m, nil
}

// FromMap decodes a full option map into a Config. Options missing from
// m or set to nil are left at their zero value, so m should already be
// merged over the defaults. Unknown option names are an error.
func FromMap(m map[string]interface{}) (Config, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return Config{}, fmt.Errorf("fromMap: could not encode options: %w",
			err)
	}

	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return Config{}, fmt.Errorf("fromMap: could not decode options: %w",
			err)
	}
	return c, nil
}

// WithDefaults merges override over the default options and decodes
// the result
func WithDefaults(override map[string]interface{}) (Config, error) {
	defaults, err := ToMap(Defaults())
	if err != nil {
		return Config{}, err
	}
	return FromMap(Merge(defaults, override))
}

// Load reads a YAML option map from the file at path and merges it over
// the default options
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load: %w", err)
	}

	override := make(map[string]interface{})
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Config{}, fmt.Errorf("load: could not parse %v: %w", path, err)
	}

	c, err := WithDefaults(override)
	if err != nil {
		return Config{}, fmt.Errorf("load: %v: %w", path, err)
	}
	return c, nil
}
