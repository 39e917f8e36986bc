// Package mcconfig provides configuration loading for cmd/mcverify,
// following the same koanf-based pattern the teacher's internal/config
// uses for the API server: a file provider merged with environment
// variable overrides into a typed struct.
package mcconfig

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix is stripped (and case-folded) from MCVERIFY_-prefixed
// environment variables when they override file-loaded keys.
const envPrefix = "MCVERIFY_"

// Preset names the two DeserializerMap policies a caller may select.
type Preset string

const (
	PresetTransactor Preset = "transactor"
	PresetDatastore  Preset = "datastore"
)

// Config holds every setting cmd/mcverify needs. There is no database,
// network listener, or secret material here — the core this module
// wraps is pure and stateless (spec.md §5); the only state is "which
// file to read and how strictly to read it."
type Config struct {
	InputPath           string `koanf:"input_path"`
	Preset              string `koanf:"preset"`               // "transactor" | "datastore"
	StrictArrayElements bool   `koanf:"strict_array_elements"` // toggles spec.md §9's skip-quirk
	Tolerant            bool   `koanf:"tolerant"`              // continue past per-block errors
	LogLevel            string `koanf:"log_level"`             // debug|info|warn|error
	LogFormat           string `koanf:"log_format"`            // "json" | "text"
	MetricsAddr         string `koanf:"metrics_addr"`          // empty disables the metrics server
}

// ErrMissingInputPath is returned when no input file was configured.
var ErrMissingInputPath = errors.New("input_path is required")

// Default returns the zero-configuration defaults: datastore preset,
// lenient array-element handling (spec.md §9's preserved quirk),
// propagate-first error handling, text logs at info level, metrics off.
func Default() Config {
	return Config{
		Preset:    string(PresetDatastore),
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load builds a Config by layering, in order: defaults, an optional YAML
// file at path (skipped entirely if path is empty or does not exist),
// then MCVERIFY_-prefixed environment variables. This mirrors the
// teacher's internal/config loading order (file then env override).
func Load(path string) (Config, error) {
	k := koanf.New(".")

	cfg := Default()
	if err := k.Load(structProvider(cfg), nil); err != nil {
		return Config{}, fmt.Errorf("mcconfig: loading defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return Config{}, fmt.Errorf("mcconfig: loading %s: %w", path, err)
			}
		}
	}

	if err := k.Load(envProvider(), nil); err != nil {
		return Config{}, fmt.Errorf("mcconfig: loading environment: %w", err)
	}

	var out Config
	if err := k.Unmarshal("", &out); err != nil {
		return Config{}, fmt.Errorf("mcconfig: unmarshal: %w", err)
	}

	if err := out.Validate(); err != nil {
		return Config{}, err
	}
	return out, nil
}

// Validate reports whether cfg is complete enough to run.
func (c Config) Validate() error {
	if c.InputPath == "" {
		return ErrMissingInputPath
	}
	if c.Preset != string(PresetTransactor) && c.Preset != string(PresetDatastore) {
		return fmt.Errorf("mcconfig: preset must be %q or %q, got %q", PresetTransactor, PresetDatastore, c.Preset)
	}
	return nil
}

// structProvider exposes a Config's values (Load passes Default()) as a
// koanf.Provider so Load's layering can start from Default() instead of
// koanf's own zero values.
func structProvider(cfg Config) koanf.Provider {
	return confmapProvider{
		"input_path":            cfg.InputPath,
		"preset":                cfg.Preset,
		"strict_array_elements": cfg.StrictArrayElements,
		"tolerant":              cfg.Tolerant,
		"log_level":             cfg.LogLevel,
		"log_format":            cfg.LogFormat,
		"metrics_addr":          cfg.MetricsAddr,
	}
}

type confmapProvider map[string]interface{}

func (c confmapProvider) ReadBytes() ([]byte, error) {
	return nil, errors.New("mcconfig: confmapProvider does not support ReadBytes")
}

func (c confmapProvider) Read() (map[string]interface{}, error) {
	return map[string]interface{}(c), nil
}

// envProvider reads MCVERIFY_-prefixed environment variables, lower-
// casing and stripping the prefix to match the koanf struct tags above
// (e.g. MCVERIFY_INPUT_PATH -> input_path).
func envProvider() koanf.Provider {
	return envMapProvider{}
}

type envMapProvider struct{}

func (envMapProvider) ReadBytes() ([]byte, error) {
	return nil, errors.New("mcconfig: envMapProvider does not support ReadBytes")
}

func (envMapProvider) Read() (map[string]interface{}, error) {
	out := make(map[string]interface{})
	for _, kv := range os.Environ() {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 || !strings.HasPrefix(parts[0], envPrefix) {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(parts[0], envPrefix))
		out[key] = parts[1]
	}
	return out, nil
}
