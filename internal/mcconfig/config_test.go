package mcconfig

import (
	"errors"
	"os"
	"testing"
)

func TestLoadRequiresInputPath(t *testing.T) {
	_, err := Load("")
	if !errors.Is(err, ErrMissingInputPath) {
		t.Fatalf("got %v, want ErrMissingInputPath", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	os.Setenv("MCVERIFY_INPUT_PATH", "/tmp/blocks.cbor")
	defer os.Unsetenv("MCVERIFY_INPUT_PATH")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.InputPath != "/tmp/blocks.cbor" {
		t.Errorf("InputPath = %q, want /tmp/blocks.cbor", cfg.InputPath)
	}
	if cfg.Preset != string(PresetDatastore) {
		t.Errorf("Preset = %q, want datastore (the spec's default preset)", cfg.Preset)
	}
	if cfg.Tolerant {
		t.Errorf("Tolerant should default to false (propagate-first)")
	}
}

func TestLoadEnvOverridesPreset(t *testing.T) {
	os.Setenv("MCVERIFY_INPUT_PATH", "/tmp/blocks.cbor")
	os.Setenv("MCVERIFY_PRESET", "transactor")
	defer os.Unsetenv("MCVERIFY_INPUT_PATH")
	defer os.Unsetenv("MCVERIFY_PRESET")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Preset != "transactor" {
		t.Errorf("Preset = %q, want transactor", cfg.Preset)
	}
}

func TestValidateRejectsUnknownPreset(t *testing.T) {
	cfg := Default()
	cfg.InputPath = "/tmp/blocks.cbor"
	cfg.Preset = "bogus"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for an unknown preset")
	}
}
