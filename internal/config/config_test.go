package config

import (
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Dt != DefaultDt {
		t.Errorf("unexpected dt %f", cfg.Dt)
	}
	if cfg.Engine != "chipmunk" {
		t.Errorf("unexpected engine %q", cfg.Engine)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Engine = "kinematic"
	cfg.Preset = ""
	cfg.Scene = "scenes/arm.yaml"
	cfg.Watch = true

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Engine != "kinematic" || loaded.Scene != "scenes/arm.yaml" || !loaded.Watch {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
}

func TestValidate(t *testing.T) {
	bad := &Config{Dt: 0}
	if err := bad.Validate(); err == nil {
		t.Errorf("dt=0 accepted")
	}

	conflict := &Config{Dt: 0.01, Scene: "a.yaml", Preset: "pendulum"}
	if err := conflict.Validate(); err == nil {
		t.Errorf("scene+preset conflict accepted")
	}
}
