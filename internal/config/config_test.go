package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Nodes != 2 {
		t.Errorf("Nodes = %d, want 2", cfg.Nodes)
	}
	if cfg.BasePort != 9000 {
		t.Errorf("BasePort = %d, want 9000", cfg.BasePort)
	}
	if cfg.Network != "regtest" {
		t.Errorf("Network = %q, want regtest", cfg.Network)
	}
	if cfg.PollInterval != 1*time.Second {
		t.Errorf("PollInterval = %v, want 1s", cfg.PollInterval)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvDataDir, "/tmp/custom")
	t.Setenv(EnvBackendDir, "/tmp/backend")
	t.Setenv(EnvInstallDir, "")

	cfg := DefaultConfig()
	cfg.InstallDir = "/opt/tools"
	ApplyEnv(cfg)

	if cfg.DataDir != "/tmp/custom" {
		t.Errorf("DataDir = %q, want /tmp/custom", cfg.DataDir)
	}
	if cfg.BackendDataDir != "/tmp/backend" {
		t.Errorf("BackendDataDir = %q, want /tmp/backend", cfg.BackendDataDir)
	}
	// Empty variable must not clobber an existing value
	if cfg.InstallDir != "/opt/tools" {
		t.Errorf("InstallDir = %q, want /opt/tools", cfg.InstallDir)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "harness.yaml")
	content := []byte("nodes: 4\nnetwork: simnet\npoll_interval: 500ms\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Nodes != 4 {
		t.Errorf("Nodes = %d, want 4", cfg.Nodes)
	}
	if cfg.Network != "simnet" {
		t.Errorf("Network = %q, want simnet", cfg.Network)
	}
	if cfg.PollInterval != 500*time.Millisecond {
		t.Errorf("PollInterval = %v, want 500ms", cfg.PollInterval)
	}
	// Unset fields keep their defaults
	if cfg.BasePort != 9000 {
		t.Errorf("BasePort = %d, want default 9000", cfg.BasePort)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadBadDuration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "harness.yaml")
	if err := os.WriteFile(path, []byte("poll_interval: soon\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for unparseable duration")
	}
}

func TestLoadBadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("nodes: [not an int\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}
