// Package config provides configuration management for go-regtest-harness.
package config

import (
	"os"
	"time"
)

// Environment variables honored by the harness. These take precedence over
// config-file values but lose to explicit flags.
const (
	EnvDataDir    = "HARNESS_DATA_DIR"
	EnvBackendDir = "HARNESS_BACKEND_DIR"
	EnvInstallDir = "HARNESS_INSTALL_DIR"
)

// Config holds all configuration options for the harness.
// The YAML file schema lives in fileConfig; see file.go.
type Config struct {
	// Network topology
	Nodes    int    // number of payment-channel daemons
	BasePort int    // node i listens on BasePort + i
	Host     string // listen host written into node configs
	Network  string // regtest or simnet

	// Paths
	DataDir        string // parent of per-node data dirs
	BackendDataDir string // chaind data dir
	InstallDir     string // explicit executable location

	// Node daemon config generation
	NodeLogLevel string // log-level written into lpd.conf

	// Supervisor
	PollInterval time.Duration // backend liveness poll interval
	ReadyTimeout time.Duration // overall readiness deadline
	StopTimeout  time.Duration // per-process termination wait
	StartAll     bool          // launch every node, not just registered ones

	// Observability
	MetricsAddr string // empty = metrics server disabled
	Verbose     bool
	LogFormat   string // json, text
	LogLevel    string

	// Interactive behavior
	NonInteractive bool // never prompt; fail if data_dir unresolved
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Nodes:    2,
		BasePort: 9000,
		Host:     "127.0.0.1",
		Network:  "regtest",

		NodeLogLevel: "debug",

		PollInterval: 1 * time.Second,
		ReadyTimeout: 60 * time.Second,
		StopTimeout:  10 * time.Second,

		Verbose:   false,
		LogFormat: "text",
		LogLevel:  "info",
	}
}

// ApplyEnv overlays environment-variable overrides onto the config.
// Empty variables are ignored so file/default values survive.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv(EnvDataDir); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv(EnvBackendDir); v != "" {
		cfg.BackendDataDir = v
	}
	if v := os.Getenv(EnvInstallDir); v != "" {
		cfg.InstallDir = v
	}
}
