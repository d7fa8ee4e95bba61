package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Load builds a Config from defaults, an optional YAML file, and the
// environment, in that order of increasing precedence.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := mergeFile(cfg, path); err != nil {
			return nil, err
		}
	}

	ApplyEnv(cfg)
	return cfg, nil
}

// fileConfig is the YAML schema of the config file. Pointer fields
// distinguish "absent" from "zero" so the file only overrides what it names;
// durations are strings in time.ParseDuration form ("500ms", "1m").
type fileConfig struct {
	Nodes    *int    `yaml:"nodes"`
	BasePort *int    `yaml:"base_port"`
	Host     *string `yaml:"host"`
	Network  *string `yaml:"network"`

	DataDir        *string `yaml:"data_dir"`
	BackendDataDir *string `yaml:"backend_data_dir"`
	InstallDir     *string `yaml:"install_dir"`

	NodeLogLevel *string `yaml:"node_log_level"`

	PollInterval *string `yaml:"poll_interval"`
	ReadyTimeout *string `yaml:"ready_timeout"`
	StopTimeout  *string `yaml:"stop_timeout"`
	StartAll     *bool   `yaml:"start_all"`

	MetricsAddr    *string `yaml:"metrics_addr"`
	Verbose        *bool   `yaml:"verbose"`
	LogFormat      *string `yaml:"log_format"`
	LogLevel       *string `yaml:"log_level"`
	NonInteractive *bool   `yaml:"non_interactive"`
}

// mergeFile decodes the YAML file at path over the given config.
// Fields absent from the file keep their current values.
func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setInt(&cfg.Nodes, fc.Nodes)
	setInt(&cfg.BasePort, fc.BasePort)
	setString(&cfg.Host, fc.Host)
	setString(&cfg.Network, fc.Network)
	setString(&cfg.DataDir, fc.DataDir)
	setString(&cfg.BackendDataDir, fc.BackendDataDir)
	setString(&cfg.InstallDir, fc.InstallDir)
	setString(&cfg.NodeLogLevel, fc.NodeLogLevel)
	setString(&cfg.MetricsAddr, fc.MetricsAddr)
	setString(&cfg.LogFormat, fc.LogFormat)
	setString(&cfg.LogLevel, fc.LogLevel)
	setBool(&cfg.StartAll, fc.StartAll)
	setBool(&cfg.Verbose, fc.Verbose)
	setBool(&cfg.NonInteractive, fc.NonInteractive)

	for _, bind := range []struct {
		key string
		dst *time.Duration
		src *string
	}{
		{"poll_interval", &cfg.PollInterval, fc.PollInterval},
		{"ready_timeout", &cfg.ReadyTimeout, fc.ReadyTimeout},
		{"stop_timeout", &cfg.StopTimeout, fc.StopTimeout},
	} {
		if bind.src == nil {
			continue
		}
		d, err := time.ParseDuration(*bind.src)
		if err != nil {
			return fmt.Errorf("parse config file %s: %s: %w", path, bind.key, err)
		}
		*bind.dst = d
	}

	return nil
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
