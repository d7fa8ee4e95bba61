package config

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		modify  func(*Config)
		wantErr string // substring of the expected error, "" = valid
	}{
		{
			name:   "defaults are valid",
			modify: func(cfg *Config) {},
		},
		{
			name:    "zero nodes",
			modify:  func(cfg *Config) { cfg.Nodes = 0 },
			wantErr: "nodes",
		},
		{
			name:    "negative nodes",
			modify:  func(cfg *Config) { cfg.Nodes = -3 },
			wantErr: "nodes",
		},
		{
			name:    "privileged base port",
			modify:  func(cfg *Config) { cfg.BasePort = 80 },
			wantErr: "base_port",
		},
		{
			name: "port range overflow",
			modify: func(cfg *Config) {
				cfg.BasePort = 65530
				cfg.Nodes = 10
			},
			wantErr: "base_port",
		},
		{
			name:    "empty host",
			modify:  func(cfg *Config) { cfg.Host = "" },
			wantErr: "host",
		},
		{
			name:    "unknown network",
			modify:  func(cfg *Config) { cfg.Network = "mainnet" },
			wantErr: "network",
		},
		{
			name:    "zero poll interval",
			modify:  func(cfg *Config) { cfg.PollInterval = 0 },
			wantErr: "poll_interval",
		},
		{
			name: "ready timeout below poll interval",
			modify: func(cfg *Config) {
				cfg.ReadyTimeout = cfg.PollInterval / 2
			},
			wantErr: "ready_timeout",
		},
		{
			name:    "bad log format",
			modify:  func(cfg *Config) { cfg.LogFormat = "xml" },
			wantErr: "log_format",
		},
		{
			name: "non-interactive without data dir",
			modify: func(cfg *Config) {
				cfg.NonInteractive = true
				cfg.DataDir = ""
			},
			wantErr: "data_dir",
		},
		{
			name: "non-interactive with data dir",
			modify: func(cfg *Config) {
				cfg.NonInteractive = true
				cfg.DataDir = "/tmp/x"
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.modify(cfg)

			err := Validate(cfg)
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("Validate returned error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := ValidationError{Field: "nodes", Message: "must be at least 1"}
	if got := err.Error(); got != "nodes: must be at least 1" {
		t.Errorf("Error() = %q", got)
	}
}
