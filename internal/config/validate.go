package config

import (
	"errors"
	"fmt"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for errors and inconsistencies.
// Returns nil if valid, or an error describing the problem.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Nodes < 1 {
		errs = append(errs, ValidationError{
			Field:   "nodes",
			Message: "must be at least 1",
		})
	}

	// Ports BasePort+1 .. BasePort+Nodes must stay inside the valid range
	if cfg.BasePort < 1024 || cfg.BasePort+cfg.Nodes > 65535 {
		errs = append(errs, ValidationError{
			Field:   "base_port",
			Message: fmt.Sprintf("base port %d with %d nodes is outside 1024-65535", cfg.BasePort, cfg.Nodes),
		})
	}

	if cfg.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "host",
			Message: "must not be empty",
		})
	}

	validNetworks := map[string]bool{"regtest": true, "simnet": true}
	if !validNetworks[cfg.Network] {
		errs = append(errs, ValidationError{
			Field:   "network",
			Message: fmt.Sprintf("must be 'regtest' or 'simnet' (got %q)", cfg.Network),
		})
	}

	if cfg.PollInterval <= 0 {
		errs = append(errs, ValidationError{
			Field:   "poll_interval",
			Message: "must be positive",
		})
	}
	if cfg.ReadyTimeout < cfg.PollInterval {
		errs = append(errs, ValidationError{
			Field:   "ready_timeout",
			Message: "must be at least one poll interval",
		})
	}
	if cfg.StopTimeout <= 0 {
		errs = append(errs, ValidationError{
			Field:   "stop_timeout",
			Message: "must be positive",
		})
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[cfg.LogFormat] {
		errs = append(errs, ValidationError{
			Field:   "log_format",
			Message: fmt.Sprintf("must be 'json' or 'text' (got %q)", cfg.LogFormat),
		})
	}

	if cfg.NonInteractive && cfg.DataDir == "" {
		errs = append(errs, ValidationError{
			Field:   "data_dir",
			Message: "required in non-interactive mode (set " + EnvDataDir + " or --data-dir)",
		})
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
