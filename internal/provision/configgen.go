package provision

import (
	"fmt"
	"os"
	"strings"
)

// NodeConfig holds the values written into each node's configuration file.
type NodeConfig struct {
	Network  string // regtest or simnet
	LogLevel string
	Host     string // listen host; port comes from the NodeSpec
}

// Render produces the configuration file contents for one node.
//
// The schema is fixed by the daemon: flat key=value lines. The log file
// always lives inside the node's own directory.
func (c NodeConfig) Render(spec NodeSpec) string {
	var b strings.Builder
	fmt.Fprintf(&b, "network=%s\n", c.Network)
	fmt.Fprintf(&b, "log-level=%s\n", c.LogLevel)
	fmt.Fprintf(&b, "log-file=%s\n", spec.LogPath)
	fmt.Fprintf(&b, "addr=%s:%d\n", c.Host, spec.Port)
	return b.String()
}

// WriteConfigs (over)writes one configuration file per node.
//
// Regeneration on every run is intentional: stale configuration must never
// persist across sessions, so an existing file is replaced rather than kept.
func WriteConfigs(specs []NodeSpec, cfg NodeConfig) error {
	for _, spec := range specs {
		if err := os.WriteFile(spec.ConfigPath, []byte(cfg.Render(spec)), 0o644); err != nil {
			return fmt.Errorf("write config for node %d: %w", spec.Index, err)
		}
	}
	return nil
}

// RemoveConfigs deletes the generated configuration files.
// Missing files are ignored so cleanup is idempotent.
func RemoveConfigs(specs []NodeSpec) error {
	for _, spec := range specs {
		if err := os.Remove(spec.ConfigPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove config for node %d: %w", spec.Index, err)
		}
	}
	return nil
}
