// Package provision plans per-node data directories and generates the
// configuration files the payment-channel daemons read at startup.
package provision

import (
	"fmt"
	"path/filepath"
)

// Per-node file names inside each node's data directory. The config and log
// files are owned by the harness; the pid file is written by the daemon
// itself.
const (
	ConfigFileName = "lpd.conf"
	LogFileName    = "lpd.log"
	PIDFileName    = "lpd.pid"
)

// NodeSpec describes one node's identity and derived paths.
// Specs are created once per run and immutable thereafter.
type NodeSpec struct {
	Index      int    // 1-based node index
	Dir        string // node data directory
	Port       int    // listening port, base port + index
	ConfigPath string
	LogPath    string
	PIDPath    string
}

// PlanNodes builds the specs for nodes 1..n under the given parent directory.
// Ports and directories are unique across the returned specs.
func PlanNodes(n int, parent string, basePort int) []NodeSpec {
	specs := make([]NodeSpec, 0, n)
	for i := 1; i <= n; i++ {
		dir := filepath.Join(parent, fmt.Sprintf("node%d", i))
		specs = append(specs, NodeSpec{
			Index:      i,
			Dir:        dir,
			Port:       basePort + i,
			ConfigPath: filepath.Join(dir, ConfigFileName),
			LogPath:    filepath.Join(dir, LogFileName),
			PIDPath:    filepath.Join(dir, PIDFileName),
		})
	}
	return specs
}
