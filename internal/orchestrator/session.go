// Package orchestrator wires resolution, provisioning, supervision and the
// command surface into one session.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/randomizedcoder/go-regtest-harness/internal/chainrpc"
	"github.com/randomizedcoder/go-regtest-harness/internal/config"
	"github.com/randomizedcoder/go-regtest-harness/internal/env"
	"github.com/randomizedcoder/go-regtest-harness/internal/lpdrpc"
	"github.com/randomizedcoder/go-regtest-harness/internal/metrics"
	"github.com/randomizedcoder/go-regtest-harness/internal/provision"
	"github.com/randomizedcoder/go-regtest-harness/internal/registry"
	"github.com/randomizedcoder/go-regtest-harness/internal/stats"
	"github.com/randomizedcoder/go-regtest-harness/internal/supervisor"
)

// Session holds everything one harness run needs: the resolved toolchain,
// the chosen directories, the node plan and the component instances. It
// replaces ambient process-wide state so each component receives its inputs
// explicitly.
type Session struct {
	cfg    *config.Config
	logger *slog.Logger

	toolchain      env.Toolchain
	parentDir      string
	backendDataDir string
	specs          []provision.NodeSpec

	sup       *supervisor.Supervisor
	reg       *registry.Registry
	collector *metrics.Collector
	latency   *stats.LatencyTracker
}

// NewSession resolves the toolchain and the directory layout, plans the
// nodes and builds the control clients. Nothing is written to disk yet.
//
// The reader is consulted only when no data directory was pre-supplied via
// flag, environment or config file.
func NewSession(cfg *config.Config, logger *slog.Logger, version string, reader provision.LineReader) (*Session, error) {
	toolchain, err := env.Resolve(cfg.InstallDir)
	if err != nil {
		return nil, err
	}

	parent, err := provision.ResolveParent(cfg.DataDir, reader)
	if err != nil {
		return nil, err
	}

	backendDataDir := cfg.BackendDataDir
	if backendDataDir == "" {
		backendDataDir = filepath.Join(parent, "backend")
	}
	backendDataDir = provision.ExpandTilde(backendDataDir)

	specs := provision.PlanNodes(cfg.Nodes, parent, cfg.BasePort)

	s := &Session{
		cfg:            cfg,
		logger:         logger,
		toolchain:      toolchain,
		parentDir:      parent,
		backendDataDir: backendDataDir,
		specs:          specs,
		reg:            registry.New(),
		collector:      metrics.NewCollector(version, cfg.Network, cfg.Nodes),
		latency:        stats.NewLatencyTracker(),
	}

	backendClient := chainrpc.New(toolchain.BackendCLI, backendDataDir)
	s.reg.SetBackend(backendClient)
	for _, spec := range specs {
		s.reg.Register(spec, lpdrpc.New(toolchain.NodeCLI, spec.Dir))
	}

	s.sup = supervisor.New(supervisor.Config{
		BackendBin:     toolchain.Backend,
		NodeBin:        toolchain.Node,
		BackendDataDir: backendDataDir,
		Specs:          specs,
		Client:         backendClient,
		Logger:         logger,
		PollInterval:   cfg.PollInterval,
		ReadyTimeout:   cfg.ReadyTimeout,
		StopTimeout:    cfg.StopTimeout,
		StartAll:       cfg.StartAll,
		Collector:      s.collector,
		Latency:        s.latency,
	})

	return s, nil
}

// Provision creates the directory layout and (re)generates every node's
// configuration file. Idempotent: re-running against an already provisioned
// parent changes nothing but the config file contents, which are rewritten
// identically.
func (s *Session) Provision() error {
	if err := provision.EnsureParent(s.parentDir); err != nil {
		return err
	}
	if err := os.MkdirAll(s.backendDataDir, 0o755); err != nil {
		return fmt.Errorf("create backend data dir %s: %w", s.backendDataDir, err)
	}
	if err := provision.EnsureNodeDirs(s.specs); err != nil {
		return err
	}

	nodeCfg := provision.NodeConfig{
		Network:  s.cfg.Network,
		LogLevel: s.cfg.NodeLogLevel,
		Host:     s.cfg.Host,
	}
	if err := provision.WriteConfigs(s.specs, nodeCfg); err != nil {
		return err
	}

	s.collector.NodesProvisioned(len(s.specs))
	s.logger.Info("provisioned",
		"parent", s.parentDir,
		"nodes", len(s.specs),
		"backend_dir", s.backendDataDir,
	)
	return nil
}

// Up provisions the network and starts it in dependency order: backend
// first, polled to readiness, then the node daemons.
func (s *Session) Up(ctx context.Context) error {
	if err := s.Provision(); err != nil {
		return err
	}

	if err := s.sup.StartBackend(ctx); err != nil {
		return err
	}

	if summary := s.latency.Summary(); summary.Count > 0 {
		s.logger.Debug("liveness_poll_latency",
			"polls", summary.Count,
			"p50", summary.P50.String(),
			"p95", summary.P95.String(),
			"max", summary.Max.String(),
		)
	}

	if err := s.sup.StartNodes(ctx); err != nil {
		return err
	}

	s.collector.SetSupervisedCount(s.sup.SupervisedCount())
	return nil
}

// Down stops every supervised process and removes the session's bindings.
// Safe to invoke when nothing was started.
func (s *Session) Down(ctx context.Context) error {
	err := s.sup.StopAll(ctx)
	s.collector.SetSupervisedCount(s.sup.SupervisedCount())
	s.reg.Teardown()
	return err
}

// Clean is Down plus removal of the generated configuration files. Node and
// backend data stay on disk; the daemons own those files.
func (s *Session) Clean(ctx context.Context) error {
	if err := s.Down(ctx); err != nil {
		return err
	}
	if err := provision.RemoveConfigs(s.specs); err != nil {
		return err
	}
	s.logger.Info("cleaned", "parent", s.parentDir)
	return nil
}

// Registry returns the session's command surface.
func (s *Session) Registry() *registry.Registry {
	return s.reg
}

// Supervisor returns the session's process supervisor.
func (s *Session) Supervisor() *supervisor.Supervisor {
	return s.sup
}

// Specs returns the immutable node plan.
func (s *Session) Specs() []provision.NodeSpec {
	return s.specs
}

// ParentDir returns the resolved parent data directory.
func (s *Session) ParentDir() string {
	return s.parentDir
}

// BackendDataDir returns the resolved backend data directory.
func (s *Session) BackendDataDir() string {
	return s.backendDataDir
}

// Toolchain returns the resolved executable paths.
func (s *Session) Toolchain() env.Toolchain {
	return s.toolchain
}

// PollLatency returns the liveness-poll latency summary.
func (s *Session) PollLatency() stats.LatencySummary {
	return s.latency.Summary()
}
