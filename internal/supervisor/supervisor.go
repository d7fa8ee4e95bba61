package supervisor

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/randomizedcoder/go-regtest-harness/internal/chainrpc"
	"github.com/randomizedcoder/go-regtest-harness/internal/logging"
	"github.com/randomizedcoder/go-regtest-harness/internal/metrics"
	"github.com/randomizedcoder/go-regtest-harness/internal/pidfile"
	"github.com/randomizedcoder/go-regtest-harness/internal/provision"
	"github.com/randomizedcoder/go-regtest-harness/internal/stats"
)

// BackendPIDFileName is the pid file the backend writes into its data dir.
const BackendPIDFileName = "chaind.pid"

// waitGoneInterval is how often a stopping process is re-checked.
const waitGoneInterval = 100 * time.Millisecond

// BackendClient is the control surface the supervisor needs from the
// backend. Satisfied by *chainrpc.Client; faked in tests.
type BackendClient interface {
	Ping(ctx context.Context) error
	GetSyncInfo(ctx context.Context) (chainrpc.SyncInfo, error)
	NewAddress(ctx context.Context) (string, error)
	Generate(ctx context.Context, n int, addr string) error
	Stop(ctx context.Context) error
}

// Config holds configuration for creating a Supervisor.
type Config struct {
	BackendBin     string
	NodeBin        string
	BackendDataDir string
	Specs          []provision.NodeSpec
	Client         BackendClient
	Logger         *slog.Logger

	PollInterval time.Duration
	ReadyTimeout time.Duration
	StopTimeout  time.Duration

	// StartAll launches every node daemon. By default only nodes with an
	// existing pid record are (re)started.
	StartAll bool

	// Optional observability hooks.
	Collector *metrics.Collector
	Latency   *stats.LatencyTracker
}

// Supervisor drives the dependency-ordered startup and verified teardown of
// the backend and node daemons.
//
// Execution is sequential: the backend must reach Ready before any node
// daemon is started, enforced by ordering rather than locks.
type Supervisor struct {
	cfg    Config
	logger *slog.Logger

	mu           sync.Mutex
	backendState State
	nodeState    map[int]State
}

// New creates a Supervisor.
func New(cfg Config) *Supervisor {
	nodeState := make(map[int]State, len(cfg.Specs))
	for _, spec := range cfg.Specs {
		nodeState[spec.Index] = StateNotStarted
	}
	return &Supervisor{
		cfg:          cfg,
		logger:       cfg.Logger,
		backendState: StateNotStarted,
		nodeState:    nodeState,
	}
}

// BackendPIDPath returns the backend's pid file location.
func (s *Supervisor) BackendPIDPath() string {
	return filepath.Join(s.cfg.BackendDataDir, BackendPIDFileName)
}

// BackendState returns the backend's lifecycle state.
func (s *Supervisor) BackendState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backendState
}

// NodeState returns the lifecycle state of node i within this session.
func (s *Supervisor) NodeState(i int) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nodeState[i]
}

func (s *Supervisor) setBackendState(st State) {
	s.mu.Lock()
	s.backendState = st
	s.mu.Unlock()
}

func (s *Supervisor) setNodeState(i int, st State) {
	s.mu.Lock()
	s.nodeState[i] = st
	s.mu.Unlock()
}

// StartBackend launches the backend if it is not already supervised, then
// polls until it answers its liveness check and has left initial sync.
func (s *Supervisor) StartBackend(ctx context.Context) error {
	s.setBackendState(StateStarting)

	pidPath := s.BackendPIDPath()
	var output *logging.ProcessOutputHandler

	switch pid, err := pidfile.Read(pidPath); {
	case err == nil && pidfile.Alive(pid):
		// Existing record for a live process: never double-launch.
		s.logger.Info("backend_already_running", "pid", pid, "pid_file", pidPath)

	case err == pidfile.ErrNotTracked:
		var launchErr error
		output, launchErr = s.launch(s.cfg.BackendBin, "backend", "--datadir="+s.cfg.BackendDataDir)
		if launchErr != nil {
			s.setBackendState(StateStopped)
			return fmt.Errorf("start backend: %w", launchErr)
		}
		s.countStarted("backend")

	default:
		// Record exists but the process is gone (or the record is
		// unreadable): treat as stale and relaunch.
		s.warnStale("backend", pidPath, err)
		if rmErr := pidfile.Remove(pidPath); rmErr != nil {
			return rmErr
		}
		output, err = s.launch(s.cfg.BackendBin, "backend", "--datadir="+s.cfg.BackendDataDir)
		if err != nil {
			s.setBackendState(StateStopped)
			return fmt.Errorf("start backend: %w", err)
		}
		s.countStarted("backend")
	}

	start := time.Now()
	err := AwaitReady(ctx, s.cfg.Client.Ping, s.cfg.PollInterval, s.cfg.ReadyTimeout, s.onPoll)
	if err != nil {
		s.setBackendState(StateStopped)
		if output != nil {
			if tail := output.Summary(10); tail != "" {
				return fmt.Errorf("%w\nbackend output:\n%s", err, tail)
			}
		}
		return err
	}

	if s.cfg.Collector != nil {
		s.cfg.Collector.BackendReady(time.Since(start))
	}
	s.logger.Info("backend_ready",
		"elapsed", time.Since(start).String(),
	)

	if err := s.ensureSynced(ctx); err != nil {
		s.setBackendState(StateStopped)
		return err
	}

	s.setBackendState(StateReady)
	return nil
}

// ensureSynced checks for an initial-sync-in-progress condition on the first
// successful poll and issues exactly one corrective mine to exit it.
func (s *Supervisor) ensureSynced(ctx context.Context) error {
	info, err := s.cfg.Client.GetSyncInfo(ctx)
	if err != nil {
		return fmt.Errorf("query sync state: %w", err)
	}
	if !info.InitialSync {
		return nil
	}

	s.logger.Info("backend_in_initial_sync", "blocks", info.Blocks)

	addr, err := s.cfg.Client.NewAddress(ctx)
	if err != nil {
		return fmt.Errorf("generate mining address: %w", err)
	}
	if err := s.cfg.Client.Generate(ctx, 1, addr); err != nil {
		return fmt.Errorf("mine corrective block: %w", err)
	}

	s.logger.Info("mined_corrective_block", "address", addr)
	return nil
}

// StartNodes launches the node daemons in index order.
// The backend must be Ready first.
func (s *Supervisor) StartNodes(ctx context.Context) error {
	if s.BackendState() != StateReady {
		return fmt.Errorf("backend not ready, refusing to start nodes")
	}

	for _, spec := range s.cfg.Specs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.startNode(spec); err != nil {
			return err
		}
	}
	return nil
}

// startNode launches one node daemon, fire-and-forget: no readiness polling
// is performed per node.
//
// Unless StartAll is set, a node is only launched when its pid record
// already exists: a fresh session resumes previously registered nodes rather
// than spawning new ones.
func (s *Supervisor) startNode(spec provision.NodeSpec) error {
	if !s.cfg.StartAll && !pidfile.Exists(spec.PIDPath) {
		s.logger.Debug("node_not_registered", "node", spec.Index, "pid_file", spec.PIDPath)
		return nil
	}

	if pid, err := pidfile.Read(spec.PIDPath); err == nil && pidfile.Alive(pid) {
		s.logger.Info("node_already_running", "node", spec.Index, "pid", pid)
		s.setNodeState(spec.Index, StateReady)
		return nil
	}

	if _, err := s.launch(s.cfg.NodeBin, fmt.Sprintf("node%d", spec.Index), "--lpddir="+spec.Dir); err != nil {
		return fmt.Errorf("start node %d: %w", spec.Index, err)
	}

	s.countStarted("node")
	s.setNodeState(spec.Index, StateStarting)
	s.logger.Info("node_started", "node", spec.Index, "dir", spec.Dir, "port", spec.Port)
	return nil
}

// launch starts a daemon process detached from the harness. The child's
// stderr is captured so an early crash can be reported; the child is
// expected to write its own pid file.
func (s *Supervisor) launch(bin, name string, args ...string) (*logging.ProcessOutputHandler, error) {
	// exec.Command, not CommandContext: daemons must outlive the harness.
	cmd := exec.Command(bin, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}

	output := logging.NewProcessOutputHandler(name, s.logger, true)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, err
	}
	// Drain stderr fully before reaping the immediate child: Wait must not
	// close the pipe under the reader, or an early crash loses its tail.
	// Daemons typically fork away from the child, so Wait returns quickly.
	go func() {
		output.HandleReader(stderr)
		cmd.Wait()
	}()

	s.logger.Debug("process_launched", "name", name, "bin", bin, "pid", cmd.Process.Pid)
	return output, nil
}

// StopAll stops every supervised process: nodes first, backend last.
// Invoking it when nothing runs is a no-op; stop-then-stop is idempotent.
func (s *Supervisor) StopAll(ctx context.Context) error {
	var firstErr error
	for i := len(s.cfg.Specs) - 1; i >= 0; i-- {
		if err := s.StopNode(s.cfg.Specs[i]); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := s.StopBackend(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// StopNode terminates one node daemon and removes its pid record once the
// process is confirmed gone. A missing record means already stopped.
func (s *Supervisor) StopNode(spec provision.NodeSpec) error {
	name := fmt.Sprintf("node%d", spec.Index)
	defer s.setNodeState(spec.Index, StateStopped)

	pid, err := pidfile.Read(spec.PIDPath)
	if err == pidfile.ErrNotTracked {
		s.logger.Debug("node_not_tracked", "node", spec.Index)
		return nil
	}
	if err != nil {
		// Unreadable record: nothing to signal, drop the file.
		s.warnStale(name, spec.PIDPath, err)
		return pidfile.Remove(spec.PIDPath)
	}

	if !pidfile.Alive(pid) {
		s.warnStale(name, spec.PIDPath, nil)
		return pidfile.Remove(spec.PIDPath)
	}

	if err := pidfile.Terminate(pid); err != nil {
		s.logger.Warn("terminate_failed", "process", name, "pid", pid, "error", err)
	}

	if !pidfile.WaitGone(pid, s.cfg.StopTimeout, waitGoneInterval) {
		return fmt.Errorf("node %d (pid %d) did not exit within %s, keeping pid file", spec.Index, pid, s.cfg.StopTimeout)
	}

	s.countStopped("node")
	s.logger.Info("node_stopped", "node", spec.Index, "pid", pid)
	return pidfile.Remove(spec.PIDPath)
}

// StopBackend stops the backend through its control interface, not a raw
// signal, and removes its pid record once the process is confirmed gone.
func (s *Supervisor) StopBackend(ctx context.Context) error {
	pidPath := s.BackendPIDPath()
	defer s.setBackendState(StateStopped)

	pid, err := pidfile.Read(pidPath)
	if err == pidfile.ErrNotTracked {
		s.logger.Debug("backend_not_tracked")
		return nil
	}
	if err != nil {
		s.warnStale("backend", pidPath, err)
		return pidfile.Remove(pidPath)
	}

	if !pidfile.Alive(pid) {
		s.warnStale("backend", pidPath, nil)
		return pidfile.Remove(pidPath)
	}

	if err := s.cfg.Client.Stop(ctx); err != nil {
		// Control-interface stop failed; fall back to a signal so the
		// verified wait below still has a chance.
		s.logger.Warn("backend_stop_command_failed", "error", err)
		if sigErr := pidfile.Terminate(pid); sigErr != nil {
			s.logger.Warn("terminate_failed", "process", "backend", "pid", pid, "error", sigErr)
		}
	}

	if !pidfile.WaitGone(pid, s.cfg.StopTimeout, waitGoneInterval) {
		return fmt.Errorf("backend (pid %d) did not exit within %s, keeping pid file", pid, s.cfg.StopTimeout)
	}

	s.countStopped("backend")
	s.logger.Info("backend_stopped", "pid", pid)
	return pidfile.Remove(pidPath)
}

// ProcessInfo describes one supervised process for status reporting.
type ProcessInfo struct {
	Name    string
	Index   int // 0 for the backend
	PID     int // 0 when not tracked
	PIDPath string
	Status  TrackedStatus
}

// Statuses derives the observable condition of the backend and every node
// from their pid files.
func (s *Supervisor) Statuses() []ProcessInfo {
	infos := make([]ProcessInfo, 0, len(s.cfg.Specs)+1)
	infos = append(infos, inspect("backend", 0, s.BackendPIDPath()))
	for _, spec := range s.cfg.Specs {
		infos = append(infos, inspect(fmt.Sprintf("node%d", spec.Index), spec.Index, spec.PIDPath))
	}
	return infos
}

// SupervisedCount returns how many processes currently have a live pid
// record.
func (s *Supervisor) SupervisedCount() int {
	count := 0
	for _, info := range s.Statuses() {
		if info.Status == StatusRunning {
			count++
		}
	}
	return count
}

// inspect derives a TrackedStatus from one pid file.
func inspect(name string, index int, pidPath string) ProcessInfo {
	info := ProcessInfo{Name: name, Index: index, PIDPath: pidPath}

	pid, err := pidfile.Read(pidPath)
	if err != nil {
		if err != pidfile.ErrNotTracked {
			info.Status = StatusStale
		}
		return info
	}

	info.PID = pid
	if pidfile.Alive(pid) {
		info.Status = StatusRunning
	} else {
		info.Status = StatusStale
	}
	return info
}

// onPoll observes one liveness poll attempt.
func (s *Supervisor) onPoll(latency time.Duration, err error) {
	if s.cfg.Collector != nil {
		s.cfg.Collector.PollAttempt()
	}
	if s.cfg.Latency != nil {
		s.cfg.Latency.Record(latency)
	}
	if err != nil {
		s.logger.Debug("backend_poll", "error", err, "latency", latency.String())
	}
}

// warnStale logs the distinct stale-record warning and counts it.
func (s *Supervisor) warnStale(name, pidPath string, readErr error) {
	if readErr != nil {
		s.logger.Warn("stale_pid_record", "process", name, "pid_file", pidPath, "error", readErr)
	} else {
		s.logger.Warn("stale_pid_record", "process", name, "pid_file", pidPath, "reason", "process not found")
	}
	if s.cfg.Collector != nil {
		s.cfg.Collector.StaleRecord()
	}
}

func (s *Supervisor) countStarted(kind string) {
	if s.cfg.Collector != nil {
		s.cfg.Collector.ProcessStarted(kind)
	}
}

func (s *Supervisor) countStopped(kind string) {
	if s.cfg.Collector != nil {
		s.cfg.Collector.ProcessStopped(kind)
	}
}
