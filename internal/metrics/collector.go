// Package metrics provides Prometheus metrics for go-regtest-harness.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	harnessInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "regtest_harness_info",
			Help: "Information about the harness session (value always 1)",
		},
		[]string{"version", "network"},
	)

	harnessTargetNodes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "regtest_harness_target_nodes",
			Help: "Number of nodes this session provisions",
		},
	)

	harnessNodesProvisioned = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "regtest_harness_nodes_provisioned",
			Help: "Node directories with a generated configuration file",
		},
	)

	harnessBackendReadySeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "regtest_harness_backend_ready_seconds",
			Help: "Seconds the backend took to answer its first liveness poll",
		},
	)

	harnessPollAttemptsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "regtest_harness_backend_poll_attempts_total",
			Help: "Total backend liveness poll attempts",
		},
	)

	harnessProcessesStartedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "regtest_harness_processes_started_total",
			Help: "Processes launched by the harness",
		},
		[]string{"kind"},
	)

	harnessProcessesStoppedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "regtest_harness_processes_stopped_total",
			Help: "Processes stopped by the harness",
		},
		[]string{"kind"},
	)

	harnessStalePidRecordsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "regtest_harness_stale_pid_records_total",
			Help: "Pid files found whose process was no longer alive",
		},
	)

	harnessSupervisedProcesses = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "regtest_harness_supervised_processes",
			Help: "Processes currently tracked via pid files",
		},
	)
)

var registerOnce sync.Once

// register installs all metrics into the default registry.
// Guarded so tests can create multiple collectors.
func register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			harnessInfo,
			harnessTargetNodes,
			harnessNodesProvisioned,
			harnessBackendReadySeconds,
			harnessPollAttemptsTotal,
			harnessProcessesStartedTotal,
			harnessProcessesStoppedTotal,
			harnessStalePidRecordsTotal,
			harnessSupervisedProcesses,
		)
	})
}

// Collector updates the harness metrics.
type Collector struct{}

// NewCollector creates a collector and records session info.
func NewCollector(version, network string, targetNodes int) *Collector {
	register()
	harnessInfo.WithLabelValues(version, network).Set(1)
	harnessTargetNodes.Set(float64(targetNodes))
	return &Collector{}
}

// NodesProvisioned records how many node configs were written.
func (c *Collector) NodesProvisioned(n int) {
	harnessNodesProvisioned.Set(float64(n))
}

// PollAttempt counts one backend liveness poll.
func (c *Collector) PollAttempt() {
	harnessPollAttemptsTotal.Inc()
}

// BackendReady records the time-to-ready of the backend.
func (c *Collector) BackendReady(d time.Duration) {
	harnessBackendReadySeconds.Set(d.Seconds())
}

// ProcessStarted counts a launched process. kind is "backend" or "node".
func (c *Collector) ProcessStarted(kind string) {
	harnessProcessesStartedTotal.WithLabelValues(kind).Inc()
}

// ProcessStopped counts a stopped process. kind is "backend" or "node".
func (c *Collector) ProcessStopped(kind string) {
	harnessProcessesStoppedTotal.WithLabelValues(kind).Inc()
}

// StaleRecord counts a pid file whose process had already exited.
func (c *Collector) StaleRecord() {
	harnessStalePidRecordsTotal.Inc()
}

// SetSupervisedCount records how many pid files are currently tracked.
func (c *Collector) SetSupervisedCount(n int) {
	harnessSupervisedProcesses.Set(float64(n))
}
