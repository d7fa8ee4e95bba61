// Package supervisor manages the lifecycle of the backend and node daemons.
package supervisor

// State represents the lifecycle state of a managed process.
type State int

const (
	// StateNotStarted is the initial state before any launch attempt.
	StateNotStarted State = iota

	// StateStarting indicates the process has been launched but has not
	// confirmed readiness yet.
	StateStarting

	// StateReady indicates the process answers its liveness check.
	StateReady

	// StateStopped indicates the process has been stopped.
	StateStopped
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not-started"
	case StateStarting:
		return "starting"
	case StateReady:
		return "ready"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// IsActive returns true if the state represents a launched process.
func (s State) IsActive() bool {
	return s == StateStarting || s == StateReady
}

// TrackedStatus is the externally observable condition of a process,
// derived from its pid file and process table entry.
type TrackedStatus int

const (
	// StatusStopped means no pid file exists: never started or cleanly
	// stopped.
	StatusStopped TrackedStatus = iota

	// StatusRunning means the pid file exists and the process is alive.
	StatusRunning

	// StatusStale means the pid file exists but the process is gone.
	StatusStale
)

// String returns a human-readable name for the status.
func (s TrackedStatus) String() string {
	switch s {
	case StatusStopped:
		return "stopped"
	case StatusRunning:
		return "running"
	case StatusStale:
		return "stale"
	default:
		return "unknown"
	}
}
