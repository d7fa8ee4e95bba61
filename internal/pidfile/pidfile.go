// Package pidfile reads the process-identifier files written by supervised
// daemons.
//
// The harness never writes these files. Each daemon records its own pid
// inside its data directory; the harness only reads the pid to signal the
// process and deletes the file once the process is confirmed gone. Existence
// of the file is the sole source of truth for "currently supervised".
package pidfile

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// ErrNotTracked indicates no pid file exists for the process, meaning it was
// never started or has already been cleanly stopped.
var ErrNotTracked = errors.New("no pid file")

// Read returns the pid recorded in the file at path.
// A missing file yields ErrNotTracked.
func Read(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, ErrNotTracked
		}
		return 0, fmt.Errorf("read pid file %s: %w", path, err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("pid file %s: malformed contents %q", path, strings.TrimSpace(string(data)))
	}
	return pid, nil
}

// Exists reports whether a pid file is present at path.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Remove deletes the pid file. Removing an absent file is a no-op.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove pid file %s: %w", path, err)
	}
	return nil
}

// Alive reports whether a process with the given pid exists.
// Uses signal 0, which performs permission and existence checks only.
func Alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, 0)
	if err == nil {
		return true
	}
	// EPERM means the process exists but belongs to another user
	return errors.Is(err, syscall.EPERM)
}

// Terminate sends SIGTERM to the process.
func Terminate(pid int) error {
	if err := syscall.Kill(pid, syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal pid %d: %w", pid, err)
	}
	return nil
}

// WaitGone polls until the process disappears or the timeout elapses.
// Returns true if the process is gone.
func WaitGone(pid int, timeout, interval time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if !Alive(pid) {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(interval)
	}
}
