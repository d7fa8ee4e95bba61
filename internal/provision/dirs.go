package provision

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultParent returns the default temporary location for node data
// directories.
func DefaultParent() string {
	return filepath.Join(os.TempDir(), "go-regtest-harness")
}

// ExpandTilde replaces a leading ~ with the current user's home directory.
// Paths without a leading ~ are returned unchanged.
func ExpandTilde(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}

// ValidateParentCandidate checks that a candidate parent directory is usable:
// its immediate parent must exist and the candidate itself, once created,
// must be writable. Used by the interactive prompt loop to reject bad
// entries.
func ValidateParentCandidate(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}

	outer := filepath.Dir(filepath.Clean(path))
	info, err := os.Stat(outer)
	if err != nil {
		return fmt.Errorf("parent directory %s does not exist", outer)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", outer)
	}

	probe, err := os.CreateTemp(outer, ".writable-*")
	if err != nil {
		return fmt.Errorf("parent directory %s is not writable", outer)
	}
	name := probe.Name()
	probe.Close()
	os.Remove(name)
	return nil
}

// EnsureParent creates the parent directory if absent and verifies it is
// writable by creating and removing a probe file. Creation of an existing
// directory is a no-op.
func EnsureParent(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create data dir %s: %w", path, err)
	}

	probe, err := os.CreateTemp(path, ".writable-*")
	if err != nil {
		return fmt.Errorf("data dir %s is not writable: %w", path, err)
	}
	name := probe.Name()
	probe.Close()
	os.Remove(name)
	return nil
}

// EnsureNodeDirs creates each node's data directory.
// Idempotent: existing directories are left untouched.
func EnsureNodeDirs(specs []NodeSpec) error {
	for _, spec := range specs {
		if err := os.MkdirAll(spec.Dir, 0o755); err != nil {
			return fmt.Errorf("create node dir %s: %w", spec.Dir, err)
		}
	}
	return nil
}
