// Package env locates the external executables the harness supervises.
package env

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// External tool names.
const (
	BackendBin    = "chaind"   // blockchain backend daemon
	BackendCLIBin = "chainctl" // backend control client
	NodeBin       = "lpd"      // payment-channel daemon
	NodeCLIBin    = "lpcli"    // node control client
)

// Toolchain holds resolved absolute paths for all external executables.
type Toolchain struct {
	Backend    string
	BackendCLI string
	Node       string
	NodeCLI    string
}

// relative locations probed under an install dir or the working directory,
// in order. Covers both an installed layout (bin/) and a source tree.
var probeDirs = []string{"bin", "", "cmd/chaind", "cmd/lpd"}

// Resolve produces the toolchain for the given optional install directory.
//
// Resolution order: explicit install dir, then the current working directory
// (run-from-source-tree mode), then PATH. Resolution is deterministic and
// side-effect-free; a missing tool is a fatal configuration error naming it.
func Resolve(installDir string) (Toolchain, error) {
	if installDir != "" {
		tc, err := resolveUnder(installDir)
		if err != nil {
			return Toolchain{}, fmt.Errorf("install dir %s: %w", installDir, err)
		}
		return tc, nil
	}

	if cwd, err := os.Getwd(); err == nil {
		if tc, err := resolveUnder(cwd); err == nil {
			return tc, nil
		}
	}

	return resolvePath()
}

// resolveUnder locates all four executables beneath dir.
func resolveUnder(dir string) (Toolchain, error) {
	var tc Toolchain
	for _, bind := range []struct {
		name string
		dst  *string
	}{
		{BackendBin, &tc.Backend},
		{BackendCLIBin, &tc.BackendCLI},
		{NodeBin, &tc.Node},
		{NodeCLIBin, &tc.NodeCLI},
	} {
		path, ok := findExecutable(dir, bind.name)
		if !ok {
			return Toolchain{}, fmt.Errorf("%s not found", bind.name)
		}
		*bind.dst = path
	}
	return tc, nil
}

// findExecutable probes the known relative locations under dir for name.
func findExecutable(dir, name string) (string, bool) {
	for _, sub := range probeDirs {
		candidate := filepath.Join(dir, sub, name)
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		if info.Mode()&0o111 == 0 {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		return abs, true
	}
	return "", false
}

// resolvePath falls back to the ambient executable search path.
func resolvePath() (Toolchain, error) {
	var tc Toolchain
	for _, bind := range []struct {
		name string
		dst  *string
	}{
		{BackendBin, &tc.Backend},
		{BackendCLIBin, &tc.BackendCLI},
		{NodeBin, &tc.Node},
		{NodeCLIBin, &tc.NodeCLI},
	} {
		path, err := exec.LookPath(bind.name)
		if err != nil {
			return Toolchain{}, fmt.Errorf("%s not found in PATH (install it or set %s)", bind.name, "HARNESS_INSTALL_DIR")
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return Toolchain{}, fmt.Errorf("resolve %s: %w", bind.name, err)
		}
		*bind.dst = abs
	}
	return tc, nil
}
