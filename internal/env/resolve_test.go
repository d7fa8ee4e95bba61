package env

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeFakeTool creates an executable file at dir/sub/name.
func writeFakeTool(t *testing.T, dir, sub, name string) string {
	t.Helper()
	target := filepath.Join(dir, sub)
	if err := os.MkdirAll(target, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(target, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

// chdir changes the working directory for the duration of the test,
// restoring the original directory in cleanup (t.Chdir needs Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(orig); err != nil {
			t.Fatal(err)
		}
	})
}

func allTools() []string {
	return []string{BackendBin, BackendCLIBin, NodeBin, NodeCLIBin}
}

func TestResolveInstallDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range allTools() {
		writeFakeTool(t, dir, "bin", name)
	}

	tc, err := Resolve(dir)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	for _, got := range []string{tc.Backend, tc.BackendCLI, tc.Node, tc.NodeCLI} {
		if !filepath.IsAbs(got) {
			t.Errorf("resolved path %q is not absolute", got)
		}
		if !strings.HasPrefix(got, dir) {
			t.Errorf("resolved path %q is outside install dir %q", got, dir)
		}
	}
	if filepath.Base(tc.Backend) != BackendBin {
		t.Errorf("Backend = %q, want %s", tc.Backend, BackendBin)
	}
}

func TestResolveInstallDirFlat(t *testing.T) {
	// Tools directly in the install dir, no bin/ subdirectory
	dir := t.TempDir()
	for _, name := range allTools() {
		writeFakeTool(t, dir, "", name)
	}

	if _, err := Resolve(dir); err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
}

func TestResolveInstallDirMissingTool(t *testing.T) {
	dir := t.TempDir()
	// Everything except the node daemon
	for _, name := range []string{BackendBin, BackendCLIBin, NodeCLIBin} {
		writeFakeTool(t, dir, "bin", name)
	}

	_, err := Resolve(dir)
	if err == nil {
		t.Fatal("expected error for missing tool")
	}
	if !strings.Contains(err.Error(), NodeBin) {
		t.Errorf("error %q does not name the missing tool %q", err, NodeBin)
	}
}

func TestResolveNonExecutableSkipped(t *testing.T) {
	dir := t.TempDir()
	for _, name := range allTools() {
		writeFakeTool(t, dir, "bin", name)
	}
	// Strip the executable bit from one tool. WriteFile's perm only applies
	// on create, so an explicit chmod is required.
	plain := filepath.Join(dir, "bin", BackendBin)
	if err := os.WriteFile(plain, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(plain, 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Resolve(dir)
	if err == nil {
		t.Fatal("expected error when tool is not executable")
	}
	if !strings.Contains(err.Error(), BackendBin) {
		t.Errorf("error %q does not name %q", err, BackendBin)
	}
}

func TestResolveFromPath(t *testing.T) {
	dir := t.TempDir()
	for _, name := range allTools() {
		writeFakeTool(t, dir, "", name)
	}
	t.Setenv("PATH", dir)
	chdir(t, t.TempDir()) // empty cwd so the source-tree probe misses

	tc, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if filepath.Base(tc.NodeCLI) != NodeCLIBin {
		t.Errorf("NodeCLI = %q, want %s", tc.NodeCLI, NodeCLIBin)
	}
}

func TestResolvePathMissing(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	chdir(t, t.TempDir())

	_, err := Resolve("")
	if err == nil {
		t.Fatal("expected error when nothing resolves")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("error %q should say what was not found", err)
	}
}

func TestResolveWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range allTools() {
		writeFakeTool(t, dir, "bin", name)
	}
	t.Setenv("PATH", "") // PATH must not be consulted
	chdir(t, dir)

	tc, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if filepath.Base(tc.Backend) != BackendBin {
		t.Errorf("Backend = %q, want %s", tc.Backend, BackendBin)
	}
}
