package provision

import (
	"fmt"
	"path/filepath"
	"testing"
)

func TestPlanNodes(t *testing.T) {
	specs := PlanNodes(3, "/data", 9000)

	if len(specs) != 3 {
		t.Fatalf("got %d specs, want 3", len(specs))
	}

	for i, spec := range specs {
		wantIndex := i + 1
		if spec.Index != wantIndex {
			t.Errorf("spec %d: Index = %d, want %d", i, spec.Index, wantIndex)
		}
		if want := 9000 + wantIndex; spec.Port != want {
			t.Errorf("spec %d: Port = %d, want %d", i, spec.Port, want)
		}
		if want := filepath.Join("/data", fmt.Sprintf("node%d", wantIndex)); spec.Dir != want {
			t.Errorf("spec %d: Dir = %q, want %q", i, spec.Dir, want)
		}
		if want := filepath.Join(spec.Dir, ConfigFileName); spec.ConfigPath != want {
			t.Errorf("spec %d: ConfigPath = %q, want %q", i, spec.ConfigPath, want)
		}
		if want := filepath.Join(spec.Dir, LogFileName); spec.LogPath != want {
			t.Errorf("spec %d: LogPath = %q, want %q", i, spec.LogPath, want)
		}
		if want := filepath.Join(spec.Dir, PIDFileName); spec.PIDPath != want {
			t.Errorf("spec %d: PIDPath = %q, want %q", i, spec.PIDPath, want)
		}
	}
}

func TestPlanNodesUnique(t *testing.T) {
	specs := PlanNodes(16, "/data", 9000)

	ports := make(map[int]bool)
	dirs := make(map[string]bool)
	for _, spec := range specs {
		if ports[spec.Port] {
			t.Errorf("duplicate port %d", spec.Port)
		}
		if dirs[spec.Dir] {
			t.Errorf("duplicate dir %q", spec.Dir)
		}
		ports[spec.Port] = true
		dirs[spec.Dir] = true
	}
}

func TestPlanNodesSingle(t *testing.T) {
	specs := PlanNodes(1, "/data", 9000)
	if len(specs) != 1 {
		t.Fatalf("got %d specs, want 1", len(specs))
	}
	if specs[0].Port != 9001 {
		t.Errorf("Port = %d, want 9001", specs[0].Port)
	}
}
