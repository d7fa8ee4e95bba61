package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/randomizedcoder/go-regtest-harness/internal/supervisor"
)

// fakeSource returns a canned process table and counts reads.
type fakeSource struct {
	infos []supervisor.ProcessInfo
	reads int
}

func (f *fakeSource) Statuses() []supervisor.ProcessInfo {
	f.reads++
	return f.infos
}

func testSource() *fakeSource {
	return &fakeSource{
		infos: []supervisor.ProcessInfo{
			{Name: "backend", PID: 1234, PIDPath: "/data/backend/chaind.pid", Status: supervisor.StatusRunning},
			{Name: "node1", Index: 1, PIDPath: "/data/node1/lpd.pid", Status: supervisor.StatusStopped},
			{Name: "node2", Index: 2, PID: 5678, PIDPath: "/data/node2/lpd.pid", Status: supervisor.StatusStale},
		},
	}
}

func TestNewReadsInitialStatuses(t *testing.T) {
	src := testSource()
	m := New(src, "/data", "regtest")

	if src.reads != 1 {
		t.Errorf("source read %d times, want 1", src.reads)
	}
	if len(m.infos) != 3 {
		t.Errorf("model holds %d infos, want 3", len(m.infos))
	}
}

func TestTickRefreshes(t *testing.T) {
	src := testSource()
	m := New(src, "/data", "regtest")

	src.infos = src.infos[:1]
	next, cmd := m.Update(TickMsg(time.Now()))

	if cmd == nil {
		t.Error("tick did not schedule the next refresh")
	}
	if got := next.(Model); len(got.infos) != 1 {
		t.Errorf("model holds %d infos after refresh, want 1", len(got.infos))
	}
	if src.reads != 2 {
		t.Errorf("source read %d times, want 2", src.reads)
	}
}

func TestQuitKeys(t *testing.T) {
	for _, key := range []string{"q", "ctrl+c", "esc"} {
		t.Run(key, func(t *testing.T) {
			m := New(testSource(), "/data", "regtest")

			var msg tea.KeyMsg
			switch key {
			case "ctrl+c":
				msg = tea.KeyMsg{Type: tea.KeyCtrlC}
			case "esc":
				msg = tea.KeyMsg{Type: tea.KeyEsc}
			default:
				msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
			}

			next, cmd := m.Update(msg)
			if cmd == nil {
				t.Fatal("quit key produced no command")
			}
			if next.(Model).View() != "" {
				t.Error("quitting model still renders")
			}
		})
	}
}

func TestOtherKeysIgnored(t *testing.T) {
	m := New(testSource(), "/data", "regtest")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if cmd != nil {
		t.Error("unhandled key produced a command")
	}
}

func TestWindowSize(t *testing.T) {
	m := New(testSource(), "/data", "regtest")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	got := next.(Model)
	if got.width != 120 || got.height != 40 {
		t.Errorf("size = %dx%d, want 120x40", got.width, got.height)
	}
}

func TestViewContents(t *testing.T) {
	m := New(testSource(), "/data", "regtest")
	out := m.View()

	for _, want := range []string{
		"go-regtest-harness",
		"regtest",
		"backend",
		"node1",
		"node2",
		"running",
		"stopped",
		"stale",
		"1234",
		"1/3 running",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
