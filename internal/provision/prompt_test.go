package provision

import (
	"io"
	"path/filepath"
	"testing"
)

// scriptReader replays a fixed sequence of entries, then EOF.
type scriptReader struct {
	entries []string
	pos     int
	prompts []string
}

func (s *scriptReader) ReadLine(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.pos >= len(s.entries) {
		return "", io.EOF
	}
	entry := s.entries[s.pos]
	s.pos++
	return entry, nil
}

func (s *scriptReader) Close() error { return nil }

func TestResolveParentPreSupplied(t *testing.T) {
	reader := &scriptReader{}
	got, err := ResolveParent("/explicit/dir", reader)
	if err != nil {
		t.Fatalf("ResolveParent: %v", err)
	}
	if got != "/explicit/dir" {
		t.Errorf("got %q, want /explicit/dir", got)
	}
	if len(reader.prompts) != 0 {
		t.Errorf("prompted %d times despite pre-supplied dir", len(reader.prompts))
	}
}

func TestResolveParentDefault(t *testing.T) {
	for _, entry := range []string{"", "d", "default", "D"} {
		reader := &scriptReader{entries: []string{entry}}
		got, err := ResolveParent("", reader)
		if err != nil {
			t.Fatalf("entry %q: %v", entry, err)
		}
		if got != DefaultParent() {
			t.Errorf("entry %q: got %q, want default %q", entry, got, DefaultParent())
		}
	}
}

func TestResolveParentRepromptsOnInvalid(t *testing.T) {
	valid := filepath.Join(t.TempDir(), "nodes")
	reader := &scriptReader{
		entries: []string{
			"/definitely/does/not/exist/nodes", // parent missing: rejected
			valid,
		},
	}

	got, err := ResolveParent("", reader)
	if err != nil {
		t.Fatalf("ResolveParent: %v", err)
	}
	if got != valid {
		t.Errorf("got %q, want %q", got, valid)
	}
	if len(reader.prompts) != 2 {
		t.Errorf("prompted %d times, want 2 (invalid entry must re-prompt)", len(reader.prompts))
	}
}

func TestResolveParentEOF(t *testing.T) {
	reader := &scriptReader{} // immediate EOF
	if _, err := ResolveParent("", reader); err == nil {
		t.Error("expected error on EOF before a valid entry")
	}
}

func TestResolveParentNilReader(t *testing.T) {
	if _, err := ResolveParent("", nil); err == nil {
		t.Error("expected error with no reader and no data dir")
	}
	if got, err := ResolveParent("/data", nil); err != nil || got != "/data" {
		t.Errorf("pre-supplied dir with nil reader: got %q, %v", got, err)
	}
}
