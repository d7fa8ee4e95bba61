package provision

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
)

// LineReader reads one line of user input for a given prompt.
// Abstracted so the prompt loop can be tested without a terminal.
type LineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// terminalReader implements LineReader on top of readline.
type terminalReader struct {
	rl *readline.Instance
}

// NewTerminalReader opens a readline instance on the controlling terminal.
func NewTerminalReader() (LineReader, error) {
	rl, err := readline.New("")
	if err != nil {
		return nil, fmt.Errorf("open terminal: %w", err)
	}
	return &terminalReader{rl: rl}, nil
}

func (t *terminalReader) ReadLine(prompt string) (string, error) {
	t.rl.SetPrompt(prompt)
	line, err := t.rl.Readline()
	if err != nil {
		return "", err
	}
	return line, nil
}

func (t *terminalReader) Close() error {
	return t.rl.Close()
}

// ResolveParent determines the parent directory for node data directories.
//
// A pre-supplied dataDir (flag, env, or config file) wins and is used
// without prompting. Otherwise the user chooses between the default
// temporary location and a custom path. The custom-path loop is unbounded:
// it only terminates on a valid entry, since there is no non-interactive
// fallback once the user opts out of the default.
func ResolveParent(dataDir string, r LineReader) (string, error) {
	if dataDir != "" {
		return ExpandTilde(dataDir), nil
	}
	if r == nil {
		return "", fmt.Errorf("no data directory supplied and prompting is disabled")
	}

	def := DefaultParent()
	for {
		line, err := r.ReadLine(fmt.Sprintf("Node data directory [enter = %s, or type a path]: ", def))
		if err != nil {
			if err == io.EOF || err == readline.ErrInterrupt {
				return "", fmt.Errorf("no data directory selected")
			}
			return "", err
		}

		entry := strings.TrimSpace(line)
		if entry == "" || strings.EqualFold(entry, "d") || strings.EqualFold(entry, "default") {
			return def, nil
		}

		candidate := ExpandTilde(entry)
		if err := ValidateParentCandidate(candidate); err != nil {
			// Stderr: stdout must stay clean for eval'd output
			fmt.Fprintf(os.Stderr, "  %v, try again\n", err)
			continue
		}
		return candidate, nil
	}
}
