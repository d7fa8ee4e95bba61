package logging

import (
	"bufio"
	"io"
	"log/slog"
	"strings"
	"sync"
)

const (
	// MaxLineLength is the maximum length of a single log line before truncation.
	MaxLineLength = 4096

	// MaxBufferedLines is the maximum number of lines to buffer per process.
	MaxBufferedLines = 100
)

// ProcessOutputHandler handles stderr output from launched daemon processes.
// It buffers recent lines so a failed launch can report what the process
// printed before it died.
type ProcessOutputHandler struct {
	name    string
	logger  *slog.Logger
	verbose bool

	// Circular buffer for recent lines
	buffer []string
	bufIdx int
	total  int
	mu     sync.Mutex
}

// NewProcessOutputHandler creates a new output handler for a named process.
func NewProcessOutputHandler(name string, logger *slog.Logger, verbose bool) *ProcessOutputHandler {
	return &ProcessOutputHandler{
		name:    name,
		logger:  logger,
		verbose: verbose,
		buffer:  make([]string, MaxBufferedLines),
	}
}

// HandleReader reads from an io.Reader and processes each line.
// This should be run in a goroutine.
func (h *ProcessOutputHandler) HandleReader(r io.Reader) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, MaxLineLength)
	scanner.Buffer(buf, MaxLineLength)

	for scanner.Scan() {
		h.HandleLine(scanner.Text())
	}
}

// HandleLine processes a single line of process output.
func (h *ProcessOutputHandler) HandleLine(line string) {
	if len(line) > MaxLineLength {
		line = line[:MaxLineLength] + "...(truncated)"
	}

	h.mu.Lock()
	h.buffer[h.bufIdx] = line
	h.bufIdx = (h.bufIdx + 1) % MaxBufferedLines
	h.total++
	h.mu.Unlock()

	if h.verbose {
		h.logger.Debug("process_output", "process", h.name, "line", line)
	}
}

// RecentLines returns the buffered lines in arrival order.
func (h *ProcessOutputHandler) RecentLines() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := h.total
	if n > MaxBufferedLines {
		n = MaxBufferedLines
	}

	lines := make([]string, 0, n)
	start := 0
	if h.total > MaxBufferedLines {
		start = h.bufIdx
	}
	for i := 0; i < n; i++ {
		lines = append(lines, h.buffer[(start+i)%MaxBufferedLines])
	}
	return lines
}

// Summary returns the most recent lines joined for error reporting.
func (h *ProcessOutputHandler) Summary(max int) string {
	lines := h.RecentLines()
	if len(lines) > max {
		lines = lines[len(lines)-max:]
	}
	return strings.Join(lines, "\n")
}
