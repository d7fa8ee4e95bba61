package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/randomizedcoder/go-regtest-harness/internal/supervisor"
)

// refreshInterval is how often the process table is re-read.
const refreshInterval = 1 * time.Second

// TickMsg is sent periodically to refresh the display.
type TickMsg time.Time

// StatusSource provides the current process table.
// Satisfied by *supervisor.Supervisor.
type StatusSource interface {
	Statuses() []supervisor.ProcessInfo
}

// Model represents the TUI state.
type Model struct {
	source    StatusSource
	parentDir string
	network   string

	infos      []supervisor.ProcessInfo
	startTime  time.Time
	lastUpdate time.Time

	width    int
	height   int
	quitting bool
}

// New creates a Model backed by the given status source.
func New(source StatusSource, parentDir, network string) Model {
	return Model{
		source:    source,
		parentDir: parentDir,
		network:   network,
		infos:     source.Statuses(),
		startTime: time.Now(),
	}
}

// Init schedules the first refresh.
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case TickMsg:
		m.infos = m.source.Statuses()
		m.lastUpdate = time.Time(msg)
		return m, tick()
	}

	return m, nil
}

// tick schedules the next refresh.
func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Run starts the TUI and blocks until the user quits.
func Run(source StatusSource, parentDir, network string) error {
	p := tea.NewProgram(New(source, parentDir, network))
	_, err := p.Run()
	return err
}
