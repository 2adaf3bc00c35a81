package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/floatlock/internal/coord"
	"github.com/1broseidon/floatlock/internal/ipc"
)

const (
	refreshInterval = time.Second
	maxEvents       = 50
)

type (
	statusMsg struct {
		status *ipc.StatusData
		err    error
	}
	signalMsg       ipc.SignalEvent
	streamClosedMsg struct{ err error }
	actionMsg       struct {
		name string
		err  error
	}
	tickMsg time.Time
)

// model is the root bubbletea model for the TUI.
type model struct {
	daemon Daemon
	keys   keyMap
	help   help.Model

	status    *ipc.StatusData
	connected bool
	streaming bool
	events    []ipc.SignalEvent
	lastError string
	lastInfo  string

	// Terminal dimensions
	width  int
	height int
}

func newModel(daemon Daemon) model {
	return model{
		daemon:    daemon,
		keys:      defaultKeyMap(),
		help:      help.New(),
		streaming: true,
	}
}

func (m model) fetchStatus() tea.Cmd {
	return func() tea.Msg {
		st, err := m.daemon.GetStatus()
		return statusMsg{status: st, err: err}
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) action(name string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		return actionMsg{name: name, err: fn()}
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(m.fetchStatus(), tick())
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.fetchStatus(), tick())

	case statusMsg:
		if msg.err != nil {
			m.connected = false
			m.status = nil
			return m, nil
		}
		m.connected = true
		m.status = msg.status
		return m, nil

	case signalMsg:
		m.events = append(m.events, ipc.SignalEvent(msg))
		if len(m.events) > maxEvents {
			m.events = m.events[len(m.events)-maxEvents:]
		}
		return m, m.fetchStatus()

	case streamClosedMsg:
		m.streaming = false
		m.lastError = "signal stream closed: " + msg.err.Error()
		return m, nil

	case actionMsg:
		if msg.err != nil {
			m.lastError = msg.name + ": " + msg.err.Error()
			m.lastInfo = ""
		} else {
			m.lastError = ""
			m.lastInfo = msg.name + " ok"
		}
		return m, m.fetchStatus()
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Lock):
		return m, m.action("lock", m.daemon.Lock)
	case key.Matches(msg, m.keys.Unlock):
		return m, m.action("unlock", m.daemon.Unlock)
	case key.Matches(msg, m.keys.Show):
		return m, m.action("show", func() error { return m.daemon.Publish(coord.ShowButton) })
	case key.Matches(msg, m.keys.Hide):
		return m, m.action("hide", func() error { return m.daemon.Publish(coord.HideButton) })
	case key.Matches(msg, m.keys.Reset):
		return m, m.action("reset position", m.daemon.ResetPosition)
	case key.Matches(msg, m.keys.Clear):
		m.events = nil
		return m, nil
	}
	return m, nil
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.connected, m.status, m.width)
	helpBar := renderHelpBar(m.help, m.keys, m.width)
	message := renderMessage(m.lastInfo, m.lastError, m.width)

	used := lipgloss.Height(statusBar) + lipgloss.Height(helpBar) + lipgloss.Height(message)
	contentHeight := max(m.height-used, 1)

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		renderEvents(m.events, m.streaming, m.width, contentHeight),
		message,
		helpBar,
	)
}
