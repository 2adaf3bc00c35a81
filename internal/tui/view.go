package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/floatlock/internal/coord"
	"github.com/1broseidon/floatlock/internal/ipc"
)

var (
	barStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("250")).
			Padding(0, 1)

	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	showStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	hideStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
)

// renderStatusBar renders the daemon connection and overlay state.
func renderStatusBar(connected bool, st *ipc.StatusData, width int) string {
	var status string
	if connected && st != nil {
		state := "idle"
		switch {
		case st.LockActive:
			state = "locked"
		case st.ButtonActive:
			state = "button shown"
		}
		parts := []string{
			okStyle.Render("●") + " daemon connected",
			state,
			fmt.Sprintf("button:(%d,%d)", st.ButtonX, st.ButtonY),
			fmt.Sprintf("up:%ds", st.UptimeSeconds),
		}
		status = strings.Join(parts, "  ")
	} else {
		status = dimStyle.Render("●") + " daemon not running"
	}
	return barStyle.Width(width).Render(status)
}

func renderEvents(events []ipc.SignalEvent, streaming bool, width, height int) string {
	title := titleStyle.Render("Signals")
	if !streaming {
		title += dimStyle.Render("  (stream closed)")
	}

	lines := []string{title}
	if len(events) == 0 {
		lines = append(lines, dimStyle.Render("waiting for signals..."))
	}

	// Newest last; keep the tail that fits.
	start := max(len(events)-(height-1), 0)
	for _, ev := range events[start:] {
		lines = append(lines, renderEvent(ev))
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

func renderEvent(ev ipc.SignalEvent) string {
	name := ev.Signal.String()
	switch ev.Signal {
	case coord.ShowButton:
		name = showStyle.Render(name)
	case coord.HideButton:
		name = hideStyle.Render(name)
	}
	return dimStyle.Render(ev.Time.Format("15:04:05.000")) + "  " + name
}

func renderMessage(info, errMsg string, width int) string {
	style := lipgloss.NewStyle().Width(width).Padding(0, 1)
	switch {
	case errMsg != "":
		return style.Render(errStyle.Render(errMsg))
	case info != "":
		return style.Render(okStyle.Render(info))
	default:
		return style.Render("")
	}
}

// renderHelpBar renders the bottom help/keybinding bar.
func renderHelpBar(h help.Model, keys keyMap, width int) string {
	return lipgloss.NewStyle().Width(width).Padding(0, 1).Render(h.View(keys))
}
