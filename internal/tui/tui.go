// Package tui is an interactive monitor for a running floatlock daemon.
package tui

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/floatlock/internal/coord"
	"github.com/1broseidon/floatlock/internal/ipc"
)

// Daemon is the IPC surface the monitor drives.
type Daemon interface {
	GetStatus() (*ipc.StatusData, error)
	Lock() error
	Unlock() error
	Publish(sig coord.Signal) error
	ResetPosition() error
	Subscribe(ctx context.Context, fn func(ipc.SignalEvent)) error
}

var _ Daemon = (*ipc.Client)(nil)

// Run opens the monitor and blocks until the user quits.
func Run(daemon Daemon) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := tea.NewProgram(newModel(daemon), tea.WithAltScreen())

	go func() {
		err := daemon.Subscribe(ctx, func(ev ipc.SignalEvent) {
			p.Send(signalMsg(ev))
		})
		if err != nil && ctx.Err() == nil {
			p.Send(streamClosedMsg{err: err})
		}
	}()

	_, err := p.Run()
	return err
}
