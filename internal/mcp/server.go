// Package mcp exposes the running floatlock daemon as MCP tools over stdio.
package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/floatlock/internal/coord"
	"github.com/1broseidon/floatlock/internal/ipc"
)

const (
	ServerName    = "floatlock"
	ServerVersion = "0.1.0"
)

// Daemon is the subset of the IPC client the tools call.
type Daemon interface {
	GetStatus() (*ipc.StatusData, error)
	Lock() error
	Unlock() error
	Publish(sig coord.Signal) error
	ResetPosition() error
}

var _ Daemon = (*ipc.Client)(nil)

// Server is the MCP server for driving the lock button.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
	logger    *slog.Logger
}

// NewServer creates a new MCP server backed by daemon.
func NewServer(daemon Daemon, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		daemon: daemon,
		logger: logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report whether the floating lock button or the lock screen is showing, and where the button sits.",
	}, s.handleStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "lock",
		Description: "Show the lock screen. The floating button is hidden until the screen is unlocked.",
	}, s.handleLock)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "unlock",
		Description: "Dismiss the lock screen as a completed swipe would and bring the floating button back.",
	}, s.handleUnlock)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "show_button",
		Description: "Publish the show_button signal. The button appears at its last saved position if it is not already showing.",
	}, s.signalHandler(coord.ShowButton))

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "hide_button",
		Description: "Publish the hide_button signal. The button is removed if it is showing.",
	}, s.signalHandler(coord.HideButton))

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "reset_position",
		Description: "Forget the saved button position and move the button back to its default anchor.",
	}, s.handleResetPosition)
}
