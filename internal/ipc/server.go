package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/floatlock/internal/config"
	"github.com/1broseidon/floatlock/internal/coord"
	"github.com/1broseidon/floatlock/internal/runtimepath"
	"github.com/1broseidon/floatlock/internal/session"
)

const (
	streamBuffer       = 16
	streamWriteTimeout = 5 * time.Second
)

// Daemon is the part of the running session the server drives.
type Daemon interface {
	Status() session.Status
	Lock() error
	Unlock() error
	Publish(coord.Signal)
	ResetPosition() error
	Subscribe(fn func(coord.Signal)) func()
}

// ServerOptions configure a Server.
type ServerOptions struct {
	// SocketPath defaults to runtimepath.SocketPath().
	SocketPath string

	// ConfigPath is validated on RELOAD before the daemon is told to reload.
	ConfigPath string

	ReloadChan chan<- struct{}
	Logger     *slog.Logger
}

// Server handles IPC requests from clients
type Server struct {
	socketPath string
	configPath string
	listener   net.Listener
	daemon     Daemon
	reloadChan chan<- struct{}
	logger     *slog.Logger

	subscribers  int
	subMu        sync.Mutex
	done         chan struct{}
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(daemon Daemon, opts ServerOptions) (*Server, error) {
	socketPath := opts.SocketPath
	if socketPath == "" {
		var err error
		socketPath, err = runtimepath.SocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		configPath: opts.ConfigPath,
		daemon:     daemon,
		reloadChan: opts.ReloadChan,
		logger:     logger,
		done:       make(chan struct{}),
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	go s.acceptLoop()
	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	if req.Command == CommandSubscribe {
		s.streamSignals(conn, reader)
		return
	}

	resp := s.handleCommand(req)
	if err := writeResponse(conn, resp); err != nil {
		s.logger.Warn("IPC failed to send response", "error", err)
	}
}

func writeResponse(conn net.Conn, resp *Response) error {
	respData, err := resp.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	respData = append(respData, '\n')
	_, err = conn.Write(respData)
	return err
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandPublish:
		return s.handlePublish(req.Payload)
	case CommandLock:
		return s.handleError(s.daemon.Lock(), "Failed to lock")
	case CommandUnlock:
		return s.handleError(s.daemon.Unlock(), "Failed to unlock")
	case CommandResetPosition:
		return s.handleError(s.daemon.ResetPosition(), "Failed to reset position")
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleError(err error, prefix string) *Response {
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("%s: %v", prefix, err))
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

// handleReload validates the config file and asks the daemon to apply it.
func (s *Server) handleReload() *Response {
	s.logger.Info("IPC: received RELOAD command")

	if s.configPath != "" {
		if _, err := config.LoadFromPath(s.configPath); err != nil {
			return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
		}
	}

	// Notify the main daemon via channel (non-blocking)
	select {
	case s.reloadChan <- struct{}{}:
	default:
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleGetStatus() *Response {
	st := s.daemon.Status()

	s.subMu.Lock()
	subs := s.subscribers
	s.subMu.Unlock()

	resp, _ := NewOKResponse(StatusData{
		ButtonActive:  st.ButtonActive,
		LockActive:    st.LockActive,
		ButtonX:       st.Position.X,
		ButtonY:       st.Position.Y,
		UptimeSeconds: st.UptimeSeconds,
		Subscribers:   subs,
		DaemonRunning: true,
	})
	return resp
}

func (s *Server) handlePublish(payload json.RawMessage) *Response {
	var req PublishPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid publish payload: %v", err))
	}
	s.logger.Info("IPC: publish", "signal", req.Signal)
	s.daemon.Publish(req.Signal)

	resp, _ := NewOKResponse(nil)
	return resp
}

// streamSignals writes every delivered signal to conn until the client goes
// away or the server stops. Signals are dropped for a client that cannot
// keep up.
func (s *Server) streamSignals(conn net.Conn, reader *bufio.Reader) {
	events := make(chan coord.Signal, streamBuffer)
	unsubscribe := s.daemon.Subscribe(func(sig coord.Signal) {
		select {
		case events <- sig:
		default:
			s.logger.Debug("IPC: subscriber too slow, dropping signal", "signal", sig)
		}
	})
	defer unsubscribe()

	s.subMu.Lock()
	s.subscribers++
	s.subMu.Unlock()
	defer func() {
		s.subMu.Lock()
		s.subscribers--
		s.subMu.Unlock()
	}()

	ok, _ := NewOKResponse(nil)
	if err := writeResponse(conn, ok); err != nil {
		return
	}

	closed := make(chan struct{})
	go func() {
		io.Copy(io.Discard, reader)
		close(closed)
	}()

	enc := json.NewEncoder(conn)
	for {
		select {
		case <-closed:
			return
		case <-s.done:
			return
		case sig := <-events:
			conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
			if err := enc.Encode(SignalEvent{Signal: sig, Time: time.Now()}); err != nil {
				s.logger.Debug("IPC: subscriber write failed", "error", err)
				return
			}
		}
	}
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	data, _ := NewErrorResponse(errMsg).Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	if s.shuttingDown {
		s.shutdownMu.Unlock()
		return
	}
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	close(s.done)
	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
