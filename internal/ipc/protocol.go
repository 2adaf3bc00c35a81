package ipc

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/1broseidon/floatlock/internal/coord"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload        CommandType = "RELOAD"
	CommandGetStatus     CommandType = "GET_STATUS"
	CommandPublish       CommandType = "PUBLISH"
	CommandLock          CommandType = "LOCK"
	CommandUnlock        CommandType = "UNLOCK"
	CommandResetPosition CommandType = "RESET_POSITION"

	// CommandSubscribe keeps the connection open: after the OK response the
	// server writes one SignalEvent per line until either side closes.
	CommandSubscribe CommandType = "SUBSCRIBE"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	ButtonActive  bool  `json:"button_active"`
	LockActive    bool  `json:"lock_active"`
	ButtonX       int   `json:"button_x"`
	ButtonY       int   `json:"button_y"`
	UptimeSeconds int64 `json:"uptime_seconds"`
	Subscribers   int   `json:"subscribers"`
	DaemonRunning bool  `json:"daemon_running"`
}

// PublishPayload represents the payload for the PUBLISH command
type PublishPayload struct {
	Signal coord.Signal `json:"signal"`
}

// SignalEvent is one line of a SUBSCRIBE stream.
type SignalEvent struct {
	Signal coord.Signal `json:"signal"`
	Time   time.Time    `json:"time"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
