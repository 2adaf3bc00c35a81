// Package notify shows short, one-shot confirmations to the user.
package notify

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Notifier delivers a user-visible message. Callers treat failures as
// non-fatal.
type Notifier interface {
	Notify(summary, body string) error
}

// Backend names accepted by New.
const (
	BackendAuto = "auto"
	BackendDBus = "dbus"
	BackendLog  = "log"
	BackendNone = "none"
)

// New returns the notifier for backend. "auto" tries the session bus and
// falls back to the logger.
func New(backend string, logger *slog.Logger) (Notifier, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendAuto:
		n, err := NewDBus()
		if err != nil {
			logger.Debug("notify: session bus unavailable, falling back to log", "error", err)
			return NewLog(logger), nil
		}
		return n, nil
	case BackendDBus:
		return NewDBus()
	case BackendLog:
		return NewLog(logger), nil
	case BackendNone:
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown notification backend %q", backend)
	}
}

// Nop discards every message.
type Nop struct{}

// Notify implements Notifier.
func (Nop) Notify(string, string) error { return nil }

// Log writes messages to a structured logger.
type Log struct {
	logger *slog.Logger
}

// NewLog returns a Log notifier.
func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger}
}

// Notify implements Notifier.
func (l *Log) Notify(summary, body string) error {
	l.logger.Info("notification", "summary", summary, "body", body)
	return nil
}

// Recorder keeps every message in memory.
type Recorder struct {
	mu       sync.Mutex
	messages []string
}

// Notify implements Notifier.
func (r *Recorder) Notify(summary, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg := summary
	if body != "" {
		msg += ": " + body
	}
	r.messages = append(r.messages, msg)
	return nil
}

// Messages returns a copy of the recorded messages.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}
