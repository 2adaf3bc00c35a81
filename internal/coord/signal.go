// Package coord carries ShowButton/HideButton between the two overlay
// controllers so neither needs a reference to the other.
package coord

import (
	"fmt"
	"strings"
)

// Signal is a payload-less coordination signal.
type Signal int

const (
	// ShowButton asks the floating button to appear if it is not already shown.
	ShowButton Signal = iota + 1
	// HideButton asks the floating button to remove its surface.
	HideButton
)

// String returns the wire name of the signal.
func (s Signal) String() string {
	switch s {
	case ShowButton:
		return "show_button"
	case HideButton:
		return "hide_button"
	default:
		return fmt.Sprintf("signal(%d)", int(s))
	}
}

// ParseSignal parses a wire name produced by String.
func ParseSignal(name string) (Signal, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "show_button", "show":
		return ShowButton, nil
	case "hide_button", "hide":
		return HideButton, nil
	default:
		return 0, fmt.Errorf("unknown signal %q", name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Signal) MarshalText() ([]byte, error) {
	if s != ShowButton && s != HideButton {
		return nil, fmt.Errorf("invalid signal %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Signal) UnmarshalText(text []byte) error {
	parsed, err := ParseSignal(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Publisher emits signals. Publish never blocks on delivery.
type Publisher interface {
	Publish(Signal)
}

// Subscriber registers handlers for signals delivered after registration.
type Subscriber interface {
	Subscribe(fn func(Signal)) (unsubscribe func())
}

// PubSub is both ends of a channel.
type PubSub interface {
	Publisher
	Subscriber
}
