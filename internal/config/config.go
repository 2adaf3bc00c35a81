package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Notification backends.
const (
	NotifyAuto = "auto"
	NotifyDBus = "dbus"
	NotifyLog  = "log"
	NotifyNone = "none"
)

// Color is a 0xRRGGBB value. YAML accepts integers (0x3498db) or strings
// ("#3498db", "0x3498db").
type Color uint32

// String formats the color as 0xRRGGBB.
func (c Color) String() string {
	return fmt.Sprintf("0x%06x", uint32(c))
}

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a scalar")
	}
	s := strings.TrimSpace(value.Value)
	s = strings.TrimPrefix(s, "#")
	base := 0
	if !strings.HasPrefix(strings.ToLower(s), "0x") && value.Tag == "!!str" {
		base = 16
	}
	v, err := strconv.ParseUint(s, base, 32)
	if err != nil {
		return fmt.Errorf("invalid color %q", value.Value)
	}
	if v > 0xffffff {
		return fmt.Errorf("color %q out of range", value.Value)
	}
	*c = Color(v)
	return nil
}

func (c Color) MarshalYAML() (any, error) {
	return c.String(), nil
}

// ButtonConfig controls the floating button.
type ButtonConfig struct {
	Width   int     `yaml:"width"`
	Height  int     `yaml:"height"`
	Color   Color   `yaml:"color"`
	Label   string  `yaml:"label"`
	Opacity float64 `yaml:"opacity"`
}

// LockScreenConfig controls the lock overlay.
type LockScreenConfig struct {
	Background     Color `yaml:"background"`
	TrackWidth     int   `yaml:"track_width"`
	TrackHeight    int   `yaml:"track_height"`
	TrackColor     Color `yaml:"track_color"`
	IndicatorWidth int   `yaml:"indicator_width"`
	IndicatorColor Color `yaml:"indicator_color"`
	CloseSize      int   `yaml:"close_size"`
	CloseColor     Color `yaml:"close_color"`
}

// HotkeyConfig holds global key sequences in xgbutil keybind syntax.
// An empty sequence disables the binding.
type HotkeyConfig struct {
	Lock         string `yaml:"lock"`
	ToggleButton string `yaml:"toggle_button"`
}

// NotificationConfig controls the short confirmations shown on button
// add/remove.
type NotificationConfig struct {
	Enabled bool   `yaml:"enabled"`
	Backend string `yaml:"backend"`
}

type Config struct {
	Display                  string             `yaml:"display,omitempty"`
	XAuthority               string             `yaml:"xauthority,omitempty"`
	LogLevel                 string             `yaml:"log_level"`
	LogFile                  string             `yaml:"log_file,omitempty"`
	PositionFile             string             `yaml:"position_file,omitempty"`
	Button                   ButtonConfig       `yaml:"button"`
	LockScreen               LockScreenConfig   `yaml:"lock_screen"`
	Hotkeys                  HotkeyConfig       `yaml:"hotkeys"`
	Notifications            NotificationConfig `yaml:"notifications"`
	ReconcileIntervalSeconds int                `yaml:"reconcile_interval_seconds"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Button: ButtonConfig{
			Width:   64,
			Height:  64,
			Color:   0x3498db,
			Label:   "Lock",
			Opacity: 0.85,
		},
		LockScreen: LockScreenConfig{
			Background:     0x1f2933,
			TrackWidth:     700,
			TrackHeight:    80,
			TrackColor:     0x7f8c8d,
			IndicatorWidth: 80,
			IndicatorColor: 0x27ae60,
			CloseSize:      48,
			CloseColor:     0xc0392b,
		},
		Hotkeys: HotkeyConfig{
			Lock: "Mod4-Mod1-l", // Super+Alt+L
		},
		Notifications: NotificationConfig{
			Enabled: true,
			Backend: NotifyAuto,
		},
		ReconcileIntervalSeconds: 5,
	}
}

// ReconcileInterval returns the reconciler period; zero disables it.
func (c *Config) ReconcileInterval() time.Duration {
	if c == nil || c.ReconcileIntervalSeconds <= 0 {
		return 0
	}
	return time.Duration(c.ReconcileIntervalSeconds) * time.Second
}

// NotificationBackend returns the effective backend, "none" when disabled.
func (c *Config) NotificationBackend() string {
	if c == nil || !c.Notifications.Enabled {
		return NotifyNone
	}
	return c.Notifications.Backend
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the effective config and will not preserve comments
// from the original YAML.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}

	if c.Button.Width <= 0 {
		return &ValidationError{Path: "button.width", Err: fmt.Errorf("width must be > 0")}
	}
	if c.Button.Height <= 0 {
		return &ValidationError{Path: "button.height", Err: fmt.Errorf("height must be > 0")}
	}
	if c.Button.Opacity <= 0 || c.Button.Opacity > 1 {
		return &ValidationError{Path: "button.opacity", Err: fmt.Errorf("opacity must be in (0, 1]")}
	}

	ls := c.LockScreen
	if ls.TrackWidth <= 0 {
		return &ValidationError{Path: "lock_screen.track_width", Err: fmt.Errorf("track_width must be > 0")}
	}
	if ls.TrackHeight <= 0 {
		return &ValidationError{Path: "lock_screen.track_height", Err: fmt.Errorf("track_height must be > 0")}
	}
	if ls.IndicatorWidth <= 0 {
		return &ValidationError{Path: "lock_screen.indicator_width", Err: fmt.Errorf("indicator_width must be > 0")}
	}
	if ls.IndicatorWidth >= ls.TrackWidth {
		return &ValidationError{Path: "lock_screen.indicator_width", Err: fmt.Errorf("indicator_width must be smaller than track_width")}
	}
	if ls.CloseSize <= 0 {
		return &ValidationError{Path: "lock_screen.close_size", Err: fmt.Errorf("close_size must be > 0")}
	}

	switch c.Notifications.Backend {
	case NotifyAuto, NotifyDBus, NotifyLog, NotifyNone:
	default:
		return &ValidationError{Path: "notifications.backend", Err: fmt.Errorf("backend must be one of: auto, dbus, log, none")}
	}

	if c.ReconcileIntervalSeconds < 0 {
		return &ValidationError{Path: "reconcile_interval_seconds", Err: fmt.Errorf("reconcile_interval_seconds must be >= 0")}
	}

	if c.Hotkeys.Lock != "" && c.Hotkeys.Lock == c.Hotkeys.ToggleButton {
		return &ValidationError{Path: "hotkeys.toggle_button", Err: fmt.Errorf("toggle_button must differ from lock")}
	}

	return nil
}
