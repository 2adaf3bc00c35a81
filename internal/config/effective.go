package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// BuildEffectiveConfig applies raw on top of DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	setIf(&cfg.Display, raw.Display)
	setIf(&cfg.XAuthority, raw.XAuthority)
	setIf(&cfg.LogFile, raw.LogFile)
	setIf(&cfg.PositionFile, raw.PositionFile)
	setIf(&cfg.ReconcileIntervalSeconds, raw.ReconcileIntervalSeconds)
	if raw.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(*raw.LogLevel))
	}

	if b := raw.Button; b != nil {
		setIf(&cfg.Button.Width, b.Width)
		setIf(&cfg.Button.Height, b.Height)
		setIf(&cfg.Button.Color, b.Color)
		setIf(&cfg.Button.Label, b.Label)
		setIf(&cfg.Button.Opacity, b.Opacity)
	}

	if ls := raw.LockScreen; ls != nil {
		setIf(&cfg.LockScreen.Background, ls.Background)
		setIf(&cfg.LockScreen.TrackWidth, ls.TrackWidth)
		setIf(&cfg.LockScreen.TrackHeight, ls.TrackHeight)
		setIf(&cfg.LockScreen.TrackColor, ls.TrackColor)
		setIf(&cfg.LockScreen.IndicatorWidth, ls.IndicatorWidth)
		setIf(&cfg.LockScreen.IndicatorColor, ls.IndicatorColor)
		setIf(&cfg.LockScreen.CloseSize, ls.CloseSize)
		setIf(&cfg.LockScreen.CloseColor, ls.CloseColor)
	}

	if hk := raw.Hotkeys; hk != nil {
		setIf(&cfg.Hotkeys.Lock, hk.Lock)
		setIf(&cfg.Hotkeys.ToggleButton, hk.ToggleButton)
	}

	if n := raw.Notifications; n != nil {
		setIf(&cfg.Notifications.Enabled, n.Enabled)
		if n.Backend != nil {
			cfg.Notifications.Backend = strings.ToLower(strings.TrimSpace(*n.Backend))
		}
	}

	return cfg, nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
