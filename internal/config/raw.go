package config

type RawButton struct {
	Width   *int     `yaml:"width"`
	Height  *int     `yaml:"height"`
	Color   *Color   `yaml:"color"`
	Label   *string  `yaml:"label"`
	Opacity *float64 `yaml:"opacity"`
}

type RawLockScreen struct {
	Background     *Color `yaml:"background"`
	TrackWidth     *int   `yaml:"track_width"`
	TrackHeight    *int   `yaml:"track_height"`
	TrackColor     *Color `yaml:"track_color"`
	IndicatorWidth *int   `yaml:"indicator_width"`
	IndicatorColor *Color `yaml:"indicator_color"`
	CloseSize      *int   `yaml:"close_size"`
	CloseColor     *Color `yaml:"close_color"`
}

type RawHotkeys struct {
	Lock         *string `yaml:"lock"`
	ToggleButton *string `yaml:"toggle_button"`
}

type RawNotifications struct {
	Enabled *bool   `yaml:"enabled"`
	Backend *string `yaml:"backend"`
}

type RawConfig struct {
	Display                  *string           `yaml:"display"`
	XAuthority               *string           `yaml:"xauthority"`
	LogLevel                 *string           `yaml:"log_level"`
	LogFile                  *string           `yaml:"log_file"`
	PositionFile             *string           `yaml:"position_file"`
	Button                   *RawButton        `yaml:"button"`
	LockScreen               *RawLockScreen    `yaml:"lock_screen"`
	Hotkeys                  *RawHotkeys       `yaml:"hotkeys"`
	Notifications            *RawNotifications `yaml:"notifications"`
	ReconcileIntervalSeconds *int              `yaml:"reconcile_interval_seconds"`
}
