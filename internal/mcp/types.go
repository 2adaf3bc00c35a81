package mcp

// StatusInput is the input for the get_status tool.
type StatusInput struct{}

// StatusOutput is the output for the get_status tool.
type StatusOutput struct {
	ButtonActive  bool  `json:"button_active"`
	LockActive    bool  `json:"lock_active"`
	ButtonX       int   `json:"button_x"`
	ButtonY       int   `json:"button_y"`
	UptimeSeconds int64 `json:"uptime_seconds"`
	Subscribers   int   `json:"subscribers"`
}

// LockInput is the input for the lock tool.
type LockInput struct{}

// UnlockInput is the input for the unlock tool.
type UnlockInput struct{}

// SignalInput is the input for the show_button and hide_button tools.
type SignalInput struct{}

// ResetPositionInput is the input for the reset_position tool.
type ResetPositionInput struct{}

// ActionOutput is returned by every tool that only changes state.
type ActionOutput struct {
	OK     bool   `json:"ok"`
	Action string `json:"action"`
}
