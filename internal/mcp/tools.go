package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/floatlock/internal/coord"
)

func textResult(format string, args ...any) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: fmt.Sprintf(format, args...)},
		},
	}
}

func (s *Server) handleStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ StatusInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	st, err := s.daemon.GetStatus()
	if err != nil {
		return nil, StatusOutput{}, fmt.Errorf("failed to get status: %w", err)
	}
	out := StatusOutput{
		ButtonActive:  st.ButtonActive,
		LockActive:    st.LockActive,
		ButtonX:       st.ButtonX,
		ButtonY:       st.ButtonY,
		UptimeSeconds: st.UptimeSeconds,
		Subscribers:   st.Subscribers,
	}

	state := "idle"
	switch {
	case st.LockActive:
		state = "locked"
	case st.ButtonActive:
		state = "button shown"
	}
	return textResult("%s, button at (%d,%d)", state, st.ButtonX, st.ButtonY), out, nil
}

func (s *Server) handleLock(_ context.Context, _ *mcpsdk.CallToolRequest, _ LockInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if err := s.daemon.Lock(); err != nil {
		s.logger.Warn("mcp lock failed", "error", err)
		return nil, ActionOutput{}, fmt.Errorf("failed to lock: %w", err)
	}
	return textResult("Lock screen shown"), ActionOutput{OK: true, Action: "lock"}, nil
}

func (s *Server) handleUnlock(_ context.Context, _ *mcpsdk.CallToolRequest, _ UnlockInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if err := s.daemon.Unlock(); err != nil {
		s.logger.Warn("mcp unlock failed", "error", err)
		return nil, ActionOutput{}, fmt.Errorf("failed to unlock: %w", err)
	}
	return textResult("Lock screen dismissed"), ActionOutput{OK: true, Action: "unlock"}, nil
}

func (s *Server) signalHandler(sig coord.Signal) func(context.Context, *mcpsdk.CallToolRequest, SignalInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	return func(_ context.Context, _ *mcpsdk.CallToolRequest, _ SignalInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
		if err := s.daemon.Publish(sig); err != nil {
			return nil, ActionOutput{}, fmt.Errorf("failed to publish %s: %w", sig, err)
		}
		return textResult("Published %s", sig), ActionOutput{OK: true, Action: sig.String()}, nil
	}
}

func (s *Server) handleResetPosition(_ context.Context, _ *mcpsdk.CallToolRequest, _ ResetPositionInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if err := s.daemon.ResetPosition(); err != nil {
		return nil, ActionOutput{}, fmt.Errorf("failed to reset position: %w", err)
	}
	return textResult("Button position reset"), ActionOutput{OK: true, Action: "reset_position"}, nil
}
