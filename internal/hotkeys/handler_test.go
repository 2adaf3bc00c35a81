package hotkeys

import (
	"io"
	"log/slog"
	"sort"
	"testing"

	"github.com/1broseidon/floatlock/internal/config"
)

func TestBindingsSkipEmpty(t *testing.T) {
	got := bindings(config.HotkeyConfig{Lock: "Mod4-Mod1-l"})
	if len(got) != 1 || got[0].name != "lock" || got[0].sequence != "Mod4-Mod1-l" {
		t.Fatalf("unexpected bindings %+v", got)
	}

	got = bindings(config.HotkeyConfig{Lock: "Mod4-l", ToggleButton: "Mod4-b"})
	if len(got) != 2 || got[1].name != "toggle_button" {
		t.Fatalf("unexpected bindings %+v", got)
	}

	if got := bindings(config.HotkeyConfig{}); len(got) != 0 {
		t.Fatalf("expected no bindings, got %+v", got)
	}
}

func TestIgnoreMasks(t *testing.T) {
	got := ignoreMasks([]uint16{2, 16})
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })

	want := []uint16{0, 2, 16, 18}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

type fakeActions struct {
	locks   int
	toggles int
}

func (f *fakeActions) Lock() error   { f.locks++; return nil }
func (f *fakeActions) ToggleButton() { f.toggles++ }

func TestCallbacksDispatch(t *testing.T) {
	actions := &fakeActions{}
	h := &Handler{actions: actions, logger: defaultLogger()}

	h.callback("lock")()
	h.callback("toggle_button")()
	h.callback("toggle_button")()

	if actions.locks != 1 || actions.toggles != 2 {
		t.Fatalf("unexpected dispatch counts %+v", actions)
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
