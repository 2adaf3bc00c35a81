package x11

import "testing"

func TestMonitorAt(t *testing.T) {
	monitors := []Monitor{
		{ID: 0, Name: "DP-1", X: 0, Y: 0, Width: 1920, Height: 1080},
		{ID: 1, Name: "HDMI-1", X: 1920, Y: 0, Width: 1280, Height: 1024},
	}

	tests := []struct {
		x, y int
		want string
	}{
		{10, 10, "DP-1"},
		{1919, 1079, "DP-1"},
		{1920, 0, "HDMI-1"},
		{3199, 1023, "HDMI-1"},
	}
	for _, tt := range tests {
		got := monitorAt(monitors, tt.x, tt.y)
		if got == nil || got.Name != tt.want {
			t.Fatalf("monitorAt(%d,%d) = %+v, want %s", tt.x, tt.y, got, tt.want)
		}
	}

	if got := monitorAt(monitors, 3200, 0); got != nil {
		t.Fatalf("expected no monitor past the right edge, got %+v", got)
	}
	if got := monitorAt(monitors, 2000, 1050); got != nil {
		t.Fatalf("expected no monitor below the short display, got %+v", got)
	}
}
