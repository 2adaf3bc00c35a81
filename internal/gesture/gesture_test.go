package gesture

import (
	"testing"

	"github.com/1broseidon/floatlock/internal/position"
)

func TestSubThresholdMovesAreTap(t *testing.T) {
	tests := []struct {
		name  string
		moves []Point
	}{
		{"no moves", nil},
		{"exact threshold x", []Point{{X: 105, Y: 200}}},
		{"exact threshold y", []Point{{X: 100, Y: 195}}},
		{"jitter", []Point{{X: 101, Y: 201}, {X: 97, Y: 204}, {X: 104.9, Y: 195.1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Press(position.Position{X: 0, Y: 100}, Point{X: 100, Y: 200})
			for _, m := range tt.moves {
				s.Move(m)
			}
			if got := s.Release(); got != Tap {
				t.Fatalf("Release() = %v, want tap", got)
			}
		})
	}
}

func TestLatchSurvivesReturnUnderThreshold(t *testing.T) {
	s := Press(position.Position{X: 0, Y: 0}, Point{X: 50, Y: 50})
	s.Move(Point{X: 56, Y: 50})
	if !s.Moved {
		t.Fatal("expected latch after crossing threshold")
	}
	s.Move(Point{X: 50, Y: 50})
	if !s.Moved {
		t.Fatal("latch reset after returning under threshold")
	}
	if got := s.Release(); got != Drag {
		t.Fatalf("Release() = %v, want drag", got)
	}
}

func TestFractionalDeltaPastThresholdLatches(t *testing.T) {
	s := Press(position.Position{X: 0, Y: 100}, Point{X: 100, Y: 200})

	got := s.Move(Point{X: 105.7, Y: 200})
	if !s.Moved {
		t.Fatal("expected latch for a 5.7px move")
	}
	if got != (position.Position{X: 5, Y: 100}) {
		t.Fatalf("Move() = %v, want (5,100)", got)
	}
	if r := s.Release(); r != Drag {
		t.Fatalf("Release() = %v, want drag", r)
	}
}

func TestMoveReportsIntermediatePositionBeforeLatch(t *testing.T) {
	s := Press(position.Position{X: 10, Y: 20}, Point{X: 0, Y: 0})

	got := s.Move(Point{X: 3, Y: -2})
	if got != (position.Position{X: 13, Y: 18}) {
		t.Fatalf("Move() = %v, want (13,18)", got)
	}
	if s.Moved {
		t.Fatal("latched below threshold")
	}
}

func TestDragScenarioFinalPosition(t *testing.T) {
	s := Press(position.Position{X: 0, Y: 100}, Point{X: 20, Y: 120})
	s.Move(Point{X: 35, Y: 115})
	final := s.Move(Point{X: 50, Y: 110})

	if final != (position.Position{X: 30, Y: 90}) {
		t.Fatalf("final position = %v, want (30,90)", final)
	}
	if got := s.Release(); got != Drag {
		t.Fatalf("Release() = %v, want drag", got)
	}
	if s.Current() != final {
		t.Fatalf("Current() = %v, want %v", s.Current(), final)
	}
}

func TestCancelAborts(t *testing.T) {
	s := Press(position.Position{}, Point{})
	s.Move(Point{X: 40})
	if got := s.Cancel(); got != Abort {
		t.Fatalf("Cancel() = %v, want abort", got)
	}
	if got := s.Release(); got != Abort {
		t.Fatalf("Release() after Cancel = %v, want abort", got)
	}
}

func TestEndedSessionIgnoresMoves(t *testing.T) {
	s := Press(position.Position{X: 5, Y: 5}, Point{})
	s.Release()
	if got := s.Move(Point{X: 100, Y: 100}); got != (position.Position{X: 5, Y: 5}) {
		t.Fatalf("Move() after release = %v, want origin", got)
	}
	if s.Moved {
		t.Fatal("ended session latched")
	}
}

func TestOutcomeString(t *testing.T) {
	if Tap.String() != "tap" || Drag.String() != "drag" || Abort.String() != "abort" {
		t.Fatalf("unexpected outcome strings: %s %s %s", Tap, Drag, Abort)
	}
}
