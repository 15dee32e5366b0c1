package track

import (
	"math"
	"testing"

	"racing-sim/internal/common"
)

func square() *Track {
	return &Track{
		Name:      "square",
		Waypoints: []common.Vec2{common.V(0, 0), common.V(10, 0), common.V(10, 10), common.V(0, 10)},
		Left:      []common.Vec2{common.V(1, 1), common.V(9, 1), common.V(9, 9), common.V(1, 9)},
		Right:     []common.Vec2{common.V(-1, -1), common.V(11, -1), common.V(11, 11), common.V(-1, 11)},
		Closed:    true,
	}
}

func TestBoundary(t *testing.T) {
	tr := square()
	if got := len(tr.Boundary()); got != 8 {
		t.Fatalf("closed boundary has %d segments, want 8", got)
	}
	tr.Closed = false
	if got := len(tr.Boundary()); got != 6 {
		t.Fatalf("open boundary has %d segments, want 6", got)
	}
}

func TestSpawn(t *testing.T) {
	tr := square()
	tests := []struct {
		index   int
		pos     common.Vec2
		heading float64
	}{
		{0, common.V(0, 0), 0},
		{1, common.V(10, 0), math.Pi / 2},
		{3, common.V(0, 10), -math.Pi / 2},
		{5, common.V(10, 0), math.Pi / 2},
		{-1, common.V(0, 10), -math.Pi / 2},
	}
	for _, tt := range tests {
		pos, heading := tr.Spawn(tt.index)
		if pos != tt.pos || math.Abs(heading-tt.heading) > 1e-12 {
			t.Errorf("Spawn(%d) = %v, %v; want %v, %v", tt.index, pos, heading, tt.pos, tt.heading)
		}
	}

	tr.Closed = false
	if _, heading := tr.Spawn(3); math.Abs(heading-math.Pi) > 1e-12 {
		t.Errorf("open end heading = %v, want pi", heading)
	}
	if pos, _ := (&Track{}).Spawn(0); pos != (common.Vec2{}) {
		t.Errorf("empty track spawn = %v", pos)
	}
}

func TestRecentered(t *testing.T) {
	tr := square()
	tr.Waypoints[0] = common.V(2, 3)
	out := tr.Recentered()

	if out.Waypoints[0] != (common.Vec2{}) {
		t.Fatalf("first waypoint = %v, want origin", out.Waypoints[0])
	}
	if out.Left[0] != common.V(-1, -2) || out.Right[1] != common.V(9, -4) {
		t.Fatalf("rails not shifted: %v %v", out.Left[0], out.Right[1])
	}
	if tr.Waypoints[0] != common.V(2, 3) {
		t.Fatal("Recentered modified the original track")
	}
}
