package geom

import (
	"math"
	"testing"

	"racing-sim/internal/common"
)

func TestDistance(t *testing.T) {
	s := seg(0, 0, 4, 0)
	tests := []struct {
		p    common.Vec2
		want float64
	}{
		{common.V(2, 3), 3},
		{common.V(-3, 4), 5}, // clamped to A
		{common.V(7, -4), 5}, // clamped to the end
		{common.V(1, 0), 0},
	}
	for _, tt := range tests {
		if got := Distance(tt.p, s); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Distance(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}

	if got := Distance(common.V(3, 4), seg(0, 0, 0, 0)); got != 5 {
		t.Errorf("zero-length segment distance = %v", got)
	}
}

func TestNearest(t *testing.T) {
	path := FromPolyline([]common.Vec2{common.V(0, 0), common.V(10, 0), common.V(10, 10)}, false)

	idx, along, dist := Nearest(common.V(10.5, 6), path)
	if idx != 1 || math.Abs(along-6) > 1e-12 || math.Abs(dist-0.5) > 1e-12 {
		t.Fatalf("Nearest = (%d, %v, %v), want (1, 6, 0.5)", idx, along, dist)
	}

	idx, along, _ = Nearest(common.V(3, -2), path)
	if idx != 0 || math.Abs(along-3) > 1e-12 {
		t.Fatalf("Nearest = (%d, %v), want (0, 3)", idx, along)
	}

	if idx, _, _ := Nearest(common.V(0, 0), nil); idx != -1 {
		t.Fatalf("empty set index = %d", idx)
	}
}
