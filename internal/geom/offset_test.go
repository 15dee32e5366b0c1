package geom

import (
	"errors"
	"math"
	"testing"

	"racing-sim/internal/common"
)

func closeTo(a, b common.Vec2) bool {
	return a.Sub(b).Len() < 1e-9
}

func TestOffsetUnitSquare(t *testing.T) {
	const w = 0.25
	corners := []common.Vec2{common.V(0, 0), common.V(1, 0), common.V(1, 1), common.V(0, 1)}
	center := common.V(0.5, 0.5)

	rails, err := OffsetRails(RailInput{Points: corners, HalfWidth: w, Closed: true})
	if err != nil {
		t.Fatalf("OffsetRails: %v", err)
	}

	// Counter-clockwise: the left rail is inside, the right rail outside.
	for i, c := range corners {
		outward := c.Sub(center).Normalize()

		outer := rails.Right[i].Sub(c)
		if math.Abs(outer.Len()-w*math.Sqrt2) > 1e-12 {
			t.Errorf("corner %d: outer offset length %v, want %v", i, outer.Len(), w*math.Sqrt2)
		}
		if !closeTo(outer.Normalize(), outward) {
			t.Errorf("corner %d: outer offset %v not directed away from interior", i, outer)
		}

		inner := rails.Left[i].Sub(c)
		if !closeTo(inner, outward.Scale(-w*math.Sqrt2)) {
			t.Errorf("corner %d: inner offset %v", i, inner)
		}
	}
}

func TestOffsetMiterSharesVertex(t *testing.T) {
	// Each rail edge must stay exactly HalfWidth from its centerline edge.
	pts := []common.Vec2{common.V(0, 0), common.V(10, 0), common.V(14, 6), common.V(8, 12), common.V(-2, 7)}
	const w = 1.5
	rails, err := OffsetRails(RailInput{Points: pts, HalfWidth: w, Closed: true})
	if err != nil {
		t.Fatalf("OffsetRails: %v", err)
	}

	n := len(pts)
	for i := 0; i < n; i++ {
		edge := SegmentBetween(pts[i], pts[(i+1)%n])
		normal := edge.D.Perp().Normalize()
		for _, p := range []common.Vec2{rails.Left[i], rails.Left[(i+1)%n]} {
			if d := p.Sub(edge.A).Dot(normal); math.Abs(d-w) > 1e-9 {
				t.Errorf("edge %d: left rail vertex at signed distance %v, want %v", i, d, w)
			}
		}
		for _, p := range []common.Vec2{rails.Right[i], rails.Right[(i+1)%n]} {
			if d := p.Sub(edge.A).Dot(normal); math.Abs(d+w) > 1e-9 {
				t.Errorf("edge %d: right rail vertex at signed distance %v, want %v", i, d, -w)
			}
		}
	}
}

func TestOffsetOpenPath(t *testing.T) {
	pts := []common.Vec2{common.V(0, 0), common.V(5, 0), common.V(5, 5), common.V(10, 5)}
	rails, err := OffsetRails(RailInput{Points: pts, HalfWidth: 1})
	if err != nil {
		t.Fatalf("OffsetRails: %v", err)
	}

	for _, i := range []int{0, 3} {
		if rails.Left[i] != pts[i] || rails.Right[i] != pts[i] {
			t.Errorf("end %d not flat-capped: %v %v", i, rails.Left[i], rails.Right[i])
		}
	}
	if !closeTo(rails.Left[1], common.V(4, 1)) || !closeTo(rails.Right[1], common.V(6, -1)) {
		t.Errorf("corner 1 = %v / %v", rails.Left[1], rails.Right[1])
	}
}

func TestOffsetFewPoints(t *testing.T) {
	pts := []common.Vec2{common.V(1, 2), common.V(3, 4)}
	rails, err := OffsetRails(RailInput{Points: pts, HalfWidth: 2, Closed: true})
	if err != nil {
		t.Fatalf("OffsetRails: %v", err)
	}
	for i := range pts {
		if rails.Left[i] != pts[i] || rails.Right[i] != pts[i] {
			t.Fatalf("rails should equal the centerline, got %v %v", rails.Left, rails.Right)
		}
	}
	pts[0] = common.V(9, 9)
	if rails.Left[0] == pts[0] {
		t.Fatal("rails alias the input slice")
	}
}

func TestOffsetManualPreserved(t *testing.T) {
	pts := []common.Vec2{common.V(0, 0), common.V(5, 0), common.V(5, 5), common.V(0, 5)}
	manualLeft := common.V(4.5, 0.7)
	manualRight := common.V(7, -3)
	endLeft := common.V(-1, 1)

	in := RailInput{
		Points:    pts,
		HalfWidth: 1,
		Manual:    []bool{true, true, false, false},
		Left:      []common.Vec2{endLeft, manualLeft, {}, {}},
		Right:     []common.Vec2{common.V(1, -1), manualRight, {}, {}},
	}
	rails, err := OffsetRails(in)
	if err != nil {
		t.Fatalf("OffsetRails: %v", err)
	}
	if rails.Left[1] != manualLeft || rails.Right[1] != manualRight {
		t.Fatalf("manual offsets overwritten: %v %v", rails.Left[1], rails.Right[1])
	}
	if rails.Left[0] != endLeft {
		t.Fatalf("manual end overwritten by flat cap: %v", rails.Left[0])
	}
	if !closeTo(rails.Left[2], common.V(4, 4)) {
		t.Fatalf("computed corner 2 = %v", rails.Left[2])
	}
}

func TestOffsetDegenerate(t *testing.T) {
	tests := []struct {
		name   string
		pts    []common.Vec2
		closed bool
		index  int
	}{
		{"duplicate waypoint", []common.Vec2{common.V(0, 0), common.V(1, 0), common.V(1, 0), common.V(1, 1)}, false, 1},
		{"collinear", []common.Vec2{common.V(0, 0), common.V(1, 1), common.V(2, 2)}, false, 1},
		{"reversal", []common.Vec2{common.V(0, 0), common.V(3, 0), common.V(1, 0)}, false, 1},
		{"collinear wrap", []common.Vec2{common.V(0, 0), common.V(2, 0), common.V(2, 2), common.V(0, 2), common.V(0, 1)}, true, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := OffsetRails(RailInput{Points: tt.pts, HalfWidth: 1, Closed: tt.closed})
			var degenerate *DegenerateError
			if !errors.As(err, &degenerate) {
				t.Fatalf("err = %v, want *DegenerateError", err)
			}
			if degenerate.Index != tt.index {
				t.Fatalf("index = %d, want %d", degenerate.Index, tt.index)
			}
		})
	}
}
