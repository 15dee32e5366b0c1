package track

import (
	"racing-sim/internal/common"
	"racing-sim/internal/geom"
)

// Track is a corridor bounded by a left and a right rail, with the
// centerline waypoints it was authored from.
type Track struct {
	Name      string
	Left      []common.Vec2
	Right     []common.Vec2
	Waypoints []common.Vec2
	Closed    bool
}

// Boundary returns every rail segment the vehicle can hit. Rails are closed
// for a loop and open otherwise.
func (t *Track) Boundary() geom.SegmentSet {
	return geom.Concat(
		geom.FromPolyline(t.Left, t.Closed),
		geom.FromPolyline(t.Right, t.Closed),
	)
}

// Centerline returns the waypoint path as segments.
func (t *Track) Centerline() geom.SegmentSet {
	return geom.FromPolyline(t.Waypoints, t.Closed)
}

// Spawn returns the pose for a car placed on waypoint i, facing the next
// waypoint. The last waypoint of an open track faces away from its
// predecessor.
func (t *Track) Spawn(i int) (common.Vec2, float64) {
	n := len(t.Waypoints)
	if n == 0 {
		return common.Vec2{}, 0
	}
	i = ((i % n) + n) % n
	p := t.Waypoints[i]
	if n == 1 {
		return p, 0
	}

	switch {
	case i+1 < n:
		return p, t.Waypoints[i+1].Sub(p).Angle()
	case t.Closed:
		return p, t.Waypoints[0].Sub(p).Angle()
	default:
		return p, p.Sub(t.Waypoints[i-1]).Angle()
	}
}

// Recentered returns a copy of the track translated so the first waypoint
// sits at the origin.
func (t *Track) Recentered() *Track {
	out := &Track{Name: t.Name, Closed: t.Closed}
	var origin common.Vec2
	if len(t.Waypoints) > 0 {
		origin = t.Waypoints[0]
	}
	shift := func(pts []common.Vec2) []common.Vec2 {
		moved := make([]common.Vec2, len(pts))
		for i, p := range pts {
			moved[i] = p.Sub(origin)
		}
		return moved
	}
	out.Left = shift(t.Left)
	out.Right = shift(t.Right)
	out.Waypoints = shift(t.Waypoints)
	return out
}

// Bounds returns the box around both rails.
func (t *Track) Bounds() common.Bounds {
	return common.BoundsOf(t.Left, t.Right, t.Waypoints)
}
