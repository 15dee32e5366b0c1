package track

import (
	"math"

	"racing-sim/internal/common"
	"racing-sim/internal/geom"
)

// Waypoint represents a point on the track centerline.
type Waypoint struct {
	ID       int
	Position common.Vec2 // World coordinates (x, y)
	Normal   common.Vec2 // Unit vector perpendicular to the track direction (pointing Right)
	Width    float64     // Rail-to-rail width at this point
	Distance float64     // Distance from start (s-coordinate)
}

// Mesh is the curvilinear coordinate system of a track's centerline.
type Mesh struct {
	Waypoints []Waypoint
	Path      geom.SegmentSet
	TotalLen  float64
	Closed    bool
}

// NewMesh builds the centerline mesh of t.
func NewMesh(t *Track) *Mesh {
	m := &Mesh{
		Path:   t.Centerline(),
		Closed: t.Closed,
	}

	n := len(t.Waypoints)
	m.Waypoints = make([]Waypoint, n)
	dist := 0.0
	for i, p := range t.Waypoints {
		m.Waypoints[i] = Waypoint{
			ID:       i,
			Position: p,
			Normal:   rightNormal(t.Waypoints, i, t.Closed),
			Distance: dist,
		}
		if i < len(t.Left) && i < len(t.Right) {
			m.Waypoints[i].Width = t.Left[i].Sub(t.Right[i]).Len()
		}
		if i < len(m.Path) {
			dist += m.Path[i].D.Len()
		}
	}
	m.TotalLen = dist
	return m
}

// rightNormal uses the central difference of the neighbours, falling back to
// the single adjacent edge at the ends of an open path.
func rightNormal(pts []common.Vec2, i int, closed bool) common.Vec2 {
	n := len(pts)
	if n < 2 {
		return common.Vec2{}
	}
	prev, next := i-1, i+1
	if closed {
		prev = (prev + n) % n
		next %= n
	} else {
		prev = max(prev, 0)
		next = min(next, n-1)
	}
	tangent := pts[next].Sub(pts[prev])
	return tangent.Perp().Scale(-1).Normalize()
}

// GetClosestWaypoint finds the waypoint closest to the given world position.
// Returns the waypoint and its index, or -1 for an empty mesh.
func (m *Mesh) GetClosestWaypoint(pos common.Vec2) (Waypoint, int) {
	minDistSq := math.MaxFloat64
	closestIdx := -1

	for i, wp := range m.Waypoints {
		d := pos.Sub(wp.Position)
		if distSq := d.Dot(d); distSq < minDistSq {
			minDistSq = distSq
			closestIdx = i
		}
	}

	if closestIdx == -1 {
		return Waypoint{}, -1
	}
	return m.Waypoints[closestIdx], closestIdx
}

// WorldToFrenet converts World (x,y) to Frenet (s,d).
// s: distance along the centerline to the foot of the perpendicular
// d: lateral offset (positive = right of center, negative = left)
func (m *Mesh) WorldToFrenet(pos common.Vec2) (float64, float64) {
	idx, along, dist := geom.Nearest(pos, m.Path)
	if idx < 0 {
		return 0, 0
	}
	seg := m.Path[idx]
	s := m.Waypoints[idx].Distance + along

	// The sign comes from which side of the segment the point lies on.
	d := dist
	if seg.D.Cross(pos.Sub(seg.A)) > 0 {
		d = -d
	}
	return s, d
}

// Progress returns the s-coordinate of pos.
func (m *Mesh) Progress(pos common.Vec2) float64 {
	s, _ := m.WorldToFrenet(pos)
	return s
}

// Advance returns the signed progress from s0 to s1. On a closed track the
// shorter way around wins, so crossing the start line counts as forward.
func (m *Mesh) Advance(s0, s1 float64) float64 {
	delta := s1 - s0
	if !m.Closed || m.TotalLen == 0 {
		return delta
	}
	half := m.TotalLen / 2
	switch {
	case delta > half:
		delta -= m.TotalLen
	case delta < -half:
		delta += m.TotalLen
	}
	return delta
}
