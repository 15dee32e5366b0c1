// Package geom holds the 2D line-segment machinery the simulator runs every
// tick: intersection solving, ray depth casting, collision checks, and the
// mitered rail offsets used when authoring tracks.
package geom

import "racing-sim/internal/common"

// Segment is the half-open parametric set {A + t*D : t in [0,1)}.
// Excluding t=1 keeps a shared vertex from being counted by both of the
// segments that meet there.
type Segment struct {
	A common.Vec2 // Origin
	D common.Vec2 // Direction; its length is the segment length
}

// SegmentBetween returns the segment running from a to b.
func SegmentBetween(a, b common.Vec2) Segment {
	return Segment{A: a, D: b.Sub(a)}
}

// At returns the point at parameter t.
func (s Segment) At(t float64) common.Vec2 {
	return s.A.Add(s.D.Scale(t))
}

// End returns A + D.
func (s Segment) End() common.Vec2 {
	return s.A.Add(s.D)
}

// SegmentSet is an ordered list of segments, typically built from a polyline.
type SegmentSet []Segment

// FromPolyline builds the segments joining consecutive points.
// closed wraps the last point back to the first (N points -> N segments);
// open yields N-1 segments. Fewer than 2 points gives an empty set.
func FromPolyline(points []common.Vec2, closed bool) SegmentSet {
	n := len(points)
	if n < 2 {
		return SegmentSet{}
	}

	count := n - 1
	if closed {
		count = n
	}

	set := make(SegmentSet, count)
	for i := 0; i < count; i++ {
		set[i] = SegmentBetween(points[i], points[(i+1)%n])
	}
	return set
}

// Concat returns a new set holding the segments of every input set in order.
func Concat(sets ...SegmentSet) SegmentSet {
	total := 0
	for _, s := range sets {
		total += len(s)
	}
	out := make(SegmentSet, 0, total)
	for _, s := range sets {
		out = append(out, s...)
	}
	return out
}

// Origins returns the A point of every segment. For a closed set built with
// FromPolyline this is the original polygon.
func (ss SegmentSet) Origins() []common.Vec2 {
	pts := make([]common.Vec2, len(ss))
	for i, s := range ss {
		pts[i] = s.A
	}
	return pts
}
