package geom

import (
	"math"

	"racing-sim/internal/common"
)

// Project returns the parameter of the point on s closest to p, clamped to
// [0,1]. Zero-length segments project onto their origin.
func Project(p common.Vec2, s Segment) float64 {
	lenSq := s.D.Dot(s.D)
	if lenSq == 0 {
		return 0
	}
	t := p.Sub(s.A).Dot(s.D) / lenSq
	return math.Max(0, math.Min(1, t))
}

// Distance returns the Euclidean distance from p to the closed segment s.
func Distance(p common.Vec2, s Segment) float64 {
	return p.Sub(s.At(Project(p, s))).Len()
}

// Nearest finds the segment of set closest to p. It returns the segment
// index, the distance travelled along that segment to the foot of the
// perpendicular, and the distance from p to the segment. index is -1 for an
// empty set.
func Nearest(p common.Vec2, set SegmentSet) (index int, along, dist float64) {
	index = -1
	dist = math.Inf(1)
	for i, s := range set {
		t := Project(p, s)
		d := p.Sub(s.At(t)).Len()
		if d < dist {
			index = i
			dist = d
			along = t * s.D.Len()
		}
	}
	return index, along, dist
}
