package geom

import (
	"fmt"
	"math"

	"racing-sim/internal/common"
)

// RailInput describes a centerline to be offset into two rails.
type RailInput struct {
	Points    []common.Vec2 // Centerline waypoints, in driving order
	HalfWidth float64
	Closed    bool

	// Manual marks vertices whose rail handles were placed by hand. For those
	// indices Left/Right hold the stored offsets, which are kept verbatim.
	// All three slices are either nil or len(Points).
	Manual []bool
	Left   []common.Vec2
	Right  []common.Vec2
}

// Rails are the two offset polylines, index-aligned with the centerline.
// Left is on the left-hand side of the driving direction.
type Rails struct {
	Left  []common.Vec2
	Right []common.Vec2
}

// DegenerateError reports a vertex whose two adjoining edges are collinear
// or of zero length, so no miter corner exists.
type DegenerateError struct {
	Index int
}

func (e *DegenerateError) Error() string {
	return fmt.Sprintf("degenerate rail corner at waypoint %d", e.Index)
}

// OffsetRails computes mitered left and right rails at HalfWidth from the
// centerline. Each corner is the intersection of the two adjoining offset
// edges, so consecutive rail edges share one vertex.
//
// Fewer than three points yields rails equal to the centerline. Open paths
// keep the raw end points as flat caps.
func OffsetRails(in RailInput) (Rails, error) {
	n := len(in.Points)
	rails := Rails{
		Left:  make([]common.Vec2, n),
		Right: make([]common.Vec2, n),
	}
	if n < 3 {
		copy(rails.Left, in.Points)
		copy(rails.Right, in.Points)
		return rails, nil
	}

	for i := 0; i < n; i++ {
		if in.manual(i) {
			rails.Left[i] = in.Left[i]
			rails.Right[i] = in.Right[i]
			continue
		}

		if !in.Closed && (i == 0 || i == n-1) {
			rails.Left[i] = in.Points[i]
			rails.Right[i] = in.Points[i]
			continue
		}

		a := in.Points[(i-1+n)%n]
		b := in.Points[i]
		c := in.Points[(i+1)%n]

		left, right, ok := miterCorner(a, b, c, in.HalfWidth)
		if !ok {
			return Rails{}, &DegenerateError{Index: i}
		}
		rails.Left[i] = left
		rails.Right[i] = right
	}

	return rails, nil
}

func (in RailInput) manual(i int) bool {
	return i < len(in.Manual) && in.Manual[i] && i < len(in.Left) && i < len(in.Right)
}

// miterCorner offsets the corner b of the path a -> b -> c to both sides.
func miterCorner(a, b, c common.Vec2, w float64) (left, right common.Vec2, ok bool) {
	ab := b.Sub(a)
	bc := c.Sub(b)

	abLen := ab.Len()
	bcLen := bc.Len()
	if abLen == 0 || bcLen == 0 {
		return common.Vec2{}, common.Vec2{}, false
	}

	det := ab.Cross(bc)
	if math.Abs(det) <= parallelEpsilon*abLen*bcLen {
		return common.Vec2{}, common.Vec2{}, false
	}

	abP := ab.Perp().Scale(w / abLen)
	bcP := bc.Perp().Scale(w / bcLen)

	// t*ab - u*bc = (c + bcP) - (a + abP); only t is needed.
	solve := func(side float64) common.Vec2 {
		start := a.Add(abP.Scale(side))
		r := c.Add(bcP.Scale(side)).Sub(start)
		t := r.Cross(bc) / det
		return start.Add(ab.Scale(t))
	}

	return solve(1), solve(-1), true
}
