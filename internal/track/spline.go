package track

import (
	"math"

	"github.com/cnkei/gospline"

	"racing-sim/internal/common"
)

// Resample fits a cubic spline through pts, parametrized by arc length, and
// returns points spaced roughly spacing apart along it. A closed path is
// sampled around the wrap and does not repeat its first point. Paths with
// fewer than three distinct points are returned unchanged.
func Resample(pts []common.Vec2, spacing float64, closed bool) []common.Vec2 {
	knots := dedupe(pts)
	if closed && len(knots) > 1 && knots[0] == knots[len(knots)-1] {
		knots = knots[:len(knots)-1]
	}
	if len(knots) < 3 || !(spacing > 0) {
		return append([]common.Vec2(nil), pts...)
	}
	if closed {
		knots = append(knots, knots[0])
	}

	arc := make([]float64, len(knots))
	xs := make([]float64, len(knots))
	ys := make([]float64, len(knots))
	for i, p := range knots {
		if i > 0 {
			arc[i] = arc[i-1] + p.Sub(knots[i-1]).Len()
		}
		xs[i] = p.X
		ys[i] = p.Y
	}
	total := arc[len(arc)-1]

	sx := gospline.NewCubicSpline(arc, xs)
	sy := gospline.NewCubicSpline(arc, ys)

	count := int(math.Round(total / spacing))
	if count < 3 {
		count = 3
	}
	if !closed {
		count++ // Keep both ends.
	}
	step := total / float64(count)
	if !closed {
		step = total / float64(count-1)
	}

	out := make([]common.Vec2, count)
	for i := range out {
		s := math.Min(float64(i)*step, total)
		out[i] = common.V(sx.At(s), sy.At(s))
	}
	return out
}

func dedupe(pts []common.Vec2) []common.Vec2 {
	out := make([]common.Vec2, 0, len(pts))
	for _, p := range pts {
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	return out
}
