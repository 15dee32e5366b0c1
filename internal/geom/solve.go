package geom

import (
	"math"

	"racing-sim/internal/common"
)

// parallelEpsilon bounds |det| relative to |d0|*|d1|. Below it the two
// directions are treated as parallel (or one of them as zero-length).
const parallelEpsilon = 1e-12

// Params are the solved parameters of an intersection:
// s0.At(T) == s1.At(S).
type Params struct {
	T, S float64
}

// Valid reports whether both parameters fall inside the half-open [0,1).
func (p Params) Valid() bool {
	return p.T >= 0 && p.T < 1 && p.S >= 0 && p.S < 1
}

// Solve intersects the infinite lines carrying s0 and s1 by solving
//
//	[d0 | -d1] * [t, s]^T = a1 - a0
//
// with Cramer's rule. ok is false when the system is singular (parallel,
// collinear, or a zero-length direction); no NaN or Inf ever leaves Solve.
func Solve(s0, s1 Segment) (p Params, ok bool) {
	det := s0.D.Cross(s1.D)
	if math.Abs(det) <= parallelEpsilon*s0.D.Len()*s1.D.Len() {
		return Params{}, false
	}

	r := s1.A.Sub(s0.A)
	return Params{
		T: r.Cross(s1.D) / det,
		S: r.Cross(s0.D) / det,
	}, true
}

// Intersects reports whether s0 and s1 share a point inside both half-open
// parameter ranges.
func Intersects(s0, s1 Segment) bool {
	p, ok := Solve(s0, s1)
	return ok && p.Valid()
}

// Hit is one cell of a pairwise evaluation.
type Hit struct {
	Params
	OK bool // solvable and valid
}

// Grid is the row-major M x N outer pairing of two segment sets.
type Grid struct {
	Rows, Cols int
	Hits       []Hit
}

// At returns the result for row i (first set) and column j (second set).
func (g Grid) At(i, j int) Hit {
	return g.Hits[i*g.Cols+j]
}

// Pairwise evaluates every (set0[i], set1[j]) pair.
func Pairwise(set0, set1 SegmentSet) Grid {
	g := Grid{Rows: len(set0), Cols: len(set1), Hits: make([]Hit, len(set0)*len(set1))}
	for i, s0 := range set0 {
		row := g.Hits[i*g.Cols : (i+1)*g.Cols]
		for j, s1 := range set1 {
			p, ok := Solve(s0, s1)
			row[j] = Hit{Params: p, OK: ok && p.Valid()}
		}
	}
	return g
}

// IntersectionPoints returns the world point of every valid pair, row by row.
func IntersectionPoints(set0, set1 SegmentSet) []common.Vec2 {
	var pts []common.Vec2
	for _, s0 := range set0 {
		for _, s1 := range set1 {
			if p, ok := Solve(s0, s1); ok && p.Valid() {
				pts = append(pts, s0.At(p.T))
			}
		}
	}
	return pts
}
