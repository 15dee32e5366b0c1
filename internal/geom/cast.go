package geom

import (
	"math"

	"golang.org/x/sync/errgroup"
)

// minRowsPerWorker keeps tiny batches on the calling goroutine.
const minRowsPerWorker = 4

// Caster evaluates rows of segments (rays or hull edges) against a boundary
// set. Both inputs are read-only snapshots for the duration of a call; with
// Workers > 1 the rows are split across goroutines, each of which writes
// only its own output slots.
type Caster struct {
	Workers int
}

// Depths returns, for each ray, the smallest valid ray parameter against the
// boundary, or 1.0 when the ray sees nothing within its length.
func (c Caster) Depths(rays, boundary SegmentSet) []float64 {
	depths := make([]float64, len(rays))
	c.forEachRow(len(rays), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			depths[i] = depth(rays[i], boundary)
		}
	})
	return depths
}

// Collides reports whether any hull edge intersects any boundary segment.
func (c Caster) Collides(hull, boundary SegmentSet) bool {
	hits := make([]bool, len(hull))
	c.forEachRow(len(hull), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			hits[i] = touches(hull[i], boundary)
		}
	})
	for _, h := range hits {
		if h {
			return true
		}
	}
	return false
}

func depth(ray Segment, boundary SegmentSet) float64 {
	best := math.Inf(1)
	found := false
	for _, b := range boundary {
		p, ok := Solve(ray, b)
		if ok && p.Valid() && p.T < best {
			best = p.T
			found = true
		}
	}
	if !found {
		return 1.0
	}
	return best
}

func touches(edge Segment, boundary SegmentSet) bool {
	for _, b := range boundary {
		if Intersects(edge, b) {
			return true
		}
	}
	return false
}

// forEachRow calls fn over contiguous [lo, hi) chunks covering n rows.
func (c Caster) forEachRow(n int, fn func(lo, hi int)) {
	workers := c.Workers
	if limit := n / minRowsPerWorker; workers > limit {
		workers = limit
	}
	if workers <= 1 {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers
	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += chunk {
		lo, hi := lo, min(lo+chunk, n)
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	// Row workers never fail.
	_ = g.Wait()
}
