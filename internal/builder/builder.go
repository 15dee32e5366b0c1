// Package builder is the editing state behind the track authoring window:
// an ordered list of centerline waypoints, the rails offset from them and
// the per-waypoint handles the author has placed by hand.
package builder

import (
	"errors"

	"racing-sim/internal/common"
	"racing-sim/internal/geom"
	"racing-sim/internal/track"
)

// DefaultHalfWidth is half the corridor width of a new track.
const DefaultHalfWidth = 3.5

var (
	ErrLoopClosed        = errors.New("loop is closed, open it before adding waypoints")
	ErrDuplicateWaypoint = errors.New("waypoint repeats the previous one")
	ErrEmpty             = errors.New("no waypoints to remove")
	ErrTooFewWaypoints   = errors.New("a loop needs at least 3 waypoints")
	ErrNoSuchWaypoint    = errors.New("waypoint index out of range")
)

// Role selects which handle of a waypoint is being dragged.
type Role int

const (
	Centerline Role = iota
	LeftRail
	RightRail
)

func (r Role) String() string {
	switch r {
	case Centerline:
		return "centerline"
	case LeftRail:
		return "left"
	case RightRail:
		return "right"
	}
	return "unknown"
}

// Builder holds one track being authored. It is not safe for concurrent use.
type Builder struct {
	halfWidth float64
	closed    bool

	points []common.Vec2
	manual []bool
	left   []common.Vec2
	right  []common.Vec2
}

// New returns an empty builder producing rails halfWidth from the centerline.
func New(halfWidth float64) *Builder {
	return &Builder{halfWidth: halfWidth}
}

// FromCenterline feeds points through AddWaypoint, skipping any waypoint
// that would repeat its predecessor or fold the rails, then closes the loop
// when asked. Trailing waypoints that prevent the loop from closing are
// dropped.
func FromCenterline(points []common.Vec2, halfWidth float64, closed bool) (*Builder, error) {
	b := New(halfWidth)
	for _, p := range points {
		err := b.AddWaypoint(p)
		var degenerate *geom.DegenerateError
		if err != nil && !errors.Is(err, ErrDuplicateWaypoint) && !errors.As(err, &degenerate) {
			return nil, err
		}
	}

	for closed && !b.closed {
		err := b.Close()
		var degenerate *geom.DegenerateError
		switch {
		case err == nil:
		case errors.As(err, &degenerate) && b.Len() > 3:
			if err := b.RemoveLastWaypoint(); err != nil {
				return nil, err
			}
		default:
			return nil, err
		}
	}
	return b, nil
}

// Len returns the number of waypoints.
func (b *Builder) Len() int { return len(b.points) }

// Closed reports whether the path wraps around.
func (b *Builder) Closed() bool { return b.closed }

// HalfWidth returns the rail offset used for computed corners.
func (b *Builder) HalfWidth() float64 { return b.halfWidth }

// Waypoints returns a copy of the centerline.
func (b *Builder) Waypoints() []common.Vec2 {
	return append([]common.Vec2(nil), b.points...)
}

// Rails returns a copy of the current rails.
func (b *Builder) Rails() geom.Rails {
	return geom.Rails{
		Left:  append([]common.Vec2(nil), b.left...),
		Right: append([]common.Vec2(nil), b.right...),
	}
}

// Manual reports whether waypoint i has hand-placed rail handles.
func (b *Builder) Manual(i int) bool {
	return i >= 0 && i < len(b.manual) && b.manual[i]
}

// AddWaypoint appends p to an open path. Adding the first waypoint again
// once there are three or more closes the loop instead. A waypoint that
// would leave no valid rail corner is discarded and the error returned.
func (b *Builder) AddWaypoint(p common.Vec2) error {
	if b.closed {
		return ErrLoopClosed
	}
	n := len(b.points)
	if n > 0 && b.points[n-1] == p {
		return ErrDuplicateWaypoint
	}
	if n >= 3 && b.points[0] == p {
		return b.Close()
	}

	snap := b.snapshot()
	b.points = append(b.points, p)
	b.manual = append(b.manual, false)
	b.left = append(b.left, p)
	b.right = append(b.right, p)

	if _, err := b.Recompute(); err != nil {
		b.restore(snap)
		return err
	}
	return nil
}

// RemoveLastWaypoint drops the newest waypoint.
func (b *Builder) RemoveLastWaypoint() error {
	return b.RemoveWaypoint(len(b.points) - 1)
}

// RemoveWaypoint drops waypoint i. A loop left with fewer than three
// waypoints is reopened. Removals that would fold the rails are undone.
func (b *Builder) RemoveWaypoint(i int) error {
	n := len(b.points)
	if n == 0 {
		return ErrEmpty
	}
	if i < 0 || i >= n {
		return ErrNoSuchWaypoint
	}

	snap := b.snapshot()
	b.points = remove(b.points, i)
	b.manual = remove(b.manual, i)
	b.left = remove(b.left, i)
	b.right = remove(b.right, i)

	if b.closed && len(b.points) < 3 {
		b.closed = false
	}
	if !b.closed {
		b.clearEnds()
	}

	if _, err := b.Recompute(); err != nil {
		b.restore(snap)
		return err
	}
	return nil
}

// DragHandle moves one handle of waypoint i to p.
//
// Dragging the centerline carries any hand-placed rail handles along.
// Dragging a rail handle pins it, marks the waypoint manual and re-centres
// the waypoint between its two handles. A drag that folds the rails is
// undone.
func (b *Builder) DragHandle(i int, role Role, p common.Vec2) error {
	if i < 0 || i >= len(b.points) {
		return ErrNoSuchWaypoint
	}

	snap := b.snapshot()
	switch role {
	case Centerline:
		if b.manual[i] {
			delta := p.Sub(b.points[i])
			b.left[i] = b.left[i].Add(delta)
			b.right[i] = b.right[i].Add(delta)
		}
		b.points[i] = p
	case LeftRail:
		b.left[i] = p
		b.points[i] = p.Lerp(b.right[i], 0.5)
		b.manual[i] = true
	case RightRail:
		b.right[i] = p
		b.points[i] = p.Lerp(b.left[i], 0.5)
		b.manual[i] = true
	default:
		return errors.New("unknown handle role")
	}

	if _, err := b.Recompute(); err != nil {
		b.restore(snap)
		return err
	}
	return nil
}

// Close wraps the path into a loop.
func (b *Builder) Close() error {
	if b.closed {
		return nil
	}
	if len(b.points) < 3 {
		return ErrTooFewWaypoints
	}

	snap := b.snapshot()
	b.closed = true
	if _, err := b.Recompute(); err != nil {
		b.restore(snap)
		return err
	}
	return nil
}

// Open breaks the loop between the last and the first waypoint. The two new
// ends lose their hand-placed handles and become flat caps.
func (b *Builder) Open() error {
	if !b.closed {
		return nil
	}

	snap := b.snapshot()
	b.closed = false
	b.clearEnds()
	if _, err := b.Recompute(); err != nil {
		b.restore(snap)
		return err
	}
	return nil
}

// Reset discards every waypoint.
func (b *Builder) Reset() {
	*b = Builder{halfWidth: b.halfWidth}
}

// Recompute offsets the current centerline into rails.
func (b *Builder) Recompute() (geom.Rails, error) {
	rails, err := geom.OffsetRails(geom.RailInput{
		Points:    b.points,
		HalfWidth: b.halfWidth,
		Closed:    b.closed,
		Manual:    b.manual,
		Left:      b.left,
		Right:     b.right,
	})
	if err != nil {
		return geom.Rails{}, err
	}
	b.left = rails.Left
	b.right = rails.Right
	return b.Rails(), nil
}

// Export returns the authored track. It carries no name; the store assigns
// one on save.
func (b *Builder) Export() track.Track {
	rails := b.Rails()
	return track.Track{
		Left:      rails.Left,
		Right:     rails.Right,
		Waypoints: b.Waypoints(),
		Closed:    b.closed,
	}
}

// Pick returns the handle closest to p within radius. Centerline handles win
// ties so a fresh waypoint stays grabbable before its rails spread out.
func (b *Builder) Pick(p common.Vec2, radius float64) (int, Role, bool) {
	best, bestRole, bestDist := -1, Centerline, radius
	try := func(i int, role Role, q common.Vec2) {
		if d := p.Sub(q).Len(); d < bestDist || (d == bestDist && best < 0) {
			best, bestRole, bestDist = i, role, d
		}
	}
	for i := range b.points {
		try(i, Centerline, b.points[i])
	}
	for i := range b.points {
		if b.left[i] != b.points[i] {
			try(i, LeftRail, b.left[i])
		}
		if b.right[i] != b.points[i] {
			try(i, RightRail, b.right[i])
		}
	}
	return best, bestRole, best >= 0
}

func (b *Builder) clearEnds() {
	if n := len(b.manual); n > 0 {
		b.manual[0] = false
		b.manual[n-1] = false
	}
}

type snapshot struct {
	closed bool
	points []common.Vec2
	manual []bool
	left   []common.Vec2
	right  []common.Vec2
}

func (b *Builder) snapshot() snapshot {
	return snapshot{
		closed: b.closed,
		points: append([]common.Vec2(nil), b.points...),
		manual: append([]bool(nil), b.manual...),
		left:   append([]common.Vec2(nil), b.left...),
		right:  append([]common.Vec2(nil), b.right...),
	}
}

func (b *Builder) restore(s snapshot) {
	b.closed = s.closed
	b.points = s.points
	b.manual = s.manual
	b.left = s.left
	b.right = s.right
}

func remove[T any](s []T, i int) []T {
	out := make([]T, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}
