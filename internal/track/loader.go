package track

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"sort"

	"github.com/pkg/errors"

	"racing-sim/internal/common"
)

// Tracer settings, in pixels.
const (
	traceStep      = 20.0
	traceBeam      = 150.0
	traceMaxSteps  = 2000
	traceMinSteps  = 50
	relaxPasses    = 10
	relaxReach     = 80.0
	smoothPasses   = 2
	smoothWindow   = 5
	closeToStartPx = traceStep * 2.5
)

// Centerline is the result of tracing a painted track.
type Centerline struct {
	Points []common.Vec2 // World units
	Width  float64       // Median rail-to-rail width, world units
	Closed bool
}

// LoadGrid decodes an image file into a Grid.
func LoadGrid(path string) (*Grid, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open track image %s", path)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, errors.Wrapf(err, "could not decode track image %s", path)
	}
	return GridFromImage(img), nil
}

// GridFromImage classifies every pixel of img.
func GridFromImage(img image.Image) *Grid {
	bounds := img.Bounds()
	grid := NewGrid(bounds.Dx(), bounds.Dy())
	for x := 0; x < grid.Width; x++ {
		for y := 0; y < grid.Height; y++ {
			grid.Cells[x][y] = ColorToCellType(img.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}
	return grid
}

// TraceImage loads a painted track and traces its centerline.
func TraceImage(path string, scale float64) (*Centerline, error) {
	grid, err := LoadGrid(path)
	if err != nil {
		return nil, err
	}
	grid.Scale = scale
	return Trace(grid)
}

// Trace walks the drivable band of grid starting from the red start cell
// (or the first tarmac cell), pulls every sample toward the middle of the
// band and smooths the result.
func Trace(grid *Grid) (*Centerline, error) {
	startX, startY, ok := grid.Find(CellStart)
	if !ok {
		startX, startY, ok = grid.Find(CellTarmac)
	}
	if !ok {
		return nil, errors.New("track image has no drivable pixels")
	}

	raw, closed := walk(grid, startX, startY)
	if len(raw) < 3 {
		return nil, errors.Errorf("traced only %d centerline points", len(raw))
	}

	widths := relax(grid, raw, closed)
	points := smooth(raw, closed)

	scale := grid.Scale
	if scale <= 0 {
		scale = 1
	}
	for i := range points {
		points[i] = points[i].Scale(scale)
	}

	return &Centerline{
		Points: points,
		Width:  median(widths) * scale,
		Closed: closed,
	}, nil
}

// walk follows the deepest free beam in a half-circle fan ahead of the
// current direction until it comes back around to the start.
func walk(grid *Grid, startX, startY int) ([]common.Vec2, bool) {
	// Center of the band on the start row.
	leftX := startX
	for leftX > 0 && grid.Get(leftX, startY).Drivable() {
		leftX--
	}
	rightX := startX
	for rightX < grid.Width-1 && grid.Get(rightX, startY).Drivable() {
		rightX++
	}

	start := common.V(float64(leftX+rightX)/2, float64(startY))
	curr := start
	dir := common.V(1, 0)

	var points []common.Vec2
	for i := 0; i < traceMaxSteps; i++ {
		bestAngle := 0.0
		maxDepth := 0.0
		baseAngle := dir.Angle()

		for angle := -math.Pi / 2; angle <= math.Pi/2; angle += math.Pi / 32 {
			heading := common.NewRotation(baseAngle + angle).Heading()
			depth := 0.0
			for d := 5.0; d < traceBeam; d += 5.0 {
				c := curr.Add(heading.Scale(d))
				if !grid.Get(int(c.X), int(c.Y)).Drivable() {
					break
				}
				depth = d
			}
			if depth > maxDepth {
				maxDepth = depth
				bestAngle = baseAngle + angle
			}
		}
		if maxDepth == 0 {
			return points, false
		}

		step := common.NewRotation(bestAngle).Heading()
		curr = curr.Add(step.Scale(traceStep))
		// Exponential moving average keeps the heading from jittering.
		dir = dir.Scale(0.2).Add(step.Scale(0.8))
		points = append(points, curr)

		if i > traceMinSteps && curr.Sub(start).Len() < closeToStartPx {
			return points, true
		}
	}
	return points, false
}

// relax nudges each point toward equal wall distance on both sides and
// returns the band width measured at every point. The ends of an open path
// take their normal from their single neighbour.
func relax(grid *Grid, pts []common.Vec2, closed bool) []float64 {
	n := len(pts)
	widths := make([]float64, n)

	for iter := 0; iter < relaxPasses; iter++ {
		for i := range pts {
			prev, next := neighbours(pts, i, closed)
			normal := next.Sub(prev).Perp()
			if normal.Len() == 0 {
				continue
			}
			normal = normal.Normalize()

			dLeft, okLeft := wallDistance(grid, pts[i], normal)
			dRight, okRight := wallDistance(grid, pts[i], normal.Scale(-1))
			if okLeft && okRight {
				// Half-strength correction for stability.
				pts[i] = pts[i].Add(normal.Scale((dLeft - dRight) / 4))
				widths[i] = dLeft + dRight
			}
		}
	}
	return widths
}

func wallDistance(grid *Grid, from, dir common.Vec2) (float64, bool) {
	for d := 1.0; d < relaxReach; d++ {
		c := from.Add(dir.Scale(d))
		if !grid.Get(int(c.X), int(c.Y)).Drivable() {
			return d, true
		}
	}
	return 0, false
}

func neighbours(pts []common.Vec2, i int, closed bool) (common.Vec2, common.Vec2) {
	n := len(pts)
	if closed {
		return pts[(i-1+n)%n], pts[(i+1)%n]
	}
	return pts[max(i-1, 0)], pts[min(i+1, n-1)]
}

// smooth applies a moving average. A closed path wraps around; on an open
// path the window shrinks toward the ends so the endpoints stay put.
func smooth(pts []common.Vec2, closed bool) []common.Vec2 {
	n := len(pts)
	out := append([]common.Vec2(nil), pts...)
	for pass := 0; pass < smoothPasses; pass++ {
		temp := append([]common.Vec2(nil), out...)
		for i := range out {
			half := smoothWindow / 2
			if !closed {
				half = min(half, i, n-1-i)
			}
			var sum common.Vec2
			for j := -half; j <= half; j++ {
				sum = sum.Add(temp[(i+j+n)%n])
			}
			out[i] = sum.Scale(1 / float64(2*half+1))
		}
	}
	return out
}

func median(values []float64) float64 {
	var measured []float64
	for _, v := range values {
		if v > 0 {
			measured = append(measured, v)
		}
	}
	if len(measured) == 0 {
		return 0
	}
	sort.Float64s(measured)
	return measured[len(measured)/2]
}
