package track

import (
	"image"
	"image/color"
	"math"
	"testing"

	"racing-sim/internal/common"
)

func ringImage(size int, inner, outer float64) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	c := float64(size) / 2
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			r := math.Hypot(float64(x)-c, float64(y)-c)
			if r >= inner && r <= outer {
				img.Set(x, y, color.White)
			} else {
				img.Set(x, y, color.Black)
			}
		}
	}
	return img
}

func TestColorToCellType(t *testing.T) {
	tests := []struct {
		c    color.Color
		want CellType
	}{
		{color.White, CellTarmac},
		{color.Black, CellWall},
		{color.RGBA{R: 255, A: 255}, CellStart},
		{color.RGBA{G: 200, A: 255}, CellGravel},
		{color.RGBA{R: 120, G: 120, B: 120, A: 255}, CellTarmac},
	}
	for _, tt := range tests {
		if got := ColorToCellType(tt.c); got != tt.want {
			t.Errorf("ColorToCellType(%v) = %v, want %v", tt.c, got, tt.want)
		}
	}
}

func TestTraceRing(t *testing.T) {
	const size, inner, outer = 600, 180.0, 260.0
	grid := GridFromImage(ringImage(size, inner, outer))
	grid.Scale = 0.5

	line, err := Trace(grid)
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	if !line.Closed {
		t.Fatal("ring trace did not close")
	}
	if len(line.Points) < 20 {
		t.Fatalf("only %d points", len(line.Points))
	}

	c := float64(size) / 2 * grid.Scale
	for i, p := range line.Points {
		r := math.Hypot(p.X-c, p.Y-c)
		if r < inner*grid.Scale || r > outer*grid.Scale {
			t.Fatalf("point %d at radius %v left the band", i, r)
		}
	}
	if want := (outer - inner) * grid.Scale; math.Abs(line.Width-want) > 5 {
		t.Fatalf("width = %v, want about %v", line.Width, want)
	}
}

func TestTraceEmpty(t *testing.T) {
	if _, err := Trace(NewGrid(10, 10)); err == nil {
		t.Fatal("traced an all-wall grid")
	}
}

func TestSmoothOpenKeepsEnds(t *testing.T) {
	var line []common.Vec2
	for x := 0.0; x <= 100; x += 10 {
		line = append(line, common.V(x, 0))
	}

	got := smooth(line, false)
	for i, p := range got {
		if math.Abs(p.X-line[i].X) > 1e-9 || p.Y != 0 {
			t.Fatalf("point %d moved from %v to %v", i, line[i], p)
		}
	}

	// The same points treated as a loop pull the ends toward each other.
	if wrapped := smooth(line, true); wrapped[0].X < 1 {
		t.Fatalf("closed smoothing left the first point at %v", wrapped[0])
	}
}

func TestRelaxOpenBand(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 400, 400))
	for x := 0; x < 400; x++ {
		for y := 0; y < 400; y++ {
			if x >= 180 && x <= 230 {
				img.Set(x, y, color.White)
			} else {
				img.Set(x, y, color.Black)
			}
		}
	}
	grid := GridFromImage(img)

	var pts []common.Vec2
	for y := 100.0; y <= 300; y += 20 {
		pts = append(pts, common.V(195, y))
	}
	widths := relax(grid, pts, false)

	for i, p := range pts {
		if math.Abs(p.X-205) > 1.5 {
			t.Fatalf("point %d at x=%v, want about 205", i, p.X)
		}
		if p.Y != 100+20*float64(i) {
			t.Fatalf("point %d slid along the band to %v", i, p)
		}
	}
	if first, last := pts[0], pts[len(pts)-1]; first.Y != 100 || last.Y != 300 {
		t.Fatalf("ends moved: %v %v", first, last)
	}
	if w := median(widths); math.Abs(w-52) > 3 {
		t.Fatalf("width = %v, want about 52", w)
	}
}
