// Package preview renders a thumbnail of a track with OpenCV.
package preview

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"racing-sim/internal/common"
	"racing-sim/internal/track"
)

// Preview colours, matching the driving window.
var (
	ColorGrass  = color.RGBA{0, 50, 0, 255}
	ColorTarmac = color.RGBA{35, 30, 30, 255}
	ColorRail   = color.RGBA{0, 0, 0, 255}
	ColorGoal   = color.RGBA{255, 255, 255, 255}
)

// Options sizes the preview image.
type Options struct {
	Width, Height int
	Margin        float64 // Fraction of the image the track may fill
	RailThickness int
}

// DefaultOptions gives an 800x600 preview.
func DefaultOptions() Options {
	return Options{Width: 800, Height: 600, Margin: 0.9, RailThickness: 2}
}

// Render draws t into a new BGR matrix. The caller must Close it.
func Render(t *track.Track, opts Options) gocv.Mat {
	img := gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(float64(ColorGrass.B), float64(ColorGrass.G), float64(ColorGrass.R), 0),
		opts.Height, opts.Width, gocv.MatTypeCV8UC3,
	)

	view := common.FitView(t.Bounds(), opts.Width, opts.Height, opts.Margin)
	left := toPixels(view, t.Left)
	right := toPixels(view, t.Right)

	// Tarmac is filled one quad per rail segment, the same way the driving
	// window paints it.
	n := min(len(left), len(right))
	quads := make([][]image.Point, 0, n)
	for i := 0; i+1 < n; i++ {
		quads = append(quads, []image.Point{left[i], left[i+1], right[i+1], right[i]})
	}
	if t.Closed && n > 2 {
		quads = append(quads, []image.Point{left[n-1], left[0], right[0], right[n-1]})
	}
	if len(quads) > 0 {
		pv := gocv.NewPointsVectorFromPoints(quads)
		gocv.FillPoly(&img, pv, ColorTarmac)
		pv.Close()
	}

	rails := [][]image.Point{}
	for _, line := range [][]image.Point{left, right} {
		if len(line) > 1 {
			rails = append(rails, line)
		}
	}
	if len(rails) > 0 {
		pv := gocv.NewPointsVectorFromPoints(rails)
		gocv.Polylines(&img, pv, t.Closed, ColorRail, opts.RailThickness)
		pv.Close()
	}

	if n > 0 {
		gocv.Line(&img, left[0], right[0], ColorGoal, opts.RailThickness)
	}
	return img
}

// Write renders t and saves it to path; the format follows the extension.
func Write(path string, t *track.Track, opts Options) error {
	img := Render(t, opts)
	defer img.Close()

	if ok := gocv.IMWrite(path, img); !ok {
		return errors.Errorf("could not write preview %s", path)
	}
	return nil
}

func toPixels(view common.View, pts []common.Vec2) []image.Point {
	out := make([]image.Point, len(pts))
	for i, p := range pts {
		x, y := view.ToScreen(p)
		out[i] = image.Pt(int(x+0.5), int(y+0.5))
	}
	return out
}
