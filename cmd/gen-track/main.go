package main

import (
	"flag"
	"image"
	"image/color"
	"image/png"
	"log"
	"math"
	"os"

	"github.com/pkg/errors"
	"github.com/ttacon/chalk"

	"racing-sim/internal/builder"
	"racing-sim/internal/common"
	"racing-sim/internal/preview"
	"racing-sim/internal/track"
)

// Generated oval, world units.
const (
	RadiusX     = 60.0
	RadiusY     = 40.0
	OvalSamples = 48
	Spacing     = 4.0 // Resampled waypoint spacing
)

func main() {
	tracksDir := flag.String("tracks", "tracks", "Track store directory")
	name := flag.String("name", "", "Track name; defaults to the next free Track-N")
	imagePath := flag.String("image", "", "Trace the centerline of a painted track image instead of generating an oval")
	scale := flag.Float64("scale", 0.25, "World units per pixel when tracing an image")
	halfWidth := flag.Float64("half-width", builder.DefaultHalfWidth, "Rail offset from the centerline")
	paint := flag.String("paint", "", "Only paint an oval track image to this path")
	noPreview := flag.Bool("no-preview", false, "Skip writing preview.png")
	flag.Parse()

	if *paint != "" {
		if err := paintOval(*paint, 800, 600); err != nil {
			log.Fatal(err)
		}
		log.Printf("Painted %s", *paint)
		return
	}

	points, hw, closed := ovalCenterline(), *halfWidth, true
	if *imagePath != "" {
		line, err := track.TraceImage(*imagePath, *scale)
		if err != nil {
			log.Fatal(err)
		}
		points, closed = line.Points, line.Closed
		if line.Width > 0 && !isFlagSet("half-width") {
			hw = line.Width / 2
		}
		log.Printf("Traced %d centerline points from %s (width %.1f)", len(points), *imagePath, line.Width)
	}

	points = track.Resample(points, Spacing, closed)
	b, err := builder.FromCenterline(points, hw, closed)
	if err != nil {
		log.Fatal(err)
	}

	t := b.Export()
	t.Name = *name
	store := &track.Store{Root: *tracksDir}
	saved, err := store.Save(&t)
	if err != nil {
		log.Fatal(err)
	}

	log.Print(chalk.Green)
	log.Printf("Saved %s with %d waypoints (closed: %v)", saved, b.Len(), b.Closed())
	log.Print(chalk.Reset)

	if *noPreview {
		return
	}
	stored, err := store.Load(saved)
	if err != nil {
		log.Fatal(err)
	}
	if err := preview.Write(store.PreviewPath(saved), stored, preview.DefaultOptions()); err != nil {
		log.Printf("No preview: %v", err)
	}
}

func ovalCenterline() []common.Vec2 {
	pts := make([]common.Vec2, OvalSamples)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / OvalSamples
		pts[i] = common.V(RadiusX*math.Cos(a), RadiusY*math.Sin(a))
	}
	return pts
}

func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// paintOval draws a tarmac ring on a wall background with a red start patch,
// in the colors the image tracer reads.
func paintOval(path string, width, height int) error {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	wall := color.RGBA{0, 0, 0, 255}
	tarmac := color.RGBA{255, 255, 255, 255}
	start := color.RGBA{255, 0, 0, 255}
	gravel := color.RGBA{0, 255, 0, 255}

	centerX, centerY := width/2, height/2
	radiusX, radiusY := 300.0, 200.0
	trackWidth := 50.0

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dx := float64(x - centerX)
			dy := float64(y - centerY)

			// Ellipse equation: (x/a)^2 + (y/b)^2 = 1
			dist := (dx*dx)/(radiusX*radiusX) + (dy*dy)/(radiusY*radiusY)
			if dist <= 1.0 && dist >= 0.6 {
				img.Set(x, y, tarmac)
			} else {
				img.Set(x, y, wall)
			}
		}
	}

	for y := centerY - int(radiusY); y < centerY-int(radiusY)+int(trackWidth); y++ {
		for x := centerX - 10; x < centerX+10; x++ {
			if img.RGBAAt(x, y) == tarmac {
				img.Set(x, y, start)
			}
		}
	}

	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			img.Set(x, y, gravel)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "could not create %s", path)
	}
	defer f.Close()
	return errors.Wrapf(png.Encode(f, img), "could not encode %s", path)
}
