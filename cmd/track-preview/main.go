package main

import (
	"flag"
	"log"

	"github.com/ttacon/chalk"

	"racing-sim/internal/preview"
	"racing-sim/internal/track"
)

func main() {
	tracksDir := flag.String("tracks", "tracks", "Track store directory")
	name := flag.String("track", "", "Track to render; every stored track when empty")
	out := flag.String("out", "", "Output image; defaults to the track's preview.png")
	width := flag.Int("width", preview.DefaultOptions().Width, "Image width")
	height := flag.Int("height", preview.DefaultOptions().Height, "Image height")
	flag.Parse()

	store := &track.Store{Root: *tracksDir}
	names := []string{*name}
	if *name == "" {
		var err error
		if names, err = store.List(); err != nil {
			log.Fatal(err)
		}
		if len(names) == 0 {
			log.Fatalf("no tracks in %s", *tracksDir)
		}
	}

	opts := preview.DefaultOptions()
	opts.Width, opts.Height = *width, *height

	for _, n := range names {
		t, err := store.Load(n)
		if err != nil {
			log.Fatal(err)
		}
		path := store.PreviewPath(n)
		if *out != "" && len(names) == 1 {
			path = *out
		}
		if err := preview.Write(path, t, opts); err != nil {
			log.Fatal(err)
		}
		log.Println(chalk.Green.Color("Rendered " + n + " to " + path))
	}
}
