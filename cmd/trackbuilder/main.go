package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/ttacon/chalk"

	"racing-sim/internal/builder"
	"racing-sim/internal/common"
	"racing-sim/internal/preview"
	"racing-sim/internal/track"
)

// ============================================================================
// CONFIGURATION - Adjust these values to customize the editor
// ============================================================================

const (
	WindowWidth  = 1200
	WindowHeight = 800

	InitialScale = 8.0  // Pixels per world unit on a blank canvas
	PickRadiusPx = 10.0 // Handle grab radius, screen pixels
	HandleSizePx = 6
	ZoomStep     = 1.1
	PanStepPx    = 10.0
)

var (
	ColorBackground = color.RGBA{0, 50, 0, 255}
	ColorTarmac     = color.RGBA{35, 30, 30, 255}
	ColorRail       = color.RGBA{0, 0, 0, 255}
	ColorCenterline = color.RGBA{255, 255, 255, 120}
	ColorWaypoint   = color.RGBA{255, 255, 255, 255}
	ColorFirst      = color.RGBA{50, 255, 50, 255}
	ColorRailHandle = color.RGBA{120, 120, 255, 255}
	ColorManual     = color.RGBA{255, 200, 0, 255}
	ColorError      = color.RGBA{255, 80, 80, 255}
)

// ============================================================================

type dragState struct {
	Active bool
	Index  int
	Role   builder.Role
	Last   common.Vec2
}

type Editor struct {
	Builder *builder.Builder
	Store   *track.Store
	View    common.View
	Name    string

	drag    dragState
	status  string
	lastErr error
}

func (e *Editor) cursor() (common.Vec2, float64, float64) {
	x, y := ebiten.CursorPosition()
	return e.View.ToWorld(float64(x), float64(y)), float64(x), float64(y)
}

func (e *Editor) apply(cmd builder.Command) {
	if err := e.Builder.Apply(cmd); err != nil {
		e.lastErr = fmt.Errorf("%v: %w", cmd.Kind, err)
		return
	}
	e.lastErr = nil
}

func (e *Editor) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	world, sx, sy := e.cursor()
	pickRadius := PickRadiusPx / e.View.Scale

	// Mouse: left adds or grabs, right removes.
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		i, role, ok := e.Builder.Pick(world, pickRadius)
		switch {
		case ok && i == 0 && role == builder.Centerline && !e.Builder.Closed() && e.Builder.Len() >= 3:
			e.apply(builder.Add(e.Builder.Waypoints()[0]))
		case ok:
			e.drag = dragState{Active: true, Index: i, Role: role, Last: world}
		default:
			e.apply(builder.Add(world))
		}
	}
	if e.drag.Active {
		if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
			e.drag.Active = false
		} else if world != e.drag.Last {
			e.apply(builder.Drag(e.drag.Index, e.drag.Role, world))
			e.drag.Last = world
		}
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		if i, role, ok := e.Builder.Pick(world, pickRadius); ok && role == builder.Centerline {
			e.apply(builder.Remove(i))
		} else {
			e.apply(builder.Command{Kind: builder.CmdRemoveLast})
		}
	}

	// View
	if _, dy := ebiten.Wheel(); dy != 0 {
		factor := ZoomStep
		if dy < 0 {
			factor = 1 / ZoomStep
		}
		e.View = e.View.Zoom(factor, sx, sy)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		e.View.OffsetX += PanStepPx
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		e.View.OffsetX -= PanStepPx
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		e.View.OffsetY += PanStepPx
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		e.View.OffsetY -= PanStepPx
	}

	// Editing keys
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		e.apply(builder.Command{Kind: builder.CmdClose})
	case inpututil.IsKeyJustPressed(ebiten.KeyO):
		e.apply(builder.Command{Kind: builder.CmdOpen})
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		e.apply(builder.Command{Kind: builder.CmdReset})
		e.status = ""
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		e.save()
	}
	return nil
}

func (e *Editor) save() {
	if e.Builder.Len() < 2 {
		e.lastErr = errors.New("save: place at least two waypoints")
		return
	}
	t := e.Builder.Export()
	t.Name = e.Name
	name, err := e.Store.Save(&t)
	if err != nil {
		e.lastErr = err
		return
	}
	e.Name = name
	e.lastErr = nil
	e.status = "saved " + name
	log.Println(chalk.Green.Color("Saved " + name))

	stored, err := e.Store.Load(name)
	if err == nil {
		err = preview.Write(e.Store.PreviewPath(name), stored, preview.DefaultOptions())
	}
	if err != nil {
		log.Printf("No preview for %s: %v", name, err)
	}
}

func (e *Editor) Draw(screen *ebiten.Image) {
	screen.Fill(ColorBackground)

	pts := e.Builder.Waypoints()
	rails := e.Builder.Rails()
	n := len(pts)

	var cs ebiten.ColorScale
	cs.ScaleWithColor(ColorTarmac)
	quad := func(i, j int) {
		var path vector.Path
		for k, p := range []common.Vec2{rails.Left[i], rails.Left[j], rails.Right[j], rails.Right[i]} {
			x, y := e.View.ToScreen(p)
			if k == 0 {
				path.MoveTo(x, y)
			} else {
				path.LineTo(x, y)
			}
		}
		path.Close()
		vector.FillPath(screen, &path, nil, &vector.DrawPathOptions{AntiAlias: true, ColorScale: cs})
	}
	for i := 0; i+1 < n; i++ {
		quad(i, i+1)
	}
	if e.Builder.Closed() && n > 2 {
		quad(n-1, 0)
	}

	edges := n - 1
	if e.Builder.Closed() {
		edges = n
	}
	for i := 0; i < edges; i++ {
		j := (i + 1) % n
		e.line(screen, pts[i], pts[j], 1, ColorCenterline)
		e.line(screen, rails.Left[i], rails.Left[j], 2, ColorRail)
		e.line(screen, rails.Right[i], rails.Right[j], 2, ColorRail)
	}

	for i := range pts {
		railClr := ColorRailHandle
		if e.Builder.Manual(i) {
			railClr = ColorManual
		}
		e.handle(screen, rails.Left[i], railClr)
		e.handle(screen, rails.Right[i], railClr)

		clr := ColorWaypoint
		if i == 0 {
			clr = ColorFirst
		}
		e.handle(screen, pts[i], clr)
	}

	e.drawHUD(screen)
}

func (e *Editor) line(screen *ebiten.Image, a, b common.Vec2, width float32, clr color.Color) {
	x0, y0 := e.View.ToScreen(a)
	x1, y1 := e.View.ToScreen(b)
	vector.StrokeLine(screen, x0, y0, x1, y1, width, clr, true)
}

func (e *Editor) handle(screen *ebiten.Image, p common.Vec2, clr color.Color) {
	x, y := e.View.ToScreen(p)
	vector.FillRect(screen, x-HandleSizePx/2, y-HandleSizePx/2, HandleSizePx, HandleSizePx, clr, true)
}

func (e *Editor) drawHUD(screen *ebiten.Image) {
	vector.FillRect(screen, 0, 0, 230, 170, color.RGBA{0, 0, 0, 180}, true)

	name := e.Name
	if name == "" {
		name = "(unsaved)"
	}
	msg := "TRACK BUILDER\n"
	msg += "-------------\n"
	msg += fmt.Sprintf("Track:     %s\n", name)
	msg += fmt.Sprintf("Waypoints: %d\n", e.Builder.Len())
	msg += fmt.Sprintf("Closed:    %v\n", e.Builder.Closed())
	if e.status != "" {
		msg += e.status + "\n"
	}
	msg += "\nLMB add/drag, RMB remove\nC close, O open, R reset\nS save, wheel zoom, Esc quit"
	ebitenutil.DebugPrint(screen, msg)

	if e.lastErr != nil {
		text := "error: " + e.lastErr.Error()
		vector.FillRect(screen, 0, WindowHeight-20, float32(len(text)*6+10), 20, ColorError, true)
		ebitenutil.DebugPrintAt(screen, text, 5, WindowHeight-18)
	}
}

func (e *Editor) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return WindowWidth, WindowHeight
}

func main() {
	tracksDir := flag.String("tracks", "tracks", "Track store directory")
	edit := flag.String("edit", "", "Stored track to open for editing")
	halfWidth := flag.Float64("half-width", builder.DefaultHalfWidth, "Rail offset from the centerline")
	flag.Parse()

	editor := &Editor{
		Builder: builder.New(*halfWidth),
		Store:   &track.Store{Root: *tracksDir},
		View:    common.View{Scale: InitialScale, OffsetX: WindowWidth / 2, OffsetY: WindowHeight / 2},
	}

	if *edit != "" {
		t, err := editor.Store.Load(*edit)
		if err != nil {
			log.Fatal(err)
		}
		b, err := builder.FromCenterline(t.Waypoints, *halfWidth, t.Closed)
		if err != nil {
			log.Fatal(err)
		}
		editor.Builder = b
		editor.Name = t.Name
		editor.View = common.FitView(t.Bounds(), WindowWidth, WindowHeight, 0.8)
		log.Printf("Editing %s (%d waypoints)", t.Name, b.Len())
	}

	ebiten.SetWindowSize(WindowWidth, WindowHeight)
	ebiten.SetWindowTitle("Track Builder")
	if err := ebiten.RunGame(editor); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
