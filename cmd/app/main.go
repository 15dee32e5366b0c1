package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/color"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/ttacon/chalk"

	"racing-sim/internal/agent"
	"racing-sim/internal/common"
	"racing-sim/internal/config"
	"racing-sim/internal/control"
	"racing-sim/internal/env"
	"racing-sim/internal/geom"
	"racing-sim/internal/physics"
	"racing-sim/internal/telemetry"
	"racing-sim/internal/track"
)

// ============================================================================
// CONFIGURATION - Adjust these values to customize the window
// ============================================================================

// Render window dimensions
const (
	WindowWidth  = 1200
	WindowHeight = 800
)

// Simulation settings
const (
	TrainingSpeedMultiplier = 200  // Ticks per frame in fast mode (1 = real-time)
	ViewScaleMargin         = 0.95 // Margin for fitting track in window (0.95 = 5% padding)
	TraceEvery              = 5    // Record the driven path every N ticks
)

// Track colors
var (
	ColorGrass  = color.RGBA{0, 50, 0, 255}
	ColorTarmac = color.RGBA{35, 30, 30, 255}
	ColorRail   = color.RGBA{0, 0, 0, 255}
	ColorGoal   = color.RGBA{255, 255, 255, 255}
)

// Visualization colors
var (
	ColorCar        = color.RGBA{255, 0, 0, 255}     // Red
	ColorCarCrashed = color.RGBA{120, 120, 120, 255} // Grey
	ColorCarOutline = color.RGBA{0, 0, 0, 255}
	ColorRay        = color.RGBA{255, 255, 255, 90}
	ColorRayHit     = color.RGBA{255, 255, 0, 255}   // Yellow
	ColorFrenet     = color.RGBA{50, 155, 50, 40}    // Faint Green
	ColorTrace      = color.RGBA{255, 255, 0, 200}   // Yellow
	ColorBestTrace  = color.RGBA{50, 255, 50, 150}   // Light Green
	ColorContact    = color.RGBA{255, 0, 255, 255}   // Magenta
)

// ============================================================================

type Game struct {
	Env   *env.Environment
	Mesh  *track.Mesh
	Track *track.Track
	View  common.View
	DT    float64

	Controller control.Controller
	Agent      *agent.AgentQTable
	AgentCfg   agent.Config
	AIMode     bool
	Learning   bool
	Fast       bool

	Hub *telemetry.Hub

	// Analytics & Visuals
	Episode      int
	Crashes      int
	EpisodeScore float64
	BestScore    float64
	CurrentPath  []common.Vec2
	BestPath     []common.Vec2
	LastReward   float64
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		g.Fast = !g.Fast
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) && g.Agent != nil {
		g.AIMode = !g.AIMode
		g.Controller.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.reset()
	}

	ticks := 1
	if g.Fast && g.AIMode {
		ticks = TrainingSpeedMultiplier
	}
	for i := 0; i < ticks; i++ {
		g.tick()
	}

	if g.Hub != nil {
		snap := telemetry.FromState(g.Env.Tick(), g.Env.State())
		snap.Reward = g.LastReward
		g.Hub.Publish(snap)
	}
	return nil
}

func (g *Game) tick() {
	var wheel, accel float64
	var current agent.State
	action := 0

	if g.AIMode {
		current = agent.DiscretizeState(g.Env.State(), g.Mesh, g.AgentCfg)
		if g.Learning {
			action = g.Agent.SelectAction(current)
		} else {
			action = g.Agent.Greedy(current)
		}
		wheel, accel = g.AgentCfg.ActionFor(action)
	} else {
		wheel, accel = g.Controller.Update(control.Keys{
			Forward: ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp),
			Back:    ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown),
			Left:    ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
			Right:   ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight),
		})
	}

	_, reward, crashed := g.Env.Step(wheel, accel, g.DT)
	g.LastReward = reward
	g.EpisodeScore += reward
	if g.Env.Tick()%TraceEvery == 0 {
		g.CurrentPath = append(g.CurrentPath, g.Env.State().Position)
	}

	if g.AIMode && g.Learning {
		if crashed {
			g.Agent.LearnTerminal(current, action, reward)
		} else {
			next := agent.DiscretizeState(g.Env.State(), g.Mesh, g.AgentCfg)
			g.Agent.Learn(current, action, reward, next)
		}
	}

	if crashed {
		g.Crashes++
		g.reset()
	}
}

// reset ends the episode, keeping the best path seen so far.
func (g *Game) reset() {
	if g.Episode == 0 || g.EpisodeScore > g.BestScore {
		g.BestScore = g.EpisodeScore
		g.BestPath = g.CurrentPath
	}
	g.Episode++
	g.EpisodeScore = 0
	g.CurrentPath = nil
	g.Controller.Reset()
	g.Env.Reset()
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(ColorGrass)
	g.drawTrack(screen)

	g.drawPath(screen, g.BestPath, 3, ColorBestTrace)
	g.drawPath(screen, g.CurrentPath, 2, ColorTrace)

	g.drawCar(screen, g.Env.State())
	g.drawHUD(screen)
}

func (g *Game) drawTrack(screen *ebiten.Image) {
	left, right := g.Track.Left, g.Track.Right
	n := min(len(left), len(right))

	var cs ebiten.ColorScale
	cs.ScaleWithColor(ColorTarmac)
	quad := func(a, b, c, d common.Vec2) {
		var path vector.Path
		for i, p := range []common.Vec2{a, b, c, d} {
			x, y := g.View.ToScreen(p)
			if i == 0 {
				path.MoveTo(x, y)
			} else {
				path.LineTo(x, y)
			}
		}
		path.Close()
		vector.FillPath(screen, &path, nil, &vector.DrawPathOptions{
			AntiAlias:  true,
			ColorScale: cs,
		})
	}
	for i := 0; i+1 < n; i++ {
		quad(left[i], left[i+1], right[i+1], right[i])
	}
	if g.Track.Closed && n > 2 {
		quad(left[n-1], left[0], right[0], right[n-1])
	}

	// Frenet ribs
	for _, wp := range g.Mesh.Waypoints {
		g.line(screen, wp.Position.Sub(wp.Normal.Scale(wp.Width/2)), wp.Position.Add(wp.Normal.Scale(wp.Width/2)), 1, ColorFrenet)
	}

	for _, seg := range g.Env.Boundary() {
		g.line(screen, seg.A, seg.End(), 2, ColorRail)
	}
	if n > 0 {
		g.line(screen, left[0], right[0], 2, ColorGoal)
	}
}

func (g *Game) drawCar(screen *ebiten.Image, s physics.State) {
	ends := s.RayEnds()
	for _, end := range ends {
		g.line(screen, s.Position, end, 1, ColorRay)
		x, y := g.View.ToScreen(end)
		vector.FillRect(screen, x-2, y-2, 4, 4, ColorRayHit, true)
	}

	fill := ColorCar
	if s.Crashed {
		fill = ColorCarCrashed
	}

	var path vector.Path
	for i, edge := range s.Hull {
		x, y := g.View.ToScreen(edge.A)
		if i == 0 {
			path.MoveTo(x, y)
		} else {
			path.LineTo(x, y)
		}
	}
	path.Close()

	var cs ebiten.ColorScale
	cs.ScaleWithColor(fill)
	vector.FillPath(screen, &path, nil, &vector.DrawPathOptions{
		AntiAlias:  true,
		ColorScale: cs,
	})
	for _, edge := range s.Hull {
		g.line(screen, edge.A, edge.End(), 1, ColorCarOutline)
	}

	// Where the hull touches the rails
	if s.Crashed {
		for _, p := range geom.IntersectionPoints(s.Hull, g.Env.Boundary()) {
			x, y := g.View.ToScreen(p)
			vector.FillRect(screen, x-3, y-3, 6, 6, ColorContact, true)
		}
	}
}

func (g *Game) drawPath(screen *ebiten.Image, path []common.Vec2, width float32, clr color.Color) {
	for j := 0; j+1 < len(path); j++ {
		g.line(screen, path[j], path[j+1], width, clr)
	}
}

func (g *Game) line(screen *ebiten.Image, a, b common.Vec2, width float32, clr color.Color) {
	x0, y0 := g.View.ToScreen(a)
	x1, y1 := g.View.ToScreen(b)
	vector.StrokeLine(screen, x0, y0, x1, y1, width, clr, true)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	s := g.Env.State()
	vector.FillRect(screen, 0, 0, 170, 190, color.RGBA{0, 0, 0, 180}, true)

	msg := "STATUS MONITOR\n"
	msg += "----------------\n"
	if g.AIMode {
		msg += "Mode:    AI (Agent)\n"
	} else {
		msg += "Mode:    Manual\n"
	}
	msg += fmt.Sprintf("Speed:   %.2f\n", s.Speed)
	msg += fmt.Sprintf("Episode: %d\n", g.Episode)
	msg += fmt.Sprintf("Crashes: %d\n", g.Crashes)
	msg += fmt.Sprintf("Score:   %.1f\n", g.EpisodeScore)
	msg += fmt.Sprintf("Best:    %.1f\n", g.BestScore)
	if s.Crashed {
		msg += "[CRASHED]\n"
	}
	if g.Fast {
		msg += "[High speed]\n"
	}
	msg += "\nWASD drive, R reset\nTab AI, F fast, Q quit"
	ebitenutil.DebugPrint(screen, msg)

	if g.AIMode {
		panelW := float32(170)
		targetX := float32(WindowWidth) - panelW - 10
		vector.FillRect(screen, targetX, 0, panelW, 80, color.RGBA{0, 0, 0, 180}, true)
		specs := "AGENT PARAMS\n"
		specs += "------------\n"
		specs += g.Agent.DebugInfoStr()
		ebitenutil.DebugPrintAt(screen, specs, int(targetX)+10, 0)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return WindowWidth, WindowHeight
}

func main() {
	configPath := flag.String("config", "", "JSON run file; defaults are used when empty")
	trackName := flag.String("track", "", "Track to drive; overrides the run file")
	aiMode := flag.Bool("ai", false, "Start with the agent driving")
	learn := flag.Bool("learn", true, "Let the agent keep learning while it drives")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatal(err)
		}
	}
	if *trackName != "" {
		cfg.Track = *trackName
	}

	sim, err := cfg.Environment()
	var notFound *track.NotFoundError
	if errors.As(err, &notFound) {
		log.Print(chalk.Red)
		log.Printf("%v", notFound)
		log.Print(chalk.Reset)
		log.Fatal("build one with trackbuilder or gen-track first")
	}
	if err != nil {
		log.Fatal(err)
	}

	ag, err := agent.Load(cfg.QTablePath, cfg.Seed)
	if err != nil {
		log.Printf("No saved agent (%v), starting from an empty Q-table", err)
		ag = agent.NewAgent(cfg.Agent, cfg.Seed)
	}

	game := &Game{
		Env:      sim,
		Mesh:     sim.Mesh(),
		Track:    sim.Track(),
		View:     common.FitView(sim.Track().Bounds(), WindowWidth, WindowHeight, ViewScaleMargin),
		DT:       cfg.DT,
		Agent:    ag,
		AgentCfg: ag.Config,
		AIMode:   *aiMode,
		Learning: *learn,
	}
	sim.Reset()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.TelemetryAddr != "" {
		game.Hub = telemetry.NewHub()
		go func() {
			if err := telemetry.Serve(ctx, cfg.TelemetryAddr, game.Hub); err != nil {
				log.Printf("telemetry stopped: %v", err)
			}
		}()
		log.Printf("Telemetry on http://%s/snapshot", cfg.TelemetryAddr)
	}

	log.Print(chalk.Green)
	log.Printf("Driving %s (%d waypoints, %.0f m)", cfg.Track, len(game.Track.Waypoints), game.Mesh.TotalLen)
	log.Print(chalk.Reset)

	ebiten.SetWindowSize(WindowWidth, WindowHeight)
	ebiten.SetWindowTitle("Racing Sim - " + cfg.Track)
	ebiten.SetTPS(int(math.Round(1 / cfg.DT)))

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}

	if game.Learning && game.Agent != nil {
		if err := game.Agent.Save(cfg.QTablePath); err != nil {
			log.Fatal(err)
		}
		log.Printf("Saved agent to %s", cfg.QTablePath)
	}
}
