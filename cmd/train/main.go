package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	uuid "github.com/satori/go.uuid"
	"github.com/ttacon/chalk"

	"racing-sim/internal/agent"
	"racing-sim/internal/config"
	"racing-sim/internal/env"
	"racing-sim/internal/telemetry"
	"racing-sim/internal/track"
)

// Logging cadence
const (
	ReportEvery = 10  // Episodes between progress lines
	SaveEvery   = 100 // Episodes between Q-table checkpoints
)

type episodeResult struct {
	Score   float64
	Steps   int
	Crashed bool
}

func main() {
	configPath := flag.String("config", "", "JSON run file; defaults are used when empty")
	trackName := flag.String("track", "", "Track to train on; overrides the run file")
	episodes := flag.Int("episodes", 0, "Episodes to run; overrides the run file")
	fresh := flag.Bool("fresh", false, "Ignore any saved Q-table")
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
	if *episodes > 0 {
		cfg.Episodes = *episodes
	}

	sim, err := cfg.Environment()
	var notFound *track.NotFoundError
	if errors.As(err, &notFound) {
		log.Fatal(chalk.Red.Color(notFound.Error()))
	}
	if err != nil {
		log.Fatal(err)
	}

	ag := agent.NewAgent(cfg.Agent, cfg.Seed)
	if !*fresh {
		if loaded, err := agent.Load(cfg.QTablePath, cfg.Seed); err == nil {
			ag = loaded
			log.Printf("Resuming from %s (%d states)", cfg.QTablePath, len(ag.QTable))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var hub *telemetry.Hub
	if cfg.TelemetryAddr != "" {
		hub = telemetry.NewHub()
		go func() {
			if err := telemetry.Serve(ctx, cfg.TelemetryAddr, hub); err != nil {
				log.Printf("telemetry stopped: %v", err)
			}
		}()
	}

	runID := uuid.NewV4()
	log.Print(chalk.Green)
	log.Printf("Run %s: %d episodes on %s", runID, cfg.Episodes, cfg.Track)
	log.Print(chalk.Reset)

	start := time.Now()
	best := episodeResult{Score: -1e18}
	total := 0.0
	for ep := 1; ep <= cfg.Episodes; ep++ {
		if ctx.Err() != nil {
			log.Println(chalk.Yellow.Color("Interrupted"))
			break
		}

		res := runEpisode(sim, ag, cfg, hub)
		total += res.Score
		if res.Score > best.Score {
			best = res
		}

		if ep%ReportEvery == 0 {
			log.Printf("Episode %5d | score %8.1f | mean %8.1f | best %8.1f | steps %5d | states %6d | eps %.3f",
				ep, res.Score, total/float64(ep), best.Score, res.Steps, len(ag.QTable), ag.Epsilon)
		}
		if ep%SaveEvery == 0 {
			if err := ag.Save(cfg.QTablePath); err != nil {
				log.Fatal(err)
			}
		}
	}

	if err := ag.Save(cfg.QTablePath); err != nil {
		log.Fatal(err)
	}
	log.Print(chalk.Green)
	log.Printf("Run %s done in %s, best %v, saved %s", runID, time.Since(start).Round(time.Millisecond), best, cfg.QTablePath)
	log.Print(chalk.Reset)
}

// runEpisode drives one episode until a crash or the step limit.
func runEpisode(sim *env.Environment, ag *agent.AgentQTable, cfg config.Config, hub *telemetry.Hub) episodeResult {
	sim.Reset()
	mesh := sim.Mesh()

	var res episodeResult
	state := agent.DiscretizeState(sim.State(), mesh, ag.Config)
	for res.Steps < cfg.MaxEpisodeSteps {
		action := ag.SelectAction(state)
		wheel, accel := ag.Config.ActionFor(action)

		_, reward, crashed := sim.Step(wheel, accel, cfg.DT)
		res.Score += reward
		res.Steps++

		if hub != nil {
			snap := telemetry.FromState(sim.Tick(), sim.State())
			snap.Reward = reward
			hub.Publish(snap)
		}

		if crashed {
			ag.LearnTerminal(state, action, reward)
			res.Crashed = true
			break
		}
		next := agent.DiscretizeState(sim.State(), mesh, ag.Config)
		ag.Learn(state, action, reward, next)
		state = next
	}
	return res
}

func (r episodeResult) String() string {
	return fmt.Sprintf("score %.1f over %d steps (crashed: %v)", r.Score, r.Steps, r.Crashed)
}
