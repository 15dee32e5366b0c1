// Package config loads the JSON run file shared by the command line tools.
package config

import (
	"encoding/json"
	"os"
	"runtime"

	"github.com/pkg/errors"

	"racing-sim/internal/agent"
	"racing-sim/internal/env"
	"racing-sim/internal/physics"
)

// Config is one run of the simulator. Fields missing from the file keep
// their Default values.
type Config struct {
	TracksDir string `json:"tracks_dir"`
	Track     string `json:"track"`

	Vehicle         string          `json:"vehicle"`                  // Preset name
	VehicleOverride *physics.Config `json:"vehicle_config,omitempty"` // Replaces the preset when set

	DT          float64 `json:"dt"`      // Seconds per tick
	Workers     int     `json:"workers"` // Geometry goroutines per batch
	RandomSpawn bool    `json:"random_spawn"`
	Seed        int64   `json:"seed"`

	Reward env.RewardConfig `json:"reward"`
	Agent  agent.Config     `json:"agent"`

	Episodes        int    `json:"episodes"`
	MaxEpisodeSteps int    `json:"max_episode_steps"`
	QTablePath      string `json:"qtable"`

	TelemetryAddr string `json:"telemetry_addr"` // Empty disables the server
}

// Default returns the settings used when no run file is given.
func Default() Config {
	return Config{
		TracksDir:       "tracks",
		Track:           "Track-1",
		Vehicle:         "racecar",
		DT:              1.0 / 60,
		Workers:         runtime.NumCPU(),
		Seed:            1,
		Reward:          env.DefaultReward(),
		Agent:           agent.DefaultConfig(),
		Episodes:        500,
		MaxEpisodeSteps: 60 * 60,
		QTablePath:      "qtable.json",
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "could not read config %s", path)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "could not parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

// Validate checks the run settings.
func (c Config) Validate() error {
	switch {
	case c.TracksDir == "":
		return errors.New("tracks_dir is empty")
	case c.DT <= 0:
		return errors.Errorf("dt must be positive, got %v", c.DT)
	case c.Workers < 0:
		return errors.Errorf("workers must not be negative, got %d", c.Workers)
	case c.Agent.Accelerations < 1 || c.Agent.WheelAngles < 1:
		return errors.New("agent needs at least one acceleration and one wheel level")
	case c.Agent.VisionBins < 1:
		return errors.New("agent vision_bins must be at least 1")
	}
	vehicle, err := c.VehicleConfig()
	if err != nil {
		return err
	}
	if !c.Agent.VisionFits(vehicle.Rays) {
		return errors.Errorf("%d rays at %d vision_bins do not fit a 64-bit agent state", vehicle.Rays, c.Agent.VisionBins)
	}
	return nil
}

// VehicleConfig resolves the vehicle preset or override.
func (c Config) VehicleConfig() (physics.Config, error) {
	if c.VehicleOverride != nil {
		return *c.VehicleOverride, errors.Wrap(c.VehicleOverride.Validate(), "vehicle_config")
	}
	cfg, err := physics.Preset(c.Vehicle)
	if err != nil {
		return cfg, err
	}
	return cfg, errors.Wrapf(cfg.Validate(), "vehicle preset %s", c.Vehicle)
}
