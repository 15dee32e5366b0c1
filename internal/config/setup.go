package config

import (
	"racing-sim/internal/env"
	"racing-sim/internal/geom"
	"racing-sim/internal/physics"
	"racing-sim/internal/track"
)

// Store returns the track store rooted at TracksDir.
func (c Config) Store() *track.Store {
	return &track.Store{Root: c.TracksDir}
}

// Environment loads the configured track and vehicle and wires them into a
// simulation environment. An unknown track yields *track.NotFoundError.
func (c Config) Environment() (*env.Environment, error) {
	t, err := c.Store().Load(c.Track)
	if err != nil {
		return nil, err
	}
	vehicleCfg, err := c.VehicleConfig()
	if err != nil {
		return nil, err
	}

	vehicle := physics.NewVehicle(vehicleCfg, geom.Caster{Workers: c.Workers})
	return env.New(vehicle, t, c.Reward, env.Options{RandomSpawn: c.RandomSpawn, Seed: c.Seed}), nil
}
