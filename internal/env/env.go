// Package env wires a vehicle to a track: spawning, stepping and scoring one
// simulated car.
package env

import (
	"math/rand"

	"racing-sim/internal/geom"
	"racing-sim/internal/physics"
	"racing-sim/internal/track"
)

// Options controls spawning.
type Options struct {
	RandomSpawn bool  // Spawn on a random waypoint instead of waypoint 0
	Seed        int64 // Seed for the spawn generator
}

// Environment runs one car on one track. It is driven from a single
// goroutine.
type Environment struct {
	vehicle  *physics.Vehicle
	track    *track.Track
	mesh     *track.Mesh
	boundary geom.SegmentSet
	reward   *Reward
	opts     Options
	rng      *rand.Rand

	state physics.State
	tick  int
}

// New builds an environment. The track boundary is computed once and never
// written afterwards.
func New(vehicle *physics.Vehicle, t *track.Track, reward RewardConfig, opts Options) *Environment {
	mesh := track.NewMesh(t)
	return &Environment{
		vehicle:  vehicle,
		track:    t,
		mesh:     mesh,
		boundary: t.Boundary(),
		reward:   NewReward(reward, mesh),
		opts:     opts,
		rng:      rand.New(rand.NewSource(opts.Seed)),
	}
}

// Reset spawns the car and returns its first state.
func (e *Environment) Reset() physics.State {
	index := 0
	if e.opts.RandomSpawn && len(e.track.Waypoints) > 0 {
		index = e.rng.Intn(len(e.track.Waypoints))
	}
	pos, heading := e.track.Spawn(index)

	e.state = e.vehicle.Reset(pos, heading, e.boundary)
	e.reward.Reset(pos)
	e.tick = 0
	return e.state
}

// Step advances the car by dt and scores the move.
func (e *Environment) Step(wheel, accel, dt float64) (vision []float64, reward float64, crashed bool) {
	e.state = e.vehicle.Step(e.state, wheel, accel, e.boundary, dt)
	e.tick++
	reward = e.reward.Score(e.state.Position, e.state.Crashed, dt)
	return e.state.Vision, reward, e.state.Crashed
}

// State returns the latest car state.
func (e *Environment) State() physics.State { return e.state }

// Tick returns the number of steps since the last reset.
func (e *Environment) Tick() int { return e.tick }

// Vehicle returns the simulated vehicle.
func (e *Environment) Vehicle() *physics.Vehicle { return e.vehicle }

// Track returns the track being driven.
func (e *Environment) Track() *track.Track { return e.track }

// Mesh returns the centerline mesh used for progress.
func (e *Environment) Mesh() *track.Mesh { return e.mesh }

// Boundary returns the rails the car is tested against.
func (e *Environment) Boundary() geom.SegmentSet { return e.boundary }
