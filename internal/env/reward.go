package env

import (
	"racing-sim/internal/common"
	"racing-sim/internal/track"
)

// RewardConfig weights the terms of the per-step reward.
type RewardConfig struct {
	DistanceDensity float64 `json:"distance_density"` // Reward per unit of centerline progress
	TimePenalty     float64 `json:"time_penalty"`     // Penalty per simulated second
	CrashPenalty    float64 `json:"crash_penalty"`    // One-off penalty on the crashing step
}

// DefaultReward pays one point per metre and makes crashing far worse than
// standing still.
func DefaultReward() RewardConfig {
	return RewardConfig{
		DistanceDensity: 1.0,
		TimePenalty:     0.1,
		CrashPenalty:    100.0,
	}
}

// Reward scores progress along a track's centerline.
type Reward struct {
	cfg  RewardConfig
	mesh *track.Mesh
	last float64
}

// NewReward builds a reward function over mesh.
func NewReward(cfg RewardConfig, mesh *track.Mesh) *Reward {
	return &Reward{cfg: cfg, mesh: mesh}
}

// Reset makes pos the reference point for the next progress delta.
func (r *Reward) Reset(pos common.Vec2) {
	r.last = r.mesh.Progress(pos)
}

// Score returns density*progress - crash penalty - time penalty*dt for a
// car that is now at pos. Progress memory falls back to the start line
// after a crash.
func (r *Reward) Score(pos common.Vec2, crashed bool, dt float64) float64 {
	current := r.mesh.Progress(pos)
	delta := r.mesh.Advance(r.last, current)
	r.last = current

	score := r.cfg.DistanceDensity*delta - r.cfg.TimePenalty*dt
	if crashed {
		score -= r.cfg.CrashPenalty
		r.last = 0
	}
	return score
}
