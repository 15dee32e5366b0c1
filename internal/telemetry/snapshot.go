// Package telemetry publishes read-only snapshots of the simulated car over
// HTTP and websockets.
package telemetry

import (
	"racing-sim/internal/physics"
)

// Ray is one sensor ray clipped to what it hit.
type Ray struct {
	Origin [2]float64 `json:"origin"`
	End    [2]float64 `json:"end"`
	Depth  float64    `json:"depth"`
}

// Snapshot is the JSON view of one simulation tick.
type Snapshot struct {
	Tick     int          `json:"tick"`
	Position [2]float64   `json:"position"`
	Heading  float64      `json:"heading"`
	Speed    float64      `json:"speed"`
	Crashed  bool         `json:"crashed"`
	Hull     [][2]float64 `json:"hull"`
	Rays     []Ray        `json:"rays"`
	Reward   float64      `json:"reward,omitempty"`
}

// FromState copies the parts of s a viewer needs.
func FromState(tick int, s physics.State) Snapshot {
	snap := Snapshot{
		Tick:     tick,
		Position: [2]float64{s.Position.X, s.Position.Y},
		Heading:  s.Heading,
		Speed:    s.Speed,
		Crashed:  s.Crashed,
		Hull:     make([][2]float64, len(s.Hull)),
		Rays:     make([]Ray, len(s.Rays)),
	}
	for i, edge := range s.Hull {
		snap.Hull[i] = [2]float64{edge.A.X, edge.A.Y}
	}
	ends := s.RayEnds()
	for i, r := range s.Rays {
		snap.Rays[i] = Ray{
			Origin: [2]float64{r.A.X, r.A.Y},
			End:    [2]float64{ends[i].X, ends[i].Y},
			Depth:  1,
		}
		if i < len(s.Vision) {
			snap.Rays[i].Depth = s.Vision[i]
		}
	}
	return snap
}
