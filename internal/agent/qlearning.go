package agent

import (
	"fmt"
	"math"
	"math/rand"

	"racing-sim/internal/physics"
	"racing-sim/internal/track"
)

// Config holds the learning hyperparameters and the discretization grid.
type Config struct {
	Alpha      float64 `json:"alpha"`       // Learning Rate
	Gamma      float64 `json:"gamma"`       // Discount Factor
	Epsilon    float64 `json:"epsilon"`     // Initial exploration rate
	MinEpsilon float64 `json:"min_epsilon"` // Exploration floor
	Decay      float64 `json:"decay"`       // Epsilon decay per action

	// Action grid: every acceleration level paired with every wheel level.
	Accelerations int `json:"accelerations"`
	WheelAngles   int `json:"wheel_angles"`

	VisionBins int     `json:"vision_bins"` // Buckets per ray depth
	SpeedStep  float64 `json:"speed_step"`  // Speed bucket size
	MaxSpeed   int     `json:"max_speed_level"`
}

// DefaultConfig returns the settings used by cmd/train.
func DefaultConfig() Config {
	return Config{
		Alpha:         0.1,
		Gamma:         0.99,
		Epsilon:       1.0,
		MinEpsilon:    0.01,
		Decay:         0.9995,
		Accelerations: 3,
		WheelAngles:   5,
		VisionBins:    3,
		SpeedStep:     5,
		MaxSpeed:      4,
	}
}

// Actions returns the size of the action grid.
func (c Config) Actions() int {
	return c.Accelerations * c.WheelAngles
}

// ActionFor maps an action index to normalized (wheel, accel) commands.
// Levels are spread evenly over [-1, 1]; a single level is 0.
func (c Config) ActionFor(index int) (wheel, accel float64) {
	return level(index%c.WheelAngles, c.WheelAngles), level(index/c.WheelAngles, c.Accelerations)
}

// VisionFits reports whether the depth buckets of that many rays pack into
// State.Vision without wrapping.
func (c Config) VisionFits(rays int) bool {
	bins := uint64(max(c.VisionBins, 1))
	var largest uint64 // Largest packed value so far
	for i := 0; i < rays; i++ {
		if largest > (math.MaxUint64-(bins-1))/bins {
			return false
		}
		largest = largest*bins + bins - 1
	}
	return true
}

func level(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return -1 + 2*float64(i)/float64(n-1)
}

// State represents the discretized state of the car.
type State struct {
	Vision     uint64 // Ray depth buckets packed base VisionBins
	SpeedLevel int    // 0: reversing or stopped, then one level per SpeedStep
	LaneIdx    int    // Lateral offset: -1 left third, 0 middle, 1 right third
	HeadingRel int    // Relative heading to track direction (-1..1)
}

// QTable stores the Q-values for state-action pairs.
type QTable map[State][]float64

type Agent interface {
	SelectAction(state State) int
	Learn(state State, action int, reward float64, nextState State)
	DebugInfoStr() string
}

type AgentQTable struct {
	QTable  QTable
	Config  Config
	Epsilon float64

	rng *rand.Rand
}

// NewAgent returns an empty Q-table agent seeded with seed.
func NewAgent(cfg Config, seed int64) *AgentQTable {
	return &AgentQTable{
		QTable:  make(QTable),
		Config:  cfg,
		Epsilon: cfg.Epsilon,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// DiscretizeState converts a continuous car state to a discrete State.
func DiscretizeState(s physics.State, mesh *track.Mesh, cfg Config) State {
	var packed uint64
	bins := max(cfg.VisionBins, 1)
	for _, depth := range s.Vision {
		b := int(depth * float64(bins))
		packed = packed*uint64(bins) + uint64(min(b, bins-1))
	}

	speedLevel := 0
	if cfg.SpeedStep > 0 && s.Speed > 0 {
		speedLevel = min(1+int(s.Speed/cfg.SpeedStep), cfg.MaxSpeed)
	}

	state := State{Vision: packed, SpeedLevel: speedLevel}

	wp, idx := mesh.GetClosestWaypoint(s.Position)
	if idx < 0 {
		return state
	}

	// Lateral offset relative to the half width.
	d := s.Position.Sub(wp.Position).Dot(wp.Normal)
	if half := wp.Width / 2; half > 0 {
		switch {
		case d < -half/3:
			state.LaneIdx = -1
		case d > half/3:
			state.LaneIdx = 1
		}
	}

	// Tangent is Normal rotated +90 deg
	trackHeading := math.Atan2(wp.Normal.X, -wp.Normal.Y)
	relHeading := math.Remainder(s.Heading-trackHeading, 2*math.Pi)

	deg30 := math.Pi / 6
	if relHeading < -deg30 {
		state.HeadingRel = -1
	} else if relHeading > deg30 {
		state.HeadingRel = 1
	}
	return state
}

// SelectAction chooses an action using Epsilon-Greedy policy.
func (a *AgentQTable) SelectAction(state State) int {
	a.Epsilon = math.Max(a.Epsilon*a.Config.Decay, a.Config.MinEpsilon)

	n := a.Config.Actions()
	if a.rng.Float64() < a.Epsilon {
		return a.rng.Intn(n)
	}
	return a.Greedy(state)
}

// Greedy returns the best known action for state, breaking ties at random.
// Unknown states get a random action.
func (a *AgentQTable) Greedy(state State) int {
	n := a.Config.Actions()
	qValues, exists := a.QTable[state]
	if !exists {
		return a.rng.Intn(n)
	}

	bestAction := 0
	maxQ := -math.MaxFloat64
	start := a.rng.Intn(n)
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		if qValues[idx] > maxQ {
			maxQ = qValues[idx]
			bestAction = idx
		}
	}
	return bestAction
}

// Learn updates the Q-Table based on the transition.
func (a *AgentQTable) Learn(state State, action int, reward float64, nextState State) {
	qValues, ok := a.QTable[state]
	if !ok {
		qValues = make([]float64, a.Config.Actions())
		a.QTable[state] = qValues
	}
	currentQ := qValues[action]

	maxNextQ := 0.0
	if nextQValues, exists := a.QTable[nextState]; exists {
		maxNextQ = -math.MaxFloat64
		for _, q := range nextQValues {
			maxNextQ = math.Max(maxNextQ, q)
		}
	}

	// Q(s,a) = Q(s,a) + Alpha * (R + Gamma * maxQ(s',a') - Q(s,a))
	qValues[action] = currentQ + a.Config.Alpha*(reward+a.Config.Gamma*maxNextQ-currentQ)
}

// LearnTerminal updates state for a transition that ended the episode.
func (a *AgentQTable) LearnTerminal(state State, action int, reward float64) {
	qValues, ok := a.QTable[state]
	if !ok {
		qValues = make([]float64, a.Config.Actions())
		a.QTable[state] = qValues
	}
	qValues[action] += a.Config.Alpha * (reward - qValues[action])
}

func (a *AgentQTable) DebugInfoStr() string {
	return fmt.Sprintf("Agent Type: Q-Table\nQ-Table Size: %d\nEpsilon: %.3f", len(a.QTable), a.Epsilon)
}
