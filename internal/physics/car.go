package physics

import (
	"math"

	"racing-sim/internal/common"
	"racing-sim/internal/geom"
)

// Vehicle owns the static shape of a car: its hull corners and sensor ray
// directions in the car's local frame (x forward, y left). It holds no pose;
// every pose lives in a State.
type Vehicle struct {
	cfg       Config
	wheelbase float64
	caster    geom.Caster

	localHull [4]common.Vec2
	localRays []common.Vec2
}

// State is one immutable snapshot of the simulated car. Step and Reset
// return a new State and never modify the one they are given.
type State struct {
	Position common.Vec2
	Heading  float64 // Radians
	Speed    float64 // Signed, along the heading

	Hull    geom.SegmentSet // Closed chassis outline, world space
	Rays    geom.SegmentSet // Sensor rays, world space, full length
	Vision  []float64       // Per-ray depth in [0,1]
	Crashed bool
}

// NewVehicle builds a vehicle from cfg. The caster controls how the per-tick
// ray and hull batches are evaluated.
func NewVehicle(cfg Config, caster geom.Caster) *Vehicle {
	v := &Vehicle{
		cfg:       cfg,
		wheelbase: cfg.Wheelbase(),
		caster:    caster,
	}

	halfL := cfg.Length / 2
	halfW := cfg.Width / 2
	v.localHull = [4]common.Vec2{
		{X: halfL, Y: halfW},   // Front Left
		{X: -halfL, Y: halfW},  // Rear Left
		{X: -halfL, Y: -halfW}, // Rear Right
		{X: halfL, Y: -halfW},  // Front Right
	}

	v.localRays = make([]common.Vec2, cfg.Rays)
	for i := range v.localRays {
		angle := 0.0
		if cfg.Rays > 1 {
			angle = -cfg.FOV/2 + cfg.FOV*float64(i)/float64(cfg.Rays-1)
		}
		v.localRays[i] = common.Vec2{X: math.Cos(angle), Y: math.Sin(angle)}.Scale(cfg.RayRange)
	}

	return v
}

// Config returns the configuration the vehicle was built with.
func (v *Vehicle) Config() Config {
	return v.cfg
}

// Wheelbase returns the axle distance used for the turning radius.
func (v *Vehicle) Wheelbase() float64 {
	return v.wheelbase
}

// Reset places the car at position with the given heading and zero speed,
// then senses the boundary once.
func (v *Vehicle) Reset(position common.Vec2, heading float64, boundary geom.SegmentSet) State {
	return v.sense(State{Position: position, Heading: heading}, boundary)
}

// Step advances s by dt seconds.
//
// wheel and accel are normalized commands clamped to [-1,1]. A zero wheel
// drives straight; otherwise the car rotates about its instantaneous center
// of rotation. A non-positive dt leaves the pose unchanged.
func (v *Vehicle) Step(s State, wheel, accel float64, boundary geom.SegmentSet, dt float64) State {
	next := State{Position: s.Position, Heading: s.Heading, Speed: s.Speed}
	if !(dt > 0) {
		return v.sense(next, boundary)
	}

	wheel = clampUnit(wheel)
	accel = clampUnit(accel)

	next.Speed += accel * v.cfg.MaxAcceleration * dt

	steer := wheel * v.cfg.MaxWheelAngle
	radius := math.Inf(1)
	if steer != 0 {
		radius = v.wheelbase / math.Tan(steer)
	}

	delta := 0.0
	var center common.Vec2
	if !math.IsInf(radius, 0) {
		center = v.centerOfRotation(next.Heading, radius)
		delta = math.Copysign(1, steer) * next.Speed * dt / math.Hypot(center.X, center.Y)
	}

	if delta == 0 {
		// Straight line, including steering so slight the arc is flat.
		next.Position = next.Position.Add(common.NewRotation(next.Heading).Heading().Scale(next.Speed * dt))
	} else {
		// Rigid rotation of the car about the world point Position + center.
		next.Position = next.Position.Add(arcDisplacement(center, delta))
		next.Heading += delta
	}

	return v.sense(next, boundary)
}

// centerOfRotation returns the center of rotation relative to the car
// position, in world orientation. It sits level with the rear axle, offset
// laterally by the signed turning radius.
func (v *Vehicle) centerOfRotation(heading, radius float64) common.Vec2 {
	local := common.Vec2{
		X: -v.wheelbase / 2,
		Y: radius,
	}
	return local.Rotate(heading)
}

// arcDisplacement returns center - Rotate(center, delta) without subtracting
// nearly equal terms, so huge radii keep their precision.
func arcDisplacement(center common.Vec2, delta float64) common.Vec2 {
	sin := math.Sin(delta)
	half := math.Sin(delta / 2)
	versin := 2 * half * half
	return common.Vec2{
		X: versin*center.X + sin*center.Y,
		Y: versin*center.Y - sin*center.X,
	}
}

// TurningRadius returns the signed rear-axle turning radius for a
// normalized wheel command, or +Inf when driving straight.
func (v *Vehicle) TurningRadius(wheel float64) float64 {
	steer := clampUnit(wheel) * v.cfg.MaxWheelAngle
	if steer == 0 {
		return math.Inf(1)
	}
	return v.wheelbase / math.Tan(steer)
}

// sense rebuilds the world-space hull and rays for s and runs the ray and
// collision batches against boundary.
func (v *Vehicle) sense(s State, boundary geom.SegmentSet) State {
	rot := common.NewRotation(s.Heading)

	var corners [4]common.Vec2
	for i, c := range v.localHull {
		corners[i] = s.Position.Add(rot.Apply(c))
	}
	s.Hull = geom.FromPolyline(corners[:], true)

	s.Rays = make(geom.SegmentSet, len(v.localRays))
	for i, d := range v.localRays {
		s.Rays[i] = geom.Segment{A: s.Position, D: rot.Apply(d)}
	}

	s.Vision = v.caster.Depths(s.Rays, boundary)
	s.Crashed = v.caster.Collides(s.Hull, boundary)
	return s
}

// RearAxle returns the midpoint of the rear axle for a car with the given
// wheelbase.
func (s State) RearAxle(wheelbase float64) common.Vec2 {
	return s.Position.Sub(common.NewRotation(s.Heading).Heading().Scale(wheelbase / 2))
}

// RayEnds returns the world point each ray reaches, scaled by its depth.
func (s State) RayEnds() []common.Vec2 {
	ends := make([]common.Vec2, len(s.Rays))
	for i, r := range s.Rays {
		depth := 1.0
		if i < len(s.Vision) {
			depth = s.Vision[i]
		}
		ends[i] = r.At(depth)
	}
	return ends
}

func clampUnit(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return math.Max(-1, math.Min(1, x))
}
