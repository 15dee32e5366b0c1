package physics

import (
	"math"
	"testing"

	"racing-sim/internal/common"
	"racing-sim/internal/geom"
)

func box(half float64) geom.SegmentSet {
	return geom.FromPolyline([]common.Vec2{
		common.V(-half, -half), common.V(half, -half), common.V(half, half), common.V(-half, half),
	}, true)
}

func TestStraightDriving(t *testing.T) {
	cfg := RaceCar()
	cfg.MaxAcceleration = 10
	v := NewVehicle(cfg, geom.Caster{})

	s := v.Reset(common.V(0, 0), 0, nil)
	for i := 0; i < 5; i++ {
		s = v.Step(s, 0, 1, nil, 0.1)
	}

	if math.Abs(s.Speed-5.0) > 1e-12 {
		t.Fatalf("speed = %v, want 5", s.Speed)
	}
	if math.Abs(s.Position.X-1.5) > 1e-9 || math.Abs(s.Position.Y) > 1e-12 {
		t.Fatalf("position = %v, want (1.5, 0)", s.Position)
	}
	if s.Heading != 0 {
		t.Fatalf("heading drifted to %v", s.Heading)
	}
}

func TestCircularDriving(t *testing.T) {
	for _, wheel := range []float64{0.5, -0.3, 1} {
		cfg := RaceCar()
		v := NewVehicle(cfg, geom.Caster{})

		radius := v.TurningRadius(wheel)
		wantRadius := v.Wheelbase() / math.Tan(wheel*cfg.MaxWheelAngle)
		if radius != wantRadius {
			t.Fatalf("TurningRadius = %v, want %v", radius, wantRadius)
		}

		const speed, steps = 10.0, 2000
		armLen := math.Hypot(radius, v.Wheelbase()/2)
		dt := 2 * math.Pi * armLen / (speed * steps)

		start := common.V(3, -7)
		s := v.Reset(start, 0.4, nil)
		s.Speed = speed
		rear0 := s.RearAxle(v.Wheelbase())

		var rearHalf common.Vec2
		for i := 1; i <= steps; i++ {
			s = v.Step(s, wheel, 0, nil, dt)
			if i == steps/2 {
				rearHalf = s.RearAxle(v.Wheelbase())
			}
		}

		if turned := math.Abs(s.Heading - 0.4); math.Abs(turned-2*math.Pi) > 1e-9 {
			t.Fatalf("wheel %v: heading advanced %v, want 2pi", wheel, turned)
		}
		if d := s.Position.Sub(start).Len(); d > 1e-3 {
			t.Fatalf("wheel %v: ended %v away from start", wheel, d)
		}

		measured := rearHalf.Sub(rear0).Len() / 2
		if math.Abs(measured-math.Abs(wantRadius)) > 1e-3 {
			t.Fatalf("wheel %v: measured radius %v, want %v", wheel, measured, math.Abs(wantRadius))
		}

		// Positive wheel turns left (counter-clockwise).
		if (s.Heading > 0.4) != (wheel > 0) {
			t.Fatalf("wheel %v turned the wrong way: heading %v", wheel, s.Heading)
		}
	}
}

func TestCollisionTimeline(t *testing.T) {
	cfg := Config{
		Length: 4, Width: 2, WheelbaseRatio: 0.5,
		MaxWheelAngle: 0.3, MaxAcceleration: 1,
		Rays: 1, RayRange: 10,
	}
	v := NewVehicle(cfg, geom.Caster{})
	wall := geom.SegmentSet{geom.SegmentBetween(common.V(3, -5), common.V(3, 5))}

	s := v.Reset(common.V(0, 0), 0, wall)
	if s.Crashed {
		t.Fatal("crashed at spawn")
	}
	s.Speed = 1

	for tick := 1; tick <= 8; tick++ {
		s = v.Step(s, 0, 0, wall, 0.25)
		leading := s.Position.X + cfg.Length/2
		if want := leading >= 3; s.Crashed != want {
			t.Fatalf("tick %d: leading edge %v, crashed %v, want %v", tick, leading, s.Crashed, want)
		}
	}
}

func TestResetSensesBoundary(t *testing.T) {
	v := NewVehicle(RaceCar(), geom.Caster{})
	s := v.Reset(common.V(0, 0), 0, box(10))

	if s.Speed != 0 {
		t.Fatalf("speed = %v after reset", s.Speed)
	}
	if len(s.Vision) != 11 || len(s.Rays) != 11 || len(s.Hull) != 4 {
		t.Fatalf("derived geometry sizes: vision %d rays %d hull %d", len(s.Vision), len(s.Rays), len(s.Hull))
	}
	if got := s.Vision[5]; math.Abs(got-0.2) > 1e-12 {
		t.Fatalf("center ray depth = %v, want 0.2", got)
	}
	for i, d := range s.Vision {
		if d < 0 || d > 1 {
			t.Fatalf("ray %d depth %v outside [0,1]", i, d)
		}
	}
	for i, r := range s.Rays {
		if r.A != s.Position {
			t.Fatalf("ray %d origin %v, want car position", i, r.A)
		}
		if math.Abs(r.D.Len()-50) > 1e-9 {
			t.Fatalf("ray %d length %v", i, r.D.Len())
		}
	}
	if s.Crashed {
		t.Fatal("crashed in the middle of the box")
	}

	end := s.RayEnds()[5]
	if math.Abs(end.X-10) > 1e-9 || math.Abs(end.Y) > 1e-9 {
		t.Fatalf("center ray end = %v", end)
	}
}

func TestStepDoesNotMutate(t *testing.T) {
	v := NewVehicle(RaceCar(), geom.Caster{})
	s0 := v.Reset(common.V(1, 1), 0.3, box(20))
	snapshot := s0.Position
	vision := append([]float64(nil), s0.Vision...)

	s1 := v.Step(s0, 0.7, 1, box(20), 0.05)
	if s0.Position != snapshot || s0.Speed != 0 {
		t.Fatal("Step modified its input state")
	}
	for i := range vision {
		if s0.Vision[i] != vision[i] {
			t.Fatal("Step modified the input vision slice")
		}
	}
	if s1.Position == s0.Position {
		t.Fatal("Step did not move the car")
	}
}

func TestStepEdgeCases(t *testing.T) {
	v := NewVehicle(RaceCar(), geom.Caster{})
	s := v.Reset(common.V(0, 0), 0, nil)
	s.Speed = 5

	if got := v.Step(s, 1, 1, nil, 0); got.Position != s.Position || got.Speed != s.Speed {
		t.Fatalf("dt=0 moved the car: %+v", got)
	}
	if got := v.Step(s, 1, 1, nil, -1); got.Position != s.Position {
		t.Fatal("negative dt moved the car")
	}

	clamped := v.Step(s, 0, 7, nil, 0.1)
	unit := v.Step(s, 0, 1, nil, 0.1)
	if clamped.Speed != unit.Speed {
		t.Fatalf("acceleration not clamped: %v vs %v", clamped.Speed, unit.Speed)
	}

	nan := v.Step(s, math.NaN(), math.NaN(), nil, 0.1)
	if math.IsNaN(nan.Position.X) || nan.Speed != s.Speed {
		t.Fatalf("NaN command leaked: %+v", nan)
	}

	cfg := RaceCar()
	cfg.MaxWheelAngle = 0
	rigid := NewVehicle(cfg, geom.Caster{})
	if got := rigid.Step(s, 1, 0, nil, 0.1); got.Heading != 0 || math.IsNaN(got.Position.X) {
		t.Fatalf("zero max wheel angle produced %+v", got)
	}
}

func TestTinyWheelDrivesStraight(t *testing.T) {
	v := NewVehicle(RaceCar(), geom.Caster{})
	s := State{Speed: 10}

	for _, wheel := range []float64{1e-200, 1e-300, 1e-308, 1e-310, -1e-310} {
		got := v.Step(s, wheel, 0, nil, 0.1)
		if math.IsNaN(got.Heading) || math.IsInf(got.Heading, 0) ||
			math.IsNaN(got.Position.X) || math.IsNaN(got.Position.Y) {
			t.Fatalf("wheel %g: non-finite pose %+v", wheel, got)
		}
		if math.Abs(got.Position.X-1) > 1e-9 || math.Abs(got.Position.Y) > 1e-9 {
			t.Fatalf("wheel %g: position = %v, want (1, 0)", wheel, got.Position)
		}
	}
}

func TestSpeedIsNotClamped(t *testing.T) {
	cfg := RaceCar()
	v := NewVehicle(cfg, geom.Caster{})
	s := v.Reset(common.V(0, 0), 0, nil)
	for i := 0; i < 100; i++ {
		s = v.Step(s, 0, 1, nil, 0.1)
	}
	if s.Speed <= cfg.MaxSpeed {
		t.Fatalf("speed %v clamped at MaxSpeed %v", s.Speed, cfg.MaxSpeed)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := RaceCar().Validate(); err != nil {
		t.Fatalf("RaceCar invalid: %v", err)
	}
	if err := Sandbox().Validate(); err != nil {
		t.Fatalf("Sandbox invalid: %v", err)
	}

	broken := []func(*Config){
		func(c *Config) { c.Length = 0 },
		func(c *Config) { c.WheelbaseRatio = -1 },
		func(c *Config) { c.Rays = 0 },
		func(c *Config) { c.RayRange = 0 },
		func(c *Config) { c.MaxWheelAngle = math.Pi / 2 },
		func(c *Config) { c.FOV = -1 },
	}
	for i, mutate := range broken {
		c := RaceCar()
		mutate(&c)
		if c.Validate() == nil {
			t.Errorf("case %d: invalid config accepted", i)
		}
	}

	if _, err := Preset("sandbox"); err != nil {
		t.Fatalf("Preset(sandbox): %v", err)
	}
	if _, err := Preset("tractor"); err == nil {
		t.Fatal("unknown preset accepted")
	}
}

func TestRayFan(t *testing.T) {
	cfg := RaceCar()
	cfg.Rays = 1
	v := NewVehicle(cfg, geom.Caster{})
	s := v.Reset(common.V(0, 0), math.Pi/2, nil)
	if d := s.Rays[0].D; math.Abs(d.X) > 1e-9 || math.Abs(d.Y-cfg.RayRange) > 1e-9 {
		t.Fatalf("single ray direction %v, want straight ahead", d)
	}

	cfg.Rays = 3
	cfg.FOV = math.Pi
	v = NewVehicle(cfg, geom.Caster{})
	s = v.Reset(common.V(0, 0), 0, nil)
	want := []common.Vec2{common.V(0, -50), common.V(50, 0), common.V(0, 50)}
	for i, r := range s.Rays {
		if r.D.Sub(want[i]).Len() > 1e-9 {
			t.Fatalf("ray %d = %v, want %v", i, r.D, want[i])
		}
		if s.Vision[i] != 1 {
			t.Fatalf("ray %d saw something in empty space", i)
		}
	}
}
