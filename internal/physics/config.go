package physics

import (
	"errors"
	"fmt"
	"math"
)

// Config holds the static vehicle dimensions and limits. It is fixed once a
// Vehicle is built.
type Config struct {
	Length         float64 `json:"length"`
	Width          float64 `json:"width"`
	Height         float64 `json:"height"`
	WheelbaseRatio float64 `json:"wheelbase_ratio"` // wheelbase = Length * ratio
	TrackRatio     float64 `json:"track_ratio"`     // axle track = Width * ratio

	// MaxSpeed is informational only; Step does not clamp speed.
	MaxSpeed        float64 `json:"max_speed"`
	MaxWheelAngle   float64 `json:"max_wheel_angle"`  // radians at wheel = ±1
	MaxAcceleration float64 `json:"max_acceleration"` // units/s² at accel = ±1

	FOV      float64 `json:"fov"` // radians, spread evenly over the rays
	Rays     int     `json:"rays"`
	RayRange float64 `json:"ray_range"`
}

// RaceCar is the default training car (metres, seconds).
func RaceCar() Config {
	return Config{
		Length:          4.0,
		Width:           2.0,
		Height:          2.0,
		WheelbaseRatio:  0.9,
		TrackRatio:      1.0,
		MaxSpeed:        50,
		MaxWheelAngle:   math.Pi * 24 / 180,
		MaxAcceleration: 40.0,
		FOV:             3 * math.Pi / 2,
		Rays:            11,
		RayRange:        50.0,
	}
}

// Sandbox is a large pixel-scale car for driving around a hand-made box.
func Sandbox() Config {
	return Config{
		Length:          100,
		Width:           50,
		Height:          50,
		WheelbaseRatio:  0.9,
		TrackRatio:      0.9,
		MaxWheelAngle:   math.Pi / 8,
		MaxAcceleration: 100.0,
		FOV:             2 * math.Pi / 3,
		Rays:            5,
		RayRange:        1000.0,
	}
}

// Presets maps preset names to their configurations.
var Presets = map[string]func() Config{
	"racecar": RaceCar,
	"sandbox": Sandbox,
}

// Preset returns the named configuration.
func Preset(name string) (Config, error) {
	fn, ok := Presets[name]
	if !ok {
		return Config{}, fmt.Errorf("unknown vehicle preset %q", name)
	}
	return fn(), nil
}

// Validate checks that the configuration describes a drivable vehicle.
func (c Config) Validate() error {
	switch {
	case c.Length <= 0 || c.Width <= 0:
		return errors.New("vehicle length and width must be positive")
	case c.WheelbaseRatio <= 0:
		return errors.New("wheelbase ratio must be positive")
	case c.MaxWheelAngle < 0 || c.MaxWheelAngle >= math.Pi/2:
		return fmt.Errorf("max wheel angle %v outside [0, pi/2)", c.MaxWheelAngle)
	case c.Rays < 1:
		return fmt.Errorf("vehicle needs at least one ray, got %d", c.Rays)
	case c.RayRange <= 0:
		return fmt.Errorf("ray range must be positive, got %v", c.RayRange)
	case c.FOV < 0:
		return fmt.Errorf("field of view must not be negative, got %v", c.FOV)
	}
	return nil
}

// Wheelbase returns the front-to-rear axle distance.
func (c Config) Wheelbase() float64 {
	return c.Length * c.WheelbaseRatio
}

// Track returns the left-to-right wheel distance.
func (c Config) Track() float64 {
	return c.Width * c.TrackRatio
}
