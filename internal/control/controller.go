// Package control turns held keys into smoothed wheel and acceleration
// commands for a human driver.
package control

// Smoothing factors: each update keeps this share of the previous command.
const (
	AccelerationMu = 0.9
	WheelMu        = 0.9
)

// Keys is the set of driving keys held during one frame.
type Keys struct {
	Forward, Back bool
	Left, Right   bool
}

// Controller blends held keys into commands with an exponential moving
// average. When neither key of an axis is held that axis snaps back to zero.
type Controller struct {
	Wheel        float64
	Acceleration float64
}

// Update folds one frame of input into the commands and returns them.
func (c *Controller) Update(k Keys) (wheel, accel float64) {
	c.Acceleration = blend(c.Acceleration, AccelerationMu, k.Forward, k.Back)
	// Positive wheel turns clockwise on a y-down screen, which is a right turn.
	c.Wheel = blend(c.Wheel, WheelMu, k.Right, k.Left)
	return c.Wheel, c.Acceleration
}

// Reset zeroes both commands.
func (c *Controller) Reset() {
	*c = Controller{}
}

func blend(current, mu float64, positive, negative bool) float64 {
	if !positive && !negative {
		return 0
	}
	if positive {
		current = mu*current + (1-mu)*1
	}
	if negative {
		current = mu*current + (1-mu)*-1
	}
	return current
}
